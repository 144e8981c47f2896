package kernel

import (
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"
)

func newTestTable(t *testing.T) (*Table, *Slot) {
	t.Helper()
	tbl := NewTable(nil)
	init := tbl.Bootstrap(func(p *Slot) {
		<-make(chan struct{}) // parked forever; tests drive p's transitions directly
	})
	return tbl, init
}

func TestBootstrapInstallsRunnableInit(t *testing.T) {
	tbl, init := newTestTable(t)

	snap := tbl.Snapshot()
	if len(snap.Slots) != 1 {
		t.Fatalf("fail: expected exactly one occupied slot after Bootstrap, got %s", spew.Sdump(snap.Slots))
	}
	if snap.Slots[0].State != Runnable {
		t.Fatalf("fail: init slot should start RUNNABLE, got %s", snap.Slots[0].State)
	}
	if init.Stack <= 0 || init.Heap <= 0 {
		t.Fatalf("fail: init slot needs a usable Stack/Heap base for thread_create's guard-page math, got Stack=%d Heap=%d", init.Stack, init.Heap)
	}
}

func TestAllocprocExhaustion(t *testing.T) {
	tbl, _ := newTestTable(t)

	var got int
	for i := 0; i < NPROC; i++ {
		tbl.mu.Lock()
		p := tbl.allocproc()
		tbl.mu.Unlock()
		if p == nil {
			got = i
			break
		}
	}
	// one slot is already occupied by init, so the table fills after NPROC-1
	// more allocations.
	if got != NPROC-1 {
		t.Fatalf("fail: expected allocproc to exhaust after %d calls, got %d", NPROC-1, got)
	}
}

func TestRunningSlotFindsTheDispatchedSlot(t *testing.T) {
	tbl, _ := newTestTable(t)

	if got := tbl.RunningSlot(); got != nil {
		t.Fatalf("fail: expected no RUNNING slot before any dispatch, got pid %d", got.PID)
	}

	stop := make(chan struct{})
	go tbl.Run(stop)
	defer close(stop)

	deadline := time.After(2 * time.Second)
	for {
		if got := tbl.RunningSlot(); got != nil {
			return
		}
		select {
		case <-deadline:
			t.Fatal("fail: no slot ever became RUNNING")
		case <-time.After(time.Millisecond):
		}
	}
}

func TestSnapshotReflectsDiscipline(t *testing.T) {
	tbl, init := newTestTable(t)

	if got := tbl.SetCPUShare(init, 10); got != 10 {
		t.Fatalf("fail: SetCPUShare(10) on init should succeed, got %d", got)
	}

	snap := tbl.Snapshot()
	if len(snap.Slots) != 1 || snap.Slots[0].Type != 's' {
		t.Fatalf("fail: expected snapshot to show a stride slot after SetCPUShare, got %s", spew.Sdump(snap))
	}
	if snap.Slots[0].Tickets != 10 {
		t.Fatalf("fail: expected 10 tickets in snapshot, got %d", snap.Slots[0].Tickets)
	}
	if snap.TotalTickets != 10 || snap.StrideCount != 1 {
		t.Fatalf("fail: expected table-level stride bookkeeping to match, got %s", spew.Sdump(snap))
	}
}
