package kernel

import (
	"testing"
	"time"
)

// runTableFor starts tbl's scheduler loop in the background and returns a
// stop func. Tests drive real goroutines end to end rather than poking at
// state directly, since fork/exit/wait/sleep all suspend through the
// dispatch/parkLocked rendezvous in context.go.
func runTableFor(t *testing.T, tbl *Table) func() {
	t.Helper()
	stop := make(chan struct{})
	go tbl.Run(stop)
	return func() { close(stop) }
}

func waitForState(t *testing.T, tbl *Table, pid int, want State) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		snap := tbl.Snapshot()
		for _, s := range snap.Slots {
			if s.PID == pid && s.State == want {
				return
			}
		}
		select {
		case <-deadline:
			t.Fatalf("fail: pid %d never reached state %s; last snapshot: %+v", pid, want, snap.Slots)
		case <-time.After(time.Millisecond):
		}
	}
}

func TestForkExitWait(t *testing.T) {
	tbl := NewTable(nil)
	childDone := make(chan struct{})

	var childPID int
	init := tbl.Bootstrap(func(p *Slot) {
		childPID = tbl.Fork(p, func(c *Slot) {
			close(childDone)
			tbl.Exit(c)
		})
		pid := tbl.Wait(p)
		if pid != childPID {
			t.Errorf("fail: Wait returned %d, want child pid %d", pid, childPID)
		}
		tbl.Exit(p)
	})

	stop := runTableFor(t, tbl)
	defer stop()

	select {
	case <-childDone:
	case <-time.After(2 * time.Second):
		t.Fatal("fail: child never ran")
	}
	waitForState(t, tbl, init.PID, Zombie)
}

func TestWaitReturnsMinusOneWithNoChildren(t *testing.T) {
	tbl := NewTable(nil)
	result := make(chan int, 1)

	tbl.Bootstrap(func(p *Slot) {
		result <- tbl.Wait(p)
		tbl.Exit(p)
	})

	stop := runTableFor(t, tbl)
	defer stop()

	select {
	case got := <-result:
		if got != -1 {
			t.Fatalf("fail: Wait with no children should return -1, got %d", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("fail: Wait never returned")
	}
}

func TestSleepWakeup(t *testing.T) {
	tbl := NewTable(nil)
	woke := make(chan struct{})
	chanKey := "test-channel"

	init := tbl.Bootstrap(func(p *Slot) {
		tbl.Fork(p, func(c *Slot) {
			tbl.Sleep(c, chanKey)
			close(woke)
			tbl.Exit(c)
		})
		// give the child a chance to reach Sleeping before we wake it
		time.Sleep(20 * time.Millisecond)
		tbl.Wakeup(chanKey)
		tbl.Wait(p)
		tbl.Exit(p)
	})

	stop := runTableFor(t, tbl)
	defer stop()

	select {
	case <-woke:
	case <-time.After(2 * time.Second):
		t.Fatal("fail: sleeper was never woken")
	}
	waitForState(t, tbl, init.PID, Zombie)
}

func TestKillWakesSleeperAndIsObserved(t *testing.T) {
	tbl := NewTable(nil)
	observed := make(chan bool, 1)
	var childPID int

	init := tbl.Bootstrap(func(p *Slot) {
		childPID = tbl.Fork(p, func(c *Slot) {
			tbl.Sleep(c, "never-woken")
			observed <- CheckKilled(c)
			tbl.Exit(c)
		})
		time.Sleep(20 * time.Millisecond)
		if got := tbl.Kill(childPID); got != 0 {
			t.Errorf("fail: Kill(%d) should succeed, got %d", childPID, got)
		}
		tbl.Wait(p)
		tbl.Exit(p)
	})

	stop := runTableFor(t, tbl)
	defer stop()

	select {
	case killed := <-observed:
		if !killed {
			t.Fatal("fail: child should observe CheckKilled true after being killed while sleeping")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("fail: killed child never resumed to observe its flag")
	}
	waitForState(t, tbl, init.PID, Zombie)
}
