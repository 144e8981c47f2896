package kernel

import "testing"

func TestTicklimitAndRunlimit(t *testing.T) {
	cases := []struct{ priority, tick, run int }{
		{0, 1, 5},
		{1, 2, 10},
	}
	for _, c := range cases {
		if got := ticklimit(c.priority); got != c.tick {
			t.Fatalf("fail: ticklimit(%d) = %d, want %d", c.priority, got, c.tick)
		}
		if got := runlimit(c.priority); got != c.run {
			t.Fatalf("fail: runlimit(%d) = %d, want %d", c.priority, got, c.run)
		}
	}
}

func TestCheckDownPriorityDemotesAtRunlimit(t *testing.T) {
	d := &MLFQDiscipline{Priority: 0, Run: 5}
	checkDownPriority(d)
	if d.Priority != 1 || d.Run != 0 || d.Tick != 0 {
		t.Fatalf("fail: expected demotion to priority 1 with counters cleared, got %+v", d)
	}

	d2 := &MLFQDiscipline{Priority: 2, Run: 999}
	checkDownPriority(d2)
	if d2.Priority != 2 {
		t.Fatal("fail: priority 2 must never age out")
	}
}

func TestSelectMLFQPrefersLowerPriority(t *testing.T) {
	tbl := NewTable(nil)

	low := &Slot{PID: 1, State: Runnable, Disc: &MLFQDiscipline{Priority: 1}}
	high := &Slot{PID: 2, State: Runnable, Disc: &MLFQDiscipline{Priority: 0}}
	tbl.slots[0] = low
	tbl.slots[1] = high

	tbl.mu.Lock()
	got := tbl.selectMLFQ()
	tbl.mu.Unlock()

	if got != high {
		t.Fatalf("fail: expected the priority-0 slot to be selected, got pid %d", got.PID)
	}
}

func TestSelectMLFQRoundRobinsWithinLevel(t *testing.T) {
	tbl := NewTable(nil)

	a := &Slot{PID: 1, State: Runnable, Disc: &MLFQDiscipline{Priority: 0}}
	b := &Slot{PID: 2, State: Runnable, Disc: &MLFQDiscipline{Priority: 0}}
	tbl.slots[0] = a
	tbl.slots[1] = b

	tbl.mu.Lock()
	first := tbl.selectMLFQ()
	// selectMLFQ does not change the found slot's state, so mark the first
	// pick RUNNING the way a dispatch would before selecting again.
	first.State = Running
	second := tbl.selectMLFQ()
	tbl.mu.Unlock()

	if first == second {
		t.Fatalf("fail: expected the round-robin cursor to move past the first pick, got the same slot twice (pid %d)", first.PID)
	}
}

func TestBoostResetsRunnableMLFQSlots(t *testing.T) {
	tbl := NewTable(nil)
	tbl.mlfq.tick = BoostPeriod
	tbl.mlfq.level = 2
	tbl.mlfq.index = 5

	runnable := &Slot{PID: 1, State: Runnable, Disc: &MLFQDiscipline{Priority: 2, Tick: 3, Run: 9}}
	sleeping := &Slot{PID: 2, State: Sleeping, Disc: &MLFQDiscipline{Priority: 2, Tick: 3, Run: 9}}
	tbl.slots[0] = runnable
	tbl.slots[1] = sleeping

	tbl.mu.Lock()
	tbl.boost()
	tbl.mu.Unlock()

	if tbl.mlfq.level != 0 || tbl.mlfq.index != 0 || tbl.mlfq.tick != 0 {
		t.Fatalf("fail: boost did not reset global MLFQ bookkeeping: %+v", tbl.mlfq)
	}
	rd := runnable.Disc.(*MLFQDiscipline)
	if rd.Priority != 0 || rd.Tick != 0 || rd.Run != 0 {
		t.Fatalf("fail: boost did not reset the runnable slot's discipline: %+v", rd)
	}
	sd := sleeping.Disc.(*MLFQDiscipline)
	if sd.Priority != 2 {
		t.Fatal("fail: boost must not touch a non-RUNNABLE slot")
	}
}
