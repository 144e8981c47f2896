package kernel

// mlfqState is the global MLFQ bookkeeping: the cached current priority
// level, the round-robin cursor into the table, the tick counter since the
// last boost, and the passvalue MLFQ uses when competing inside the stride
// heap.
type mlfqState struct {
	level     int
	index     int
	tick      int
	passValue int
}

// ticklimit is the per-level quantum: the number of ticks a slot may run at
// that level before a forced yield within a single dispatch run.
func ticklimit(priority int) int {
	switch priority {
	case 0:
		return 1
	case 1:
		return 2
	case 2:
		return 4
	}
	invariant("ticklimit: priority %d out of range", priority)
	return -1
}

// runlimit is the per-level aging budget: total ticks at a level before a
// downgrade. Priority 2 never ages out, so it has no limit and must never
// be queried.
func runlimit(priority int) int {
	switch priority {
	case 0:
		return 5
	case 1:
		return 10
	}
	invariant("runlimit: priority %d out of range", priority)
	return -1
}

// boost resets every RUNNABLE 'm' slot to priority 0 with its counters
// cleared, and resets the global cursor and tick counter. Must be called
// with the table lock held.
func (t *Table) boost() {
	t.mlfq.level = 0
	t.mlfq.index = 0
	t.mlfq.tick = 0
	for _, p := range t.slots {
		if p == nil {
			continue
		}
		if d, ok := p.Disc.(*MLFQDiscipline); ok && p.State == Runnable {
			d.Priority = 0
			d.Tick = 0
			d.Run = 0
		}
	}
}

// checkDownPriority applies the aging rule after an MLFQ dispatch tick has
// been charged: if the slot is at priority 0 or 1 and has accumulated
// runlimit(priority) runticks, it demotes one level and its counters reset.
func checkDownPriority(d *MLFQDiscipline) {
	if d.Priority > 1 {
		return
	}
	if d.Run >= runlimit(d.Priority) {
		d.Priority++
		d.Tick = 0
		d.Run = 0
	}
}

// selectMLFQ finds the minimum priority among RUNNABLE 'm' slots, resets
// the round-robin cursor if the level changed, then scans circularly from
// the cursor for the next RUNNABLE 'm' slot at exactly that priority.
// Returns nil if no 'm' slot is RUNNABLE. Must be called with the table
// lock held.
func (t *Table) selectMLFQ() *Slot {
	min := -1
	for _, p := range t.slots {
		if p == nil || p.State != Runnable {
			continue
		}
		d, ok := p.Disc.(*MLFQDiscipline)
		if !ok {
			continue
		}
		if min == -1 || d.Priority < min {
			min = d.Priority
		}
	}
	if min == -1 {
		return nil
	}
	if t.mlfq.level != min {
		t.mlfq.level = min
		t.mlfq.index = 0
	}

	scan := func(from, to int) *Slot {
		for i := from; i < to; i++ {
			p := t.slots[i]
			if p == nil || p.State != Runnable {
				continue
			}
			d, ok := p.Disc.(*MLFQDiscipline)
			if !ok || d.Priority != t.mlfq.level {
				continue
			}
			t.mlfq.index = i + 1
			return p
		}
		return nil
	}

	if found := scan(t.mlfq.index, NPROC); found != nil {
		return found
	}
	return scan(0, t.mlfq.index)
}
