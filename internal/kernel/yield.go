package kernel

// TimerTick is the simulated timer interrupt's entry point: it is called
// by whatever is currently driving the dispatched slot's simulated user
// code (the real-time driver in internal/timer, or a workload step in
// tests) once per tick while p is RUNNING, with no lock held. It dispatches
// to mlfq_yield or stride_yield by p's discipline, exactly as xv6's trap.c
// calls one or the other depending on p->type.
func (t *Table) TimerTick(p *Slot) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch d := p.Disc.(type) {
	case *MLFQDiscipline:
		t.mlfqYieldLocked(p, d)
	case *StrideDiscipline:
		t.strideYieldLocked(p, d)
	}
}

// mlfqYieldLocked is mlfq_yield: charge one more tick to the slot (and the
// global MLFQ tick, and its runticks, applying aging) and keep running it,
// unless it has exhausted its level's quantum, in which case reset its
// tick and force a yield.
func (t *Table) mlfqYieldLocked(p *Slot, d *MLFQDiscipline) {
	if d.Tick < ticklimit(d.Priority) {
		d.Tick++
		d.Run++
		t.mlfq.tick++
		checkDownPriority(d)
		return
	}
	d.Tick = 0
	t.yieldLocked(p)
}

// strideYieldLocked is stride_yield: a stride slot never gets more than one
// tick before yielding.
func (t *Table) strideYieldLocked(p *Slot, d *StrideDiscipline) {
	t.yieldLocked(p)
}

// yieldLocked is the common `yield` body: apply the discipline-specific
// bookkeeping (reset tick for MLFQ; advance pass for stride), mark p
// RUNNABLE, and suspend back to the scheduler. Must be called with the
// table lock held; always returns with it held.
func (t *Table) yieldLocked(p *Slot) {
	switch d := p.Disc.(type) {
	case *MLFQDiscipline:
		d.Tick = 0
	case *StrideDiscipline:
		t.stride.advance(p)
	}
	p.State = Runnable
	t.parkLocked(p)
}

// Yield is the voluntary `yield` syscall: unconditionally runs the same
// bookkeeping as a forced yield, without the ticklimit gating that only
// applies to the timer-driven path.
func (t *Table) Yield(p *Slot) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.yieldLocked(p)
}
