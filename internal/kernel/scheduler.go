package kernel

// Run is the per-CPU scheduler loop. It returns only once stop is closed;
// callers run it in its own goroutine, one per simulated CPU. stop is
// polled between dispatches so tests and the CLI can shut a simulated CPU
// down cleanly. Each iteration picks a slot,
// dispatches it, and blocks until that slot yields, sleeps, or exits (tick
// accounting happens inside the dispatched slot's own goroutine, not here —
// see yield.go).
func (t *Table) Run(stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		default:
		}
		t.mu.Lock()
		p := t.pickLocked()
		if p == nil {
			t.mu.Unlock()
			continue
		}
		t.dispatch(p)
		t.mu.Unlock()
	}
}

// pickLocked implements the hybrid decision: compare the MLFQ's own
// competing passvalue against the stride heap's root passvalue and
// dispatch whichever is smaller (MLFQ wins ties, matching the original
// scheduler() loop's ordering). If one side has nothing runnable, the
// other runs unconditionally. A stride root that is picked but is not
// RUNNABLE has its pass advanced by its stride and nothing is dispatched
// this round. Must be called with the table lock held.
func (t *Table) pickLocked() *Slot {
	if t.mlfq.tick >= BoostPeriod {
		t.boost()
	}

	mlfqCandidate := t.selectMLFQ()
	root := t.stride.root()

	switch {
	case mlfqCandidate == nil && root == nil:
		return nil
	case root == nil:
		t.mlfq.passValue += mlfqStridePass(t)
		return mlfqCandidate
	case mlfqCandidate != nil && t.mlfq.passValue <= root.Disc.(*StrideDiscipline).PassValue:
		t.mlfq.passValue += mlfqStridePass(t)
		return mlfqCandidate
	}

	if root.State != Runnable {
		t.stride.advance(root)
		return nil
	}
	return root
}

// mlfqStridePass is the per-dispatch increment MLFQ's own passvalue accrues
// when it wins the comparison against the stride heap: it advances by
// 1000/(100-total_tickets) each time it wins.
func mlfqStridePass(t *Table) int {
	denom := 100 - t.stride.totalTickets
	if denom <= 0 {
		invariant("mlfq stride pass: total tickets %d leaves no MLFQ share", t.stride.totalTickets)
	}
	return 1000 / denom
}
