package kernel

import "github.com/arctir/xv6sched/internal/vm"

// allocproc scans for an UNUSED slot, mark it EMBRYO, assign it a
// fresh pid, and initialize it as a new, not-yet-runnable main thread. The
// caller is responsible for wiring its address space/parent/name and
// transitioning it to RUNNABLE. Must be called with the table lock held;
// returns nil if the table is full, mirroring allocproc's "kernel stack
// exhausted" rollback to UNUSED.
func (t *Table) allocproc() *Slot {
	for i, p := range t.slots {
		if p != nil {
			continue
		}
		pid := t.nextPID
		t.nextPID++

		runCh, schedCh := newContext()
		p = &Slot{
			PID:     pid,
			TID:     0,
			State:   Embryo,
			Disc:    &MLFQDiscipline{},
			runCh:   runCh,
			schedCh: schedCh,
		}
		p.MainThread = p
		t.slots[i] = p
		return p
	}
	return nil
}

// Bootstrap installs the init process, mirroring xv6's userinit(): it
// allocates slot 0's occupant directly rather than via fork, gives it a
// fresh simulated address space and file table, and marks it RUNNABLE. It
// must be called exactly once before any other Table operation.
func (t *Table) Bootstrap(entry func(*Slot)) *Slot {
	t.mu.Lock()
	defer t.mu.Unlock()

	p := t.allocproc()
	if p == nil {
		invariant("bootstrap: empty table has no free slot")
	}
	p.Space = vm.NewSimAddressSpace()
	p.Files = vm.NewSimFileTable()
	p.Heap = vm.PGSIZE
	p.Stack = initStackBase
	p.Name = "init"
	p.State = Runnable

	t.init = p
	p.start(entry)
	return p
}
