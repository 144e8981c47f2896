package kernel

// Fork is fork: allocate a new slot, copy the caller's address space
// (copy-on-fork semantics are the address space implementation's concern,
// not this package's), duplicate its open files, copy its name, and make it
// RUNNABLE as a peer of the caller in the MLFQ at priority 0. entry is the
// child's simulated program, standing in for the post-fork bootstrap that
// "returns" zero from fork in the child while the parent's Fork call
// returns the child's pid. Returns the child's pid, or -1 if the table is
// full or the address-space copy fails.
func (t *Table) Fork(parent *Slot, entry func(*Slot)) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	child := t.allocproc()
	if child == nil {
		return -1
	}

	space, err := parent.Space.Fork(parent.Heap, parent.Stack)
	if err != nil {
		t.freeSlot(child)
		return -1
	}

	child.Space = space
	child.Files = parent.Files.Dup()
	child.Heap = parent.Heap
	child.Stack = parent.Stack
	child.Name = parent.Name
	child.Parent = parent
	child.State = Runnable

	pid := child.PID
	child.start(entry)
	return pid
}

// Exit is exit: reparent every live child to init, reclaim the
// caller's stride-heap membership if it held one, release its resources,
// and become a ZOMBIE that wakes its parent. If the caller is a
// multithreaded process's main thread, its sibling threads are torn down
// first via deallocthread. Never returns: the caller's goroutine parks
// permanently in the final sched() call, exactly as real xv6 never resumes
// an exited process.
func (t *Table) Exit(p *Slot) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if p.IsMainThread() {
		t.deallocthread(p, p.PID)
	}

	for _, c := range t.slots {
		if c == nil || c.Parent != p {
			continue
		}
		c.Parent = t.init
		if c.State == Zombie && t.init != nil {
			t.wakeupLocked(t.init)
		}
	}

	if d, ok := p.Disc.(*StrideDiscipline); ok {
		t.stride.totalTickets -= d.Tickets
		t.stride.remove(p)
	}

	if p.Files != nil {
		p.Files.Close()
	}
	if p.Space != nil {
		p.Space.Release()
	}

	p.State = Zombie
	if p.Parent != nil {
		t.wakeupLocked(p.Parent)
	}

	t.finalSuspendLocked(p)
}

// Wait is wait: block until some child of p is a ZOMBIE, reap it (free
// its slot, return its pid), or return -1 immediately if p has no children
// at all.
func (t *Table) Wait(p *Slot) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	for {
		hasChildren := false
		for _, c := range t.slots {
			if c == nil || c.Parent != p {
				continue
			}
			hasChildren = true
			if c.State == Zombie {
				pid := c.PID
				t.freeSlot(c)
				return pid
			}
		}
		if !hasChildren || p.Killed {
			return -1
		}
		t.sleepOnLocked(p, p)
	}
}

// freeSlot returns a slot to UNUSED, dropping it from the table entirely so
// a later allocproc reuse starts clean.
func (t *Table) freeSlot(p *Slot) {
	for i, s := range t.slots {
		if s == p {
			t.slots[i] = nil
			return
		}
	}
}
