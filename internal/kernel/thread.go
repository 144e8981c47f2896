package kernel

import "github.com/arctir/xv6sched/internal/vm"

// threadStackBase computes a thread's user stack base address:
// main.stack - (3 + tid - 1) * PGSIZE — three guard pages below the
// kernel boundary, then one page per tid counting down from 1.
func threadStackBase(main *Slot, tid int) int {
	return main.Stack - (3+tid-1)*vm.PGSIZE
}

// ThreadCreate is thread_create: allocate a slot sharing the caller's
// address space, claim the lowest free tid, extend the thread-stack region
// if this tid pushes past any ever handed out before, and make the new
// slot RUNNABLE running entry. Returns the new slot's pid (the handle
// thread_join expects) and nil on success, or -1 and an error.
func (t *Table) ThreadCreate(main *Slot, entry func(*Slot)) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !main.IsMainThread() {
		return -1, errf("thread_create: caller (pid %d) is not a main thread", main.PID)
	}

	tid := -1
	for i := 1; i <= MaxTID; i++ {
		if !main.HasThread[i] {
			tid = i
			break
		}
	}
	if tid == -1 {
		return -1, errf("thread_create: main thread %d has no free tid", main.PID)
	}

	child := t.allocproc()
	if child == nil {
		return -1, errf("thread_create: process table full")
	}

	if tid > main.maxTID {
		base := threadStackBase(main, tid)
		if err := main.Space.ExtendThreadStack(base); err != nil {
			t.freeSlot(child)
			return -1, errf("thread_create: extend thread stack: %w", err)
		}
		main.maxTID = tid
	}

	child.TID = tid
	child.MainThread = main
	child.Parent = main.Parent
	child.Space = main.Space
	child.Files = main.Files.Dup()
	child.Heap = main.Heap
	child.Stack = threadStackBase(main, tid)
	child.Name = main.Name
	child.Disc = &MLFQDiscipline{}
	child.State = Runnable

	main.HasThread[tid] = true

	child.start(entry)
	return child.PID, nil
}

// ThreadJoin is thread_join: block until the slot with the given pid is
// ZOMBIE, then reclaim it and return its retval. Scans the whole table by
// pid, not scoped to main, matching thread_join's ptable scan. Returns -1
// if no such thread exists.
func (t *Table) ThreadJoin(main *Slot, tid int) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for {
		var target *Slot
		for _, c := range t.slots {
			if c != nil && c.PID == tid {
				target = c
				break
			}
		}
		if target == nil {
			return -1, errf("thread_join: no such thread %d", tid)
		}
		if target.State == Zombie {
			retval := target.retval
			if target.Files != nil {
				target.Files.Close()
			}
			internalTID := target.TID
			t.freeSlot(target)
			if internalTID >= 1 && internalTID <= MaxTID {
				main.HasThread[internalTID] = false
			}
			return retval, nil
		}
		t.sleepOnLocked(main, main)
	}
}

// ThreadExit is thread_exit: if the caller is its own main thread,
// behave exactly like Exit. Otherwise store retval, become a ZOMBIE, wake
// the main thread's joiners, and park permanently.
func (t *Table) ThreadExit(p *Slot, retval int) {
	if p.IsMainThread() {
		t.Exit(p)
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	p.retval = retval
	p.State = Zombie
	t.wakeupLocked(p.MainThread)
	t.finalSuspendLocked(p)
}

// deallocthread is used during process exit: every slot sharing main's
// address space other than keepPID (main itself) is torn down directly —
// no join required — then the thread-stack region, from the process's
// original stack base down to the lowest thread stack ever handed out, is
// released. Must be called with the table lock held.
func (t *Table) deallocthread(main *Slot, keepPID int) {
	for _, c := range t.slots {
		if c == nil || c.MainThread != main || c.PID == keepPID {
			continue
		}
		if c.Files != nil {
			c.Files.Close()
		}
		t.freeSlot(c)
		if c.TID >= 1 && c.TID <= MaxTID {
			main.HasThread[c.TID] = false
		}
	}
	if main.maxTID > 0 {
		from := main.Stack
		to := threadStackBase(main, main.maxTID)
		if err := main.Space.ShrinkThreadStacks(from, to); err != nil {
			t.logger.Printf("deallocthread: shrink thread stacks for pid %d: %v", main.PID, err)
		}
		main.maxTID = 0
	}
}
