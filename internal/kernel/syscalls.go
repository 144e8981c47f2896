package kernel

// GrowProc is the sbrk/growproc syscall: adjusts the caller's heap by n
// bytes (n may be negative) and returns the heap's previous top, or -1 on
// failure. Only a main thread is expected to call this; a non-main
// thread's heap mirrors its main thread's via the shared AddressSpace, so
// this is not separately validated here.
func (t *Table) GrowProc(p *Slot, n int) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	next, err := p.Space.Grow(p.Heap, n)
	if err != nil {
		return -1
	}
	old := p.Heap
	p.Heap = next
	return old
}

// Syscalls adapts the kernel package's internal method surface to the
// flat §6 system-call table, for callers (the workload interpreter, cmd/)
// that want to drive a slot's simulated program one call at a time without
// reaching into Table/Slot internals directly.
type Syscalls struct {
	Table *Table
	Slot  *Slot
}

func (s Syscalls) Fork(entry func(*Slot)) int      { return s.Table.Fork(s.Slot, entry) }
func (s Syscalls) Exit()                           { s.Table.Exit(s.Slot) }
func (s Syscalls) Wait() int                       { return s.Table.Wait(s.Slot) }
func (s Syscalls) Kill(pid int) int                { return s.Table.Kill(pid) }
func (s Syscalls) Sbrk(n int) int                  { return s.Table.GrowProc(s.Slot, n) }
func (s Syscalls) Yield()                          { s.Table.Yield(s.Slot) }
func (s Syscalls) GetLev() int                     { return s.Table.GetLev(s.Slot) }
func (s Syscalls) SetCPUShare(tickets int) int     { return s.Table.SetCPUShare(s.Slot, tickets) }
func (s Syscalls) Sleep(chan_ any)                 { s.Table.Sleep(s.Slot, chan_) }

func (s Syscalls) ThreadCreate(entry func(*Slot)) (int, error) {
	return s.Table.ThreadCreate(s.Slot, entry)
}

func (s Syscalls) ThreadJoin(tid int) (int, error) {
	return s.Table.ThreadJoin(s.Slot, tid)
}

func (s Syscalls) ThreadExit(retval int) {
	s.Table.ThreadExit(s.Slot, retval)
}

// Killed mirrors the advisory-kill check a real syscall stub would make
// immediately before returning to simulated user space.
func (s Syscalls) Killed() bool { return CheckKilled(s.Slot) }
