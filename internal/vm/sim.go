package vm

import "sync"

// SimLimitBytes bounds how large a single simulated address space's
// heap+stack bookkeeping may grow; it exists only so a runaway scenario
// fails the way a real kalloc-exhausted kernel would, rather than growing
// the Go process's memory without bound.
const SimLimitBytes = 64 * 1024 * 1024

// SimAddressSpace is the default AddressSpace: it tracks sizes only, never
// backing user data with real memory, since nothing in this module ever
// executes simulated user-mode machine code. It is sufficient to exercise
// growproc, fork's copy-on-fork, and the per-thread stack layout
// invariants.
type SimAddressSpace struct {
	mu        sync.Mutex
	heapLimit int
}

// NewSimAddressSpace returns a fresh, empty address space, mirroring
// setupkvm+inituvm for a new process.
func NewSimAddressSpace() *SimAddressSpace {
	return &SimAddressSpace{}
}

func (s *SimAddressSpace) Grow(old, delta int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := old + delta
	if next < 0 {
		return 0, ErrOOM
	}
	if next > SimLimitBytes {
		return 0, ErrOOM
	}
	return next, nil
}

func (s *SimAddressSpace) Fork(heap, stack int) (AddressSpace, error) {
	if heap > SimLimitBytes {
		return nil, ErrOOM
	}
	return &SimAddressSpace{heapLimit: heap}, nil
}

func (s *SimAddressSpace) ExtendThreadStack(base int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if base < 0 {
		return ErrOOM
	}
	return nil
}

func (s *SimAddressSpace) ShrinkThreadStacks(from, to int) error {
	if from < to {
		return ErrOOM
	}
	return nil
}

func (s *SimAddressSpace) WriteStack(va int, data []byte) error {
	if va < 0 {
		return ErrOOM
	}
	return nil
}

func (s *SimAddressSpace) Release() {}

// SimFileTable is a reference-counted stand-in for ofile[NOFILE]+cwd.
type SimFileTable struct {
	refs *int
	mu   *sync.Mutex
}

// NewSimFileTable returns a fresh file table with no shared references yet,
// mirroring a newly allocproc'd slot before fork/thread_create duplicates
// descriptors into it.
func NewSimFileTable() *SimFileTable {
	refs := 1
	return &SimFileTable{refs: &refs, mu: &sync.Mutex{}}
}

func (f *SimFileTable) Dup() FileTable {
	f.mu.Lock()
	defer f.mu.Unlock()
	*f.refs++
	return &SimFileTable{refs: f.refs, mu: f.mu}
}

func (f *SimFileTable) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if *f.refs > 0 {
		*f.refs--
	}
}
