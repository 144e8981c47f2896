// Package vm defines the address-space and file-table interfaces the
// scheduler core consumes but does not implement. The real allocuvm/
// copyuvm/setupkvm machinery, and the real file system, are out of this
// module's scope; SimAddressSpace and SimFileTable below provide the
// minimal in-memory behavior needed to drive every scheduler invariant
// without a real MMU or disk.
package vm

import "fmt"

// AddressSpace stands in for xv6's pde_t* pgdir plus the allocuvm/
// deallocuvm/copyuvm/copyout surface of proc.c. switchuvm/switchkvm have
// no counterpart here.
type AddressSpace interface {
	// Grow adjusts the break by delta bytes, returning the new size or an
	// error if the underlying allocator is out of room. delta may be
	// negative, mirroring deallocuvm.
	Grow(old, delta int) (int, error)
	// Fork returns a new address space that is a deep copy of the
	// caller's, sized to [0, heap) plus the stack region at stack,
	// mirroring copyuvm(pgdir, heap, stack).
	Fork(heap, stack int) (AddressSpace, error)
	// ExtendThreadStack allocates one more guard-adjacent page for a new
	// thread's stack, mirroring allocuvm(pgdir, old, old+PGSIZE).
	ExtendThreadStack(base int) error
	// ShrinkThreadStacks releases the thread-stack region from the higher
	// address from down to the lower address to, mirroring deallocuvm
	// during process exit / deallocthread.
	ShrinkThreadStacks(from, to int) error
	// WriteStack copies data onto the simulated user stack at va,
	// mirroring copyout(pgdir, va, src, len).
	WriteStack(va int, data []byte) error
	// Release frees the address space, mirroring freevm(pgdir).
	Release()
}

// FileTable stands in for xv6's ofile[NOFILE] array plus cwd, and the
// filedup/fileclose/idup/iput surface.
type FileTable interface {
	// Dup returns a new FileTable that shares the same underlying file
	// objects via incremented reference counts, mirroring filedup/idup
	// being called once per open descriptor during fork/thread_create.
	Dup() FileTable
	// Close releases every descriptor's reference, mirroring fileclose
	// and iput on cwd during exit/deallocthread.
	Close()
}

// PGSIZE mirrors xv6's page size constant.
const PGSIZE = 4096

// ErrOOM is returned by Grow/Fork/ExtendThreadStack when the simulated
// allocator is exhausted, mirroring a null return from kalloc/allocuvm.
var ErrOOM = fmt.Errorf("vm: simulated allocator exhausted")
