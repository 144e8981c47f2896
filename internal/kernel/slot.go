package kernel

import "github.com/arctir/xv6sched/internal/vm"

// State is one of the six lifecycle states a slot can occupy. The zero value
// is Unused so a freshly-allocated table starts with every slot already in
// the right state.
type State int

const (
	Unused State = iota
	Embryo
	Sleeping
	Runnable
	Running
	Zombie
)

func (s State) String() string {
	switch s {
	case Unused:
		return "UNUSED"
	case Embryo:
		return "EMBRYO"
	case Sleeping:
		return "SLEEPING"
	case Runnable:
		return "RUNNABLE"
	case Running:
		return "RUNNING"
	case Zombie:
		return "ZOMBIE"
	default:
		return "???"
	}
}

// MaxTID is the highest tid a main thread may hand out to a non-main
// thread (tid 0 is reserved for the main thread itself).
const MaxTID = 63

// NOFILE mirrors xv6's per-process open file table size.
const NOFILE = 16

// Discipline is the sum-type replacement for xv6's `type` discriminator and
// three-int union (proc.h's u1/u2/u3). A slot holds exactly one Discipline
// at a time; heap membership is restricted to *StrideDiscipline holders, so
// the invariant "a slot is in the stride heap iff type == 's'" is enforced
// by construction rather than by a shared char field.
type Discipline interface {
	isDiscipline()
}

// MLFQDiscipline is the payload carried by a slot scheduled under the
// multi-level feedback queue.
type MLFQDiscipline struct {
	Priority int // 0..2, 0 is highest
	Tick     int // ticks consumed at the current level's current run
	Run      int // ticks consumed since the last boost
}

func (*MLFQDiscipline) isDiscipline() {}

// StrideDiscipline is the payload carried by a slot that has called
// set_cpu_share and is competing in the stride heap.
type StrideDiscipline struct {
	PassValue int
	Tickets   int
	Stride    int // 1000 / Tickets
	heapIndex int // 1-based position in the heap's backing array; -1 if absent
}

func (*StrideDiscipline) isDiscipline() {}

// Slot is the universal process-table entry: it represents either a
// standalone process or one kernel-scheduled thread of a multithreaded
// process.
type Slot struct {
	// Identity
	PID int
	TID int // 0 for a process's main thread, 1..MaxTID otherwise

	// Address space (mirrors those of MainThread for a non-main thread)
	Space vm.AddressSpace
	Files vm.FileTable
	Heap  int
	Stack int

	// Execution state
	State State

	// Relationships
	Parent     *Slot
	MainThread *Slot     // self for a main thread
	HasThread  [MaxTID + 1]bool // owned only by a main thread

	// Process/thread name and the advisory kill flag observed at the
	// next simulated return-to-user point.
	Name   string
	Killed bool

	// Sleep channel: an opaque comparable value shared by a sleeper and
	// its eventual waker.
	Chan any

	// Scheduling discriminator.
	Disc Discipline

	// maxTID is owned by a main thread: the highest tid ever handed out,
	// used to size the thread-stack region. retval holds a non-main
	// thread's thread_exit value until thread_join reads it.
	maxTID int
	retval int

	// context-switch plumbing, see context.go.
	runCh   chan struct{}
	schedCh chan struct{}
}

// IsMainThread reports whether p owns its own address space rather than
// sharing one via MainThread.
func (p *Slot) IsMainThread() bool {
	return p.MainThread == p
}
