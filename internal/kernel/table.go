// Package kernel implements a hybrid MLFQ/Stride process-and-thread
// scheduler core: a single process table shared by a Multi-Level Feedback
// Queue and a Stride scheduler, plus the thread model layered on top of it.
// It follows xv6's proc.c structure, rendered in idiomatic Go: exported
// constructors, small interfaces, errors built with fmt.Errorf, panics
// reserved for programmer errors.
package kernel

import (
	"log"
	"sync"

	"github.com/arctir/xv6sched/internal/vm"
)

// NPROC is the fixed size of the process table.
const NPROC = 64

// BoostPeriod is the number of MLFQ-attributed ticks after which every 'm'
// slot is reset to priority 0.
const BoostPeriod = 100

// TicketCap is the maximum number of tickets the stride heap may have
// reserved at once.
const TicketCap = 80

// initStackBase is the simulated user stack base handed to the init
// process, standing in for xv6's fixed USERTOP. Every later thread_create
// computes its stack below a process's own Stack field, so this only needs
// to leave enough headroom below for threadStackBase's guard-page math to
// stay non-negative across a full run of MaxTID threads.
const initStackBase = (vm.PGSIZE) * (3 + MaxTID)

// Table is the single coarse-locked process table plus the MLFQ state and
// stride heap that compete over it. The zero value is not usable;
// construct one with NewTable.
type Table struct {
	mu sync.Mutex

	slots   [NPROC]*Slot
	nextPID int

	mlfq   mlfqState
	stride strideHeap

	// init is the slot that inherits orphaned children on exit, mirroring
	// xv6's static initproc. It is set by Bootstrap.
	init *Slot

	logger *log.Logger
}

// NewTable allocates an empty table. Bootstrap must be called once before
// any other operation to install the init slot, mirroring xv6's
// pinit()+userinit() pair.
func NewTable(logger *log.Logger) *Table {
	if logger == nil {
		logger = log.Default()
	}
	t := &Table{logger: logger, nextPID: 1}
	t.stride.cap = TicketCap
	return t
}

// Lock and Unlock expose the single table lock directly to callers that
// need to hold it across more than one kernel operation (e.g. a scenario
// runner taking a consistent snapshot), matching the discipline that every
// cross-slot inspection acquires it.
func (t *Table) Lock()   { t.mu.Lock() }
func (t *Table) Unlock() { t.mu.Unlock() }

// Snapshot is a point-in-time, lock-consistent copy of the table used for
// introspection (the `ps`/`ps tree` CLI commands via saved traces, and the
// test harness's invariant checks).
type Snapshot struct {
	Slots          []SlotView
	MLFQLevel      int
	MLFQTick       int
	MLFQPassValue  int
	StrideCount    int
	TotalTickets   int
}

// SlotView is a read-only projection of a Slot safe to copy out from under
// the table lock.
type SlotView struct {
	PID, TID   int
	Name       string
	State      State
	ParentPID  int
	MainPID    int
	Type       rune // 'm' or 's', the scheduling discipline's discriminator, for display purposes only
	Priority   int
	Tick       int
	RunTicks   int
	PassValue  int
	Tickets    int
	Stride     int
	Killed     bool
}

// RunningSlot returns whichever slot is currently RUNNING, or nil if the
// table is between dispatches. Used by the timer driver's onTick closure,
// which has no other way to name "the slot the interrupt landed on."
func (t *Table) RunningSlot() *Slot {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, p := range t.slots {
		if p != nil && p.State == Running {
			return p
		}
	}
	return nil
}

// Snapshot takes the table lock and returns a consistent, heap/type-
// consistent view of every slot.
func (t *Table) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *Table) snapshotLocked() Snapshot {
	s := Snapshot{
		MLFQLevel:     t.mlfq.level,
		MLFQTick:      t.mlfq.tick,
		MLFQPassValue: t.mlfq.passValue,
		StrideCount:   len(t.stride.members) - 1,
		TotalTickets:  t.stride.totalTickets,
	}
	for _, p := range t.slots {
		if p == nil || p.State == Unused {
			continue
		}
		v := SlotView{
			PID:    p.PID,
			TID:    p.TID,
			Name:   p.Name,
			State:  p.State,
			Killed: p.Killed,
		}
		if p.Parent != nil {
			v.ParentPID = p.Parent.PID
		}
		if p.MainThread != nil {
			v.MainPID = p.MainThread.PID
		}
		switch d := p.Disc.(type) {
		case *MLFQDiscipline:
			v.Type = 'm'
			v.Priority, v.Tick, v.RunTicks = d.Priority, d.Tick, d.Run
		case *StrideDiscipline:
			v.Type = 's'
			v.PassValue, v.Tickets, v.Stride = d.PassValue, d.Tickets, d.Stride
		}
		s.Slots = append(s.Slots, v)
	}
	return s
}
