package workload

import (
	"fmt"
	"sync"

	"github.com/arctir/xv6sched/internal/kernel"
)

// Event is one step's observed effect, collected so tests can assert
// exact interleavings (or just ordering invariants) without instrumenting
// the kernel package itself.
type Event struct {
	PID, TID int
	Op       string
	Detail   string
}

// Recorder collects Events from every slot a Runner drives, safe for
// concurrent use since forked children and joined threads run on their own
// goroutines.
type Recorder struct {
	mu     sync.Mutex
	Events []Event
}

func (r *Recorder) record(p *kernel.Slot, op, detail string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events = append(r.Events, Event{PID: p.PID, TID: p.TID, Op: op, Detail: detail})
}

// Snapshot returns a copy of the events recorded so far.
func (r *Recorder) Snapshot() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.Events))
	copy(out, r.Events)
	return out
}

// Runner drives Scenario steps against a kernel.Table, one call at a time,
// on whichever goroutine the table dispatches the owning slot onto.
type Runner struct {
	Table *kernel.Table
	Rec   *Recorder
}

// NewRunner returns a Runner with a fresh Recorder.
func NewRunner(t *kernel.Table) *Runner {
	return &Runner{Table: t, Rec: &Recorder{}}
}

// Entry returns a goroutine entry point that runs steps, suitable for
// Table.Bootstrap, Table.Fork, or Table.ThreadCreate.
func (r *Runner) Entry(steps []Step) func(*kernel.Slot) {
	return func(p *kernel.Slot) {
		r.exec(p, steps)
	}
}

// exec interprets steps against p's syscall surface in order, recording
// each one, until it falls off the end or hits a terminal step
// (exit/thread_exit). A slot that falls off the end without an explicit
// terminal step behaves as if it called exit (main thread) or thread_exit
// with retval 0 (secondary thread) — scenario authors may omit a trailing
// exit for brevity.
func (r *Runner) exec(p *kernel.Slot, steps []Step) {
	sc := kernel.Syscalls{Table: r.Table, Slot: p}

	for _, step := range steps {
		if sc.Killed() {
			r.Rec.record(p, "killed", "observed before next step")
			sc.Exit()
			return
		}

		switch step.Op {
		case "fork":
			pid := sc.Fork(r.Entry(step.Entry))
			r.Rec.record(p, "fork", fmt.Sprintf("child=%d", pid))
		case "exit":
			r.Rec.record(p, "exit", "")
			sc.Exit()
			return
		case "wait":
			pid := sc.Wait()
			r.Rec.record(p, "wait", fmt.Sprintf("reaped=%d", pid))
		case "yield":
			sc.Yield()
			r.Rec.record(p, "yield", "")
		case "loop_yield":
			for i := 0; i < step.N; i++ {
				sc.Yield()
			}
			r.Rec.record(p, "loop_yield", fmt.Sprintf("n=%d", step.N))
		case "sleep":
			sc.Sleep(step.Chan)
			r.Rec.record(p, "sleep", step.Chan)
		case "wakeup":
			r.Table.Wakeup(step.Chan)
			r.Rec.record(p, "wakeup", step.Chan)
		case "kill":
			rc := r.Table.Kill(step.PID)
			r.Rec.record(p, "kill", fmt.Sprintf("pid=%d rc=%d", step.PID, rc))
		case "sbrk":
			old := sc.Sbrk(step.N)
			r.Rec.record(p, "sbrk", fmt.Sprintf("n=%d old=%d", step.N, old))
		case "set_cpu_share":
			rc := sc.SetCPUShare(step.Tickets)
			r.Rec.record(p, "set_cpu_share", fmt.Sprintf("tickets=%d rc=%d", step.Tickets, rc))
		case "thread_create":
			tid, err := sc.ThreadCreate(r.Entry(step.Entry))
			detail := fmt.Sprintf("tid=%d", tid)
			if err != nil {
				detail = err.Error()
			}
			r.Rec.record(p, "thread_create", detail)
		case "thread_join":
			retval, err := sc.ThreadJoin(step.Tid)
			detail := fmt.Sprintf("retval=%d", retval)
			if err != nil {
				detail = err.Error()
			}
			r.Rec.record(p, "thread_join", detail)
		case "thread_exit":
			r.Rec.record(p, "thread_exit", fmt.Sprintf("retval=%d", step.Retval))
			sc.ThreadExit(step.Retval)
			return
		default:
			r.Rec.record(p, "error", fmt.Sprintf("unknown step op %q", step.Op))
			sc.Exit()
			return
		}
	}

	if p.IsMainThread() {
		sc.Exit()
	} else {
		sc.ThreadExit(0)
	}
}
