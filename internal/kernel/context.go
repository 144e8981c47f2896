package kernel

// This file implements the context-switch model: xv6's swtch()/sched()
// pair, re-expressed with one goroutine per slot and two unbuffered
// channels instead of saved register contexts and assembly.
//
// xv6 hands ptable.lock across swtch() itself, relying on a resumed process
// releasing the very lock the scheduler (or another process) acquired on
// its behalf. A Go sync.Mutex permits that (it has no goroutine-ownership
// check), but reproducing it literally buys nothing here and invites a
// goroutine deadlocking on its own reacquire. Instead, every suspension
// point releases the table lock before blocking for redispatch and
// reacquires it once redispatched: every operation that inspects cross-slot
// data acquires the lock, and suspension points are exactly the sched()
// call sites, so no table mutation is ever visible to another goroutine
// while a slot is blocked off-CPU.
//
// Suspension points are exactly the four callers of sched(): yield, sleep,
// exit, thread_exit.

// newContext wires up a slot's channels. Called once by allocproc.
func newContext() (runCh, schedCh chan struct{}) {
	return make(chan struct{}), make(chan struct{})
}

// start launches the slot's goroutine and blocks it for its first dispatch.
// entry is the simulated user-mode program (the workload interpreter, in
// practice). Must be called with the table lock held. start does not touch
// the lock: its caller releases it as usual, and the new goroutine stays
// blocked until dispatch hands it control for the first time.
func (p *Slot) start(entry func(*Slot)) {
	go func() {
		<-p.runCh
		entry(p)
	}()
}

// suspend is the channel rendezvous underlying sched(): it hands control
// back to whichever scheduler loop dispatched this slot and blocks until
// redispatched. Callers are responsible for the table lock: release it
// immediately before calling suspend, and reacquire it immediately after,
// exactly as yieldLocked/sleepOnLocked/finalSuspendLocked do below.
func (p *Slot) suspend() {
	p.schedCh <- struct{}{}
	<-p.runCh
}

// dispatch is the scheduler side of swtch: it marks p RUNNING, releases the
// table lock so p's own goroutine can acquire it for its next kernel
// operation, hands p control, and blocks until p suspends again — at which
// point it reacquires the lock before returning. Must be called with the
// table lock held; always returns with it held.
func (t *Table) dispatch(p *Slot) {
	p.State = Running
	t.mu.Unlock()
	p.runCh <- struct{}{}
	<-p.schedCh
	t.mu.Lock()
}

// parkLocked is the shared unlock/suspend/relock dance used by every
// suspension point that expects to run again later (yield, sleep). Must be
// called with the table lock held; always returns with it held.
func (t *Table) parkLocked(p *Slot) {
	t.mu.Unlock()
	p.suspend()
	t.mu.Lock()
}

// finalSuspendLocked is the same rendezvous used by exit/thread_exit-as-exit,
// whose caller never expects control back: the slot is ZOMBIE and will
// never be selected by pickLocked again, so this call simply never returns.
// It still releases the table lock before blocking, so the exiting slot
// does not hold up the rest of the table forever.
func (t *Table) finalSuspendLocked(p *Slot) {
	t.mu.Unlock()
	p.suspend()
	t.mu.Lock()
}
