package kernel

// Sleep blocks the caller on chan until a matching Wakeup. Callers must not
// already hold the table lock; Sleep acquires it, blocks, and releases it
// again before returning, clearing chan on return.
func (t *Table) Sleep(p *Slot, chan_ any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sleepOnLocked(p, chan_)
}

// sleepOnLocked is the common body shared by Sleep and Wait (which is, in
// effect, sleep(curproc, &ptable.lock) — a sleep call that already holds
// the table lock and needs no separate acquire/release around it). Must be
// called with the table lock held; always returns with it held, with chan
// cleared.
func (t *Table) sleepOnLocked(p *Slot, chan_ any) {
	p.State = Sleeping
	p.Chan = chan_
	t.parkLocked(p)
	p.Chan = nil
}

// Wakeup marks every slot sleeping on chan RUNNABLE.
func (t *Table) Wakeup(chan_ any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.wakeupLocked(chan_)
}

// wakeupLocked is Wakeup's body, usable by callers (Exit, Kill) that
// already hold the table lock.
func (t *Table) wakeupLocked(chan_ any) {
	for _, p := range t.slots {
		if p == nil {
			continue
		}
		if p.State == Sleeping && p.Chan == chan_ {
			p.State = Runnable
			p.Chan = nil
		}
	}
}

// Kill sets p's advisory killed flag and, if it is currently sleeping,
// wakes it so the flag is observed promptly instead of only at its next
// natural wakeup. This never forcibly interrupts a RUNNING slot; the kill
// is only observed the next time the slot would return to simulated user
// space (see CheckKilled).
func (t *Table) Kill(pid int) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, p := range t.slots {
		if p == nil || p.PID != pid {
			continue
		}
		p.Killed = true
		if p.State == Sleeping {
			p.State = Runnable
			p.Chan = nil
		}
		return 0
	}
	return -1
}

// CheckKilled reports whether p has been killed, mirroring the check xv6
// performs in trap.c right before a syscall returns to user space. Callers
// in this package, and the workload interpreter standing in for simulated
// user code, must call it at every simulated return-to-user point and exit
// if it returns true.
func CheckKilled(p *Slot) bool {
	return p.Killed
}
