// Package timer drives the simulated kernel's timer interrupt off a real
// POSIX interval timer, using golang.org/x/sys/unix rather than re-deriving
// the platform syscalls by hand.
package timer

import (
	"os"
	"os/signal"
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

// Driver delivers one Tick per SIGALRM generated by a real interval timer,
// standing in for xv6's hardware timer interrupt (trap.c's T_IRQ0+IRQ_TIMER
// case, which calls mlfq_yield/stride_yield on whatever is RUNNING).
type Driver struct {
	mu      sync.Mutex
	stopCh  chan struct{}
	started bool
}

// NewDriver constructs a Driver. It does not start delivering ticks until
// Start is called.
func NewDriver() *Driver {
	return &Driver{stopCh: make(chan struct{})}
}

// Start arms a real-time interval timer at the given period and begins
// forwarding SIGALRM to onTick. onTick is invoked synchronously on the
// goroutine Start spawns, once per signal; callers needing table access
// must do their own locking (TimerTick already does).
func (d *Driver) Start(period time.Duration, onTick func()) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started {
		return nil
	}

	sigCh := make(chan os.Signal, 4)
	signal.Notify(sigCh, unix.SIGALRM)

	it := unix.Itimerval{
		Interval: unix.NsecToTimeval(period.Nanoseconds()),
		Value:    unix.NsecToTimeval(period.Nanoseconds()),
	}
	if err := unix.Setitimer(unix.ITIMER_REAL, &it, nil); err != nil {
		signal.Stop(sigCh)
		return err
	}

	d.started = true
	go func() {
		for {
			select {
			case <-d.stopCh:
				signal.Stop(sigCh)
				return
			case <-sigCh:
				onTick()
			}
		}
	}()
	return nil
}

// Stop disarms the interval timer and stops forwarding signals.
func (d *Driver) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.started {
		return
	}
	zero := unix.Itimerval{}
	_ = unix.Setitimer(unix.ITIMER_REAL, &zero, nil)
	close(d.stopCh)
	d.started = false
}
