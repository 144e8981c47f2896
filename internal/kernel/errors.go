package kernel

import "fmt"

// invariant panics when a programmer-level invariant is violated: calling
// sched without the table lock held, scheduling a slot that is already
// RUNNING, dispatching with the simulated CPU's interrupts enabled, and
// similar conditions that can only be caused by a bug in this package, not
// by anything a caller supplied. These mirror xv6 proc.c's panic() calls in
// sched() and are never translated into an error return.
func invariant(format string, args ...any) {
	panic(fmt.Sprintf("kernel: invariant violated: "+format, args...))
}

// errf builds a recoverable error: a short, lower-case message naming the
// failing operation, wrapping the underlying cause with %w so callers can
// still errors.Is/As against it.
func errf(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}
