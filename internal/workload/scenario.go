// Package workload interprets small JSON-described programs against the
// kernel package, standing in for the shell/trim/test-harness user-space
// programs a real xv6 userland would run. A Scenario exercises end-to-end
// scheduler behavior without a real compiler, loader, or virtual machine.
package workload

import (
	"encoding/json"
	"fmt"
)

// Scenario is one simulated program: a named sequence of steps run by a
// process's main thread, optionally forking or thread_create-ing further
// Scenarios of its own.
type Scenario struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Steps       []Step `json:"steps"`
}

// Step is one simulated syscall. Op selects which; the remaining fields
// are interpreted according to Op:
//
//	fork            N/A, Entry holds the child's steps
//	exit            N/A
//	wait            N/A
//	yield           N/A
//	loop_yield      N times
//	sleep           Chan names the wait channel
//	wakeup          Chan names the wait channel
//	kill            PID
//	sbrk            N bytes (may be negative)
//	set_cpu_share   Tickets
//	thread_create   Entry holds the new thread's steps
//	thread_join     Tid
//	thread_exit     Retval
type Step struct {
	Op      string `json:"op"`
	N       int    `json:"n,omitempty"`
	Tickets int    `json:"tickets,omitempty"`
	Tid     int    `json:"tid,omitempty"`
	Retval  int    `json:"retval,omitempty"`
	PID     int    `json:"pid,omitempty"`
	Chan    string `json:"chan,omitempty"`
	Entry   []Step `json:"entry,omitempty"`
}

// Parse decodes a single Scenario from JSON.
func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := json.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("workload: parsing scenario: %w", err)
	}
	if sc.Name == "" {
		return nil, fmt.Errorf("workload: scenario has no name")
	}
	return &sc, nil
}
