package kernel

// SetCPUShare is set_cpu_share: converts an MLFQ slot into a stride
// participant with the given number of tickets out of TicketCap, or
// adjusts an existing stride participant's ticket count. Rejects tickets
// == 0 or a request that would exceed TicketCap across all current stride
// participants, returning -1 in either case.
//
// This is a corrected behavior: the original C source assigns an
// already-stride slot's new ticket count to the wrong union field (tick
// instead of tickets), which would silently break its passvalue/stride
// invariant. This implementation always updates Tickets, recomputing
// Stride to match.
func (t *Table) SetCPUShare(p *Slot, tickets int) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	if tickets <= 0 {
		return -1
	}

	if existing, ok := p.Disc.(*StrideDiscipline); ok {
		delta := tickets - existing.Tickets
		if t.stride.totalTickets+delta > TicketCap {
			return -1
		}
		t.stride.totalTickets += delta
		existing.Tickets = tickets
		existing.Stride = 1000 / tickets
		return tickets
	}

	if t.stride.totalTickets+tickets > TicketCap {
		return -1
	}

	passValue := t.mlfq.passValue
	if root := t.stride.root(); root != nil {
		passValue = root.Disc.(*StrideDiscipline).PassValue
	}

	d := &StrideDiscipline{
		Tickets:   tickets,
		Stride:    1000 / tickets,
		PassValue: passValue,
		heapIndex: -1,
	}
	p.Disc = d
	t.stride.totalTickets += tickets
	t.stride.push(p)
	return tickets
}

// GetLev is the getlev syscall: the caller's current MLFQ priority level,
// or -1 if the caller has converted to a stride participant (getlev's
// behavior on a stride slot is otherwise unspecified; -1 is the value this
// implementation settles on).
func (t *Table) GetLev(p *Slot) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	if d, ok := p.Disc.(*MLFQDiscipline); ok {
		return d.Priority
	}
	return -1
}
