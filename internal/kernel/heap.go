package kernel

// strideHeap is the 1-indexed binary min-heap over stride participants
// keyed by passvalue. Tie-break order is unspecified and must not be
// relied on by callers.
type strideHeap struct {
	members      []*Slot // members[0] is unused padding; real entries start at index 1
	totalTickets int
	cap          int
}

func (h *strideHeap) disc(p *Slot) *StrideDiscipline {
	d, ok := p.Disc.(*StrideDiscipline)
	if !ok {
		invariant("strideHeap operation on a non-stride slot (pid %d)", p.PID)
	}
	return d
}

func (h *strideHeap) less(i, j int) bool {
	return h.disc(h.members[i]).PassValue < h.disc(h.members[j]).PassValue
}

func (h *strideHeap) swap(i, j int) {
	h.members[i], h.members[j] = h.members[j], h.members[i]
	h.disc(h.members[i]).heapIndex = i
	h.disc(h.members[j]).heapIndex = j
}

func (h *strideHeap) shiftUp(index int) {
	for index > 1 {
		parent := index / 2
		if !h.less(index, parent) {
			return
		}
		h.swap(parent, index)
		index = parent
	}
}

func (h *strideHeap) shiftDown(index int) {
	for {
		l, r := index*2, index*2+1
		smallest := index
		last := len(h.members) - 1
		if l <= last && h.less(l, smallest) {
			smallest = l
		}
		if r <= last && h.less(r, smallest) {
			smallest = r
		}
		if smallest == index {
			return
		}
		h.swap(smallest, index)
		index = smallest
	}
}

// push inserts p, which must already carry a *StrideDiscipline, into the
// heap.
func (h *strideHeap) push(p *Slot) {
	if len(h.members) == 0 {
		h.members = append(h.members, nil) // index 0 padding
	}
	h.members = append(h.members, p)
	index := len(h.members) - 1
	h.disc(p).heapIndex = index
	h.shiftUp(index)
}

// pop removes and returns the root (lowest passvalue), or nil if the heap
// is empty.
func (h *strideHeap) pop() *Slot {
	if len(h.members) <= 1 {
		return nil
	}
	root := h.members[1]
	last := len(h.members) - 1
	h.swap(1, last)
	h.members = h.members[:last]
	h.disc(root).heapIndex = -1
	if len(h.members) > 1 {
		h.shiftDown(1)
	}
	return root
}

// remove deletes p from the heap regardless of its position, used by exit:
// a stride slot leaving the table has its tickets subtracted and is
// removed from the heap as the specific member it is, not necessarily the
// root.
func (h *strideHeap) remove(p *Slot) {
	index := h.disc(p).heapIndex
	if index <= 0 || index >= len(h.members) {
		return
	}
	last := len(h.members) - 1
	h.swap(index, last)
	h.members = h.members[:last]
	h.disc(p).heapIndex = -1
	if index < len(h.members) {
		h.shiftUp(index)
		h.shiftDown(index)
	}
}

// root returns the current minimum-passvalue member without removing it.
func (h *strideHeap) root() *Slot {
	if len(h.members) <= 1 {
		return nil
	}
	return h.members[1]
}

func (h *strideHeap) empty() bool {
	return len(h.members) <= 1
}

// advance pops p, advances its pass by its stride, and re-pushes it: run
// for one quantum (or find it unrunnable), then advance and reheapify.
func (h *strideHeap) advance(p *Slot) {
	h.remove(p)
	d := h.disc(p)
	d.PassValue += d.Stride
	h.push(p)
}
