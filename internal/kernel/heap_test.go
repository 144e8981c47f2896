package kernel

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
)

func stridePeer(tickets int) *Slot {
	return &Slot{Disc: &StrideDiscipline{Tickets: tickets, Stride: 1000 / tickets, heapIndex: -1}}
}

func TestStrideHeapOrdering(t *testing.T) {
	h := &strideHeap{cap: TicketCap}

	a := stridePeer(10)
	b := stridePeer(20)
	c := stridePeer(5)

	a.Disc.(*StrideDiscipline).PassValue = 300
	b.Disc.(*StrideDiscipline).PassValue = 50
	c.Disc.(*StrideDiscipline).PassValue = 150

	h.push(a)
	h.push(b)
	h.push(c)

	if root := h.root(); root != b {
		t.Fatalf("fail: expected lowest-passvalue member at root, got %s", spew.Sdump(root))
	}

	got := h.pop()
	if got != b {
		t.Fatalf("fail: pop returned wrong member, got %s, want %s", spew.Sdump(got), spew.Sdump(b))
	}
	if root := h.root(); root != c {
		t.Fatalf("fail: expected c at root after popping b, got %s", spew.Sdump(root))
	}
}

func TestStrideHeapRemoveArbitrary(t *testing.T) {
	h := &strideHeap{cap: TicketCap}

	members := []*Slot{stridePeer(10), stridePeer(20), stridePeer(30), stridePeer(40)}
	for i, m := range members {
		m.Disc.(*StrideDiscipline).PassValue = (i + 1) * 100
		h.push(m)
	}

	h.remove(members[2])

	if h.disc(members[2]).heapIndex != -1 {
		t.Fatal("fail: removed member's heapIndex was not reset to -1")
	}
	for _, m := range []*Slot{members[0], members[1], members[3]} {
		if h.disc(m).heapIndex <= 0 {
			t.Fatalf("fail: surviving member lost its heap membership: %s", spew.Sdump(m))
		}
	}
	if len(h.members)-1 != 3 {
		t.Fatalf("fail: expected 3 members remaining, got %d", len(h.members)-1)
	}
}

func TestStrideHeapAdvance(t *testing.T) {
	h := &strideHeap{cap: TicketCap}
	p := stridePeer(10)
	h.push(p)

	before := h.disc(p).PassValue
	h.advance(p)
	after := h.disc(p).PassValue

	if after != before+h.disc(p).Stride {
		t.Fatalf("fail: advance did not add stride to passvalue: before=%d after=%d stride=%d", before, after, h.disc(p).Stride)
	}
	if h.disc(p).heapIndex <= 0 {
		t.Fatal("fail: advance did not leave the member re-pushed into the heap")
	}
}
