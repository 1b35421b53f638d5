package sim

import (
	"container/heap"
	"math/rand"
	"testing"
)

func newSeededRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// newTestArea builds a ServiceArea with fixed seeds for placement and motion.
func newTestArea(perCellCapacity, cellCount int, cellLength float64) *ServiceArea {
	return NewServiceArea(perCellCapacity, cellCount, cellLength, 1.0, newSeededRand(1), newSeededRand(2))
}

// placeCall inserts a call with known clocks into cell, taking one slot.
// Tests use it to set up states Admit would only reach by chance.
func placeCall(t *testing.T, sa *ServiceArea, cell int, remaining, toHandoff float64) *MobileCall {
	t.Helper()
	if sa.cellCapacity[cell] <= 0 {
		t.Fatalf("placeCall: cell %d has no free capacity", cell)
	}
	sa.cellCapacity[cell]--
	c := &MobileCall{
		cellIndex:            cell,
		remainingServiceTime: remaining,
		timeToHandoff:        toHandoff,
		velocity:             1.0,
		cellLength:           sa.cellLength,
		seq:                  sa.nextSeq,
		index:                -1,
	}
	sa.nextSeq++
	heap.Push(&sa.calls, c)
	return c
}

// assertConserved checks free capacity plus active calls equals the ring's
// total capacity.
func assertConserved(t *testing.T, sa *ServiceArea) {
	t.Helper()
	total := sa.CellCount() * sa.PerCellCapacity()
	if got := sa.TotalFreeCapacity() + sa.Len(); got != total {
		t.Fatalf("capacity not conserved: free=%d active=%d, want sum %d", sa.TotalFreeCapacity(), sa.Len(), total)
	}
	for i := 0; i < sa.CellCount(); i++ {
		if n := sa.FreeCapacity(i); n < 0 || n > sa.PerCellCapacity() {
			t.Fatalf("cell %d free capacity %d out of [0, %d]", i, n, sa.PerCellCapacity())
		}
	}
}

// assertEarliestFirst checks the reported next event is no later than any
// active call's next event.
func assertEarliestFirst(t *testing.T, sa *ServiceArea) {
	t.Helper()
	_, head := sa.NextEvent()
	for _, c := range sa.ActiveCalls() {
		if _, ct := c.NextEvent(); ct < head {
			t.Fatalf("call %v is due at %v, before reported earliest %v", c, ct, head)
		}
	}
}

// assertClocksNonNegative checks no call clock went below zero.
func assertClocksNonNegative(t *testing.T, sa *ServiceArea) {
	t.Helper()
	for _, c := range sa.ActiveCalls() {
		if c.RemainingServiceTime() < 0 || c.TimeToHandoff() < 0 {
			t.Fatalf("negative clock on %v", c)
		}
	}
}
