// Implements the ServiceArea, the ring of cells and the calls currently holding capacity in them.

package sim

import (
	"container/heap"
	"fmt"
	"math"
	"math/rand"
)

// ServiceArea owns per-cell free capacity and every active call.
// Cell i's successor on the ring is (i+1) mod cellCount.
//
// Capacity is conserved: the sum of free slots plus the number of active
// calls always equals cellCount * perCellCapacity.
type ServiceArea struct {
	cellCapacity    []int // free slots per cell
	perCellCapacity int
	cellLength      float64
	velocity        float64

	calls   callQueue
	nextSeq uint64

	placementRNG *rand.Rand // picks the cell of an arriving call
	motionRNG    *rand.Rand // initial offset inside the cell
}

// NewServiceArea builds a ring of cellCount cells with perCellCapacity free
// slots each. Randomness is injected so runs are reproducible.
func NewServiceArea(perCellCapacity, cellCount int, cellLength, velocity float64, placementRNG, motionRNG *rand.Rand) *ServiceArea {
	if cellCount < 1 {
		panic(fmt.Sprintf("NewServiceArea: cellCount must be >= 1, got %d", cellCount))
	}
	if perCellCapacity < 0 {
		panic(fmt.Sprintf("NewServiceArea: perCellCapacity must be >= 0, got %d", perCellCapacity))
	}
	if placementRNG == nil || motionRNG == nil {
		panic("NewServiceArea: rng must not be nil")
	}
	caps := make([]int, cellCount)
	for i := range caps {
		caps[i] = perCellCapacity
	}
	return &ServiceArea{
		cellCapacity:    caps,
		perCellCapacity: perCellCapacity,
		cellLength:      cellLength,
		velocity:        velocity,
		calls:           make(callQueue, 0, cellCount*perCellCapacity),
		placementRNG:    placementRNG,
		motionRNG:       motionRNG,
	}
}

// NextEvent returns the earliest internal event, or (EventNone, +Inf) when
// no call is active.
func (sa *ServiceArea) NextEvent() (EventKind, float64) {
	if len(sa.calls) == 0 {
		return EventNone, math.Inf(1)
	}
	return sa.calls[0].NextEvent()
}

// Admit places a new call in a uniformly chosen cell. It returns false, and
// changes nothing, when that cell has no free slot.
func (sa *ServiceArea) Admit(serviceTime float64) bool {
	cell := sa.placementRNG.Intn(len(sa.cellCapacity))
	if sa.cellCapacity[cell] <= 0 {
		return false
	}
	sa.cellCapacity[cell]--
	c := newMobileCall(sa.nextSeq, cell, serviceTime, sa.cellLength, sa.velocity, sa.motionRNG)
	sa.nextSeq++
	heap.Push(&sa.calls, c)
	return true
}

// Complete removes the earliest call, whose next event must be a close, and
// frees its slot.
func (sa *ServiceArea) Complete() {
	sa.mustPeek("Complete", EventClose)
	c := heap.Pop(&sa.calls).(*MobileCall)
	sa.cellCapacity[c.cellIndex]++
}

// TryHandoff moves the earliest call, whose next event must be a handoff,
// into the successor cell. The slot in the current cell is released first,
// so on a single-cell ring the call always finds room. When the successor is
// full the call is dropped and TryHandoff returns false.
func (sa *ServiceArea) TryHandoff() bool {
	c := sa.mustPeek("TryHandoff", EventHandoff)
	sa.cellCapacity[c.cellIndex]++

	next := (c.cellIndex + 1) % len(sa.cellCapacity)
	if sa.cellCapacity[next] <= 0 {
		heap.Pop(&sa.calls)
		return false
	}
	sa.cellCapacity[next]--
	c.Handoff(len(sa.cellCapacity))
	heap.Fix(&sa.calls, c.index)
	return true
}

// AdvanceTime moves every active call's clocks forward by dt and restores
// heap order. Shifting all keys by the same amount cannot reorder them, but
// rounding can turn a strict ordering into a tie that the sequence number
// then decides differently.
func (sa *ServiceArea) AdvanceTime(dt float64) {
	if dt == 0 || len(sa.calls) == 0 {
		return
	}
	for _, c := range sa.calls {
		c.Advance(dt)
	}
	heap.Init(&sa.calls)
}

// mustPeek returns the earliest call after checking it is due for want.
func (sa *ServiceArea) mustPeek(op string, want EventKind) *MobileCall {
	if len(sa.calls) == 0 {
		panic(fmt.Sprintf("ServiceArea.%s: no active calls", op))
	}
	c := sa.calls[0]
	if kind, _ := c.NextEvent(); kind != want {
		panic(fmt.Sprintf("ServiceArea.%s: earliest call is due for %s, not %s (%v)", op, kind, want, c))
	}
	return c
}

// FreeCapacity returns the number of free slots in cell i.
func (sa *ServiceArea) FreeCapacity(i int) int {
	return sa.cellCapacity[i]
}

// TotalFreeCapacity returns the free slots summed over the ring.
func (sa *ServiceArea) TotalFreeCapacity() int {
	total := 0
	for _, n := range sa.cellCapacity {
		total += n
	}
	return total
}

// ActiveCalls returns a snapshot of the active calls. The first element is
// the earliest; the rest are in heap order, not fully sorted.
func (sa *ServiceArea) ActiveCalls() []*MobileCall {
	out := make([]*MobileCall, len(sa.calls))
	copy(out, sa.calls)
	return out
}

// Len returns the number of active calls.
func (sa *ServiceArea) Len() int { return len(sa.calls) }

// CellCount returns the number of cells on the ring.
func (sa *ServiceArea) CellCount() int { return len(sa.cellCapacity) }

// PerCellCapacity returns the slot count each cell started with.
func (sa *ServiceArea) PerCellCapacity() int { return sa.perCellCapacity }
