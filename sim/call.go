// Defines the MobileCall, an admitted call that moves around the ring while it is in service.

package sim

import (
	"fmt"
	"math/rand"
)

// MobileCall tracks one in-progress call:
// - the cell it currently occupies
// - how much service time it has left
// - how long until it crosses into the next cell
//
// Both clocks count down together as simulated time advances. Whichever
// reaches zero first is the call's next event.
type MobileCall struct {
	cellIndex            int
	remainingServiceTime float64
	timeToHandoff        float64

	velocity   float64
	cellLength float64

	seq   uint64 // admission order; breaks ties between equal event times
	index int    // position in the ServiceArea heap, maintained by callQueue
}

// newMobileCall places a call in cell. The terminal's position inside the
// cell is unknown, so the first handoff happens after a uniform fraction of
// the cell crossing time.
func newMobileCall(seq uint64, cell int, serviceTime, cellLength, velocity float64, rng *rand.Rand) *MobileCall {
	return &MobileCall{
		cellIndex:            cell,
		remainingServiceTime: serviceTime,
		timeToHandoff:        rng.Float64() * (cellLength / velocity),
		velocity:             velocity,
		cellLength:           cellLength,
		seq:                  seq,
		index:                -1,
	}
}

// NextEvent returns the call's next internal event and the time until it.
// A call whose handoff coincides with its close simply closes.
func (c *MobileCall) NextEvent() (EventKind, float64) {
	if c.timeToHandoff >= c.remainingServiceTime {
		return EventClose, c.remainingServiceTime
	}
	return EventHandoff, c.timeToHandoff
}

// Advance moves both clocks forward by dt. It does not clamp: the simulator
// always advances by the exact time of the earliest event, so neither field
// can go below zero.
func (c *MobileCall) Advance(dt float64) {
	if dt < 0 {
		panic(fmt.Sprintf("MobileCall.Advance: negative dt %v", dt))
	}
	c.remainingServiceTime -= dt
	c.timeToHandoff -= dt
}

// Handoff moves the call into the successor cell and restarts the crossing
// clock. The ServiceArea must already hold capacity for it there.
func (c *MobileCall) Handoff(cellCount int) {
	c.timeToHandoff = c.cellLength / c.velocity
	c.cellIndex = (c.cellIndex + 1) % cellCount
}

// CellIndex returns the cell the call currently occupies.
func (c *MobileCall) CellIndex() int { return c.cellIndex }

// RemainingServiceTime returns the service time left before the call closes.
func (c *MobileCall) RemainingServiceTime() float64 { return c.remainingServiceTime }

// TimeToHandoff returns the time until the call leaves its current cell.
func (c *MobileCall) TimeToHandoff() float64 { return c.timeToHandoff }

func (c MobileCall) String() string {
	return fmt.Sprintf("MobileCall: (Seq: %d, Cell: %d, Remaining: %g, ToHandoff: %g)",
		c.seq, c.cellIndex, c.remainingServiceTime, c.timeToHandoff)
}
