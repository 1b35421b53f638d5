package sim

import "fmt"

// EventKind identifies what happens at the next point of simulated time.
type EventKind int

const (
	// EventNone is reported by an empty ServiceArea; its time is +Inf.
	EventNone EventKind = iota
	// EventArrival is a new call request from outside the service area.
	EventArrival
	// EventClose ends an active call whose service time has run out.
	EventClose
	// EventHandoff moves an active call to the next cell on the ring.
	EventHandoff
)

var eventKindNames = map[EventKind]string{
	EventNone:    "none",
	EventArrival: "arrival",
	EventClose:   "close",
	EventHandoff: "handoff",
}

func (k EventKind) String() string {
	if name, ok := eventKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}
