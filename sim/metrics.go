// Tracks the blocking counters of one simulation run.

package sim

import (
	"fmt"
	"io"
)

// Stats aggregates the counters of a single run for final reporting.
// Every counter only ever grows.
//
// Handoff continuations are counted in CallCount as well as HandoffCount, so
// BlockRate mixes fresh and handed-off calls. Reference result sets were
// produced this way.
type Stats struct {
	CallCount         int64 // arrivals plus handoff attempts
	CallBlockCount    int64 // blocked arrivals plus dropped handoffs
	HandoffCount      int64 // handoff attempts
	HandoffBlockCount int64 // dropped handoffs
}

// BlockRate returns CallBlockCount / CallCount, or 0 before any call.
func (s Stats) BlockRate() float64 {
	if s.CallCount == 0 {
		return 0
	}
	return float64(s.CallBlockCount) / float64(s.CallCount)
}

// HandoffBlockRate returns HandoffBlockCount / HandoffCount, or 0 when no
// handoff happened.
func (s Stats) HandoffBlockRate() float64 {
	if s.HandoffCount == 0 {
		return 0
	}
	return float64(s.HandoffBlockCount) / float64(s.HandoffCount)
}

// Print writes the counters and derived rates to w.
func (s Stats) Print(w io.Writer) {
	fmt.Fprintln(w, "=== Simulation Metrics ===")
	fmt.Fprintf(w, "Calls                : %d\n", s.CallCount)
	fmt.Fprintf(w, "Blocked Calls        : %d\n", s.CallBlockCount)
	fmt.Fprintf(w, "Handoffs             : %d\n", s.HandoffCount)
	fmt.Fprintf(w, "Blocked Handoffs     : %d\n", s.HandoffBlockCount)
	fmt.Fprintf(w, "Block Rate           : %.6f\n", s.BlockRate())
	fmt.Fprintf(w, "Handoff Block Rate   : %.6f\n", s.HandoffBlockRate())
}
