// Package erlang computes the Erlang-B loss formula and reads and writes the
// reference tables the blocking plots overlay on simulated results.
package erlang

import (
	"fmt"
	"math"
	"sort"
)

// B returns the Erlang-B blocking probability for offered load a (Erlangs)
// on the given number of servers, using the stable recursion
// B(0) = 1, B(n) = a·B(n-1) / (n + a·B(n-1)).
func B(a float64, servers int) float64 {
	if servers < 0 {
		panic(fmt.Sprintf("erlang.B: servers must be >= 0, got %d", servers))
	}
	if a <= 0 {
		if servers == 0 {
			return 1
		}
		return 0
	}
	b := 1.0
	for n := 1; n <= servers; n++ {
		b = a * b / (float64(n) + a*b)
	}
	return b
}

// HandoffAdjusted scales an Erlang-B value by the share of offered traffic
// that is fresh rather than handed off. With total capacity servers and cell
// crossing time segmentTime, the handoff stream is approximated as
// b·servers/segmentTime.
func HandoffAdjusted(b, a float64, servers int, segmentTime float64) float64 {
	if segmentTime <= 0 {
		panic(fmt.Sprintf("erlang.HandoffAdjusted: segment time must be > 0, got %v", segmentTime))
	}
	denom := a + b*float64(servers)/segmentTime
	if denom == 0 {
		return 0
	}
	return b * a / denom
}

// Point is one row of a reference table.
type Point struct {
	TrafficIntensity float64
	BlockRate        float64
}

// Table is a reference curve sorted by traffic intensity.
type Table struct {
	Servers int
	Points  []Point
}

// NewTable evaluates B over traffic intensities from..to (inclusive) in steps.
func NewTable(servers int, from, to, step float64) (Table, error) {
	if servers < 0 {
		return Table{}, fmt.Errorf("servers must be >= 0, got %d", servers)
	}
	if !(step > 0) || from < 0 || to < from {
		return Table{}, fmt.Errorf("invalid traffic intensity range [%v, %v] step %v", from, to, step)
	}
	n := int(math.Floor((to-from)/step+1e-9)) + 1
	t := Table{Servers: servers, Points: make([]Point, 0, n)}
	for i := 0; i < n; i++ {
		a := from + float64(i)*step
		t.Points = append(t.Points, Point{TrafficIntensity: a, BlockRate: B(a, servers)})
	}
	return t, nil
}

// Lookup linearly interpolates the block rate at traffic intensity a.
// Values outside the table are clamped to its end points.
func (t Table) Lookup(a float64) (float64, bool) {
	if len(t.Points) == 0 {
		return 0, false
	}
	i := sort.Search(len(t.Points), func(i int) bool { return t.Points[i].TrafficIntensity >= a })
	switch {
	case i == 0:
		return t.Points[0].BlockRate, true
	case i == len(t.Points):
		return t.Points[len(t.Points)-1].BlockRate, true
	case t.Points[i].TrafficIntensity == a:
		return t.Points[i].BlockRate, true
	}
	lo, hi := t.Points[i-1], t.Points[i]
	if hi.TrafficIntensity == lo.TrafficIntensity {
		return hi.BlockRate, true
	}
	frac := (a - lo.TrafficIntensity) / (hi.TrafficIntensity - lo.TrafficIntensity)
	return lo.BlockRate + frac*(hi.BlockRate-lo.BlockRate), true
}

// FileName returns the conventional file name for a table on servers servers.
func FileName(servers int) string {
	return fmt.Sprintf("erlang_cap=%d.csv", servers)
}
