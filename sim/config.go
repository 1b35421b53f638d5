package sim

import (
	"errors"
	"fmt"
)

// TiePolicy decides what happens when the next arrival and the next internal
// event fall on exactly the same simulated time.
type TiePolicy string

const (
	// TieArrivalFirst processes the arrival first, then the internal event on
	// the next iteration with zero elapsed time.
	TieArrivalFirst TiePolicy = "arrival-first"
	// TieFail panics. Continuous draws make a tie probability-zero, so one
	// means a modeling assumption was violated.
	TieFail TiePolicy = "fail"
)

// validTiePolicies maps accepted tie policy strings.
var validTiePolicies = map[TiePolicy]bool{
	TieArrivalFirst: true,
	TieFail:         true,
	"":              true, // empty defaults to arrival-first
}

// IsValidTiePolicy returns true if the given string is a recognized tie policy.
func IsValidTiePolicy(p string) bool {
	return validTiePolicies[TiePolicy(p)]
}

// DefaultVelocity is the terminal speed used when a config leaves it unset.
// A terminal crosses a cell in cell_length/10 time units.
const DefaultVelocity = 10.0

// RunConfig groups the parameters of one simulated parameter point.
type RunConfig struct {
	ArrivalRate        float64   // λ, call arrivals per unit time (> 0)
	AverageServiceTime float64   // 1/μ (> 0)
	PerCellCapacity    int       // slots per cell (>= 0)
	CellCount          int       // cells on the ring (>= 1)
	CellLength         float64   // length of one cell (> 0)
	Velocity           float64   // terminal speed (> 0; zero means DefaultVelocity)
	StopAllCall        int64     // stop once this many call events were counted (> 0)
	Seed               int64     // master seed for PartitionedRNG
	TiePolicy          TiePolicy // "" means TieArrivalFirst
}

// ErrInvalidConfig is wrapped by every RunConfig validation failure.
var ErrInvalidConfig = errors.New("invalid run config")

// WithDefaults returns a copy with unset optional fields filled in.
func (c RunConfig) WithDefaults() RunConfig {
	if c.Velocity == 0 {
		c.Velocity = DefaultVelocity
	}
	if c.TiePolicy == "" {
		c.TiePolicy = TieArrivalFirst
	}
	return c
}

// Validate checks the config after defaults are applied.
// Zero per-cell capacity is accepted: every call is then blocked.
func (c RunConfig) Validate() error {
	c = c.WithDefaults()
	switch {
	case !(c.ArrivalRate > 0):
		return fmt.Errorf("%w: arrival rate must be > 0, got %v", ErrInvalidConfig, c.ArrivalRate)
	case !(c.AverageServiceTime > 0):
		return fmt.Errorf("%w: average service time must be > 0, got %v", ErrInvalidConfig, c.AverageServiceTime)
	case c.PerCellCapacity < 0:
		return fmt.Errorf("%w: per-cell capacity must be >= 0, got %d", ErrInvalidConfig, c.PerCellCapacity)
	case c.CellCount < 1:
		return fmt.Errorf("%w: cell count must be >= 1, got %d", ErrInvalidConfig, c.CellCount)
	case !(c.CellLength > 0):
		return fmt.Errorf("%w: cell length must be > 0, got %v", ErrInvalidConfig, c.CellLength)
	case !(c.Velocity > 0):
		return fmt.Errorf("%w: velocity must be > 0, got %v", ErrInvalidConfig, c.Velocity)
	case c.StopAllCall <= 0:
		return fmt.Errorf("%w: stop-all-call must be > 0, got %d", ErrInvalidConfig, c.StopAllCall)
	case !IsValidTiePolicy(string(c.TiePolicy)):
		return fmt.Errorf("%w: unknown tie policy %q; valid policies: [arrival-first, fail]", ErrInvalidConfig, c.TiePolicy)
	}
	return nil
}

// ServiceRate returns μ = 1/AverageServiceTime.
func (c RunConfig) ServiceRate() float64 {
	return 1 / c.AverageServiceTime
}

// TrafficIntensity returns λ/μ, the offered load in Erlangs.
func (c RunConfig) TrafficIntensity() float64 {
	return c.ArrivalRate * c.AverageServiceTime
}

// SegmentTime returns the time a terminal needs to cross one cell.
func (c RunConfig) SegmentTime() float64 {
	c = c.WithDefaults()
	return c.CellLength / c.Velocity
}
