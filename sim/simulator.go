// sim/simulator.go
package sim

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"
)

// ErrIterationCap is returned by Run when the loop executed more events than
// a terminating run can need.
var ErrIterationCap = errors.New("simulation exceeded iteration cap")

// Simulator is the core object that holds simulation time, the service area,
// the external arrival process and the event loop.
//
// Only two sources can produce the next event: the pending arrival and the
// earliest active call. The loop therefore keeps a single countdown to the
// next arrival instead of an event queue.
type Simulator struct {
	Config RunConfig
	Area   *ServiceArea

	clock         float64 // simulated time since start
	timeToArrival float64 // countdown to the next external arrival
	stats         Stats
	iterations    int64

	arrivalRNG *rand.Rand
	serviceRNG *rand.Rand
	rng        *PartitionedRNG
}

// NewSimulator validates cfg and prepares a run. The first arrival is drawn
// immediately so the initial state is fully determined by the seed.
func NewSimulator(cfg RunConfig) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.WithDefaults()

	rng := NewPartitionedRNG(NewSimulationKey(cfg.Seed))
	s := &Simulator{
		Config: cfg,
		Area: NewServiceArea(cfg.PerCellCapacity, cfg.CellCount, cfg.CellLength, cfg.Velocity,
			rng.ForSubsystem(SubsystemPlacement), rng.ForSubsystem(SubsystemMotion)),
		arrivalRNG: rng.ForSubsystem(SubsystemArrival),
		serviceRNG: rng.ForSubsystem(SubsystemService),
		rng:        rng,
	}
	s.timeToArrival = s.drawInterArrival()
	return s, nil
}

// drawInterArrival samples Exp(λ).
func (sim *Simulator) drawInterArrival() float64 {
	return sim.arrivalRNG.ExpFloat64() / sim.Config.ArrivalRate
}

// drawServiceTime samples Exp(μ).
func (sim *Simulator) drawServiceTime() float64 {
	return sim.serviceRNG.ExpFloat64() * sim.Config.AverageServiceTime
}

// iterationCap bounds the loop. Every iteration is an arrival or a handoff,
// both of which count toward StopAllCall, or a close, which consumes an
// earlier admission.
func (sim *Simulator) iterationCap() int64 {
	return 4*sim.Config.StopAllCall + int64(sim.Config.CellCount*sim.Config.PerCellCapacity) + 16
}

// Done reports whether the stop condition has been reached.
func (sim *Simulator) Done() bool {
	return sim.stats.CallCount >= sim.Config.StopAllCall
}

// Run executes events until CallCount reaches StopAllCall.
func (sim *Simulator) Run() error {
	logrus.Infof("Starting simulation: λ=%g, 1/μ=%g, a=%g, cells=%d, capacity=%d, segment=%g, stop=%d",
		sim.Config.ArrivalRate, sim.Config.AverageServiceTime, sim.TrafficIntensity(),
		sim.Config.CellCount, sim.Config.PerCellCapacity, sim.Config.SegmentTime(), sim.Config.StopAllCall)

	limit := sim.iterationCap()
	for !sim.Done() {
		if sim.iterations >= limit {
			return fmt.Errorf("%w: %d iterations, %d calls counted", ErrIterationCap, sim.iterations, sim.stats.CallCount)
		}
		sim.Step()
	}

	logrus.Infof("[t=%.4f] Simulation ended after %d events: calls=%d blocked=%d handoffs=%d handoff-blocked=%d",
		sim.clock, sim.iterations, sim.stats.CallCount, sim.stats.CallBlockCount,
		sim.stats.HandoffCount, sim.stats.HandoffBlockCount)
	return nil
}

// Step advances simulated time to the globally next event and executes it.
// It returns the kind of event that was processed.
func (sim *Simulator) Step() EventKind {
	sim.iterations++

	kind, dt := sim.nextEvent()
	sim.Area.AdvanceTime(dt)
	sim.timeToArrival -= dt
	sim.clock += dt

	logrus.Tracef("[t=%.6f] Executing %s", sim.clock, kind)

	switch kind {
	case EventArrival:
		sim.stats.CallCount++
		if !sim.Area.Admit(sim.drawServiceTime()) {
			sim.stats.CallBlockCount++
			logrus.Tracef("[t=%.6f] arrival blocked", sim.clock)
		}
		sim.timeToArrival = sim.drawInterArrival()
	case EventClose:
		sim.Area.Complete()
	case EventHandoff:
		sim.stats.CallCount++
		sim.stats.HandoffCount++
		if !sim.Area.TryHandoff() {
			sim.stats.CallBlockCount++
			sim.stats.HandoffBlockCount++
			logrus.Tracef("[t=%.6f] handoff dropped", sim.clock)
		}
	default:
		panic(fmt.Sprintf("Simulator.Step: unexpected event kind %s", kind))
	}
	return kind
}

// nextEvent picks between the pending arrival and the earliest internal
// event, returning the winner and the time until it.
func (sim *Simulator) nextEvent() (EventKind, float64) {
	kind, t := sim.Area.NextEvent()
	switch {
	case sim.timeToArrival < t:
		return EventArrival, sim.timeToArrival
	case t < sim.timeToArrival:
		return kind, t
	}

	// Exact tie. EventNone carries +Inf and the arrival countdown is always
	// finite, so kind is a real internal event here.
	if sim.Config.TiePolicy == TieFail {
		panic(fmt.Sprintf("Simulator: arrival and %s at the same time %v", kind, t))
	}
	logrus.Warnf("[t=%.6f] arrival ties with %s; processing arrival first", sim.clock+t, kind)
	return EventArrival, sim.timeToArrival
}

// Stats returns the counters accumulated so far.
func (sim *Simulator) Stats() Stats { return sim.stats }

// Clock returns the simulated time elapsed since the start of the run.
func (sim *Simulator) Clock() float64 { return sim.clock }

// Iterations returns the number of events processed.
func (sim *Simulator) Iterations() int64 { return sim.iterations }

// TrafficIntensity returns λ/μ for reporting; the loop does not use it.
func (sim *Simulator) TrafficIntensity() float64 { return sim.Config.TrafficIntensity() }

// Key returns the SimulationKey that seeds this run.
func (sim *Simulator) Key() SimulationKey { return sim.rng.Key() }

// Simulate is a convenience wrapper: build, run, and return the counters.
func Simulate(cfg RunConfig) (Stats, error) {
	s, err := NewSimulator(cfg)
	if err != nil {
		return Stats{}, err
	}
	if err := s.Run(); err != nil {
		return s.Stats(), err
	}
	return s.Stats(), nil
}
