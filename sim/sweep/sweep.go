// Package sweep runs the ring simulator over a grid of arrival rates and cell
// lengths and writes one result set per cell length.
package sweep

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"

	"github.com/haru1843/mobile-info-network-rep02/sim"
	"github.com/haru1843/mobile-info-network-rep02/sim/erlang"
)

// Result is one parameter point. Counter fields are summed over replications.
type Result struct {
	ProbOfReach      float64 `json:"prob_of_reach"` // arrival rate λ
	AveServiceTime   float64 `json:"ave_service_time"`
	TrafficIntensity float64 `json:"traffic_intensity"`
	Capacity         int     `json:"capacity"` // per cell
	CellCount        int     `json:"cell_count"`
	CallNum          int64   `json:"call_num"`
	CallBlockNum     int64   `json:"call_block_num"`
	HandoffNum       int64   `json:"handoff_num"`
	HandoffBlockNum  int64   `json:"handoff_block_num"`
	BlockRate        float64 `json:"block_rate"`
	HandoffBlockRate float64 `json:"handoff_block_rate"`

	Replications    int     `json:"replications"`
	BlockRateStdDev float64 `json:"block_rate_stddev"` // across replications; 0 with one
	BlockRateStdErr float64 `json:"block_rate_stderr"`

	// Set only when the sweep has an erlang_dir. Both treat the whole ring
	// as one pool of cells*capacity servers.
	ErlangBlockRate          *float64 `json:"erlang_block_rate,omitempty"`
	HandoffAdjustedBlockRate *float64 `json:"handoff_adjusted_block_rate,omitempty"`
}

// ResultSet is everything simulated for one cell length.
type ResultSet struct {
	SegmentTime float64  `json:"segment_time"` // cell length / velocity
	CellLength  float64  `json:"cell_length"`
	Velocity    float64  `json:"velocity"`
	Seed        int64    `json:"seed"`
	Output      []Result `json:"output"`
}

// ReplicationSeed derives the seed of replication rep from the sweep seed.
// The same replication uses the same seed at every grid point, so curves
// across rates share random numbers and come out smoother.
func ReplicationSeed(master int64, rep int) int64 {
	return int64(sim.NewSimulationKey(master).Replication(rep))
}

// RunPoint simulates one grid point for every replication and aggregates.
func RunPoint(cfg Config, rate, cellLength float64) (Result, error) {
	cfg = cfg.WithDefaults()
	runs := make([]sim.Stats, 0, cfg.Replications)
	for rep := 0; rep < cfg.Replications; rep++ {
		rc := cfg.RunConfig(rate, cellLength, ReplicationSeed(cfg.Seed, rep))
		stats, err := sim.Simulate(rc)
		if err != nil {
			return Result{}, fmt.Errorf("rate %v, cell length %v, replication %d: %w", rate, cellLength, rep, err)
		}
		runs = append(runs, stats)
	}
	rc := cfg.RunConfig(rate, cellLength, cfg.Seed)
	return aggregate(rc, runs), nil
}

// aggregate sums counters over replications. The pooled block rate is
// sum(blocked)/sum(calls); the spread is taken over per-run block rates.
func aggregate(rc sim.RunConfig, runs []sim.Stats) Result {
	var total sim.Stats
	rates := make([]float64, len(runs))
	for i, s := range runs {
		total.CallCount += s.CallCount
		total.CallBlockCount += s.CallBlockCount
		total.HandoffCount += s.HandoffCount
		total.HandoffBlockCount += s.HandoffBlockCount
		rates[i] = s.BlockRate()
	}

	r := Result{
		ProbOfReach:      rc.ArrivalRate,
		AveServiceTime:   rc.AverageServiceTime,
		TrafficIntensity: rc.TrafficIntensity(),
		Capacity:         rc.PerCellCapacity,
		CellCount:        rc.CellCount,
		CallNum:          total.CallCount,
		CallBlockNum:     total.CallBlockCount,
		HandoffNum:       total.HandoffCount,
		HandoffBlockNum:  total.HandoffBlockCount,
		BlockRate:        total.BlockRate(),
		HandoffBlockRate: total.HandoffBlockRate(),
		Replications:     len(runs),
	}
	if len(runs) > 1 {
		_, std := stat.MeanStdDev(rates, nil)
		r.BlockRateStdDev = std
		r.BlockRateStdErr = stat.StdErr(std, float64(len(runs)))
	}
	return r
}

// erlangTable loads the reference table for the ring's total capacity. It
// returns nil when the sweep has no erlang_dir.
func (c Config) erlangTable() (*erlang.Table, error) {
	if c.ErlangDir == "" {
		return nil, nil
	}
	tbl, err := erlang.Load(c.ErlangDir, c.CellCount*c.PerCellCapacity)
	if err != nil {
		return nil, fmt.Errorf("loading erlang reference: %w", err)
	}
	if len(tbl.Points) == 0 {
		return nil, fmt.Errorf("%w: erlang table for %d servers has no rows", ErrInvalidSweep, tbl.Servers)
	}
	return &tbl, nil
}

// annotate attaches the Erlang-B block rate at the point's traffic intensity
// and its handoff-adjusted estimate for the set's segment time.
func annotate(r *Result, tbl erlang.Table, segmentTime float64) {
	b, ok := tbl.Lookup(r.TrafficIntensity)
	if !ok {
		return
	}
	adjusted := erlang.HandoffAdjusted(b, r.TrafficIntensity, tbl.Servers, segmentTime)
	r.ErlangBlockRate = &b
	r.HandoffAdjustedBlockRate = &adjusted
}

// Run simulates every arrival rate for one cell length.
func Run(cfg Config, cellLength float64) (ResultSet, error) {
	cfg = cfg.WithDefaults()
	tbl, err := cfg.erlangTable()
	if err != nil {
		return ResultSet{}, err
	}
	return run(cfg, cellLength, tbl)
}

func run(cfg Config, cellLength float64, tbl *erlang.Table) (ResultSet, error) {
	set := ResultSet{
		SegmentTime: cellLength / cfg.Velocity,
		CellLength:  cellLength,
		Velocity:    cfg.Velocity,
		Seed:        cfg.Seed,
	}
	rates := cfg.ArrivalRates.Rates()
	for i, rate := range rates {
		r, err := RunPoint(cfg, rate, cellLength)
		if err != nil {
			return ResultSet{}, err
		}
		if tbl != nil {
			annotate(&r, *tbl, set.SegmentTime)
		}
		logrus.Infof("[cell-len=%g %d/%d] λ=%g a=%g block=%.5f handoff-block=%.5f",
			cellLength, i+1, len(rates), rate, r.TrafficIntensity, r.BlockRate, r.HandoffBlockRate)
		set.Output = append(set.Output, r)
	}
	return set, nil
}

// RunAll simulates the full grid, one ResultSet per cell length in config order.
func RunAll(cfg Config) ([]ResultSet, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.WithDefaults()
	tbl, err := cfg.erlangTable()
	if err != nil {
		return nil, err
	}
	sets := make([]ResultSet, 0, len(cfg.CellLengths))
	for _, length := range cfg.CellLengths {
		set, err := run(cfg, length, tbl)
		if err != nil {
			return nil, err
		}
		sets = append(sets, set)
	}
	return sets, nil
}
