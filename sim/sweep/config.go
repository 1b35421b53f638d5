package sweep

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/haru1843/mobile-info-network-rep02/sim"
)

// Config describes a parameter sweep. One result set is produced per cell
// length; inside it, one result per arrival rate.
type Config struct {
	Seed               int64     `yaml:"seed"`
	AverageServiceTime float64   `yaml:"average_service_time"`
	PerCellCapacity    int       `yaml:"per_cell_capacity"`
	CellCount          int       `yaml:"cell_count"`
	CellLengths        []float64 `yaml:"cell_lengths"`
	Velocity           float64   `yaml:"velocity"`
	StopAllCall        int64     `yaml:"stop_all_call"`
	Replications       int       `yaml:"replications"` // independent runs per point (default 1)
	TiePolicy          string    `yaml:"tie_policy"`
	ArrivalRates       RateGrid  `yaml:"arrival_rates"`
	OutputDir          string    `yaml:"output_dir"`
	ErlangDir          string    `yaml:"erlang_dir"` // optional; holds erlang_cap=<cells*capacity>.csv
}

// Rate grid scales.
const (
	ScaleLinear = "linear"
	ScaleLog    = "log"
)

// DefaultLogBase is the base of a log-scale grid that leaves base unset.
const DefaultLogBase = 10.0

// RateGrid lists arrival rates explicitly or as an inclusive range.
// Explicit values win when given.
//
// On the linear scale (the default) the range is Start, Start+Step, ... up to
// Stop. On the log scale Start and Stop are exponents: Num rates
// Base^e for e evenly spaced from Start to Stop, both ends included.
// {scale: log, start: 0.1, stop: 9, num: 100, base: 2} is the grid
// 2^0.1 ... 2^9 used for the reference curves.
type RateGrid struct {
	Values []float64 `yaml:"values"`
	Scale  string    `yaml:"scale"`
	Start  float64   `yaml:"start"`
	Stop   float64   `yaml:"stop"`
	Step   float64   `yaml:"step"` // linear only
	Num    int       `yaml:"num"`  // log only
	Base   float64   `yaml:"base"` // log only; zero means DefaultLogBase
}

// Rates expands the grid. It returns nil when the grid is empty or invalid.
func (g RateGrid) Rates() []float64 {
	if len(g.Values) > 0 {
		out := make([]float64, len(g.Values))
		copy(out, g.Values)
		return out
	}
	switch g.Scale {
	case "", ScaleLinear:
		return g.linearRates()
	case ScaleLog:
		return g.logRates()
	}
	return nil
}

func (g RateGrid) linearRates() []float64 {
	if !(g.Step > 0) || g.Stop < g.Start {
		return nil
	}
	n := int(math.Floor((g.Stop-g.Start)/g.Step+1e-9)) + 1
	out := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, g.Start+float64(i)*g.Step)
	}
	return out
}

// logRates raises Base to Num exponents spaced evenly over [Start, Stop].
// The last exponent is Stop exactly.
func (g RateGrid) logRates() []float64 {
	base := g.Base
	if base == 0 {
		base = DefaultLogBase
	}
	if g.Num < 1 || !(base > 0) {
		return nil
	}
	out := make([]float64, g.Num)
	if g.Num == 1 {
		out[0] = math.Pow(base, g.Start)
		return out
	}
	step := (g.Stop - g.Start) / float64(g.Num-1)
	for i := range out {
		exp := float64(i)*step + g.Start
		if i == g.Num-1 {
			exp = g.Stop
		}
		out[i] = math.Pow(base, exp)
	}
	return out
}

// validate reports a grid that cannot be expanded.
func (g RateGrid) validate() error {
	if len(g.Values) > 0 {
		return nil
	}
	switch g.Scale {
	case "", ScaleLinear:
		if !(g.Step > 0) {
			return fmt.Errorf("arrival_rates step must be > 0, got %v", g.Step)
		}
	case ScaleLog:
		if g.Num < 1 {
			return fmt.Errorf("arrival_rates num must be >= 1 on the log scale, got %d", g.Num)
		}
		if g.Base < 0 || g.Base == 1 {
			return fmt.Errorf("arrival_rates base must be > 0 and != 1, got %v", g.Base)
		}
	default:
		return fmt.Errorf("unknown arrival_rates scale %q (want %q or %q)", g.Scale, ScaleLinear, ScaleLog)
	}
	return nil
}

// ErrInvalidSweep is wrapped by every sweep Config validation failure.
var ErrInvalidSweep = errors.New("invalid sweep config")

// WithDefaults returns a copy with unset optional fields filled in.
func (c Config) WithDefaults() Config {
	if c.Replications == 0 {
		c.Replications = 1
	}
	if c.Velocity == 0 {
		c.Velocity = sim.DefaultVelocity
	}
	if c.OutputDir == "" {
		c.OutputDir = "output"
	}
	return c
}

// Validate checks the sweep-level fields and every RunConfig the sweep will
// build, so a bad grid fails before any simulation starts.
func (c Config) Validate() error {
	c = c.WithDefaults()
	if c.Replications < 1 {
		return fmt.Errorf("%w: replications must be >= 1, got %d", ErrInvalidSweep, c.Replications)
	}
	if len(c.CellLengths) == 0 {
		return fmt.Errorf("%w: cell_lengths must not be empty", ErrInvalidSweep)
	}
	if err := c.ArrivalRates.validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSweep, err)
	}
	rates := c.ArrivalRates.Rates()
	if len(rates) == 0 {
		return fmt.Errorf("%w: arrival_rates yields no rates", ErrInvalidSweep)
	}
	for _, length := range c.CellLengths {
		for _, rate := range rates {
			if err := c.RunConfig(rate, length, c.Seed).Validate(); err != nil {
				return fmt.Errorf("%w: rate %v, cell length %v: %w", ErrInvalidSweep, rate, length, err)
			}
		}
	}
	return nil
}

// RunConfig builds the engine config for one point of the grid.
func (c Config) RunConfig(rate, cellLength float64, seed int64) sim.RunConfig {
	c = c.WithDefaults()
	return sim.RunConfig{
		ArrivalRate:        rate,
		AverageServiceTime: c.AverageServiceTime,
		PerCellCapacity:    c.PerCellCapacity,
		CellCount:          c.CellCount,
		CellLength:         cellLength,
		Velocity:           c.Velocity,
		StopAllCall:        c.StopAllCall,
		Seed:               seed,
		TiePolicy:          sim.TiePolicy(c.TiePolicy),
	}
}

// LoadConfig parses a sweep YAML file with strict field checking: typos must
// cause errors rather than silently falling back to defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading sweep config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes and validates sweep YAML.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing sweep config: %w", err)
	}
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
