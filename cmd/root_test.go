package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sim "github.com/haru1843/mobile-info-network-rep02/sim"
	"github.com/haru1843/mobile-info-network-rep02/sim/erlang"
	"github.com/haru1843/mobile-info-network-rep02/sim/sweep"
)

func TestRunSingle_MetricsPrinted(t *testing.T) {
	// GIVEN a small valid run
	cfg := sim.RunConfig{ArrivalRate: 3, AverageServiceTime: 1, PerCellCapacity: 2, CellCount: 4,
		CellLength: 0.5, StopAllCall: 1000, Seed: 1}

	// WHEN it runs through the CLI path
	var buf bytes.Buffer
	stats, err := runSingle(cfg, &buf)
	require.NoError(t, err)

	// THEN the metrics block is printed and matches the returned counters
	out := buf.String()
	assert.Contains(t, out, "Simulation Metrics")
	assert.Contains(t, out, "Traffic Intensity    : 3.0000")
	assert.Equal(t, int64(1000), stats.CallCount)
}

func TestRunSingle_InvalidConfig(t *testing.T) {
	var buf bytes.Buffer
	_, err := runSingle(sim.RunConfig{}, &buf)
	assert.ErrorIs(t, err, sim.ErrInvalidConfig)
	assert.Empty(t, buf.String())
}

func TestRunConfigFromFlags_Defaults(t *testing.T) {
	// flag defaults are registered in init
	require.NoError(t, runCmd.Flags().Parse([]string{"--arrival-rate", "7", "--cells", "2"}))
	cfg := runConfigFromFlags()
	assert.Equal(t, 7.0, cfg.ArrivalRate)
	assert.Equal(t, 2, cfg.CellCount)
	assert.Equal(t, 3, cfg.PerCellCapacity)
	assert.Equal(t, sim.TieArrivalFirst, cfg.TiePolicy)
	assert.Equal(t, 10.0, cfg.Velocity)
	assert.NoError(t, cfg.Validate())
}

func TestRunSweep_WritesOneFilePerCellLength(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "sweep.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
seed: 5
average_service_time: 1
per_cell_capacity: 3
cell_count: 5
cell_lengths: [0.1, 10]
stop_all_call: 500
arrival_rates:
  values: [1, 4]
output_dir: ignored
`), 0o644))

	out := filepath.Join(dir, "out")
	paths, err := runSweep(cfgPath, out, "")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(out, "sim_ave=1_cap=3_cell-len=0.1.json"),
		filepath.Join(out, "sim_ave=1_cap=3_cell-len=10.json"),
	}, paths)

	set, err := sweep.Read(paths[0])
	require.NoError(t, err)
	assert.InDelta(t, 0.01, set.SegmentTime, 1e-15)
	assert.Equal(t, 10.0, set.Velocity)
	assert.Len(t, set.Output, 2)
}

func TestRunSweep_BadConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "sweep.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("seed: 1\nunknown_field: 2\n"), 0o644))
	_, err := runSweep(cfgPath, "", "")
	assert.Error(t, err)
}

func TestRunSweep_ErlangDirAnnotatesResults(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "sweep.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
seed: 5
average_service_time: 1
per_cell_capacity: 3
cell_count: 5
cell_lengths: [1]
stop_all_call: 500
arrival_rates:
  values: [4]
`), 0o644))
	tables := filepath.Join(dir, "tables")
	_, err := writeErlangTable(15, 1, 20, 1, tables)
	require.NoError(t, err)

	paths, err := runSweep(cfgPath, filepath.Join(dir, "out"), tables)
	require.NoError(t, err)
	set, err := sweep.Read(paths[0])
	require.NoError(t, err)

	r := set.Output[0]
	require.NotNil(t, r.ErlangBlockRate)
	require.NotNil(t, r.HandoffAdjustedBlockRate)
	assert.Equal(t, erlang.B(4, 15), *r.ErlangBlockRate)
	assert.Equal(t, erlang.HandoffAdjusted(erlang.B(4, 15), 4, 15, 0.1), *r.HandoffAdjustedBlockRate)

	_, err = runSweep(cfgPath, filepath.Join(dir, "out"), filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestWriteErlangTable(t *testing.T) {
	dir := t.TempDir()
	path, err := writeErlangTable(15, 1, 3, 1, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "erlang_cap=15.csv"), path)

	tbl, err := erlang.Load(dir, 15)
	require.NoError(t, err)
	require.Len(t, tbl.Points, 3)
	assert.Equal(t, erlang.B(2, 15), tbl.Points[1].BlockRate)

	_, err = writeErlangTable(15, 3, 1, 1, dir)
	assert.Error(t, err)
}
