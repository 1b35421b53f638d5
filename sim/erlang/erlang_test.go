package erlang

import (
	"bytes"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/haru1843/mobile-info-network-rep02/sim/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestB_KnownValues(t *testing.T) {
	tests := []struct {
		name    string
		a       float64
		servers int
		want    float64
	}{
		{"no servers", 3.0, 0, 1.0},
		{"one server one erlang", 1.0, 1, 0.5},
		{"two erlangs three servers", 2.0, 3, 4.0 / 19.0},
		{"ten erlangs fifteen servers", 10.0, 15, 0.0364969},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.AssertFloat64Equal(t, "B", tt.want, B(tt.a, tt.servers), 1e-5)
		})
	}
}

func TestB_ZeroLoad(t *testing.T) {
	assert.Equal(t, 0.0, B(0, 5))
	assert.Equal(t, 1.0, B(0, 0))
}

func TestB_NegativeServersPanics(t *testing.T) {
	assert.Panics(t, func() { B(1, -1) })
}

func TestHandoffAdjusted(t *testing.T) {
	// b·a / (a + b·servers/Tc) = 0.2·2 / (2 + 0.2·15/1)
	assert.InDelta(t, 0.08, HandoffAdjusted(0.2, 2, 15, 1), 1e-12)
	// long cells leave the Erlang value almost untouched
	assert.InDelta(t, 0.2, HandoffAdjusted(0.2, 2, 15, 1e9), 1e-6)
	assert.Panics(t, func() { HandoffAdjusted(0.2, 2, 15, 0) })
}

func TestNewTable_RangeAndValues(t *testing.T) {
	tbl, err := NewTable(15, 0.5, 2.0, 0.5)
	require.NoError(t, err)
	require.Len(t, tbl.Points, 4)
	assert.Equal(t, 0.5, tbl.Points[0].TrafficIntensity)
	assert.Equal(t, 2.0, tbl.Points[3].TrafficIntensity)
	assert.Equal(t, B(1.5, 15), tbl.Points[2].BlockRate)

	_, err = NewTable(3, 1, 0, 0.1)
	assert.Error(t, err)
	_, err = NewTable(3, 0, 1, 0)
	assert.Error(t, err)
}

func TestTable_Lookup(t *testing.T) {
	tbl := Table{Points: []Point{{1, 0.1}, {2, 0.3}, {4, 0.7}}}

	got, ok := tbl.Lookup(1.5)
	require.True(t, ok)
	assert.InDelta(t, 0.2, got, 1e-12)

	got, _ = tbl.Lookup(3)
	assert.InDelta(t, 0.5, got, 1e-12)

	// table points come back unchanged
	got, _ = tbl.Lookup(2)
	assert.Equal(t, 0.3, got)

	got, _ = tbl.Lookup(0)
	assert.Equal(t, 0.1, got)
	got, _ = tbl.Lookup(10)
	assert.Equal(t, 0.7, got)

	_, ok = Table{}.Lookup(1)
	assert.False(t, ok)
}

func TestCSV_SaveLoad(t *testing.T) {
	// GIVEN a generated table saved to disk
	tbl, err := NewTable(15, 1, 20, 1)
	require.NoError(t, err)
	dir := t.TempDir()
	path, err := Save(dir, tbl)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "erlang_cap=15.csv"))

	// WHEN it is loaded back
	loaded, err := Load(dir, 15)
	require.NoError(t, err)

	// THEN values survive exactly
	assert.Equal(t, tbl, loaded)
}

func TestReadCSV_IgnoresExtraColumnsAndSorts(t *testing.T) {
	in := ",block_rate,traffic_intensity\n0,0.5,2\n1,0.1,1\n"
	points, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []Point{{1, 0.1}, {2, 0.5}}, points)
}

func TestReadCSV_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"missing column", "traffic_intensity,rate\n1,0.1\n"},
		{"bad number", "traffic_intensity,block_rate\n1,abc\n"},
		{"short row", "traffic_intensity,block_rate\n1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.in))
			assert.Error(t, err)
		})
	}
}

func TestWriteCSV_Header(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, Table{Points: []Point{{0.5, 0.25}}}))
	assert.Equal(t, "traffic_intensity,block_rate\n0.5,0.25\n", buf.String())
}

func TestLoad_FromFixtureFile(t *testing.T) {
	dir, _ := testutil.WriteFile(t, FileName(3), "traffic_intensity,block_rate\n1,0.0625\n")
	tbl, err := Load(dir, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, tbl.Servers)
	assert.Equal(t, []Point{{1, 0.0625}}, tbl.Points)
}

func TestSaveLoad_FileSystemErrorsCarryContext(t *testing.T) {
	// a regular file where the table directory should be
	_, blocker := testutil.WriteFile(t, "not-a-dir", "x")

	_, err := Save(filepath.Join(blocker, "tables"), Table{Servers: 3})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating erlang table dir")

	_, err = Load(t.TempDir(), 3)
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Contains(t, err.Error(), "opening erlang table")
}
