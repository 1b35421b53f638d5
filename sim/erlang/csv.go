package erlang

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
)

const (
	columnTrafficIntensity = "traffic_intensity"
	columnBlockRate        = "block_rate"
)

// WriteCSV writes the table with a traffic_intensity,block_rate header.
func WriteCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{columnTrafficIntensity, columnBlockRate}); err != nil {
		return err
	}
	for _, p := range t.Points {
		row := []string{
			strconv.FormatFloat(p.TrafficIntensity, 'g', -1, 64),
			strconv.FormatFloat(p.BlockRate, 'g', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a reference table. The two required columns are located by
// header name, so extra columns such as a leading index are ignored.
func ReadCSV(r io.Reader) ([]Point, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty erlang table")
		}
		return nil, fmt.Errorf("reading erlang table header: %w", err)
	}
	aCol, bCol := -1, -1
	for i, name := range header {
		switch name {
		case columnTrafficIntensity:
			aCol = i
		case columnBlockRate:
			bCol = i
		}
	}
	if aCol < 0 || bCol < 0 {
		return nil, fmt.Errorf("erlang table header %v lacks %q or %q", header, columnTrafficIntensity, columnBlockRate)
	}

	var points []Point
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading erlang table line %d: %w", line, err)
		}
		if len(rec) <= aCol || len(rec) <= bCol {
			return nil, fmt.Errorf("erlang table line %d: expected at least %d fields, got %d", line, max(aCol, bCol)+1, len(rec))
		}
		a, err := strconv.ParseFloat(rec[aCol], 64)
		if err != nil {
			return nil, fmt.Errorf("erlang table line %d: traffic intensity: %w", line, err)
		}
		b, err := strconv.ParseFloat(rec[bCol], 64)
		if err != nil {
			return nil, fmt.Errorf("erlang table line %d: block rate: %w", line, err)
		}
		points = append(points, Point{TrafficIntensity: a, BlockRate: b})
	}
	sort.SliceStable(points, func(i, j int) bool { return points[i].TrafficIntensity < points[j].TrafficIntensity })
	return points, nil
}

// Save writes the table into dir under FileName and returns the path.
func Save(dir string, t Table) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating erlang table dir %s: %w", dir, err)
	}
	path := filepath.Join(dir, FileName(t.Servers))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating erlang table: %w", err)
	}
	if err := WriteCSV(f, t); err != nil {
		f.Close()
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, f.Close()
}

// Load reads the table for servers from dir.
func Load(dir string, servers int) (Table, error) {
	path := filepath.Join(dir, FileName(servers))
	f, err := os.Open(path)
	if err != nil {
		return Table{}, fmt.Errorf("opening erlang table: %w", err)
	}
	defer f.Close()
	points, err := ReadCSV(f)
	if err != nil {
		return Table{}, fmt.Errorf("%s: %w", path, err)
	}
	return Table{Servers: servers, Points: points}, nil
}
