package sweep

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// FileName returns the conventional result set file name, e.g.
// sim_ave=1_cap=3_cell-len=0.01.json. Numbers never use exponent notation.
func FileName(aveServiceTime float64, capacity int, cellLength float64) string {
	return fmt.Sprintf("sim_ave=%s_cap=%d_cell-len=%s.json", formatNumber(aveServiceTime), capacity, formatNumber(cellLength))
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Write stores set as indented JSON in dir and returns the file path.
func Write(dir string, cfg Config, set ResultSet) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output dir %s: %w", dir, err)
	}
	data, err := json.MarshalIndent(set, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding result set: %w", err)
	}
	path := filepath.Join(dir, FileName(cfg.AverageServiceTime, cfg.PerCellCapacity, set.CellLength))
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("writing result set: %w", err)
	}
	return path, nil
}

// Read loads a result set written by Write.
func Read(path string) (ResultSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ResultSet{}, fmt.Errorf("reading result set: %w", err)
	}
	var set ResultSet
	if err := json.Unmarshal(data, &set); err != nil {
		return ResultSet{}, fmt.Errorf("%s: %w", path, err)
	}
	return set, nil
}
