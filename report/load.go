package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"fenrir/metrics"
)

// Latest returns the newest artifact matching prefix*.csv in dir. Artifact
// names embed a UTC timestamp, so lexical order is chronological.
func Latest(dir, prefix string) (string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, prefix+"*.csv"))
	if err != nil {
		return "", err
	}
	if len(paths) == 0 {
		return "", fmt.Errorf("report: no %s*.csv under %s", prefix, dir)
	}
	sort.Strings(paths)
	return paths[len(paths)-1], nil
}

// LoadSnapshots reads a snapshots CSV back into rows.
func LoadSnapshots(path string) ([]metrics.SnapshotRow, error) {
	records, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	rows := make([]metrics.SnapshotRow, 0, len(records))
	for _, rec := range records {
		if len(rec) != 5 {
			return nil, fmt.Errorf("report: bad snapshot row %q", rec)
		}
		var row metrics.SnapshotRow
		if row.Event, err = strconv.ParseInt(rec[0], 10, 64); err != nil {
			return nil, err
		}
		if rec[1] != "" {
			if row.BestBid, err = strconv.ParseInt(rec[1], 10, 64); err != nil {
				return nil, err
			}
			row.HasBid = true
		}
		if rec[2] != "" {
			if row.BestAsk, err = strconv.ParseInt(rec[2], 10, 64); err != nil {
				return nil, err
			}
			row.HasAsk = true
		}
		if row.BidDepth, err = strconv.ParseInt(rec[3], 10, 64); err != nil {
			return nil, err
		}
		if row.AskDepth, err = strconv.ParseInt(rec[4], 10, 64); err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// LoadLatencies reads a latencies CSV back into nanosecond samples.
func LoadLatencies(path string) ([]int64, error) {
	records, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	out := make([]int64, 0, len(records))
	for _, rec := range records {
		if len(rec) != 1 {
			return nil, fmt.Errorf("report: bad latency row %q", rec)
		}
		v, err := strconv.ParseInt(rec[0], 10, 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// readCSV returns all data rows, header stripped.
func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("report: %s is empty", path)
	}
	return records[1:], nil
}
