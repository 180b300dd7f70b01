package journal

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

const defaultSegmentSize = 4 << 20

// Journal is a segmented append-only log of accepted events. Segments roll
// at defaultSegmentSize; names sort in write order so the Reader replays
// them back in sequence.
type Journal struct {
	dir     string
	file    *os.File
	written int64
	nextIdx int
}

// Open creates dir if needed and starts a fresh segment after any existing
// ones, never truncating earlier segments.
func Open(dir string) (*Journal, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	existing, err := segments(dir)
	if err != nil {
		return nil, err
	}
	j := &Journal{dir: dir, nextIdx: len(existing)}
	if err := j.rotate(); err != nil {
		return nil, err
	}
	return j, nil
}

// Append frames and writes one record.
func (j *Journal) Append(rec *Record) error {
	buf := encodeFrame(rec)
	n, err := j.file.Write(buf)
	if err != nil {
		return err
	}
	j.written += int64(n)
	if j.written >= defaultSegmentSize {
		return j.rotate()
	}
	return nil
}

// Sync flushes the current segment to disk.
func (j *Journal) Sync() error { return j.file.Sync() }

// Close syncs and closes the current segment.
func (j *Journal) Close() error {
	if err := j.file.Sync(); err != nil {
		return err
	}
	return j.file.Close()
}

func (j *Journal) rotate() error {
	if j.file != nil {
		if err := j.file.Close(); err != nil {
			return err
		}
	}
	path := filepath.Join(j.dir, fmt.Sprintf("%08d.jrn", j.nextIdx))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	j.file = f
	j.written = 0
	j.nextIdx++
	return nil
}

func segments(dir string) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.jrn"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}
