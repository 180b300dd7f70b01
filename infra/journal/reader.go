package journal

import (
	"bufio"
	"errors"
	"io"
	"os"
)

// Reader iterates every record across all segments of a journal directory
// in write order.
type Reader struct {
	paths   []string
	current *os.File
	buf     *bufio.Reader
	rec     *Record
	err     error
}

// OpenReader positions a reader at the first record of the first segment.
func OpenReader(dir string) (*Reader, error) {
	paths, err := segments(dir)
	if err != nil {
		return nil, err
	}
	return &Reader{paths: paths}, nil
}

// Next advances to the next record, returning false at end of journal or on
// the first corrupt record.
func (r *Reader) Next() bool {
	for {
		if r.buf == nil {
			if len(r.paths) == 0 {
				return false
			}
			f, err := os.Open(r.paths[0])
			if err != nil {
				r.err = err
				return false
			}
			r.paths = r.paths[1:]
			r.current = f
			r.buf = bufio.NewReader(f)
		}
		rec, err := decodeFrame(r.buf)
		if err == nil {
			r.rec = rec
			return true
		}
		if errors.Is(err, io.EOF) {
			_ = r.current.Close()
			r.current = nil
			r.buf = nil
			continue
		}
		r.err = err
		return false
	}
}

// Record returns the record Next positioned on.
func (r *Reader) Record() *Record { return r.rec }

// Err returns the reader's terminal error, nil after a clean end.
func (r *Reader) Err() error { return r.err }

// Close releases the current segment, if any.
func (r *Reader) Close() error {
	if r.current != nil {
		return r.current.Close()
	}
	return nil
}
