package snapshot

import (
	"encoding/gob"
	"os"
	"path/filepath"
	"sort"
	"time"

	"fenrir/domain/book"
)

// Writer persists gob-encoded book snapshots into a directory.
type Writer struct {
	Dir string
}

// Write captures the engine's resting orders and writes them atomically
// (temp file + rename) as snapshot.bin.
func (w *Writer) Write(eng *book.Engine) error {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return err
	}

	s := Snapshot{
		Seq:     eng.Sequence(),
		Created: time.Now(),
		Orders:  Capture(eng),
	}

	tmp := filepath.Join(w.Dir, "snapshot.bin.tmp")
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := gob.NewEncoder(f).Encode(&s); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, filepath.Join(w.Dir, "snapshot.bin"))
}

// Capture flattens every resting order, sorted by arrival sequence so a
// restore rebuilds identical FIFO order within each level.
func Capture(eng *book.Engine) []OrderEntry {
	out := make([]OrderEntry, 0, eng.LiveOrders())
	collect := func(sb *book.SideBook) {
		sb.Walk(func(lvl *book.PriceLevel) bool {
			for o := lvl.Head(); o != nil; o = o.Next() {
				out = append(out, OrderEntry{
					ID:        o.ID,
					Side:      int8(o.Side),
					TIF:       int8(o.TIF),
					Price:     o.Price,
					Qty:       o.Qty,
					Remaining: o.Remaining,
					Seq:       o.Seq,
				})
			}
			return true
		})
	}
	collect(eng.Bids())
	collect(eng.Asks())
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out
}
