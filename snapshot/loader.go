package snapshot

import (
	"encoding/gob"
	"os"

	"fenrir/domain/book"
)

// Load reads a snapshot file and rests its orders into eng, resuming the
// sequence counter past everything the snapshot saw. A missing file is not
// an error: the engine simply starts cold.
func Load(path string, eng *book.Engine) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	defer f.Close()

	var s Snapshot
	if err := gob.NewDecoder(f).Decode(&s); err != nil {
		return 0, err
	}

	for _, e := range s.Orders {
		o := &book.Order{
			ID:        e.ID,
			Side:      book.Side(e.Side),
			Type:      book.Limit,
			TIF:       book.TimeInForce(e.TIF),
			Price:     e.Price,
			Qty:       e.Qty,
			Remaining: e.Remaining,
			Seq:       e.Seq,
		}
		if err := eng.Restore(o); err != nil {
			return 0, err
		}
	}
	eng.ResumeSequence(s.Seq)
	return s.Seq, nil
}
