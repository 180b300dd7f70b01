package outbox

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"

	"fenrir/domain/book"
)

// State tracks a trade through the publish pipeline.
type State uint8

const (
	StateNew State = iota
	StateSent
	StateAcked
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "NEW"
	case StateSent:
		return "SENT"
	case StateAcked:
		return "ACKED"
	default:
		return "UNKNOWN"
	}
}

// Entry is one persisted trade plus its publish state.
type Entry struct {
	State State
	Trade book.Trade
}

// binary encoding: [state:1][price:8][qty:8][maker:8][taker:8][side:1]
// trade seq lives in the key.
func encodeEntry(e Entry) []byte {
	b := make([]byte, 34)
	b[0] = byte(e.State)
	binary.BigEndian.PutUint64(b[1:], uint64(e.Trade.Price))
	binary.BigEndian.PutUint64(b[9:], uint64(e.Trade.Qty))
	binary.BigEndian.PutUint64(b[17:], e.Trade.MakerID)
	binary.BigEndian.PutUint64(b[25:], e.Trade.TakerID)
	b[33] = byte(e.Trade.TakerSide)
	return b
}

func decodeEntry(seq uint64, b []byte) (Entry, error) {
	if len(b) != 34 {
		return Entry{}, errors.New("outbox: invalid entry length")
	}
	return Entry{
		State: State(b[0]),
		Trade: book.Trade{
			Seq:       seq,
			Price:     int64(binary.BigEndian.Uint64(b[1:])),
			Qty:       int64(binary.BigEndian.Uint64(b[9:])),
			MakerID:   binary.BigEndian.Uint64(b[17:]),
			TakerID:   binary.BigEndian.Uint64(b[25:]),
			TakerSide: book.Side(b[33]),
		},
	}, nil
}

// Outbox is a pebble-backed store of every trade a run emitted, keyed by
// trade sequence. The broadcaster drains NEW entries to the feed and walks
// them through SENT to ACKED; ACKED entries are garbage.
type Outbox struct {
	db *pebble.DB
}

// Open opens (or creates) the store under dir.
func Open(dir string) (*Outbox, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, err
	}
	return &Outbox{db: db}, nil
}

func (o *Outbox) Close() error { return o.db.Close() }

// Put inserts a freshly emitted trade in state NEW.
func (o *Outbox) Put(t book.Trade) error {
	return o.db.Set(keyFor(t.Seq), encodeEntry(Entry{State: StateNew, Trade: t}), pebble.Sync)
}

// Mark moves a trade to the given state.
func (o *Outbox) Mark(seq uint64, state State) error {
	val, closer, err := o.db.Get(keyFor(seq))
	if err != nil {
		return err
	}
	e, err := decodeEntry(seq, val)
	closer.Close()
	if err != nil {
		return err
	}
	e.State = state
	return o.db.Set(keyFor(seq), encodeEntry(e), pebble.Sync)
}

// Get returns the entry for one trade sequence.
func (o *Outbox) Get(seq uint64) (Entry, error) {
	val, closer, err := o.db.Get(keyFor(seq))
	if err != nil {
		return Entry{}, err
	}
	defer closer.Close()
	return decodeEntry(seq, val)
}

// ScanState visits entries in the given state, in sequence order.
func (o *Outbox) ScanState(state State, fn func(Entry) error) error {
	iter, err := o.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte("trade/"),
		UpperBound: []byte("trade/~"),
	})
	if err != nil {
		return err
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		seq, err := parseKey(iter.Key())
		if err != nil {
			return err
		}
		e, err := decodeEntry(seq, iter.Value())
		if err != nil {
			return err
		}
		if e.State != state {
			continue
		}
		if err := fn(e); err != nil {
			return err
		}
	}
	return iter.Error()
}

// DeleteAckedUpTo removes ACKED entries with sequence <= seq.
func (o *Outbox) DeleteAckedUpTo(seq uint64) error {
	var victims []uint64
	err := o.ScanState(StateAcked, func(e Entry) error {
		if e.Trade.Seq <= seq {
			victims = append(victims, e.Trade.Seq)
		}
		return nil
	})
	if err != nil {
		return err
	}
	for _, s := range victims {
		if err := o.db.Delete(keyFor(s), pebble.Sync); err != nil {
			return err
		}
	}
	return nil
}

func keyFor(seq uint64) []byte {
	return []byte(fmt.Sprintf("trade/%020d", seq))
}

func parseKey(key []byte) (uint64, error) {
	var seq uint64
	_, err := fmt.Sscanf(string(key), "trade/%d", &seq)
	return seq, err
}
