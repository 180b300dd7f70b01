package journal

import (
	"encoding/binary"
	"errors"
)

// Event payloads are fixed-width little-endian so replay never parses text.
// Submit: id u64 | side u8 | type u8 | tif u8 | price i64 | qty i64
// Cancel: id u64
// Replace: id u64 | newPrice i64 | newQty i64

var ErrBadEvent = errors.New("journal: malformed event payload")

// SubmitEvent mirrors the fields the engine needs to re-accept an order.
type SubmitEvent struct {
	ID    uint64
	Side  int8
	Type  int8
	TIF   int8
	Price int64
	Qty   int64
}

// CancelEvent names the order to remove.
type CancelEvent struct {
	ID uint64
}

// ReplaceEvent carries the optional new price/qty (zero = unchanged).
type ReplaceEvent struct {
	ID       uint64
	NewPrice int64
	NewQty   int64
}

func EncodeSubmit(ev SubmitEvent) []byte {
	b := make([]byte, 27)
	binary.LittleEndian.PutUint64(b[0:], ev.ID)
	b[8] = byte(ev.Side)
	b[9] = byte(ev.Type)
	b[10] = byte(ev.TIF)
	binary.LittleEndian.PutUint64(b[11:], uint64(ev.Price))
	binary.LittleEndian.PutUint64(b[19:], uint64(ev.Qty))
	return b
}

func DecodeSubmit(b []byte) (SubmitEvent, error) {
	if len(b) != 27 {
		return SubmitEvent{}, ErrBadEvent
	}
	return SubmitEvent{
		ID:    binary.LittleEndian.Uint64(b[0:]),
		Side:  int8(b[8]),
		Type:  int8(b[9]),
		TIF:   int8(b[10]),
		Price: int64(binary.LittleEndian.Uint64(b[11:])),
		Qty:   int64(binary.LittleEndian.Uint64(b[19:])),
	}, nil
}

func EncodeCancel(ev CancelEvent) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, ev.ID)
	return b
}

func DecodeCancel(b []byte) (CancelEvent, error) {
	if len(b) != 8 {
		return CancelEvent{}, ErrBadEvent
	}
	return CancelEvent{ID: binary.LittleEndian.Uint64(b)}, nil
}

func EncodeReplace(ev ReplaceEvent) []byte {
	b := make([]byte, 24)
	binary.LittleEndian.PutUint64(b[0:], ev.ID)
	binary.LittleEndian.PutUint64(b[8:], uint64(ev.NewPrice))
	binary.LittleEndian.PutUint64(b[16:], uint64(ev.NewQty))
	return b
}

func DecodeReplace(b []byte) (ReplaceEvent, error) {
	if len(b) != 24 {
		return ReplaceEvent{}, ErrBadEvent
	}
	return ReplaceEvent{
		ID:       binary.LittleEndian.Uint64(b[0:]),
		NewPrice: int64(binary.LittleEndian.Uint64(b[8:])),
		NewQty:   int64(binary.LittleEndian.Uint64(b[16:])),
	}, nil
}
