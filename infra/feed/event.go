package feed

import (
	"encoding/json"

	"fenrir/domain/book"
)

// TradeEvent is the JSON wire shape published to the trade topic and read
// back by the tailer. V is bumped on any incompatible change.
type TradeEvent struct {
	V         int    `json:"v"`
	Seq       uint64 `json:"seq"`
	Price     int64  `json:"price"`
	Qty       int64  `json:"qty"`
	MakerID   uint64 `json:"maker_id"`
	TakerID   uint64 `json:"taker_id"`
	TakerSide string `json:"taker_side"`
}

// EncodeTrade serializes a trade for the feed.
func EncodeTrade(t book.Trade) ([]byte, error) {
	return json.Marshal(TradeEvent{
		V:         1,
		Seq:       t.Seq,
		Price:     t.Price,
		Qty:       t.Qty,
		MakerID:   t.MakerID,
		TakerID:   t.TakerID,
		TakerSide: t.TakerSide.String(),
	})
}

// DecodeTrade parses a feed message.
func DecodeTrade(b []byte) (TradeEvent, error) {
	var ev TradeEvent
	err := json.Unmarshal(b, &ev)
	return ev, err
}
