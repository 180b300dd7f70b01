package snapshot

import "time"

// Snapshot is a full capture of the resting book: every live order with its
// original arrival sequence, plus the engine's sequence high-water mark.
// Restoring it reproduces identical time priority at every level.
type Snapshot struct {
	Seq     uint64
	Created time.Time
	Orders  []OrderEntry
}

// OrderEntry is one resting order, flattened for encoding.
type OrderEntry struct {
	ID        uint64
	Side      int8
	TIF       int8
	Price     int64
	Qty       int64
	Remaining int64
	Seq       uint64
}
