package metrics

// SnapshotRow is one periodic top-of-book observation from a run.
type SnapshotRow struct {
	Event    int64
	BestBid  int64
	BestAsk  int64
	HasBid   bool
	HasAsk   bool
	BidDepth int64
	AskDepth int64
}

// Series are the derived L1 time series: spread and mid in ticks, depths in
// quantity, imbalance in [-1, 1]. All aligned to the Events index.
type Series struct {
	Events    []int64
	Spread    []float64
	Mid       []float64
	BidDepth  []float64
	AskDepth  []float64
	Imbalance []float64
}

// FromSnapshots derives the series. Observations where a side is missing
// carry the previous spread/mid forward (forward fill); leading gaps stay
// at zero.
func FromSnapshots(rows []SnapshotRow) Series {
	s := Series{
		Events:    make([]int64, len(rows)),
		Spread:    make([]float64, len(rows)),
		Mid:       make([]float64, len(rows)),
		BidDepth:  make([]float64, len(rows)),
		AskDepth:  make([]float64, len(rows)),
		Imbalance: make([]float64, len(rows)),
	}
	var lastSpread, lastMid float64
	for i, r := range rows {
		s.Events[i] = r.Event
		if r.HasBid && r.HasAsk {
			lastSpread = float64(r.BestAsk - r.BestBid)
			lastMid = float64(r.BestAsk+r.BestBid) / 2
		}
		s.Spread[i] = lastSpread
		s.Mid[i] = lastMid
		s.BidDepth[i] = float64(r.BidDepth)
		s.AskDepth[i] = float64(r.AskDepth)
		if denom := r.BidDepth + r.AskDepth; denom > 0 {
			s.Imbalance[i] = float64(r.BidDepth-r.AskDepth) / float64(denom)
		}
	}
	return s
}
