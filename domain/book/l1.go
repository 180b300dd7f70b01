package book

// LevelDepth is one price level's aggregate resting quantity.
type LevelDepth struct {
	Price int64
	Qty   int64
}

// L1Snapshot is a derived, read-only view of the top of the book. It is
// computed on demand and never cached: every call reflects the book as of
// the previous mutation.
type L1Snapshot struct {
	BestBid int64
	BestAsk int64
	HasBid  bool
	HasAsk  bool

	// Mid and Spread are in ticks; meaningful only when both sides quote.
	Mid    float64
	Spread float64

	// BidDepth/AskDepth are the resting quantities at the best level.
	BidDepth int64
	AskDepth int64

	// Bids/Asks hold up to the requested number of levels, best first.
	Bids []LevelDepth
	Asks []LevelDepth

	// Imbalance is (bidDepth-askDepth)/(bidDepth+askDepth) over the best
	// levels, in [-1, 1]. Zero when both sides are empty.
	Imbalance float64
}

// L1 computes the top-of-book view with up to n depth levels per side.
func (e *Engine) L1(n int) L1Snapshot {
	var s L1Snapshot
	if p, ok := e.bids.BestPrice(); ok {
		s.BestBid = p
		s.HasBid = true
		s.BidDepth = e.bids.Depth(p)
	}
	if p, ok := e.asks.BestPrice(); ok {
		s.BestAsk = p
		s.HasAsk = true
		s.AskDepth = e.asks.Depth(p)
	}
	if s.HasBid && s.HasAsk {
		s.Mid = float64(s.BestBid+s.BestAsk) / 2
		s.Spread = float64(s.BestAsk - s.BestBid)
	}
	if denom := s.BidDepth + s.AskDepth; denom > 0 {
		s.Imbalance = float64(s.BidDepth-s.AskDepth) / float64(denom)
	}
	s.Bids = e.depthLevels(e.bids, n)
	s.Asks = e.depthLevels(e.asks, n)
	return s
}

func (e *Engine) depthLevels(b *SideBook, n int) []LevelDepth {
	prices := b.Prices()
	if n > 0 && len(prices) > n {
		prices = prices[:n]
	}
	out := make([]LevelDepth, 0, len(prices))
	for _, p := range prices {
		out = append(out, LevelDepth{Price: p, Qty: b.Depth(p)})
	}
	return out
}
