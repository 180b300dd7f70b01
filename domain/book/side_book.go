package book

import (
	"container/heap"
	"sort"
)

// SideBook holds every price level for one side plus a price queue for
// best-price discovery. Levels are detached from the map the moment they
// empty, but their queue entries are removed lazily: BestPrice discards
// stale tops as it meets them, so each price that ever existed is popped at
// most once and the query stays amortized O(1).
//
// The tracked set records which prices currently have a queue entry. It is
// the guard against double-insertion: re-adding liquidity at a price whose
// stale entry is still queued must not push the price a second time.
type SideBook struct {
	side    Side
	levels  map[int64]*PriceLevel
	queue   *priceHeap
	tracked map[int64]struct{}
}

// NewSideBook returns an empty book for one side.
func NewSideBook(side Side) *SideBook {
	q := &priceHeap{max: side == Bid}
	heap.Init(q)
	return &SideBook{
		side:    side,
		levels:  make(map[int64]*PriceLevel),
		queue:   q,
		tracked: make(map[int64]struct{}),
	}
}

// Side returns which side this book holds.
func (b *SideBook) Side() Side { return b.side }

// Level returns the live level at price, or nil.
func (b *SideBook) Level(price int64) *PriceLevel {
	return b.levels[price]
}

// Insert rests o at its price, creating the level and queueing the price
// if this side has no live entry for it yet.
func (b *SideBook) Insert(o *Order) *PriceLevel {
	lvl := b.levels[o.Price]
	if lvl == nil {
		lvl = &PriceLevel{Price: o.Price}
		b.levels[o.Price] = lvl
	}
	if _, in := b.tracked[o.Price]; !in {
		heap.Push(b.queue, o.Price)
		b.tracked[o.Price] = struct{}{}
	}
	lvl.Enqueue(o)
	return lvl
}

// Detach drops an emptied level from the price map. The queue entry stays
// behind and is reclaimed by a later BestPrice call.
func (b *SideBook) Detach(price int64) {
	delete(b.levels, price)
}

// BestPrice returns the best live price: highest for bids, lowest for asks.
// Stale queue tops (prices whose level has since emptied) are popped and
// untracked on the way.
func (b *SideBook) BestPrice() (int64, bool) {
	for b.queue.Len() > 0 {
		p := b.queue.Peek()
		if lvl := b.levels[p]; lvl != nil && !lvl.Empty() {
			return p, true
		}
		heap.Pop(b.queue)
		delete(b.tracked, p)
	}
	return 0, false
}

// BestLevel returns the level at the best price.
func (b *SideBook) BestLevel() (*PriceLevel, bool) {
	p, ok := b.BestPrice()
	if !ok {
		return nil, false
	}
	return b.levels[p], true
}

// Prices returns the live prices in priority order: descending for bids,
// ascending for asks. Used by the FOK feasibility walk and depth views.
func (b *SideBook) Prices() []int64 {
	out := make([]int64, 0, len(b.levels))
	for p, lvl := range b.levels {
		if !lvl.Empty() {
			out = append(out, p)
		}
	}
	if b.side == Bid {
		sort.Slice(out, func(i, j int) bool { return out[i] > out[j] })
	} else {
		sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	}
	return out
}

// Depth returns the total resting quantity at one price.
func (b *SideBook) Depth(price int64) int64 {
	lvl := b.levels[price]
	if lvl == nil {
		return 0
	}
	return lvl.TotalQty
}

// TotalDepth returns the resting quantity summed over every live level.
func (b *SideBook) TotalDepth() int64 {
	var total int64
	for _, lvl := range b.levels {
		total += lvl.TotalQty
	}
	return total
}

// Len returns the number of live levels.
func (b *SideBook) Len() int { return len(b.levels) }

// Walk visits levels in priority order.
func (b *SideBook) Walk(visit func(*PriceLevel) bool) {
	for _, p := range b.Prices() {
		if !visit(b.levels[p]) {
			return
		}
	}
}
