package book

import (
	"fmt"

	"fenrir/infra/sequence"
)

// location pins a live order to the level holding it.
type location struct {
	side  Side
	price int64
}

// Engine is the matching engine: two side books, the order index, and the
// sequence counter. It is single-writer by contract: no internal locking,
// every call runs to completion before the next. The surrounding service
// serializes callers.
type Engine struct {
	bids  *SideBook
	asks  *SideBook
	index map[uint64]location
	seq   *sequence.Sequencer
}

// NewEngine returns an empty engine with its sequence counter at zero.
func NewEngine() *Engine {
	return &Engine{
		bids:  NewSideBook(Bid),
		asks:  NewSideBook(Ask),
		index: make(map[uint64]location),
		seq:   sequence.New(0),
	}
}

// SubmitResult reports what happened to an incoming order.
type SubmitResult struct {
	Trades    []Trade
	RestingID uint64
	Resting   bool
	// Killed is set for a FOK order whose full quantity was not available.
	// Not an error: the book is untouched and no trades were emitted.
	Killed bool
}

// ReplaceResult reports the outcome of a replace. Trades is non-empty when
// a price change made the re-submitted order cross.
type ReplaceResult struct {
	Trades  []Trade
	Resting bool
	// NewSeq is the arrival sequence the order holds after the replace.
	// Unchanged for an in-place size reduction.
	NewSeq uint64
}

// Submit validates o, assigns its arrival sequence, matches it against the
// opposite book and rests any GTC limit remainder. The order struct is owned
// by the engine afterwards if it rests.
func (e *Engine) Submit(o *Order) (SubmitResult, error) {
	if err := e.validate(o); err != nil {
		return SubmitResult{}, err
	}
	if o.Remaining == 0 {
		o.Remaining = o.Qty
	}
	o.Seq = e.seq.Next()

	if o.TIF == FOK {
		// Feasibility pass before any mutation: either the whole quantity
		// is reachable or the order dies with the book untouched.
		if e.available(o) < o.Remaining {
			o.Remaining = 0
			return SubmitResult{Killed: true}, nil
		}
	}

	res := SubmitResult{Trades: e.match(o)}

	if o.Remaining > 0 {
		switch {
		case o.TIF == FOK:
			return res, fmt.Errorf("%w: FOK order %d left remainder %d after guaranteed fill",
				ErrInternalInvariant, o.ID, o.Remaining)
		case o.Type == Limit && o.TIF == GTC:
			e.book(o.Side).Insert(o)
			e.index[o.ID] = location{side: o.Side, price: o.Price}
			res.RestingID = o.ID
			res.Resting = true
		default:
			// IOC remainder and market remainder are discarded.
			o.Remaining = 0
		}
	}
	return res, nil
}

// Cancel removes a resting order before any future match can touch it.
func (e *Engine) Cancel(id uint64) error {
	loc, ok := e.index[id]
	if !ok {
		return fmt.Errorf("%w: cancel %d", ErrUnknownOrder, id)
	}
	side := e.book(loc.side)
	lvl := side.Level(loc.price)
	if lvl == nil {
		return fmt.Errorf("%w: order %d indexed at %s %d but level is gone",
			ErrInternalInvariant, id, loc.side, loc.price)
	}
	if lvl.Remove(id) == nil {
		return fmt.Errorf("%w: order %d indexed at %s %d but not in level",
			ErrInternalInvariant, id, loc.side, loc.price)
	}
	delete(e.index, id)
	if lvl.Empty() {
		side.Detach(loc.price)
	}
	return nil
}

// Replace modifies a resting order. A zero newPrice or newQty leaves that
// field unchanged. Reducing size at the same price keeps the order's queue
// position; any price change, and any size increase, forfeits priority and
// is executed as cancel + re-submit under a fresh sequence number.
func (e *Engine) Replace(id uint64, newPrice, newQty int64) (ReplaceResult, error) {
	loc, ok := e.index[id]
	if !ok {
		return ReplaceResult{}, fmt.Errorf("%w: replace %d", ErrUnknownOrder, id)
	}
	if newPrice < 0 || newQty < 0 {
		return ReplaceResult{}, fmt.Errorf("%w: replace %d with price=%d qty=%d",
			ErrInvalidOrder, id, newPrice, newQty)
	}
	side := e.book(loc.side)
	lvl := side.Level(loc.price)
	if lvl == nil {
		return ReplaceResult{}, fmt.Errorf("%w: order %d indexed at %s %d but level is gone",
			ErrInternalInvariant, id, loc.side, loc.price)
	}

	samePrice := newPrice == 0 || newPrice == loc.price

	if samePrice {
		if newQty == 0 {
			// Nothing to change.
			return ReplaceResult{Resting: true, NewSeq: e.orderSeq(lvl, id)}, nil
		}
		for o := lvl.Front(); o != nil; o = o.Next() {
			if o.ID != id {
				continue
			}
			if newQty <= o.Remaining {
				// Size down in place: queue position survives.
				lvl.TotalQty -= o.Remaining - newQty
				o.Remaining = newQty
				o.Qty = newQty
				return ReplaceResult{Resting: true, NewSeq: o.Seq}, nil
			}
			break
		}
	}

	// Priority-losing path: cancel, then re-submit with a new sequence.
	removed := lvl.Remove(id)
	if removed == nil {
		return ReplaceResult{}, fmt.Errorf("%w: order %d indexed at %s %d but not in level",
			ErrInternalInvariant, id, loc.side, loc.price)
	}
	delete(e.index, id)
	if lvl.Empty() {
		side.Detach(loc.price)
	}

	price := removed.Price
	if newPrice != 0 {
		price = newPrice
	}
	qty := removed.Remaining
	if newQty != 0 {
		qty = newQty
	}
	fresh := &Order{
		ID:    id,
		Side:  removed.Side,
		Type:  Limit,
		TIF:   removed.TIF,
		Price: price,
		Qty:   qty,
	}
	res, err := e.Submit(fresh)
	if err != nil {
		return ReplaceResult{}, err
	}
	return ReplaceResult{Trades: res.Trades, Resting: res.Resting, NewSeq: fresh.Seq}, nil
}

// Restore rests an order exactly as captured in a snapshot, keeping its
// original sequence number and skipping the matching loop. Snapshot
// contents are non-crossing by construction; callers must restore orders
// in ascending sequence order and then ResumeSequence past the highest.
func (e *Engine) Restore(o *Order) error {
	if err := e.validate(o); err != nil {
		return err
	}
	if o.Remaining == 0 {
		o.Remaining = o.Qty
	}
	if o.Type != Limit || o.TIF != GTC {
		return fmt.Errorf("%w: only GTC limit orders can rest", ErrInvalidOrder)
	}
	e.book(o.Side).Insert(o)
	e.index[o.ID] = location{side: o.Side, price: o.Price}
	return nil
}

// IsLive reports whether an order currently rests on the book.
func (e *Engine) IsLive(id uint64) bool {
	_, ok := e.index[id]
	return ok
}

// LiveOrders returns the number of resting orders.
func (e *Engine) LiveOrders() int { return len(e.index) }

// Sequence returns the last issued sequence number.
func (e *Engine) Sequence() uint64 { return e.seq.Current() }

// ResumeSequence repositions the counter after a snapshot load.
func (e *Engine) ResumeSequence(v uint64) { e.seq.Resume(v) }

// Bids exposes the bid book for read-only walks.
func (e *Engine) Bids() *SideBook { return e.bids }

// Asks exposes the ask book for read-only walks.
func (e *Engine) Asks() *SideBook { return e.asks }

func (e *Engine) book(s Side) *SideBook {
	if s == Bid {
		return e.bids
	}
	return e.asks
}

func (e *Engine) validate(o *Order) error {
	if o == nil || o.Qty <= 0 {
		return fmt.Errorf("%w: non-positive quantity", ErrInvalidOrder)
	}
	if o.Remaining < 0 || o.Remaining > o.Qty {
		return fmt.Errorf("%w: remaining %d outside (0, %d]", ErrInvalidOrder, o.Remaining, o.Qty)
	}
	switch o.Type {
	case Limit:
		if o.Price <= 0 {
			return fmt.Errorf("%w: limit order without positive price", ErrInvalidOrder)
		}
	case Market:
		if o.Price != 0 {
			return fmt.Errorf("%w: market order carries price %d", ErrInvalidOrder, o.Price)
		}
	default:
		return fmt.Errorf("%w: unknown order type %d", ErrInvalidOrder, o.Type)
	}
	if _, live := e.index[o.ID]; live {
		return fmt.Errorf("%w: %d", ErrDuplicateOrder, o.ID)
	}
	return nil
}

// crosses reports whether the best opposite price satisfies the order's
// limit. Market orders cross any price.
func crosses(o *Order, best int64) bool {
	if o.Type == Market {
		return true
	}
	if o.Side == Bid {
		return best <= o.Price
	}
	return best >= o.Price
}

// match runs the multi-level matching loop, emitting one trade per maker
// touched. Fills always execute at the maker's price.
func (e *Engine) match(o *Order) []Trade {
	opp := e.book(o.Side.Opposite())
	var trades []Trade
	for o.Remaining > 0 {
		best, ok := opp.BestPrice()
		if !ok || !crosses(o, best) {
			break
		}
		lvl := opp.Level(best)
		maker := lvl.Front()
		fill := min64(o.Remaining, maker.Remaining)
		trades = append(trades, Trade{
			Seq:       e.seq.Next(),
			Price:     best,
			Qty:       fill,
			MakerID:   maker.ID,
			TakerID:   o.ID,
			TakerSide: o.Side,
		})
		if done := lvl.ReduceOrPopFront(fill); done != nil {
			delete(e.index, done.ID)
		}
		if lvl.Empty() {
			opp.Detach(best)
		}
		o.Remaining -= fill
	}
	return trades
}

// available sums opposite-side liquidity at prices satisfying the order's
// limit, stopping as soon as the requested quantity is reachable. Read-only:
// this is the FOK dry run.
func (e *Engine) available(o *Order) int64 {
	opp := e.book(o.Side.Opposite())
	var total int64
	for _, p := range opp.Prices() {
		if !crosses(o, p) {
			break
		}
		total += opp.Depth(p)
		if total >= o.Remaining {
			return total
		}
	}
	return total
}

func (e *Engine) orderSeq(lvl *PriceLevel, id uint64) uint64 {
	for o := lvl.Front(); o != nil; o = o.Next() {
		if o.ID == id {
			return o.Seq
		}
	}
	return 0
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
