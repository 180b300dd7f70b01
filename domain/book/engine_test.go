package book_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fenrir/domain/book"
)

func limit(id uint64, side book.Side, price, qty int64) *book.Order {
	return &book.Order{ID: id, Side: side, Type: book.Limit, TIF: book.GTC, Price: price, Qty: qty}
}

func limitTIF(id uint64, side book.Side, price, qty int64, tif book.TimeInForce) *book.Order {
	return &book.Order{ID: id, Side: side, Type: book.Limit, TIF: tif, Price: price, Qty: qty}
}

func market(id uint64, side book.Side, qty int64) *book.Order {
	return &book.Order{ID: id, Side: side, Type: book.Market, TIF: book.IOC, Qty: qty}
}

func mustSubmit(t *testing.T, e *book.Engine, o *book.Order) book.SubmitResult {
	t.Helper()
	res, err := e.Submit(o)
	require.NoError(t, err)
	return res
}

// fingerprint flattens the whole book (levels, order IDs, remainings,
// seqs) so before/after states can be compared exactly.
func fingerprint(e *book.Engine) string {
	out := ""
	dump := func(sb *book.SideBook) {
		sb.Walk(func(lvl *book.PriceLevel) bool {
			out += fmt.Sprintf("%s@%d:", sb.Side(), lvl.Price)
			for o := lvl.Head(); o != nil; o = o.Next() {
				out += fmt.Sprintf("(%d,%d,%d)", o.ID, o.Remaining, o.Seq)
			}
			out += ";"
			return true
		})
	}
	dump(e.Bids())
	dump(e.Asks())
	return out
}

func TestLimitOrderRests(t *testing.T) {
	e := book.NewEngine()
	res := mustSubmit(t, e, limit(1, book.Bid, 100, 50))

	assert.True(t, res.Resting)
	assert.Equal(t, uint64(1), res.RestingID)
	assert.Empty(t, res.Trades)
	assert.True(t, e.IsLive(1))

	best, ok := e.Bids().BestPrice()
	require.True(t, ok)
	assert.Equal(t, int64(100), best)
}

func TestPriceTimePriority(t *testing.T) {
	e := book.NewEngine()
	// Two resting buys at the same price; the earlier one fills first.
	mustSubmit(t, e, limit(1, book.Bid, 100, 100))
	mustSubmit(t, e, limit(2, book.Bid, 100, 50))
	res := mustSubmit(t, e, limit(3, book.Ask, 100, 120))

	require.Len(t, res.Trades, 2)
	assert.Equal(t, uint64(1), res.Trades[0].MakerID)
	assert.Equal(t, int64(100), res.Trades[0].Qty)
	assert.Equal(t, int64(100), res.Trades[0].Price)
	assert.Equal(t, uint64(2), res.Trades[1].MakerID)
	assert.Equal(t, int64(20), res.Trades[1].Qty)
	assert.Equal(t, uint64(3), res.Trades[1].TakerID)

	// Order 2 keeps its remainder resting; order 1 is fully gone.
	assert.False(t, e.IsLive(1))
	assert.True(t, e.IsLive(2))
	assert.False(t, e.IsLive(3))

	l1 := e.L1(1)
	assert.True(t, l1.HasBid)
	assert.Equal(t, int64(100), l1.BestBid)
	assert.Equal(t, int64(30), l1.BidDepth)
	assert.False(t, l1.HasAsk)
}

func TestBetterPriceBeatsTimePriority(t *testing.T) {
	e := book.NewEngine()
	mustSubmit(t, e, limit(1, book.Ask, 101, 100))
	mustSubmit(t, e, limit(2, book.Ask, 100, 100)) // later but better priced

	res := mustSubmit(t, e, limit(3, book.Bid, 101, 150))
	require.Len(t, res.Trades, 2)
	assert.Equal(t, uint64(2), res.Trades[0].MakerID)
	assert.Equal(t, int64(100), res.Trades[0].Price)
	assert.Equal(t, uint64(1), res.Trades[1].MakerID)
	assert.Equal(t, int64(101), res.Trades[1].Price)
	assert.Equal(t, int64(50), res.Trades[1].Qty)
}

func TestTradeAtMakerPrice(t *testing.T) {
	e := book.NewEngine()
	mustSubmit(t, e, limit(1, book.Ask, 100, 10))
	// Aggressive buy at 105 still executes at the resting price.
	res := mustSubmit(t, e, limit(2, book.Bid, 105, 10))
	require.Len(t, res.Trades, 1)
	assert.Equal(t, int64(100), res.Trades[0].Price)
}

func TestMarketOrderNeverRests(t *testing.T) {
	e := book.NewEngine()
	mustSubmit(t, e, limit(1, book.Ask, 100, 30))
	res := mustSubmit(t, e, market(2, book.Bid, 100))

	require.Len(t, res.Trades, 1)
	assert.Equal(t, int64(30), res.Trades[0].Qty)
	assert.False(t, res.Resting)
	assert.False(t, e.IsLive(2))
	assert.Equal(t, 0, e.LiveOrders())
}

func TestMarketOrderEmptyBook(t *testing.T) {
	e := book.NewEngine()
	res := mustSubmit(t, e, market(1, book.Bid, 100))
	assert.Empty(t, res.Trades)
	assert.False(t, res.Resting)
	assert.Equal(t, 0, e.LiveOrders())
}

func TestIOCDiscardsRemainder(t *testing.T) {
	e := book.NewEngine()
	mustSubmit(t, e, limit(1, book.Ask, 100, 40))
	res := mustSubmit(t, e, limitTIF(2, book.Bid, 100, 100, book.IOC))

	require.Len(t, res.Trades, 1)
	assert.Equal(t, int64(40), res.Trades[0].Qty)
	assert.False(t, res.Resting)
	assert.False(t, e.IsLive(2))
	assert.False(t, e.L1(1).HasBid)
}

func TestFOKKilledLeavesBookUntouched(t *testing.T) {
	e := book.NewEngine()
	mustSubmit(t, e, limit(1, book.Ask, 100, 100))
	mustSubmit(t, e, limit(2, book.Ask, 100, 50))
	mustSubmit(t, e, limit(3, book.Ask, 120, 500)) // outside the limit

	before := fingerprint(e)
	seqBefore := e.Sequence()

	// 150 available at <=110, 200 requested: killed, zero trades.
	res := mustSubmit(t, e, limitTIF(4, book.Bid, 110, 200, book.FOK))
	assert.True(t, res.Killed)
	assert.Empty(t, res.Trades)
	assert.False(t, res.Resting)

	assert.Equal(t, before, fingerprint(e))
	// The order still consumed one acceptance sequence, nothing more.
	assert.Equal(t, seqBefore+1, e.Sequence())
}

func TestFOKFillsAcrossLevels(t *testing.T) {
	e := book.NewEngine()
	mustSubmit(t, e, limit(1, book.Ask, 100, 100))
	mustSubmit(t, e, limit(2, book.Ask, 101, 100))

	res := mustSubmit(t, e, limitTIF(3, book.Bid, 101, 150, book.FOK))
	assert.False(t, res.Killed)
	require.Len(t, res.Trades, 2)
	assert.Equal(t, int64(100), res.Trades[0].Qty)
	assert.Equal(t, int64(50), res.Trades[1].Qty)
	assert.True(t, e.IsLive(2))
	assert.Equal(t, int64(50), e.Asks().Depth(101))
}

func TestFOKMarketAgainstThinBook(t *testing.T) {
	e := book.NewEngine()
	mustSubmit(t, e, limit(1, book.Ask, 100, 50))

	before := fingerprint(e)
	res := mustSubmit(t, e, &book.Order{ID: 2, Side: book.Bid, Type: book.Market, TIF: book.FOK, Qty: 80})
	assert.True(t, res.Killed)
	assert.Equal(t, before, fingerprint(e))
}

func TestCancel(t *testing.T) {
	e := book.NewEngine()
	mustSubmit(t, e, limit(1, book.Bid, 100, 50))
	mustSubmit(t, e, limit(2, book.Bid, 100, 60))

	require.NoError(t, e.Cancel(1))
	assert.False(t, e.IsLive(1))
	assert.Equal(t, int64(60), e.Bids().Depth(100))

	// Second cancel of the same ID is unknown.
	err := e.Cancel(1)
	assert.ErrorIs(t, err, book.ErrUnknownOrder)
}

func TestCancelLastOrderEmptiesLevel(t *testing.T) {
	e := book.NewEngine()
	mustSubmit(t, e, limit(1, book.Bid, 100, 50))
	require.NoError(t, e.Cancel(1))

	_, ok := e.Bids().BestPrice()
	assert.False(t, ok)
	assert.Equal(t, 0, e.Bids().Len())
}

func TestCancelledOrderNeverMatches(t *testing.T) {
	e := book.NewEngine()
	mustSubmit(t, e, limit(1, book.Bid, 100, 50))
	mustSubmit(t, e, limit(2, book.Bid, 100, 70))
	require.NoError(t, e.Cancel(1))

	res := mustSubmit(t, e, limit(3, book.Ask, 100, 50))
	require.Len(t, res.Trades, 1)
	assert.Equal(t, uint64(2), res.Trades[0].MakerID)
}

func TestReplaceQtyDownKeepsPriority(t *testing.T) {
	e := book.NewEngine()
	r1 := mustSubmit(t, e, limit(1, book.Bid, 100, 100))
	mustSubmit(t, e, limit(2, book.Bid, 100, 100))
	_ = r1

	var seq1 uint64
	for o := e.Bids().Level(100).Head(); o != nil; o = o.Next() {
		if o.ID == 1 {
			seq1 = o.Seq
		}
	}

	res, err := e.Replace(1, 0, 40)
	require.NoError(t, err)
	assert.Empty(t, res.Trades)
	assert.Equal(t, seq1, res.NewSeq)

	// Still first in the queue.
	front := e.Bids().Level(100).Front()
	assert.Equal(t, uint64(1), front.ID)
	assert.Equal(t, int64(40), front.Remaining)
	assert.Equal(t, int64(140), e.Bids().Depth(100))
}

func TestReplaceQtyUpLosesPriority(t *testing.T) {
	e := book.NewEngine()
	mustSubmit(t, e, limit(1, book.Bid, 100, 50))
	mustSubmit(t, e, limit(2, book.Bid, 100, 50))

	res, err := e.Replace(1, 0, 80)
	require.NoError(t, err)
	assert.True(t, res.Resting)

	front := e.Bids().Level(100).Front()
	assert.Equal(t, uint64(2), front.ID)
	// The re-submitted order carries a fresh, larger sequence.
	back := front.Next()
	require.NotNil(t, back)
	assert.Equal(t, uint64(1), back.ID)
	assert.Greater(t, back.Seq, front.Seq)
	assert.Equal(t, int64(80), back.Remaining)
}

func TestReplacePriceMovesAndMayTrade(t *testing.T) {
	e := book.NewEngine()
	mustSubmit(t, e, limit(1, book.Bid, 99, 50))
	mustSubmit(t, e, limit(2, book.Ask, 101, 30))

	// Move the bid up through the ask: it must trade on re-submission.
	res, err := e.Replace(1, 101, 0)
	require.NoError(t, err)
	require.Len(t, res.Trades, 1)
	assert.Equal(t, uint64(2), res.Trades[0].MakerID)
	assert.Equal(t, uint64(1), res.Trades[0].TakerID)
	assert.Equal(t, int64(101), res.Trades[0].Price)
	assert.Equal(t, int64(30), res.Trades[0].Qty)

	// Remainder rests at the new price.
	assert.True(t, res.Resting)
	assert.Equal(t, int64(20), e.Bids().Depth(101))
	assert.False(t, e.IsLive(2))
}

func TestReplaceUnknown(t *testing.T) {
	e := book.NewEngine()
	_, err := e.Replace(42, 100, 10)
	assert.ErrorIs(t, err, book.ErrUnknownOrder)
}

func TestValidation(t *testing.T) {
	e := book.NewEngine()

	_, err := e.Submit(&book.Order{ID: 1, Side: book.Bid, Type: book.Limit, TIF: book.GTC, Price: 0, Qty: 10})
	assert.ErrorIs(t, err, book.ErrInvalidOrder)

	_, err = e.Submit(&book.Order{ID: 1, Side: book.Bid, Type: book.Limit, TIF: book.GTC, Price: 100, Qty: 0})
	assert.ErrorIs(t, err, book.ErrInvalidOrder)

	_, err = e.Submit(&book.Order{ID: 1, Side: book.Bid, Type: book.Market, TIF: book.IOC, Price: 50, Qty: 10})
	assert.ErrorIs(t, err, book.ErrInvalidOrder)

	mustSubmit(t, e, limit(1, book.Bid, 100, 10))
	_, err = e.Submit(limit(1, book.Bid, 99, 10))
	assert.ErrorIs(t, err, book.ErrDuplicateOrder)

	// An ID that has left the book is reusable.
	require.NoError(t, e.Cancel(1))
	mustSubmit(t, e, limit(1, book.Bid, 100, 10))
}

func TestSequenceAssignment(t *testing.T) {
	e := book.NewEngine()
	o1 := limit(1, book.Bid, 100, 10)
	o2 := limit(2, book.Bid, 100, 10)
	mustSubmit(t, e, o1)
	mustSubmit(t, e, o2)
	assert.Less(t, o1.Seq, o2.Seq)

	// Trades draw from the same counter, after the taker's acceptance.
	o3 := limit(3, book.Ask, 100, 5)
	res := mustSubmit(t, e, o3)
	require.Len(t, res.Trades, 1)
	assert.Greater(t, res.Trades[0].Seq, o3.Seq)
}

func TestSweepTwoMakersSamePrice(t *testing.T) {
	// Book empty; buy 100@10 (id 1), buy 50@10 (id 2), sell 120@10 (id 3)
	// → trades (10,100,maker 1) and (10,20,maker 2); id 2 rests 30.
	e := book.NewEngine()
	mustSubmit(t, e, limit(1, book.Bid, 10, 100))
	mustSubmit(t, e, limit(2, book.Bid, 10, 50))
	res := mustSubmit(t, e, limit(3, book.Ask, 10, 120))

	require.Len(t, res.Trades, 2)
	assert.Equal(t, int64(10), res.Trades[0].Price)
	assert.Equal(t, int64(100), res.Trades[0].Qty)
	assert.Equal(t, uint64(1), res.Trades[0].MakerID)
	assert.Equal(t, uint64(3), res.Trades[0].TakerID)
	assert.Equal(t, int64(10), res.Trades[1].Price)
	assert.Equal(t, int64(20), res.Trades[1].Qty)
	assert.Equal(t, uint64(2), res.Trades[1].MakerID)

	l1 := e.L1(1)
	assert.Equal(t, int64(10), l1.BestBid)
	assert.Equal(t, int64(30), l1.BidDepth)
	assert.False(t, l1.HasAsk)
}

func TestRestoreKeepsPriority(t *testing.T) {
	e := book.NewEngine()
	require.NoError(t, e.Restore(&book.Order{ID: 7, Side: book.Bid, Type: book.Limit, TIF: book.GTC, Price: 100, Qty: 50, Seq: 3}))
	require.NoError(t, e.Restore(&book.Order{ID: 8, Side: book.Bid, Type: book.Limit, TIF: book.GTC, Price: 100, Qty: 50, Seq: 9}))
	e.ResumeSequence(9)

	res := mustSubmit(t, e, limit(10, book.Ask, 100, 10))
	require.Len(t, res.Trades, 1)
	assert.Equal(t, uint64(7), res.Trades[0].MakerID)
}
