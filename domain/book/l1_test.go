package book_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fenrir/domain/book"
)

func TestL1EmptyBook(t *testing.T) {
	e := book.NewEngine()
	l1 := e.L1(5)
	assert.False(t, l1.HasBid)
	assert.False(t, l1.HasAsk)
	assert.Zero(t, l1.Mid)
	assert.Zero(t, l1.Spread)
	assert.Zero(t, l1.Imbalance)
	assert.Empty(t, l1.Bids)
	assert.Empty(t, l1.Asks)
}

func TestL1TwoSided(t *testing.T) {
	e := book.NewEngine()
	mustSubmit(t, e, limit(1, book.Bid, 99, 60))
	mustSubmit(t, e, limit(2, book.Bid, 99, 40))
	mustSubmit(t, e, limit(3, book.Bid, 98, 10))
	mustSubmit(t, e, limit(4, book.Ask, 101, 25))

	l1 := e.L1(5)
	assert.Equal(t, int64(99), l1.BestBid)
	assert.Equal(t, int64(101), l1.BestAsk)
	assert.Equal(t, 100.0, l1.Mid)
	assert.Equal(t, 2.0, l1.Spread)
	assert.Equal(t, int64(100), l1.BidDepth)
	assert.Equal(t, int64(25), l1.AskDepth)
	// (100-25)/(100+25)
	assert.InDelta(t, 0.6, l1.Imbalance, 1e-12)

	assert.Equal(t, []book.LevelDepth{{Price: 99, Qty: 100}, {Price: 98, Qty: 10}}, l1.Bids)
	assert.Equal(t, []book.LevelDepth{{Price: 101, Qty: 25}}, l1.Asks)
}

func TestL1OneSided(t *testing.T) {
	e := book.NewEngine()
	mustSubmit(t, e, limit(1, book.Ask, 101, 30))

	l1 := e.L1(1)
	assert.False(t, l1.HasBid)
	assert.True(t, l1.HasAsk)
	// Mid and spread stay unset without a two-sided quote.
	assert.Zero(t, l1.Mid)
	assert.Zero(t, l1.Spread)
	assert.Equal(t, -1.0, l1.Imbalance)
}

func TestL1DepthLimit(t *testing.T) {
	e := book.NewEngine()
	for i, p := range []int64{95, 96, 97, 98, 99} {
		mustSubmit(t, e, limit(uint64(i+1), book.Bid, p, 10))
	}
	l1 := e.L1(2)
	assert.Equal(t, []book.LevelDepth{{Price: 99, Qty: 10}, {Price: 98, Qty: 10}}, l1.Bids)
}
