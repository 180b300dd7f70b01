package outbox

import (
	"testing"

	"github.com/cockroachdb/pebble"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fenrir/domain/book"
)

func trade(seq uint64) book.Trade {
	return book.Trade{Seq: seq, Price: 100, Qty: 10, MakerID: 1, TakerID: 2, TakerSide: book.Ask}
}

func openTemp(t *testing.T) *Outbox {
	t.Helper()
	o, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = o.Close() })
	return o
}

func TestOutboxPutGet(t *testing.T) {
	o := openTemp(t)

	tr := trade(5)
	require.NoError(t, o.Put(tr))

	e, err := o.Get(5)
	require.NoError(t, err)
	assert.Equal(t, StateNew, e.State)
	assert.Equal(t, tr, e.Trade)

	_, err = o.Get(99)
	assert.ErrorIs(t, err, pebble.ErrNotFound)
}

func TestOutboxStateWalk(t *testing.T) {
	o := openTemp(t)

	require.NoError(t, o.Put(trade(1)))
	require.NoError(t, o.Put(trade(2)))
	require.NoError(t, o.Put(trade(3)))

	require.NoError(t, o.Mark(2, StateSent))
	require.NoError(t, o.Mark(2, StateAcked))

	var news, acked []uint64
	require.NoError(t, o.ScanState(StateNew, func(e Entry) error {
		news = append(news, e.Trade.Seq)
		return nil
	}))
	require.NoError(t, o.ScanState(StateAcked, func(e Entry) error {
		acked = append(acked, e.Trade.Seq)
		return nil
	}))
	assert.Equal(t, []uint64{1, 3}, news)
	assert.Equal(t, []uint64{2}, acked)
}

func TestOutboxScanOrder(t *testing.T) {
	o := openTemp(t)
	// Insert out of order; padded keys must iterate in sequence order.
	for _, seq := range []uint64{30, 2, 100, 7} {
		require.NoError(t, o.Put(trade(seq)))
	}

	var got []uint64
	require.NoError(t, o.ScanState(StateNew, func(e Entry) error {
		got = append(got, e.Trade.Seq)
		return nil
	}))
	assert.Equal(t, []uint64{2, 7, 30, 100}, got)
}

func TestOutboxDeleteAckedUpTo(t *testing.T) {
	o := openTemp(t)
	for seq := uint64(1); seq <= 5; seq++ {
		require.NoError(t, o.Put(trade(seq)))
		require.NoError(t, o.Mark(seq, StateAcked))
	}
	// Leave 5 as SENT so the cutoff only claims ACKED entries.
	require.NoError(t, o.Mark(5, StateSent))

	require.NoError(t, o.DeleteAckedUpTo(3))

	for seq := uint64(1); seq <= 3; seq++ {
		_, err := o.Get(seq)
		assert.ErrorIs(t, err, pebble.ErrNotFound, "seq %d", seq)
	}
	e, err := o.Get(4)
	require.NoError(t, err)
	assert.Equal(t, StateAcked, e.State)
	e, err = o.Get(5)
	require.NoError(t, err)
	assert.Equal(t, StateSent, e.State)
}

func TestOutboxReopenKeepsEntries(t *testing.T) {
	dir := t.TempDir()
	o, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, o.Put(trade(1)))
	require.NoError(t, o.Close())

	o, err = Open(dir)
	require.NoError(t, err)
	defer o.Close()
	e, err := o.Get(1)
	require.NoError(t, err)
	assert.Equal(t, StateNew, e.State)
}
