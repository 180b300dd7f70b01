package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fenrir/domain/book"
	"fenrir/service"
)

func runOnce(t *testing.T, cfg Config) (Artifacts, *book.Engine) {
	t.Helper()
	eng := book.NewEngine()
	x := service.New(eng, zap.NewNop())
	art, err := New(cfg, x, zap.NewNop()).Run()
	require.NoError(t, err)
	return art, eng
}

func smallConfig(seed int64) Config {
	cfg := DefaultConfig()
	cfg.Seed = seed
	cfg.Events = 5000
	cfg.SnapshotEvery = 100
	return cfg
}

func TestRunProducesActivity(t *testing.T) {
	art, eng := runOnce(t, smallConfig(30))

	assert.Greater(t, art.Orders, 0)
	assert.NotEmpty(t, art.Trades)
	assert.NotEmpty(t, art.Snapshots)
	assert.Len(t, art.Snapshots, 50)
	assert.NotEmpty(t, art.LatenciesNs)
	assert.Greater(t, eng.LiveOrders(), 0)
}

func TestRunDeterministic(t *testing.T) {
	a, engA := runOnce(t, smallConfig(30))
	b, engB := runOnce(t, smallConfig(30))

	// Everything except wall-clock latencies must be identical.
	assert.Equal(t, a.Trades, b.Trades)
	assert.Equal(t, a.Snapshots, b.Snapshots)
	assert.Equal(t, a.Orders, b.Orders)
	assert.Equal(t, a.Cancels, b.Cancels)
	assert.Equal(t, a.Replaces, b.Replaces)
	assert.Equal(t, a.Killed, b.Killed)

	assert.Equal(t, engA.L1(10), engB.L1(10))
	assert.Equal(t, engA.Sequence(), engB.Sequence())
	assert.Equal(t, engA.LiveOrders(), engB.LiveOrders())
}

func TestRunSeedsDiffer(t *testing.T) {
	a, _ := runOnce(t, smallConfig(30))
	b, _ := runOnce(t, smallConfig(31))
	assert.NotEqual(t, a.Trades, b.Trades)
}

func TestTradeSequencesStrictlyIncrease(t *testing.T) {
	art, _ := runOnce(t, smallConfig(7))
	require.NotEmpty(t, art.Trades)
	for i := 1; i < len(art.Trades); i++ {
		assert.Less(t, art.Trades[i-1].Seq, art.Trades[i].Seq)
	}
}

func TestTradesWellFormed(t *testing.T) {
	art, _ := runOnce(t, smallConfig(12))
	require.NotEmpty(t, art.Trades)
	for _, tr := range art.Trades {
		assert.Greater(t, tr.Qty, int64(0))
		assert.Greater(t, tr.Price, int64(0))
		assert.NotEqual(t, tr.MakerID, tr.TakerID)
	}
}

func TestGenSizeRespectsFloorAndLot(t *testing.T) {
	cfg := DefaultConfig()
	g := newGen(cfg)
	for i := 0; i < 10000; i++ {
		sz := g.size()
		assert.GreaterOrEqual(t, sz, cfg.SizeMin)
		assert.Zero(t, sz%cfg.Lot)
	}
}

func TestGenLimitPricePositive(t *testing.T) {
	cfg := DefaultConfig()
	g := newGen(cfg)
	for i := 0; i < 10000; i++ {
		assert.GreaterOrEqual(t, g.limitPrice(2, book.Bid), int64(1))
		assert.GreaterOrEqual(t, g.limitPrice(2, book.Ask), int64(1))
	}
}
