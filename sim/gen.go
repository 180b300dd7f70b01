package sim

import (
	"math"
	"math/rand"

	"fenrir/domain/book"
)

// gen draws order attributes from a seeded source. All randomness in a run
// flows through the one *rand.Rand, so a seed fixes the entire event
// stream.
type gen struct {
	cfg Config
	rng *rand.Rand
}

func newGen(cfg Config) *gen {
	return &gen{cfg: cfg, rng: rand.New(rand.NewSource(cfg.Seed))}
}

func (g *gen) side() book.Side {
	if g.rng.Float64() < 0.5 {
		return book.Bid
	}
	return book.Ask
}

// size draws a lognormal quantity rounded to the lot grid.
func (g *gen) size() int64 {
	v := math.Exp(g.rng.NormFloat64()*0.5 + math.Log(g.cfg.SizeMean))
	size := int64(v)
	if size < g.cfg.SizeMin {
		size = g.cfg.SizeMin
	}
	lot := g.cfg.Lot
	size = (size + lot/2) / lot * lot
	if size < lot {
		size = lot
	}
	return size
}

// limitPrice draws a price near the mid: bids lean one tick above, asks
// one tick below, which keeps the flow marketable often enough to trade.
func (g *gen) limitPrice(mid float64, side book.Side) int64 {
	loc := 1.0
	if side == book.Ask {
		loc = -1.0
	}
	offset := math.Round(g.rng.NormFloat64()*g.cfg.SigmaTicks + loc)
	px := int64(math.Round(mid)) + int64(offset)
	if px < 1 {
		px = 1
	}
	return px
}

func (g *gen) tif() book.TimeInForce {
	r := g.rng.Float64()
	switch {
	case r < g.cfg.PFOK:
		return book.FOK
	case r < g.cfg.PFOK+g.cfg.PIOC:
		return book.IOC
	default:
		return book.GTC
	}
}

// pick selects a uniform index into n live orders.
func (g *gen) pick(n int) int { return g.rng.Intn(n) }

// tickDelta returns ±1 for replace price moves.
func (g *gen) tickDelta() int64 {
	if g.rng.Float64() < 0.5 {
		return -1
	}
	return 1
}

func (g *gen) roll() float64 { return g.rng.Float64() }
