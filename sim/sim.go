package sim

import (
	"time"

	"go.uber.org/zap"

	"fenrir/domain/book"
	"fenrir/metrics"
	"fenrir/service"
)

// Artifacts is everything a run produced: the full trade tape, periodic L1
// snapshots, raw per-operation latencies, and event counts.
type Artifacts struct {
	Trades      []book.Trade
	Snapshots   []metrics.SnapshotRow
	LatenciesNs []int64
	Orders      int
	Cancels     int
	Replaces    int
	Killed      int
}

// Simulator drives an Exchange with a seeded synthetic event stream.
// Identical configs produce identical trades, snapshots and final books;
// only the latency samples vary between runs.
type Simulator struct {
	cfg Config
	gen *gen
	x   *service.Exchange
	log *zap.Logger

	nextID uint64

	// live tracks resting orders in insertion order so victim selection is
	// deterministic: map iteration order is never consulted.
	live      []uint64
	livePos   map[uint64]int
	livePrice map[uint64]int64
}

// New builds a simulator over x.
func New(cfg Config, x *service.Exchange, log *zap.Logger) *Simulator {
	return &Simulator{
		cfg:       cfg,
		gen:       newGen(cfg),
		x:         x,
		log:       log,
		nextID:    1,
		livePos:   make(map[uint64]int),
		livePrice: make(map[uint64]int64),
	}
}

// Run seeds the book and plays the configured number of events.
func (s *Simulator) Run() (Artifacts, error) {
	cfg := s.cfg
	art := Artifacts{
		LatenciesNs: make([]int64, 0, cfg.Events),
	}
	mid := float64(cfg.Mid0Ticks)

	for i := 0; i < cfg.SeedRounds; i++ {
		if err := s.seedLevels(mid, cfg.SeedQty); err != nil {
			return art, err
		}
	}

	for i := 0; i < cfg.Events; i++ {
		mid += cfg.DriftPer1K / 1000

		r := s.gen.roll()
		switch {
		case r < cfg.PLimit:
			if err := s.limitEvent(mid, &art); err != nil {
				return art, err
			}
		case r < cfg.PLimit+cfg.PMarket:
			if err := s.marketEvent(&art); err != nil {
				return art, err
			}
		case r < cfg.PLimit+cfg.PMarket+cfg.PCancel:
			if err := s.cancelEvent(&art); err != nil {
				return art, err
			}
		default:
			if err := s.replaceEvent(&art); err != nil {
				return art, err
			}
		}

		if cfg.SnapshotEvery > 0 && (i+1)%cfg.SnapshotEvery == 0 {
			art.Snapshots = append(art.Snapshots, s.observe(int64(i+1)))
		}
	}

	s.log.Info("simulation finished",
		zap.Int("events", cfg.Events),
		zap.Int("orders", art.Orders),
		zap.Int("trades", len(art.Trades)),
		zap.Int("cancels", art.Cancels),
		zap.Int("replaces", art.Replaces),
		zap.Int("killed", art.Killed),
		zap.Int("resting", s.x.Engine().LiveOrders()),
	)
	return art, nil
}

func (s *Simulator) limitEvent(mid float64, art *Artifacts) error {
	side := s.gen.side()
	price := s.gen.limitPrice(mid, side)
	tif := s.gen.tif()
	qty := s.gen.size()
	id := s.allocID()

	o := &book.Order{ID: id, Side: side, Type: book.Limit, TIF: tif, Price: price, Qty: qty}
	t0 := time.Now()
	res, err := s.x.Submit(o)
	art.LatenciesNs = append(art.LatenciesNs, time.Since(t0).Nanoseconds())
	if err != nil {
		return err
	}
	art.Orders++
	if res.Killed {
		art.Killed++
	}
	s.absorb(res.Trades, art)
	if res.Resting {
		s.track(id, price)
	}
	return nil
}

func (s *Simulator) marketEvent(art *Artifacts) error {
	id := s.allocID()
	o := &book.Order{ID: id, Side: s.gen.side(), Type: book.Market, TIF: book.IOC, Qty: s.gen.size()}
	t0 := time.Now()
	res, err := s.x.Submit(o)
	art.LatenciesNs = append(art.LatenciesNs, time.Since(t0).Nanoseconds())
	if err != nil {
		return err
	}
	art.Orders++
	s.absorb(res.Trades, art)
	return nil
}

func (s *Simulator) cancelEvent(art *Artifacts) error {
	if len(s.live) == 0 {
		return nil
	}
	id := s.live[s.gen.pick(len(s.live))]
	t0 := time.Now()
	err := s.x.Cancel(id)
	art.LatenciesNs = append(art.LatenciesNs, time.Since(t0).Nanoseconds())
	if err != nil {
		return err
	}
	art.Cancels++
	s.untrack(id)
	return nil
}

func (s *Simulator) replaceEvent(art *Artifacts) error {
	if len(s.live) == 0 {
		return nil
	}
	id := s.live[s.gen.pick(len(s.live))]
	newPrice := s.livePrice[id] + s.gen.tickDelta()
	if newPrice < 1 {
		newPrice = 1
	}
	t0 := time.Now()
	res, err := s.x.Replace(id, newPrice, 0)
	art.LatenciesNs = append(art.LatenciesNs, time.Since(t0).Nanoseconds())
	if err != nil {
		return err
	}
	art.Replaces++
	s.absorb(res.Trades, art)
	if res.Resting {
		s.livePrice[id] = newPrice
	} else {
		s.untrack(id)
	}
	return nil
}

// seedLevels rests three bid and three ask levels around the mid.
func (s *Simulator) seedLevels(mid float64, qty int64) error {
	m := int64(mid)
	for d := int64(1); d <= 3; d++ {
		bid := &book.Order{ID: s.allocID(), Side: book.Bid, Type: book.Limit, TIF: book.GTC, Price: m - d, Qty: qty}
		ask := &book.Order{ID: s.allocID(), Side: book.Ask, Type: book.Limit, TIF: book.GTC, Price: m + d, Qty: qty}
		for _, o := range []*book.Order{bid, ask} {
			res, err := s.x.Submit(o)
			if err != nil {
				return err
			}
			if res.Resting {
				s.track(o.ID, o.Price)
			}
		}
	}
	return nil
}

// absorb records trades and drops makers that were fully consumed.
func (s *Simulator) absorb(trades []book.Trade, art *Artifacts) {
	art.Trades = append(art.Trades, trades...)
	for _, t := range trades {
		if !s.x.Engine().IsLive(t.MakerID) {
			s.untrack(t.MakerID)
		}
	}
}

func (s *Simulator) observe(event int64) metrics.SnapshotRow {
	l1 := s.x.L1(1)
	return metrics.SnapshotRow{
		Event:    event,
		BestBid:  l1.BestBid,
		BestAsk:  l1.BestAsk,
		HasBid:   l1.HasBid,
		HasAsk:   l1.HasAsk,
		BidDepth: l1.BidDepth,
		AskDepth: l1.AskDepth,
	}
}

func (s *Simulator) allocID() uint64 {
	id := s.nextID
	s.nextID++
	return id
}

func (s *Simulator) track(id uint64, price int64) {
	if _, ok := s.livePos[id]; ok {
		s.livePrice[id] = price
		return
	}
	s.livePos[id] = len(s.live)
	s.live = append(s.live, id)
	s.livePrice[id] = price
}

// untrack removes by swapping with the tail, keeping selection O(1).
func (s *Simulator) untrack(id uint64) {
	pos, ok := s.livePos[id]
	if !ok {
		return
	}
	last := len(s.live) - 1
	moved := s.live[last]
	s.live[pos] = moved
	s.livePos[moved] = pos
	s.live = s.live[:last]
	delete(s.livePos, id)
	delete(s.livePrice, id)
}
