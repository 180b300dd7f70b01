package sim

// Config parameterizes the synthetic order flow. Probabilities are event
// mix weights; prices are in ticks on an integer grid.
type Config struct {
	Seed   int64
	Events int

	PLimit   float64
	PMarket  float64
	PCancel  float64
	PReplace float64

	// Mid0Ticks anchors the price process; DriftPer1K shifts the mid by
	// that many ticks per thousand events.
	Mid0Ticks  int64
	SigmaTicks float64
	DriftPer1K float64

	// Sizes are lognormal around SizeMean, rounded to Lot, floored at
	// SizeMin.
	SizeMean float64
	SizeMin  int64
	Lot      int64

	PIOC float64
	PFOK float64

	// SnapshotEvery takes an L1 observation every N events.
	SnapshotEvery int

	// SeedDepth rests SeedRounds×3 levels per side around the mid before
	// the event stream starts, SeedQty each.
	SeedRounds int
	SeedQty    int64
}

// DefaultConfig mirrors the stock simulation profile.
func DefaultConfig() Config {
	return Config{
		Seed:          30,
		Events:        50_000,
		PLimit:        0.65,
		PMarket:       0.20,
		PCancel:       0.10,
		PReplace:      0.05,
		Mid0Ticks:     10_000,
		SigmaTicks:    1.5,
		DriftPer1K:    0,
		SizeMean:      100,
		SizeMin:       10,
		Lot:           10,
		PIOC:          0.05,
		PFOK:          0.02,
		SnapshotEvery: 250,
		SeedRounds:    10,
		SeedQty:       200,
	}
}
