package book

// Trade is one fill between a resting maker and an incoming taker.
// Price is always the maker's price. Trades are immutable once emitted;
// the engine never reads them back.
type Trade struct {
	Seq       uint64
	Price     int64
	Qty       int64
	MakerID   uint64
	TakerID   uint64
	TakerSide Side
}
