package book

// Side is the direction of an order.
type Side int8

const (
	Bid Side = iota
	Ask
)

// Opposite returns the side an order matches against.
func (s Side) Opposite() Side {
	if s == Bid {
		return Ask
	}
	return Bid
}

func (s Side) String() string {
	if s == Bid {
		return "bid"
	}
	return "ask"
}

// OrderType distinguishes resting-capable limit orders from
// liquidity-taking market orders.
type OrderType int8

const (
	Limit OrderType = iota
	Market
)

func (t OrderType) String() string {
	if t == Limit {
		return "limit"
	}
	return "market"
}

// TimeInForce controls what happens to the unmatched remainder of an order.
type TimeInForce int8

const (
	// GTC rests the remainder on the book.
	GTC TimeInForce = iota
	// IOC discards the remainder after matching what is immediately available.
	IOC
	// FOK fills the entire quantity immediately or kills the order with no
	// fills at all.
	FOK
)

func (t TimeInForce) String() string {
	switch t {
	case GTC:
		return "GTC"
	case IOC:
		return "IOC"
	case FOK:
		return "FOK"
	}
	return "?"
}

// Order is a live order inside the engine. Price is in ticks and must be
// zero for market orders. Seq is assigned by the engine at acceptance and
// is the sole time-priority tie-break within a price level.
type Order struct {
	ID        uint64
	Side      Side
	Type      OrderType
	TIF       TimeInForce
	Price     int64
	Qty       int64
	Remaining int64
	Seq       uint64

	next *Order
	prev *Order
}

// Filled returns how much of the original quantity has executed.
func (o *Order) Filled() int64 { return o.Qty - o.Remaining }

// Next returns the order behind o in its price level's FIFO, if any.
func (o *Order) Next() *Order { return o.next }
