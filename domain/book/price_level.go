package book

// PriceLevel is the FIFO of live orders resting at one price. Orders are
// linked intrusively; arrival order (ascending Seq) runs head to tail, so
// the head always has time priority.
type PriceLevel struct {
	Price      int64
	head       *Order
	tail       *Order
	TotalQty   int64
	OrderCount int
}

// Enqueue appends o at the tail of the level.
func (l *PriceLevel) Enqueue(o *Order) {
	if l.head == nil {
		l.head = o
		l.tail = o
	} else {
		l.tail.next = o
		o.prev = l.tail
		l.tail = o
	}
	l.TotalQty += o.Remaining
	l.OrderCount++
}

// Front returns the order with time priority, or nil on an empty level.
func (l *PriceLevel) Front() *Order { return l.head }

// Head is Front under the name used by level walkers.
func (l *PriceLevel) Head() *Order { return l.head }

// ReduceOrPopFront decrements the head order by fill. If the head is fully
// filled it is unlinked and returned so the caller can drop its index
// entry; otherwise nil is returned.
func (l *PriceLevel) ReduceOrPopFront(fill int64) *Order {
	o := l.head
	o.Remaining -= fill
	l.TotalQty -= fill
	if o.Remaining > 0 {
		return nil
	}
	l.unlink(o)
	return o
}

// Remove unlinks the order with the given ID and returns it, or nil if the
// ID does not rest here. Linear in the level length: removal is by
// identity, not position.
func (l *PriceLevel) Remove(id uint64) *Order {
	for o := l.head; o != nil; o = o.next {
		if o.ID == id {
			l.TotalQty -= o.Remaining
			l.unlink(o)
			return o
		}
	}
	return nil
}

// Empty reports whether the level holds no live orders.
func (l *PriceLevel) Empty() bool { return l.head == nil }

func (l *PriceLevel) unlink(o *Order) {
	if o.prev != nil {
		o.prev.next = o.next
	} else {
		l.head = o.next
	}
	if o.next != nil {
		o.next.prev = o.prev
	} else {
		l.tail = o.prev
	}
	o.next = nil
	o.prev = nil
	l.OrderCount--
}
