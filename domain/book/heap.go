package book

// priceHeap implements heap.Interface over price ticks. With max set it is
// a max-heap (bid convention: highest price on top), otherwise a min-heap
// (ask convention). Manipulate through container/heap.
type priceHeap struct {
	prices []int64
	max    bool
}

func (h *priceHeap) Len() int { return len(h.prices) }

func (h *priceHeap) Less(i, j int) bool {
	if h.max {
		return h.prices[i] > h.prices[j]
	}
	return h.prices[i] < h.prices[j]
}

func (h *priceHeap) Swap(i, j int) {
	h.prices[i], h.prices[j] = h.prices[j], h.prices[i]
}

func (h *priceHeap) Push(x any) {
	h.prices = append(h.prices, x.(int64))
}

func (h *priceHeap) Pop() any {
	old := h.prices
	n := len(old)
	x := old[n-1]
	h.prices = old[:n-1]
	return x
}

// Peek returns the top price without removing it. Callers must check Len
// first.
func (h *priceHeap) Peek() int64 { return h.prices[0] }
