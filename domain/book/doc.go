// Package book implements a price-time priority limit order book.
//
// Two SideBooks (bids, asks) each pair a price→level map with a lazily
// cleaned price heap, giving amortized O(1) best-price queries. Price
// levels are intrusive FIFO lists, so fills at the front are O(1) and
// cancels cost a scan of one level. The Engine composes the books with an
// order-location index and a monotonic sequence counter and exposes
// Submit, Cancel and Replace plus the derived L1 view.
//
// The engine performs no locking: the embedding service serializes all
// mutating calls, which also makes replays of an event stream bit-for-bit
// deterministic.
package book
