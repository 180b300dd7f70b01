package book

import "errors"

var (
	// ErrInvalidOrder covers non-positive prices or quantities and limit
	// orders missing a price.
	ErrInvalidOrder = errors.New("book: invalid order")

	// ErrDuplicateOrder is returned when a submitted ID is already live.
	ErrDuplicateOrder = errors.New("book: duplicate order id")

	// ErrUnknownOrder is returned by cancel/replace for IDs not in the index.
	ErrUnknownOrder = errors.New("book: unknown order id")

	// ErrInternalInvariant indicates a bug: state the engine guarantees can
	// never arise was observed (FOK remainder after a guaranteed full fill,
	// index entry pointing at a missing level). Processing of the offending
	// event stops; the book must be considered suspect.
	ErrInternalInvariant = errors.New("book: internal invariant violation")
)
