package sequence

import "sync/atomic"

// Sequencer hands out the strictly increasing sequence numbers that order
// every accepted event and every trade. One instance belongs to one engine;
// it is never shared process-wide, which keeps engines instantiable side by
// side in tests.
//
// Mutating calls into the engine are externally serialized, but Current may
// be read from other goroutines (snapshot jobs), so the counter is atomic.
type Sequencer struct {
	last atomic.Uint64
}

// New returns a sequencer that will issue start+1 next. A fresh engine
// passes 0; replay passes the last sequence it observed.
func New(start uint64) *Sequencer {
	s := &Sequencer{}
	s.last.Store(start)
	return s
}

// Next issues the next sequence number.
func (s *Sequencer) Next() uint64 { return s.last.Add(1) }

// Current returns the most recently issued sequence number.
func (s *Sequencer) Current() uint64 { return s.last.Load() }

// Resume rewinds or advances the counter. Only journal replay and snapshot
// load may call this.
func (s *Sequencer) Resume(v uint64) { s.last.Store(v) }
