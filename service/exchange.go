package service

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"fenrir/domain/book"
	"fenrir/infra/journal"
	"fenrir/infra/outbox"
)

// Exchange is the only write entry point into the engine. Each accepted
// event is journaled, every emitted trade goes to the outbox. The journal
// and outbox are both optional: the engine alone is enough for tests and
// ephemeral runs.
//
// Exchange is single-writer, like the engine it wraps. Hosts that want
// concurrency serialize in front of it.
type Exchange struct {
	eng *book.Engine
	jrn *journal.Journal
	box *outbox.Outbox
	log *zap.Logger
}

// Option configures an Exchange.
type Option func(*Exchange)

// WithJournal journals every accepted event for later replay.
func WithJournal(j *journal.Journal) Option {
	return func(x *Exchange) { x.jrn = j }
}

// WithOutbox persists every trade for the broadcaster to drain.
func WithOutbox(b *outbox.Outbox) Option {
	return func(x *Exchange) { x.box = b }
}

// New wires an exchange around eng.
func New(eng *book.Engine, log *zap.Logger, opts ...Option) *Exchange {
	x := &Exchange{eng: eng, log: log}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

// Engine exposes the wrapped engine for read-only queries.
func (x *Exchange) Engine() *book.Engine { return x.eng }

// Submit runs one order through the engine. Rejected orders are logged and
// not journaled; internal invariant violations are logged loudly before
// being returned.
func (x *Exchange) Submit(o *book.Order) (book.SubmitResult, error) {
	ev := journal.SubmitEvent{
		ID:    o.ID,
		Side:  int8(o.Side),
		Type:  int8(o.Type),
		TIF:   int8(o.TIF),
		Price: o.Price,
		Qty:   o.Qty,
	}
	res, err := x.eng.Submit(o)
	if err != nil {
		x.observeErr("submit", o.ID, err)
		return res, err
	}
	x.journal(journal.RecordSubmit, o.Seq, journal.EncodeSubmit(ev))
	x.sink(res.Trades)
	return res, nil
}

// Cancel removes a resting order.
func (x *Exchange) Cancel(id uint64) error {
	if err := x.eng.Cancel(id); err != nil {
		x.observeErr("cancel", id, err)
		return err
	}
	x.journal(journal.RecordCancel, x.eng.Sequence(), journal.EncodeCancel(journal.CancelEvent{ID: id}))
	return nil
}

// Replace modifies a resting order; zero price/qty leave the field alone.
func (x *Exchange) Replace(id uint64, newPrice, newQty int64) (book.ReplaceResult, error) {
	res, err := x.eng.Replace(id, newPrice, newQty)
	if err != nil {
		x.observeErr("replace", id, err)
		return res, err
	}
	x.journal(journal.RecordReplace, x.eng.Sequence(), journal.EncodeReplace(journal.ReplaceEvent{
		ID:       id,
		NewPrice: newPrice,
		NewQty:   newQty,
	}))
	x.sink(res.Trades)
	return res, nil
}

// L1 is a pass-through to the engine's derived top-of-book view.
func (x *Exchange) L1(depth int) book.L1Snapshot { return x.eng.L1(depth) }

func (x *Exchange) journal(t journal.RecordType, seq uint64, data []byte) {
	if x.jrn == nil {
		return
	}
	err := x.jrn.Append(&journal.Record{
		Type: t,
		Seq:  seq,
		Time: time.Now().UnixNano(),
		Data: data,
	})
	if err != nil {
		x.log.Warn("journal append failed", zap.Error(err))
	}
}

func (x *Exchange) sink(trades []book.Trade) {
	if x.box == nil {
		return
	}
	for _, t := range trades {
		if err := x.box.Put(t); err != nil {
			x.log.Warn("outbox put failed", zap.Uint64("seq", t.Seq), zap.Error(err))
		}
	}
}

func (x *Exchange) observeErr(op string, id uint64, err error) {
	if errors.Is(err, book.ErrInternalInvariant) {
		x.log.Error("internal invariant violation",
			zap.String("op", op), zap.Uint64("id", id), zap.Error(err))
		return
	}
	x.log.Debug("rejected", zap.String("op", op), zap.Uint64("id", id), zap.Error(err))
}
