package broadcaster

import (
	"context"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"fenrir/infra/feed"
	"fenrir/infra/outbox"
)

// Broadcaster drains NEW trades from the outbox and publishes them to the
// trade topic. The outbox state machine makes the pipeline restartable:
// a trade is marked SENT before the publish attempt and ACKED only after
// the broker accepted it, so a crash re-sends rather than drops.
type Broadcaster struct {
	box      *outbox.Outbox
	producer sarama.SyncProducer
	topic    string
	interval time.Duration
	log      *zap.Logger
}

// New connects a sync producer to brokers.
func New(box *outbox.Outbox, brokers []string, topic string, interval time.Duration, log *zap.Logger) (*Broadcaster, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 5

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, err
	}
	return &Broadcaster{
		box:      box,
		producer: producer,
		topic:    topic,
		interval: interval,
		log:      log,
	}, nil
}

// Run drains on a ticker until ctx is cancelled, then performs one final
// drain so a finished sim run flushes its tail.
func (b *Broadcaster) Run(ctx context.Context) {
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			b.drainOnce()
			return
		case <-ticker.C:
			b.drainOnce()
		}
	}
}

// DrainOnce publishes every pending trade once. Exposed for synchronous
// use at the end of a run.
func (b *Broadcaster) DrainOnce() { b.drainOnce() }

func (b *Broadcaster) drainOnce() {
	var maxAcked uint64
	err := b.box.ScanState(outbox.StateNew, func(e outbox.Entry) error {
		payload, err := feed.EncodeTrade(e.Trade)
		if err != nil {
			return err
		}
		if err := b.box.Mark(e.Trade.Seq, outbox.StateSent); err != nil {
			return err
		}
		_, _, err = b.producer.SendMessage(&sarama.ProducerMessage{
			Topic: b.topic,
			Value: sarama.ByteEncoder(payload),
		})
		if err != nil {
			// Left in SENT; the next drain retries it.
			b.log.Warn("publish failed", zap.Uint64("seq", e.Trade.Seq), zap.Error(err))
			return nil
		}
		if err := b.box.Mark(e.Trade.Seq, outbox.StateAcked); err != nil {
			return err
		}
		if e.Trade.Seq > maxAcked {
			maxAcked = e.Trade.Seq
		}
		return nil
	})
	if err != nil {
		b.log.Warn("outbox drain failed", zap.Error(err))
	}
	// SENT entries from a crashed or failed attempt get one more try.
	_ = b.box.ScanState(outbox.StateSent, func(e outbox.Entry) error {
		payload, err := feed.EncodeTrade(e.Trade)
		if err != nil {
			return err
		}
		_, _, err = b.producer.SendMessage(&sarama.ProducerMessage{
			Topic: b.topic,
			Value: sarama.ByteEncoder(payload),
		})
		if err != nil {
			return nil
		}
		if err := b.box.Mark(e.Trade.Seq, outbox.StateAcked); err != nil {
			return err
		}
		if e.Trade.Seq > maxAcked {
			maxAcked = e.Trade.Seq
		}
		return nil
	})
	// ACKED entries are garbage once the broker has them.
	if maxAcked > 0 {
		if err := b.box.DeleteAckedUpTo(maxAcked); err != nil {
			b.log.Warn("outbox gc failed", zap.Uint64("up_to", maxAcked), zap.Error(err))
		}
	}
}

func (b *Broadcaster) Close() error { return b.producer.Close() }
