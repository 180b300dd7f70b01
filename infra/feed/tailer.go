package feed

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
)

// Tailer consumes the trade topic from the beginning. It is the consumer
// counterpart of the broadcaster and exists for the `tail` verb: watching
// what a run published without touching its artifacts.
type Tailer struct {
	reader *kafka.Reader
}

// NewTailer subscribes to topic on brokers, starting at the first offset.
func NewTailer(brokers []string, topic string) *Tailer {
	return &Tailer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:     brokers,
			Topic:       topic,
			StartOffset: kafka.FirstOffset,
			MinBytes:    1,
			MaxBytes:    1 << 20,
			MaxWait:     250 * time.Millisecond,
		}),
	}
}

// Tail delivers decoded trade events to fn until ctx is done or the stream
// errors.
func (t *Tailer) Tail(ctx context.Context, fn func(TradeEvent) error) error {
	for {
		msg, err := t.reader.ReadMessage(ctx)
		if err != nil {
			return err
		}
		ev, err := DecodeTrade(msg.Value)
		if err != nil {
			return err
		}
		if err := fn(ev); err != nil {
			return err
		}
	}
}

func (t *Tailer) Close() error { return t.reader.Close() }
