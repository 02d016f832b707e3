// Package relay moves auth telemetry events from Kafka to Loki.
package relay

import (
	"context"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

// MessageReader is the subset of *kafka.Reader the relay uses.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// Pusher delivers one raw event (e.g. *loki.Client).
type Pusher interface {
	PushEventJSON(ctx context.Context, raw []byte) error
}

// Relay reads events from a consumer group and pushes each one. Push failures
// are logged and the message is skipped; delivery is at most once.
type Relay struct {
	reader      MessageReader
	pusher      Pusher
	pushTimeout time.Duration
}

// New returns a Relay. pushTimeout bounds each push; 0 means 10s.
func New(reader MessageReader, pusher Pusher, pushTimeout time.Duration) *Relay {
	if pushTimeout <= 0 {
		pushTimeout = 10 * time.Second
	}
	return &Relay{reader: reader, pusher: pusher, pushTimeout: pushTimeout}
}

// NewReader returns a kafka-go consumer group reader for topic.
func NewReader(brokers []string, topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,
		MaxBytes:       10e6, // 10MB
		MaxWait:        1 * time.Second,
		CommitInterval: time.Second,
	})
}

// Run relays until ctx is done. It returns the number of events pushed.
func (r *Relay) Run(ctx context.Context) int {
	var pushed int
	for {
		msg, err := r.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return pushed
			}
			log.Printf("relay: kafka read error: %v", err)
			continue
		}

		pushCtx, cancel := context.WithTimeout(ctx, r.pushTimeout)
		if err := r.pusher.PushEventJSON(pushCtx, msg.Value); err != nil {
			log.Printf("relay: push failed (offset %d): %v", msg.Offset, err)
		} else {
			pushed++
		}
		cancel()
	}
}
