// Package producer streams telemetry events to Kafka.
package producer

import (
	"context"

	"github.com/Snehil208001/Gr-nZimmer/internal/telemetry/domain"
)

// Producer emits telemetry events. Callers use it best-effort: log and ignore errors.
type Producer interface {
	Emit(ctx context.Context, event *domain.Event) error
	// Close releases resources (e.g. Kafka writer). Safe to call if already closed.
	Close() error
}
