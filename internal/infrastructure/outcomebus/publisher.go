// Package outcomebus publishes command execution outcomes to Redis pub/sub
// so downstream consumers (audit, metrics, notifications) can observe them
// without sitting in the request path.
package outcomebus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lllypuk/cmdflow/internal/validation"
)

// DefaultChannelPrefix prefixes the per-command Redis channels.
const DefaultChannelPrefix = "outcomes:"

// Record is the serialized form of one command execution outcome.
type Record struct {
	Command    string    `json:"command"`
	Success    bool      `json:"success"`
	Failures   []string  `json:"failures,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// RecordFor builds a Record from a command name and its outcome.
func RecordFor[S any](command string, out validation.Outcome[S]) Record {
	return Record{
		Command:    command,
		Success:    out.IsValid(),
		Failures:   out.ErrorMessages(),
		OccurredAt: time.Now().UTC(),
	}
}

// Publisher writes outcome records to Redis. Publishing is best-effort from
// the caller's point of view: handlers log publish errors and move on.
type Publisher struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
}

// NewPublisher creates a Publisher. An empty prefix falls back to
// DefaultChannelPrefix.
func NewPublisher(client *redis.Client, prefix string, logger *slog.Logger) *Publisher {
	if prefix == "" {
		prefix = DefaultChannelPrefix
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{client: client, prefix: prefix, logger: logger}
}

// Channel returns the Redis channel a command's outcomes are published on.
func (p *Publisher) Channel(command string) string {
	return p.prefix + command
}

// Publish serializes the record and publishes it on the command's channel.
func (p *Publisher) Publish(ctx context.Context, rec Record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal outcome record: %w", err)
	}

	if err := p.client.Publish(ctx, p.Channel(rec.Command), payload).Err(); err != nil {
		return fmt.Errorf("failed to publish outcome: %w", err)
	}

	p.logger.Debug("outcome published",
		slog.String("command", rec.Command),
		slog.Bool("success", rec.Success),
	)
	return nil
}
