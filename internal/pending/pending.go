// Package pending tracks in-flight operations per user with Redis tokens.
// It replaces ad hoc "is an operation already running for this id" bookkeeping
// with a SETNX token carrying a TTL, so a crashed flow cannot wedge a user
// forever.
package pending

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL bounds how long a token survives if the owning flow never
// releases it.
const DefaultTTL = 30 * time.Second

// ErrInFlight is returned when the same operation is already running.
var ErrInFlight = fmt.Errorf("operation already in flight")

// Tracker issues and releases pending-operation tokens.
type Tracker struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a Tracker over an existing Redis client.
func New(client *redis.Client) *Tracker {
	return &Tracker{client: client, ttl: DefaultTTL}
}

// NewWithTTL creates a Tracker with a custom token TTL.
func NewWithTTL(client *redis.Client, ttl time.Duration) *Tracker {
	return &Tracker{client: client, ttl: ttl}
}

func key(op, id string) string {
	return fmt.Sprintf("pending:%s:%s", op, id)
}

// Acquire claims the token for (op, id). Returns ErrInFlight when another
// flow holds it.
func (t *Tracker) Acquire(ctx context.Context, op, id string) error {
	ok, err := t.client.SetNX(ctx, key(op, id), time.Now().UnixMilli(), t.ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to acquire pending token: %w", err)
	}
	if !ok {
		return ErrInFlight
	}
	return nil
}

// Release frees the token for (op, id). Releasing a token that already
// expired is not an error.
func (t *Tracker) Release(ctx context.Context, op, id string) error {
	if err := t.client.Del(ctx, key(op, id)).Err(); err != nil {
		return fmt.Errorf("failed to release pending token: %w", err)
	}
	return nil
}
