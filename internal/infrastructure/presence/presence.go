package presence

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "livedesk:presence:"

	// Counters expire on their own so a crashed node cannot pin a stale
	// viewer count forever.
	counterTTL = 6 * time.Hour
)

// Tracker counts viewers per event in redis. Errors are returned to the
// caller as-is: a failed count must surface as a degraded state, never as
// a made-up number.
type Tracker struct {
	client *redis.Client
}

func NewTracker(addr, password string, db int) *Tracker {
	return &Tracker{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
	}
}

func (t *Tracker) Ping(ctx context.Context) error {
	return t.client.Ping(ctx).Err()
}

func (t *Tracker) Join(ctx context.Context, eventID string) error {
	key := keyPrefix + eventID

	pipe := t.client.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, counterTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("presence join: %w", err)
	}
	return nil
}

func (t *Tracker) Leave(ctx context.Context, eventID string) error {
	key := keyPrefix + eventID

	n, err := t.client.Decr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("presence leave: %w", err)
	}
	if n < 0 {
		// Joins and leaves can race across restarts; clamp at zero.
		if err := t.client.Set(ctx, key, 0, counterTTL).Err(); err != nil {
			return fmt.Errorf("presence clamp: %w", err)
		}
	}
	return nil
}

func (t *Tracker) Count(ctx context.Context, eventID string) (int64, error) {
	n, err := t.client.Get(ctx, keyPrefix+eventID).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("presence count: %w", err)
	}
	if n < 0 {
		return 0, nil
	}
	return n, nil
}

func (t *Tracker) Close() error {
	return t.client.Close()
}
