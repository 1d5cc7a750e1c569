package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pfrederiksen/gt-events/internal/event"
)

const (
	keyPrefix   = "gt:event:"
	scanBatch   = 200
	pingTimeout = 5 * time.Second
)

// Redis stores one JSON-encoded event per key under a shared prefix.
// Fingerprint lookup is a cursor scan over the prefix with client-side
// filtering, mirroring the filtered table scan of the original deployment.
type Redis struct {
	client *redis.Client
}

// NewRedis connects to Redis using a redis:// URL and verifies the
// connection with a ping before returning.
func NewRedis(redisURL string) (*Redis, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	return &Redis{client: client}, nil
}

// FindByFingerprint scans all event keys and returns the records whose
// data source and fingerprint both match.
func (r *Redis) FindByFingerprint(ctx context.Context, dataSource, eventSHA string) ([]*event.Event, error) {
	var matches []*event.Event

	var cursor uint64
	for {
		keys, next, err := r.client.Scan(ctx, cursor, keyPrefix+"*", scanBatch).Result()
		if err != nil {
			return nil, fmt.Errorf("scanning events: %w", err)
		}

		for _, key := range keys {
			data, err := r.client.Get(ctx, key).Result()
			if err == redis.Nil {
				// Deleted between scan and get; not our problem.
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("reading event %s: %w", key, err)
			}

			var evt event.Event
			if err := json.Unmarshal([]byte(data), &evt); err != nil {
				return nil, fmt.Errorf("decoding event %s: %w", key, err)
			}
			if evt.DataSource == dataSource && evt.EventSHA == eventSHA {
				matches = append(matches, &evt)
			}
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	return matches, nil
}

// Put writes the full record under its id key.
func (r *Redis) Put(ctx context.Context, evt *event.Event) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("encoding event: %w", err)
	}
	if err := r.client.Set(ctx, keyPrefix+evt.ID, data, 0).Err(); err != nil {
		return fmt.Errorf("storing event %s: %w", evt.ID, err)
	}
	return nil
}

// Delete removes the record with the given id.
func (r *Redis) Delete(ctx context.Context, id string) error {
	n, err := r.client.Del(ctx, keyPrefix+id).Result()
	if err != nil {
		return fmt.Errorf("deleting event %s: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Close closes the underlying Redis connection.
func (r *Redis) Close() error {
	return r.client.Close()
}
