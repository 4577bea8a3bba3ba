package correlate

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	util "github.com/zeakmc/gatekeeper/pkg/util"
)

const redisKeyPrefix = "feedback:session:"

// RedisStore keeps sessions in Redis so they survive restarts and are visible
// to every replica. The Redis TTL is a backstop set past the logical window;
// the CreatedAt check in Take stays authoritative so an overdue session still
// reports EXPIRED rather than NOT_FOUND.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

// NewRedisStore creates a Redis-backed session store with the given window.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Put inserts or replaces the session for its ticket id.
func (r *RedisStore) Put(ctx context.Context, session Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, redisKeyPrefix+session.TicketID, payload, r.ttl*2).Err()
}

// Take removes and returns the session for the ticket id.
func (r *RedisStore) Take(ctx context.Context, ticketID string) (*Session, error) {
	payload, err := r.client.GetDel(ctx, redisKeyPrefix+ticketID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, util.NewNotFound("feedback session")
	}
	if err != nil {
		return nil, util.NewPersistenceFailure(err)
	}

	var session Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, util.NewPersistenceFailure(err)
	}
	if r.now().Sub(session.CreatedAt) > r.ttl {
		return nil, util.NewExpired("feedback request has expired")
	}
	return &session, nil
}

// Sweep scans for sessions past the logical window. Redis already evicts keys
// at the backstop TTL, so this only trims the span between window and backstop.
func (r *RedisStore) Sweep(ctx context.Context) (int, error) {
	var cursor uint64
	removed := 0
	now := r.now()

	for {
		keys, next, err := r.client.Scan(ctx, cursor, redisKeyPrefix+"*", 100).Result()
		if err != nil {
			return removed, util.NewPersistenceFailure(err)
		}
		for _, key := range keys {
			payload, err := r.client.Get(ctx, key).Bytes()
			if errors.Is(err, redis.Nil) {
				continue
			}
			if err != nil {
				return removed, util.NewPersistenceFailure(err)
			}
			var session Session
			if err := json.Unmarshal(payload, &session); err != nil {
				continue
			}
			if now.Sub(session.CreatedAt) > r.ttl {
				if r.client.Del(ctx, key).Err() == nil {
					removed++
				}
			}
		}
		cursor = next
		if cursor == 0 {
			return removed, nil
		}
	}
}
