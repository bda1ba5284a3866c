package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis"
	"github.com/vitalis-health/vitalis/internal/types"
)

// RedisContextStore keeps conversation history in a capped redis list so
// bounded context survives process restarts. Conversation eviction rides on
// the key TTL, refreshed on every append.
type RedisContextStore struct {
	rc       *redis.Client
	maxTurns int
	ttl      time.Duration
}

func NewRedisContextStore(rc *redis.Client, maxTurns int, ttl time.Duration) *RedisContextStore {
	return &RedisContextStore{
		rc:       rc,
		maxTurns: maxTurns,
		ttl:      ttl,
	}
}

func conversationKey(conversationID string) string {
	return fmt.Sprintf("conversation:%s:turns", conversationID)
}

// Append implements consult.ContextStore. RPUSH + LTRIM keeps the newest
// maxTurns entries in one round trip.
func (r *RedisContextStore) Append(ctx context.Context, conversationID string, turns ...types.Turn) error {
	if len(turns) == 0 {
		return nil
	}

	vals := make([]interface{}, 0, len(turns))
	for _, t := range turns {
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("can't marshal turn: %w", err)
		}
		vals = append(vals, data)
	}

	key := conversationKey(conversationID)
	pipe := r.rc.TxPipeline()
	pipe.RPush(key, vals...)
	pipe.LTrim(key, int64(-r.maxTurns), -1)
	pipe.Expire(key, r.ttl)
	if _, err := pipe.Exec(); err != nil {
		return fmt.Errorf("storing conversation turns: %w", err)
	}
	return nil
}

// History implements consult.ContextStore.
func (r *RedisContextStore) History(ctx context.Context, conversationID string) ([]types.Turn, error) {
	raws, err := r.rc.LRange(conversationKey(conversationID), 0, -1).Result()
	if err != nil {
		if err == redis.Nil {
			return []types.Turn{}, nil
		}
		return nil, fmt.Errorf("fetching conversation turns: %w", err)
	}

	turns := make([]types.Turn, 0, len(raws))
	for _, raw := range raws {
		var t types.Turn
		if err := json.Unmarshal([]byte(raw), &t); err != nil {
			// skip entries written by an older build rather than fail the read
			continue
		}
		turns = append(turns, t)
	}
	return turns, nil
}
