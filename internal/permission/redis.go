package permission

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Keys of one user share a hash tag so the guarded write stays in one cluster slot.
const (
	redisKeyFormat        = "permission:{%d}:effective"
	redisGenerationFormat = "permission:{%d}:generation"
)

var errStaleResolve = errors.New("permissions invalidated during resolve")

// RedisCache is a Cache shared between processes. Entries expire through the Redis key TTL.
// Every invalidation bumps a per-user generation; a set resolved under an older generation
// is never written back.
type RedisCache struct {
	client   redis.UniversalClient
	resolver SetResolver
	ttl      time.Duration
}

// NewRedisCache creates a Redis backed cache in front of resolver. A non-positive ttl selects DefaultCacheTTL.
func NewRedisCache(client redis.UniversalClient, resolver SetResolver, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}

	return &RedisCache{client: client, resolver: resolver, ttl: ttl}
}

func redisKey(userID uint64) string {
	return fmt.Sprintf(redisKeyFormat, userID)
}

func redisGenerationKey(userID uint64) string {
	return fmt.Sprintf(redisGenerationFormat, userID)
}

// Get implements Cache. A Redis read failure falls back to a live resolve; it never grants anything by itself.
func (c *RedisCache) Get(ctx context.Context, userID uint64) (Set, error) {
	raw, err := c.client.Get(ctx, redisKey(userID)).Bytes()

	switch {
	case err == nil:
		var keys []string
		if errJSON := json.Unmarshal(raw, &keys); errJSON == nil {
			cacheLookups.WithLabelValues("redis", "hit").Inc()
			return setFromStrings(keys), nil
		}

		log.Warn().Uint64("user_id", userID).Msg("discarding undecodable permission cache entry")
	case errors.Is(err, redis.Nil):
	default:
		log.Error().Err(err).Uint64("user_id", userID).Msg("permission cache read failed, resolving live")
	}

	cacheLookups.WithLabelValues("redis", "miss").Inc()

	gen, genErr := c.client.Get(ctx, redisGenerationKey(userID)).Uint64()
	if errors.Is(genErr, redis.Nil) {
		genErr = nil
	}

	set, err := c.resolver.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}

	if genErr != nil {
		log.Error().Err(genErr).Uint64("user_id", userID).Msg("permission cache generation unreadable, not caching")
		return set, nil
	}

	payload, err := json.Marshal(set.Strings())
	if err != nil {
		return nil, fmt.Errorf("failed to encode permission set: %w", err)
	}

	switch err = c.store(ctx, userID, gen, payload); {
	case err == nil:
	case errors.Is(err, errStaleResolve), errors.Is(err, redis.TxFailedErr):
		log.Debug().Uint64("user_id", userID).Msg("permission set invalidated while resolving, not caching")
	default:
		log.Error().Err(err).Uint64("user_id", userID).Msg("permission cache write failed")
	}

	return set, nil
}

// store writes payload unless userID was invalidated after gen was read.
func (c *RedisCache) store(ctx context.Context, userID, gen uint64, payload []byte) error {
	genKey := redisGenerationKey(userID)

	return c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, genKey).Uint64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}

		if current != gen {
			return errStaleResolve
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, redisKey(userID), payload, c.ttl)
			return nil
		})

		return err
	}, genKey)
}

// Invalidate implements Cache. Failures are returned: a missed invalidation would keep stale grants alive.
func (c *RedisCache) Invalidate(ctx context.Context, userIDs ...uint64) error {
	if len(userIDs) == 0 {
		return nil
	}

	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, id := range userIDs {
			pipe.Incr(ctx, redisGenerationKey(id))
			pipe.Del(ctx, redisKey(id))
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to invalidate permission cache: %w", err)
	}

	return nil
}

func setFromStrings(keys []string) Set {
	set := make(Set, len(keys))
	for _, raw := range keys {
		set.Add(ParseKey(raw))
	}

	return set
}
