// Package cache puts a Redis read-through cache in front of a candidate
// repository.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"caregiver-matcher/internal/common/logger"
	"caregiver-matcher/internal/common/metrics"
	"caregiver-matcher/internal/matching"
	"caregiver-matcher/internal/models"

	"github.com/redis/go-redis/v9"
)

const KeyPrefix = "matching:candidates:"

// Key is the cache key for req. Candidate lookups depend only on the client's
// coordinates, rounded here to roughly 10 metres.
func Key(req models.ClientRequirements) string {
	c := req.Location.Coordinates
	return fmt.Sprintf("%s%.4f:%.4f", KeyPrefix, c.Latitude, c.Longitude)
}

// Repository serves candidates from Redis and falls back to next on a miss.
// Redis failures are logged and never fail the lookup.
type Repository struct {
	next   matching.CandidateRepository
	redis  redis.Cmdable
	ttl    time.Duration
	logger logger.Logger
}

func NewRepository(next matching.CandidateRepository, rdb redis.Cmdable, ttl time.Duration, log logger.Logger) *Repository {
	return &Repository{
		next:   next,
		redis:  rdb,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"repository": "cache"}),
	}
}

func (r *Repository) GetCandidates(ctx context.Context, req models.ClientRequirements) ([]models.CaregiverProfile, error) {
	key := Key(req)

	if cached, ok := r.lookup(ctx, key); ok {
		return cached, nil
	}

	candidates, err := r.next.GetCandidates(ctx, req)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(candidates)
	if err != nil {
		r.logger.Warn("Failed to encode candidates for cache", map[string]interface{}{"error": err.Error()})
		return candidates, nil
	}
	if err := r.redis.Set(ctx, key, data, r.ttl).Err(); err != nil {
		metrics.CandidateCache.WithLabelValues("error").Inc()
		r.logger.Warn("Failed to write candidate cache", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
	return candidates, nil
}

func (r *Repository) lookup(ctx context.Context, key string) ([]models.CaregiverProfile, bool) {
	val, err := r.redis.Get(ctx, key).Result()
	switch {
	case errors.Is(err, redis.Nil):
		metrics.CandidateCache.WithLabelValues("miss").Inc()
		return nil, false
	case err != nil:
		metrics.CandidateCache.WithLabelValues("error").Inc()
		r.logger.Warn("Candidate cache unavailable", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return nil, false
	}

	var candidates []models.CaregiverProfile
	if err := json.Unmarshal([]byte(val), &candidates); err != nil {
		metrics.CandidateCache.WithLabelValues("error").Inc()
		r.logger.Warn("Discarding unreadable cache entry", map[string]interface{}{"key": key})
		return nil, false
	}

	metrics.CandidateCache.WithLabelValues("hit").Inc()
	return candidates, true
}
