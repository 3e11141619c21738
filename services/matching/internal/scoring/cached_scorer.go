package scoring

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"donorseeker/pkg/logger"

	"github.com/redis/go-redis/v9"
)

const scoreKeyPrefix = "neediness:score:"

// CachedScorer keeps scores in Redis by request id; a request's message never
// changes, so neither does its score.
type CachedScorer struct {
	inner  Scorer
	redis  *redis.Client
	ttl    time.Duration
	logger *logger.Logger
}

func NewCachedScorer(inner Scorer, client *redis.Client, ttl time.Duration, log *logger.Logger) *CachedScorer {
	return &CachedScorer{inner: inner, redis: client, ttl: ttl, logger: log}
}

func scoreKey(requestID string) string {
	return scoreKeyPrefix + requestID
}

func (s *CachedScorer) Score(ctx context.Context, inputs []ScoreInput) ([]ScoreResult, error) {
	if len(inputs) == 0 {
		return nil, nil
	}

	keys := make([]string, len(inputs))
	for i, in := range inputs {
		keys[i] = scoreKey(in.RequestID)
	}

	cached, err := s.redis.MGet(ctx, keys...).Result()
	if err != nil {
		s.logger.Warn("[SCORING] Cache read failed, scoring all %d requests: %v", len(inputs), err)
		cached = make([]interface{}, len(inputs))
	}

	results := make([]ScoreResult, 0, len(inputs))
	var misses []ScoreInput
	for i, in := range inputs {
		if raw, ok := cached[i].(string); ok {
			if score, perr := strconv.ParseFloat(raw, 64); perr == nil {
				results = append(results, ScoreResult{RequestID: in.RequestID, Score: score})
				continue
			}
		}
		misses = append(misses, in)
	}

	if len(misses) == 0 {
		return results, nil
	}

	fresh, err := s.inner.Score(ctx, misses)
	if err != nil {
		return results, fmt.Errorf("score %d uncached requests: %w", len(misses), err)
	}

	pipe := s.redis.Pipeline()
	for _, r := range fresh {
		pipe.Set(ctx, scoreKey(r.RequestID), strconv.FormatFloat(r.Score, 'f', -1, 64), s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		s.logger.Warn("[SCORING] Cache write failed: %v", err)
	}

	return append(results, fresh...), nil
}
