package scoring

import (
	"context"
	"errors"
	"fmt"
	"time"

	"donorseeker/pkg/logger"
	"donorseeker/services/matching/internal/entity"
	"donorseeker/services/matching/internal/metrics"
)

// Annotator attaches neediness scores to pending requests for display. It
// never reorders requests and never fails: anything the scorer does not
// answer in time gets NeutralScore.
type Annotator struct {
	scorer  Scorer
	timeout time.Duration
	metrics *metrics.Metrics
	logger  *logger.Logger
}

func NewAnnotator(scorer Scorer, timeout time.Duration, m *metrics.Metrics, log *logger.Logger) *Annotator {
	if scorer == nil {
		scorer = NeutralScorer{}
	}
	return &Annotator{scorer: scorer, timeout: timeout, metrics: m, logger: log}
}

func (a *Annotator) Annotate(ctx context.Context, requests []*entity.Request) {
	if len(requests) == 0 {
		return
	}

	inputs := make([]ScoreInput, len(requests))
	for i, r := range requests {
		inputs[i] = ScoreInput{RequestID: r.ID, Message: r.Message}
	}

	results := a.score(ctx, inputs)

	byID := make(map[string]float64, len(results))
	for _, r := range results {
		if r.Score < 0 || r.Score > 1 {
			continue
		}
		byID[r.RequestID] = r.Score
	}

	partial := false
	for _, r := range requests {
		score, ok := byID[r.ID]
		if !ok {
			score = NeutralScore
			partial = true
		}
		r.NeedinessScore = &score
	}
	if partial && len(results) > 0 {
		a.metrics.IncScoreFallback("partial")
	}
}

type scoreOutcome struct {
	results []ScoreResult
	err     error
}

// score runs the scorer in its own goroutine so a scorer that ignores ctx
// still cannot hold up the caller past the timeout.
func (a *Annotator) score(ctx context.Context, inputs []ScoreInput) []ScoreResult {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	done := make(chan scoreOutcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- scoreOutcome{err: fmt.Errorf("scorer panicked: %v", r)}
			}
		}()
		results, err := a.scorer.Score(ctx, inputs)
		done <- scoreOutcome{results: results, err: err}
	}()

	var out scoreOutcome
	select {
	case out = <-done:
	case <-ctx.Done():
		out = scoreOutcome{err: ctx.Err()}
	}

	if out.err != nil {
		reason := "error"
		if isTimeout(out.err) {
			reason = "timeout"
		}
		a.logger.Warn("[SCORING] Falling back to neutral scores (%s): %v", reason, out.err)
		a.metrics.IncScoreFallback(reason)
	}
	// Partial results are still used; missing ids go neutral.
	return out.results
}

// isTimeout covers both the annotator's own deadline and an HTTP client
// timeout reported by the scorer.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
