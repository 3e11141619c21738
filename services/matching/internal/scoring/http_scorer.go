package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"donorseeker/pkg/logger"

	"github.com/sony/gobreaker"
)

type scoreRequest struct {
	Items []ScoreInput `json:"items"`
}

type scoreResponse struct {
	Scores []ScoreResult `json:"scores"`
}

// HTTPScorer calls the external classifier. Consecutive failures open the
// breaker so a dead classifier costs nothing on the request path.
type HTTPScorer struct {
	url     string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	logger  *logger.Logger
}

func NewHTTPScorer(url string, timeout time.Duration, log *logger.Logger) *HTTPScorer {
	settings := gobreaker.Settings{
		Name:        "neediness-scorer",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warn("[SCORING] Circuit breaker %s: %s -> %s", name, from, to)
		},
	}

	return &HTTPScorer{
		url:     url,
		client:  &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker(settings),
		logger:  log,
	}
}

func (s *HTTPScorer) Score(ctx context.Context, inputs []ScoreInput) ([]ScoreResult, error) {
	if len(inputs) == 0 {
		return nil, nil
	}

	out, err := s.breaker.Execute(func() (interface{}, error) {
		return s.call(ctx, inputs)
	})
	if err != nil {
		return nil, fmt.Errorf("neediness scorer: %w", err)
	}
	return out.([]ScoreResult), nil
}

func (s *HTTPScorer) call(ctx context.Context, inputs []ScoreInput) ([]ScoreResult, error) {
	body, err := json.Marshal(scoreRequest{Items: inputs})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal score request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build score request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("score request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("scorer returned status %d", resp.StatusCode)
	}

	var decoded scoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode score response: %w", err)
	}
	return decoded.Scores, nil
}
