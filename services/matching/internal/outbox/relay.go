package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"donorseeker/pkg/logger"
	"donorseeker/services/matching/internal/entity"
	"donorseeker/services/matching/internal/metrics"
	"donorseeker/services/matching/internal/notifier"
	"donorseeker/services/matching/internal/repo/persistent"

	"github.com/cenkalti/backoff/v4"
)

type Config struct {
	Interval    time.Duration
	BatchSize   int
	MaxAttempts int
	// MinAge keeps the relay away from events the request path is still
	// dispatching right after commit.
	MinAge      time.Duration
	BaseBackoff time.Duration
	MaxBackoff  time.Duration
}

func (c Config) withDefaults() Config {
	if c.Interval <= 0 {
		c.Interval = 5 * time.Second
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 50
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 10
	}
	if c.MinAge <= 0 {
		c.MinAge = 2 * time.Second
	}
	if c.BaseBackoff <= 0 {
		c.BaseBackoff = time.Second
	}
	if c.MaxBackoff <= 0 {
		c.MaxBackoff = 5 * time.Minute
	}
	return c
}

// Relay delivers outbox events to the notifier, at least once.
type Relay struct {
	repo     persistent.OutboxRepository
	notifier notifier.Notifier
	cfg      Config
	metrics  *metrics.Metrics
	logger   *logger.Logger
	now      func() time.Time
}

func NewRelay(repo persistent.OutboxRepository, n notifier.Notifier, cfg Config, m *metrics.Metrics, log *logger.Logger) *Relay {
	return &Relay{
		repo:     repo,
		notifier: n,
		cfg:      cfg.withDefaults(),
		metrics:  m,
		logger:   log,
		now:      time.Now,
	}
}

// Dispatch tries one event right away. Failures are recorded on the event
// and left for Run to retry.
func (r *Relay) Dispatch(ctx context.Context, event *entity.OutboxEvent) {
	if err := r.deliver(ctx, event); err != nil {
		r.logger.Warn("[OUTBOX] Immediate dispatch of event %s failed, will retry: %v", event.ID, err)
	}
}

// Run polls until ctx is cancelled.
func (r *Relay) Run(ctx context.Context) error {
	r.logger.Info("[OUTBOX] Relay started, interval=%s batch=%d", r.cfg.Interval, r.cfg.BatchSize)

	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("[OUTBOX] Relay stopped")
			return nil
		case <-ticker.C:
			if _, err := r.RelayOnce(ctx); err != nil {
				r.logger.Error("[OUTBOX] Relay pass failed: %v", err)
			}
		}
	}
}

// RelayOnce delivers one batch and returns how many events were published.
func (r *Relay) RelayOnce(ctx context.Context) (int, error) {
	now := r.now()
	events, err := r.repo.ListDispatchable(ctx, now.Add(-r.cfg.MinAge), r.cfg.MaxAttempts, r.cfg.BatchSize)
	if err != nil {
		return 0, fmt.Errorf("list dispatchable events: %w", err)
	}

	published := 0
	for _, event := range events {
		if ctx.Err() != nil {
			break
		}
		if event.Status == entity.OutboxStatusFailed && now.Before(event.UpdatedAt.Add(r.backoff(event.Attempts))) {
			continue
		}
		if err := r.deliver(ctx, event); err != nil {
			r.logger.Warn("[OUTBOX] Event %s attempt %d failed: %v", event.ID, event.Attempts+1, err)
			continue
		}
		published++
	}
	return published, nil
}

// backoff is the delay owed after the given number of failed attempts:
// base * 2^(attempts-1), capped, without jitter. The attempt count is the
// persisted one, so the schedule is replayed from a fresh ExponentialBackOff.
func (r *Relay) backoff(attempts int) time.Duration {
	if attempts <= 0 {
		return 0
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.cfg.BaseBackoff
	b.MaxInterval = r.cfg.MaxBackoff
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0
	b.Reset()

	var d time.Duration
	for i := 0; i < attempts; i++ {
		d = b.NextBackOff()
	}
	return d
}

func (r *Relay) deliver(ctx context.Context, event *entity.OutboxEvent) error {
	if err := r.send(ctx, event); err != nil {
		r.metrics.IncOutboxDispatch("failed")
		if markErr := r.repo.MarkFailed(ctx, event.ID, err.Error()); markErr != nil {
			r.logger.Error("[OUTBOX] Failed to record failure for event %s: %v", event.ID, markErr)
		}
		return err
	}

	if _, err := r.repo.MarkPublished(ctx, event.ID, r.now()); err != nil {
		// Delivered but not marked: the event will be sent again.
		r.logger.Error("[OUTBOX] Failed to mark event %s published: %v", event.ID, err)
		return nil
	}
	r.metrics.IncOutboxDispatch("published")
	return nil
}

func (r *Relay) send(ctx context.Context, event *entity.OutboxEvent) error {
	switch event.EventType {
	case entity.EventDonationAccepted:
		var payload entity.AcceptedPayload
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			return fmt.Errorf("decode %s payload: %w", event.EventType, err)
		}
		return r.notifier.NotifyAccepted(ctx, notifier.AcceptedNotification{
			EventID:       event.ID,
			Transaction:   payload.Transaction,
			ListingTitle:  payload.ListingTitle,
			SeekerContact: payload.SeekerContact,
			DonorContact:  payload.DonorContact,
		})
	default:
		return fmt.Errorf("unknown event type %q", event.EventType)
	}
}
