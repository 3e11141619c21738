package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"donorseeker/services/matching/internal/entity"
	"donorseeker/services/matching/internal/metrics"
	"donorseeker/services/matching/internal/repo/persistent"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("donorseeker/matching")

// EventDispatcher gets an outbox event right after its unit of work commits.
type EventDispatcher interface {
	Dispatch(ctx context.Context, event *entity.OutboxEvent)
}

var domainErrors = []struct {
	err   error
	label string
}{
	{entity.ErrNotFound, "not_found"},
	{entity.ErrForbidden, "forbidden"},
	{entity.ErrInvalidTransition, "invalid_transition"},
	{entity.ErrDuplicatePending, "duplicate_pending"},
	{entity.ErrDuplicateFeedback, "duplicate_feedback"},
	{entity.ErrNotRequestable, "not_requestable"},
	{entity.ErrNotReceived, "not_received"},
	{entity.ErrInvalidRating, "invalid_rating"},
	{entity.ErrInvalidInput, "invalid_input"},
	{entity.ErrUnavailable, "unavailable"},
}

func resultLabel(err error) string {
	if err == nil {
		return "ok"
	}
	for _, d := range domainErrors {
		if errors.Is(err, d.err) {
			return d.label
		}
	}
	return "error"
}

// storeErr passes domain errors through, turns a missing row into
// ErrNotFound and anything else into ErrUnavailable.
func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	for _, d := range domainErrors {
		if errors.Is(err, d.err) {
			return err
		}
	}
	if errors.Is(err, persistent.ErrNotFound) {
		return fmt.Errorf("%s: %w", op, entity.ErrNotFound)
	}
	return fmt.Errorf("%w: %s: %w", entity.ErrUnavailable, op, err)
}

// startOp opens a span and returns the func that closes it and records the
// outcome metric. Use as: defer done(&err).
func startOp(ctx context.Context, m *metrics.Metrics, op string, attrs ...attribute.KeyValue) (context.Context, func(*error)) {
	ctx, span := tracer.Start(ctx, "matching."+op, trace.WithAttributes(attrs...))
	start := time.Now()

	return ctx, func(errp *error) {
		var err error
		if errp != nil {
			err = *errp
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, resultLabel(err))
		}
		span.End()
		m.ObserveOperation(op, resultLabel(err), time.Since(start))
	}
}
