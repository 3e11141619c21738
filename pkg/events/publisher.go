package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"donorseeker/pkg/logger"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
)

const (
	SubjectDonationAccepted  = "donation.accepted"
	SubjectDonationReceived  = "donation.received"
	SubjectFeedbackSubmitted = "feedback.submitted"
)

var tracer = otel.Tracer("donorseeker/events")

// Publisher emits domain events. Delivery is best effort.
type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
	Close()
}

type NATSPublisher struct {
	conn   *nats.Conn
	logger *logger.Logger
}

func NewNATSPublisher(url, appName string, log *logger.Logger) (*NATSPublisher, error) {
	opts := []nats.Option{
		nats.Name(fmt.Sprintf("%s NATS Publisher", appName)),
		nats.Timeout(5 * time.Second),
		nats.MaxReconnects(5),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Warn("[NATS] Disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("[NATS] Reconnected to %s", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			log.Info("[NATS] Connection closed")
		}),
	}

	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", url, err)
	}
	log.Info("[NATS] Connected to %s", conn.ConnectedUrl())

	return &NATSPublisher{conn: conn, logger: log}, nil
}

func (p *NATSPublisher) Publish(ctx context.Context, subject string, data interface{}) error {
	ctx, span := tracer.Start(ctx, "NATS.Publish."+subject)
	defer span.End()

	body, err := json.Marshal(data)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to marshal data for subject %s: %w", subject, err)
	}

	msg := nats.NewMsg(subject)
	msg.Data = body
	msg.Header = make(nats.Header)
	otel.GetTextMapPropagator().Inject(ctx, headerCarrier(msg.Header))

	if err := p.conn.PublishMsg(msg); err != nil {
		span.RecordError(err)
		p.logger.Error("[NATS] Failed to publish subject=%s: %v", subject, err)
		return fmt.Errorf("failed to publish message to subject %s: %w", subject, err)
	}

	p.logger.Debug("[NATS] Published subject=%s size=%d", subject, len(body))
	return nil
}

func (p *NATSPublisher) Close() {
	if p.conn == nil || p.conn.IsClosed() {
		return
	}
	if err := p.conn.Drain(); err != nil {
		p.logger.Error("[NATS] Failed to drain connection: %v", err)
	}
	p.conn.Close()
}

type headerCarrier nats.Header

func (c headerCarrier) Get(key string) string { return nats.Header(c).Get(key) }

func (c headerCarrier) Set(key, value string) { nats.Header(c).Set(key, value) }

func (c headerCarrier) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	return keys
}

// NoopPublisher is used when no NATS_URL is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, interface{}) error { return nil }

func (NoopPublisher) Close() {}
