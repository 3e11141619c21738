package entity

import (
	"encoding/json"
	"time"
)

const EventDonationAccepted = "donation.accepted"

type OutboxStatus string

const (
	OutboxStatusPending   OutboxStatus = "PENDING"
	OutboxStatusPublished OutboxStatus = "PUBLISHED"
	OutboxStatusFailed    OutboxStatus = "FAILED"
)

// CanTransitionTo keeps PUBLISHED terminal; FAILED events stay eligible for
// another relay attempt.
func (s OutboxStatus) CanTransitionTo(next OutboxStatus) bool {
	switch s {
	case OutboxStatusPending, OutboxStatusFailed:
		return next == OutboxStatusPublished || next == OutboxStatusFailed
	default:
		return false
	}
}

type OutboxEvent struct {
	ID          string          `json:"id"`
	EventType   string          `json:"event_type"`
	AggregateID string          `json:"aggregate_id"`
	Payload     json.RawMessage `json:"payload"`
	Status      OutboxStatus    `json:"status"`
	Attempts    int             `json:"attempts"`
	LastError   string          `json:"last_error,omitempty"`
	PublishedAt *time.Time      `json:"published_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// AcceptedPayload is stored with a donation.accepted event and is everything
// the notifier needs without touching the store again.
type AcceptedPayload struct {
	Transaction   Transaction `json:"transaction"`
	ListingTitle  string      `json:"listing_title"`
	SeekerContact Contact     `json:"seeker_contact"`
	DonorContact  Contact     `json:"donor_contact"`
}
