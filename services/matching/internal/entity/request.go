package entity

import "time"

type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "PENDING"
	RequestStatusAccepted RequestStatus = "ACCEPTED"
	RequestStatusRejected RequestStatus = "REJECTED"
)

// CanTransitionTo allows only PENDING to leave; ACCEPTED and REJECTED are
// terminal.
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	return s == RequestStatusPending && (next == RequestStatusAccepted || next == RequestStatusRejected)
}

type Request struct {
	ID        string        `json:"id"`
	ListingID string        `json:"listing_id"`
	SeekerID  string        `json:"seeker_id"`
	Message   string        `json:"message"`
	Status    RequestStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`

	// NeedinessScore is advisory and only set on listings shown to the owner.
	NeedinessScore *float64 `json:"neediness_score,omitempty"`
}
