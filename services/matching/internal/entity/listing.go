package entity

import (
	"fmt"
	"strings"
	"time"
)

type ListingKind string

const (
	ListingKindDonation    ListingKind = "DONATION"
	ListingKindRequirement ListingKind = "REQUIREMENT"
)

func (k ListingKind) IsValid() bool {
	return k == ListingKindDonation || k == ListingKindRequirement
}

type ListingStatus string

const (
	ListingStatusPending   ListingStatus = "PENDING"
	ListingStatusApproved  ListingStatus = "APPROVED"
	ListingStatusRejected  ListingStatus = "REJECTED"
	ListingStatusDonated   ListingStatus = "DONATED"
	ListingStatusCompleted ListingStatus = "COMPLETED"
)

// CanTransitionTo is the single source of truth for listing moves.
// Moderation may flip PENDING, APPROVED and REJECTED among each other; only
// matching moves APPROVED to DONATED and only receipt moves DONATED to
// COMPLETED.
func (s ListingStatus) CanTransitionTo(next ListingStatus) bool {
	switch s {
	case ListingStatusPending:
		return next == ListingStatusApproved || next == ListingStatusRejected
	case ListingStatusApproved:
		return next == ListingStatusRejected || next == ListingStatusDonated
	case ListingStatusRejected:
		return next == ListingStatusApproved
	case ListingStatusDonated:
		return next == ListingStatusCompleted
	default:
		return false
	}
}

// IsModeratable reports whether moderation may still change the listing.
func (s ListingStatus) IsModeratable() bool {
	return s == ListingStatusPending || s == ListingStatusApproved || s == ListingStatusRejected
}

type Listing struct {
	ID          string        `json:"id"`
	OwnerID     string        `json:"owner_id"`
	Kind        ListingKind   `json:"kind"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Category    string        `json:"category"`
	Condition   string        `json:"condition,omitempty"`
	Urgency     string        `json:"urgency,omitempty"`
	Approved    bool          `json:"approved"`
	Status      ListingStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// ListingAttrs are the owner-supplied fields of a new listing.
type ListingAttrs struct {
	Kind        ListingKind
	Title       string
	Description string
	Category    string
	Condition   string
	Urgency     string
}

func (a ListingAttrs) Validate() error {
	if !a.Kind.IsValid() {
		return fmt.Errorf("%w: unknown listing kind %q", ErrInvalidInput, a.Kind)
	}
	if strings.TrimSpace(a.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if len(a.Title) > 200 {
		return fmt.Errorf("%w: title is too long", ErrInvalidInput)
	}
	if strings.TrimSpace(a.Category) == "" {
		return fmt.Errorf("%w: category is required", ErrInvalidInput)
	}
	return nil
}

// IsRequestable is the status half of the requestable check; the caller
// also has to know that no request on the listing was accepted.
func (l *Listing) IsRequestable(hasAccepted bool) bool {
	return l.Status == ListingStatusApproved && !hasAccepted
}
