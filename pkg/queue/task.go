package queue

import "time"

// Contact is the subset of a user profile shared between matched parties.
type Contact struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
}

// DonationAcceptedTask tells the seeker that their request was accepted and
// hands both sides each other's contact details.
type DonationAcceptedTask struct {
	EventID       string    `json:"event_id"`
	TransactionID string    `json:"transaction_id"`
	ListingID     string    `json:"listing_id"`
	ListingTitle  string    `json:"listing_title"`
	Donor         Contact   `json:"donor"`
	Seeker        Contact   `json:"seeker"`
	AcceptedAt    time.Time `json:"accepted_at"`
	Priority      int       `json:"priority"`
}
