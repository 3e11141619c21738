package entity

const TypeDonationAccepted = "donation_accepted"

// Notification is one entry of a user's in-app inbox. ID is the id of the
// event that produced it, so a redelivered event maps to the same entry.
type Notification struct {
	ID        string                 `json:"id"`
	UserID    string                 `json:"user_id"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Type      string                 `json:"type"`
	Data      map[string]interface{} `json:"data,omitempty"`
	CreatedAt string                 `json:"created_at"`
}
