package entity

import "time"

type Transaction struct {
	ID          string     `json:"id"`
	ListingID   string     `json:"listing_id"`
	RequestID   string     `json:"request_id"`
	DonorID     string     `json:"donor_id"`
	ReceiverID  string     `json:"receiver_id"`
	IsReceived  bool       `json:"is_received"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (t *Transaction) IsParticipant(userID string) bool {
	return userID != "" && (t.DonorID == userID || t.ReceiverID == userID)
}
