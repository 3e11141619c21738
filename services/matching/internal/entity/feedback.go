package entity

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

type Feedback struct {
	ID            string    `json:"id"`
	TransactionID string    `json:"transaction_id"`
	GiverID       string    `json:"giver_id"`
	ReceiverID    string    `json:"receiver_id"`
	Rating        int       `json:"rating"`
	Comment       string    `json:"comment,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func ValidRating(rating int) bool {
	return rating >= MinRating && rating <= MaxRating
}
