package entity

// Contact is what matched parties learn about each other.
type Contact struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
}

type Reputation struct {
	UserID        string  `json:"user_id"`
	DonationCount int     `json:"donation_count"`
	TotalRating   int     `json:"total_rating"`
	RatingCount   int     `json:"rating_count"`
	AverageRating float64 `json:"average_rating"`
}

// Average is zero until the first rating arrives.
func (r *Reputation) Average() float64 {
	if r.RatingCount == 0 {
		return 0
	}
	return float64(r.TotalRating) / float64(r.RatingCount)
}
