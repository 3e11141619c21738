package queue

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClampPriority(t *testing.T) {
	assert.Equal(t, uint8(0), ClampPriority(-3))
	assert.Equal(t, uint8(7), ClampPriority(7))
	assert.Equal(t, uint8(10), ClampPriority(42))
}

func TestDonationAcceptedTask_JSON(t *testing.T) {
	task := DonationAcceptedTask{
		EventID:       "evt-1",
		TransactionID: "tx-1",
		ListingID:     "listing-1",
		ListingTitle:  "Winter coat",
		Donor:         Contact{UserID: "donor", Username: "dana", Email: "dana@example.com"},
		Seeker:        Contact{UserID: "seeker", Username: "sam", Email: "sam@example.com", Phone: "+100"},
		AcceptedAt:    time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	body, err := json.Marshal(task)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"transaction_id":"tx-1"`)
	assert.Contains(t, string(body), `"phone":"+100"`)
	assert.NotContains(t, string(body), `"phone":""`)
}
