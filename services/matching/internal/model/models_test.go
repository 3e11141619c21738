package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBeforeCreate_AssignsID(t *testing.T) {
	listing := &ListingModel{Title: "Sofa"}
	assert.NoError(t, listing.BeforeCreate(nil))
	assert.NotEmpty(t, listing.ID)

	request := &RequestModel{}
	assert.NoError(t, request.BeforeCreate(nil))
	assert.NotEmpty(t, request.ID)

	tx := &TransactionModel{}
	assert.NoError(t, tx.BeforeCreate(nil))
	assert.NotEmpty(t, tx.ID)

	fb := &FeedbackModel{}
	assert.NoError(t, fb.BeforeCreate(nil))
	assert.NotEmpty(t, fb.ID)

	evt := &OutboxEventModel{}
	assert.NoError(t, evt.BeforeCreate(nil))
	assert.NotEmpty(t, evt.ID)
}

func TestBeforeCreate_KeepsExistingID(t *testing.T) {
	listing := &ListingModel{ID: "existing-id-123"}
	assert.NoError(t, listing.BeforeCreate(nil))
	assert.Equal(t, "existing-id-123", listing.ID)
}

func TestTableNames(t *testing.T) {
	assert.Equal(t, "listings", ListingModel{}.TableName())
	assert.Equal(t, "requests", RequestModel{}.TableName())
	assert.Equal(t, "transactions", TransactionModel{}.TableName())
	assert.Equal(t, "feedback", FeedbackModel{}.TableName())
	assert.Equal(t, "outbox_events", OutboxEventModel{}.TableName())
}
