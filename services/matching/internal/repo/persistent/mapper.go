package persistent

import (
	"encoding/json"

	"donorseeker/pkg/models"
	"donorseeker/services/matching/internal/entity"
	"donorseeker/services/matching/internal/model"
)

func ToListingEntity(m *model.ListingModel) *entity.Listing {
	if m == nil {
		return nil
	}

	return &entity.Listing{
		ID:          m.ID,
		OwnerID:     m.OwnerID,
		Kind:        entity.ListingKind(m.Kind),
		Title:       m.Title,
		Description: m.Description,
		Category:    m.Category,
		Condition:   m.Condition,
		Urgency:     m.Urgency,
		Approved:    m.Approved,
		Status:      entity.ListingStatus(m.Status),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func ToListingModel(e *entity.Listing) *model.ListingModel {
	if e == nil {
		return nil
	}

	return &model.ListingModel{
		ID:          e.ID,
		OwnerID:     e.OwnerID,
		Kind:        string(e.Kind),
		Title:       e.Title,
		Description: e.Description,
		Category:    e.Category,
		Condition:   e.Condition,
		Urgency:     e.Urgency,
		Approved:    e.Approved,
		Status:      string(e.Status),
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func ToRequestEntity(m *model.RequestModel) *entity.Request {
	if m == nil {
		return nil
	}

	return &entity.Request{
		ID:        m.ID,
		ListingID: m.ListingID,
		SeekerID:  m.SeekerID,
		Message:   m.Message,
		Status:    entity.RequestStatus(m.Status),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func ToRequestModel(e *entity.Request) *model.RequestModel {
	if e == nil {
		return nil
	}

	return &model.RequestModel{
		ID:        e.ID,
		ListingID: e.ListingID,
		SeekerID:  e.SeekerID,
		Message:   e.Message,
		Status:    string(e.Status),
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func ToTransactionEntity(m *model.TransactionModel) *entity.Transaction {
	if m == nil {
		return nil
	}

	return &entity.Transaction{
		ID:          m.ID,
		ListingID:   m.ListingID,
		RequestID:   m.RequestID,
		DonorID:     m.DonorID,
		ReceiverID:  m.ReceiverID,
		IsReceived:  m.IsReceived,
		CompletedAt: m.CompletedAt,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func ToTransactionModel(e *entity.Transaction) *model.TransactionModel {
	if e == nil {
		return nil
	}

	return &model.TransactionModel{
		ID:          e.ID,
		ListingID:   e.ListingID,
		RequestID:   e.RequestID,
		DonorID:     e.DonorID,
		ReceiverID:  e.ReceiverID,
		IsReceived:  e.IsReceived,
		CompletedAt: e.CompletedAt,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func ToFeedbackEntity(m *model.FeedbackModel) *entity.Feedback {
	if m == nil {
		return nil
	}

	return &entity.Feedback{
		ID:            m.ID,
		TransactionID: m.TransactionID,
		GiverID:       m.GiverID,
		ReceiverID:    m.ReceiverID,
		Rating:        m.Rating,
		Comment:       m.Comment,
		CreatedAt:     m.CreatedAt,
	}
}

func ToFeedbackModel(e *entity.Feedback) *model.FeedbackModel {
	if e == nil {
		return nil
	}

	return &model.FeedbackModel{
		ID:            e.ID,
		TransactionID: e.TransactionID,
		GiverID:       e.GiverID,
		ReceiverID:    e.ReceiverID,
		Rating:        e.Rating,
		Comment:       e.Comment,
		CreatedAt:     e.CreatedAt,
	}
}

func ToOutboxEventEntity(m *model.OutboxEventModel) *entity.OutboxEvent {
	if m == nil {
		return nil
	}

	return &entity.OutboxEvent{
		ID:          m.ID,
		EventType:   m.EventType,
		AggregateID: m.AggregateID,
		Payload:     json.RawMessage(m.Payload),
		Status:      entity.OutboxStatus(m.Status),
		Attempts:    m.Attempts,
		LastError:   m.LastError,
		PublishedAt: m.PublishedAt,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func ToOutboxEventModel(e *entity.OutboxEvent) *model.OutboxEventModel {
	if e == nil {
		return nil
	}

	return &model.OutboxEventModel{
		ID:          e.ID,
		EventType:   e.EventType,
		AggregateID: e.AggregateID,
		Payload:     string(e.Payload),
		Status:      string(e.Status),
		Attempts:    e.Attempts,
		LastError:   e.LastError,
		PublishedAt: e.PublishedAt,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func ToContact(u *models.User) *entity.Contact {
	if u == nil {
		return nil
	}

	return &entity.Contact{
		UserID:   u.ID,
		Username: u.Username,
		Email:    u.Email,
		Phone:    u.Phone,
	}
}

func ToReputation(u *models.User) *entity.Reputation {
	if u == nil {
		return nil
	}

	r := &entity.Reputation{
		UserID:        u.ID,
		DonationCount: u.DonationCount,
		TotalRating:   u.TotalRating,
		RatingCount:   u.RatingCount,
	}
	r.AverageRating = r.Average()
	return r
}
