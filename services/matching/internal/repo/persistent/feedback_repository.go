package persistent

import (
	"context"

	"donorseeker/services/matching/internal/entity"
	"donorseeker/services/matching/internal/model"

	"gorm.io/gorm"
)

type feedbackRepository struct {
	db *gorm.DB
}

func NewFeedbackRepository(db *gorm.DB) FeedbackRepository {
	return &feedbackRepository{db: db}
}

func (r *feedbackRepository) Create(ctx context.Context, feedback *entity.Feedback) error {
	m := ToFeedbackModel(feedback)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translate(err)
	}
	*feedback = *ToFeedbackEntity(m)
	return nil
}

func (r *feedbackRepository) GetByTransaction(ctx context.Context, transactionID string) (*entity.Feedback, error) {
	var m model.FeedbackModel
	if err := r.db.WithContext(ctx).Where("transaction_id = ?", transactionID).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return ToFeedbackEntity(&m), nil
}
