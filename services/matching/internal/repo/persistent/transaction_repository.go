package persistent

import (
	"context"
	"time"

	"donorseeker/services/matching/internal/entity"
	"donorseeker/services/matching/internal/model"

	"gorm.io/gorm"
)

type transactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, tx *entity.Transaction) error {
	m := ToTransactionModel(tx)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translate(err)
	}
	*tx = *ToTransactionEntity(m)
	return nil
}

func (r *transactionRepository) GetByID(ctx context.Context, id string) (*entity.Transaction, error) {
	var m model.TransactionModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return ToTransactionEntity(&m), nil
}

func (r *transactionRepository) ExistsForListing(ctx context.Context, listingID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.TransactionModel{}).
		Where("listing_id = ?", listingID).
		Count(&count).Error
	if err != nil {
		return false, translate(err)
	}
	return count > 0, nil
}

func (r *transactionRepository) MarkReceived(ctx context.Context, id string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.TransactionModel{}).
		Where("id = ? AND is_received = ?", id, false).
		Updates(map[string]interface{}{
			"is_received":  true,
			"completed_at": at,
			"updated_at":   at,
		})
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *transactionRepository) ListByParticipant(ctx context.Context, userID string) ([]*entity.Transaction, error) {
	var ms []model.TransactionModel
	err := r.db.WithContext(ctx).
		Where("donor_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at DESC, id ASC").
		Find(&ms).Error
	if err != nil {
		return nil, translate(err)
	}

	txs := make([]*entity.Transaction, len(ms))
	for i := range ms {
		txs[i] = ToTransactionEntity(&ms[i])
	}
	return txs, nil
}
