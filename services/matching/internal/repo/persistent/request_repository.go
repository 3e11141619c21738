package persistent

import (
	"context"
	"time"

	"donorseeker/services/matching/internal/entity"
	"donorseeker/services/matching/internal/model"

	"gorm.io/gorm"
)

type requestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) RequestRepository {
	return &requestRepository{db: db}
}

func (r *requestRepository) Create(ctx context.Context, request *entity.Request) error {
	m := ToRequestModel(request)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translate(err)
	}
	*request = *ToRequestEntity(m)
	return nil
}

func (r *requestRepository) GetByID(ctx context.Context, id string) (*entity.Request, error) {
	var m model.RequestModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return ToRequestEntity(&m), nil
}

func (r *requestRepository) HasPending(ctx context.Context, listingID, seekerID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.RequestModel{}).
		Where("listing_id = ? AND seeker_id = ? AND status = ?", listingID, seekerID, string(entity.RequestStatusPending)).
		Count(&count).Error
	if err != nil {
		return false, translate(err)
	}
	return count > 0, nil
}

func (r *requestRepository) HasAccepted(ctx context.Context, listingID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.RequestModel{}).
		Where("listing_id = ? AND status = ?", listingID, string(entity.RequestStatusAccepted)).
		Count(&count).Error
	if err != nil {
		return false, translate(err)
	}
	return count > 0, nil
}

func (r *requestRepository) TransitionStatus(ctx context.Context, id string, from, to entity.RequestStatus) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.RequestModel{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(map[string]interface{}{
			"status":     string(to),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *requestRepository) RejectPendingExcept(ctx context.Context, listingID, exceptID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.RequestModel{}).
		Where("listing_id = ? AND id <> ? AND status = ?", listingID, exceptID, string(entity.RequestStatusPending)).
		Updates(map[string]interface{}{
			"status":     string(entity.RequestStatusRejected),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return 0, translate(res.Error)
	}
	return res.RowsAffected, nil
}

func (r *requestRepository) DeleteByListing(ctx context.Context, listingID string) error {
	err := r.db.WithContext(ctx).
		Where("listing_id = ?", listingID).
		Delete(&model.RequestModel{}).Error
	return translate(err)
}

func (r *requestRepository) ListPendingByListing(ctx context.Context, listingID string) ([]*entity.Request, error) {
	var ms []model.RequestModel
	err := r.db.WithContext(ctx).
		Where("listing_id = ? AND status = ?", listingID, string(entity.RequestStatusPending)).
		Order("created_at ASC, id ASC").
		Find(&ms).Error
	if err != nil {
		return nil, translate(err)
	}
	return toRequestEntities(ms), nil
}

func (r *requestRepository) ListBySeeker(ctx context.Context, seekerID string) ([]*entity.Request, error) {
	var ms []model.RequestModel
	err := r.db.WithContext(ctx).
		Where("seeker_id = ?", seekerID).
		Order("created_at DESC, id ASC").
		Find(&ms).Error
	if err != nil {
		return nil, translate(err)
	}
	return toRequestEntities(ms), nil
}

func toRequestEntities(ms []model.RequestModel) []*entity.Request {
	requests := make([]*entity.Request, len(ms))
	for i := range ms {
		requests[i] = ToRequestEntity(&ms[i])
	}
	return requests
}
