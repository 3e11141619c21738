package persistent

import (
	"context"
	"time"

	"donorseeker/services/matching/internal/entity"
	"donorseeker/services/matching/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type listingRepository struct {
	db *gorm.DB
}

func NewListingRepository(db *gorm.DB) ListingRepository {
	return &listingRepository{db: db}
}

func (r *listingRepository) Create(ctx context.Context, listing *entity.Listing) error {
	m := ToListingModel(listing)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translate(err)
	}
	*listing = *ToListingEntity(m)
	return nil
}

func (r *listingRepository) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	var m model.ListingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return ToListingEntity(&m), nil
}

func (r *listingRepository) GetForShare(ctx context.Context, id string) (*entity.Listing, error) {
	var m model.ListingModel
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "SHARE"}).
		Where("id = ?", id).
		First(&m).Error
	if err != nil {
		return nil, translate(err)
	}
	return ToListingEntity(&m), nil
}

func (r *listingRepository) TransitionStatus(ctx context.Context, id string, from, to entity.ListingStatus) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.ListingModel{}).
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

func (r *listingRepository) SetApproval(ctx context.Context, id string, from entity.ListingStatus, approved bool) (bool, error) {
	to := entity.ListingStatusRejected
	if approved {
		to = entity.ListingStatusApproved
	}

	res := r.db.WithContext(ctx).
		Model(&model.ListingModel{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(map[string]interface{}{
			"status":     string(to),
			"approved":   approved,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *listingRepository) DeleteIfStatus(ctx context.Context, id string, statuses ...entity.ListingStatus) (bool, error) {
	raw := make([]string, len(statuses))
	for i, s := range statuses {
		raw[i] = string(s)
	}

	res := r.db.WithContext(ctx).
		Where("id = ? AND status IN ?", id, raw).
		Delete(&model.ListingModel{})
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *listingRepository) ListByStatus(ctx context.Context, status entity.ListingStatus, limit, offset int) ([]*entity.Listing, error) {
	var ms []model.ListingModel
	query := r.db.WithContext(ctx).
		Where("status = ?", string(status)).
		Order("created_at ASC, id ASC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	if err := query.Find(&ms).Error; err != nil {
		return nil, translate(err)
	}
	return toListingEntities(ms), nil
}

func (r *listingRepository) ListByOwner(ctx context.Context, ownerID string) ([]*entity.Listing, error) {
	var ms []model.ListingModel
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC, id ASC").
		Find(&ms).Error
	if err != nil {
		return nil, translate(err)
	}
	return toListingEntities(ms), nil
}

func toListingEntities(ms []model.ListingModel) []*entity.Listing {
	listings := make([]*entity.Listing, len(ms))
	for i := range ms {
		listings[i] = ToListingEntity(&ms[i])
	}
	return listings
}
