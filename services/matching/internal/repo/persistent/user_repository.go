package persistent

import (
	"context"

	"donorseeker/pkg/models"
	"donorseeker/services/matching/internal/entity"

	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetContact(ctx context.Context, id string) (*entity.Contact, error) {
	var u models.User
	err := r.db.WithContext(ctx).
		Select("id", "username", "email", "phone").
		Where("id = ?", id).
		First(&u).Error
	if err != nil {
		return nil, translate(err)
	}
	return ToContact(&u), nil
}

func (r *userRepository) GetReputation(ctx context.Context, id string) (*entity.Reputation, error) {
	var u models.User
	err := r.db.WithContext(ctx).
		Select("id", "donation_count", "total_rating", "rating_count").
		Where("id = ?", id).
		First(&u).Error
	if err != nil {
		return nil, translate(err)
	}
	return ToReputation(&u), nil
}

// Counters are bumped with relative SQL so concurrent units of work on the
// same donor never lose an update.
func (r *userRepository) IncrementDonationCount(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("donation_count", gorm.Expr("donation_count + ?", 1))
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepository) AddRating(ctx context.Context, id string, rating int) error {
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"total_rating": gorm.Expr("total_rating + ?", rating),
			"rating_count": gorm.Expr("rating_count + ?", 1),
		})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
