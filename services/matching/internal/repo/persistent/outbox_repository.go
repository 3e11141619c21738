package persistent

import (
	"context"
	"time"

	"donorseeker/services/matching/internal/entity"
	"donorseeker/services/matching/internal/model"

	"gorm.io/gorm"
)

const maxLastErrorLen = 1024

type outboxRepository struct {
	db *gorm.DB
}

func NewOutboxRepository(db *gorm.DB) OutboxRepository {
	return &outboxRepository{db: db}
}

func (r *outboxRepository) Create(ctx context.Context, event *entity.OutboxEvent) error {
	m := ToOutboxEventModel(event)
	if m.Status == "" {
		m.Status = string(entity.OutboxStatusPending)
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translate(err)
	}
	*event = *ToOutboxEventEntity(m)
	return nil
}

func (r *outboxRepository) GetByID(ctx context.Context, id string) (*entity.OutboxEvent, error) {
	var m model.OutboxEventModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return ToOutboxEventEntity(&m), nil
}

func (r *outboxRepository) ListDispatchable(ctx context.Context, before time.Time, maxAttempts, limit int) ([]*entity.OutboxEvent, error) {
	var ms []model.OutboxEventModel
	err := r.db.WithContext(ctx).
		Where("status IN ? AND attempts < ? AND created_at < ?",
			[]string{string(entity.OutboxStatusPending), string(entity.OutboxStatusFailed)},
			maxAttempts, before).
		Order("created_at ASC, id ASC").
		Limit(limit).
		Find(&ms).Error
	if err != nil {
		return nil, translate(err)
	}

	events := make([]*entity.OutboxEvent, len(ms))
	for i := range ms {
		events[i] = ToOutboxEventEntity(&ms[i])
	}
	return events, nil
}

func (r *outboxRepository) MarkPublished(ctx context.Context, id string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.OutboxEventModel{}).
		Where("id = ? AND status <> ?", id, string(entity.OutboxStatusPublished)).
		Updates(map[string]interface{}{
			"status":       string(entity.OutboxStatusPublished),
			"published_at": at,
			"updated_at":   at,
		})
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *outboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	reason = entity.Truncate(reason, maxLastErrorLen)

	err := r.db.WithContext(ctx).
		Model(&model.OutboxEventModel{}).
		Where("id = ? AND status <> ?", id, string(entity.OutboxStatusPublished)).
		Updates(map[string]interface{}{
			"status":     string(entity.OutboxStatusFailed),
			"attempts":   gorm.Expr("attempts + ?", 1),
			"last_error": reason,
			"updated_at": time.Now(),
		}).Error
	return translate(err)
}
