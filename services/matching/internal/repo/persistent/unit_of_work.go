package persistent

import (
	"context"

	"gorm.io/gorm"
)

type gormUnitOfWork struct {
	db *gorm.DB
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &gormUnitOfWork{db: db}
}

func newRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Listings:     NewListingRepository(db),
		Requests:     NewRequestRepository(db),
		Transactions: NewTransactionRepository(db),
		Feedback:     NewFeedbackRepository(db),
		Users:        NewUserRepository(db),
		Outbox:       NewOutboxRepository(db),
	}
}

func (u *gormUnitOfWork) Repositories() Repositories {
	return newRepositories(u.db)
}

func (u *gormUnitOfWork) RunInTx(ctx context.Context, fn func(repos Repositories) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(newRepositories(tx))
	})
}
