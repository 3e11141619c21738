package persistent

import (
	"context"
	"time"

	"donorseeker/services/matching/internal/entity"
)

// Conditional writes return false when the guard did not match, so callers
// can tell a lost race from a store failure.

type ListingRepository interface {
	Create(ctx context.Context, listing *entity.Listing) error
	GetByID(ctx context.Context, id string) (*entity.Listing, error)
	// GetForShare reads the listing under a shared row lock held until the
	// surrounding unit of work ends.
	GetForShare(ctx context.Context, id string) (*entity.Listing, error)
	TransitionStatus(ctx context.Context, id string, from, to entity.ListingStatus) (bool, error)
	SetApproval(ctx context.Context, id string, from entity.ListingStatus, approved bool) (bool, error)
	DeleteIfStatus(ctx context.Context, id string, statuses ...entity.ListingStatus) (bool, error)
	ListByStatus(ctx context.Context, status entity.ListingStatus, limit, offset int) ([]*entity.Listing, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*entity.Listing, error)
}

type RequestRepository interface {
	Create(ctx context.Context, request *entity.Request) error
	GetByID(ctx context.Context, id string) (*entity.Request, error)
	HasPending(ctx context.Context, listingID, seekerID string) (bool, error)
	HasAccepted(ctx context.Context, listingID string) (bool, error)
	TransitionStatus(ctx context.Context, id string, from, to entity.RequestStatus) (bool, error)
	RejectPendingExcept(ctx context.Context, listingID, exceptID string) (int64, error)
	DeleteByListing(ctx context.Context, listingID string) error
	ListPendingByListing(ctx context.Context, listingID string) ([]*entity.Request, error)
	ListBySeeker(ctx context.Context, seekerID string) ([]*entity.Request, error)
}

type TransactionRepository interface {
	Create(ctx context.Context, tx *entity.Transaction) error
	GetByID(ctx context.Context, id string) (*entity.Transaction, error)
	ExistsForListing(ctx context.Context, listingID string) (bool, error)
	MarkReceived(ctx context.Context, id string, at time.Time) (bool, error)
	ListByParticipant(ctx context.Context, userID string) ([]*entity.Transaction, error)
}

type FeedbackRepository interface {
	Create(ctx context.Context, feedback *entity.Feedback) error
	GetByTransaction(ctx context.Context, transactionID string) (*entity.Feedback, error)
}

type UserRepository interface {
	GetContact(ctx context.Context, id string) (*entity.Contact, error)
	GetReputation(ctx context.Context, id string) (*entity.Reputation, error)
	IncrementDonationCount(ctx context.Context, id string) error
	AddRating(ctx context.Context, id string, rating int) error
}

type OutboxRepository interface {
	Create(ctx context.Context, event *entity.OutboxEvent) error
	GetByID(ctx context.Context, id string) (*entity.OutboxEvent, error)
	// ListDispatchable returns PENDING or FAILED events created before the
	// cutoff that have not used up maxAttempts, oldest first.
	ListDispatchable(ctx context.Context, before time.Time, maxAttempts, limit int) ([]*entity.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, at time.Time) (bool, error)
	MarkFailed(ctx context.Context, id string, reason string) error
}

type Repositories struct {
	Listings     ListingRepository
	Requests     RequestRepository
	Transactions TransactionRepository
	Feedback     FeedbackRepository
	Users        UserRepository
	Outbox       OutboxRepository
}

// UnitOfWork runs fn against repositories bound to a single store
// transaction. Any error from fn rolls every write back.
type UnitOfWork interface {
	Repositories() Repositories
	RunInTx(ctx context.Context, fn func(repos Repositories) error) error
}
