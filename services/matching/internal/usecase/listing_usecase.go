package usecase

import (
	"context"
	"fmt"

	"donorseeker/pkg/logger"
	"donorseeker/services/matching/internal/entity"
	"donorseeker/services/matching/internal/metrics"
	"donorseeker/services/matching/internal/repo/persistent"

	"go.opentelemetry.io/otel/attribute"
)

const defaultModerationPageSize = 50

type ListingUseCase interface {
	CreateListing(ctx context.Context, ownerID string, attrs entity.ListingAttrs) (*entity.Listing, error)
	GetListing(ctx context.Context, id string) (*entity.Listing, error)
	IsRequestable(ctx context.Context, id string) (bool, error)
	SetApproval(ctx context.Context, id string, approved bool) (*entity.Listing, error)
	DeleteListing(ctx context.Context, id, actorID string, isModerator bool) error
	ListPendingModeration(ctx context.Context, limit, offset int) ([]*entity.Listing, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*entity.Listing, error)
}

type listingUseCase struct {
	uow     persistent.UnitOfWork
	metrics *metrics.Metrics
	logger  *logger.Logger
}

func NewListingUseCase(uow persistent.UnitOfWork, m *metrics.Metrics, log *logger.Logger) ListingUseCase {
	return &listingUseCase{uow: uow, metrics: m, logger: log}
}

func (uc *listingUseCase) CreateListing(ctx context.Context, ownerID string, attrs entity.ListingAttrs) (listing *entity.Listing, err error) {
	ctx, done := startOp(ctx, uc.metrics, "create_listing")
	defer done(&err)

	if ownerID == "" {
		return nil, fmt.Errorf("%w: owner is required", entity.ErrInvalidInput)
	}
	if err := attrs.Validate(); err != nil {
		return nil, err
	}

	listing = &entity.Listing{
		OwnerID:     ownerID,
		Kind:        attrs.Kind,
		Title:       attrs.Title,
		Description: attrs.Description,
		Category:    attrs.Category,
		Condition:   attrs.Condition,
		Urgency:     attrs.Urgency,
		Approved:    false,
		Status:      entity.ListingStatusPending,
	}
	if err := uc.uow.Repositories().Listings.Create(ctx, listing); err != nil {
		return nil, storeErr("create listing", err)
	}

	uc.logger.Info("[MATCHING] Listing %s created by %s (%s)", listing.ID, ownerID, listing.Kind)
	return listing, nil
}

func (uc *listingUseCase) GetListing(ctx context.Context, id string) (*entity.Listing, error) {
	listing, err := uc.uow.Repositories().Listings.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr("get listing", err)
	}
	return listing, nil
}

func (uc *listingUseCase) IsRequestable(ctx context.Context, id string) (bool, error) {
	repos := uc.uow.Repositories()
	return isRequestable(ctx, repos, id)
}

func isRequestable(ctx context.Context, repos persistent.Repositories, id string) (bool, error) {
	listing, err := repos.Listings.GetByID(ctx, id)
	if err != nil {
		return false, storeErr("get listing", err)
	}
	if listing.Status != entity.ListingStatusApproved {
		return false, nil
	}
	accepted, err := repos.Requests.HasAccepted(ctx, id)
	if err != nil {
		return false, storeErr("check accepted request", err)
	}
	return listing.IsRequestable(accepted), nil
}

func (uc *listingUseCase) SetApproval(ctx context.Context, id string, approved bool) (listing *entity.Listing, err error) {
	ctx, done := startOp(ctx, uc.metrics, "set_approval", attribute.String("listing_id", id))
	defer done(&err)

	repo := uc.uow.Repositories().Listings
	listing, err = repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr("get listing", err)
	}

	target := entity.ListingStatusRejected
	if approved {
		target = entity.ListingStatusApproved
	}
	if !listing.Status.IsModeratable() {
		return nil, fmt.Errorf("%w: listing is %s", entity.ErrInvalidTransition, listing.Status)
	}
	if listing.Status == target {
		return listing, nil
	}
	if !listing.Status.CanTransitionTo(target) {
		return nil, fmt.Errorf("%w: %s -> %s", entity.ErrInvalidTransition, listing.Status, target)
	}

	ok, err := repo.SetApproval(ctx, id, listing.Status, approved)
	if err != nil {
		return nil, storeErr("set approval", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: listing changed concurrently", entity.ErrInvalidTransition)
	}

	uc.logger.Info("[MATCHING] Listing %s moderated: %s -> %s", id, listing.Status, target)
	listing.Status = target
	listing.Approved = approved
	return listing, nil
}

// markDonated and markCompleted are the only ways a listing leaves APPROVED
// or DONATED; they run inside the accept and receipt units of work.
func markDonated(ctx context.Context, repo persistent.ListingRepository, id string) error {
	ok, err := repo.TransitionStatus(ctx, id, entity.ListingStatusApproved, entity.ListingStatusDonated)
	if err != nil {
		return storeErr("mark donated", err)
	}
	if !ok {
		return fmt.Errorf("%w: listing %s is no longer approved", entity.ErrInvalidTransition, id)
	}
	return nil
}

func markCompleted(ctx context.Context, repo persistent.ListingRepository, id string) error {
	ok, err := repo.TransitionStatus(ctx, id, entity.ListingStatusDonated, entity.ListingStatusCompleted)
	if err != nil {
		return storeErr("mark completed", err)
	}
	if !ok {
		return fmt.Errorf("%w: listing %s is not donated", entity.ErrInvalidTransition, id)
	}
	return nil
}

func (uc *listingUseCase) DeleteListing(ctx context.Context, id, actorID string, isModerator bool) (err error) {
	ctx, done := startOp(ctx, uc.metrics, "delete_listing", attribute.String("listing_id", id))
	defer done(&err)

	listing, err := uc.uow.Repositories().Listings.GetByID(ctx, id)
	if err != nil {
		return storeErr("get listing", err)
	}
	if listing.OwnerID != actorID && !isModerator {
		return entity.ErrForbidden
	}

	err = uc.uow.RunInTx(ctx, func(repos persistent.Repositories) error {
		// A listing with a transaction is never deletable, whatever its status.
		exists, err := repos.Transactions.ExistsForListing(ctx, id)
		if err != nil {
			return storeErr("check transaction", err)
		}
		if exists {
			return fmt.Errorf("%w: listing has a transaction", entity.ErrInvalidTransition)
		}

		ok, err := repos.Listings.DeleteIfStatus(ctx, id,
			entity.ListingStatusPending, entity.ListingStatusApproved, entity.ListingStatusRejected)
		if err != nil {
			return storeErr("delete listing", err)
		}
		if !ok {
			return fmt.Errorf("%w: listing can no longer be deleted", entity.ErrInvalidTransition)
		}

		if err := repos.Requests.DeleteByListing(ctx, id); err != nil {
			return storeErr("delete requests", err)
		}
		return nil
	})
	if err != nil {
		return storeErr("delete listing", err)
	}

	uc.logger.Info("[MATCHING] Listing %s deleted by %s", id, actorID)
	return nil
}

func (uc *listingUseCase) ListPendingModeration(ctx context.Context, limit, offset int) ([]*entity.Listing, error) {
	if limit <= 0 {
		limit = defaultModerationPageSize
	}
	if offset < 0 {
		offset = 0
	}
	listings, err := uc.uow.Repositories().Listings.ListByStatus(ctx, entity.ListingStatusPending, limit, offset)
	if err != nil {
		return nil, storeErr("list pending listings", err)
	}
	return listings, nil
}

func (uc *listingUseCase) ListByOwner(ctx context.Context, ownerID string) ([]*entity.Listing, error) {
	listings, err := uc.uow.Repositories().Listings.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, storeErr("list listings", err)
	}
	return listings, nil
}
