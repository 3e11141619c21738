package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"donorseeker/pkg/logger"
	"donorseeker/services/matching/internal/entity"
	"donorseeker/services/matching/internal/metrics"
	"donorseeker/services/matching/internal/repo/persistent"
	"donorseeker/services/matching/internal/scoring"

	"go.opentelemetry.io/otel/attribute"
)

const maxMessageLength = 2000

type RequestUseCase interface {
	CreateRequest(ctx context.Context, listingID, seekerID, message string) (*entity.Request, error)
	CancelRequest(ctx context.Context, requestID, actorID string) (*entity.Request, error)
	ListPending(ctx context.Context, listingID, actorID string) ([]*entity.Request, error)
	GetRequest(ctx context.Context, requestID, actorID string) (*entity.Request, error)
	ListBySeeker(ctx context.Context, seekerID string) ([]*entity.Request, error)
}

type requestUseCase struct {
	uow       persistent.UnitOfWork
	annotator *scoring.Annotator
	metrics   *metrics.Metrics
	logger    *logger.Logger
}

func NewRequestUseCase(uow persistent.UnitOfWork, annotator *scoring.Annotator, m *metrics.Metrics, log *logger.Logger) RequestUseCase {
	return &requestUseCase{uow: uow, annotator: annotator, metrics: m, logger: log}
}

func (uc *requestUseCase) CreateRequest(ctx context.Context, listingID, seekerID, message string) (request *entity.Request, err error) {
	ctx, done := startOp(ctx, uc.metrics, "create_request", attribute.String("listing_id", listingID))
	defer done(&err)

	if seekerID == "" {
		return nil, fmt.Errorf("%w: seeker is required", entity.ErrInvalidInput)
	}
	if len(message) > maxMessageLength {
		return nil, fmt.Errorf("%w: message is too long", entity.ErrInvalidInput)
	}

	err = uc.uow.RunInTx(ctx, func(repos persistent.Repositories) error {
		// Shared lock: a concurrent accept has to wait for this insert (and
		// then rejects it with the other siblings) or has already committed
		// and this read sees DONATED.
		listing, err := repos.Listings.GetForShare(ctx, listingID)
		if err != nil {
			return storeErr("get listing", err)
		}
		if listing.Kind != entity.ListingKindDonation {
			return fmt.Errorf("%w: requirement listings do not take requests", entity.ErrForbidden)
		}
		if listing.OwnerID == seekerID {
			return fmt.Errorf("%w: cannot request your own listing", entity.ErrForbidden)
		}

		accepted, err := repos.Requests.HasAccepted(ctx, listingID)
		if err != nil {
			return storeErr("check accepted request", err)
		}
		if !listing.IsRequestable(accepted) {
			return entity.ErrNotRequestable
		}

		pending, err := repos.Requests.HasPending(ctx, listingID, seekerID)
		if err != nil {
			return storeErr("check pending request", err)
		}
		if pending {
			return entity.ErrDuplicatePending
		}

		request = &entity.Request{
			ListingID: listingID,
			SeekerID:  seekerID,
			Message:   strings.TrimSpace(message),
			Status:    entity.RequestStatusPending,
		}
		if err := repos.Requests.Create(ctx, request); err != nil {
			if errors.Is(err, persistent.ErrAlreadyExists) {
				return entity.ErrDuplicatePending
			}
			return storeErr("create request", err)
		}
		return nil
	})
	if err != nil {
		return nil, storeErr("create request", err)
	}

	uc.logger.Info("[MATCHING] Request %s created on listing %s by %s", request.ID, listingID, seekerID)
	return request, nil
}

func (uc *requestUseCase) CancelRequest(ctx context.Context, requestID, actorID string) (request *entity.Request, err error) {
	ctx, done := startOp(ctx, uc.metrics, "cancel_request", attribute.String("request_id", requestID))
	defer done(&err)

	repo := uc.uow.Repositories().Requests
	request, err = repo.GetByID(ctx, requestID)
	if err != nil {
		return nil, storeErr("get request", err)
	}
	if request.SeekerID != actorID {
		return nil, entity.ErrForbidden
	}
	if !request.Status.CanTransitionTo(entity.RequestStatusRejected) {
		return nil, fmt.Errorf("%w: request is %s", entity.ErrInvalidTransition, request.Status)
	}

	ok, err := repo.TransitionStatus(ctx, requestID, entity.RequestStatusPending, entity.RequestStatusRejected)
	if err != nil {
		return nil, storeErr("cancel request", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: request is no longer pending", entity.ErrInvalidTransition)
	}

	uc.logger.Info("[MATCHING] Request %s cancelled by seeker", requestID)
	request.Status = entity.RequestStatusRejected
	return request, nil
}

func (uc *requestUseCase) ListPending(ctx context.Context, listingID, actorID string) (requests []*entity.Request, err error) {
	ctx, done := startOp(ctx, uc.metrics, "list_pending", attribute.String("listing_id", listingID))
	defer done(&err)

	repos := uc.uow.Repositories()
	listing, err := repos.Listings.GetByID(ctx, listingID)
	if err != nil {
		return nil, storeErr("get listing", err)
	}
	if listing.OwnerID != actorID {
		return nil, entity.ErrForbidden
	}

	requests, err = repos.Requests.ListPendingByListing(ctx, listingID)
	if err != nil {
		return nil, storeErr("list pending requests", err)
	}

	if uc.annotator != nil {
		uc.annotator.Annotate(ctx, requests)
	}
	return requests, nil
}

func (uc *requestUseCase) GetRequest(ctx context.Context, requestID, actorID string) (*entity.Request, error) {
	repos := uc.uow.Repositories()
	request, err := repos.Requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, storeErr("get request", err)
	}
	if request.SeekerID == actorID {
		return request, nil
	}

	listing, err := repos.Listings.GetByID(ctx, request.ListingID)
	if err != nil {
		return nil, storeErr("get listing", err)
	}
	if listing.OwnerID != actorID {
		return nil, entity.ErrForbidden
	}
	return request, nil
}

func (uc *requestUseCase) ListBySeeker(ctx context.Context, seekerID string) ([]*entity.Request, error) {
	requests, err := uc.uow.Repositories().Requests.ListBySeeker(ctx, seekerID)
	if err != nil {
		return nil, storeErr("list requests", err)
	}
	return requests, nil
}
