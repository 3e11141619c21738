package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"donorseeker/pkg/events"
	"donorseeker/pkg/logger"
	"donorseeker/services/matching/internal/entity"
	"donorseeker/services/matching/internal/metrics"
	"donorseeker/services/matching/internal/repo/persistent"

	"go.opentelemetry.io/otel/attribute"
)

type MatchingUseCase interface {
	AcceptRequest(ctx context.Context, listingID, requestID, actorID string) (*entity.Transaction, error)
	RejectRequest(ctx context.Context, listingID, requestID, actorID string) (*entity.Request, error)
}

type matchingUseCase struct {
	uow        persistent.UnitOfWork
	dispatcher EventDispatcher
	publisher  events.Publisher
	metrics    *metrics.Metrics
	logger     *logger.Logger
}

func NewMatchingUseCase(uow persistent.UnitOfWork, dispatcher EventDispatcher, publisher events.Publisher, m *metrics.Metrics, log *logger.Logger) MatchingUseCase {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &matchingUseCase{
		uow:        uow,
		dispatcher: dispatcher,
		publisher:  publisher,
		metrics:    m,
		logger:     log,
	}
}

// checkOwnedPending validates everything that can be rejected without
// writing: ownership, listing kind, and that the request is a pending
// request of this listing.
func checkOwnedPending(ctx context.Context, repos persistent.Repositories, listingID, requestID, actorID string) (*entity.Listing, *entity.Request, error) {
	listing, err := repos.Listings.GetByID(ctx, listingID)
	if err != nil {
		return nil, nil, storeErr("get listing", err)
	}
	if listing.OwnerID != actorID {
		return nil, nil, entity.ErrForbidden
	}
	if listing.Kind != entity.ListingKindDonation {
		return nil, nil, fmt.Errorf("%w: requirement listings cannot be matched through requests", entity.ErrForbidden)
	}

	request, err := repos.Requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, nil, storeErr("get request", err)
	}
	if request.ListingID != listingID {
		return nil, nil, fmt.Errorf("%w: request does not belong to listing", entity.ErrInvalidTransition)
	}
	if request.Status != entity.RequestStatusPending {
		return nil, nil, fmt.Errorf("%w: request is %s", entity.ErrInvalidTransition, request.Status)
	}
	return listing, request, nil
}

func (uc *matchingUseCase) AcceptRequest(ctx context.Context, listingID, requestID, actorID string) (tx *entity.Transaction, err error) {
	ctx, done := startOp(ctx, uc.metrics, "accept_request",
		attribute.String("listing_id", listingID), attribute.String("request_id", requestID))
	defer done(&err)

	listing, request, err := checkOwnedPending(ctx, uc.uow.Repositories(), listingID, requestID, actorID)
	if err != nil {
		return nil, err
	}
	if listing.Status != entity.ListingStatusApproved {
		return nil, fmt.Errorf("%w: listing is %s", entity.ErrInvalidTransition, listing.Status)
	}

	var event *entity.OutboxEvent
	err = uc.uow.RunInTx(ctx, func(repos persistent.Repositories) error {
		// The conditional listing update is the serialization point: of two
		// racing accepts only one sees APPROVED.
		if err := markDonated(ctx, repos.Listings, listingID); err != nil {
			return err
		}

		ok, err := repos.Requests.TransitionStatus(ctx, requestID, entity.RequestStatusPending, entity.RequestStatusAccepted)
		if err != nil {
			return storeErr("accept request", err)
		}
		if !ok {
			return fmt.Errorf("%w: request is no longer pending", entity.ErrInvalidTransition)
		}

		rejected, err := repos.Requests.RejectPendingExcept(ctx, listingID, requestID)
		if err != nil {
			return storeErr("reject sibling requests", err)
		}

		tx = &entity.Transaction{
			ListingID:  listingID,
			RequestID:  requestID,
			DonorID:    listing.OwnerID,
			ReceiverID: request.SeekerID,
			IsReceived: false,
		}
		if err := repos.Transactions.Create(ctx, tx); err != nil {
			if errors.Is(err, persistent.ErrAlreadyExists) {
				return fmt.Errorf("%w: listing already has a transaction", entity.ErrInvalidTransition)
			}
			return storeErr("create transaction", err)
		}

		event, err = newAcceptedEvent(ctx, repos.Users, tx, listing.Title)
		if err != nil {
			return err
		}
		if err := repos.Outbox.Create(ctx, event); err != nil {
			return storeErr("write outbox event", err)
		}

		uc.logger.Info("[MATCHING] Listing %s: accepted request %s, rejected %d others", listingID, requestID, rejected)
		return nil
	})
	if err != nil {
		return nil, storeErr("accept request", err)
	}

	if uc.dispatcher != nil {
		uc.dispatcher.Dispatch(ctx, event)
	}
	if perr := uc.publisher.Publish(ctx, events.SubjectDonationAccepted, tx); perr != nil {
		uc.logger.Warn("[MATCHING] Failed to publish %s for transaction %s: %v", events.SubjectDonationAccepted, tx.ID, perr)
	}
	return tx, nil
}

func newAcceptedEvent(ctx context.Context, users persistent.UserRepository, tx *entity.Transaction, title string) (*entity.OutboxEvent, error) {
	seeker, err := users.GetContact(ctx, tx.ReceiverID)
	if err != nil {
		return nil, storeErr("get seeker contact", err)
	}
	donor, err := users.GetContact(ctx, tx.DonorID)
	if err != nil {
		return nil, storeErr("get donor contact", err)
	}

	payload, err := json.Marshal(entity.AcceptedPayload{
		Transaction:   *tx,
		ListingTitle:  title,
		SeekerContact: *seeker,
		DonorContact:  *donor,
	})
	if err != nil {
		return nil, fmt.Errorf("encode accepted payload: %w", err)
	}

	return &entity.OutboxEvent{
		EventType:   entity.EventDonationAccepted,
		AggregateID: tx.ID,
		Payload:     payload,
		Status:      entity.OutboxStatusPending,
	}, nil
}

func (uc *matchingUseCase) RejectRequest(ctx context.Context, listingID, requestID, actorID string) (request *entity.Request, err error) {
	ctx, done := startOp(ctx, uc.metrics, "reject_request",
		attribute.String("listing_id", listingID), attribute.String("request_id", requestID))
	defer done(&err)

	repos := uc.uow.Repositories()
	_, request, err = checkOwnedPending(ctx, repos, listingID, requestID, actorID)
	if err != nil {
		return nil, err
	}

	ok, err := repos.Requests.TransitionStatus(ctx, requestID, entity.RequestStatusPending, entity.RequestStatusRejected)
	if err != nil {
		return nil, storeErr("reject request", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: request is no longer pending", entity.ErrInvalidTransition)
	}

	uc.logger.Info("[MATCHING] Request %s rejected by owner", requestID)
	request.Status = entity.RequestStatusRejected
	return request, nil
}
