package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"donorseeker/pkg/events"
	"donorseeker/pkg/logger"
	"donorseeker/services/matching/internal/entity"
	"donorseeker/services/matching/internal/notifier"
	"donorseeker/services/matching/internal/outbox"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

type MatchingUseCaseSuite struct {
	engineSuite
}

func TestMatchingUseCaseSuite(t *testing.T) {
	suite.Run(t, new(MatchingUseCaseSuite))
}

func (s *MatchingUseCaseSuite) TestAccept_RejectsSiblingsAndCreatesTransaction() {
	listing := s.approvedListing()
	r1 := s.request(listing.ID, seeker1)
	r2 := s.request(listing.ID, seeker2)
	r3 := s.request(listing.ID, seeker3)

	tx, err := s.matching.AcceptRequest(s.ctx, listing.ID, r2.ID, donorID)
	s.Require().NoError(err)
	s.Equal(listing.ID, tx.ListingID)
	s.Equal(r2.ID, tx.RequestID)
	s.Equal(donorID, tx.DonorID)
	s.Equal(seeker2, tx.ReceiverID)
	s.False(tx.IsReceived)

	s.Equal(entity.ListingStatusDonated, s.listingStatus(listing.ID))
	s.Equal(entity.RequestStatusAccepted, s.requestStatus(r2.ID))
	s.Equal(entity.RequestStatusRejected, s.requestStatus(r1.ID))
	s.Equal(entity.RequestStatusRejected, s.requestStatus(r3.ID))
	s.Equal(1, s.transactionCount(listing.ID))

	requestable, err := s.listings.IsRequestable(s.ctx, listing.ID)
	s.Require().NoError(err)
	s.False(requestable)

	s.publisher.AssertCalled(s.T(), "Publish", mock.Anything, events.SubjectDonationAccepted, mock.Anything)
}

func (s *MatchingUseCaseSuite) TestAccept_RecordsOutboxEventWithContacts() {
	listing := s.approvedListing()
	r := s.request(listing.ID, seeker1)

	tx, err := s.matching.AcceptRequest(s.ctx, listing.ID, r.ID, donorID)
	s.Require().NoError(err)

	dispatched := s.dispatcher.Events()
	s.Require().Len(dispatched, 1)
	event := dispatched[0]
	s.Equal(entity.EventDonationAccepted, event.EventType)
	s.Equal(tx.ID, event.AggregateID)

	var payload entity.AcceptedPayload
	s.Require().NoError(json.Unmarshal(event.Payload, &payload))
	s.Equal(tx.ID, payload.Transaction.ID)
	s.Equal(listing.Title, payload.ListingTitle)
	s.Equal(seeker1, payload.SeekerContact.UserID)
	s.Equal(seeker1+"@example.com", payload.SeekerContact.Email)
	s.Equal(donorID, payload.DonorContact.UserID)

	stored, err := s.store.Repositories().Outbox.GetByID(s.ctx, event.ID)
	s.Require().NoError(err)
	s.Equal(entity.OutboxStatusPending, stored.Status)
}

func (s *MatchingUseCaseSuite) TestAccept_ConcurrentOnlyOneWins() {
	listing := s.approvedListing()
	requests := []*entity.Request{
		s.request(listing.ID, seeker1),
		s.request(listing.ID, seeker2),
		s.request(listing.ID, seeker3),
	}

	var wg sync.WaitGroup
	errs := make([]error, len(requests))
	for i, r := range requests {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = s.matching.AcceptRequest(s.ctx, listing.ID, r.ID, donorID)
		}()
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		s.ErrorIs(err, entity.ErrInvalidTransition)
	}
	s.Equal(1, wins)
	s.Equal(1, s.transactionCount(listing.ID))
	s.Len(s.dispatcher.Events(), 1)

	accepted := 0
	for _, r := range requests {
		if s.requestStatus(r.ID) == entity.RequestStatusAccepted {
			accepted++
		}
	}
	s.Equal(1, accepted)
}

func (s *MatchingUseCaseSuite) TestAccept_Preconditions() {
	listing := s.approvedListing()
	other := s.approvedListing()
	r := s.request(listing.ID, seeker1)
	foreign := s.request(other.ID, seeker2)

	_, err := s.matching.AcceptRequest(s.ctx, listing.ID, r.ID, seeker2)
	s.ErrorIs(err, entity.ErrForbidden)

	_, err = s.matching.AcceptRequest(s.ctx, listing.ID, foreign.ID, donorID)
	s.ErrorIs(err, entity.ErrInvalidTransition)

	_, err = s.matching.AcceptRequest(s.ctx, listing.ID, "missing", donorID)
	s.ErrorIs(err, entity.ErrNotFound)

	_, err = s.matching.AcceptRequest(s.ctx, "missing", r.ID, donorID)
	s.ErrorIs(err, entity.ErrNotFound)

	_, err = s.requests.CancelRequest(s.ctx, r.ID, seeker1)
	s.Require().NoError(err)
	_, err = s.matching.AcceptRequest(s.ctx, listing.ID, r.ID, donorID)
	s.ErrorIs(err, entity.ErrInvalidTransition)

	s.Equal(entity.ListingStatusApproved, s.listingStatus(listing.ID))
	s.Empty(s.dispatcher.Events())
}

func (s *MatchingUseCaseSuite) TestAccept_RejectedListing() {
	listing := s.approvedListing()
	r := s.request(listing.ID, seeker1)
	_, err := s.listings.SetApproval(s.ctx, listing.ID, false)
	s.Require().NoError(err)

	_, err = s.matching.AcceptRequest(s.ctx, listing.ID, r.ID, donorID)
	s.ErrorIs(err, entity.ErrInvalidTransition)
	s.Equal(entity.RequestStatusPending, s.requestStatus(r.ID))
}

func (s *MatchingUseCaseSuite) TestAccept_MissingContactRollsBack() {
	listing, err := s.listings.CreateListing(s.ctx, "ghost", entity.ListingAttrs{
		Kind: entity.ListingKindDonation, Title: "Chair", Category: "furniture",
	})
	s.Require().NoError(err)
	_, err = s.listings.SetApproval(s.ctx, listing.ID, true)
	s.Require().NoError(err)
	r1 := s.request(listing.ID, seeker1)
	r2 := s.request(listing.ID, seeker2)

	_, err = s.matching.AcceptRequest(s.ctx, listing.ID, r1.ID, "ghost")
	s.ErrorIs(err, entity.ErrNotFound)

	s.Equal(entity.ListingStatusApproved, s.listingStatus(listing.ID))
	s.Equal(entity.RequestStatusPending, s.requestStatus(r1.ID))
	s.Equal(entity.RequestStatusPending, s.requestStatus(r2.ID))
	s.Empty(s.dispatcher.Events())

	txs, err := s.store.Repositories().Transactions.ListByParticipant(s.ctx, seeker1)
	s.Require().NoError(err)
	s.Empty(txs)
}

func (s *MatchingUseCaseSuite) TestAccept_StoreDownIsUnavailable() {
	listing := s.approvedListing()
	r := s.request(listing.ID, seeker1)
	s.build(failingUoW{UnitOfWork: s.store, err: errStoreDown})

	_, err := s.matching.AcceptRequest(s.ctx, listing.ID, r.ID, donorID)
	s.ErrorIs(err, entity.ErrUnavailable)
	s.Equal(entity.ListingStatusApproved, s.listingStatus(listing.ID))
}

func (s *MatchingUseCaseSuite) TestAccept_PublishFailureIsIgnored() {
	s.publisher = new(MockPublisher)
	s.publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("nats down"))
	s.build(s.store)

	listing := s.approvedListing()
	r := s.request(listing.ID, seeker1)

	_, err := s.matching.AcceptRequest(s.ctx, listing.ID, r.ID, donorID)
	s.NoError(err)
	s.Equal(entity.ListingStatusDonated, s.listingStatus(listing.ID))
}

type failingNotifier struct{}

func (failingNotifier) NotifyAccepted(context.Context, notifier.AcceptedNotification) error {
	return errors.New("broker unreachable")
}

func (s *MatchingUseCaseSuite) TestAccept_NotifierFailureKeepsCommit() {
	relay := outbox.NewRelay(s.store.Repositories().Outbox, failingNotifier{}, outbox.Config{},
		nil, logger.NewWithZap(zap.NewNop()))
	s.matching = NewMatchingUseCase(s.store, relay, s.publisher, nil, logger.NewWithZap(zap.NewNop()))

	listing := s.approvedListing()
	r := s.request(listing.ID, seeker1)

	tx, err := s.matching.AcceptRequest(s.ctx, listing.ID, r.ID, donorID)
	s.Require().NoError(err)
	s.Equal(entity.ListingStatusDonated, s.listingStatus(listing.ID))
	s.Equal(1, s.transactionCount(listing.ID))

	pending, err := s.store.Repositories().Outbox.ListDispatchable(s.ctx, time.Now().Add(time.Minute), 10, 10)
	s.Require().NoError(err)
	s.Require().Len(pending, 1)
	s.Equal(tx.ID, pending[0].AggregateID)
	s.Equal(entity.OutboxStatusFailed, pending[0].Status)
	s.Equal(1, pending[0].Attempts)
	s.Contains(pending[0].LastError, "broker unreachable")
}

func (s *MatchingUseCaseSuite) TestRejectRequest() {
	listing := s.approvedListing()
	r1 := s.request(listing.ID, seeker1)
	r2 := s.request(listing.ID, seeker2)

	_, err := s.matching.RejectRequest(s.ctx, listing.ID, r1.ID, seeker2)
	s.ErrorIs(err, entity.ErrForbidden)

	rejected, err := s.matching.RejectRequest(s.ctx, listing.ID, r1.ID, donorID)
	s.Require().NoError(err)
	s.Equal(entity.RequestStatusRejected, rejected.Status)

	_, err = s.matching.RejectRequest(s.ctx, listing.ID, r1.ID, donorID)
	s.ErrorIs(err, entity.ErrInvalidTransition)

	s.Equal(entity.RequestStatusPending, s.requestStatus(r2.ID))
	s.Equal(entity.ListingStatusApproved, s.listingStatus(listing.ID))

	// The seeker may try again once rejected.
	s.request(listing.ID, seeker1)
}
