package usecase

import (
	"sync"
	"testing"

	"donorseeker/services/matching/internal/entity"

	"github.com/stretchr/testify/suite"
)

type TransactionUseCaseSuite struct {
	engineSuite
}

func TestTransactionUseCaseSuite(t *testing.T) {
	suite.Run(t, new(TransactionUseCaseSuite))
}

func (s *TransactionUseCaseSuite) TestConfirmReceived_CompletesListing() {
	listing, tx := s.acceptedTransaction()

	got, err := s.transactions.ConfirmReceived(s.ctx, tx.ID, seeker1)
	s.Require().NoError(err)
	s.True(got.IsReceived)
	s.NotNil(got.CompletedAt)

	s.Equal(entity.ListingStatusCompleted, s.listingStatus(listing.ID))
	s.Equal(1, s.reputation(donorID).DonationCount)
}

func (s *TransactionUseCaseSuite) TestConfirmReceived_Idempotent() {
	_, tx := s.acceptedTransaction()

	first, err := s.transactions.ConfirmReceived(s.ctx, tx.ID, seeker1)
	s.Require().NoError(err)
	second, err := s.transactions.ConfirmReceived(s.ctx, tx.ID, seeker1)
	s.Require().NoError(err)

	s.True(second.IsReceived)
	s.Equal(first.CompletedAt.Unix(), second.CompletedAt.Unix())
	s.Equal(1, s.reputation(donorID).DonationCount)
}

func (s *TransactionUseCaseSuite) TestConfirmReceived_ConcurrentCountsOnce() {
	listing, tx := s.acceptedTransaction()

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = s.transactions.ConfirmReceived(s.ctx, tx.ID, seeker1)
		}()
	}
	wg.Wait()

	for _, err := range errs {
		s.NoError(err)
	}
	s.Equal(1, s.reputation(donorID).DonationCount)
	s.Equal(entity.ListingStatusCompleted, s.listingStatus(listing.ID))
}

func (s *TransactionUseCaseSuite) TestConfirmReceived_OnlyReceiver() {
	listing, tx := s.acceptedTransaction()

	_, err := s.transactions.ConfirmReceived(s.ctx, tx.ID, donorID)
	s.ErrorIs(err, entity.ErrForbidden)
	_, err = s.transactions.ConfirmReceived(s.ctx, tx.ID, seeker2)
	s.ErrorIs(err, entity.ErrForbidden)
	_, err = s.transactions.ConfirmReceived(s.ctx, "missing", seeker1)
	s.ErrorIs(err, entity.ErrNotFound)

	s.Equal(entity.ListingStatusDonated, s.listingStatus(listing.ID))
	s.Equal(0, s.reputation(donorID).DonationCount)
}

func (s *TransactionUseCaseSuite) TestConfirmReceived_StoreDownChangesNothing() {
	listing, tx := s.acceptedTransaction()
	s.build(failingUoW{UnitOfWork: s.store, err: errStoreDown})

	_, err := s.transactions.ConfirmReceived(s.ctx, tx.ID, seeker1)
	s.ErrorIs(err, entity.ErrUnavailable)

	got, err := s.store.Repositories().Transactions.GetByID(s.ctx, tx.ID)
	s.Require().NoError(err)
	s.False(got.IsReceived)
	s.Equal(entity.ListingStatusDonated, s.listingStatus(listing.ID))
	s.Equal(0, s.reputation(donorID).DonationCount)
}

func (s *TransactionUseCaseSuite) TestGetTransaction() {
	_, tx := s.acceptedTransaction()

	for _, actor := range []string{donorID, seeker1} {
		got, err := s.transactions.GetTransaction(s.ctx, tx.ID, actor)
		s.Require().NoError(err)
		s.Equal(tx.ID, got.ID)
	}

	_, err := s.transactions.GetTransaction(s.ctx, tx.ID, seeker2)
	s.ErrorIs(err, entity.ErrForbidden)
	_, err = s.transactions.GetTransaction(s.ctx, "missing", seeker1)
	s.ErrorIs(err, entity.ErrNotFound)

	mine, err := s.transactions.ListByParticipant(s.ctx, seeker1)
	s.Require().NoError(err)
	s.Len(mine, 1)

	_, err = s.transactions.ListByParticipant(s.ctx, "")
	s.ErrorIs(err, entity.ErrInvalidInput)
}
