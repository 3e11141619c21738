package usecase

import (
	"testing"

	"donorseeker/services/matching/internal/entity"

	"github.com/stretchr/testify/suite"
)

type ListingUseCaseSuite struct {
	engineSuite
}

func TestListingUseCaseSuite(t *testing.T) {
	suite.Run(t, new(ListingUseCaseSuite))
}

func (s *ListingUseCaseSuite) TestCreateListing_StartsPendingUnapproved() {
	listing, err := s.listings.CreateListing(s.ctx, donorID, entity.ListingAttrs{
		Kind: entity.ListingKindDonation, Title: "Desk", Category: "furniture", Condition: "used",
	})
	s.Require().NoError(err)
	s.NotEmpty(listing.ID)
	s.Equal(entity.ListingStatusPending, listing.Status)
	s.False(listing.Approved)

	requestable, err := s.listings.IsRequestable(s.ctx, listing.ID)
	s.Require().NoError(err)
	s.False(requestable)
}

func (s *ListingUseCaseSuite) TestCreateListing_InvalidInput() {
	_, err := s.listings.CreateListing(s.ctx, donorID, entity.ListingAttrs{Kind: "SWAP", Title: "Desk", Category: "x"})
	s.ErrorIs(err, entity.ErrInvalidInput)

	_, err = s.listings.CreateListing(s.ctx, "", entity.ListingAttrs{Kind: entity.ListingKindDonation, Title: "Desk", Category: "x"})
	s.ErrorIs(err, entity.ErrInvalidInput)
}

func (s *ListingUseCaseSuite) TestSetApproval_Flips() {
	listing, err := s.listings.CreateListing(s.ctx, donorID, entity.ListingAttrs{
		Kind: entity.ListingKindDonation, Title: "Desk", Category: "furniture",
	})
	s.Require().NoError(err)

	got, err := s.listings.SetApproval(s.ctx, listing.ID, false)
	s.Require().NoError(err)
	s.Equal(entity.ListingStatusRejected, got.Status)
	s.False(got.Approved)

	got, err = s.listings.SetApproval(s.ctx, listing.ID, true)
	s.Require().NoError(err)
	s.Equal(entity.ListingStatusApproved, got.Status)
	s.True(got.Approved)

	got, err = s.listings.SetApproval(s.ctx, listing.ID, true)
	s.Require().NoError(err)
	s.Equal(entity.ListingStatusApproved, got.Status)

	requestable, err := s.listings.IsRequestable(s.ctx, listing.ID)
	s.Require().NoError(err)
	s.True(requestable)
}

func (s *ListingUseCaseSuite) TestSetApproval_NotFound() {
	_, err := s.listings.SetApproval(s.ctx, "missing", true)
	s.ErrorIs(err, entity.ErrNotFound)
}

func (s *ListingUseCaseSuite) TestSetApproval_DonatedListingIsFrozen() {
	listing, _ := s.acceptedTransaction()

	_, err := s.listings.SetApproval(s.ctx, listing.ID, false)
	s.ErrorIs(err, entity.ErrInvalidTransition)
	s.Equal(entity.ListingStatusDonated, s.listingStatus(listing.ID))
}

func (s *ListingUseCaseSuite) TestDeleteListing_OwnerRemovesPendingRequests() {
	listing := s.approvedListing()
	r := s.request(listing.ID, seeker1)

	s.Require().NoError(s.listings.DeleteListing(s.ctx, listing.ID, donorID, false))

	_, err := s.listings.GetListing(s.ctx, listing.ID)
	s.ErrorIs(err, entity.ErrNotFound)
	_, err = s.store.Repositories().Requests.GetByID(s.ctx, r.ID)
	s.Error(err)
}

func (s *ListingUseCaseSuite) TestDeleteListing_Permissions() {
	listing := s.approvedListing()

	s.ErrorIs(s.listings.DeleteListing(s.ctx, listing.ID, seeker1, false), entity.ErrForbidden)
	s.NoError(s.listings.DeleteListing(s.ctx, listing.ID, moderatorID, true))
	s.ErrorIs(s.listings.DeleteListing(s.ctx, listing.ID, donorID, false), entity.ErrNotFound)
}

func (s *ListingUseCaseSuite) TestDeleteListing_RefusedOnceMatched() {
	listing, _ := s.acceptedTransaction()

	err := s.listings.DeleteListing(s.ctx, listing.ID, donorID, false)
	s.ErrorIs(err, entity.ErrInvalidTransition)
	s.Equal(entity.ListingStatusDonated, s.listingStatus(listing.ID))
}

func (s *ListingUseCaseSuite) TestListPendingModeration() {
	approved := s.approvedListing()
	pending, err := s.listings.CreateListing(s.ctx, donorID, entity.ListingAttrs{
		Kind: entity.ListingKindRequirement, Title: "Need a crib", Category: "baby",
	})
	s.Require().NoError(err)

	queue, err := s.listings.ListPendingModeration(s.ctx, 0, 0)
	s.Require().NoError(err)
	s.Require().Len(queue, 1)
	s.Equal(pending.ID, queue[0].ID)

	mine, err := s.listings.ListByOwner(s.ctx, donorID)
	s.Require().NoError(err)
	s.Require().Len(mine, 2)
	s.Equal(pending.ID, mine[0].ID)
	s.Equal(approved.ID, mine[1].ID)
}

func (s *ListingUseCaseSuite) TestStoreFailureIsUnavailable() {
	listing := s.approvedListing()
	s.build(failingUoW{UnitOfWork: s.store, err: errStoreDown})

	err := s.listings.DeleteListing(s.ctx, listing.ID, donorID, false)
	s.ErrorIs(err, entity.ErrUnavailable)
	s.ErrorIs(err, errStoreDown)
}
