package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"donorseeker/pkg/logger"
	"donorseeker/pkg/models"
	"donorseeker/services/matching/internal/entity"
	"donorseeker/services/matching/internal/repo/memory"
	"donorseeker/services/matching/internal/repo/persistent"
	"donorseeker/services/matching/internal/scoring"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

const (
	donorID     = "donor"
	seeker1     = "seeker-1"
	seeker2     = "seeker-2"
	seeker3     = "seeker-3"
	moderatorID = "moderator"
)

type recordingDispatcher struct {
	mu     sync.Mutex
	events []*entity.OutboxEvent
}

func (d *recordingDispatcher) Dispatch(_ context.Context, event *entity.OutboxEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
}

func (d *recordingDispatcher) Events() []*entity.OutboxEvent {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*entity.OutboxEvent(nil), d.events...)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, subject string, data interface{}) error {
	return m.Called(ctx, subject, data).Error(0)
}

func (m *MockPublisher) Close() {}

// failingUoW reads from a real store but fails every unit of work.
type failingUoW struct {
	persistent.UnitOfWork
	err error
}

func (f failingUoW) RunInTx(context.Context, func(persistent.Repositories) error) error {
	return f.err
}

var errStoreDown = errors.New("connection refused")

type engineSuite struct {
	suite.Suite
	ctx        context.Context
	store      *memory.Store
	dispatcher *recordingDispatcher
	publisher  *MockPublisher

	listings     ListingUseCase
	requests     RequestUseCase
	matching     MatchingUseCase
	transactions TransactionUseCase
	feedback     FeedbackUseCase
}

func (s *engineSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.NewStore()
	for _, id := range []string{donorID, seeker1, seeker2, seeker3, moderatorID} {
		s.store.PutUser(models.User{ID: id, Username: id, Email: id + "@example.com"})
	}

	s.dispatcher = &recordingDispatcher{}
	s.publisher = new(MockPublisher)
	s.publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()

	s.build(s.store)
}

func (s *engineSuite) build(uow persistent.UnitOfWork) {
	log := logger.NewWithZap(zap.NewNop())
	annotator := scoring.NewAnnotator(scoring.NeutralScorer{}, 50*time.Millisecond, nil, log)

	s.listings = NewListingUseCase(uow, nil, log)
	s.requests = NewRequestUseCase(uow, annotator, nil, log)
	s.matching = NewMatchingUseCase(uow, s.dispatcher, s.publisher, nil, log)
	s.transactions = NewTransactionUseCase(uow, s.publisher, nil, log)
	s.feedback = NewFeedbackUseCase(uow, s.publisher, nil, log)
}

func (s *engineSuite) approvedListing() *entity.Listing {
	listing, err := s.listings.CreateListing(s.ctx, donorID, entity.ListingAttrs{
		Kind:     entity.ListingKindDonation,
		Title:    "Winter coat",
		Category: "clothing",
	})
	s.Require().NoError(err)

	listing, err = s.listings.SetApproval(s.ctx, listing.ID, true)
	s.Require().NoError(err)
	return listing
}

func (s *engineSuite) request(listingID, seekerID string) *entity.Request {
	r, err := s.requests.CreateRequest(s.ctx, listingID, seekerID, "I need this")
	s.Require().NoError(err)
	return r
}

func (s *engineSuite) requestStatus(id string) entity.RequestStatus {
	r, err := s.store.Repositories().Requests.GetByID(s.ctx, id)
	s.Require().NoError(err)
	return r.Status
}

func (s *engineSuite) listingStatus(id string) entity.ListingStatus {
	l, err := s.store.Repositories().Listings.GetByID(s.ctx, id)
	s.Require().NoError(err)
	return l.Status
}

func (s *engineSuite) reputation(id string) *entity.Reputation {
	rep, err := s.feedback.GetReputation(s.ctx, id)
	s.Require().NoError(err)
	return rep
}

func (s *engineSuite) transactionCount(listingID string) int {
	txs, err := s.store.Repositories().Transactions.ListByParticipant(s.ctx, donorID)
	s.Require().NoError(err)
	n := 0
	for _, tx := range txs {
		if tx.ListingID == listingID {
			n++
		}
	}
	return n
}

// acceptedTransaction returns a DONATED listing's transaction for seeker1.
func (s *engineSuite) acceptedTransaction() (*entity.Listing, *entity.Transaction) {
	listing := s.approvedListing()
	r := s.request(listing.ID, seeker1)
	tx, err := s.matching.AcceptRequest(s.ctx, listing.ID, r.ID, donorID)
	s.Require().NoError(err)
	return listing, tx
}
