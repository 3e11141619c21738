package http

import (
	"context"

	"donorseeker/services/matching/internal/entity"

	"github.com/stretchr/testify/mock"
)

type MockListingUseCase struct {
	mock.Mock
}

func (m *MockListingUseCase) CreateListing(ctx context.Context, ownerID string, attrs entity.ListingAttrs) (*entity.Listing, error) {
	args := m.Called(ctx, ownerID, attrs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Listing), args.Error(1)
}

func (m *MockListingUseCase) GetListing(ctx context.Context, id string) (*entity.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Listing), args.Error(1)
}

func (m *MockListingUseCase) IsRequestable(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockListingUseCase) SetApproval(ctx context.Context, id string, approved bool) (*entity.Listing, error) {
	args := m.Called(ctx, id, approved)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Listing), args.Error(1)
}

func (m *MockListingUseCase) DeleteListing(ctx context.Context, id, actorID string, isModerator bool) error {
	return m.Called(ctx, id, actorID, isModerator).Error(0)
}

func (m *MockListingUseCase) ListPendingModeration(ctx context.Context, limit, offset int) ([]*entity.Listing, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*entity.Listing), args.Error(1)
}

func (m *MockListingUseCase) ListByOwner(ctx context.Context, ownerID string) ([]*entity.Listing, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]*entity.Listing), args.Error(1)
}

type MockRequestUseCase struct {
	mock.Mock
}

func (m *MockRequestUseCase) CreateRequest(ctx context.Context, listingID, seekerID, message string) (*entity.Request, error) {
	args := m.Called(ctx, listingID, seekerID, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Request), args.Error(1)
}

func (m *MockRequestUseCase) CancelRequest(ctx context.Context, requestID, actorID string) (*entity.Request, error) {
	args := m.Called(ctx, requestID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Request), args.Error(1)
}

func (m *MockRequestUseCase) ListPending(ctx context.Context, listingID, actorID string) ([]*entity.Request, error) {
	args := m.Called(ctx, listingID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Request), args.Error(1)
}

func (m *MockRequestUseCase) GetRequest(ctx context.Context, requestID, actorID string) (*entity.Request, error) {
	args := m.Called(ctx, requestID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Request), args.Error(1)
}

func (m *MockRequestUseCase) ListBySeeker(ctx context.Context, seekerID string) ([]*entity.Request, error) {
	args := m.Called(ctx, seekerID)
	return args.Get(0).([]*entity.Request), args.Error(1)
}

type MockMatchingUseCase struct {
	mock.Mock
}

func (m *MockMatchingUseCase) AcceptRequest(ctx context.Context, listingID, requestID, actorID string) (*entity.Transaction, error) {
	args := m.Called(ctx, listingID, requestID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Transaction), args.Error(1)
}

func (m *MockMatchingUseCase) RejectRequest(ctx context.Context, listingID, requestID, actorID string) (*entity.Request, error) {
	args := m.Called(ctx, listingID, requestID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Request), args.Error(1)
}

type MockTransactionUseCase struct {
	mock.Mock
}

func (m *MockTransactionUseCase) ConfirmReceived(ctx context.Context, transactionID, actorID string) (*entity.Transaction, error) {
	args := m.Called(ctx, transactionID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Transaction), args.Error(1)
}

func (m *MockTransactionUseCase) GetTransaction(ctx context.Context, transactionID, actorID string) (*entity.Transaction, error) {
	args := m.Called(ctx, transactionID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Transaction), args.Error(1)
}

func (m *MockTransactionUseCase) ListByParticipant(ctx context.Context, userID string) ([]*entity.Transaction, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]*entity.Transaction), args.Error(1)
}

type MockFeedbackUseCase struct {
	mock.Mock
}

func (m *MockFeedbackUseCase) SubmitFeedback(ctx context.Context, transactionID, actorID string, rating int, comment string) (*entity.Feedback, error) {
	args := m.Called(ctx, transactionID, actorID, rating, comment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Feedback), args.Error(1)
}

func (m *MockFeedbackUseCase) GetFeedback(ctx context.Context, transactionID, actorID string) (*entity.Feedback, error) {
	args := m.Called(ctx, transactionID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Feedback), args.Error(1)
}

func (m *MockFeedbackUseCase) GetReputation(ctx context.Context, userID string) (*entity.Reputation, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Reputation), args.Error(1)
}
