package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"donorseeker/pkg/logger"
	"donorseeker/services/matching/internal/entity"
	"donorseeker/services/matching/internal/notifier"
	"donorseeker/services/matching/internal/repo/memory"
	"donorseeker/services/matching/internal/repo/persistent"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyAccepted(ctx context.Context, n notifier.AcceptedNotification) error {
	return m.Called(ctx, n).Error(0)
}

func newTestRelay(t *testing.T, n notifier.Notifier) (*Relay, persistent.OutboxRepository) {
	t.Helper()
	repo := memory.NewStore().Repositories().Outbox
	relay := NewRelay(repo, n, Config{MaxAttempts: 3, BaseBackoff: time.Minute}, nil, logger.NewWithZap(zap.NewNop()))
	return relay, repo
}

func acceptedEvent(t *testing.T, repo persistent.OutboxRepository) *entity.OutboxEvent {
	t.Helper()
	payload, err := json.Marshal(entity.AcceptedPayload{
		Transaction:   entity.Transaction{ID: "tx-1", ListingID: "l-1", DonorID: "donor", ReceiverID: "seeker"},
		ListingTitle:  "Sofa",
		SeekerContact: entity.Contact{UserID: "seeker"},
		DonorContact:  entity.Contact{UserID: "donor", Email: "dana@example.com"},
	})
	require.NoError(t, err)

	evt := &entity.OutboxEvent{EventType: entity.EventDonationAccepted, AggregateID: "tx-1", Payload: payload}
	require.NoError(t, repo.Create(context.Background(), evt))
	return evt
}

func TestRelay_DispatchPublishes(t *testing.T) {
	n := new(MockNotifier)
	n.On("NotifyAccepted", mock.Anything, mock.MatchedBy(func(note notifier.AcceptedNotification) bool {
		return note.Transaction.ID == "tx-1" && note.DonorContact.Email == "dana@example.com"
	})).Return(nil).Once()

	relay, repo := newTestRelay(t, n)
	evt := acceptedEvent(t, repo)

	relay.Dispatch(context.Background(), evt)

	got, err := repo.GetByID(context.Background(), evt.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OutboxStatusPublished, got.Status)
	assert.NotNil(t, got.PublishedAt)
	n.AssertExpectations(t)
}

func TestRelay_FailedDispatchIsRetried(t *testing.T) {
	n := new(MockNotifier)
	n.On("NotifyAccepted", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()
	n.On("NotifyAccepted", mock.Anything, mock.Anything).Return(nil).Once()

	relay, repo := newTestRelay(t, n)
	evt := acceptedEvent(t, repo)
	ctx := context.Background()

	relay.Dispatch(ctx, evt)

	got, err := repo.GetByID(ctx, evt.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OutboxStatusFailed, got.Status)
	assert.Equal(t, 1, got.Attempts)
	assert.Equal(t, "broker down", got.LastError)

	// Still inside the backoff window.
	relay.now = func() time.Time { return time.Now().Add(30 * time.Second) }
	published, err := relay.RelayOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, published)

	relay.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	published, err = relay.RelayOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, published)

	got, err = repo.GetByID(ctx, evt.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OutboxStatusPublished, got.Status)
	n.AssertExpectations(t)
}

func TestRelay_GivesUpAfterMaxAttempts(t *testing.T) {
	n := new(MockNotifier)
	n.On("NotifyAccepted", mock.Anything, mock.Anything).Return(errors.New("still down"))

	relay, repo := newTestRelay(t, n)
	evt := acceptedEvent(t, repo)
	ctx := context.Background()

	future := time.Now()
	for i := 0; i < 5; i++ {
		future = future.Add(time.Hour)
		at := future
		relay.now = func() time.Time { return at }
		_, err := relay.RelayOnce(ctx)
		require.NoError(t, err)
	}

	got, err := repo.GetByID(ctx, evt.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Attempts)
	n.AssertNumberOfCalls(t, "NotifyAccepted", 3)
}

func TestRelay_SkipsFreshEvents(t *testing.T) {
	n := new(MockNotifier)
	relay, repo := newTestRelay(t, n)
	acceptedEvent(t, repo)

	published, err := relay.RelayOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, published)
	n.AssertNotCalled(t, "NotifyAccepted", mock.Anything, mock.Anything)
}

func TestRelay_UnknownEventTypeFails(t *testing.T) {
	n := new(MockNotifier)
	relay, repo := newTestRelay(t, n)
	evt := &entity.OutboxEvent{EventType: "mystery", AggregateID: "x", Payload: []byte(`{}`)}
	require.NoError(t, repo.Create(context.Background(), evt))

	relay.Dispatch(context.Background(), evt)

	got, err := repo.GetByID(context.Background(), evt.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OutboxStatusFailed, got.Status)
}

func TestRelay_Backoff(t *testing.T) {
	relay, _ := newTestRelay(t, new(MockNotifier))
	relay.cfg.MaxBackoff = 5 * time.Minute

	assert.Zero(t, relay.backoff(0))
	assert.Equal(t, time.Minute, relay.backoff(1))
	assert.Equal(t, 2*time.Minute, relay.backoff(2))
	assert.Equal(t, 4*time.Minute, relay.backoff(3))
	assert.Equal(t, 5*time.Minute, relay.backoff(4))
	assert.Equal(t, 5*time.Minute, relay.backoff(40))
	assert.Equal(t, relay.backoff(3), relay.backoff(3))
}

func TestRelay_RunStopsOnCancel(t *testing.T) {
	relay, _ := newTestRelay(t, new(MockNotifier))
	relay.cfg.Interval = 5 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- relay.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("relay did not stop")
	}
}
