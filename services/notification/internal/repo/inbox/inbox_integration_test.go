//go:build integration

package inbox

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"donorseeker/pkg/testutil/containers"
	"donorseeker/services/notification/internal/entity"

	"github.com/stretchr/testify/suite"
)

type RedisInboxSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	inbox Inbox
	ctx   context.Context
}

func TestRedisInboxSuite(t *testing.T) {
	suite.Run(t, new(RedisInboxSuite))
}

func (s *RedisInboxSuite) SetupSuite() {
	s.ctx = context.Background()
	s.redis = containers.NewRedisContainer(s.T())
	s.inbox = NewRedisInbox(s.redis.Client)
}

func (s *RedisInboxSuite) TearDownSuite() {
	s.redis.Terminate(s.ctx)
}

func (s *RedisInboxSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(s.ctx))
}

func (s *RedisInboxSuite) TestAddAndListNewestFirst() {
	for i := 0; i < 3; i++ {
		s.Require().NoError(s.inbox.Add(s.ctx, &entity.Notification{
			ID: fmt.Sprintf("evt-%d", i), UserID: "seeker", Title: "accepted", Type: entity.TypeDonationAccepted,
		}))
	}

	list, total, err := s.inbox.List(s.ctx, "seeker", 2, 0)
	s.Require().NoError(err)
	s.EqualValues(3, total)
	s.Require().Len(list, 2)
	s.Equal("evt-2", list[0].ID)
	s.Equal("evt-1", list[1].ID)

	list, _, err = s.inbox.List(s.ctx, "seeker", 10, 2)
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal("evt-0", list[0].ID)
}

func (s *RedisInboxSuite) TestListTrimsToMax() {
	for i := 0; i < maxEntries+5; i++ {
		s.Require().NoError(s.inbox.Add(s.ctx, &entity.Notification{ID: fmt.Sprint(i), UserID: "u"}))
	}

	_, total, err := s.inbox.List(s.ctx, "u", 1, 0)
	s.Require().NoError(err)
	s.EqualValues(maxEntries, total)
}

func (s *RedisInboxSuite) TestSeen() {
	seen, err := s.inbox.Seen(s.ctx, "evt-1")
	s.Require().NoError(err)
	s.False(seen)

	s.Require().NoError(s.inbox.MarkSeen(s.ctx, "evt-1"))

	seen, err = s.inbox.Seen(s.ctx, "evt-1")
	s.Require().NoError(err)
	s.True(seen)
}

func (s *RedisInboxSuite) TestAddIsIdempotentPerUser() {
	seekerNote := &entity.Notification{ID: "evt-1", UserID: "seeker", Title: "accepted"}
	donorNote := &entity.Notification{ID: "evt-1", UserID: "donor", Title: "you accepted"}

	// First delivery stores the seeker note, then fails before the donor
	// note; the redelivery stores both again.
	s.Require().NoError(s.inbox.Add(s.ctx, seekerNote))
	s.Require().NoError(s.inbox.Add(s.ctx, seekerNote))
	s.Require().NoError(s.inbox.Add(s.ctx, donorNote))

	_, total, err := s.inbox.List(s.ctx, "seeker", 10, 0)
	s.Require().NoError(err)
	s.EqualValues(1, total)

	list, total, err := s.inbox.List(s.ctx, "donor", 10, 0)
	s.Require().NoError(err)
	s.EqualValues(1, total)
	s.Equal("you accepted", list[0].Title)
}

func (s *RedisInboxSuite) TestAddConcurrentSameNotification() {
	note := &entity.Notification{ID: "evt-2", UserID: "seeker"}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.NoError(s.inbox.Add(s.ctx, note))
		}()
	}
	wg.Wait()

	_, total, err := s.inbox.List(s.ctx, "seeker", 10, 0)
	s.Require().NoError(err)
	s.EqualValues(1, total)
}
