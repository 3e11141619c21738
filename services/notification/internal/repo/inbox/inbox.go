package inbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"donorseeker/services/notification/internal/entity"

	"github.com/redis/go-redis/v9"
)

const (
	maxEntries = 100
	retention  = 30 * 24 * time.Hour
	seenTTL    = 7 * 24 * time.Hour
)

// Inbox keeps each user's latest notifications and remembers which events
// were already handled.
type Inbox interface {
	Seen(ctx context.Context, eventID string) (bool, error)
	MarkSeen(ctx context.Context, eventID string) error
	Add(ctx context.Context, n *entity.Notification) error
	List(ctx context.Context, userID string, limit, offset int) ([]entity.Notification, int64, error)
}

type redisInbox struct {
	client *redis.Client
}

func NewRedisInbox(client *redis.Client) Inbox {
	return &redisInbox{client: client}
}

func userKey(userID string) string {
	return fmt.Sprintf("notifications:%s", userID)
}

func deliveredKey(notificationID, userID string) string {
	return fmt.Sprintf("notifications:delivered:%s:%s", notificationID, userID)
}

func seenKey(eventID string) string {
	return fmt.Sprintf("notifications:seen:%s", eventID)
}

func (i *redisInbox) Seen(ctx context.Context, eventID string) (bool, error) {
	n, err := i.client.Exists(ctx, seenKey(eventID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check event %s: %w", eventID, err)
	}
	return n > 0, nil
}

func (i *redisInbox) MarkSeen(ctx context.Context, eventID string) error {
	if err := i.client.Set(ctx, seenKey(eventID), 1, seenTTL).Err(); err != nil {
		return fmt.Errorf("failed to mark event %s: %w", eventID, err)
	}
	return nil
}

// Add pushes n to the front of the user's list, keeps the newest maxEntries
// and publishes it on the user's channel for live listeners. A notification
// already stored for the same id and user is not stored again, so a task
// redelivered after a partial failure does not duplicate entries.
func (i *redisInbox) Add(ctx context.Context, n *entity.Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	key := userKey(n.UserID)
	marker := deliveredKey(n.ID, n.UserID)

	err = i.client.Watch(ctx, func(tx *redis.Tx) error {
		stored, err := tx.Exists(ctx, marker).Result()
		if err != nil {
			return err
		}
		if stored > 0 {
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.LPush(ctx, key, payload)
			pipe.LTrim(ctx, key, 0, maxEntries-1)
			pipe.Expire(ctx, key, retention)
			pipe.Set(ctx, marker, 1, seenTTL)
			pipe.Publish(ctx, key, payload)
			return nil
		})
		return err
	}, marker)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, redis.TxFailedErr):
		// The marker changed under us: a concurrent delivery stored it.
		return nil
	default:
		return fmt.Errorf("failed to store notification for %s: %w", n.UserID, err)
	}
}

func (i *redisInbox) List(ctx context.Context, userID string, limit, offset int) ([]entity.Notification, int64, error) {
	key := userKey(userID)

	raw, err := i.client.LRange(ctx, key, int64(offset), int64(offset+limit-1)).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get notifications: %w", err)
	}

	notifications := make([]entity.Notification, 0, len(raw))
	for _, item := range raw {
		var n entity.Notification
		if err := json.Unmarshal([]byte(item), &n); err == nil {
			notifications = append(notifications, n)
		}
	}

	total, err := i.client.LLen(ctx, key).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}
	return notifications, total, nil
}
