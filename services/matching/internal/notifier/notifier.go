package notifier

import (
	"context"
	"fmt"

	"donorseeker/pkg/logger"
	"donorseeker/pkg/queue"
	"donorseeker/services/matching/internal/entity"
)

type AcceptedNotification struct {
	EventID       string
	Transaction   entity.Transaction
	ListingTitle  string
	SeekerContact entity.Contact
	DonorContact  entity.Contact
}

// Notifier tells a seeker their request was accepted. Callers treat it as
// fire-and-forget; an error only means the attempt should be retried later.
type Notifier interface {
	NotifyAccepted(ctx context.Context, n AcceptedNotification) error
}

type TaskPublisher interface {
	PublishDonationAccepted(ctx context.Context, task queue.DonationAcceptedTask) error
}

// QueueNotifier hands notifications to the notification service over RabbitMQ.
type QueueNotifier struct {
	publisher TaskPublisher
	logger    *logger.Logger
}

func NewQueueNotifier(publisher TaskPublisher, log *logger.Logger) *QueueNotifier {
	return &QueueNotifier{publisher: publisher, logger: log}
}

func (n *QueueNotifier) NotifyAccepted(ctx context.Context, note AcceptedNotification) error {
	task := queue.DonationAcceptedTask{
		EventID:       note.EventID,
		TransactionID: note.Transaction.ID,
		ListingID:     note.Transaction.ListingID,
		ListingTitle:  note.ListingTitle,
		Donor:         toQueueContact(note.DonorContact),
		Seeker:        toQueueContact(note.SeekerContact),
		AcceptedAt:    note.Transaction.CreatedAt,
	}

	if err := n.publisher.PublishDonationAccepted(ctx, task); err != nil {
		return fmt.Errorf("publish donation_accepted for transaction %s: %w", note.Transaction.ID, err)
	}
	return nil
}

func toQueueContact(c entity.Contact) queue.Contact {
	return queue.Contact{
		UserID:   c.UserID,
		Username: c.Username,
		Email:    c.Email,
		Phone:    c.Phone,
	}
}

// LogNotifier only logs; used when RabbitMQ is not configured.
type LogNotifier struct {
	logger *logger.Logger
}

func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{logger: log}
}

func (n *LogNotifier) NotifyAccepted(_ context.Context, note AcceptedNotification) error {
	n.logger.Info("[NOTIFY] Request accepted: transaction=%s seeker=%s donor=%s",
		note.Transaction.ID, note.SeekerContact.UserID, note.DonorContact.UserID)
	return nil
}
