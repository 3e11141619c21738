package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"donorseeker/pkg/logger"
	"donorseeker/pkg/queue"
	"donorseeker/services/notification/internal/entity"
	"donorseeker/services/notification/internal/mailer"
	"donorseeker/services/notification/internal/repo/inbox"
)

const emailTimeout = 15 * time.Second

type NotificationUseCase interface {
	HandleDonationAccepted(ctx context.Context, task queue.DonationAcceptedTask) error
	GetNotifications(ctx context.Context, userID string, limit, offset int) ([]entity.Notification, int64, error)
}

type notificationUseCase struct {
	inbox  inbox.Inbox
	mailer mailer.Sender
	logger *logger.Logger
}

func NewNotificationUseCase(inbox inbox.Inbox, mailer mailer.Sender, logger *logger.Logger) NotificationUseCase {
	return &notificationUseCase{
		inbox:  inbox,
		mailer: mailer,
		logger: logger,
	}
}

// HandleDonationAccepted tells the seeker who to contact and the donor who
// is coming. The event id makes redeliveries no-ops, and the inbox stores a
// note at most once per event and user, so a retry after a partial failure
// only fills in what is missing. Email is best-effort; only inbox failures
// are returned so the task gets requeued.
func (uc *notificationUseCase) HandleDonationAccepted(ctx context.Context, task queue.DonationAcceptedTask) error {
	if task.EventID == "" {
		return fmt.Errorf("donation_accepted task without event id")
	}

	seen, err := uc.inbox.Seen(ctx, task.EventID)
	if err != nil {
		return err
	}
	if seen {
		uc.logger.Info("[NOTIFICATION HANDLER] Event %s already handled, skipping", task.EventID)
		return nil
	}

	data := map[string]interface{}{
		"transaction_id": task.TransactionID,
		"listing_id":     task.ListingID,
	}
	createdAt := task.AcceptedAt.UTC().Format(time.RFC3339)

	seekerNote := &entity.Notification{
		ID:        task.EventID,
		UserID:    task.Seeker.UserID,
		Title:     "Your request was accepted",
		Message:   fmt.Sprintf("%s accepted your request for %q. %s", task.Donor.Username, task.ListingTitle, contactLine(task.Donor)),
		Type:      entity.TypeDonationAccepted,
		Data:      withContact(data, "donor", task.Donor),
		CreatedAt: createdAt,
	}
	donorNote := &entity.Notification{
		ID:        task.EventID,
		UserID:    task.Donor.UserID,
		Title:     "You accepted a request",
		Message:   fmt.Sprintf("%s will pick up %q. %s", task.Seeker.Username, task.ListingTitle, contactLine(task.Seeker)),
		Type:      entity.TypeDonationAccepted,
		Data:      withContact(data, "seeker", task.Seeker),
		CreatedAt: createdAt,
	}

	for _, n := range []*entity.Notification{seekerNote, donorNote} {
		if err := uc.inbox.Add(ctx, n); err != nil {
			return err
		}
	}

	uc.email(ctx, task.Seeker.Email, seekerNote)
	uc.email(ctx, task.Donor.Email, donorNote)

	if err := uc.inbox.MarkSeen(ctx, task.EventID); err != nil {
		uc.logger.Warn("[NOTIFICATION HANDLER] Failed to mark event %s handled: %v", task.EventID, err)
	}

	uc.logger.Info("[NOTIFICATION HANDLER] Donation accepted: transaction=%s seeker=%s donor=%s",
		task.TransactionID, task.Seeker.UserID, task.Donor.UserID)
	return nil
}

func (uc *notificationUseCase) email(ctx context.Context, to string, n *entity.Notification) {
	if to == "" {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, emailTimeout)
	defer cancel()

	if err := uc.mailer.Send(ctx, to, n.Title, n.Message); err != nil {
		uc.logger.Warn("[NOTIFICATION HANDLER] Email for event %s not delivered: %v", n.ID, err)
	}
}

func contactLine(c queue.Contact) string {
	parts := []string{"Email: " + c.Email}
	if c.Phone != "" {
		parts = append(parts, "Phone: "+c.Phone)
	}
	return strings.Join(parts, ", ")
}

func withContact(base map[string]interface{}, role string, c queue.Contact) map[string]interface{} {
	out := make(map[string]interface{}, len(base)+1)
	for k, v := range base {
		out[k] = v
	}
	out[role] = c
	return out
}

func (uc *notificationUseCase) GetNotifications(ctx context.Context, userID string, limit, offset int) ([]entity.Notification, int64, error) {
	return uc.inbox.List(ctx, userID, limit, offset)
}
