package usecase

import (
	"context"
	"errors"
	"strings"

	"donorseeker/pkg/events"
	"donorseeker/pkg/logger"
	"donorseeker/services/matching/internal/entity"
	"donorseeker/services/matching/internal/metrics"
	"donorseeker/services/matching/internal/repo/persistent"

	"go.opentelemetry.io/otel/attribute"
)

const maxCommentLength = 1000

type FeedbackUseCase interface {
	SubmitFeedback(ctx context.Context, transactionID, actorID string, rating int, comment string) (*entity.Feedback, error)
	GetFeedback(ctx context.Context, transactionID, actorID string) (*entity.Feedback, error)
	GetReputation(ctx context.Context, userID string) (*entity.Reputation, error)
}

type feedbackUseCase struct {
	uow       persistent.UnitOfWork
	publisher events.Publisher
	metrics   *metrics.Metrics
	logger    *logger.Logger
}

func NewFeedbackUseCase(uow persistent.UnitOfWork, publisher events.Publisher, m *metrics.Metrics, log *logger.Logger) FeedbackUseCase {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &feedbackUseCase{uow: uow, publisher: publisher, metrics: m, logger: log}
}

func (uc *feedbackUseCase) SubmitFeedback(ctx context.Context, transactionID, actorID string, rating int, comment string) (feedback *entity.Feedback, err error) {
	ctx, done := startOp(ctx, uc.metrics, "submit_feedback", attribute.String("transaction_id", transactionID))
	defer done(&err)

	repos := uc.uow.Repositories()
	tx, err := repos.Transactions.GetByID(ctx, transactionID)
	if err != nil {
		return nil, storeErr("get transaction", err)
	}
	if tx.ReceiverID != actorID {
		return nil, entity.ErrForbidden
	}
	if !tx.IsReceived {
		return nil, entity.ErrNotReceived
	}

	_, err = repos.Feedback.GetByTransaction(ctx, transactionID)
	switch {
	case err == nil:
		return nil, entity.ErrDuplicateFeedback
	case !errors.Is(err, persistent.ErrNotFound):
		return nil, storeErr("get feedback", err)
	}

	if !entity.ValidRating(rating) {
		return nil, entity.ErrInvalidRating
	}

	comment = entity.Truncate(strings.TrimSpace(comment), maxCommentLength)

	err = uc.uow.RunInTx(ctx, func(repos persistent.Repositories) error {
		feedback = &entity.Feedback{
			TransactionID: transactionID,
			GiverID:       tx.ReceiverID,
			ReceiverID:    tx.DonorID,
			Rating:        rating,
			Comment:       comment,
		}
		// The unique transaction_id settles concurrent submissions.
		if err := repos.Feedback.Create(ctx, feedback); err != nil {
			if errors.Is(err, persistent.ErrAlreadyExists) {
				return entity.ErrDuplicateFeedback
			}
			return storeErr("create feedback", err)
		}

		if err := repos.Users.AddRating(ctx, tx.DonorID, rating); err != nil {
			return storeErr("update donor rating", err)
		}
		return nil
	})
	if err != nil {
		return nil, storeErr("submit feedback", err)
	}

	uc.logger.Info("[MATCHING] Feedback %s on transaction %s: rating %d", feedback.ID, transactionID, rating)
	if perr := uc.publisher.Publish(ctx, events.SubjectFeedbackSubmitted, feedback); perr != nil {
		uc.logger.Warn("[MATCHING] Failed to publish %s for transaction %s: %v", events.SubjectFeedbackSubmitted, transactionID, perr)
	}
	return feedback, nil
}

func (uc *feedbackUseCase) GetFeedback(ctx context.Context, transactionID, actorID string) (*entity.Feedback, error) {
	repos := uc.uow.Repositories()
	tx, err := repos.Transactions.GetByID(ctx, transactionID)
	if err != nil {
		return nil, storeErr("get transaction", err)
	}
	if !tx.IsParticipant(actorID) {
		return nil, entity.ErrForbidden
	}

	feedback, err := repos.Feedback.GetByTransaction(ctx, transactionID)
	if err != nil {
		return nil, storeErr("get feedback", err)
	}
	return feedback, nil
}

func (uc *feedbackUseCase) GetReputation(ctx context.Context, userID string) (*entity.Reputation, error) {
	rep, err := uc.uow.Repositories().Users.GetReputation(ctx, userID)
	if err != nil {
		return nil, storeErr("get reputation", err)
	}
	return rep, nil
}
