package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"donorseeker/pkg/events"
	"donorseeker/pkg/logger"
	"donorseeker/services/matching/internal/entity"
	"donorseeker/services/matching/internal/metrics"
	"donorseeker/services/matching/internal/repo/persistent"

	"go.opentelemetry.io/otel/attribute"
)

// errAlreadyReceived aborts a receipt unit of work that lost the race to
// another confirmation. The caller reports success.
var errAlreadyReceived = errors.New("transaction already received")

type TransactionUseCase interface {
	ConfirmReceived(ctx context.Context, transactionID, actorID string) (*entity.Transaction, error)
	GetTransaction(ctx context.Context, transactionID, actorID string) (*entity.Transaction, error)
	ListByParticipant(ctx context.Context, userID string) ([]*entity.Transaction, error)
}

type transactionUseCase struct {
	uow       persistent.UnitOfWork
	publisher events.Publisher
	metrics   *metrics.Metrics
	logger    *logger.Logger
	now       func() time.Time
}

func NewTransactionUseCase(uow persistent.UnitOfWork, publisher events.Publisher, m *metrics.Metrics, log *logger.Logger) TransactionUseCase {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &transactionUseCase{
		uow:       uow,
		publisher: publisher,
		metrics:   m,
		logger:    log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (uc *transactionUseCase) ConfirmReceived(ctx context.Context, transactionID, actorID string) (tx *entity.Transaction, err error) {
	ctx, done := startOp(ctx, uc.metrics, "confirm_received", attribute.String("transaction_id", transactionID))
	defer done(&err)

	tx, err = uc.uow.Repositories().Transactions.GetByID(ctx, transactionID)
	if err != nil {
		return nil, storeErr("get transaction", err)
	}
	if tx.ReceiverID != actorID {
		return nil, entity.ErrForbidden
	}
	if tx.IsReceived {
		return tx, nil
	}

	at := uc.now()
	err = uc.uow.RunInTx(ctx, func(repos persistent.Repositories) error {
		ok, err := repos.Transactions.MarkReceived(ctx, transactionID, at)
		if err != nil {
			return storeErr("mark received", err)
		}
		if !ok {
			return errAlreadyReceived
		}

		if err := markCompleted(ctx, repos.Listings, tx.ListingID); err != nil {
			return err
		}

		if err := repos.Users.IncrementDonationCount(ctx, tx.DonorID); err != nil {
			return storeErr("increment donation count", err)
		}
		return nil
	})
	if errors.Is(err, errAlreadyReceived) {
		tx, err = uc.uow.Repositories().Transactions.GetByID(ctx, transactionID)
		if err != nil {
			return nil, storeErr("get transaction", err)
		}
		return tx, nil
	}
	if err != nil {
		return nil, storeErr("confirm received", err)
	}

	tx.IsReceived = true
	tx.CompletedAt = &at
	tx.UpdatedAt = at

	uc.logger.Info("[MATCHING] Transaction %s received; listing %s completed", transactionID, tx.ListingID)
	if perr := uc.publisher.Publish(ctx, events.SubjectDonationReceived, tx); perr != nil {
		uc.logger.Warn("[MATCHING] Failed to publish %s for transaction %s: %v", events.SubjectDonationReceived, tx.ID, perr)
	}
	return tx, nil
}

func (uc *transactionUseCase) GetTransaction(ctx context.Context, transactionID, actorID string) (*entity.Transaction, error) {
	tx, err := uc.uow.Repositories().Transactions.GetByID(ctx, transactionID)
	if err != nil {
		return nil, storeErr("get transaction", err)
	}
	if !tx.IsParticipant(actorID) {
		return nil, entity.ErrForbidden
	}
	return tx, nil
}

func (uc *transactionUseCase) ListByParticipant(ctx context.Context, userID string) ([]*entity.Transaction, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user is required", entity.ErrInvalidInput)
	}
	txs, err := uc.uow.Repositories().Transactions.ListByParticipant(ctx, userID)
	if err != nil {
		return nil, storeErr("list transactions", err)
	}
	return txs, nil
}
