package memory

import (
	"context"
	"time"

	"donorseeker/services/matching/internal/entity"
	"donorseeker/services/matching/internal/repo/persistent"
)

type transactionRepo struct{ h *handle }

func transactionKey(t *entity.Transaction) (time.Time, string) { return t.CreatedAt, t.ID }

func (r *transactionRepo) Create(ctx context.Context, tx *entity.Transaction) error {
	return r.h.do(func(st *state) error {
		for _, existing := range st.transactions {
			if existing.ListingID == tx.ListingID || existing.RequestID == tx.RequestID {
				return persistent.ErrAlreadyExists
			}
		}
		stamp(&tx.ID, &tx.CreatedAt, &tx.UpdatedAt)
		st.transactions[tx.ID] = *tx
		return nil
	})
}

func (r *transactionRepo) GetByID(ctx context.Context, id string) (*entity.Transaction, error) {
	var out *entity.Transaction
	err := r.h.do(func(st *state) error {
		t, ok := st.transactions[id]
		if !ok {
			return persistent.ErrNotFound
		}
		out = &t
		return nil
	})
	return out, err
}

func (r *transactionRepo) ExistsForListing(ctx context.Context, listingID string) (bool, error) {
	var found bool
	err := r.h.do(func(st *state) error {
		for _, t := range st.transactions {
			if t.ListingID == listingID {
				found = true
				return nil
			}
		}
		return nil
	})
	return found, err
}

func (r *transactionRepo) MarkReceived(ctx context.Context, id string, at time.Time) (bool, error) {
	var ok bool
	err := r.h.do(func(st *state) error {
		t, found := st.transactions[id]
		if !found || t.IsReceived {
			return nil
		}
		t.IsReceived = true
		t.CompletedAt = &at
		t.UpdatedAt = at
		st.transactions[id] = t
		ok = true
		return nil
	})
	return ok, err
}

func (r *transactionRepo) ListByParticipant(ctx context.Context, userID string) ([]*entity.Transaction, error) {
	var out []*entity.Transaction
	err := r.h.do(func(st *state) error {
		for _, t := range st.transactions {
			if t.DonorID == userID || t.ReceiverID == userID {
				out = append(out, &t)
			}
		}
		return nil
	})
	sortByCreated(out, transactionKey, true)
	return out, err
}

type feedbackRepo struct{ h *handle }

func (r *feedbackRepo) Create(ctx context.Context, feedback *entity.Feedback) error {
	return r.h.do(func(st *state) error {
		for _, existing := range st.feedback {
			if existing.TransactionID == feedback.TransactionID {
				return persistent.ErrAlreadyExists
			}
		}
		stamp(&feedback.ID, &feedback.CreatedAt, nil)
		st.feedback[feedback.ID] = *feedback
		return nil
	})
}

func (r *feedbackRepo) GetByTransaction(ctx context.Context, transactionID string) (*entity.Feedback, error) {
	var out *entity.Feedback
	err := r.h.do(func(st *state) error {
		for _, f := range st.feedback {
			if f.TransactionID == transactionID {
				out = &f
				return nil
			}
		}
		return persistent.ErrNotFound
	})
	return out, err
}

type userRepo struct{ h *handle }

func (r *userRepo) GetContact(ctx context.Context, id string) (*entity.Contact, error) {
	var out *entity.Contact
	err := r.h.do(func(st *state) error {
		u, ok := st.users[id]
		if !ok {
			return persistent.ErrNotFound
		}
		out = persistent.ToContact(&u)
		return nil
	})
	return out, err
}

func (r *userRepo) GetReputation(ctx context.Context, id string) (*entity.Reputation, error) {
	var out *entity.Reputation
	err := r.h.do(func(st *state) error {
		u, ok := st.users[id]
		if !ok {
			return persistent.ErrNotFound
		}
		out = persistent.ToReputation(&u)
		return nil
	})
	return out, err
}

func (r *userRepo) IncrementDonationCount(ctx context.Context, id string) error {
	return r.h.do(func(st *state) error {
		u, ok := st.users[id]
		if !ok {
			return persistent.ErrNotFound
		}
		u.DonationCount++
		st.users[id] = u
		return nil
	})
}

func (r *userRepo) AddRating(ctx context.Context, id string, rating int) error {
	return r.h.do(func(st *state) error {
		u, ok := st.users[id]
		if !ok {
			return persistent.ErrNotFound
		}
		u.TotalRating += rating
		u.RatingCount++
		st.users[id] = u
		return nil
	})
}

type outboxRepo struct{ h *handle }

func (r *outboxRepo) Create(ctx context.Context, event *entity.OutboxEvent) error {
	return r.h.do(func(st *state) error {
		stamp(&event.ID, &event.CreatedAt, &event.UpdatedAt)
		if event.Status == "" {
			event.Status = entity.OutboxStatusPending
		}
		st.outbox[event.ID] = *event
		return nil
	})
}

func (r *outboxRepo) GetByID(ctx context.Context, id string) (*entity.OutboxEvent, error) {
	var out *entity.OutboxEvent
	err := r.h.do(func(st *state) error {
		e, ok := st.outbox[id]
		if !ok {
			return persistent.ErrNotFound
		}
		out = &e
		return nil
	})
	return out, err
}

func (r *outboxRepo) ListDispatchable(ctx context.Context, before time.Time, maxAttempts, limit int) ([]*entity.OutboxEvent, error) {
	var out []*entity.OutboxEvent
	err := r.h.do(func(st *state) error {
		for _, e := range st.outbox {
			if e.Status == entity.OutboxStatusPublished || e.Attempts >= maxAttempts || !e.CreatedAt.Before(before) {
				continue
			}
			out = append(out, &e)
		}
		return nil
	})
	sortByCreated(out, func(e *entity.OutboxEvent) (time.Time, string) { return e.CreatedAt, e.ID }, false)
	return paginate(out, limit, 0), err
}

func (r *outboxRepo) MarkPublished(ctx context.Context, id string, at time.Time) (bool, error) {
	var ok bool
	err := r.h.do(func(st *state) error {
		e, found := st.outbox[id]
		if !found || e.Status == entity.OutboxStatusPublished {
			return nil
		}
		e.Status = entity.OutboxStatusPublished
		e.PublishedAt = &at
		e.UpdatedAt = at
		st.outbox[id] = e
		ok = true
		return nil
	})
	return ok, err
}

func (r *outboxRepo) MarkFailed(ctx context.Context, id string, reason string) error {
	return r.h.do(func(st *state) error {
		e, found := st.outbox[id]
		if !found || e.Status == entity.OutboxStatusPublished {
			return nil
		}
		e.Status = entity.OutboxStatusFailed
		e.Attempts++
		e.LastError = reason
		e.UpdatedAt = time.Now().UTC()
		st.outbox[id] = e
		return nil
	})
}
