// Package memory is an in-process UnitOfWork. Every call, and every RunInTx
// as a whole, runs under one mutex; a transaction works on a copy of the
// state that replaces the live state only when fn succeeds.
package memory

import (
	"context"
	"sync"

	"donorseeker/pkg/models"
	"donorseeker/services/matching/internal/entity"
	"donorseeker/services/matching/internal/repo/persistent"
)

type state struct {
	listings     map[string]entity.Listing
	requests     map[string]entity.Request
	transactions map[string]entity.Transaction
	feedback     map[string]entity.Feedback
	users        map[string]models.User
	outbox       map[string]entity.OutboxEvent
}

func newState() *state {
	return &state{
		listings:     make(map[string]entity.Listing),
		requests:     make(map[string]entity.Request),
		transactions: make(map[string]entity.Transaction),
		feedback:     make(map[string]entity.Feedback),
		users:        make(map[string]models.User),
		outbox:       make(map[string]entity.OutboxEvent),
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.listings {
		c.listings[k] = v
	}
	for k, v := range s.requests {
		c.requests[k] = v
	}
	for k, v := range s.transactions {
		c.transactions[k] = v
	}
	for k, v := range s.feedback {
		c.feedback[k] = v
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.outbox {
		c.outbox[k] = v
	}
	return c
}

type Store struct {
	mu    sync.Mutex
	state *state
}

func NewStore() *Store {
	return &Store{state: newState()}
}

// PutUser seeds a user row.
func (s *Store) PutUser(u models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.users[u.ID] = u
}

// handle binds repositories either to the live state (taking the lock per
// call) or to a transaction's private copy (lock already held).
type handle struct {
	store *Store
	tx    *state
}

func (h *handle) do(fn func(st *state) error) error {
	if h.tx != nil {
		return fn(h.tx)
	}
	h.store.mu.Lock()
	defer h.store.mu.Unlock()
	return fn(h.store.state)
}

func (s *Store) repositories(h *handle) persistent.Repositories {
	return persistent.Repositories{
		Listings:     &listingRepo{h: h},
		Requests:     &requestRepo{h: h},
		Transactions: &transactionRepo{h: h},
		Feedback:     &feedbackRepo{h: h},
		Users:        &userRepo{h: h},
		Outbox:       &outboxRepo{h: h},
	}
}

func (s *Store) Repositories() persistent.Repositories {
	return s.repositories(&handle{store: s})
}

func (s *Store) RunInTx(ctx context.Context, fn func(repos persistent.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := s.state.clone()
	if err := fn(s.repositories(&handle{store: s, tx: tx})); err != nil {
		return err
	}
	s.state = tx
	return nil
}

var _ persistent.UnitOfWork = (*Store)(nil)
