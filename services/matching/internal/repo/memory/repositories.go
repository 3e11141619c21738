package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"donorseeker/services/matching/internal/entity"
	"donorseeker/services/matching/internal/repo/persistent"

	"github.com/google/uuid"
)

var clock struct {
	sync.Mutex
	last time.Time
}

// tick is strictly increasing so creation order survives coarse clocks.
func tick() time.Time {
	clock.Lock()
	defer clock.Unlock()
	now := time.Now().UTC()
	if !now.After(clock.last) {
		now = clock.last.Add(time.Microsecond)
	}
	clock.last = now
	return now
}

func stamp(id *string, created, updated *time.Time) {
	now := tick()
	if *id == "" {
		*id = uuid.New().String()
	}
	if created.IsZero() {
		*created = now
	}
	if updated != nil && updated.IsZero() {
		*updated = now
	}
}

func sortByCreated[T any](items []*T, key func(*T) (time.Time, string), desc bool) {
	sort.Slice(items, func(i, j int) bool {
		ti, idi := key(items[i])
		tj, idj := key(items[j])
		if !ti.Equal(tj) {
			if desc {
				return ti.After(tj)
			}
			return ti.Before(tj)
		}
		return idi < idj
	})
}

type listingRepo struct{ h *handle }

func listingKey(l *entity.Listing) (time.Time, string) { return l.CreatedAt, l.ID }

func (r *listingRepo) Create(ctx context.Context, listing *entity.Listing) error {
	return r.h.do(func(st *state) error {
		stamp(&listing.ID, &listing.CreatedAt, &listing.UpdatedAt)
		if _, ok := st.listings[listing.ID]; ok {
			return persistent.ErrAlreadyExists
		}
		st.listings[listing.ID] = *listing
		return nil
	})
}

func (r *listingRepo) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	var out *entity.Listing
	err := r.h.do(func(st *state) error {
		l, ok := st.listings[id]
		if !ok {
			return persistent.ErrNotFound
		}
		out = &l
		return nil
	})
	return out, err
}

func (r *listingRepo) GetForShare(ctx context.Context, id string) (*entity.Listing, error) {
	return r.GetByID(ctx, id)
}

func (r *listingRepo) TransitionStatus(ctx context.Context, id string, from, to entity.ListingStatus) (bool, error) {
	var ok bool
	err := r.h.do(func(st *state) error {
		l, found := st.listings[id]
		if !found || l.Status != from {
			return nil
		}
		l.Status = to
		l.UpdatedAt = time.Now().UTC()
		st.listings[id] = l
		ok = true
		return nil
	})
	return ok, err
}

func (r *listingRepo) SetApproval(ctx context.Context, id string, from entity.ListingStatus, approved bool) (bool, error) {
	var ok bool
	err := r.h.do(func(st *state) error {
		l, found := st.listings[id]
		if !found || l.Status != from {
			return nil
		}
		l.Approved = approved
		l.Status = entity.ListingStatusRejected
		if approved {
			l.Status = entity.ListingStatusApproved
		}
		l.UpdatedAt = time.Now().UTC()
		st.listings[id] = l
		ok = true
		return nil
	})
	return ok, err
}

func (r *listingRepo) DeleteIfStatus(ctx context.Context, id string, statuses ...entity.ListingStatus) (bool, error) {
	var ok bool
	err := r.h.do(func(st *state) error {
		l, found := st.listings[id]
		if !found {
			return nil
		}
		for _, s := range statuses {
			if l.Status == s {
				delete(st.listings, id)
				ok = true
				return nil
			}
		}
		return nil
	})
	return ok, err
}

func (r *listingRepo) ListByStatus(ctx context.Context, status entity.ListingStatus, limit, offset int) ([]*entity.Listing, error) {
	var out []*entity.Listing
	err := r.h.do(func(st *state) error {
		for _, l := range st.listings {
			if l.Status == status {
				out = append(out, &l)
			}
		}
		return nil
	})
	sortByCreated(out, listingKey, false)
	return paginate(out, limit, offset), err
}

func (r *listingRepo) ListByOwner(ctx context.Context, ownerID string) ([]*entity.Listing, error) {
	var out []*entity.Listing
	err := r.h.do(func(st *state) error {
		for _, l := range st.listings {
			if l.OwnerID == ownerID {
				out = append(out, &l)
			}
		}
		return nil
	})
	sortByCreated(out, listingKey, true)
	return out, err
}

func paginate[T any](items []*T, limit, offset int) []*T {
	if limit <= 0 {
		return items
	}
	if offset >= len(items) {
		return []*T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

type requestRepo struct{ h *handle }

func requestKey(r *entity.Request) (time.Time, string) { return r.CreatedAt, r.ID }

func (r *requestRepo) Create(ctx context.Context, request *entity.Request) error {
	return r.h.do(func(st *state) error {
		if request.Status == entity.RequestStatusPending {
			for _, existing := range st.requests {
				if existing.ListingID == request.ListingID &&
					existing.SeekerID == request.SeekerID &&
					existing.Status == entity.RequestStatusPending {
					return persistent.ErrAlreadyExists
				}
			}
		}
		stamp(&request.ID, &request.CreatedAt, &request.UpdatedAt)
		st.requests[request.ID] = *request
		return nil
	})
}

func (r *requestRepo) GetByID(ctx context.Context, id string) (*entity.Request, error) {
	var out *entity.Request
	err := r.h.do(func(st *state) error {
		req, ok := st.requests[id]
		if !ok {
			return persistent.ErrNotFound
		}
		out = &req
		return nil
	})
	return out, err
}

func (r *requestRepo) count(listingID string, match func(entity.Request) bool) (bool, error) {
	var found bool
	err := r.h.do(func(st *state) error {
		for _, req := range st.requests {
			if req.ListingID == listingID && match(req) {
				found = true
				return nil
			}
		}
		return nil
	})
	return found, err
}

func (r *requestRepo) HasPending(ctx context.Context, listingID, seekerID string) (bool, error) {
	return r.count(listingID, func(req entity.Request) bool {
		return req.SeekerID == seekerID && req.Status == entity.RequestStatusPending
	})
}

func (r *requestRepo) HasAccepted(ctx context.Context, listingID string) (bool, error) {
	return r.count(listingID, func(req entity.Request) bool {
		return req.Status == entity.RequestStatusAccepted
	})
}

func (r *requestRepo) TransitionStatus(ctx context.Context, id string, from, to entity.RequestStatus) (bool, error) {
	var ok bool
	err := r.h.do(func(st *state) error {
		req, found := st.requests[id]
		if !found || req.Status != from {
			return nil
		}
		req.Status = to
		req.UpdatedAt = time.Now().UTC()
		st.requests[id] = req
		ok = true
		return nil
	})
	return ok, err
}

func (r *requestRepo) RejectPendingExcept(ctx context.Context, listingID, exceptID string) (int64, error) {
	var n int64
	err := r.h.do(func(st *state) error {
		now := time.Now().UTC()
		for id, req := range st.requests {
			if req.ListingID == listingID && id != exceptID && req.Status == entity.RequestStatusPending {
				req.Status = entity.RequestStatusRejected
				req.UpdatedAt = now
				st.requests[id] = req
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *requestRepo) DeleteByListing(ctx context.Context, listingID string) error {
	return r.h.do(func(st *state) error {
		for id, req := range st.requests {
			if req.ListingID == listingID {
				delete(st.requests, id)
			}
		}
		return nil
	})
}

func (r *requestRepo) ListPendingByListing(ctx context.Context, listingID string) ([]*entity.Request, error) {
	var out []*entity.Request
	err := r.h.do(func(st *state) error {
		for _, req := range st.requests {
			if req.ListingID == listingID && req.Status == entity.RequestStatusPending {
				out = append(out, &req)
			}
		}
		return nil
	})
	sortByCreated(out, requestKey, false)
	return out, err
}

func (r *requestRepo) ListBySeeker(ctx context.Context, seekerID string) ([]*entity.Request, error) {
	var out []*entity.Request
	err := r.h.do(func(st *state) error {
		for _, req := range st.requests {
			if req.SeekerID == seekerID {
				out = append(out, &req)
			}
		}
		return nil
	})
	sortByCreated(out, requestKey, true)
	return out, err
}
