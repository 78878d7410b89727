package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	domainbillboard "adboard/internal/domain/billboard"
	domainbooking "adboard/internal/domain/booking"
	domainuser "adboard/internal/domain/user"
)

// BookingRepository stores booking requests in memory.
type BookingRepository struct {
	mu   sync.RWMutex
	byID map[domainbooking.ID]*domainbooking.Request
}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{
		byID: make(map[domainbooking.ID]*domainbooking.Request),
	}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.ID) (*domainbooking.Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if request, ok := r.byID[id]; ok {
		return cloneBooking(request), nil
	}
	return nil, domainbooking.ErrNotFound
}

func (r *BookingRepository) Save(ctx context.Context, b *domainbooking.Request) error {
	if b == nil || strings.TrimSpace(string(b.ID)) == "" {
		return domainbooking.ErrNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := cloneBooking(b)
	stored.Version = b.Version + 1
	r.byID[b.ID] = stored
	b.Version = stored.Version
	return nil
}

func (r *BookingRepository) ActiveByBillboard(ctx context.Context, id domainbillboard.ID) ([]*domainbooking.Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var active []*domainbooking.Request
	for _, request := range r.byID {
		if request.BillboardID == id && request.Holding() {
			active = append(active, cloneBooking(request))
		}
	}
	return active, nil
}

func (r *BookingRepository) ListByAdvertiser(ctx context.Context, id domainuser.ID, params domainbooking.ListParams) ([]*domainbooking.Request, int, error) {
	return r.list(func(b *domainbooking.Request) bool { return b.AdvertiserID == id }, params)
}

func (r *BookingRepository) ListByBillboards(ctx context.Context, ids []domainbillboard.ID, params domainbooking.ListParams) ([]*domainbooking.Request, int, error) {
	wanted := make(map[domainbillboard.ID]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	return r.list(func(b *domainbooking.Request) bool {
		_, ok := wanted[b.BillboardID]
		return ok
	}, params)
}

func (r *BookingRepository) ListDisputed(ctx context.Context, params domainbooking.ListParams) ([]*domainbooking.Request, int, error) {
	return r.list(func(b *domainbooking.Request) bool { return b.HasDispute }, params)
}

func (r *BookingRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID), nil
}

func (r *BookingRepository) CountByStatus(ctx context.Context, status domainbooking.Status) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, request := range r.byID {
		if request.Status == status {
			count++
		}
	}
	return count, nil
}

func (r *BookingRepository) CountOpenDisputes(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, request := range r.byID {
		if request.HasDispute && request.DisputeStatus == domainbooking.DisputeOpen {
			count++
		}
	}
	return count, nil
}

func (r *BookingRepository) Latest(ctx context.Context, n int) ([]*domainbooking.Request, error) {
	all, _, err := r.list(func(*domainbooking.Request) bool { return true }, domainbooking.ListParams{Limit: n})
	return all, err
}

func (r *BookingRepository) list(match func(*domainbooking.Request) bool, params domainbooking.ListParams) ([]*domainbooking.Request, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var matches []*domainbooking.Request
	for _, request := range r.byID {
		if match(request) {
			matches = append(matches, cloneBooking(request))
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
	total := len(matches)
	return paginate(matches, params.Limit, params.Offset), total, nil
}

func cloneBooking(b *domainbooking.Request) *domainbooking.Request {
	if b == nil {
		return nil
	}
	copyBooking := *b
	return &copyBooking
}

var _ domainbooking.Repository = (*BookingRepository)(nil)
