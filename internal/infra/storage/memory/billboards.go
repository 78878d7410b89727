package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	domainbillboard "adboard/internal/domain/billboard"
)

// BillboardRepository stores billboards in memory.
type BillboardRepository struct {
	mu   sync.RWMutex
	byID map[domainbillboard.ID]*domainbillboard.Billboard
}

func NewBillboardRepository() *BillboardRepository {
	return &BillboardRepository{
		byID: make(map[domainbillboard.ID]*domainbillboard.Billboard),
	}
}

func (r *BillboardRepository) ByID(ctx context.Context, id domainbillboard.ID) (*domainbillboard.Billboard, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if board, ok := r.byID[id]; ok {
		return cloneBillboard(board), nil
	}
	return nil, domainbillboard.ErrNotFound
}

func (r *BillboardRepository) Save(ctx context.Context, b *domainbillboard.Billboard) error {
	if b == nil || strings.TrimSpace(string(b.ID)) == "" {
		return domainbillboard.ErrIDRequired
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[b.ID] = cloneBillboard(b)
	return nil
}

func (r *BillboardRepository) Delete(ctx context.Context, id domainbillboard.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return domainbillboard.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *BillboardRepository) Search(ctx context.Context, params domainbillboard.SearchParams) (domainbillboard.SearchResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matches []*domainbillboard.Billboard
	for _, board := range r.byID {
		if matchesSearch(board, params) {
			matches = append(matches, cloneBillboard(board))
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
	total := len(matches)
	return domainbillboard.SearchResult{
		Items: paginate(matches, params.Limit, params.Offset),
		Total: total,
	}, nil
}

func (r *BillboardRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID), nil
}

func (r *BillboardRepository) CountByStatus(ctx context.Context, status domainbillboard.Status) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, board := range r.byID {
		if board.Status == status {
			count++
		}
	}
	return count, nil
}

func matchesSearch(b *domainbillboard.Billboard, params domainbillboard.SearchParams) bool {
	if params.OwnerID != "" && b.OwnerID != params.OwnerID {
		return false
	}
	if params.BookableOnly && !b.Bookable() {
		return false
	}
	if params.Size != "" && !strings.Contains(strings.ToLower(b.Size), strings.ToLower(params.Size)) {
		return false
	}
	if params.PriceMin > 0 && b.PricePerDay.Amount < params.PriceMin {
		return false
	}
	if params.PriceMax > 0 && b.PricePerDay.Amount > params.PriceMax {
		return false
	}
	if query := strings.ToLower(strings.TrimSpace(params.Query)); query != "" {
		haystack := strings.ToLower(b.Name + " " + b.Location + " " + b.Description)
		if !strings.Contains(haystack, query) {
			return false
		}
	}
	return true
}

func cloneBillboard(b *domainbillboard.Billboard) *domainbillboard.Billboard {
	if b == nil {
		return nil
	}
	copyBoard := *b
	return &copyBoard
}

var _ domainbillboard.Repository = (*BillboardRepository)(nil)
