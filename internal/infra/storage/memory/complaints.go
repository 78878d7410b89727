package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	domaincomplaint "adboard/internal/domain/complaint"
	domainuser "adboard/internal/domain/user"
)

// ComplaintRepository stores complaints in memory.
type ComplaintRepository struct {
	mu   sync.RWMutex
	byID map[domaincomplaint.ID]*domaincomplaint.Complaint
}

func NewComplaintRepository() *ComplaintRepository {
	return &ComplaintRepository{
		byID: make(map[domaincomplaint.ID]*domaincomplaint.Complaint),
	}
}

func (r *ComplaintRepository) ByID(ctx context.Context, id domaincomplaint.ID) (*domaincomplaint.Complaint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if complaint, ok := r.byID[id]; ok {
		return cloneComplaint(complaint), nil
	}
	return nil, domaincomplaint.ErrNotFound
}

func (r *ComplaintRepository) Save(ctx context.Context, c *domaincomplaint.Complaint) error {
	if c == nil || strings.TrimSpace(string(c.ID)) == "" {
		return domaincomplaint.ErrNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[c.ID] = cloneComplaint(c)
	return nil
}

func (r *ComplaintRepository) ListByAuthor(ctx context.Context, id domainuser.ID, params domaincomplaint.ListParams) ([]*domaincomplaint.Complaint, int, error) {
	return r.list(func(c *domaincomplaint.Complaint) bool { return c.AuthorID == id }, params)
}

func (r *ComplaintRepository) ListAll(ctx context.Context, params domaincomplaint.ListParams) ([]*domaincomplaint.Complaint, int, error) {
	return r.list(func(*domaincomplaint.Complaint) bool { return true }, params)
}

func (r *ComplaintRepository) CountByStatus(ctx context.Context, status domaincomplaint.Status) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, complaint := range r.byID {
		if complaint.Status == status {
			count++
		}
	}
	return count, nil
}

func (r *ComplaintRepository) list(match func(*domaincomplaint.Complaint) bool, params domaincomplaint.ListParams) ([]*domaincomplaint.Complaint, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var matches []*domaincomplaint.Complaint
	for _, complaint := range r.byID {
		if match(complaint) {
			matches = append(matches, cloneComplaint(complaint))
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
	total := len(matches)
	return paginate(matches, params.Limit, params.Offset), total, nil
}

func cloneComplaint(c *domaincomplaint.Complaint) *domaincomplaint.Complaint {
	if c == nil {
		return nil
	}
	copyComplaint := *c
	return &copyComplaint
}

var _ domaincomplaint.Repository = (*ComplaintRepository)(nil)
