package billboard

import (
	"context"
	"errors"
	"strings"
	"time"

	"adboard/internal/domain/shared/money"
	"adboard/internal/domain/user"
)

var (
	ErrIDRequired       = errors.New("billboard: id is required")
	ErrOwnerRequired    = errors.New("billboard: owner is required")
	ErrNameRequired     = errors.New("billboard: name is required")
	ErrLocationRequired = errors.New("billboard: location is required")
	ErrNegativePrice    = errors.New("billboard: price per day must be non-negative")
	ErrNotFound         = errors.New("billboard: not found")
	ErrNotBookable      = errors.New("billboard: not available for booking")
)

type ID string

// Status is the moderation axis; availability is the owner-controlled axis.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

type Billboard struct {
	ID              ID
	OwnerID         user.ID
	Name            string
	Location        string
	Size            string
	PricePerDay     money.Money
	Description     string
	ContactPhone    string
	ContactEmail    string
	ImageURL        string
	Available       bool
	Approved        bool
	Status          Status
	RejectionReason string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type SearchParams struct {
	Query    string
	Size     string
	PriceMin int64
	PriceMax int64
	// BookableOnly hides unapproved and unavailable boards from the public
	// catalog.
	BookableOnly bool
	OwnerID      user.ID
	Limit        int
	Offset       int
}

type SearchResult struct {
	Items []*Billboard
	Total int
}

type Repository interface {
	ByID(ctx context.Context, id ID) (*Billboard, error)
	Save(ctx context.Context, b *Billboard) error
	Delete(ctx context.Context, id ID) error
	Search(ctx context.Context, params SearchParams) (SearchResult, error)
	Count(ctx context.Context) (int, error)
	CountByStatus(ctx context.Context, status Status) (int, error)
}

type CreateParams struct {
	ID           ID
	OwnerID      user.ID
	Name         string
	Location     string
	Size         string
	PricePerDay  money.Money
	Description  string
	ContactPhone string
	ContactEmail string
	Now          time.Time
}

func New(params CreateParams) (*Billboard, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return nil, ErrIDRequired
	}
	if strings.TrimSpace(string(params.OwnerID)) == "" {
		return nil, ErrOwnerRequired
	}
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	location := strings.TrimSpace(params.Location)
	if location == "" {
		return nil, ErrLocationRequired
	}
	if params.PricePerDay.Amount < 0 {
		return nil, ErrNegativePrice
	}
	now := params.Now.UTC()

	return &Billboard{
		ID:           params.ID,
		OwnerID:      params.OwnerID,
		Name:         name,
		Location:     location,
		Size:         strings.TrimSpace(params.Size),
		PricePerDay:  params.PricePerDay,
		Description:  strings.TrimSpace(params.Description),
		ContactPhone: strings.TrimSpace(params.ContactPhone),
		ContactEmail: strings.TrimSpace(params.ContactEmail),
		Available:    true,
		Status:       StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Bookable requires both the owner and the moderation axis to be positive.
func (b *Billboard) Bookable() bool {
	return b.Available && b.Approved
}

type UpdateParams struct {
	Name         string
	Location     string
	Size         string
	PricePerDay  money.Money
	Description  string
	ContactPhone string
	ContactEmail string
}

// Update applies owner edits. Editing a rejected billboard re-submits it for
// review: status returns to PENDING and approval is revoked.
func (b *Billboard) Update(params UpdateParams, now time.Time) error {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return ErrNameRequired
	}
	location := strings.TrimSpace(params.Location)
	if location == "" {
		return ErrLocationRequired
	}
	if params.PricePerDay.Amount < 0 {
		return ErrNegativePrice
	}
	b.Name = name
	b.Location = location
	b.Size = strings.TrimSpace(params.Size)
	b.PricePerDay = params.PricePerDay
	b.Description = strings.TrimSpace(params.Description)
	b.ContactPhone = strings.TrimSpace(params.ContactPhone)
	b.ContactEmail = strings.TrimSpace(params.ContactEmail)
	if b.Status == StatusRejected {
		b.Status = StatusPending
		b.Approved = false
		b.RejectionReason = ""
	}
	b.UpdatedAt = now.UTC()
	return nil
}

func (b *Billboard) SetAvailability(available bool, now time.Time) {
	b.Available = available
	b.UpdatedAt = now.UTC()
}

func (b *Billboard) SetImage(url string, now time.Time) {
	b.ImageURL = strings.TrimSpace(url)
	b.UpdatedAt = now.UTC()
}

// Approve passes moderation and clears any prior rejection reason.
func (b *Billboard) Approve(now time.Time) {
	b.Approved = true
	b.Status = StatusApproved
	b.RejectionReason = ""
	b.UpdatedAt = now.UTC()
}

func (b *Billboard) Reject(reason string, now time.Time) {
	b.Approved = false
	b.Status = StatusRejected
	b.RejectionReason = strings.TrimSpace(reason)
	b.UpdatedAt = now.UTC()
}
