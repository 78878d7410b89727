package complaint

import (
	"context"
	"errors"
	"strings"
	"time"

	"adboard/internal/domain/user"
)

var (
	ErrNotFound        = errors.New("complaint: not found")
	ErrSubjectRequired = errors.New("complaint: subject is required")
	ErrBodyRequired    = errors.New("complaint: description is required")
	ErrInvalidStatus   = errors.New("complaint: invalid status")
)

type ID string

type Status string

const (
	StatusOpen       Status = "OPEN"
	StatusInProgress Status = "IN_PROGRESS"
	StatusResolved   Status = "RESOLVED"
	StatusClosed     Status = "CLOSED"
)

// Complaint is advertiser-authored and admin-responded; its lifecycle is
// unrelated to bookings.
type Complaint struct {
	ID            ID
	AuthorID      user.ID
	Subject       string
	Description   string
	Status        Status
	AdminResponse string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type ListParams struct {
	Limit  int
	Offset int
}

type Repository interface {
	ByID(ctx context.Context, id ID) (*Complaint, error)
	Save(ctx context.Context, c *Complaint) error
	ListByAuthor(ctx context.Context, id user.ID, params ListParams) ([]*Complaint, int, error)
	ListAll(ctx context.Context, params ListParams) ([]*Complaint, int, error)
	CountByStatus(ctx context.Context, status Status) (int, error)
}

func New(id ID, author user.ID, subject, description string, now time.Time) (*Complaint, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil, ErrSubjectRequired
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, ErrBodyRequired
	}
	ts := now.UTC()
	return &Complaint{
		ID:          id,
		AuthorID:    author,
		Subject:     subject,
		Description: description,
		Status:      StatusOpen,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}, nil
}

// SetStatus moves the complaint freely between states; a closed complaint may
// be reopened by an admin.
func (c *Complaint) SetStatus(status Status, adminResponse string, now time.Time) error {
	parsed, err := ParseStatus(string(status))
	if err != nil {
		return err
	}
	c.Status = parsed
	if response := strings.TrimSpace(adminResponse); response != "" {
		c.AdminResponse = response
	}
	c.UpdatedAt = now.UTC()
	return nil
}

func ParseStatus(raw string) (Status, error) {
	switch Status(strings.ToUpper(strings.TrimSpace(raw))) {
	case StatusOpen:
		return StatusOpen, nil
	case StatusInProgress:
		return StatusInProgress, nil
	case StatusResolved:
		return StatusResolved, nil
	case StatusClosed:
		return StatusClosed, nil
	default:
		return "", ErrInvalidStatus
	}
}
