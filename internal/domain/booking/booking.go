package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"adboard/internal/domain/billboard"
	"adboard/internal/domain/shared/daterange"
	"adboard/internal/domain/shared/money"
	"adboard/internal/domain/user"
)

var (
	ErrNotFound         = errors.New("booking: not found")
	ErrAdvertiserReq    = errors.New("booking: advertiser id required")
	ErrOwnBillboard     = errors.New("booking: cannot book own billboard")
	ErrStartInPast      = errors.New("booking: start date is in the past")
	ErrOverlap          = errors.New("booking: dates conflict with an existing request")
	ErrAlreadyProcessed = errors.New("booking: request already processed")
	ErrNotCancellable   = errors.New("booking: only pending requests can be cancelled")
	ErrNotApproved      = errors.New("booking: dispute requires an approved request")
	ErrDisputeExists    = errors.New("booking: dispute already exists")
	ErrNoDispute        = errors.New("booking: no dispute on this request")
	ErrDisputeReason    = errors.New("booking: dispute reason required")
	ErrInvalidStatus    = errors.New("booking: invalid status")
)

type ID string

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
	// StatusCancelled marks an advertiser-initiated withdrawal.
	StatusCancelled Status = "CANCELLED"
)

type DisputeStatus string

const (
	DisputeOpen       DisputeStatus = "OPEN"
	DisputeInProgress DisputeStatus = "IN_PROGRESS"
	DisputeResolved   DisputeStatus = "RESOLVED"
	DisputeClosed     DisputeStatus = "CLOSED"
)

// Request is a reservation proposal for a billboard over a date range,
// subject to owner approval. The dispute sub-record lives alongside the
// request status and moves independently once opened.
type Request struct {
	ID            ID
	BillboardID   billboard.ID
	AdvertiserID  user.ID
	Range         daterange.DateRange
	TotalAmount   money.Money
	Status        Status
	Message       string
	Response      string
	HasDispute    bool
	DisputeReason string
	DisputeStatus DisputeStatus
	DisputeBy     user.ID
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Version       int64
}

type ListParams struct {
	Limit  int
	Offset int
}

type Repository interface {
	ByID(ctx context.Context, id ID) (*Request, error)
	Save(ctx context.Context, r *Request) error
	// ActiveByBillboard returns requests that hold the billboard's calendar:
	// PENDING and APPROVED ones.
	ActiveByBillboard(ctx context.Context, id billboard.ID) ([]*Request, error)
	ListByAdvertiser(ctx context.Context, id user.ID, params ListParams) ([]*Request, int, error)
	ListByBillboards(ctx context.Context, ids []billboard.ID, params ListParams) ([]*Request, int, error)
	ListDisputed(ctx context.Context, params ListParams) ([]*Request, int, error)
	Count(ctx context.Context) (int, error)
	CountByStatus(ctx context.Context, status Status) (int, error)
	CountOpenDisputes(ctx context.Context) (int, error)
	Latest(ctx context.Context, n int) ([]*Request, error)
}

// Quote prices a date range: days are counted with a ceiling, so partial days
// bill in full.
func Quote(dr daterange.DateRange, pricePerDay money.Money) money.Money {
	return pricePerDay.Multiply(dr.Days())
}

type CreateParams struct {
	ID           ID
	BillboardID  billboard.ID
	AdvertiserID user.ID
	Range        daterange.DateRange
	PricePerDay  money.Money
	Message      string
	Now          time.Time
}

func NewRequest(params CreateParams) (*Request, error) {
	if strings.TrimSpace(string(params.AdvertiserID)) == "" {
		return nil, ErrAdvertiserReq
	}
	if err := params.Range.Validate(); err != nil {
		return nil, err
	}
	if err := ValidateStart(params.Range, params.Now); err != nil {
		return nil, err
	}
	now := params.Now.UTC()
	return &Request{
		ID:           params.ID,
		BillboardID:  params.BillboardID,
		AdvertiserID: params.AdvertiserID,
		Range:        params.Range,
		TotalAmount:  Quote(params.Range, params.PricePerDay),
		Status:       StatusPending,
		Message:      strings.TrimSpace(params.Message),
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// ValidateStart enforces date-only granularity: a start earlier today is
// still acceptable.
func ValidateStart(dr daterange.DateRange, now time.Time) error {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	start := time.Date(dr.Start.Year(), dr.Start.Month(), dr.Start.Day(), 0, 0, 0, 0, time.UTC)
	if start.Before(today) {
		return ErrStartInPast
	}
	return nil
}

// Holding reports whether the request occupies the billboard's calendar for
// conflict purposes.
func (r *Request) Holding() bool {
	return r.Status == StatusPending || r.Status == StatusApproved
}

func (r *Request) Approve(response string, now time.Time) error {
	if r.Status != StatusPending {
		return ErrAlreadyProcessed
	}
	r.Status = StatusApproved
	r.Response = strings.TrimSpace(response)
	r.touch(now)
	return nil
}

func (r *Request) Reject(response string, now time.Time) error {
	if r.Status != StatusPending {
		return ErrAlreadyProcessed
	}
	r.Status = StatusRejected
	r.Response = strings.TrimSpace(response)
	r.touch(now)
	return nil
}

func (r *Request) Cancel(now time.Time) error {
	if r.Status != StatusPending {
		return ErrNotCancellable
	}
	r.Status = StatusCancelled
	r.touch(now)
	return nil
}

// OpenDispute flags a disagreement over an approved request. A request
// carries at most one dispute.
func (r *Request) OpenDispute(by user.ID, reason string, now time.Time) error {
	if r.Status != StatusApproved {
		return ErrNotApproved
	}
	if r.HasDispute {
		return ErrDisputeExists
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ErrDisputeReason
	}
	r.HasDispute = true
	r.DisputeReason = reason
	r.DisputeStatus = DisputeOpen
	r.DisputeBy = by
	r.touch(now)
	return nil
}

// SetDisputeStatus moves the dispute sub-record. Any transition is allowed;
// admins may reopen a closed dispute.
func (r *Request) SetDisputeStatus(status DisputeStatus, now time.Time) error {
	if !r.HasDispute {
		return ErrNoDispute
	}
	parsed, err := ParseDisputeStatus(string(status))
	if err != nil {
		return err
	}
	r.DisputeStatus = parsed
	r.touch(now)
	return nil
}

func (r *Request) touch(now time.Time) {
	r.UpdatedAt = now.UTC()
}

func ParseStatus(raw string) (Status, error) {
	switch Status(strings.ToUpper(strings.TrimSpace(raw))) {
	case StatusPending:
		return StatusPending, nil
	case StatusApproved:
		return StatusApproved, nil
	case StatusRejected:
		return StatusRejected, nil
	case StatusCancelled:
		return StatusCancelled, nil
	default:
		return "", ErrInvalidStatus
	}
}

func ParseDisputeStatus(raw string) (DisputeStatus, error) {
	switch DisputeStatus(strings.ToUpper(strings.TrimSpace(raw))) {
	case DisputeOpen:
		return DisputeOpen, nil
	case DisputeInProgress:
		return DisputeInProgress, nil
	case DisputeResolved:
		return DisputeResolved, nil
	case DisputeClosed:
		return DisputeClosed, nil
	default:
		return "", ErrInvalidStatus
	}
}
