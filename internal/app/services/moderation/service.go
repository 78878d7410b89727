package moderation

import (
	"context"
	"log/slog"
	"time"

	"adboard/internal/app/policies"
	domainbilling "adboard/internal/domain/billboard"
	domainbooking "adboard/internal/domain/booking"
	domaincomplaint "adboard/internal/domain/complaint"
	domainuser "adboard/internal/domain/user"
)

// Service covers the admin-only transitions: billboard approval, complaint
// and dispute handling, user promotion, and the dashboard rollup.
type Service struct {
	Billboards domainbilling.Repository
	Bookings   domainbooking.Repository
	Complaints domaincomplaint.Repository
	Users      domainuser.Repository
	Notifier   policies.Notifier
	Logger     *slog.Logger
}

// ReviewBillboard sets the moderation axis; the boolean drives the derived
// status, and the rejection reason survives only on rejection.
func (s *Service) ReviewBillboard(ctx context.Context, id domainbilling.ID, approved bool, rejectionReason string) (*domainbilling.Billboard, error) {
	board, err := s.Billboards.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	if approved {
		board.Approve(now)
	} else {
		board.Reject(rejectionReason, now)
	}
	if err := s.Billboards.Save(ctx, board); err != nil {
		return nil, err
	}
	s.notify(ctx, policies.Event{
		Kind:        policies.EventBillboardReviewed,
		RecipientID: string(board.OwnerID),
		Subject:     board.Name,
		Data:        map[string]any{"billboard_id": string(board.ID), "status": string(board.Status)},
	})
	if s.Logger != nil {
		s.Logger.Info("billboard reviewed", "billboard_id", board.ID, "status", board.Status)
	}
	return board, nil
}

func (s *Service) ListBillboards(ctx context.Context, limit, offset int) (domainbilling.SearchResult, error) {
	return s.Billboards.Search(ctx, domainbilling.SearchParams{Limit: limit, Offset: offset})
}

func (s *Service) FileComplaint(ctx context.Context, id domaincomplaint.ID, author domainuser.ID, subject, description string) (*domaincomplaint.Complaint, error) {
	c, err := domaincomplaint.New(id, author, subject, description, time.Now())
	if err != nil {
		return nil, err
	}
	if err := s.Complaints.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) UpdateComplaintStatus(ctx context.Context, id domaincomplaint.ID, status string, adminResponse string) (*domaincomplaint.Complaint, error) {
	parsed, err := domaincomplaint.ParseStatus(status)
	if err != nil {
		return nil, err
	}
	c, err := s.Complaints.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := c.SetStatus(parsed, adminResponse, time.Now()); err != nil {
		return nil, err
	}
	if err := s.Complaints.Save(ctx, c); err != nil {
		return nil, err
	}
	s.notify(ctx, policies.Event{
		Kind:        policies.EventComplaintUpdated,
		RecipientID: string(c.AuthorID),
		Subject:     c.Subject,
		Data:        map[string]any{"complaint_id": string(c.ID), "status": string(c.Status)},
	})
	return c, nil
}

func (s *Service) ListComplaints(ctx context.Context, params domaincomplaint.ListParams) ([]*domaincomplaint.Complaint, int, error) {
	return s.Complaints.ListAll(ctx, params)
}

func (s *Service) ComplaintsForAuthor(ctx context.Context, author domainuser.ID, params domaincomplaint.ListParams) ([]*domaincomplaint.Complaint, int, error) {
	return s.Complaints.ListByAuthor(ctx, author, params)
}

// UpdateDisputeStatus moves the dispute sub-record on a booking request.
// Any transition is allowed, including reopening a closed dispute.
func (s *Service) UpdateDisputeStatus(ctx context.Context, id domainbooking.ID, status string) (*domainbooking.Request, error) {
	parsed, err := domainbooking.ParseDisputeStatus(status)
	if err != nil {
		return nil, err
	}
	request, err := s.Bookings.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := request.SetDisputeStatus(parsed, time.Now()); err != nil {
		return nil, err
	}
	if err := s.Bookings.Save(ctx, request); err != nil {
		return nil, err
	}
	s.notify(ctx, policies.Event{
		Kind:        policies.EventDisputeUpdated,
		RecipientID: string(request.AdvertiserID),
		Data:        map[string]any{"booking_id": string(request.ID), "dispute_status": string(request.DisputeStatus)},
	})
	return request, nil
}

func (s *Service) ListDisputes(ctx context.Context, params domainbooking.ListParams) ([]*domainbooking.Request, int, error) {
	return s.Bookings.ListDisputed(ctx, params)
}

// PromoteAdmin records an admin grant for the target user.
func (s *Service) PromoteAdmin(ctx context.Context, id domainuser.ID) (*domainuser.User, error) {
	target, err := s.Users.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	target.GrantAdmin(time.Now())
	if err := s.Users.Save(ctx, target); err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("admin granted", "user_id", target.ID)
	}
	return target, nil
}

func (s *Service) ListUsers(ctx context.Context, params domainuser.ListParams) ([]*domainuser.User, int, error) {
	return s.Users.List(ctx, params)
}

// Dashboard is a read-only reporting rollup, not a transactional operation.
type Dashboard struct {
	Users             int
	Billboards        int
	PendingBillboards int
	Bookings          int
	PendingBookings   int
	OpenDisputes      int
	OpenComplaints    int
	RecentBookings    []*domainbooking.Request
}

func (s *Service) BuildDashboard(ctx context.Context) (*Dashboard, error) {
	users, err := s.Users.Count(ctx)
	if err != nil {
		return nil, err
	}
	boards, err := s.Billboards.Count(ctx)
	if err != nil {
		return nil, err
	}
	pendingBoards, err := s.Billboards.CountByStatus(ctx, domainbilling.StatusPending)
	if err != nil {
		return nil, err
	}
	bookings, err := s.Bookings.Count(ctx)
	if err != nil {
		return nil, err
	}
	pendingBookings, err := s.Bookings.CountByStatus(ctx, domainbooking.StatusPending)
	if err != nil {
		return nil, err
	}
	openDisputes, err := s.Bookings.CountOpenDisputes(ctx)
	if err != nil {
		return nil, err
	}
	openComplaints, err := s.Complaints.CountByStatus(ctx, domaincomplaint.StatusOpen)
	if err != nil {
		return nil, err
	}
	recent, err := s.Bookings.Latest(ctx, 5)
	if err != nil {
		return nil, err
	}
	return &Dashboard{
		Users:             users,
		Billboards:        boards,
		PendingBillboards: pendingBoards,
		Bookings:          bookings,
		PendingBookings:   pendingBookings,
		OpenDisputes:      openDisputes,
		OpenComplaints:    openComplaints,
		RecentBookings:    recent,
	}, nil
}

func (s *Service) notify(ctx context.Context, event policies.Event) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.Notify(ctx, event); err != nil && s.Logger != nil {
		s.Logger.Warn("notification dispatch failed", "kind", event.Kind, "error", err)
	}
}
