package reservation

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"adboard/internal/app/policies"
	domainbilling "adboard/internal/domain/billboard"
	domainbooking "adboard/internal/domain/booking"
	"adboard/internal/domain/shared/daterange"
	domainuser "adboard/internal/domain/user"
)

var (
	// ErrForbidden signals an authenticated caller acting on someone else's
	// request or billboard.
	ErrForbidden = errors.New("reservation: forbidden")
)

// Service owns the booking-request lifecycle. Creation and approval are
// serialized per billboard so the conflict check and the write happen
// atomically with respect to concurrent requests for the same board.
type Service struct {
	Bookings   domainbooking.Repository
	Billboards domainbilling.Repository
	Users      domainuser.Repository
	Notifier   policies.Notifier
	Logger     *slog.Logger

	locks keyedMutex
}

// View joins a request with billboard and party display data the frontend
// renders alongside it.
type View struct {
	Request    *domainbooking.Request
	Billboard  *domainbilling.Billboard
	Owner      *domainuser.User
	Advertiser *domainuser.User
}

type CreateParams struct {
	BillboardID  domainbilling.ID
	AdvertiserID domainuser.ID
	Start        time.Time
	End          time.Time
	Message      string
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*View, error) {
	unlock := s.locks.lock(string(params.BillboardID))
	defer unlock()

	board, err := s.Billboards.ByID(ctx, params.BillboardID)
	if err != nil {
		return nil, err
	}
	if !board.Bookable() {
		return nil, domainbilling.ErrNotBookable
	}
	if board.OwnerID == params.AdvertiserID {
		return nil, domainbooking.ErrOwnBillboard
	}

	dr, err := daterange.New(params.Start, params.End)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	// A past start is the requester's own mistake and is reported before the
	// calendar is consulted, even when the window also collides.
	if err := domainbooking.ValidateStart(dr, now); err != nil {
		return nil, err
	}
	if err := s.ensureNoOverlap(ctx, board.ID, dr, "", false); err != nil {
		return nil, err
	}

	request, err := domainbooking.NewRequest(domainbooking.CreateParams{
		ID:           domainbooking.ID(uuid.NewString()),
		BillboardID:  board.ID,
		AdvertiserID: params.AdvertiserID,
		Range:        dr,
		PricePerDay:  board.PricePerDay,
		Message:      params.Message,
		Now:          now,
	})
	if err != nil {
		return nil, err
	}
	if err := s.Bookings.Save(ctx, request); err != nil {
		return nil, err
	}

	s.notify(ctx, policies.Event{
		Kind:        policies.EventBookingRequested,
		RecipientID: string(board.OwnerID),
		Subject:     board.Name,
		Data: map[string]any{
			"booking_id": string(request.ID),
			"start":      request.Range.Start,
			"end":        request.Range.End,
		},
	})
	if s.Logger != nil {
		s.Logger.Info("booking requested", "booking_id", request.ID, "billboard_id", board.ID, "total", request.TotalAmount.Amount)
	}
	return s.compose(ctx, request, board), nil
}

// UpdateStatus is the owner's accept/reject decision over a pending request.
// Approval re-validates the overlap invariant: two pending requests for the
// same window can legally coexist, so only one of them may be approved.
func (s *Service) UpdateStatus(ctx context.Context, id domainbooking.ID, actor domainuser.ID, status domainbooking.Status, response string) (*View, error) {
	request, err := s.Bookings.ByID(ctx, id)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.lock(string(request.BillboardID))
	defer unlock()

	// Re-read under the lock so a concurrent decision is visible.
	request, err = s.Bookings.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	board, err := s.Billboards.ByID(ctx, request.BillboardID)
	if err != nil {
		return nil, err
	}
	if board.OwnerID != actor {
		return nil, ErrForbidden
	}

	now := time.Now().UTC()
	var kind string
	switch status {
	case domainbooking.StatusApproved:
		if err := s.ensureNoOverlap(ctx, board.ID, request.Range, request.ID, true); err != nil {
			return nil, err
		}
		if err := request.Approve(response, now); err != nil {
			return nil, err
		}
		kind = policies.EventBookingApproved
	case domainbooking.StatusRejected:
		if err := request.Reject(response, now); err != nil {
			return nil, err
		}
		kind = policies.EventBookingRejected
	default:
		return nil, domainbooking.ErrInvalidStatus
	}
	if err := s.Bookings.Save(ctx, request); err != nil {
		return nil, err
	}

	s.notify(ctx, policies.Event{
		Kind:        kind,
		RecipientID: string(request.AdvertiserID),
		Subject:     board.Name,
		Data:        map[string]any{"booking_id": string(request.ID)},
	})
	if s.Logger != nil {
		s.Logger.Info("booking decided", "booking_id", request.ID, "status", request.Status)
	}
	return s.compose(ctx, request, board), nil
}

// Cancel is the advertiser withdrawing a still-pending request.
func (s *Service) Cancel(ctx context.Context, id domainbooking.ID, actor domainuser.ID) (*View, error) {
	request, err := s.Bookings.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if request.AdvertiserID != actor {
		return nil, ErrForbidden
	}
	if err := request.Cancel(time.Now()); err != nil {
		return nil, err
	}
	if err := s.Bookings.Save(ctx, request); err != nil {
		return nil, err
	}

	board, _ := s.Billboards.ByID(ctx, request.BillboardID)
	if board != nil {
		s.notify(ctx, policies.Event{
			Kind:        policies.EventBookingCancelled,
			RecipientID: string(board.OwnerID),
			Subject:     board.Name,
			Data:        map[string]any{"booking_id": string(request.ID)},
		})
	}
	return s.compose(ctx, request, board), nil
}

// OpenDispute flags an approved booking; either party may raise it.
func (s *Service) OpenDispute(ctx context.Context, id domainbooking.ID, actor domainuser.ID, reason string) (*View, error) {
	request, err := s.Bookings.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	board, err := s.Billboards.ByID(ctx, request.BillboardID)
	if err != nil {
		return nil, err
	}
	if actor != request.AdvertiserID && actor != board.OwnerID {
		return nil, ErrForbidden
	}
	if err := request.OpenDispute(actor, reason, time.Now()); err != nil {
		return nil, err
	}
	if err := s.Bookings.Save(ctx, request); err != nil {
		return nil, err
	}

	counterpart := request.AdvertiserID
	if actor == request.AdvertiserID {
		counterpart = board.OwnerID
	}
	s.notify(ctx, policies.Event{
		Kind:        policies.EventDisputeOpened,
		RecipientID: string(counterpart),
		Subject:     board.Name,
		Data:        map[string]any{"booking_id": string(request.ID), "reason": request.DisputeReason},
	})
	return s.compose(ctx, request, board), nil
}

type ListParams struct {
	Limit  int
	Offset int
}

func (s *Service) ListForAdvertiser(ctx context.Context, advertiser domainuser.ID, params ListParams) ([]*View, int, error) {
	requests, total, err := s.Bookings.ListByAdvertiser(ctx, advertiser, domainbooking.ListParams(params))
	if err != nil {
		return nil, 0, err
	}
	return s.composeAll(ctx, requests), total, nil
}

// ListForOwner returns requests targeting any of the owner's billboards.
func (s *Service) ListForOwner(ctx context.Context, owner domainuser.ID, params ListParams) ([]*View, int, error) {
	boards, err := s.Billboards.Search(ctx, domainbilling.SearchParams{OwnerID: owner, Limit: -1})
	if err != nil {
		return nil, 0, err
	}
	ids := make([]domainbilling.ID, 0, len(boards.Items))
	for _, b := range boards.Items {
		ids = append(ids, b.ID)
	}
	requests, total, err := s.Bookings.ListByBillboards(ctx, ids, domainbooking.ListParams(params))
	if err != nil {
		return nil, 0, err
	}
	return s.composeAll(ctx, requests), total, nil
}

func (s *Service) Get(ctx context.Context, id domainbooking.ID, actor domainuser.ID) (*View, error) {
	request, err := s.Bookings.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	board, err := s.Billboards.ByID(ctx, request.BillboardID)
	if err != nil {
		return nil, err
	}
	if actor != request.AdvertiserID && actor != board.OwnerID {
		return nil, ErrForbidden
	}
	return s.compose(ctx, request, board), nil
}

// ensureNoOverlap checks the half-open interval against every request that
// holds the billboard's calendar. When approving, only other APPROVED
// requests block; pending siblings lose the race instead.
func (s *Service) ensureNoOverlap(ctx context.Context, board domainbilling.ID, dr daterange.DateRange, exclude domainbooking.ID, approvedOnly bool) error {
	active, err := s.Bookings.ActiveByBillboard(ctx, board)
	if err != nil {
		return err
	}
	for _, other := range active {
		if other.ID == exclude {
			continue
		}
		if approvedOnly && other.Status != domainbooking.StatusApproved {
			continue
		}
		if other.Range.Overlaps(dr) {
			return domainbooking.ErrOverlap
		}
	}
	return nil
}

func (s *Service) compose(ctx context.Context, request *domainbooking.Request, board *domainbilling.Billboard) *View {
	view := &View{Request: request, Billboard: board}
	if board == nil {
		if loaded, err := s.Billboards.ByID(ctx, request.BillboardID); err == nil {
			view.Billboard = loaded
		}
	}
	if s.Users != nil {
		if view.Billboard != nil {
			if owner, err := s.Users.ByID(ctx, view.Billboard.OwnerID); err == nil {
				view.Owner = owner
			}
		}
		if advertiser, err := s.Users.ByID(ctx, request.AdvertiserID); err == nil {
			view.Advertiser = advertiser
		}
	}
	return view
}

func (s *Service) composeAll(ctx context.Context, requests []*domainbooking.Request) []*View {
	views := make([]*View, 0, len(requests))
	for _, request := range requests {
		views = append(views, s.compose(ctx, request, nil))
	}
	return views
}

func (s *Service) notify(ctx context.Context, event policies.Event) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.Notify(ctx, event); err != nil && s.Logger != nil {
		s.Logger.Warn("notification dispatch failed", "kind", event.Kind, "error", err)
	}
}

// keyedMutex hands out one mutex per billboard id. Entries are never evicted;
// the key space is bounded by the number of billboards.
type keyedMutex struct {
	mus sync.Map
}

func (k *keyedMutex) lock(key string) func() {
	val, _ := k.mus.LoadOrStore(key, &sync.Mutex{})
	mu := val.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
