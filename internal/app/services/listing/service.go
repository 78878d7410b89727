package listing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"adboard/internal/app/policies"
	domainbilling "adboard/internal/domain/billboard"
	domainbooking "adboard/internal/domain/booking"
	"adboard/internal/domain/shared/money"
	domainuser "adboard/internal/domain/user"
)

var (
	ErrForbidden = errors.New("listing: forbidden")
)

// Service owns billboard CRUD on behalf of owners plus the public catalog.
type Service struct {
	Billboards domainbilling.Repository
	Bookings   domainbooking.Repository
	Uploader   policies.Uploader
	Logger     *slog.Logger
}

type CreateParams struct {
	OwnerID      domainuser.ID
	Name         string
	Location     string
	Size         string
	PricePerDay  int64
	Currency     string
	Description  string
	ContactPhone string
	ContactEmail string
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*domainbilling.Billboard, error) {
	price, err := money.NewNonNegative(params.PricePerDay, currencyOrDefault(params.Currency))
	if err != nil {
		return nil, err
	}
	board, err := domainbilling.New(domainbilling.CreateParams{
		ID:           domainbilling.ID(uuid.NewString()),
		OwnerID:      params.OwnerID,
		Name:         params.Name,
		Location:     params.Location,
		Size:         params.Size,
		PricePerDay:  price,
		Description:  params.Description,
		ContactPhone: params.ContactPhone,
		ContactEmail: params.ContactEmail,
		Now:          time.Now(),
	})
	if err != nil {
		return nil, err
	}
	if err := s.Billboards.Save(ctx, board); err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("billboard listed", "billboard_id", board.ID, "owner_id", board.OwnerID)
	}
	return board, nil
}

type UpdateParams struct {
	Name         string
	Location     string
	Size         string
	PricePerDay  int64
	Currency     string
	Description  string
	ContactPhone string
	ContactEmail string
	Available    *bool
}

func (s *Service) Update(ctx context.Context, id domainbilling.ID, actor domainuser.ID, params UpdateParams) (*domainbilling.Billboard, error) {
	board, err := s.ownedBoard(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	price, err := money.NewNonNegative(params.PricePerDay, currencyOrDefault(params.Currency))
	if err != nil {
		return nil, err
	}
	now := time.Now()
	if err := board.Update(domainbilling.UpdateParams{
		Name:         params.Name,
		Location:     params.Location,
		Size:         params.Size,
		PricePerDay:  price,
		Description:  params.Description,
		ContactPhone: params.ContactPhone,
		ContactEmail: params.ContactEmail,
	}, now); err != nil {
		return nil, err
	}
	if params.Available != nil {
		board.SetAvailability(*params.Available, now)
	}
	if err := s.Billboards.Save(ctx, board); err != nil {
		return nil, err
	}
	return board, nil
}

// Delete removes the billboard and its stored image, and cancels dependent
// pending requests so no live request points at a vanished board. Approved
// history is retained.
func (s *Service) Delete(ctx context.Context, id domainbilling.ID, actor domainuser.ID) error {
	board, err := s.ownedBoard(ctx, id, actor)
	if err != nil {
		return err
	}
	now := time.Now()
	if s.Bookings != nil {
		active, err := s.Bookings.ActiveByBillboard(ctx, board.ID)
		if err != nil {
			return err
		}
		for _, request := range active {
			if request.Status != domainbooking.StatusPending {
				continue
			}
			if err := request.Cancel(now); err != nil {
				continue
			}
			if err := s.Bookings.Save(ctx, request); err != nil {
				return err
			}
		}
	}
	if err := s.Billboards.Delete(ctx, board.ID); err != nil {
		return err
	}
	if board.ImageURL != "" && s.Uploader != nil {
		if err := s.Uploader.Remove(ctx, board.ImageURL); err != nil && s.Logger != nil {
			s.Logger.Warn("image removal failed", "billboard_id", board.ID, "error", err)
		}
	}
	if s.Logger != nil {
		s.Logger.Info("billboard deleted", "billboard_id", board.ID)
	}
	return nil
}

// UploadImage replaces the stored image. The previous object is removed after
// the new URL is persisted; a crash in between leaves a dangling object, not
// a broken reference.
func (s *Service) UploadImage(ctx context.Context, id domainbilling.ID, actor domainuser.ID, reader io.Reader, contentType string) (*domainbilling.Billboard, error) {
	if s.Uploader == nil {
		return nil, errors.New("listing: uploader not configured")
	}
	board, err := s.ownedBoard(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("billboards/%s/%s", board.ID, uuid.NewString())
	url, err := s.Uploader.Upload(ctx, key, reader, contentType)
	if err != nil {
		return nil, err
	}
	previous := board.ImageURL
	board.SetImage(url, time.Now())
	if err := s.Billboards.Save(ctx, board); err != nil {
		return nil, err
	}
	if previous != "" {
		if err := s.Uploader.Remove(ctx, previous); err != nil && s.Logger != nil {
			s.Logger.Warn("stale image removal failed", "billboard_id", board.ID, "error", err)
		}
	}
	return board, nil
}

// Get returns a billboard; non-owners only see bookable boards.
func (s *Service) Get(ctx context.Context, id domainbilling.ID, actor domainuser.ID, admin bool) (*domainbilling.Billboard, error) {
	board, err := s.Billboards.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if board.Bookable() || admin || board.OwnerID == actor {
		return board, nil
	}
	return nil, domainbilling.ErrNotFound
}

// Search serves the public catalog: only bookable boards are listed.
func (s *Service) Search(ctx context.Context, params domainbilling.SearchParams) (domainbilling.SearchResult, error) {
	params.BookableOnly = true
	params.OwnerID = ""
	return s.Billboards.Search(ctx, params)
}

func (s *Service) ListForOwner(ctx context.Context, owner domainuser.ID, limit, offset int) (domainbilling.SearchResult, error) {
	return s.Billboards.Search(ctx, domainbilling.SearchParams{
		OwnerID: owner,
		Limit:   limit,
		Offset:  offset,
	})
}

func (s *Service) ownedBoard(ctx context.Context, id domainbilling.ID, actor domainuser.ID) (*domainbilling.Billboard, error) {
	board, err := s.Billboards.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if board.OwnerID != actor {
		return nil, ErrForbidden
	}
	return board, nil
}

func currencyOrDefault(currency string) string {
	if currency == "" {
		return "USD"
	}
	return currency
}
