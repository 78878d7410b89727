package listing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainbilling "adboard/internal/domain/billboard"
	domainbooking "adboard/internal/domain/booking"
	"adboard/internal/domain/shared/daterange"
	"adboard/internal/domain/shared/money"
	domainuser "adboard/internal/domain/user"
	"adboard/internal/infra/storage/memory"
)

const ownerID = domainuser.ID("owner-1")

func newService() (*Service, *memory.BillboardRepository, *memory.BookingRepository) {
	billboards := memory.NewBillboardRepository()
	bookings := memory.NewBookingRepository()
	return &Service{Billboards: billboards, Bookings: bookings}, billboards, bookings
}

func createBoard(t *testing.T, s *Service) *domainbilling.Billboard {
	t.Helper()
	board, err := s.Create(context.Background(), CreateParams{
		OwnerID:     ownerID,
		Name:        "Roadside West",
		Location:    "Route 9",
		Size:        "6x3",
		PricePerDay: 1200,
	})
	require.NoError(t, err)
	return board
}

func TestCreateDefaults(t *testing.T) {
	s, _, _ := newService()
	board := createBoard(t, s)

	assert.True(t, board.Available)
	assert.False(t, board.Approved)
	assert.Equal(t, domainbilling.StatusPending, board.Status)
	assert.Equal(t, "USD", board.PricePerDay.Currency)
	assert.False(t, board.Bookable())
}

func TestCreateRejectsNegativePrice(t *testing.T) {
	s, _, _ := newService()
	_, err := s.Create(context.Background(), CreateParams{
		OwnerID: ownerID, Name: "X", Location: "Y", PricePerDay: -5,
	})
	assert.ErrorIs(t, err, money.ErrNegativeAmount)
}

func TestUpdateRequiresOwnership(t *testing.T) {
	s, _, _ := newService()
	board := createBoard(t, s)

	_, err := s.Update(context.Background(), board.ID, "intruder", UpdateParams{
		Name: "New", Location: "There", PricePerDay: 100,
	})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUpdateResubmitsRejectedBoard(t *testing.T) {
	s, billboards, _ := newService()
	board := createBoard(t, s)
	ctx := context.Background()

	board.Reject("too blurry", time.Now())
	require.NoError(t, billboards.Save(ctx, board))

	updated, err := s.Update(ctx, board.ID, ownerID, UpdateParams{
		Name: "Roadside West", Location: "Route 9", PricePerDay: 1200,
	})
	require.NoError(t, err)
	assert.Equal(t, domainbilling.StatusPending, updated.Status)
	assert.False(t, updated.Approved)
	assert.Empty(t, updated.RejectionReason)
}

func TestUpdateTogglesAvailability(t *testing.T) {
	s, _, _ := newService()
	board := createBoard(t, s)
	off := false

	updated, err := s.Update(context.Background(), board.ID, ownerID, UpdateParams{
		Name: "Roadside West", Location: "Route 9", PricePerDay: 1200, Available: &off,
	})
	require.NoError(t, err)
	assert.False(t, updated.Available)
}

func TestDeleteCancelsPendingRequests(t *testing.T) {
	s, billboards, bookings := newService()
	board := createBoard(t, s)
	ctx := context.Background()
	now := time.Now().UTC()

	dr, err := daterange.New(now.AddDate(0, 0, 5), now.AddDate(0, 0, 10))
	require.NoError(t, err)
	pending, err := domainbooking.NewRequest(domainbooking.CreateParams{
		ID: "req-pending", BillboardID: board.ID, AdvertiserID: "adv-1",
		Range: dr, PricePerDay: board.PricePerDay, Now: now,
	})
	require.NoError(t, err)
	require.NoError(t, bookings.Save(ctx, pending))

	dr2, err := daterange.New(now.AddDate(0, 0, 12), now.AddDate(0, 0, 15))
	require.NoError(t, err)
	approved, err := domainbooking.NewRequest(domainbooking.CreateParams{
		ID: "req-approved", BillboardID: board.ID, AdvertiserID: "adv-2",
		Range: dr2, PricePerDay: board.PricePerDay, Now: now,
	})
	require.NoError(t, err)
	require.NoError(t, approved.Approve("", now))
	require.NoError(t, bookings.Save(ctx, approved))

	require.NoError(t, s.Delete(ctx, board.ID, ownerID))

	_, err = billboards.ByID(ctx, board.ID)
	assert.ErrorIs(t, err, domainbilling.ErrNotFound)

	stored, err := bookings.ByID(ctx, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, domainbooking.StatusCancelled, stored.Status)

	kept, err := bookings.ByID(ctx, approved.ID)
	require.NoError(t, err)
	assert.Equal(t, domainbooking.StatusApproved, kept.Status)
}

func TestGetHidesUnbookableFromStrangers(t *testing.T) {
	s, _, _ := newService()
	board := createBoard(t, s)
	ctx := context.Background()

	_, err := s.Get(ctx, board.ID, "stranger", false)
	assert.ErrorIs(t, err, domainbilling.ErrNotFound)

	_, err = s.Get(ctx, board.ID, ownerID, false)
	assert.NoError(t, err)

	_, err = s.Get(ctx, board.ID, "stranger", true)
	assert.NoError(t, err)
}

func TestSearchForcesPublicCatalogRules(t *testing.T) {
	s, billboards, _ := newService()
	hidden := createBoard(t, s)
	visible := createBoard(t, s)
	ctx := context.Background()

	visible.Approve(time.Now())
	require.NoError(t, billboards.Save(ctx, visible))

	result, err := s.Search(ctx, domainbilling.SearchParams{OwnerID: ownerID, Limit: 10})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, visible.ID, result.Items[0].ID)
	assert.NotEqual(t, hidden.ID, result.Items[0].ID)
}

func TestListForOwnerIncludesUnapproved(t *testing.T) {
	s, _, _ := newService()
	createBoard(t, s)
	createBoard(t, s)

	result, err := s.ListForOwner(context.Background(), ownerID, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Total)
}
