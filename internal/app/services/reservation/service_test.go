package reservation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adboard/internal/app/policies"
	domainbilling "adboard/internal/domain/billboard"
	domainbooking "adboard/internal/domain/booking"
	"adboard/internal/domain/shared/daterange"
	"adboard/internal/domain/shared/money"
	domainuser "adboard/internal/domain/user"
	"adboard/internal/infra/storage/memory"
)

type fixture struct {
	service    *Service
	users      *memory.UserRepository
	billboards *memory.BillboardRepository
	bookings   *memory.BookingRepository
	notifier   *memory.Notifier

	owner      *domainuser.User
	advertiser *domainuser.User
	board      *domainbilling.Billboard
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		users:      memory.NewUserRepository(),
		billboards: memory.NewBillboardRepository(),
		bookings:   memory.NewBookingRepository(),
		notifier:   memory.NewNotifier(),
	}
	f.service = &Service{
		Bookings:   f.bookings,
		Billboards: f.billboards,
		Users:      f.users,
		Notifier:   f.notifier,
	}

	ctx := context.Background()
	now := time.Now()

	var err error
	f.owner, err = domainuser.NewUser(domainuser.CreateParams{
		ID: "owner-1", Email: "owner@example.com", PasswordHash: "x",
		FirstName: "Olga", LastName: "Ramos", Role: domainuser.RoleOwner, CreatedAt: now,
	})
	require.NoError(t, err)
	require.NoError(t, f.users.Save(ctx, f.owner))

	f.advertiser, err = domainuser.NewUser(domainuser.CreateParams{
		ID: "adv-1", Email: "adv@example.com", PasswordHash: "x",
		FirstName: "Ade", LastName: "Kim", Role: domainuser.RoleAdvertiser, CreatedAt: now,
	})
	require.NoError(t, err)
	require.NoError(t, f.users.Save(ctx, f.advertiser))

	f.board, err = domainbilling.New(domainbilling.CreateParams{
		ID: "board-1", OwnerID: f.owner.ID, Name: "Highway North",
		Location: "M4 exit 12", Size: "6x3", PricePerDay: money.Must(2000, "USD"), Now: now,
	})
	require.NoError(t, err)
	f.board.Approve(now)
	require.NoError(t, f.billboards.Save(ctx, f.board))

	return f
}

func futureRange(startDays, endDays int) (time.Time, time.Time) {
	base := time.Now().UTC().Truncate(24 * time.Hour)
	return base.AddDate(0, 0, startDays), base.AddDate(0, 0, endDays)
}

func TestCreateBooking(t *testing.T) {
	f := newFixture(t)
	start, end := futureRange(5, 10)

	view, err := f.service.Create(context.Background(), CreateParams{
		BillboardID:  f.board.ID,
		AdvertiserID: f.advertiser.ID,
		Start:        start,
		End:          end,
		Message:      "spring launch",
	})
	require.NoError(t, err)

	assert.Equal(t, domainbooking.StatusPending, view.Request.Status)
	assert.Equal(t, int64(2000*5), view.Request.TotalAmount.Amount)
	assert.Equal(t, f.owner.ID, view.Owner.ID)
	assert.Equal(t, f.advertiser.ID, view.Advertiser.ID)

	events := f.notifier.EventsOfKind(policies.EventBookingRequested)
	require.Len(t, events, 1)
	assert.Equal(t, string(f.owner.ID), events[0].RecipientID)
}

func TestCreateRejectsOverlap(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	start, end := futureRange(5, 10)

	_, err := f.service.Create(ctx, CreateParams{
		BillboardID: f.board.ID, AdvertiserID: f.advertiser.ID, Start: start, End: end,
	})
	require.NoError(t, err)

	overlapStart, overlapEnd := futureRange(8, 12)
	_, err = f.service.Create(ctx, CreateParams{
		BillboardID: f.board.ID, AdvertiserID: "adv-2", Start: overlapStart, End: overlapEnd,
	})
	assert.ErrorIs(t, err, domainbooking.ErrOverlap)
}

// A past start is the requester's mistake and must be reported as such even
// when the window also collides with an active booking.
func TestCreatePastStartWinsOverOverlap(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Seed an approved booking spanning today directly; Create refuses
	// past starts.
	start, end := futureRange(-2, 5)
	dr, err := daterange.New(start, end)
	require.NoError(t, err)
	active, err := domainbooking.NewRequest(domainbooking.CreateParams{
		ID:           "active-1",
		BillboardID:  f.board.ID,
		AdvertiserID: "adv-2",
		Range:        dr,
		PricePerDay:  f.board.PricePerDay,
		Now:          start,
	})
	require.NoError(t, err)
	require.NoError(t, active.Approve("ok", start))
	require.NoError(t, f.bookings.Save(ctx, active))

	pastStart, pastEnd := futureRange(-3, 4)
	_, err = f.service.Create(ctx, CreateParams{
		BillboardID: f.board.ID, AdvertiserID: f.advertiser.ID, Start: pastStart, End: pastEnd,
	})
	assert.ErrorIs(t, err, domainbooking.ErrStartInPast)
	assert.NotErrorIs(t, err, domainbooking.ErrOverlap)
}

func TestCreateAllowsBackToBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	start, end := futureRange(5, 10)
	_, err := f.service.Create(ctx, CreateParams{
		BillboardID: f.board.ID, AdvertiserID: f.advertiser.ID, Start: start, End: end,
	})
	require.NoError(t, err)

	nextStart, nextEnd := futureRange(10, 15)
	_, err = f.service.Create(ctx, CreateParams{
		BillboardID: f.board.ID, AdvertiserID: "adv-2", Start: nextStart, End: nextEnd,
	})
	assert.NoError(t, err)
}

func TestCreateFreesWindowAfterTerminalStates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	start, end := futureRange(5, 10)

	first, err := f.service.Create(ctx, CreateParams{
		BillboardID: f.board.ID, AdvertiserID: f.advertiser.ID, Start: start, End: end,
	})
	require.NoError(t, err)
	_, err = f.service.Cancel(ctx, first.Request.ID, f.advertiser.ID)
	require.NoError(t, err)

	second, err := f.service.Create(ctx, CreateParams{
		BillboardID: f.board.ID, AdvertiserID: "adv-2", Start: start, End: end,
	})
	require.NoError(t, err)
	_, err = f.service.UpdateStatus(ctx, second.Request.ID, f.owner.ID, domainbooking.StatusRejected, "no")
	require.NoError(t, err)

	_, err = f.service.Create(ctx, CreateParams{
		BillboardID: f.board.ID, AdvertiserID: "adv-3", Start: start, End: end,
	})
	assert.NoError(t, err)
}

func TestCreateRejectsOwnBillboard(t *testing.T) {
	f := newFixture(t)
	start, end := futureRange(5, 10)
	_, err := f.service.Create(context.Background(), CreateParams{
		BillboardID: f.board.ID, AdvertiserID: f.owner.ID, Start: start, End: end,
	})
	assert.ErrorIs(t, err, domainbooking.ErrOwnBillboard)
}

func TestCreateRejectsUnbookableBoard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.board.SetAvailability(false, time.Now())
	require.NoError(t, f.billboards.Save(ctx, f.board))

	start, end := futureRange(5, 10)
	_, err := f.service.Create(ctx, CreateParams{
		BillboardID: f.board.ID, AdvertiserID: f.advertiser.ID, Start: start, End: end,
	})
	assert.ErrorIs(t, err, domainbilling.ErrNotBookable)
}

func TestConcurrentCreatesAdmitExactlyOne(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	start, end := futureRange(5, 10)

	const attempts = 16
	results := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			_, err := f.service.Create(ctx, CreateParams{
				BillboardID:  f.board.ID,
				AdvertiserID: f.advertiser.ID,
				Start:        start,
				End:          end,
			})
			results[slot] = err
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, domainbooking.ErrOverlap)
		}
	}
	assert.Equal(t, 1, succeeded)
}

func TestUpdateStatusRequiresOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	start, end := futureRange(5, 10)
	view, err := f.service.Create(ctx, CreateParams{
		BillboardID: f.board.ID, AdvertiserID: f.advertiser.ID, Start: start, End: end,
	})
	require.NoError(t, err)

	_, err = f.service.UpdateStatus(ctx, view.Request.ID, f.advertiser.ID, domainbooking.StatusApproved, "")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUpdateStatusRejectsSecondDecision(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	start, end := futureRange(5, 10)
	view, err := f.service.Create(ctx, CreateParams{
		BillboardID: f.board.ID, AdvertiserID: f.advertiser.ID, Start: start, End: end,
	})
	require.NoError(t, err)

	_, err = f.service.UpdateStatus(ctx, view.Request.ID, f.owner.ID, domainbooking.StatusApproved, "ok")
	require.NoError(t, err)

	_, err = f.service.UpdateStatus(ctx, view.Request.ID, f.owner.ID, domainbooking.StatusRejected, "changed my mind")
	assert.ErrorIs(t, err, domainbooking.ErrAlreadyProcessed)
}

func TestUpdateStatusOnlyAcceptsDecisions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	start, end := futureRange(5, 10)
	view, err := f.service.Create(ctx, CreateParams{
		BillboardID: f.board.ID, AdvertiserID: f.advertiser.ID, Start: start, End: end,
	})
	require.NoError(t, err)

	_, err = f.service.UpdateStatus(ctx, view.Request.ID, f.owner.ID, domainbooking.StatusCancelled, "")
	assert.ErrorIs(t, err, domainbooking.ErrInvalidStatus)
}

// Two pending requests for the same window may coexist, but approving the
// second after the first is approved must fail.
func TestApprovalRechecksOverlap(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	start, end := futureRange(5, 10)
	first, err := f.service.Create(ctx, CreateParams{
		BillboardID: f.board.ID, AdvertiserID: f.advertiser.ID, Start: start, End: end,
	})
	require.NoError(t, err)

	// Seed the rival pending request directly; Create would refuse it.
	dr := first.Request.Range
	rival, err := domainbooking.NewRequest(domainbooking.CreateParams{
		ID:           "rival-1",
		BillboardID:  f.board.ID,
		AdvertiserID: "adv-2",
		Range:        dr,
		PricePerDay:  f.board.PricePerDay,
		Now:          time.Now(),
	})
	require.NoError(t, err)
	require.NoError(t, f.bookings.Save(ctx, rival))

	_, err = f.service.UpdateStatus(ctx, first.Request.ID, f.owner.ID, domainbooking.StatusApproved, "")
	require.NoError(t, err)

	_, err = f.service.UpdateStatus(ctx, rival.ID, f.owner.ID, domainbooking.StatusApproved, "")
	assert.ErrorIs(t, err, domainbooking.ErrOverlap)

	// Rejecting the losing request still works.
	_, err = f.service.UpdateStatus(ctx, rival.ID, f.owner.ID, domainbooking.StatusRejected, "window taken")
	assert.NoError(t, err)
}

func TestCancelRequiresAdvertiser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	start, end := futureRange(5, 10)
	view, err := f.service.Create(ctx, CreateParams{
		BillboardID: f.board.ID, AdvertiserID: f.advertiser.ID, Start: start, End: end,
	})
	require.NoError(t, err)

	_, err = f.service.Cancel(ctx, view.Request.ID, f.owner.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	cancelled, err := f.service.Cancel(ctx, view.Request.ID, f.advertiser.ID)
	require.NoError(t, err)
	assert.Equal(t, domainbooking.StatusCancelled, cancelled.Request.Status)
}

func TestOpenDisputeNotifiesCounterpart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	start, end := futureRange(5, 10)
	view, err := f.service.Create(ctx, CreateParams{
		BillboardID: f.board.ID, AdvertiserID: f.advertiser.ID, Start: start, End: end,
	})
	require.NoError(t, err)
	_, err = f.service.UpdateStatus(ctx, view.Request.ID, f.owner.ID, domainbooking.StatusApproved, "")
	require.NoError(t, err)

	_, err = f.service.OpenDispute(ctx, view.Request.ID, "someone-else", "not my booking")
	assert.ErrorIs(t, err, ErrForbidden)

	disputed, err := f.service.OpenDispute(ctx, view.Request.ID, f.advertiser.ID, "board was blank")
	require.NoError(t, err)
	assert.True(t, disputed.Request.HasDispute)

	events := f.notifier.EventsOfKind(policies.EventDisputeOpened)
	require.Len(t, events, 1)
	assert.Equal(t, string(f.owner.ID), events[0].RecipientID)
}

func TestGetRestrictedToParties(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	start, end := futureRange(5, 10)
	view, err := f.service.Create(ctx, CreateParams{
		BillboardID: f.board.ID, AdvertiserID: f.advertiser.ID, Start: start, End: end,
	})
	require.NoError(t, err)

	_, err = f.service.Get(ctx, view.Request.ID, f.owner.ID)
	assert.NoError(t, err)
	_, err = f.service.Get(ctx, view.Request.ID, "stranger")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestListForOwnerCoversAllBoards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	second, err := domainbilling.New(domainbilling.CreateParams{
		ID: "board-2", OwnerID: f.owner.ID, Name: "Downtown East",
		Location: "5th and Main", Size: "4x3", PricePerDay: money.Must(900, "USD"), Now: time.Now(),
	})
	require.NoError(t, err)
	second.Approve(time.Now())
	require.NoError(t, f.billboards.Save(ctx, second))

	start, end := futureRange(5, 10)
	_, err = f.service.Create(ctx, CreateParams{
		BillboardID: f.board.ID, AdvertiserID: f.advertiser.ID, Start: start, End: end,
	})
	require.NoError(t, err)
	_, err = f.service.Create(ctx, CreateParams{
		BillboardID: second.ID, AdvertiserID: f.advertiser.ID, Start: start, End: end,
	})
	require.NoError(t, err)

	views, total, err := f.service.ListForOwner(ctx, f.owner.ID, ListParams{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, views, 2)

	views, total, err = f.service.ListForAdvertiser(ctx, f.advertiser.ID, ListParams{Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, views, 1)
}

func TestCreateUnknownBillboard(t *testing.T) {
	f := newFixture(t)
	start, end := futureRange(5, 10)
	_, err := f.service.Create(context.Background(), CreateParams{
		BillboardID: "missing", AdvertiserID: f.advertiser.ID, Start: start, End: end,
	})
	assert.True(t, errors.Is(err, domainbilling.ErrNotFound))
}
