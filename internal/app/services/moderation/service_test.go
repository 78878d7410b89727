package moderation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adboard/internal/app/policies"
	domainbilling "adboard/internal/domain/billboard"
	domainbooking "adboard/internal/domain/booking"
	domaincomplaint "adboard/internal/domain/complaint"
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
	complaints *memory.ComplaintRepository
	notifier   *memory.Notifier
}

func newFixture() *fixture {
	f := &fixture{
		users:      memory.NewUserRepository(),
		billboards: memory.NewBillboardRepository(),
		bookings:   memory.NewBookingRepository(),
		complaints: memory.NewComplaintRepository(),
		notifier:   memory.NewNotifier(),
	}
	f.service = &Service{
		Billboards: f.billboards,
		Bookings:   f.bookings,
		Complaints: f.complaints,
		Users:      f.users,
		Notifier:   f.notifier,
	}
	return f
}

func (f *fixture) seedBoard(t *testing.T) *domainbilling.Billboard {
	t.Helper()
	board, err := domainbilling.New(domainbilling.CreateParams{
		ID: "board-1", OwnerID: "owner-1", Name: "Airport Road",
		Location: "Terminal 2 approach", Size: "8x4",
		PricePerDay: money.Must(3000, "USD"), Now: time.Now(),
	})
	require.NoError(t, err)
	require.NoError(t, f.billboards.Save(context.Background(), board))
	return board
}

func (f *fixture) seedDisputedBooking(t *testing.T) *domainbooking.Request {
	t.Helper()
	now := time.Now().UTC()
	dr, err := daterange.New(now.AddDate(0, 0, 3), now.AddDate(0, 0, 8))
	require.NoError(t, err)
	request, err := domainbooking.NewRequest(domainbooking.CreateParams{
		ID: "req-1", BillboardID: "board-1", AdvertiserID: "adv-1",
		Range: dr, PricePerDay: money.Must(3000, "USD"), Now: now,
	})
	require.NoError(t, err)
	require.NoError(t, request.Approve("", now))
	require.NoError(t, request.OpenDispute("adv-1", "board was blank", now))
	require.NoError(t, f.bookings.Save(context.Background(), request))
	return request
}

func TestReviewBillboardApproval(t *testing.T) {
	f := newFixture()
	board := f.seedBoard(t)
	ctx := context.Background()

	approved, err := f.service.ReviewBillboard(ctx, board.ID, true, "")
	require.NoError(t, err)
	assert.Equal(t, domainbilling.StatusApproved, approved.Status)
	assert.True(t, approved.Bookable())

	events := f.notifier.EventsOfKind(policies.EventBillboardReviewed)
	require.Len(t, events, 1)
	assert.Equal(t, "owner-1", events[0].RecipientID)
}

func TestReviewBillboardRejection(t *testing.T) {
	f := newFixture()
	board := f.seedBoard(t)
	ctx := context.Background()

	rejected, err := f.service.ReviewBillboard(ctx, board.ID, false, "location unverifiable")
	require.NoError(t, err)
	assert.Equal(t, domainbilling.StatusRejected, rejected.Status)
	assert.Equal(t, "location unverifiable", rejected.RejectionReason)
	assert.False(t, rejected.Bookable())

	// Re-approval clears the stored reason.
	reapproved, err := f.service.ReviewBillboard(ctx, board.ID, true, "")
	require.NoError(t, err)
	assert.Empty(t, reapproved.RejectionReason)
}

func TestComplaintLifecycle(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	complaint, err := f.service.FileComplaint(ctx, "c-1", "adv-1", "Billing", "charged twice")
	require.NoError(t, err)
	assert.Equal(t, domaincomplaint.StatusOpen, complaint.Status)

	_, err = f.service.FileComplaint(ctx, "c-2", "adv-1", "", "no subject")
	assert.ErrorIs(t, err, domaincomplaint.ErrSubjectRequired)

	updated, err := f.service.UpdateComplaintStatus(ctx, complaint.ID, "resolved", "refund issued")
	require.NoError(t, err)
	assert.Equal(t, domaincomplaint.StatusResolved, updated.Status)
	assert.Equal(t, "refund issued", updated.AdminResponse)

	// A blank response leaves the previous one in place.
	reopened, err := f.service.UpdateComplaintStatus(ctx, complaint.ID, "open", "")
	require.NoError(t, err)
	assert.Equal(t, domaincomplaint.StatusOpen, reopened.Status)
	assert.Equal(t, "refund issued", reopened.AdminResponse)

	_, err = f.service.UpdateComplaintStatus(ctx, complaint.ID, "ESCALATED", "")
	assert.ErrorIs(t, err, domaincomplaint.ErrInvalidStatus)

	events := f.notifier.EventsOfKind(policies.EventComplaintUpdated)
	assert.Len(t, events, 2)
}

func TestUpdateDisputeStatus(t *testing.T) {
	f := newFixture()
	request := f.seedDisputedBooking(t)
	ctx := context.Background()

	updated, err := f.service.UpdateDisputeStatus(ctx, request.ID, "in_progress")
	require.NoError(t, err)
	assert.Equal(t, domainbooking.DisputeInProgress, updated.DisputeStatus)

	_, err = f.service.UpdateDisputeStatus(ctx, request.ID, "bogus")
	assert.ErrorIs(t, err, domainbooking.ErrInvalidStatus)

	disputes, total, err := f.service.ListDisputes(ctx, domainbooking.ListParams{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, disputes, 1)
}

func TestPromoteAdmin(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	user, err := domainuser.NewUser(domainuser.CreateParams{
		ID: "u-1", Email: "mo@example.com", PasswordHash: "x",
		FirstName: "Mo", LastName: "Diallo", Role: domainuser.RoleOwner, CreatedAt: time.Now(),
	})
	require.NoError(t, err)
	require.NoError(t, f.users.Save(ctx, user))

	promoted, err := f.service.PromoteAdmin(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, promoted.IsAdmin())
	assert.Equal(t, domainuser.RoleOwner, promoted.Profile.Role)

	_, err = f.service.PromoteAdmin(ctx, "missing")
	assert.ErrorIs(t, err, domainuser.ErrNotFound)
}

func TestBuildDashboard(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.seedBoard(t)
	f.seedDisputedBooking(t)

	user, err := domainuser.NewUser(domainuser.CreateParams{
		ID: "u-1", Email: "mo@example.com", PasswordHash: "x",
		FirstName: "Mo", LastName: "Diallo", Role: domainuser.RoleOwner, CreatedAt: time.Now(),
	})
	require.NoError(t, err)
	require.NoError(t, f.users.Save(ctx, user))

	_, err = f.service.FileComplaint(ctx, "c-1", "adv-1", "Billing", "charged twice")
	require.NoError(t, err)

	dashboard, err := f.service.BuildDashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, dashboard.Users)
	assert.Equal(t, 1, dashboard.Billboards)
	assert.Equal(t, 1, dashboard.PendingBillboards)
	assert.Equal(t, 1, dashboard.Bookings)
	assert.Equal(t, 0, dashboard.PendingBookings)
	assert.Equal(t, 1, dashboard.OpenDisputes)
	assert.Equal(t, 1, dashboard.OpenComplaints)
	assert.Len(t, dashboard.RecentBookings, 1)
}
