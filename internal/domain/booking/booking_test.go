package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adboard/internal/domain/shared/daterange"
	"adboard/internal/domain/shared/money"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestRequest(t *testing.T) *Request {
	t.Helper()
	dr, err := daterange.New(
		time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	request, err := NewRequest(CreateParams{
		ID:           "req-1",
		BillboardID:  "board-1",
		AdvertiserID: "adv-1",
		Range:        dr,
		PricePerDay:  money.Must(1000, "USD"),
		Message:      "  spring campaign  ",
		Now:          now,
	})
	require.NoError(t, err)
	return request
}

func TestQuoteMultipliesDailyRate(t *testing.T) {
	dr, err := daterange.New(
		time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	total := Quote(dr, money.Must(1500, "USD"))
	assert.Equal(t, int64(7500), total.Amount)
	assert.Equal(t, "USD", total.Currency)
}

func TestNewRequestDefaults(t *testing.T) {
	request := newTestRequest(t)
	assert.Equal(t, StatusPending, request.Status)
	assert.Equal(t, int64(5000), request.TotalAmount.Amount)
	assert.Equal(t, "spring campaign", request.Message)
	assert.False(t, request.HasDispute)
}

func TestNewRequestRejectsPastStart(t *testing.T) {
	dr, err := daterange.New(
		time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 2, 25, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	_, err = NewRequest(CreateParams{
		ID:           "req-2",
		BillboardID:  "board-1",
		AdvertiserID: "adv-1",
		Range:        dr,
		PricePerDay:  money.Must(1000, "USD"),
		Now:          now,
	})
	assert.ErrorIs(t, err, ErrStartInPast)
}

func TestNewRequestAllowsStartEarlierToday(t *testing.T) {
	dr, err := daterange.New(
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	_, err = NewRequest(CreateParams{
		ID:           "req-3",
		BillboardID:  "board-1",
		AdvertiserID: "adv-1",
		Range:        dr,
		PricePerDay:  money.Must(1000, "USD"),
		Now:          now,
	})
	assert.NoError(t, err)
}

func TestApproveOnlyFromPending(t *testing.T) {
	request := newTestRequest(t)
	require.NoError(t, request.Approve("see you there", now))
	assert.Equal(t, StatusApproved, request.Status)
	assert.Equal(t, "see you there", request.Response)

	assert.ErrorIs(t, request.Approve("", now), ErrAlreadyProcessed)
	assert.ErrorIs(t, request.Reject("", now), ErrAlreadyProcessed)
}

func TestCancelOnlyPending(t *testing.T) {
	request := newTestRequest(t)
	require.NoError(t, request.Cancel(now))
	assert.Equal(t, StatusCancelled, request.Status)

	approved := newTestRequest(t)
	require.NoError(t, approved.Approve("", now))
	assert.ErrorIs(t, approved.Cancel(now), ErrNotCancellable)
}

func TestCancelledIsDistinctFromRejected(t *testing.T) {
	cancelled := newTestRequest(t)
	require.NoError(t, cancelled.Cancel(now))

	rejected := newTestRequest(t)
	require.NoError(t, rejected.Reject("no thanks", now))

	assert.NotEqual(t, rejected.Status, cancelled.Status)
	assert.False(t, cancelled.Holding())
	assert.False(t, rejected.Holding())
}

func TestOpenDisputeRequiresApproval(t *testing.T) {
	request := newTestRequest(t)
	assert.ErrorIs(t, request.OpenDispute("adv-1", "board was blank", now), ErrNotApproved)

	require.NoError(t, request.Approve("", now))
	assert.ErrorIs(t, request.OpenDispute("adv-1", "   ", now), ErrDisputeReason)

	require.NoError(t, request.OpenDispute("adv-1", "board was blank", now))
	assert.True(t, request.HasDispute)
	assert.Equal(t, DisputeOpen, request.DisputeStatus)

	assert.ErrorIs(t, request.OpenDispute("adv-1", "again", now), ErrDisputeExists)
}

func TestSetDisputeStatusAllowsAnyTransition(t *testing.T) {
	request := newTestRequest(t)
	assert.ErrorIs(t, request.SetDisputeStatus(DisputeResolved, now), ErrNoDispute)

	require.NoError(t, request.Approve("", now))
	require.NoError(t, request.OpenDispute("adv-1", "board was blank", now))

	require.NoError(t, request.SetDisputeStatus(DisputeClosed, now))
	require.NoError(t, request.SetDisputeStatus(DisputeInProgress, now))
	assert.Equal(t, DisputeInProgress, request.DisputeStatus)
}

func TestParseStatus(t *testing.T) {
	status, err := ParseStatus(" approved ")
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, status)

	_, err = ParseStatus("EXPIRED")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}
