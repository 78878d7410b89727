package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainbillboard "adboard/internal/domain/billboard"
	"adboard/internal/domain/shared/money"
	domainuser "adboard/internal/domain/user"
)

func seedBoard(t *testing.T, repo *BillboardRepository, id string, owner domainuser.ID, price int64, approved bool) *domainbillboard.Billboard {
	t.Helper()
	board, err := domainbillboard.New(domainbillboard.CreateParams{
		ID:          domainbillboard.ID(id),
		OwnerID:     owner,
		Name:        "Board " + id,
		Location:    "Main street " + id,
		Size:        "6x3",
		PricePerDay: money.Must(price, "USD"),
		Now:         time.Now(),
	})
	require.NoError(t, err)
	if approved {
		board.Approve(time.Now())
	}
	require.NoError(t, repo.Save(context.Background(), board))
	return board
}

func TestSearchFilters(t *testing.T) {
	repo := NewBillboardRepository()
	ctx := context.Background()

	seedBoard(t, repo, "cheap", "owner-1", 500, true)
	seedBoard(t, repo, "mid", "owner-1", 1500, true)
	seedBoard(t, repo, "pricey", "owner-2", 5000, true)
	seedBoard(t, repo, "unreviewed", "owner-2", 100, false)

	result, err := repo.Search(ctx, domainbillboard.SearchParams{PriceMin: 1000, PriceMax: 2000})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, domainbillboard.ID("mid"), result.Items[0].ID)

	result, err = repo.Search(ctx, domainbillboard.SearchParams{BookableOnly: true})
	require.NoError(t, err)
	assert.Equal(t, 3, result.Total)

	result, err = repo.Search(ctx, domainbillboard.SearchParams{OwnerID: "owner-2"})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Total)

	result, err = repo.Search(ctx, domainbillboard.SearchParams{Query: "downtown"})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Total)

	result, err = repo.Search(ctx, domainbillboard.SearchParams{Query: "Board cheap"})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Total)
}

func TestSearchPagination(t *testing.T) {
	repo := NewBillboardRepository()
	for i := 0; i < 5; i++ {
		seedBoard(t, repo, string(rune('a'+i)), "owner-1", 1000, true)
	}

	result, err := repo.Search(context.Background(), domainbillboard.SearchParams{Limit: 2, Offset: 4})
	require.NoError(t, err)
	assert.Equal(t, 5, result.Total)
	assert.Len(t, result.Items, 1)
}

func TestCountByStatus(t *testing.T) {
	repo := NewBillboardRepository()
	seedBoard(t, repo, "a", "owner-1", 1000, true)
	seedBoard(t, repo, "b", "owner-1", 1000, false)

	approved, err := repo.CountByStatus(context.Background(), domainbillboard.StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, 1, approved)

	pending, err := repo.CountByStatus(context.Background(), domainbillboard.StatusPending)
	require.NoError(t, err)
	assert.Equal(t, 1, pending)
}
