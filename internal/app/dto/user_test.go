package dto

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainuser "adboard/internal/domain/user"
)

func TestMapUserProfileNeverLeaksPasswordHash(t *testing.T) {
	user, err := domainuser.NewUser(domainuser.CreateParams{
		ID:           "u-1",
		Email:        "ada@example.com",
		PasswordHash: "$2a$12$supersecret",
		FirstName:    "Ada",
		LastName:     "Okafor",
		Role:         domainuser.RoleAdvertiser,
		CreatedAt:    time.Now(),
	})
	require.NoError(t, err)

	raw, err := json.Marshal(MapUserProfile(user))
	require.NoError(t, err)

	assert.NotContains(t, string(raw), "supersecret")
	assert.False(t, strings.Contains(strings.ToLower(string(raw)), "password"))
}

func TestMapUserProfileFlagsAdmin(t *testing.T) {
	user, err := domainuser.NewUser(domainuser.CreateParams{
		ID:           "u-2",
		Email:        "root@example.com",
		PasswordHash: "x",
		FirstName:    "Root",
		LastName:     "Admin",
		Role:         domainuser.RoleOwner,
		CreatedAt:    time.Now(),
	})
	require.NoError(t, err)
	user.GrantAdmin(time.Now())

	profile := MapUserProfile(user)
	assert.True(t, profile.IsAdmin)
	assert.Equal(t, string(domainuser.RoleOwner), profile.Role)
}

func TestNewPaginationComputesPages(t *testing.T) {
	p := NewPagination(2, 10, 35)
	assert.Equal(t, 2, p.Page)
	assert.Equal(t, 10, p.Limit)
	assert.Equal(t, 35, p.Total)
	assert.Equal(t, 4, p.Pages)

	empty := NewPagination(1, 10, 0)
	assert.Equal(t, 0, empty.Pages)
}
