package dto

import (
	"time"

	domainuser "adboard/internal/domain/user"
)

// UserProfile carries no password material; the hash never reaches a
// serializer.
type UserProfile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Role      string    `json:"role"`
	IsAdmin   bool      `json:"is_admin"`
	Verified  bool      `json:"verified"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	Bio       string    `json:"bio,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type AuthResponse struct {
	User  UserProfile `json:"user"`
	Token string      `json:"token"`
}

// PartySnapshot is the display slice of a user joined onto bookings.
type PartySnapshot struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

func MapUserProfile(user *domainuser.User) UserProfile {
	if user == nil {
		return UserProfile{}
	}
	return UserProfile{
		ID:        string(user.ID),
		Email:     user.Email,
		Phone:     user.Phone,
		FirstName: user.Profile.FirstName,
		LastName:  user.Profile.LastName,
		Role:      string(user.Profile.Role),
		IsAdmin:   user.IsAdmin(),
		Verified:  user.Verified,
		AvatarURL: user.Profile.AvatarURL,
		Bio:       user.Profile.Bio,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

func MapPartySnapshot(user *domainuser.User) PartySnapshot {
	if user == nil {
		return PartySnapshot{}
	}
	return PartySnapshot{
		ID:    string(user.ID),
		Name:  user.Profile.FullName(),
		Email: user.Email,
		Phone: user.Phone,
	}
}

func NewAuthResponse(user *domainuser.User, token string) AuthResponse {
	return AuthResponse{User: MapUserProfile(user), Token: token}
}

type UserCollection struct {
	Items      []UserProfile `json:"items"`
	Pagination Pagination    `json:"pagination"`
}

func MapUserCollection(users []*domainuser.User, page, limit, total int) UserCollection {
	items := make([]UserProfile, 0, len(users))
	for _, u := range users {
		items = append(items, MapUserProfile(u))
	}
	return UserCollection{Items: items, Pagination: NewPagination(page, limit, total)}
}
