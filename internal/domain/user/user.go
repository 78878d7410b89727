package user

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrIDRequired          = errors.New("user: id is required")
	ErrEmailRequired       = errors.New("user: email is required")
	ErrPasswordHashMissing = errors.New("user: password hash is required")
	ErrNameRequired        = errors.New("user: first and last name are required")
	ErrInvalidRole         = errors.New("user: invalid role")
	ErrRoleReserved        = errors.New("user: admin status is granted, not assumed")
	ErrEmailAlreadyUsed    = errors.New("user: email already used")
	ErrPhoneAlreadyUsed    = errors.New("user: phone already used")
	ErrNotFound            = errors.New("user: not found")
)

type ID string

type Role string

const (
	RoleAdvertiser Role = "ADVERTISER"
	RoleOwner      Role = "OWNER"
)

// Profile carries display data; identity fields stay on User.
type Profile struct {
	FirstName string
	LastName  string
	Role      Role
	AvatarURL string
	Bio       string
}

func (p Profile) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

type User struct {
	ID           ID
	Email        string
	Phone        string
	PasswordHash string
	Verified     bool
	Profile      Profile
	// AdminGrantedAt marks administrator status by presence: the zero value
	// means no grant.
	AdminGrantedAt time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type ListParams struct {
	Limit  int
	Offset int
}

type Repository interface {
	ByID(ctx context.Context, id ID) (*User, error)
	ByEmail(ctx context.Context, email string) (*User, error)
	ByPhone(ctx context.Context, phone string) (*User, error)
	Save(ctx context.Context, user *User) error
	List(ctx context.Context, params ListParams) ([]*User, int, error)
	Count(ctx context.Context) (int, error)
}

type CreateParams struct {
	ID           ID
	Email        string
	Phone        string
	PasswordHash string
	FirstName    string
	LastName     string
	Role         Role
	CreatedAt    time.Time
}

func NewUser(params CreateParams) (*User, error) {
	id := strings.TrimSpace(string(params.ID))
	if id == "" {
		return nil, ErrIDRequired
	}
	email := NormalizeEmail(params.Email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	if strings.TrimSpace(params.PasswordHash) == "" {
		return nil, ErrPasswordHashMissing
	}
	first := strings.TrimSpace(params.FirstName)
	last := strings.TrimSpace(params.LastName)
	if first == "" || last == "" {
		return nil, ErrNameRequired
	}
	role, err := ParseRole(string(params.Role))
	if err != nil {
		return nil, err
	}

	now := params.CreatedAt
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()

	return &User{
		ID:           ID(id),
		Email:        email,
		Phone:        strings.TrimSpace(params.Phone),
		PasswordHash: params.PasswordHash,
		Profile: Profile{
			FirstName: first,
			LastName:  last,
			Role:      role,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (u *User) IsAdmin() bool {
	return !u.AdminGrantedAt.IsZero()
}

// GrantAdmin records administrator status. Granting twice is a no-op.
func (u *User) GrantAdmin(now time.Time) {
	if u.IsAdmin() {
		return
	}
	u.AdminGrantedAt = now.UTC()
	u.touch(now)
}

// ChangeRole switches between the self-service marketplace roles. Admin
// status is never reachable through here.
func (u *User) ChangeRole(role Role, now time.Time) error {
	parsed, err := ParseRole(string(role))
	if err != nil {
		return err
	}
	u.Profile.Role = parsed
	u.touch(now)
	return nil
}

func (u *User) SetPasswordHash(hash string, now time.Time) error {
	if strings.TrimSpace(hash) == "" {
		return ErrPasswordHashMissing
	}
	u.PasswordHash = hash
	u.touch(now)
	return nil
}

func (u *User) UpdateProfile(firstName, lastName, avatarURL, bio string, now time.Time) error {
	first := strings.TrimSpace(firstName)
	last := strings.TrimSpace(lastName)
	if first == "" || last == "" {
		return ErrNameRequired
	}
	u.Profile.FirstName = first
	u.Profile.LastName = last
	u.Profile.AvatarURL = strings.TrimSpace(avatarURL)
	u.Profile.Bio = strings.TrimSpace(bio)
	u.touch(now)
	return nil
}

func (u *User) MarkVerified(now time.Time) {
	if u.Verified {
		return
	}
	u.Verified = true
	u.touch(now)
}

func (u *User) touch(now time.Time) {
	if now.IsZero() {
		now = time.Now()
	}
	u.UpdatedAt = now.UTC()
}

func ParseRole(raw string) (Role, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case string(RoleAdvertiser):
		return RoleAdvertiser, nil
	case string(RoleOwner):
		return RoleOwner, nil
	case "ADMIN":
		return "", ErrRoleReserved
	default:
		return "", ErrInvalidRole
	}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
