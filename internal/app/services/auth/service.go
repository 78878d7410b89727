package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	domainuser "adboard/internal/domain/user"
)

var (
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrPasswordTooShort   = errors.New("auth: password must be at least 8 characters")
	ErrInvalidToken       = errors.New("auth: invalid or expired token")
)

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenCodec issues and verifies signed bearer tokens.
type TokenCodec interface {
	Issue(userID string, ttl time.Duration) (string, error)
	Verify(token string) (userID string, err error)
}

type Service struct {
	Users     domainuser.Repository
	Passwords PasswordHasher
	Tokens    TokenCodec
	TokenTTL  time.Duration
	Logger    *slog.Logger
}

type RegisterParams struct {
	Email     string
	Phone     string
	Password  string
	FirstName string
	LastName  string
	Role      string
}

type LoginParams struct {
	Email    string
	Phone    string
	Password string
}

type AuthResult struct {
	User  *domainuser.User
	Token string
}

func (s *Service) Register(ctx context.Context, params RegisterParams) (*AuthResult, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	if err := s.validatePassword(params.Password); err != nil {
		return nil, err
	}
	role, err := domainuser.ParseRole(params.Role)
	if err != nil {
		return nil, err
	}
	hash, err := s.Passwords.Hash(params.Password)
	if err != nil {
		return nil, err
	}
	user, err := domainuser.NewUser(domainuser.CreateParams{
		ID:           domainuser.ID(uuid.NewString()),
		Email:        params.Email,
		Phone:        params.Phone,
		PasswordHash: hash,
		FirstName:    params.FirstName,
		LastName:     params.LastName,
		Role:         role,
		CreatedAt:    time.Now(),
	})
	if err != nil {
		return nil, err
	}
	if err := s.ensureContactsFree(ctx, user); err != nil {
		return nil, err
	}
	if err := s.Users.Save(ctx, user); err != nil {
		return nil, err
	}
	token, err := s.Tokens.Issue(string(user.ID), s.tokenTTL())
	if err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("user registered", "user_id", user.ID, "role", user.Profile.Role)
	}
	return &AuthResult{User: user, Token: token}, nil
}

// Login accepts either email or phone as the credential identifier.
func (s *Service) Login(ctx context.Context, params LoginParams) (*AuthResult, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	user, err := s.lookup(ctx, params.Email, params.Phone)
	if err != nil {
		if errors.Is(err, domainuser.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := s.Passwords.Compare(user.PasswordHash, params.Password); err != nil {
		return nil, ErrInvalidCredentials
	}
	token, err := s.Tokens.Issue(string(user.ID), s.tokenTTL())
	if err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("user authenticated", "user_id", user.ID)
	}
	return &AuthResult{User: user, Token: token}, nil
}

// ResolveToken verifies the bearer token and re-reads the user; a token for a
// vanished user is treated as invalid.
func (s *Service) ResolveToken(ctx context.Context, token string) (*domainuser.User, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidToken
	}
	userID, err := s.Tokens.Verify(token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	user, err := s.Users.ByID(ctx, domainuser.ID(userID))
	if err != nil {
		if errors.Is(err, domainuser.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return user, nil
}

func (s *Service) ChangePassword(ctx context.Context, userID domainuser.ID, current, next string) error {
	if err := s.ensureDependencies(); err != nil {
		return err
	}
	user, err := s.Users.ByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.Passwords.Compare(user.PasswordHash, current); err != nil {
		return ErrInvalidCredentials
	}
	if err := s.validatePassword(next); err != nil {
		return err
	}
	hash, err := s.Passwords.Hash(next)
	if err != nil {
		return err
	}
	if err := user.SetPasswordHash(hash, time.Now()); err != nil {
		return err
	}
	return s.Users.Save(ctx, user)
}

// ChangeRole is the one privileged path for role changes; it never touches
// admin status and rejects an ADMIN target outright.
func (s *Service) ChangeRole(ctx context.Context, userID domainuser.ID, role string) (*domainuser.User, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	parsed, err := domainuser.ParseRole(role)
	if err != nil {
		return nil, err
	}
	user, err := s.Users.ByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := user.ChangeRole(parsed, time.Now()); err != nil {
		return nil, err
	}
	if err := s.Users.Save(ctx, user); err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("role changed", "user_id", user.ID, "role", parsed)
	}
	return user, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID domainuser.ID, firstName, lastName, avatarURL, bio string) (*domainuser.User, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	user, err := s.Users.ByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := user.UpdateProfile(firstName, lastName, avatarURL, bio, time.Now()); err != nil {
		return nil, err
	}
	if err := s.Users.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) lookup(ctx context.Context, email, phone string) (*domainuser.User, error) {
	email = domainuser.NormalizeEmail(email)
	if email != "" {
		return s.Users.ByEmail(ctx, email)
	}
	phone = strings.TrimSpace(phone)
	if phone != "" {
		return s.Users.ByPhone(ctx, phone)
	}
	return nil, ErrInvalidCredentials
}

func (s *Service) ensureContactsFree(ctx context.Context, user *domainuser.User) error {
	if _, err := s.Users.ByEmail(ctx, user.Email); err == nil {
		return domainuser.ErrEmailAlreadyUsed
	} else if !errors.Is(err, domainuser.ErrNotFound) {
		return err
	}
	if user.Phone == "" {
		return nil
	}
	if _, err := s.Users.ByPhone(ctx, user.Phone); err == nil {
		return domainuser.ErrPhoneAlreadyUsed
	} else if !errors.Is(err, domainuser.ErrNotFound) {
		return err
	}
	return nil
}

func (s *Service) tokenTTL() time.Duration {
	if s.TokenTTL > 0 {
		return s.TokenTTL
	}
	return 24 * time.Hour
}

func (s *Service) validatePassword(password string) error {
	if utf8.RuneCountInString(password) < 8 {
		return ErrPasswordTooShort
	}
	return nil
}

func (s *Service) ensureDependencies() error {
	switch {
	case s.Users == nil:
		return errors.New("auth: user repository required")
	case s.Passwords == nil:
		return errors.New("auth: password hasher required")
	case s.Tokens == nil:
		return errors.New("auth: token codec required")
	default:
		return nil
	}
}
