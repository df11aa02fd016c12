// Package auth authenticates admins: bcrypt password checks, session tokens
// and the admin gate used by every mutating campaign operation.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Mutter0815/PageBuilder/internal/apperr"
	"github.com/Mutter0815/PageBuilder/pkg/logx"
)

const minPasswordLen = 6

// UserStore persists users.
type UserStore interface {
	CreateUser(ctx context.Context, u *User) error
	GetUserByUsername(ctx context.Context, username string) (User, error)
}

type Service struct {
	users  UserStore
	tokens *Tokens
	now    func() time.Time
}

func NewService(users UserStore, tokens *Tokens) *Service {
	return &Service{users: users, tokens: tokens, now: time.Now}
}

// Session is the outcome of a successful login.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      Principal `json:"user"`
}

func (s *Service) Login(ctx context.Context, username, password string) (Session, error) {
	username = strings.TrimSpace(username)
	u, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperr.ErrUserNotFound) {
			return Session{}, apperr.Unauthorized(apperr.CodeInvalidCredentials, "unknown user %q", username)
		}
		return Session{}, err
	}
	if !u.IsActive {
		return Session{}, apperr.Unauthorized(apperr.CodeInvalidCredentials, "user %q is inactive", username)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return Session{}, apperr.Unauthorized(apperr.CodeInvalidCredentials, "wrong password for %q", username)
	}
	token, exp, err := s.tokens.Issue(u)
	if err != nil {
		return Session{}, apperr.Wrap(apperr.KindInternal, apperr.CodeInternal, err, "sign token")
	}
	return Session{Token: token, ExpiresAt: exp, User: u.Principal()}, nil
}

// Authenticate resolves a raw session token.
func (s *Service) Authenticate(raw string) (Principal, error) {
	return s.tokens.Parse(raw)
}

// Register creates a user. Only admins may register users.
func (s *Service) Register(ctx context.Context, actor Principal, username, password string, role Role) (User, error) {
	if err := RequireAdmin(actor); err != nil {
		return User{}, err
	}
	return s.create(ctx, username, password, role)
}

func (s *Service) create(ctx context.Context, username, password string, role Role) (User, error) {
	username = strings.TrimSpace(username)
	if role == "" {
		role = RoleUser
	}
	if username == "" || len(password) < minPasswordLen || !role.Valid() {
		return User{}, apperr.Validation(apperr.CodeUserInvalid, "", "username, password (min %d) and role are required", minPasswordLen)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, apperr.Wrap(apperr.KindInternal, apperr.CodeInternal, err, "hash password")
	}
	now := s.now().UTC()
	u := User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.CreateUser(ctx, &u); err != nil {
		return User{}, err
	}
	return u, nil
}

// EnsureAdmin creates the bootstrap admin unless a user with that name
// already exists. Empty credentials disable the bootstrap.
func (s *Service) EnsureAdmin(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return nil
	}
	_, err := s.users.GetUserByUsername(ctx, username)
	switch {
	case err == nil:
		return nil
	case !errors.Is(err, apperr.ErrUserNotFound):
		return err
	}
	if _, err := s.create(ctx, username, password, RoleAdmin); err != nil {
		if errors.Is(err, apperr.ErrUsernameTaken) {
			return nil
		}
		return err
	}
	logx.L().Infow("admin_bootstrapped", "username", username)
	return nil
}
