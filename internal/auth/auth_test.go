package auth

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mutter0815/PageBuilder/internal/apperr"
)

type fakeUsers struct {
	byName map[string]User
}

func newFakeUsers() *fakeUsers { return &fakeUsers{byName: map[string]User{}} }

func (f *fakeUsers) CreateUser(_ context.Context, u *User) error {
	if _, ok := f.byName[u.Username]; ok {
		return apperr.ErrUsernameTaken
	}
	u.ID = strconv.Itoa(len(f.byName) + 1)
	f.byName[u.Username] = *u
	return nil
}

func (f *fakeUsers) GetUserByUsername(_ context.Context, username string) (User, error) {
	u, ok := f.byName[username]
	if !ok {
		return User{}, apperr.ErrUserNotFound
	}
	return u, nil
}

func TestRequireAdmin(t *testing.T) {
	require.ErrorIs(t, RequireAdmin(Principal{}), &apperr.Error{Code: apperr.CodeAuthRequired})
	require.ErrorIs(t, RequireAdmin(Principal{ID: "1", Role: RoleUser}), &apperr.Error{Code: apperr.CodeAuthForbidden})
	require.NoError(t, RequireAdmin(Principal{ID: "1", Role: RoleAdmin}))
	assert.Equal(t, apperr.KindAuthorization, apperr.KindOf(RequireAdmin(Principal{})))
}

func TestTokens_RoundTrip(t *testing.T) {
	tok := NewTokens("secret", time.Hour)
	raw, exp, err := tok.Issue(User{ID: "u1", Username: "root", Role: RoleAdmin})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, time.Minute)

	p, err := tok.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, Principal{ID: "u1", Username: "root", Role: RoleAdmin}, p)
}

func TestTokens_Rejects(t *testing.T) {
	tok := NewTokens("secret", time.Hour)
	raw, _, err := tok.Issue(User{ID: "u1", Username: "root", Role: RoleAdmin})
	require.NoError(t, err)

	_, err = NewTokens("other", time.Hour).Parse(raw)
	require.ErrorIs(t, err, &apperr.Error{Code: apperr.CodeInvalidToken})

	_, err = tok.Parse("not-a-token")
	require.ErrorIs(t, err, &apperr.Error{Code: apperr.CodeInvalidToken})

	later := NewTokens("secret", time.Hour)
	later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = later.Parse(raw)
	require.ErrorIs(t, err, &apperr.Error{Code: apperr.CodeInvalidToken})
}

func TestService_LoginAndRegister(t *testing.T) {
	users := newFakeUsers()
	svc := NewService(users, NewTokens("secret", time.Hour))
	ctx := context.Background()

	require.NoError(t, svc.EnsureAdmin(ctx, "admin", "hunter22"))
	require.NoError(t, svc.EnsureAdmin(ctx, "admin", "ignored"), "bootstrap is idempotent")
	assert.Len(t, users.byName, 1)

	sess, err := svc.Login(ctx, "admin", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, sess.User.Role)

	p, err := svc.Authenticate(sess.Token)
	require.NoError(t, err)
	assert.Equal(t, sess.User, p)

	_, err = svc.Login(ctx, "admin", "wrong")
	require.ErrorIs(t, err, &apperr.Error{Code: apperr.CodeInvalidCredentials})
	_, err = svc.Login(ctx, "nobody", "x")
	require.ErrorIs(t, err, &apperr.Error{Code: apperr.CodeInvalidCredentials})

	_, err = svc.Register(ctx, Principal{}, "bob", "password1", RoleUser)
	require.ErrorIs(t, err, &apperr.Error{Code: apperr.CodeAuthRequired})

	bob, err := svc.Register(ctx, p, "bob", "password1", "")
	require.NoError(t, err)
	assert.Equal(t, RoleUser, bob.Role)
	assert.NotEqual(t, "password1", bob.PasswordHash)

	_, err = svc.Register(ctx, p, "bob", "password1", RoleUser)
	require.ErrorIs(t, err, apperr.ErrUsernameTaken)

	_, err = svc.Register(ctx, p, "eve", "123", RoleUser)
	require.ErrorIs(t, err, &apperr.Error{Code: apperr.CodeUserInvalid})

	bobSess, err := svc.Login(ctx, "bob", "password1")
	require.NoError(t, err)
	require.ErrorIs(t, RequireAdmin(bobSess.User), &apperr.Error{Code: apperr.CodeAuthForbidden})
}
