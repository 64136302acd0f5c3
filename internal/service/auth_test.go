package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/IsmaelKabore/SkillHub/internal/apperror"
	"github.com/IsmaelKabore/SkillHub/internal/auth"
)

const testSecret = "test-secret-at-least-16-chars!!"

// newTestAuthService returns an AuthService wired with fake dependencies and
// the token service it signs with, so tests can verify what Login returns.
func newTestAuthService(t *testing.T, repo *fakeUserRepo) (*AuthService, *auth.TokenService) {
	t.Helper()

	ts, err := auth.NewTokenService(testSecret, auth.DefaultTokenTTL)
	require.NoError(t, err)

	// bcrypt.MinCost keeps hashing in the millisecond range
	ps := auth.NewPasswordService(bcrypt.MinCost)

	return NewAuthService(repo, ps, ts, discardLogger()), ts
}

func registerAlice(t *testing.T, svc *AuthService) {
	t.Helper()
	_, err := svc.Register(context.Background(), RegisterInput{Username: "alice", Email: "a@x.com", Password: "pw1"})
	require.NoError(t, err)
}

// =========================================================================
// Register TESTS
// =========================================================================

func TestRegister_Success(t *testing.T) {
	repo := newFakeUserRepo()
	svc, _ := newTestAuthService(t, repo)

	user, err := svc.Register(context.Background(), RegisterInput{
		Username: "  alice ",
		Email:    " a@x.com",
		Password: "pw1",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, "alice", user.Username, "username should be trimmed")
	assert.Equal(t, "a@x.com", user.Email, "email should be trimmed")

	stored, err := repo.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "pw1", stored.PasswordHash, "the plaintext must never be stored")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("pw1")))
}

func TestRegister_MissingFields(t *testing.T) {
	cases := []struct {
		name  string
		in    RegisterInput
		field string
	}{
		{"no username", RegisterInput{Email: "a@x.com", Password: "pw1"}, "username"},
		{"blank username", RegisterInput{Username: "   ", Email: "a@x.com", Password: "pw1"}, "username"},
		{"no email", RegisterInput{Username: "alice", Password: "pw1"}, "email"},
		{"no password", RegisterInput{Username: "alice", Email: "a@x.com"}, "password"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, _ := newTestAuthService(t, newFakeUserRepo())

			_, err := svc.Register(context.Background(), tc.in)

			require.ErrorIs(t, err, apperror.ErrValidation)
			var appErr *apperror.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, tc.field, appErr.Field)
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _ := newTestAuthService(t, newFakeUserRepo())
	registerAlice(t, svc)

	_, err := svc.Register(context.Background(), RegisterInput{Username: "alice2", Email: "a@x.com", Password: "pw2"})

	require.ErrorIs(t, err, apperror.ErrConflict)
	assert.Equal(t, "email already registered", err.Error())
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc, _ := newTestAuthService(t, newFakeUserRepo())
	registerAlice(t, svc)

	_, err := svc.Register(context.Background(), RegisterInput{Username: "alice", Email: "other@x.com", Password: "pw2"})

	require.ErrorIs(t, err, apperror.ErrConflict)
	assert.Equal(t, "username already taken", err.Error())
}

func TestRegister_ConstraintViolationIsConflict(t *testing.T) {
	repo := newFakeUserRepo()
	svc, _ := newTestAuthService(t, repo)
	registerAlice(t, svc)

	// The pre-checks miss (as if another request inserted between check and
	// insert); the store's own uniqueness still wins.
	repo.hideOnLookup = true
	_, err := svc.Register(context.Background(), RegisterInput{Username: "alice2", Email: "a@x.com", Password: "pw2"})

	require.ErrorIs(t, err, apperror.ErrConflict)
	assert.Equal(t, "email already registered", err.Error())
}

func TestRegister_PasswordTooLong(t *testing.T) {
	svc, _ := newTestAuthService(t, newFakeUserRepo())

	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "alice", Email: "a@x.com", Password: strings.Repeat("x", 73),
	})

	require.ErrorIs(t, err, apperror.ErrValidation)
}

func TestRegister_RepositoryError(t *testing.T) {
	repo := newFakeUserRepo()
	repo.createErr = errors.New("database is on fire")
	svc, _ := newTestAuthService(t, repo)

	_, err := svc.Register(context.Background(), RegisterInput{Username: "alice", Email: "a@x.com", Password: "pw1"})

	require.Error(t, err)
	assert.NotErrorIs(t, err, apperror.ErrConflict)
	assert.NotErrorIs(t, err, apperror.ErrValidation)
}

func TestRegister_LookupErrorIsNotConflict(t *testing.T) {
	repo := newFakeUserRepo()
	repo.getErr = errors.New("connection reset")
	svc, _ := newTestAuthService(t, repo)

	_, err := svc.Register(context.Background(), RegisterInput{Username: "alice", Email: "a@x.com", Password: "pw1"})

	require.Error(t, err)
	assert.NotErrorIs(t, err, apperror.ErrConflict)
}

// =========================================================================
// Login TESTS
// =========================================================================

func TestLogin_Success(t *testing.T) {
	svc, ts := newTestAuthService(t, newFakeUserRepo())
	registerAlice(t, svc)

	result, err := svc.Login(context.Background(), "a@x.com", "pw1")
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)

	claims, err := ts.Verify(result.Token)
	require.NoError(t, err)
	assert.Equal(t, auth.Identity{UserID: 1, Username: "alice", Email: "a@x.com"}, claims.Identity())
	assert.Equal(t, time.Hour, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _ := newTestAuthService(t, newFakeUserRepo())
	registerAlice(t, svc)

	_, err := svc.Login(context.Background(), "ghost@x.com", "pw1")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := newTestAuthService(t, newFakeUserRepo())
	registerAlice(t, svc)

	_, err := svc.Login(context.Background(), "a@x.com", "wrong")

	require.ErrorIs(t, err, apperror.ErrUnauthorized)
	assert.Equal(t, "invalid credentials", err.Error())
}

func TestLogin_MissingFields(t *testing.T) {
	svc, _ := newTestAuthService(t, newFakeUserRepo())

	_, err := svc.Login(context.Background(), "", "pw1")
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = svc.Login(context.Background(), "a@x.com", "")
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestLogin_RepositoryError(t *testing.T) {
	repo := newFakeUserRepo()
	svc, _ := newTestAuthService(t, repo)
	registerAlice(t, svc)
	repo.getErr = errors.New("connection reset")

	_, err := svc.Login(context.Background(), "a@x.com", "pw1")

	require.Error(t, err)
	assert.NotErrorIs(t, err, apperror.ErrNotFound)
}

// =========================================================================
// ListUsers TESTS
// =========================================================================

func TestListUsers(t *testing.T) {
	svc, _ := newTestAuthService(t, newFakeUserRepo())

	users, err := svc.ListUsers(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)

	registerAlice(t, svc)
	_, err = svc.Register(context.Background(), RegisterInput{Username: "bob", Email: "b@x.com", Password: "pw2"})
	require.NoError(t, err)

	users, err = svc.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].Username)
	assert.Equal(t, "bob", users[1].Username)
}

func TestListUsers_RepositoryError(t *testing.T) {
	repo := newFakeUserRepo()
	repo.listErr = errors.New("boom")
	svc, _ := newTestAuthService(t, repo)

	_, err := svc.ListUsers(context.Background())
	assert.Error(t, err)
}
