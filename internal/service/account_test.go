package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balasutharsan1247/student-fitness-app/internal"
	"github.com/balasutharsan1247/student-fitness-app/internal/auth"
	"github.com/balasutharsan1247/student-fitness-app/internal/storage"
)

func setupAccounts(t *testing.T) (*AccountService, *auth.TokenManager, *storage.Repositories) {
	repos := setupRepos(t)
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	s := NewAccountService(repos.Users, tokens, internal.NewNopLogger())
	return s, tokens, repos
}

func registerRequest() *RegisterRequest {
	return &RegisterRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "Ada@Uni.edu",
		Password:  "hunter22",
		Year:      "II",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	s, tokens, _ := setupAccounts(t)
	ctx := context.Background()

	res, err := s.Register(ctx, registerRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Empty(t, res.User.PasswordHash)
	assert.Equal(t, "ada@uni.edu", res.User.Email)
	assert.Equal(t, 1, res.User.Level)
	assert.Equal(t, 10000, res.User.TargetSteps)

	subject, err := tokens.Parse(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, subject)

	_, err = s.Register(ctx, registerRequest())
	assert.ErrorIs(t, err, internal.ErrConflict)

	login, err := s.Login(ctx, &LoginRequest{Email: "ada@uni.edu", Password: "hunter22"})
	require.NoError(t, err)
	assert.NotNil(t, login.User.LastLogin)

	_, err = s.Login(ctx, &LoginRequest{Email: "ada@uni.edu", Password: "wrong"})
	assert.ErrorIs(t, err, internal.ErrUnauthorized)
	_, err = s.Login(ctx, &LoginRequest{Email: "nobody@uni.edu", Password: "hunter22"})
	assert.ErrorIs(t, err, internal.ErrUnauthorized)
}

func TestRegisterValidation(t *testing.T) {
	s, _, _ := setupAccounts(t)
	ctx := context.Background()

	req := registerRequest()
	req.Email = "not-an-email"
	_, err := s.Register(ctx, req)
	assert.ErrorIs(t, err, internal.ErrValidationFailed)

	req = registerRequest()
	req.Password = "123"
	_, err = s.Register(ctx, req)
	assert.ErrorIs(t, err, internal.ErrValidationFailed)

	req = registerRequest()
	req.Year = "V"
	_, err = s.Register(ctx, req)
	assert.ErrorIs(t, err, internal.ErrValidationFailed)
}

func TestUpdateProfileAndPassword(t *testing.T) {
	s, _, _ := setupAccounts(t)
	ctx := context.Background()
	res, err := s.Register(ctx, registerRequest())
	require.NoError(t, err)
	id := res.User.ID

	target := 12000
	dept := "Mathematics"
	user, err := s.UpdateProfile(ctx, id, &UpdateProfileRequest{TargetSteps: &target, Department: &dept})
	require.NoError(t, err)
	assert.Equal(t, 12000, user.TargetSteps)
	assert.Equal(t, "Mathematics", user.Department)
	assert.Equal(t, "Ada", user.FirstName)

	_, err = s.UpdatePassword(ctx, id, &UpdatePasswordRequest{CurrentPassword: "wrong", NewPassword: "better-pass"})
	assert.ErrorIs(t, err, internal.ErrUnauthorized)

	changed, err := s.UpdatePassword(ctx, id, &UpdatePasswordRequest{CurrentPassword: "hunter22", NewPassword: "better-pass"})
	require.NoError(t, err)
	assert.NotEmpty(t, changed.Token)

	_, err = s.Login(ctx, &LoginRequest{Email: "ada@uni.edu", Password: "hunter22"})
	assert.ErrorIs(t, err, internal.ErrUnauthorized)
	_, err = s.Login(ctx, &LoginRequest{Email: "ada@uni.edu", Password: "better-pass"})
	assert.NoError(t, err)
}

func TestRecalculateLevels(t *testing.T) {
	s, _, repos := setupAccounts(t)
	ctx := context.Background()

	seedUser(t, repos, "drifted", 0)
	seedUser(t, repos, "fine", 600)
	_, err := repos.Users.UpdateUser(ctx, "drifted", func(u *internal.User) error {
		u.Points = 1250
		return nil
	})
	require.NoError(t, err)

	fixed, err := s.RecalculateAllLevels(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, fixed)

	u, err := repos.Users.GetUser(ctx, "drifted")
	require.NoError(t, err)
	assert.Equal(t, 3, u.Level)

	res, err := s.RecalculateLevel(ctx, "fine")
	require.NoError(t, err)
	assert.Equal(t, LevelReconciliation{Points: 600, OldLevel: 2, NewLevel: 2}, *res)

	_, err = s.RecalculateLevel(ctx, "missing")
	assert.ErrorIs(t, err, internal.ErrNotFound)
}
