package service

import (
	"testing"
	"time"

	"github.com/lshigami/Meerkats/config"
	"github.com/lshigami/Meerkats/internal/dto"
	"github.com/lshigami/Meerkats/internal/model"
	"github.com/lshigami/Meerkats/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthService(t *testing.T) AuthService {
	t.Helper()
	db := newTestDB(t)
	cfg := &config.Config{}
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.TokenTTL = time.Hour
	return NewAuthService(repository.NewUserRepository(db), cfg)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newTestAuthService(t)

	registered, err := svc.Register(dto.RegisterRequest{
		Username: "alice",
		Password: "password123",
		Email:    "alice@example.com",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, registered.Token)
	assert.Equal(t, "alice", registered.User.Username)
	// Unspecified role defaults to candidate.
	assert.Equal(t, model.RoleCandidate, registered.User.Role)

	loggedIn, err := svc.Login(dto.LoginRequest{Username: "alice", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, loggedIn.User.ID)
	assert.NotEmpty(t, loggedIn.Token)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc := newTestAuthService(t)

	_, err := svc.Register(dto.RegisterRequest{Username: "alice", Password: "password123"})
	require.NoError(t, err)

	_, err = svc.Register(dto.RegisterRequest{Username: "alice", Password: "different456"})
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newTestAuthService(t)

	_, err := svc.Register(dto.RegisterRequest{Username: "alice", Password: "password123"})
	require.NoError(t, err)

	_, err = svc.Login(dto.LoginRequest{Username: "alice", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(dto.LoginRequest{Username: "nobody", Password: "password123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestGetUserFromToken(t *testing.T) {
	svc := newTestAuthService(t)

	registered, err := svc.Register(dto.RegisterRequest{Username: "hruser", Password: "password123", Role: model.RoleHR})
	require.NoError(t, err)

	user, err := svc.GetUserFromToken(registered.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, user.ID)
	assert.Equal(t, model.RoleHR, user.Role)

	_, err = svc.GetUserFromToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGetUserFromTokenRejectsForeignSignature(t *testing.T) {
	issuer := newTestAuthService(t)
	verifier := newTestAuthService(t)

	registered, err := issuer.Register(dto.RegisterRequest{Username: "alice", Password: "password123"})
	require.NoError(t, err)

	// Same secret, different user store: the subject does not exist there.
	_, err = verifier.GetUserFromToken(registered.Token)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestInitDemoUsersIdempotent(t *testing.T) {
	svc := newTestAuthService(t)

	first, err := svc.InitDemoUsers()
	require.NoError(t, err)
	require.Len(t, first, 2)

	second, err := svc.InitDemoUsers()
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.Equal(t, first[1].ID, second[1].ID)

	roles := map[string]string{second[0].Username: second[0].Role, second[1].Username: second[1].Role}
	assert.Equal(t, model.RoleHR, roles["hr_demo"])
	assert.Equal(t, model.RoleCandidate, roles["candidate_demo"])

	// Demo accounts are real accounts: the seeded password logs in.
	_, err = svc.Login(dto.LoginRequest{Username: "hr_demo", Password: "hr_demo_password"})
	assert.NoError(t, err)
}
