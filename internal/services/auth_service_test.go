package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/snakevisionhub/backend/internal/apperrors"
	"github.com/snakevisionhub/backend/internal/auth"
	"github.com/snakevisionhub/backend/internal/models"
)

// mockUserRepository is an in-memory implementation of UserRepository
type mockUserRepository struct {
	usersByEmail map[string]*models.User
	usernames    map[string]bool
	nextID       int
	err          error
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		usersByEmail: make(map[string]*models.User),
		usernames:    make(map[string]bool),
		nextID:       1,
	}
}

func (m *mockUserRepository) Create(ctx context.Context, user *models.User) error {
	if m.err != nil {
		return m.err
	}
	user.ID = m.nextID
	m.nextID++
	user.CreatedAt = time.Now()
	m.usersByEmail[user.Email] = user
	m.usernames[user.Username] = true
	return nil
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	user, ok := m.usersByEmail[email]
	if !ok {
		return nil, fmt.Errorf("user not found: %w", sql.ErrNoRows)
	}
	return user, nil
}

func (m *mockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	_, ok := m.usersByEmail[email]
	return ok, nil
}

func (m *mockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return m.usernames[username], nil
}

// mockSessionRepository is an in-memory implementation of SessionRepository
type mockSessionRepository struct {
	sessions    map[string]*models.Session
	usersByID   map[int]*models.User
	nextID      int
	err         error
	deleteCount int
}

func newMockSessionRepository() *mockSessionRepository {
	return &mockSessionRepository{
		sessions:  make(map[string]*models.Session),
		usersByID: make(map[int]*models.User),
		nextID:    1,
	}
}

func (m *mockSessionRepository) Create(ctx context.Context, session *models.Session) error {
	if m.err != nil {
		return m.err
	}
	session.ID = m.nextID
	m.nextID++
	session.CreatedAt = time.Now()
	m.sessions[session.Token] = session
	return nil
}

func (m *mockSessionRepository) GetByTokenWithUser(ctx context.Context, token string) (*models.Session, *models.User, error) {
	if m.err != nil {
		return nil, nil, m.err
	}
	session, ok := m.sessions[token]
	if !ok {
		return nil, nil, fmt.Errorf("session not found: %w", sql.ErrNoRows)
	}
	user, ok := m.usersByID[session.UserID]
	if !ok {
		return nil, nil, fmt.Errorf("session not found: %w", sql.ErrNoRows)
	}
	return session, user, nil
}

func (m *mockSessionRepository) DeleteByToken(ctx context.Context, token string) error {
	if m.err != nil {
		return m.err
	}
	delete(m.sessions, token)
	return nil
}

func (m *mockSessionRepository) DeleteByUserID(ctx context.Context, userID int) error {
	if m.err != nil {
		return m.err
	}
	for token, session := range m.sessions {
		if session.UserID == userID {
			delete(m.sessions, token)
		}
	}
	return nil
}

func (m *mockSessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	deleted := 0
	for token, session := range m.sessions {
		if !session.ExpiresAt.After(now) {
			delete(m.sessions, token)
			deleted++
		}
	}
	m.deleteCount = deleted
	return deleted, nil
}

// setupAuthService wires an auth service to fresh in-memory repositories
func setupAuthService(t *testing.T) (*authService, *mockUserRepository, *mockSessionRepository) {
	t.Helper()
	logger, err := zap.NewDevelopment()
	require.NoError(t, err)

	userRepo := newMockUserRepository()
	sessionRepo := newMockSessionRepository()
	svc := NewAuthService(userRepo, sessionRepo, auth.NewTokenGenerator(24*time.Hour), logger)

	return svc, userRepo, sessionRepo
}

// registerTestUser registers a user and mirrors it into the session repo's
// user lookup so token verification can resolve it
func registerTestUser(t *testing.T, svc *authService, sessionRepo *mockSessionRepository, username, email, password string) (string, *models.User) {
	t.Helper()
	token, user, err := svc.Register(context.Background(), &models.RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
	})
	require.NoError(t, err)
	sessionRepo.usersByID[user.ID] = user
	return token, user
}

func TestNewAuthService(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	userRepo := newMockUserRepository()
	sessionRepo := newMockSessionRepository()
	gen := auth.NewTokenGenerator(time.Hour)

	svc := NewAuthService(userRepo, sessionRepo, gen, logger)

	assert.NotNil(t, svc)
	assert.Equal(t, userRepo, svc.userRepo)
	assert.Equal(t, sessionRepo, svc.sessionRepo)
	assert.Equal(t, gen, svc.tokenGenerator)
	assert.Equal(t, logger, svc.logger)
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name        string
		req         *models.RegisterRequest
		setup       func(*mockUserRepository)
		expectedErr error
		validation  bool
	}{
		{
			name: "success",
			req:  &models.RegisterRequest{Username: "alice", Email: "Alice@Example.COM", Password: "secret123"},
		},
		{
			name:       "missing username",
			req:        &models.RegisterRequest{Email: "alice@example.com", Password: "secret123"},
			validation: true,
		},
		{
			name:       "missing password",
			req:        &models.RegisterRequest{Username: "alice", Email: "alice@example.com"},
			validation: true,
		},
		{
			name:       "invalid email format",
			req:        &models.RegisterRequest{Username: "alice", Email: "not-an-email", Password: "secret123"},
			validation: true,
		},
		{
			name:       "password too short",
			req:        &models.RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "abc"},
			validation: true,
		},
		{
			name: "email already registered",
			req:  &models.RegisterRequest{Username: "alice2", Email: "alice@example.com", Password: "secret123"},
			setup: func(repo *mockUserRepository) {
				repo.usersByEmail["alice@example.com"] = &models.User{ID: 1, Username: "alice"}
			},
			expectedErr: apperrors.ErrEmailTaken,
		},
		{
			name: "username already taken",
			req:  &models.RegisterRequest{Username: "alice", Email: "other@example.com", Password: "secret123"},
			setup: func(repo *mockUserRepository) {
				repo.usernames["alice"] = true
			},
			expectedErr: apperrors.ErrUsernameTaken,
		},
		{
			name: "email conflict reported before username conflict",
			req:  &models.RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "secret123"},
			setup: func(repo *mockUserRepository) {
				repo.usersByEmail["alice@example.com"] = &models.User{ID: 1, Username: "alice"}
				repo.usernames["alice"] = true
			},
			expectedErr: apperrors.ErrEmailTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, userRepo, _ := setupAuthService(t)
			if tt.setup != nil {
				tt.setup(userRepo)
			}

			token, user, err := svc.Register(context.Background(), tt.req)

			if tt.validation {
				assert.True(t, apperrors.IsValidation(err))
				assert.Empty(t, token)
				assert.Nil(t, user)
				return
			}
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Empty(t, token)
				assert.Nil(t, user)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, user)
			assert.Len(t, token, 64)
			assert.NotZero(t, user.ID)
			assert.Equal(t, "alice", user.Username)
			assert.Equal(t, "alice@example.com", user.Email, "email is lowercased before storage")
			assert.Equal(t, models.RoleUser, user.Role)
			assert.NotEqual(t, "secret123", user.PasswordHash)
		})
	}
}

func TestAuthService_RegisterThenVerify(t *testing.T) {
	svc, _, sessionRepo := setupAuthService(t)

	token, user := registerTestUser(t, svc, sessionRepo, "alice", "alice@example.com", "secret123")

	verified, err := svc.VerifyToken(context.Background(), token)

	require.NoError(t, err)
	assert.Equal(t, user.ID, verified.ID)
	assert.Equal(t, user.Email, verified.Email)
}

func TestAuthService_Login(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	seed := func(repo *mockUserRepository) {
		repo.usersByEmail["alice@example.com"] = &models.User{
			ID:           1,
			Username:     "alice",
			Email:        "alice@example.com",
			PasswordHash: string(hash),
			Role:         models.RoleUser,
		}
	}

	tests := []struct {
		name        string
		req         *models.LoginRequest
		expectedErr error
		validation  bool
	}{
		{
			name: "success",
			req:  &models.LoginRequest{Email: "alice@example.com", Password: "secret123"},
		},
		{
			name: "email is normalized before lookup",
			req:  &models.LoginRequest{Email: "  ALICE@example.com ", Password: "secret123"},
		},
		{
			name:       "missing credentials",
			req:        &models.LoginRequest{},
			validation: true,
		},
		{
			name:        "unknown email",
			req:         &models.LoginRequest{Email: "ghost@example.com", Password: "secret123"},
			expectedErr: apperrors.ErrInvalidCredentials,
		},
		{
			name:        "wrong password",
			req:         &models.LoginRequest{Email: "alice@example.com", Password: "wrongpass"},
			expectedErr: apperrors.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, userRepo, _ := setupAuthService(t)
			seed(userRepo)

			token, user, err := svc.Login(context.Background(), tt.req)

			if tt.validation {
				assert.True(t, apperrors.IsValidation(err))
				return
			}
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Empty(t, token)
				assert.Nil(t, user)
				return
			}

			require.NoError(t, err)
			assert.Len(t, token, 64)
			assert.Equal(t, 1, user.ID)
		})
	}
}

func TestAuthService_LoginFailuresAreIndistinguishable(t *testing.T) {
	svc, userRepo, _ := setupAuthService(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	userRepo.usersByEmail["alice@example.com"] = &models.User{
		ID: 1, Email: "alice@example.com", PasswordHash: string(hash),
	}

	_, _, unknownEmailErr := svc.Login(context.Background(), &models.LoginRequest{
		Email: "ghost@example.com", Password: "secret123",
	})
	_, _, wrongPasswordErr := svc.Login(context.Background(), &models.LoginRequest{
		Email: "alice@example.com", Password: "wrongpass",
	})

	// An attacker probing for registered emails learns nothing from the error
	assert.Equal(t, unknownEmailErr.Error(), wrongPasswordErr.Error())
}

func TestAuthService_LoginRotatesSession(t *testing.T) {
	svc, _, sessionRepo := setupAuthService(t)

	firstToken, user := registerTestUser(t, svc, sessionRepo, "alice", "alice@example.com", "secret123")

	secondToken, _, err := svc.Login(context.Background(), &models.LoginRequest{
		Email: "alice@example.com", Password: "secret123",
	})
	require.NoError(t, err)
	assert.NotEqual(t, firstToken, secondToken)

	// The old token is dead, the new one works, and the user holds
	// exactly one live session
	_, err = svc.VerifyToken(context.Background(), firstToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)

	verified, err := svc.VerifyToken(context.Background(), secondToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, verified.ID)

	assert.Len(t, sessionRepo.sessions, 1)
}

func TestAuthService_VerifyToken(t *testing.T) {
	t.Run("empty token", func(t *testing.T) {
		svc, _, _ := setupAuthService(t)

		_, err := svc.VerifyToken(context.Background(), "")

		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("unknown token", func(t *testing.T) {
		svc, _, _ := setupAuthService(t)

		_, err := svc.VerifyToken(context.Background(), "deadbeef")

		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("expired session is deleted on sight", func(t *testing.T) {
		svc, _, sessionRepo := setupAuthService(t)

		sessionRepo.usersByID[1] = &models.User{ID: 1, Username: "alice"}
		sessionRepo.sessions["expiredtoken"] = &models.Session{
			ID:        1,
			UserID:    1,
			Token:     "expiredtoken",
			ExpiresAt: time.Now().Add(-time.Minute),
		}

		_, err := svc.VerifyToken(context.Background(), "expiredtoken")

		assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
		assert.NotContains(t, sessionRepo.sessions, "expiredtoken")
	})

	t.Run("repository error is passed through", func(t *testing.T) {
		svc, _, sessionRepo := setupAuthService(t)
		sessionRepo.err = errors.New("database error")

		_, err := svc.VerifyToken(context.Background(), "sometoken")

		assert.Error(t, err)
		assert.NotErrorIs(t, err, apperrors.ErrInvalidToken)
	})
}

func TestAuthService_Logout(t *testing.T) {
	svc, _, sessionRepo := setupAuthService(t)

	token, _ := registerTestUser(t, svc, sessionRepo, "alice", "alice@example.com", "secret123")

	require.NoError(t, svc.Logout(context.Background(), token))

	_, err := svc.VerifyToken(context.Background(), token)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)

	// Logging out the same token again still succeeds
	assert.NoError(t, svc.Logout(context.Background(), token))
}

func TestAuthService_CleanupExpired(t *testing.T) {
	svc, _, sessionRepo := setupAuthService(t)

	sessionRepo.sessions["live"] = &models.Session{UserID: 1, Token: "live", ExpiresAt: time.Now().Add(time.Hour)}
	sessionRepo.sessions["dead1"] = &models.Session{UserID: 2, Token: "dead1", ExpiresAt: time.Now().Add(-time.Hour)}
	sessionRepo.sessions["dead2"] = &models.Session{UserID: 3, Token: "dead2", ExpiresAt: time.Now().Add(-time.Minute)}

	deleted, err := svc.CleanupExpired(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, deleted)
	assert.Contains(t, sessionRepo.sessions, "live")
}
