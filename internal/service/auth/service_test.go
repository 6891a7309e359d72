package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskhive/taskhive/internal/config"
	"github.com/taskhive/taskhive/internal/domain"
	"github.com/taskhive/taskhive/internal/store"
)

// fakeUserStore is a minimal in-memory store.UserStore. Defined locally
// because the shared mocks package imports this package.
type fakeUserStore struct {
	users map[string]*domain.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*domain.User)}
}

func (f *fakeUserStore) Create(ctx context.Context, user *domain.User) error {
	if _, exists := f.users[user.Email]; exists {
		return store.ErrEmailExists
	}
	f.users[user.Email] = user
	return nil
}

func (f *fakeUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, exists := f.users[email]
	if !exists {
		return nil, store.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserStore) Update(ctx context.Context, user *domain.User) error {
	for email, existing := range f.users {
		if existing.ID == user.ID {
			if email != user.Email {
				if _, taken := f.users[user.Email]; taken {
					return store.ErrEmailExists
				}
				delete(f.users, email)
			}
			f.users[user.Email] = user
			return nil
		}
	}
	return store.ErrUserNotFound
}

func newTestService(t *testing.T, userStore store.UserStore) *Service {
	t.Helper()

	cfg := config.AuthConfig{
		JWTSecret:                  testSecret,
		RegisterTokenLifetimeHours: 168,
		LoginTokenLifetimeHours:    24,
		BcryptCost:                 4, // Minimum cost keeps the suite fast
	}

	jwtService, err := NewJWTService(cfg)
	require.NoError(t, err)

	return NewService(
		userStore,
		jwtService,
		NewBcryptHasher(cfg.BcryptCost),
		NewBcryptVerifier(),
		cfg,
		nil,
	)
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		userStore := newFakeUserStore()
		svc := newTestService(t, userStore)

		user, token, err := svc.Register(ctx, "Alice", "alice@example.com", "password123")
		require.NoError(t, err)
		require.NotEmpty(t, token)

		assert.Equal(t, "Alice", user.Name)
		assert.Equal(t, "alice@example.com", user.Email)

		// Credential material never leaves the service.
		assert.Empty(t, user.Password)
		assert.Empty(t, user.HashedPassword)

		// The persisted user carries a hash, never the plaintext.
		stored, err := userStore.GetByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Empty(t, stored.Password)
		assert.NotEmpty(t, stored.HashedPassword)
		assert.NotEqual(t, "password123", stored.HashedPassword)

		// The returned token is immediately usable.
		gotID, err := svc.VerifyToken(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, gotID)
	})

	t.Run("duplicate email", func(t *testing.T) {
		userStore := newFakeUserStore()
		svc := newTestService(t, userStore)

		_, _, err := svc.Register(ctx, "Alice", "alice@example.com", "password123")
		require.NoError(t, err)

		_, _, err = svc.Register(ctx, "Other Alice", "alice@example.com", "different456")
		require.ErrorIs(t, err, store.ErrEmailExists)
	})

	t.Run("invalid password", func(t *testing.T) {
		svc := newTestService(t, newFakeUserStore())

		_, _, err := svc.Register(ctx, "Alice", "alice@example.com", "short")
		require.ErrorIs(t, err, domain.ErrPasswordTooShort)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	userStore := newFakeUserStore()
	svc := newTestService(t, userStore)

	_, _, err := svc.Register(ctx, "Alice", "alice@example.com", "password123")
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		user, token, err := svc.Login(ctx, "alice@example.com", "password123")
		require.NoError(t, err)
		require.NotEmpty(t, token)
		assert.Equal(t, "alice@example.com", user.Email)
		assert.Empty(t, user.HashedPassword)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "alice@example.com", "wrongpassword")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		// Unknown emails produce the same error as wrong passwords.
		_, _, err := svc.Login(ctx, "nobody@example.com", "password123")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestVerifyToken(t *testing.T) {
	ctx := context.Background()
	userStore := newFakeUserStore()
	svc := newTestService(t, userStore)

	user, token, err := svc.Register(ctx, "Alice", "alice@example.com", "password123")
	require.NoError(t, err)

	t.Run("valid token resolves user", func(t *testing.T) {
		gotID, err := svc.VerifyToken(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, gotID)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.VerifyToken(ctx, "not-a-token")
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("token for missing user", func(t *testing.T) {
		// Simulate the account disappearing after the token was issued.
		delete(userStore.users, "alice@example.com")
		_, err := svc.VerifyToken(ctx, token)
		require.ErrorIs(t, err, store.ErrUserNotFound)
	})
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*Service, *domain.User) {
		userStore := newFakeUserStore()
		svc := newTestService(t, userStore)
		user, _, err := svc.Register(ctx, "Alice", "alice@example.com", "password123")
		require.NoError(t, err)
		return svc, user
	}

	t.Run("updates name", func(t *testing.T) {
		svc, user := setup(t)

		newName := "Alice Cooper"
		updated, err := svc.UpdateProfile(ctx, user.ID, ProfileUpdate{Name: &newName})
		require.NoError(t, err)
		assert.Equal(t, "Alice Cooper", updated.Name)
		assert.Equal(t, "alice@example.com", updated.Email)
	})

	t.Run("updates email", func(t *testing.T) {
		svc, user := setup(t)

		newEmail := "alice.cooper@example.com"
		updated, err := svc.UpdateProfile(ctx, user.ID, ProfileUpdate{Email: &newEmail})
		require.NoError(t, err)
		assert.Equal(t, newEmail, updated.Email)
	})

	t.Run("rejects email owned by another user", func(t *testing.T) {
		svc, user := setup(t)

		_, _, err := svc.Register(ctx, "Bob", "bob@example.com", "password123")
		require.NoError(t, err)

		taken := "bob@example.com"
		_, err = svc.UpdateProfile(ctx, user.ID, ProfileUpdate{Email: &taken})
		require.ErrorIs(t, err, store.ErrEmailExists)
	})

	t.Run("own email is not a conflict", func(t *testing.T) {
		svc, user := setup(t)

		same := "alice@example.com"
		updated, err := svc.UpdateProfile(ctx, user.ID, ProfileUpdate{Email: &same})
		require.NoError(t, err)
		assert.Equal(t, same, updated.Email)
	})

	t.Run("unknown user", func(t *testing.T) {
		svc, _ := setup(t)

		name := "Ghost"
		_, err := svc.UpdateProfile(ctx, uuid.New(), ProfileUpdate{Name: &name})
		require.ErrorIs(t, err, store.ErrUserNotFound)
	})
}

func TestTokenLifetimes(t *testing.T) {
	// Registration tokens outlive login tokens; the asymmetry is part of
	// the auth design.
	ctx := context.Background()
	userStore := newFakeUserStore()
	svc := newTestService(t, userStore)

	assert.Equal(t, 168*time.Hour, svc.registerExpiry)
	assert.Equal(t, 24*time.Hour, svc.loginExpiry)

	_, _, err := svc.Register(ctx, "Alice", "alice@example.com", "password123")
	require.NoError(t, err)
}
