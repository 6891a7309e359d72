package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/taskhive/taskhive/internal/config"
	"github.com/taskhive/taskhive/internal/domain"
	"github.com/taskhive/taskhive/internal/platform/logger"
	"github.com/taskhive/taskhive/internal/store"
)

// Service registers and authenticates users, issues bearer tokens,
// verifies tokens and updates profiles. It holds no state of its own;
// all durable state lives in the user store.
type Service struct {
	userStore      store.UserStore
	jwtService     JWTService
	hasher         PasswordHasher
	verifier       PasswordVerifier
	registerExpiry time.Duration
	loginExpiry    time.Duration
	logger         *slog.Logger
}

// NewService creates a new auth Service with the given dependencies.
func NewService(
	userStore store.UserStore,
	jwtService JWTService,
	hasher PasswordHasher,
	verifier PasswordVerifier,
	cfg config.AuthConfig,
	log *slog.Logger,
) *Service {
	if log == nil {
		log = slog.Default()
	}

	return &Service{
		userStore:      userStore,
		jwtService:     jwtService,
		hasher:         hasher,
		verifier:       verifier,
		registerExpiry: time.Duration(cfg.RegisterTokenLifetimeHours) * time.Hour,
		loginExpiry:    time.Duration(cfg.LoginTokenLifetimeHours) * time.Hour,
		logger:         log.With(slog.String("component", "auth_service")),
	}
}

// Register creates a new user with a hashed password and issues a bearer
// token for the new account.
// Returns store.ErrEmailExists if the email is already taken.
// The returned user never carries the plaintext password or its hash.
func (s *Service) Register(ctx context.Context, name, email, password string) (*domain.User, string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(name, email, password)
	if err != nil {
		return nil, "", err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		log.Error("failed to hash password", "error", err)
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}
	user.HashedPassword = hash
	user.Password = ""

	if err := s.userStore.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.jwtService.GenerateToken(ctx, user.ID, s.registerExpiry)
	if err != nil {
		return nil, "", err
	}

	log.Info("user registered", "user_id", user.ID)
	return sanitize(user), token, nil
}

// Login authenticates an email/password pair and issues a bearer token.
// Returns ErrInvalidCredentials when no user matches the email or the
// hash comparison fails; the two cases are not distinguished.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateToken(ctx, user.ID, s.loginExpiry)
	if err != nil {
		return nil, "", err
	}

	log.Debug("user logged in", "user_id", user.ID)
	return sanitize(user), token, nil
}

// VerifyToken validates a bearer token and resolves the embedded user id
// against the store, so deleted-or-missing accounts cannot authenticate.
// Returns ErrInvalidToken/ErrExpiredToken on token failure, or
// store.ErrUserNotFound when the id no longer resolves.
func (s *Service) VerifyToken(ctx context.Context, token string) (uuid.UUID, error) {
	claims, err := s.jwtService.ValidateToken(ctx, token)
	if err != nil {
		return uuid.Nil, err
	}

	if _, err := s.userStore.GetByID(ctx, claims.UserID); err != nil {
		return uuid.Nil, err
	}

	return claims.UserID, nil
}

// GetUser returns the user for the given id without the password hash.
func (s *Service) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return sanitize(user), nil
}

// ProfileUpdate carries the optional fields of an UpdateProfile call.
type ProfileUpdate struct {
	Name  *string
	Email *string
}

// UpdateProfile applies the given name/email changes to the user.
// Returns store.ErrEmailExists if the new email belongs to a different
// existing user.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, update ProfileUpdate) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.Email != nil && *update.Email != user.Email {
		existing, err := s.userStore.GetByEmail(ctx, *update.Email)
		if err != nil && !errors.Is(err, store.ErrUserNotFound) {
			return nil, err
		}
		if existing != nil && existing.ID != userID {
			return nil, store.ErrEmailExists
		}
		user.Email = *update.Email
	}

	if update.Name != nil {
		user.Name = *update.Name
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	if err := s.userStore.Update(ctx, user); err != nil {
		return nil, err
	}

	log.Info("profile updated", "user_id", userID)
	return sanitize(user), nil
}

// sanitize strips credential material from a user before it crosses the
// service boundary.
func sanitize(user *domain.User) *domain.User {
	clean := *user
	clean.Password = ""
	clean.HashedPassword = ""
	return &clean
}
