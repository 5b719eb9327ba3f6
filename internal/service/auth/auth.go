package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gderuki/Taskr-sub000/internal/apperrors"
	"github.com/gderuki/Taskr-sub000/internal/models"
	"github.com/gderuki/Taskr-sub000/internal/repository"
	"github.com/gderuki/Taskr-sub000/internal/service/auth/tokenmanager"
)

const authScheme = "Bearer"

// Interface to create or compare user password hashes
type PasswordHasher interface {
	// Generate Hash from password
	Hash(password string) (string, error)

	// Compare known hashedPassword and user provided password
	// Must be protected against timing attacks
	Compare(hashedPassword string, password string) error
}

type Config struct {
	// Hasher to use during registration and login
	// BcryptHasher is used when empty
	Hasher PasswordHasher
}

// AuthService orchestrates login, refresh rotation and logout over the
// credential store and the refresh token store
type AuthService struct {
	// Manager to issue token pairs (access and refresh)
	token *tokenmanager.TokenManager

	// hasher to hash or compare user passwords
	hasher PasswordHasher

	// Repositories for users and refresh tokens
	userRepo    repository.UserRepo
	refreshRepo repository.RefreshTokenRepo
}

func NewService(cfg Config, token *tokenmanager.TokenManager, userRepo repository.UserRepo, refreshRepo repository.RefreshTokenRepo) (*AuthService, error) {
	hasher := cfg.Hasher
	if hasher == nil {
		hasher = DefaultHasher
	}

	if token == nil {
		return nil, errors.New("token manager must not be nil")
	}
	if userRepo == nil || refreshRepo == nil {
		return nil, errors.New("repos must not be nil")
	}

	return &AuthService{
		token:       token,
		hasher:      hasher,
		userRepo:    userRepo,
		refreshRepo: refreshRepo,
	}, nil
}

// Register new user and issue the first token pair
func (s *AuthService) Register(ctx context.Context, username string, password string) (models.TokenPair, error) {
	var pair models.TokenPair

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return pair, fmt.Errorf("can't use this as password. Err: %w", err)
	}

	user, err := s.userRepo.CreateUser(ctx, username, hash)
	if err != nil {
		return pair, err
	}

	pair, err = s.token.GeneratePair(ctx, user)
	if err != nil {
		return pair, fmt.Errorf("token could not be generated. Err: %w", err)
	}

	return pair, nil
}

// Login verifies credentials and issues a fresh token pair
// Unknown username, wrong password and disabled account all collapse to
// apperrors.ErrAuthenticationFailed
func (s *AuthService) Login(ctx context.Context, username string, password string) (models.TokenPair, error) {
	var pair models.TokenPair

	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		return pair, fmt.Errorf("login rejected: %w", apperrors.ErrAuthenticationFailed)
	}

	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		return pair, fmt.Errorf("login rejected: %w", apperrors.ErrAuthenticationFailed)
	}

	if !user.Enabled {
		return pair, fmt.Errorf("login rejected: %w", apperrors.ErrAuthenticationFailed)
	}

	pair, err = s.token.GeneratePair(ctx, user)
	if err != nil {
		return pair, fmt.Errorf("token could not be generated. Err: %w", err)
	}

	return pair, nil
}

// Refresh rotates the refresh token and issues a new pair for its owner.
// The old token is already gone once rotation succeeds, so any replay of it
// reports apperrors.ErrRefreshTokenNotFound
func (s *AuthService) Refresh(ctx context.Context, refresh string) (models.TokenPair, error) {
	var pair models.TokenPair

	token, err := s.token.RotateRefresh(ctx, refresh)
	if err != nil {
		return pair, err
	}

	user, err := s.userRepo.GetUserByID(ctx, token.UserID)
	if err != nil {
		return pair, fmt.Errorf("refresh rejected: %w", apperrors.ErrAuthenticationFailed)
	}
	if !user.Enabled {
		return pair, fmt.Errorf("refresh rejected: %w", apperrors.ErrAuthenticationFailed)
	}

	pair, err = s.token.GeneratePair(ctx, user)
	if err != nil {
		return pair, fmt.Errorf("token could not be generated. Err: %w", err)
	}

	return pair, nil
}

// Logout deletes the refresh token if it exists
// Idempotent: unknown or already rotated values succeed silently
func (s *AuthService) Logout(ctx context.Context, refresh string) error {
	return s.refreshRepo.Delete(ctx, refresh)
}

// LogoutAll drops every live session of the user at once
// A hook for credential change or suspected token theft
func (s *AuthService) LogoutAll(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.refreshRepo.DeleteAllForUser(ctx, userID)
}

// AccessTTL reports the configured access token lifetime
func (s *AuthService) AccessTTL() time.Duration {
	return s.token.AccessTTL()
}

// Auth resolves the request's bearer access token to a user.
// Stateless token check first, then one credential store lookup: a token that
// still verifies does not prove the account still exists or is enabled
func (s *AuthService) Auth(ctx context.Context, r *http.Request) (models.User, error) {
	var user models.User

	raw, err := bearerToken(r)
	if err != nil {
		return user, err
	}

	claims, err := s.token.ParseAccess(ctx, raw)
	if err != nil {
		return user, err
	}

	user, err = s.userRepo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return user, fmt.Errorf("token subject can't be resolved: %w", err)
	}
	if !user.Enabled {
		return user, fmt.Errorf("token subject can't be resolved: %w", apperrors.ErrUserDisabled)
	}

	return user, nil
}

func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", errors.New("missing authorization header")
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], authScheme) {
		return "", errors.New("invalid authorization header")
	}

	return parts[1], nil
}
