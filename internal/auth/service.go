package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ease-mdlwr/ease-mdlwr/internal/identity"
)

var (
	// ErrUnknownUser indicates the username has no account. Handlers must
	// present it with the same message as ErrInvalidCredentials so callers
	// cannot enumerate usernames.
	ErrUnknownUser = errors.New("auth: unknown user")
	// ErrInvalidCredentials indicates a password mismatch or an inactive
	// account.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	// ErrTokenIssue indicates a signing fault, a service error rather than
	// a bad login.
	ErrTokenIssue = errors.New("auth: token issuance failed")
)

// Repository is the user persistence surface the login flow needs.
type Repository interface {
	FindUserByUsername(ctx context.Context, username string) (*identity.User, error)
	SetSessionToken(ctx context.Context, username, token string) error
}

// TokenCache records issued tokens for fast bearer verification.
type TokenCache interface {
	Put(ctx context.Context, token, username, email string) error
	Get(ctx context.Context, token string) (username, email string, ok bool, err error)
}

// Service orchestrates the login flow: lookup, password check, token
// issuance, persistence.
type Service struct {
	repo   Repository
	tokens *TokenService
	cache  TokenCache
	logger *slog.Logger
}

// NewService constructs a Service. The cache may be nil when no Redis is
// available; issued tokens are then only persisted on the user record.
func NewService(repo Repository, tokens *TokenService, cache TokenCache, logger *slog.Logger) *Service {
	return &Service{repo: repo, tokens: tokens, cache: cache, logger: logger}
}

// Login authenticates the credentials and returns a signed session token.
// The token is written onto the user record before returning; a persistence
// failure is logged but does not revoke the already-issued token.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.repo.FindUserByUsername(ctx, username)
	if err != nil {
		s.logger.Debug("login lookup miss", slog.String("username", username), slog.Any("error", err))
		return "", ErrUnknownUser
	}
	if !user.IsActive {
		return "", ErrInvalidCredentials
	}
	if !VerifyPassword(password, user.PasswordHash) {
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		s.logger.Error("token issuance", slog.String("username", username), slog.Any("error", err))
		return "", fmt.Errorf("%w: %w", ErrTokenIssue, err)
	}

	if err := s.repo.SetSessionToken(ctx, username, token); err != nil {
		s.logger.Warn("persist session token", slog.String("username", username), slog.Any("error", err))
	}
	if s.cache != nil {
		if err := s.cache.Put(ctx, token, user.Username, user.Email); err != nil {
			s.logger.Warn("cache session token", slog.Any("error", err))
		}
	}

	return token, nil
}

// Verify resolves a bearer token to its claims, consulting the issued-token
// cache before falling back to signature verification.
func (s *Service) Verify(ctx context.Context, token string) (Claims, error) {
	if s.cache != nil {
		username, email, ok, err := s.cache.Get(ctx, token)
		if err != nil {
			s.logger.Warn("token cache lookup", slog.Any("error", err))
		} else if ok {
			return Claims{Username: username, Email: email}, nil
		}
	}
	return s.tokens.Decode(token)
}
