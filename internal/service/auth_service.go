package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"github.com/cloud-wave-best-zizon/battery-store/internal/clock"
	"github.com/cloud-wave-best-zizon/battery-store/internal/domain"
	"github.com/cloud-wave-best-zizon/battery-store/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Authenticator decides whether a submitted admin secret is correct.
type Authenticator interface {
	Verify(secret string) bool
}

type SharedSecret string

func (s SharedSecret) Verify(secret string) bool {
	if s == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(s), []byte(secret)) == 1
}

// BcryptHash verifies against a bcrypt hash of the admin password.
type BcryptHash []byte

func (h BcryptHash) Verify(secret string) bool {
	if len(h) == 0 {
		return false
	}
	return bcrypt.CompareHashAndPassword(h, []byte(secret)) == nil
}

type SessionStore interface {
	Save(ctx context.Context, session domain.Session) error
	Load(ctx context.Context, token string) (domain.Session, error)
	Delete(ctx context.Context, token string) error
}

type AuthService struct {
	authenticator Authenticator
	sessions      SessionStore
	ttl           time.Duration
	clock         clock.Clock
	logger        *zap.Logger
}

func NewAuthService(authenticator Authenticator, sessions SessionStore, ttl time.Duration, clk clock.Clock, logger *zap.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		sessions:      sessions,
		ttl:           ttl,
		clock:         clk,
		logger:        logger.Named("auth"),
	}
}

// SignIn issues a session token when secret is accepted.
func (s *AuthService) SignIn(ctx context.Context, secret string) (domain.Session, error) {
	if !s.authenticator.Verify(secret) {
		s.logger.Warn("Rejected admin sign-in")
		return domain.Session{}, domain.ErrUnauthorized
	}

	now := s.clock.Now()
	session := domain.Session{
		Token:     uuid.NewString(),
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return domain.Session{}, domain.NewBackendError("sign in", err)
	}
	s.logger.Info("Admin signed in", zap.Time("expires_at", session.ExpiresAt))
	return session, nil
}

func (s *AuthService) Validate(ctx context.Context, token string) (domain.Session, error) {
	if token == "" {
		return domain.Session{}, domain.ErrUnauthorized
	}
	session, err := s.sessions.Load(ctx, token)
	if errors.Is(err, repository.ErrSessionNotFound) {
		return domain.Session{}, domain.ErrUnauthorized
	}
	if err != nil {
		return domain.Session{}, domain.NewBackendError("validate session", err)
	}
	return session, nil
}

func (s *AuthService) SignOut(ctx context.Context, token string) error {
	if err := s.sessions.Delete(ctx, token); err != nil {
		return domain.NewBackendError("sign out", err)
	}
	return nil
}
