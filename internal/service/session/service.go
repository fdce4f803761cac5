package session

import (
	"context"
	"errors"
	"time"

	"chopmate/internal/domain"
	"chopmate/internal/logging"
	sessionrepo "chopmate/internal/repository/session"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrInvalidToken = errors.New("invalid token")

type tokenRepo interface {
	Create(ctx context.Context, token sessionrepo.Token) error
	Get(ctx context.Context, token string) (*sessionrepo.Token, error)
	Delete(ctx context.Context, token string) error
}

// Service issues anonymous bearer tokens. Each token maps to one session id, the owner of a cart
// and of the orders placed from it. Tokens are cached in memory; with a repository they are also
// persisted so sessions survive restarts.
type Service struct {
	tokens *tokenManager
	repo   tokenRepo
	ttl    time.Duration
	logger *zap.Logger
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.tokens.now = now }
}

// WithRepository persists issued tokens and resolves tokens missing from the memory cache.
func WithRepository(repo tokenRepo) Option {
	return func(s *Service) { s.repo = repo }
}

func New(ttl time.Duration, logger *zap.Logger, opts ...Option) *Service {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	s := &Service{
		tokens: newTokenManager(time.Now),
		ttl:    ttl,
		logger: logging.OrNop(logger),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue starts a new session and returns its bearer token.
func (s *Service) Issue(ctx context.Context) (token, sessionID string, err error) {
	sessionID = uuid.NewString()
	token, err = s.tokens.Issue(sessionID, s.ttl)
	if err != nil {
		s.logger.Error("session token generation failed", zap.Error(err))
		return "", "", err
	}
	if s.repo != nil {
		meta, _ := s.tokens.Validate(token)
		if err := s.repo.Create(ctx, sessionrepo.Token{Token: token, SessionID: sessionID, ExpiresAt: meta.ExpiresAt}); err != nil {
			s.tokens.Revoke(token)
			s.logger.Error("session token not persisted", zap.Error(err))
			return "", "", err
		}
	}
	s.logger.Debug("session issued", zap.String("session_id", sessionID))
	return token, sessionID, nil
}

// Lookup resolves token to its session id. Expired tokens are evicted.
func (s *Service) Lookup(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrInvalidToken
	}
	if meta, ok := s.tokens.Validate(token); ok {
		return meta.SessionID, nil
	}
	if s.repo == nil {
		return "", ErrInvalidToken
	}

	stored, err := s.repo.Get(ctx, token)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("session lookup failed", zap.Error(err))
		}
		return "", ErrInvalidToken
	}
	if !s.tokens.Restore(token, tokenMeta{SessionID: stored.SessionID, ExpiresAt: stored.ExpiresAt}) {
		if err := s.repo.Delete(ctx, token); err != nil && !errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("expired session not deleted", zap.Error(err))
		}
		return "", ErrInvalidToken
	}
	return stored.SessionID, nil
}

func (s *Service) TTLSeconds() int {
	return int(s.ttl.Seconds())
}
