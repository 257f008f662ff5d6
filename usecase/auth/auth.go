package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/repository"
)

// TokenIssuer signs access tokens for an authenticated session.
type TokenIssuer interface {
	Issue(session *domain.Session) (string, error)
}

// Grant is a session together with the bearer token bound to it.
type Grant struct {
	Session *domain.Session `json:"session"`
	Token   string          `json:"token"`
}

// DefaultMaxTTL caps session lifetimes when no limit is configured.
const DefaultMaxTTL = 24 * time.Hour

type UseCase struct {
	sessions repository.SessionRepository
	tokens   TokenIssuer
	logger   *zap.Logger
	maxTTL   time.Duration
}

// Option customizes a UseCase.
type Option func(*UseCase)

// WithMaxTTL sets the longest session lifetime a caller may request.
func WithMaxTTL(ttl time.Duration) Option {
	return func(uc *UseCase) {
		if ttl > 0 {
			uc.maxTTL = ttl
		}
	}
}

func New(sessions repository.SessionRepository, tokens TokenIssuer, logger *zap.Logger, opts ...Option) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	uc := &UseCase{
		sessions: sessions,
		tokens:   tokens,
		logger:   logger,
		maxTTL:   DefaultMaxTTL,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// MaxTTL is the longest session lifetime Login and Refresh accept.
func (uc *UseCase) MaxTTL() time.Duration {
	return uc.maxTTL
}

// Login opens a session for an already authenticated userID and issues a
// token bound to it. A zero ttl means MaxTTL.
func (uc *UseCase) Login(ctx context.Context, userID, displayName string, ttl time.Duration) (*Grant, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, domain.Validation("user_id is required")
	}
	ttl, err := uc.sessionTTL(ttl)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	session := &domain.Session{
		ID:          uuid.NewString(),
		UserID:      userID,
		DisplayName: strings.TrimSpace(displayName),
		CreatedAt:   now,
		ExpiresAt:   now.Add(ttl),
	}

	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, domain.StoreFailure("save session", err)
	}
	return uc.grant(session)
}

// Resolve returns a live session, deleting it when it has expired.
func (uc *UseCase) Resolve(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.IsExpired(time.Now()) {
		_ = uc.sessions.Delete(ctx, sessionID)
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

// Refresh extends the session and issues a fresh token.
func (uc *UseCase) Refresh(ctx context.Context, sessionID string, ttl time.Duration) (*Grant, error) {
	ttl, err := uc.sessionTTL(ttl)
	if err != nil {
		return nil, err
	}
	session, err := uc.Resolve(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := uc.sessions.Extend(ctx, sessionID, int(ttl.Seconds())); err != nil {
		return nil, err
	}
	session.ExpiresAt = time.Now().Add(ttl)
	return uc.grant(session)
}

// Revoke ends the session.
func (uc *UseCase) Revoke(ctx context.Context, sessionID string) error {
	if err := uc.sessions.Delete(ctx, sessionID); err != nil {
		return err
	}
	uc.logger.Info("session revoked", zap.String("session_id", sessionID))
	return nil
}

func (uc *UseCase) sessionTTL(ttl time.Duration) (time.Duration, error) {
	if ttl == 0 {
		return uc.maxTTL, nil
	}
	if ttl < 0 || ttl > uc.maxTTL {
		return 0, domain.Validation(fmt.Sprintf("ttl must be between 1s and %s", uc.maxTTL))
	}
	return ttl, nil
}

func (uc *UseCase) grant(session *domain.Session) (*Grant, error) {
	token, err := uc.tokens.Issue(session)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeInternal, "issue token", err)
	}
	return &Grant{Session: session, Token: token}, nil
}
