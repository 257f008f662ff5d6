package middleware

import (
	"context"
	"strings"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/internal/token"
	"github.com/fastygo/taskboard/pkg/httpcontext"
)

// SessionResolver confirms that the session a token was issued for is still alive.
type SessionResolver interface {
	Resolve(ctx context.Context, sessionID string) (*domain.Session, error)
}

// JWTAuth admits requests carrying a valid bearer token. Tokens bound to a
// session are also checked against sessions, within the request deadline
// set by adapter.
func JWTAuth(tokens *token.Manager, sessions SessionResolver, adapter *httpcontext.Adapter, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if adapter == nil {
		adapter = httpcontext.NewAdapter(0)
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			tokenString := extractToken(ctx)
			if tokenString == "" {
				ctx.SetStatusCode(fasthttp.StatusUnauthorized)
				return
			}

			claims, err := tokens.Parse(tokenString)
			if err != nil {
				logger.Warn("invalid jwt token", zap.Error(err))
				ctx.SetStatusCode(fasthttp.StatusUnauthorized)
				return
			}

			identity := claims.Identity()
			if sessions != nil && identity.SessionID != "" {
				checkCtx, cancel := adapter.Attach(ctx)
				session, err := sessions.Resolve(checkCtx, identity.SessionID)
				cancel()
				if err != nil || session.UserID != identity.ID {
					logger.Warn("session rejected", zap.String("session_id", identity.SessionID), zap.Error(err))
					ctx.SetStatusCode(fasthttp.StatusUnauthorized)
					return
				}
			}

			httpcontext.SetIdentity(ctx, identity)

			next(ctx)
		}
	}
}

func extractToken(ctx *fasthttp.RequestCtx) string {
	header := string(ctx.Request.Header.Peek("Authorization"))
	if header == "" {
		return ""
	}
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return header
}
