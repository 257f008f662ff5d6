package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/taskboard/api/transport"
	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/pkg/httpcontext"
	authUC "github.com/fastygo/taskboard/usecase/auth"
)

type AuthHandler struct {
	baseHandler
	uc       *authUC.UseCase
	devLogin bool
}

// NewAuthHandler builds the session endpoints. devLogin enables DevLogin,
// which opens a session for any user id without a credential.
func NewAuthHandler(uc *authUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger, devLogin bool) *AuthHandler {
	return &AuthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
		devLogin:    devLogin,
	}
}

// DevLoginEnabled reports whether the credential-less login route may be mounted.
func (h *AuthHandler) DevLoginEnabled() bool {
	return h.devLogin
}

// @Summary Exchange an identity provider token for a revocable session token
// @Tags auth
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(ctx *fasthttp.RequestCtx) {
	var req transport.AuthLoginRequest
	if !decodeOptional(ctx.PostBody(), &req) {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	identity, ok := domain.IdentityFromContext(stdCtx)
	if !ok {
		h.respondError(stdCtx, ctx, domain.ErrUnauthenticated)
		return
	}
	ttl, err := h.ttlFromRequest(req.TTL)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}

	displayName := req.DisplayName
	if displayName == "" {
		displayName = identity.DisplayName
	}
	grant, err := h.uc.Login(stdCtx, identity.ID, displayName, ttl)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, grant)
}

// @Summary Open a session for any user id (development only)
// @Tags auth
// @Router /api/v1/auth/dev-login [post]
func (h *AuthHandler) DevLogin(ctx *fasthttp.RequestCtx) {
	if !h.devLogin {
		ctx.SetStatusCode(http.StatusNotFound)
		return
	}
	var req transport.DevLoginRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || req.UserID == "" {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	ttl, err := h.ttlFromRequest(req.TTL)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	grant, err := h.uc.Login(stdCtx, req.UserID, req.DisplayName, ttl)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.logger.Warn("dev login issued a session", zap.String("user_id", grant.Session.UserID))
	h.respondSuccess(ctx, http.StatusCreated, grant)
}

// @Summary Extend the session of the current token
// @Tags auth
// @Router /api/v1/auth/refresh [post]
func (h *AuthHandler) Refresh(ctx *fasthttp.RequestCtx) {
	var req transport.RefreshRequest
	if !decodeOptional(ctx.PostBody(), &req) {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	sessionID, ok := h.currentSession(stdCtx, ctx)
	if !ok {
		return
	}
	ttl, err := h.ttlFromRequest(req.TTL)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}

	grant, err := h.uc.Refresh(stdCtx, sessionID, ttl)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, grant)
}

// @Summary Revoke the session of the current token
// @Tags auth
// @Router /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	sessionID, ok := h.currentSession(stdCtx, ctx)
	if !ok {
		return
	}
	if err := h.uc.Revoke(stdCtx, sessionID); err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondNoContent(ctx)
}

// ttlFromRequest converts ttl_seconds, rejecting values outside (0, MaxTTL]
// before they can overflow a time.Duration. Zero selects MaxTTL.
func (h *AuthHandler) ttlFromRequest(ttlSeconds int64) (time.Duration, error) {
	limit := int64(h.uc.MaxTTL() / time.Second)
	switch {
	case ttlSeconds == 0:
		return h.uc.MaxTTL(), nil
	case ttlSeconds < 0 || ttlSeconds > limit:
		return 0, domain.Validation(fmt.Sprintf("ttl_seconds must be between 1 and %d", limit))
	}
	return time.Duration(ttlSeconds) * time.Second, nil
}

func (h *AuthHandler) currentSession(stdCtx context.Context, ctx *fasthttp.RequestCtx) (string, bool) {
	identity, ok := domain.IdentityFromContext(stdCtx)
	if !ok {
		h.respondError(stdCtx, ctx, domain.ErrUnauthenticated)
		return "", false
	}
	if identity.SessionID == "" {
		h.respondInvalid(ctx, "token is not bound to a session")
		return "", false
	}
	return identity.SessionID, true
}

func decodeOptional(body []byte, v interface{}) bool {
	if len(body) == 0 {
		return true
	}
	return json.Unmarshal(body, v) == nil
}
