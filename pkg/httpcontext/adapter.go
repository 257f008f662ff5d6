package httpcontext

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	"github.com/fastygo/taskboard/domain"
	appLogger "github.com/fastygo/taskboard/pkg/logger"
)

// Key represents a context value key exported for reuse.
type Key string

const (
	KeyRemoteAddr Key = "remote_addr"
	KeyUserAgent  Key = "user_agent"
)

// fasthttp user values shared by every Attach of one request.
const (
	userValueIdentity  = "taskboard.identity"
	userValueDeadline  = "taskboard.deadline"
	userValueRequestID = "taskboard.request_id"
)

// Adapter converts fasthttp.RequestCtx into a stdlib context with deadlines and metadata.
type Adapter struct {
	timeout time.Duration
}

// NewAdapter constructs a new Adapter using the provided timeout.
func NewAdapter(timeout time.Duration) *Adapter {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Adapter{
		timeout: timeout,
	}
}

// Attach creates a context bounded by the request deadline and enriches it
// with the request id, client metadata and the caller identity. The deadline
// and request id are fixed by the first Attach of a request, so middleware and
// handlers share one time budget.
func (a *Adapter) Attach(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	deadline, ok := ctx.UserValue(userValueDeadline).(time.Time)
	if !ok {
		deadline = time.Now().Add(a.timeout)
		ctx.SetUserValue(userValueDeadline, deadline)
	}
	stdCtx, cancel := context.WithDeadline(context.Background(), deadline)

	reqID := getRequestID(ctx)
	stdCtx = appLogger.ContextWithRequestID(stdCtx, reqID)
	ctx.Response.Header.Set("X-Request-ID", reqID)

	if remoteAddr := ctx.RemoteAddr(); remoteAddr != nil {
		stdCtx = context.WithValue(stdCtx, KeyRemoteAddr, remoteAddr.String())
	}
	if ua := string(ctx.Request.Header.UserAgent()); ua != "" {
		stdCtx = context.WithValue(stdCtx, KeyUserAgent, ua)
	}
	if identity, ok := Identity(ctx); ok {
		stdCtx = domain.ContextWithIdentity(stdCtx, identity)
	}

	return stdCtx, cancel
}

// SetIdentity records the authenticated caller on the request.
func SetIdentity(ctx *fasthttp.RequestCtx, identity domain.Identity) {
	ctx.SetUserValue(userValueIdentity, identity)
}

// Identity returns the caller recorded by SetIdentity.
func Identity(ctx *fasthttp.RequestCtx) (domain.Identity, bool) {
	if ctx == nil {
		return domain.Identity{}, false
	}
	identity, ok := ctx.UserValue(userValueIdentity).(domain.Identity)
	return identity, ok && identity.ID != ""
}

func getRequestID(ctx *fasthttp.RequestCtx) string {
	if reqID, ok := ctx.UserValue(userValueRequestID).(string); ok {
		return reqID
	}
	reqID := string(ctx.Request.Header.Peek("X-Request-ID"))
	if strings.TrimSpace(reqID) == "" {
		reqID = uuid.NewString()
	}
	ctx.SetUserValue(userValueRequestID, reqID)
	return reqID
}
