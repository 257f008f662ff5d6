package httpcontext

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/fastygo/taskboard/domain"
	appLogger "github.com/fastygo/taskboard/pkg/logger"
)

func TestAttachCarriesRequestMetadata(t *testing.T) {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.Set("X-Request-ID", "req-42")
	ctx.Request.Header.SetUserAgent("tests")
	SetIdentity(ctx, domain.Identity{ID: "u1", SessionID: "s1"})

	stdCtx, cancel := NewAdapter(time.Second).Attach(ctx)
	defer cancel()

	assert.Equal(t, "req-42", appLogger.RequestID(stdCtx))
	assert.Equal(t, "req-42", string(ctx.Response.Header.Peek("X-Request-ID")))
	assert.Equal(t, "tests", stdCtx.Value(KeyUserAgent))

	identity, ok := domain.IdentityFromContext(stdCtx)
	require.True(t, ok)
	assert.Equal(t, "u1", identity.ID)
	assert.Equal(t, "s1", identity.SessionID)

	deadline, ok := stdCtx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Second), deadline, 500*time.Millisecond)
}

func TestAttachWithoutIdentity(t *testing.T) {
	ctx := &fasthttp.RequestCtx{}
	stdCtx, cancel := NewAdapter(0).Attach(ctx)
	defer cancel()

	_, ok := domain.IdentityFromContext(stdCtx)
	assert.False(t, ok)
	assert.NotEmpty(t, appLogger.RequestID(stdCtx))
}

func TestAttachTwiceSharesDeadlineAndRequestID(t *testing.T) {
	ctx := &fasthttp.RequestCtx{}
	adapter := NewAdapter(time.Second)

	first, cancelFirst := adapter.Attach(ctx)
	defer cancelFirst()
	time.Sleep(5 * time.Millisecond)
	second, cancelSecond := adapter.Attach(ctx)
	defer cancelSecond()

	d1, _ := first.Deadline()
	d2, _ := second.Deadline()
	assert.Equal(t, d1, d2)
	assert.Equal(t, appLogger.RequestID(first), appLogger.RequestID(second))
	assert.Equal(t, appLogger.RequestID(first), string(ctx.Response.Header.Peek("X-Request-ID")))
}
