package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

func TestInstrumentRecordsStatus(t *testing.T) {
	m := New("taskboard")
	h := m.Instrument("/api/v1/tasks/{id}", func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusNotFound)
	})

	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod("GET")
	h(ctx)
	h(ctx)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("/api/v1/tasks/{id}", "GET", "404")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.latency))
}

func TestNilMetricsPassesThrough(t *testing.T) {
	var m *Metrics
	called := false
	h := m.Instrument("/health", func(*fasthttp.RequestCtx) { called = true })
	h(&fasthttp.RequestCtx{})
	assert.True(t, called)
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := New("")
	m.requests.WithLabelValues("/health", "GET", "200").Inc()

	var req fasthttp.Request
	req.SetRequestURI("/metrics")
	ctx := &fasthttp.RequestCtx{}
	ctx.Init(&req, nil, nil)
	m.Handler()(ctx)

	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.Contains(t, string(ctx.Response.Body()), `taskboard_http_requests_total{method="GET",route="/health",status="200"} 1`)
}

func TestGaugeFuncSampledOnGather(t *testing.T) {
	m := New("taskboard")
	value := 3.0
	require.NoError(t, m.GaugeFunc("store_records", "Records in the store.", func() float64 { return value }))
	assert.Error(t, m.GaugeFunc("store_records", "duplicate", func() float64 { return 0 }))

	sample := func() float64 {
		families, err := m.Registry().Gather()
		require.NoError(t, err)
		for _, mf := range families {
			if mf.GetName() == "taskboard_store_records" {
				return mf.GetMetric()[0].GetGauge().GetValue()
			}
		}
		t.Fatal("taskboard_store_records not gathered")
		return 0
	}
	assert.Equal(t, 3.0, sample())
	value = 5
	assert.Equal(t, 5.0, sample())

	var disabled *Metrics
	assert.NoError(t, disabled.GaugeFunc("store_records", "", func() float64 { return 0 }))
}
