package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/fastygo/taskboard/api/handler"
	"github.com/fastygo/taskboard/internal/metrics"
)

type Handlers struct {
	Auth       *apiHandler.AuthHandler
	Profile    *apiHandler.ProfileHandler
	Collection *apiHandler.CollectionHandler
	Task       *apiHandler.TaskHandler
	Health     *apiHandler.HealthHandler
}

// New wires all routes. Auth routes are only mounted when handlers.Auth is set,
// the credential-less dev login only when the handler enables it;
// metrics may be nil to disable instrumentation and the /metrics endpoint.
func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler, m *metrics.Metrics) *router.Router {
	r := router.New()

	public := func(route string, h fasthttp.RequestHandler) fasthttp.RequestHandler {
		return m.Instrument(route, h)
	}
	protected := func(route string, h fasthttp.RequestHandler) fasthttp.RequestHandler {
		return m.Instrument(route, authMiddleware(h))
	}

	r.GET("/health", public("/health", handlers.Health.Check))
	if m != nil {
		r.GET("/metrics", m.Handler())
	}

	// Auth routes. Login exchanges an identity provider token, so it sits
	// behind the same middleware as everything else.
	if handlers.Auth != nil {
		r.POST("/api/v1/auth/login", protected("/api/v1/auth/login", handlers.Auth.Login))
		r.POST("/api/v1/auth/refresh", protected("/api/v1/auth/refresh", handlers.Auth.Refresh))
		r.POST("/api/v1/auth/logout", protected("/api/v1/auth/logout", handlers.Auth.Logout))
		if handlers.Auth.DevLoginEnabled() {
			r.POST("/api/v1/auth/dev-login", public("/api/v1/auth/dev-login", handlers.Auth.DevLogin))
		}
	}

	// Protected routes
	r.GET("/api/v1/me", protected("/api/v1/me", handlers.Profile.Me))

	r.GET("/api/v1/collections", protected("/api/v1/collections", handlers.Collection.List))
	r.POST("/api/v1/collections", protected("/api/v1/collections", handlers.Collection.Create))
	r.DELETE("/api/v1/collections/{id}", protected("/api/v1/collections/{id}", handlers.Collection.Delete))
	r.POST("/api/v1/collections/{id}/tasks", protected("/api/v1/collections/{id}/tasks", handlers.Task.CreateTask))

	r.GET("/api/v1/tasks/{id}", protected("/api/v1/tasks/{id}", handlers.Task.GetTask))
	r.POST("/api/v1/tasks/{id}/toggle", protected("/api/v1/tasks/{id}/toggle", handlers.Task.ToggleTask))
	r.DELETE("/api/v1/tasks/{id}", protected("/api/v1/tasks/{id}", handlers.Task.DeleteTask))

	return r
}
