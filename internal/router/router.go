// Package router builds the echo instance: global middleware in order,
// system routes and the todo routes, both versioned and unprefixed.
package router

import (
	"github.com/deppfellow/todo-backend/internal/handler"
	"github.com/deppfellow/todo-backend/internal/middleware"
	"github.com/deppfellow/todo-backend/internal/server"
	"github.com/labstack/echo/v4"
)

// NewRouter returns the configured echo instance. Middleware runs in
// registration order, so the limiter rejects before any logging work.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true
	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Use(
		middlewares.RateLimit.Limit(),
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
	)

	registerSystemRoutes(router, h)

	v1 := router.Group("/api/v1")
	registerTodoRoutes(v1, h)

	// The mobile client calls <host>/todos without the version prefix.
	registerTodoRoutes(router.Group(""), h)

	return router
}
