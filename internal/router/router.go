package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/starbase-io/roster/internal/config"
	"github.com/starbase-io/roster/internal/handler"
	"github.com/starbase-io/roster/internal/middleware"
)

// RegisterRoutes registers the health check on the provided Echo instance.
// This endpoint sits outside the /v1 group so monitors can probe it without
// touching the rate limiter or cache.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterRoster registers the person and duty endpoints under /v1. The rate
// limiter applies to the whole group; the response cache wraps only the read
// endpoints so mutations always hit the database.
func RegisterRoster(e *echo.Echo, p *handler.PersonHandler, d *handler.DutyHandler, rdb *redis.Client) {
	g := e.Group("/v1")
	g.Use(middleware.NewRateLimit(config.LoadRateLimitConfig(), rdb))

	cache := middleware.NewResponseCache(config.LoadCacheConfig(), rdb)

	// Person registry and astronaut summaries.
	g.GET("/persons", p.GetPeople, cache)
	g.GET("/persons/:name", p.GetPersonByName, cache)
	g.POST("/persons", p.CreatePerson)
	g.PUT("/persons/:name", p.UpdatePerson)

	// Duty assignment and history.
	g.POST("/duties", d.CreateDuty)
	g.GET("/duties/:name", d.GetDutiesByName, cache)
}
