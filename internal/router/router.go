package router // package router defines how HTTP routes are registered for the API

import (
    "github.com/labstack/echo/v4" // the Echo web framework handles routing

    "github.com/iliyamo/stage-slot-booking/internal/handler"
    "github.com/iliyamo/stage-slot-booking/internal/middleware"
)

// RegisterRoutes registers routes that require no authentication on
// the provided Echo instance.  Currently it exposes only a health
// check, used by load balancers to verify the service is up.
func RegisterRoutes(e *echo.Echo) {
    e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes.
// Unauthenticated operations live under /v1/auth; logout and the
// profile endpoint require a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
    g := e.Group("/v1/auth")
    g.POST("/register", a.Register)
    g.POST("/login", a.Login)
    g.POST("/refresh", a.Refresh)

    auth := e.Group("/v1")
    auth.Use(middleware.JWTAuth(jwtSecret))
    auth.GET("/me", a.Me)
    auth.POST("/logout", a.Logout)
}

// RegisterPublic registers the unauthenticated browse endpoints.  They
// run behind the Redis rate limiter and response cache, so anonymous
// traffic cannot overwhelm the database and repeated listings are
// served from Redis.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, mws ...echo.MiddlewareFunc) {
    g := e.Group("/v1", mws...)
    g.GET("/venues", p.ListVenues)
    g.GET("/venues/:id/calendars", p.ListCalendars)
    g.GET("/calendars/:id/slots", p.ListSlots)
}
