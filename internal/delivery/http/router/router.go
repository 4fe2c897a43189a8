// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"tripwatch/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	SessionHandler  *handler.SessionHandler
	ScanHandler     *handler.ScanHandler
	LocationHandler *handler.LocationHandler
}

// router holds all the handlers that need to be registered.
type router struct {
	sessionHandler  *handler.SessionHandler
	scanHandler     *handler.ScanHandler
	locationHandler *handler.LocationHandler
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		sessionHandler:  params.SessionHandler,
		scanHandler:     params.ScanHandler,
		locationHandler: params.LocationHandler,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Scan session lifecycle
	sessionGroup := e.Group("/sessions")
	{
		sessionGroup.POST("", r.sessionHandler.Open)
		sessionGroup.GET("/:id", r.sessionHandler.Get)
		sessionGroup.DELETE("/:id", r.sessionHandler.Close)
		sessionGroup.POST("/:id/scans", r.scanHandler.Submit)
	}

	// Confirmation polling for the operator UI
	confirmationGroup := e.Group("/confirmations")
	{
		confirmationGroup.GET("/:id", r.scanHandler.GetConfirmation)
		confirmationGroup.DELETE("/:id", r.scanHandler.DismissConfirmation)
	}

	// Read side for operator visibility
	e.GET("/children/:id/location", r.locationHandler.LatestChildLocation)
	e.GET("/children/:id/tagcode", r.locationHandler.ChildTagCode)
	e.GET("/groups/:id/roster", r.locationHandler.GroupRoster)
}
