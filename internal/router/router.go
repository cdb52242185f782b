package router

import (
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/musetera/comunidade/client/internal/engine"
	"github.com/musetera/comunidade/client/internal/gateway"
	"github.com/musetera/comunidade/client/internal/handlers"
	"github.com/musetera/comunidade/client/internal/identity"
	"github.com/musetera/comunidade/client/internal/insight"
	"github.com/musetera/comunidade/client/internal/middleware"
	"github.com/musetera/comunidade/client/internal/realtime"
	"github.com/musetera/comunidade/client/internal/storage"
)

// Deps bundles everything the HTTP surface needs.
type Deps struct {
	Engine     *engine.Engine
	Dispatcher *realtime.Dispatcher
	Notifier   gateway.Notifier
	Identity   identity.Provider
	Blobs      storage.Store
	Insight    *insight.Generator
	Log        *zap.Logger
}

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, deps Deps) {
	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Unprotected session routes ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(deps.Identity, deps.Engine)
	authHandler.RegisterAuthRoutes(authGroup)

	// --- Protected routes ---
	api := e.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(deps.Identity))

	authHandler.RegisterProtectedAuthRoutes(api)

	feedHandler := handlers.NewFeedHandler(deps.Engine, deps.Blobs)
	feedHandler.RegisterFeedRoutes(api)

	chatHandler := handlers.NewChatHandler(deps.Engine, deps.Dispatcher)
	chatHandler.RegisterChatRoutes(api)

	notificationHandler := handlers.NewNotificationHandler(deps.Engine)
	notificationHandler.RegisterNotificationRoutes(api)

	storyHandler := handlers.NewStoryHandler(deps.Engine, deps.Blobs)
	storyHandler.RegisterStoryRoutes(api)

	profileHandler := handlers.NewProfileHandler(deps.Engine, deps.Blobs)
	profileHandler.RegisterProfileRoutes(api)

	communityHandler := handlers.NewCommunityHandler(deps.Engine)
	communityHandler.RegisterCommunityRoutes(api)

	insightHandler := handlers.NewInsightHandler(deps.Insight)
	insightHandler.RegisterInsightRoutes(api)

	actionHandler := handlers.NewActionHandler(deps.Engine)
	actionHandler.RegisterActionRoutes(api)

	changesHandler := handlers.NewChangesHandler(deps.Notifier, deps.Log)
	changesHandler.RegisterChangesRoutes(api)

	deps.Log.Info("routes configured")
}
