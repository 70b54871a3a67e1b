package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/polkiloo/chatpack/internal/config"
	"github.com/polkiloo/chatpack/internal/server/http/handlers"
	"github.com/polkiloo/chatpack/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.StorefrontFacade, cfg *config.Config, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	paymentHandler := handlers.NewPaymentHandler(facade)
	checkoutHandler := handlers.NewCheckoutHandler(facade)
	reviewHandler := handlers.NewReviewHandler(facade)
	adminHandler := handlers.NewAdminHandler(facade, logger)
	healthHandler := handlers.NewHealthHandler(facade)

	limited := middleware.RateLimit(middleware.NewIPRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst))

	api := engine.Group("/api")
	api.GET("/health", healthHandler.Check)
	api.GET("/reviews", reviewHandler.List)

	public := api.Group("")
	public.Use(limited)
	public.POST("/stripe/create-checkout-session", paymentHandler.CreateSession)
	public.POST("/stripe/verify-session", paymentHandler.VerifySession)
	public.POST("/checkout", checkoutHandler.Submit)
	public.POST("/checkout/confirm", checkoutHandler.Confirm)
	public.POST("/reviews", reviewHandler.Create)
	public.POST("/admin/login", adminHandler.Login)

	admin := api.Group("/admin")
	admin.Use(middleware.AdminRequired(facade))
	admin.GET("/orders", adminHandler.Orders)
	admin.GET("/orders/:id", adminHandler.Order)
	admin.PATCH("/orders/:id/status", adminHandler.SetStatus)

	return engine
}
