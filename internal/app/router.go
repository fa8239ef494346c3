package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"zapshift/internal/auth"
	"zapshift/internal/handler"
	"zapshift/internal/middleware"
	"zapshift/internal/repository"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	ParcelHandler   *handler.ParcelHandler
	RiderHandler    *handler.RiderHandler
	UserHandler     *handler.UserHandler
	PaymentHandler  *handler.PaymentHandler
	TrackingHandler *handler.TrackingHandler
	TokenManager    *auth.TokenManager
	UserRepo        repository.UserRepository
	RedisClient     *redis.Client
	NewRelicApp     *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	requireAuth := middleware.RequireAuth(deps.TokenManager, deps.UserRepo)
	requireAdmin := middleware.RequireAdmin()
	// Runs after RequireAuth so replay keys are scoped per caller.
	idempotency := middleware.Idempotency(deps.RedisClient)

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// Public routes.
		v1.POST("/users/register", deps.UserHandler.Register)
		v1.POST("/auth/token", deps.UserHandler.IssueToken)
		v1.GET("/tracking/:trackingId", deps.TrackingHandler.History)

		// Authenticated routes.
		authed := v1.Group("", requireAuth, idempotency)
		{
			parcels := authed.Group("/parcels")
			{
				parcels.POST("", deps.ParcelHandler.Create)
				parcels.GET("", deps.ParcelHandler.List)
				parcels.GET("/:id", deps.ParcelHandler.Get)
				parcels.PATCH("/:id/status", deps.ParcelHandler.UpdateStatus)
				parcels.POST("/:id/reject", deps.ParcelHandler.Reject)
			}

			riders := authed.Group("/riders")
			{
				riders.POST("/apply", deps.RiderHandler.Apply)
			}

			payments := authed.Group("/payments")
			{
				payments.POST("/checkout", deps.PaymentHandler.Checkout)
				payments.POST("/reconcile", deps.PaymentHandler.Reconcile)
				payments.GET("", deps.PaymentHandler.History)
			}
		}

		// Admin routes.
		admin := v1.Group("", requireAuth, requireAdmin, idempotency)
		{
			admin.GET("/users", deps.UserHandler.GetAll)
			admin.DELETE("/parcels/:id", deps.ParcelHandler.Delete)
			admin.POST("/parcels/:id/assign", deps.ParcelHandler.AssignRider)
			admin.GET("/riders/pending", deps.RiderHandler.ListPending)
			admin.GET("/riders/available", deps.RiderHandler.ListAvailable)
			admin.PATCH("/riders/:id/approve", deps.RiderHandler.Approve)
		}
	}

	return router
}
