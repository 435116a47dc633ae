package router

import (
	"fmt"
	"strings"

	"github.com/thread-next/internal/cache"
	"github.com/thread-next/internal/config"
	adminhandlers "github.com/thread-next/internal/http/handlers/admin"
	publichandlers "github.com/thread-next/internal/http/handlers/public"
	"github.com/thread-next/internal/http/response"
	"github.com/thread-next/internal/logger"
	"github.com/thread-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter builds the HTTP routes.
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)

	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "tn"
	}
	checkoutRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:checkout", redisPrefix),
		WindowSeconds: cfg.Security.CheckoutRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.CheckoutRateLimit.MaxAttempts,
		Message:       "too many checkout attempts, try again later",
	}

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	r.GET("/healthz", func(c *gin.Context) {
		response.Success(c, gin.H{"status": "ok"})
	})

	apiV1 := r.Group("/api/v1")
	{
		orders := apiV1.Group("/orders")
		{
			orders.POST("", RateLimitMiddleware(cache.Client(), checkoutRule, KeyByIP), publicHandler.CreateOrder)
			orders.GET("/:id", publicHandler.GetOrder)
			orders.POST("/:id/cancel", publicHandler.CancelOrder)
		}

		admin := apiV1.Group("/admin")
		{
			admin.GET("/orders", adminHandler.ListOrders)
			admin.PUT("/orders/:id/status", adminHandler.UpdateOrderStatus)
			admin.POST("/orders/:id/refund", adminHandler.ProcessRefund)
			admin.POST("/orders/auto-cancel", adminHandler.RunAutoCancelSweep)
		}
	}

	return r
}
