package handler

import (
	"wallet-ledger/internal/adapter/http/middleware"
	redisStore "wallet-ledger/internal/adapter/storage/redis"
	"wallet-ledger/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	WebhookSvc     ports.WebhookService
	LedgerSvc      ports.LedgerService
	TransferSvc    ports.TransferService
	Queue          ports.JobQueue
	TokenSvc       ports.TokenService
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	RateLimits     map[string]middleware.RateLimitRule
	HealthCheckers []ports.HealthChecker
	AuditSvc       ports.AuditService // nil = audit logging disabled
	MaxBodyBytes   int64
	Mode           string
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	if deps.Mode != "" {
		gin.SetMode(deps.Mode)
	}
	if deps.MaxBodyBytes <= 0 {
		deps.MaxBodyBytes = 1 << 20
	}
	r := gin.New()

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(deps.MaxBodyBytes))

	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	swagger := r.Group("/swagger")
	{
		swagger.GET("", SwaggerUI)
		swagger.GET("/spec", SwaggerSpec)
	}

	rl := func(group string) gin.HandlerFunc {
		rule, ok := deps.RateLimits[group]
		if deps.RateLimitStore == nil || !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	// --- Provider webhooks (authenticated by signature in the service) ---
	webhookHandler := NewWebhookHandler(deps.WebhookSvc)
	r.POST("/webhooks/:provider", rl(middleware.GroupWebhooks), webhookHandler.Receive)

	// --- Internal operations API (JWT) ---
	opsHandler := NewOpsHandler(deps.LedgerSvc, deps.TransferSvc, deps.Queue)
	ops := r.Group("/internal/v1",
		middleware.JWTAuth(deps.TokenSvc, middleware.ScopeOpsRead, deps.Logger),
		rl(middleware.GroupOps),
	)
	if deps.AuditSvc != nil {
		ops.Use(middleware.AuditLog(deps.AuditSvc))
	}
	{
		ops.GET("/wallets/:id", opsHandler.GetWallet)
		ops.GET("/wallets/:id/entries", opsHandler.ListEntries)
		ops.GET("/wallets/:id/verify", opsHandler.VerifyWallet)

		write := middleware.RequireScope(middleware.ScopeOpsWrite)
		ops.POST("/transfers", write, opsHandler.InitiateTransfer)
		ops.POST("/clearance/sweep", write, opsHandler.TriggerClearance)
	}

	return r
}
