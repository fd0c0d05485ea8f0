package handler

import (
	"offerwall-rewards/internal/adapter/http/middleware"
	"offerwall-rewards/internal/adapter/offerwall"
	"offerwall-rewards/internal/core/ports"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RateLimits holds the per-group rules. A zero Limit disables a group.
type RateLimits struct {
	Auth     middleware.RateLimitRule
	Postback middleware.RateLimitRule
	API      middleware.RateLimitRule
}

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	AuthSvc        ports.AuthService
	PostbackSvc    ports.PostbackService
	WithdrawalSvc  ports.WithdrawalService
	AdminSvc       ports.AdminService
	AccountSvc     ports.AccountService
	TokenSvc       ports.TokenService
	Offerwalls     *offerwall.Registry
	Limiter        middleware.Limiter // nil = rate limiting disabled
	RateLimits     RateLimits
	TrustedProxies []string
	HealthCheckers []ports.HealthChecker
	AuditSvc       ports.AuditService // nil = audit logging disabled
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) (*gin.Engine, error) {
	r := gin.New()
	if err := r.SetTrustedProxies(deps.TrustedProxies); err != nil {
		return nil, err
	}

	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20))

	if deps.AuditSvc != nil {
		r.Use(middleware.AuditLog(deps.AuditSvc))
	}

	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	docs := r.Group("/docs")
	{
		docs.GET("", DocsUI)
		docs.GET("/openapi.yaml", DocsSpec)
	}

	rl := func(group string, rule middleware.RateLimitRule) gin.HandlerFunc {
		if deps.Limiter == nil {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.Limiter, group, rule, deps.Logger)
	}

	// Offerwall callbacks. Providers use GET or form POST interchangeably.
	postbackHandler := NewPostbackHandler(deps.Offerwalls, deps.PostbackSvc, deps.Logger)
	postback := r.Group("/postback", rl("postback", deps.RateLimits.Postback))
	{
		postback.GET("/:provider", postbackHandler.Handle)
		postback.POST("/:provider", postbackHandler.Handle)
	}

	v1 := r.Group("/api/v1", gzip.Gzip(gzip.DefaultCompression))

	authHandler := NewAuthHandler(deps.AuthSvc)
	auth := v1.Group("/auth", rl("auth", deps.RateLimits.Auth))
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}

	authed := v1.Group("", middleware.JWTAuth(deps.TokenSvc), rl("api", deps.RateLimits.API))

	accountHandler := NewAccountHandler(deps.AccountSvc)
	me := authed.Group("/me")
	{
		me.GET("", accountHandler.Profile)
		me.GET("/balance", accountHandler.Balance)
		me.GET("/conversions", accountHandler.Conversions)
	}

	withdrawalHandler := NewWithdrawalHandler(deps.WithdrawalSvc)
	withdrawals := authed.Group("/withdrawals")
	{
		withdrawals.POST("", withdrawalHandler.Submit)
		withdrawals.GET("", withdrawalHandler.List)
		withdrawals.GET("/:id", withdrawalHandler.Get)
	}

	adminHandler := NewAdminHandler(deps.AdminSvc)
	admin := authed.Group("/admin", middleware.RequireAdmin())
	{
		admin.GET("/withdrawals", adminHandler.ListWithdrawals)
		admin.POST("/withdrawals/:id/approve", adminHandler.Approve)
		admin.POST("/withdrawals/:id/reject", adminHandler.Reject)
	}

	return r, nil
}
