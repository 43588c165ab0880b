// Package server assembles the HTTP router from the application's services.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"finview/internal/cache"
	_ "finview/internal/docs" // swagger docs
	"finview/internal/handlers"
	"finview/internal/middleware"
	"finview/internal/services"
)

// Rate limit scopes.
const (
	ScopeLogin    = "login"
	ScopePassword = "password"
)

// Deps are the collaborators the router needs.
type Deps struct {
	Users         services.UserServicer
	Resets        services.PasswordResetServicer
	Google        services.GoogleVerifier
	Budgets       services.BudgetServicer
	Notifications services.NotificationServicer
	Audit         services.AuditServicer
	Tokens        *middleware.TokenIssuer

	// Limiter is optional. Without it auth endpoints are not rate limited.
	Limiter        cache.Limiter
	AllowedOrigins []string
	// HealthCheck reports whether the backing store is reachable.
	HealthCheck func(ctx context.Context) error
	// RequestLogging enables the access log middleware.
	RequestLogging bool
}

// NewRouter builds the gin engine with every API route registered.
func NewRouter(d Deps) *gin.Engine {
	authHandler := handlers.NewAuthHandler(d.Users, d.Resets, d.Google, d.Tokens, d.Audit)
	budgetHandler := handlers.NewBudgetHandler(d.Budgets, d.Audit)
	notificationHandler := handlers.NewNotificationHandler(d.Notifications)

	router := gin.New()
	router.Use(gin.Recovery())
	if d.RequestLogging {
		router.Use(middleware.RequestLogging())
	}
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS(d.AllowedOrigins))

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		if d.HealthCheck != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := d.HealthCheck(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// Public routes
	loginLimit := middleware.RateLimit(d.Limiter, ScopeLogin)
	passwordLimit := middleware.RateLimit(d.Limiter, ScopePassword)

	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", loginLimit, authHandler.Login)
	auth.POST("/google-login", loginLimit, authHandler.GoogleLogin)
	auth.GET("/logout", authHandler.Logout)
	auth.POST("/forgot-password", passwordLimit, authHandler.ForgotPassword)
	auth.POST("/verify-otp", passwordLimit, authHandler.VerifyOTP)
	auth.POST("/reset-password", passwordLimit, authHandler.ResetPassword)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(d.Tokens))

	users := protected.Group("/users")
	users.GET("/me", authHandler.GetProfile)
	users.PUT("/me", authHandler.UpdateProfile)

	budget := protected.Group("/budget")
	budget.POST("/save", budgetHandler.SaveBudget)
	budget.GET("/me", budgetHandler.GetMyBudget)
	budget.GET("/all", budgetHandler.ListBudgets)
	budget.POST("/preview", budgetHandler.PreviewBudget)
	budget.GET("/defaults", budgetHandler.GetDefaults)

	protected.GET("/notifications", notificationHandler.ListNotifications)

	return router
}
