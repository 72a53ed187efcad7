package routes

import (
	adminapi "ghostai-app/internal/api/admin"
	authapi "ghostai-app/internal/api/auth"
	"ghostai-app/internal/api/billing"
	ghostapi "ghostai-app/internal/api/ghost"
	stripewebhooks "ghostai-app/internal/api/stripewebhook"
	usageapi "ghostai-app/internal/api/usage"
	"ghostai-app/internal/app/http/middleware"

	"github.com/gin-gonic/gin"
)

// Deps is everything the route handlers need, built once in main.
type Deps struct {
	Auth    *authapi.Handler
	Ghost   *ghostapi.Handler
	Usage   *usageapi.Handler
	Billing *billing.Handler
	Webhook *stripewebhooks.Handler
	Admin   *adminapi.Handler

	JWTSecret string
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// The webhook verifies its own signature; it must not sit behind the
	// sanitizer (the raw body is part of what is signed).
	r.POST("/webhook", d.Webhook.Handle)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	public := r.Group("/")
	public.Use(middleware.SanitizeInput())
	public.POST("/register", d.Auth.Register)
	public.POST("/login", d.Auth.Login)

	r.GET("/auth/google", d.Auth.GoogleStart)
	r.GET("/auth/google/callback", d.Auth.GoogleCallback)

	// Authenticated
	auth := r.Group("/")
	auth.Use(middleware.Auth(d.JWTSecret))
	auth.POST("/ghost", d.Ghost.Run)
	auth.GET("/usage", d.Usage.Get)
	auth.POST("/checkout", d.Billing.CreateCheckoutSession)
	auth.POST("/billing-portal", d.Billing.CreateBillingPortal)

	// Owner-only
	admin := r.Group("/admin")
	admin.Use(middleware.Auth(d.JWTSecret), d.Admin.RequireOwner())
	admin.GET("/dashboard", d.Admin.Dashboard)
}
