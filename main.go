package main

import (
	"log"
	"time"

	"ghostai-app/config"
	"ghostai-app/database"
	adminapi "ghostai-app/internal/api/admin"
	authapi "ghostai-app/internal/api/auth"
	"ghostai-app/internal/api/billing"
	ghostapi "ghostai-app/internal/api/ghost"
	stripewebhooks "ghostai-app/internal/api/stripewebhook"
	usageapi "ghostai-app/internal/api/usage"
	routes "ghostai-app/internal/app/http"
	"ghostai-app/internal/domain/quota"
	"ghostai-app/internal/domain/tiers"
	"ghostai-app/internal/llm"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
)

func main() {
	// gin.SetMode(gin.ReleaseMode) uncomment only in production
	cfg := config.Load()

	db, err := database.Init(cfg.DBURL)
	if err != nil {
		log.Fatal(err)
	}

	stripe.Key = cfg.StripeSecretKey

	gate := &quota.Gate{
		DB: db,
		Limits: tiers.LimitTable{
			Free:     cfg.FreeDailyLimit,
			Pro:      cfg.ProDailyLimit,
			Ultimate: cfg.UltimateDailyLimit,
		},
		OwnerEmail: cfg.OwnerEmail,
	}
	ai := llm.NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIModel)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, routes.Deps{
		Auth:      authapi.NewHandler(db, cfg),
		Ghost:     ghostapi.NewHandler(db, cfg, ai, gate),
		Usage:     usageapi.NewHandler(db, cfg, gate),
		Billing:   billing.NewHandler(db, cfg),
		Webhook:   stripewebhooks.NewHandler(db, cfg),
		Admin:     adminapi.NewHandler(db, cfg),
		JWTSecret: cfg.JWTSecret,
	})

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
