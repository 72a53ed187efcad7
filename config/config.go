package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config carries every externally tunable value the handlers need.
// It is loaded once in main and injected; handlers never read os.Getenv.
type Config struct {
	Port      string
	DBURL     string
	JWTSecret string

	CORSOrigin string
	AppURL     string

	GoogleClientID         string
	GoogleClientSecret     string
	GoogleRedirectURL      string
	GoogleFrontendRedirect string

	StripeSecretKey       string
	StripeWebhookSecret   string
	StripePriceIDPro      string
	StripePriceIDUltimate string

	OpenAIAPIKey string
	OpenAIModel  string

	OwnerEmail string

	FreeDailyLimit     int
	ProDailyLimit      int
	UltimateDailyLimit int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using system environment variables.")
	}

	return &Config{
		Port:      getEnv("PORT", "8080"),
		DBURL:     mustEnv("DB_URL"),
		JWTSecret: mustEnv("JWT_SECRET"),

		CORSOrigin: getEnv("CORS_ORIGIN", "http://localhost:3000"),
		AppURL:     getEnv("APP_URL", "http://localhost:3000"),

		GoogleClientID:         mustEnv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret:     mustEnv("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:      mustEnv("GOOGLE_REDIRECT_URL"),
		GoogleFrontendRedirect: getEnv("GOOGLE_FRONTEND_REDIRECT", ""),

		StripeSecretKey:       mustEnv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret:   mustEnv("STRIPE_WEBHOOK_SECRET"),
		StripePriceIDPro:      mustEnv("STRIPE_PRICE_ID"),
		StripePriceIDUltimate: mustEnv("STRIPE_ULTIMATE_PRICE_ID"),

		OpenAIAPIKey: mustEnv("OPENAI_API_KEY"),
		OpenAIModel:  getEnv("OPENAI_MODEL", "gpt-4o-mini"),

		OwnerEmail: getEnv("OWNER_EMAIL", "ghostaicorp@gmail.com"),

		FreeDailyLimit:     getEnvInt("FREE_DAILY_LIMIT", 5),
		ProDailyLimit:      getEnvInt("PRO_DAILY_LIMIT", 60),
		UltimateDailyLimit: getEnvInt("ULTIMATE_DAILY_LIMIT", 1_000_000),
	}
}

// PriceForPlan maps a plan selector from the client to a Stripe price id.
// Unknown plans return "".
func (c *Config) PriceForPlan(plan string) string {
	switch plan {
	case "pro":
		return c.StripePriceIDPro
	case "ultimate":
		return c.StripePriceIDUltimate
	}
	return ""
}

// TierForPrice is the inverse table used by the webhook handlers.
// Unknown price ids fall back to free.
func (c *Config) TierForPrice(priceID string) string {
	switch priceID {
	case c.StripePriceIDPro:
		return "pro"
	case c.StripePriceIDUltimate:
		return "ultimate"
	}
	return "free"
}

func mustEnv(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("Missing required environment variable: %s", key)
	}
	return v
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, exists := os.LookupEnv(key)
	if !exists || v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("Invalid integer for %s: %q", key, v)
	}
	return n
}
