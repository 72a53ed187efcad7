// Package stripewebhook keeps stored tiers in sync with Stripe's view.
// Every handler works purely off the verified event payload: no follow-up
// Stripe API calls, so replayed deliveries are plain upserts.
package stripewebhook

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"ghostai-app/config"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/webhook"
	"gorm.io/gorm"
)

type Handler struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewHandler(db *gorm.DB, cfg *config.Config) *Handler {
	return &Handler{DB: db, Cfg: cfg}
}

// Handle is POST /webhook. Only a bad signature or a persistence error
// produces a non-success response; everything else is acknowledged so
// Stripe stops retrying.
func (h *Handler) Handle(c *gin.Context) {
	payload, err := readBody(c, 65536)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Error reading request body"})
		return
	}

	event, err := webhook.ConstructEventWithOptions(
		payload,
		c.GetHeader("Stripe-Signature"),
		h.Cfg.StripeWebhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
	if err != nil {
		log.Printf("stripe signature verification failed: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid signature"})
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse session"})
			return
		}
		if err := h.handleCheckoutCompleted(&session); err != nil {
			log.Printf("checkout.session.completed failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Webhook handler failed"})
			return
		}

	case "customer.subscription.created", "customer.subscription.updated":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse subscription"})
			return
		}
		if err := h.handleSubscriptionUpdated(&sub); err != nil {
			log.Printf("%s failed: %v", event.Type, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Webhook handler failed"})
			return
		}

	case "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse subscription"})
			return
		}
		if err := h.handleSubscriptionDeleted(&sub); err != nil {
			log.Printf("customer.subscription.deleted failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Webhook handler failed"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

func readBody(c *gin.Context, maxBytes int64) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
	return io.ReadAll(c.Request.Body)
}
