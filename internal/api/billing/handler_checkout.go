package billing

import (
	"errors"
	"log"
	"net/http"

	"ghostai-app/config"
	"ghostai-app/internal/domain/tiers"
	"ghostai-app/internal/domain/users"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
	portalsession "github.com/stripe/stripe-go/v75/billingportal/session"
	checkoutsession "github.com/stripe/stripe-go/v75/checkout/session"
	"github.com/stripe/stripe-go/v75/customer"
	"gorm.io/gorm"
)

type Handler struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewHandler(db *gorm.DB, cfg *config.Config) *Handler {
	return &Handler{DB: db, Cfg: cfg}
}

// CreateCheckoutSession is POST /checkout. The plan selector is validated
// against the configured price table before anything leaves the process.
func (h *Handler) CreateCheckoutSession(c *gin.Context) {
	email := c.GetString("email")
	if email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	email = users.NormalizeEmail(email)

	var body struct {
		Plan string `json:"plan"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Plan == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing plan"})
		return
	}

	priceID := h.Cfg.PriceForPlan(body.Plan)
	if priceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid plan"})
		return
	}

	user, err := h.ensureUser(email)
	if err != nil {
		log.Printf("checkout: user lookup failed for %s: %v", email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Checkout failed"})
		return
	}

	customerID, err := h.ensureStripeCustomer(&user)
	if err != nil {
		log.Printf("checkout: stripe customer failed for %s: %v", email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Stripe customer"})
		return
	}

	params := &stripe.CheckoutSessionParams{
		Mode:     stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		Customer: stripe.String(customerID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(priceID), Quantity: stripe.Int64(1)},
		},
		SuccessURL:          stripe.String(h.Cfg.AppURL + "/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:           stripe.String(h.Cfg.AppURL + "/pricing"),
		AllowPromotionCodes: stripe.Bool(true),

		// Metadata duplicates the email/plan mapping so the webhook can
		// recover it even if the customer-reference path fails.
		Metadata: map[string]string{
			"email": email,
			"plan":  body.Plan,
		},
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: map[string]string{
				"email": email,
				"plan":  body.Plan,
			},
		},
	}

	s, err := checkoutsession.New(params)
	if err != nil {
		log.Printf("checkout: session create failed for %s: %v", email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create checkout session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": s.URL})
}

// CreateBillingPortal is POST /billing-portal.
func (h *Handler) CreateBillingPortal(c *gin.Context) {
	email := c.GetString("email")
	if email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	user, err := users.ByEmail(h.DB, email)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}
	if user.StripeCustomerID == nil || *user.StripeCustomerID == "" {
		c.JSON(http.StatusConflict, gin.H{"error": "No Stripe customer yet (subscribe first)"})
		return
	}

	portal, err := portalsession.New(&stripe.BillingPortalSessionParams{
		Customer:  stripe.String(*user.StripeCustomerID),
		ReturnURL: stripe.String(h.Cfg.AppURL + "/account"),
	})
	if err != nil {
		log.Printf("billing portal failed for %s: %v", email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create billing portal session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": portal.URL})
}

// ensureUser returns the user row for email, creating a free-tier record on
// first checkout so webhook matching works before the first login.
func (h *Handler) ensureUser(email string) (users.User, error) {
	user, err := users.ByEmail(h.DB, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return users.User{}, err
	}

	user = users.User{
		Email:            email,
		AuthProvider:     "local",
		SubscriptionTier: tiers.TierFree,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		return users.User{}, err
	}
	return user, nil
}

// ensureStripeCustomer creates (or reuses) the processor-side customer and
// stores its reference on the user record for later webhook matching.
func (h *Handler) ensureStripeCustomer(user *users.User) (string, error) {
	if user.StripeCustomerID != nil && *user.StripeCustomerID != "" {
		return *user.StripeCustomerID, nil
	}

	cus, err := customer.New(&stripe.CustomerParams{
		Email: stripe.String(user.Email),
	})
	if err != nil {
		return "", err
	}

	if err := h.DB.Model(&users.User{}).
		Where("id = ?", user.ID).
		Update("stripe_customer_id", cus.ID).Error; err != nil {
		return "", err
	}
	user.StripeCustomerID = stripe.String(cus.ID)
	return cus.ID, nil
}
