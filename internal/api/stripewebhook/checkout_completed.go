package stripewebhook

import (
	"fmt"

	"ghostai-app/internal/domain/tiers"
	"ghostai-app/internal/domain/users"

	"github.com/stripe/stripe-go/v75"
	"gorm.io/gorm/clause"
)

// handleCheckoutCompleted upserts the user by email with the purchased tier,
// the customer reference and the subscription reference. The email comes
// from the session itself or from the metadata the checkout handler planted.
// A session with no resolvable email is acknowledged and skipped.
func (h *Handler) handleCheckoutCompleted(session *stripe.CheckoutSession) error {
	email := session.CustomerEmail
	if email == "" && session.CustomerDetails != nil {
		email = session.CustomerDetails.Email
	}
	if email == "" {
		email = session.Metadata["email"]
	}
	if email == "" {
		return nil
	}
	email = users.NormalizeEmail(email)

	assignments := map[string]interface{}{
		"subscription_status": "active",
	}
	if session.Customer != nil && session.Customer.ID != "" {
		assignments["stripe_customer_id"] = session.Customer.ID
	}
	if session.Subscription != nil && session.Subscription.ID != "" {
		assignments["subscription_id"] = session.Subscription.ID
	}

	// The session payload carries no price, so the tier comes from the plan
	// metadata; when absent, the subscription.updated event fills it in.
	user := users.User{
		Email:              email,
		AuthProvider:       "local",
		SubscriptionTier:   tiers.TierFree,
		SubscriptionStatus: "active",
	}
	if plan := session.Metadata["plan"]; plan != "" {
		tier := tiers.Normalize(plan)
		assignments["subscription_tier"] = tier
		user.SubscriptionTier = tier
	}
	if session.Customer != nil && session.Customer.ID != "" {
		id := session.Customer.ID
		user.StripeCustomerID = &id
	}
	if session.Subscription != nil && session.Subscription.ID != "" {
		id := session.Subscription.ID
		user.SubscriptionID = &id
	}

	err := h.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.Assignments(assignments),
	}).Create(&user).Error
	if err != nil {
		return fmt.Errorf("failed to upsert user after checkout: %w", err)
	}
	return nil
}
