package stripewebhook

import (
	"errors"
	"fmt"

	"ghostai-app/internal/domain/tiers"
	"ghostai-app/internal/domain/users"

	"github.com/stripe/stripe-go/v75"
	"gorm.io/gorm"
)

// handleSubscriptionDeleted drops the user back to free. Records are never
// hard-deleted; cancellation only resets the entitlement fields.
func (h *Handler) handleSubscriptionDeleted(sub *stripe.Subscription) error {
	if sub.ID == "" {
		return nil
	}

	var user users.User
	found := false

	if sub.Customer != nil && sub.Customer.ID != "" {
		err := h.DB.Where("stripe_customer_id = ?", sub.Customer.ID).First(&user).Error
		if err == nil {
			found = true
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
	}
	if !found {
		err := h.DB.Where("subscription_id = ?", sub.ID).First(&user).Error
		if err == nil {
			found = true
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
	}
	if !found {
		return nil
	}

	err := h.DB.Model(&users.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]interface{}{
			"subscription_tier":   tiers.TierFree,
			"subscription_status": "canceled",
			"subscription_id":     nil,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to downgrade user for subscription %s: %w", sub.ID, err)
	}
	return nil
}
