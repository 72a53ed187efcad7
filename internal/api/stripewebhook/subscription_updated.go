package stripewebhook

import (
	"errors"
	"fmt"

	"ghostai-app/internal/domain/users"

	"github.com/stripe/stripe-go/v75"
	"gorm.io/gorm"
)

// handleSubscriptionUpdated maps the subscription's active price to a tier
// and writes tier/status onto the matching user. Events for the same user
// may arrive out of order; this is last-write-wins on the touched fields.
func (h *Handler) handleSubscriptionUpdated(sub *stripe.Subscription) error {
	if sub.ID == "" || sub.Items == nil || len(sub.Items.Data) == 0 || sub.Items.Data[0].Price == nil {
		return nil
	}

	priceID := sub.Items.Data[0].Price.ID
	tier := h.Cfg.TierForPrice(priceID)
	status := string(sub.Status)

	user, ok, err := h.matchUser(sub)
	if err != nil {
		return err
	}
	if !ok {
		// Acknowledge: nothing to sync for a user we don't know.
		return nil
	}

	err = h.DB.Model(&users.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]interface{}{
			"subscription_tier":   tier,
			"subscription_status": status,
			"subscription_id":     sub.ID,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update user for subscription %s: %w", sub.ID, err)
	}
	return nil
}

// matchUser resolves the subscription to a user record: customer reference
// first, then the metadata email planted at checkout.
func (h *Handler) matchUser(sub *stripe.Subscription) (users.User, bool, error) {
	var user users.User

	if sub.Customer != nil && sub.Customer.ID != "" {
		err := h.DB.Where("stripe_customer_id = ?", sub.Customer.ID).First(&user).Error
		if err == nil {
			return user, true, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return users.User{}, false, err
		}
	}

	if email := sub.Metadata["email"]; email != "" {
		err := h.DB.Where("email = ?", users.NormalizeEmail(email)).First(&user).Error
		if err == nil {
			return user, true, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return users.User{}, false, err
		}
	}

	return users.User{}, false, nil
}
