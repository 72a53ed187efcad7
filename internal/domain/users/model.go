package users

import (
	"strings"
	"time"
)

// Tier mutations happen only in the stripewebhook package; everything else
// treats the stored tier as read-only.
type User struct {
	ID           uint    `gorm:"primaryKey"`
	Email        string  `gorm:"not null;uniqueIndex:idx_users_email"`
	PasswordHash *string `gorm:""`
	AuthProvider string  `gorm:"type:varchar(20);not null;default:'local'"`
	GoogleSub    *string `gorm:"uniqueIndex:idx_users_google_sub"`

	StripeCustomerID *string `gorm:"column:stripe_customer_id;uniqueIndex:idx_users_stripe_customer_id"`
	SubscriptionID   *string `gorm:"column:subscription_id"`

	SubscriptionTier   string `gorm:"column:subscription_tier;not null;default:'free'"`
	SubscriptionStatus string `gorm:"column:subscription_status"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (User) TableName() string { return "app_users" }

// NormalizeEmail is the single place emails are canonicalized before they
// reach the database or the usage table.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
