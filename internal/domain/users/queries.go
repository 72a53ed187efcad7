package users

import (
	"errors"

	"ghostai-app/internal/domain/tiers"

	"gorm.io/gorm"
)

// ByEmail looks up a user by normalized email.
func ByEmail(db *gorm.DB, email string) (User, error) {
	var user User
	err := db.Where("email = ?", NormalizeEmail(email)).First(&user).Error
	return user, err
}

// TierByEmail resolves the caller's effective tier. A missing record or an
// unrecognized stored value both resolve to free.
func TierByEmail(db *gorm.DB, email string) (string, error) {
	user, err := ByEmail(db, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return tiers.TierFree, nil
	}
	if err != nil {
		return tiers.TierFree, err
	}
	return tiers.Normalize(user.SubscriptionTier), nil
}
