package usage

import (
	"errors"
	"log"
	"net/http"

	"ghostai-app/config"
	"ghostai-app/internal/domain/quota"
	"ghostai-app/internal/domain/tiers"
	"ghostai-app/internal/domain/users"
	"ghostai-app/internal/infra/stripeutil"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	DB   *gorm.DB
	Cfg  *config.Config
	Gate *quota.Gate
}

func NewHandler(db *gorm.DB, cfg *config.Config, gate *quota.Gate) *Handler {
	return &Handler{DB: db, Cfg: cfg, Gate: gate}
}

// Get is GET /usage: today's consumption for the caller, read-only.
func (h *Handler) Get(c *gin.Context) {
	email := c.GetString("email")
	if email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	email = users.NormalizeEmail(email)

	if email == h.Cfg.OwnerEmail {
		c.JSON(http.StatusOK, gin.H{
			"tier":         "owner",
			"used":         0,
			"limit":        h.Cfg.UltimateDailyLimit,
			"remaining":    h.Cfg.UltimateDailyLimit,
			"limitReached": false,
		})
		return
	}

	user, err := users.ByEmail(h.DB, email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("usage lookup failed for %s: %v", email, err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "usage accounting unavailable"})
		return
	}
	tier := tiers.Normalize(user.SubscriptionTier)

	used, limit, err := h.Gate.Snapshot(c.Request.Context(), email, tier)
	if err != nil {
		log.Printf("usage snapshot failed for %s: %v", email, err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "usage accounting unavailable"})
		return
	}

	remaining := limit - used
	if remaining < 0 {
		remaining = 0
	}

	c.JSON(http.StatusOK, gin.H{
		"tier":         tier,
		"status":       stripeutil.NormalizeStatus(user.SubscriptionStatus),
		"used":         used,
		"limit":        limit,
		"remaining":    remaining,
		"limitReached": used >= limit,
	})
}
