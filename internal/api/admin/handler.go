package admin

import (
	"net/http"
	"time"

	"ghostai-app/config"
	"ghostai-app/internal/domain/usage"
	"ghostai-app/internal/domain/users"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewHandler(db *gorm.DB, cfg *config.Config) *Handler {
	return &Handler{DB: db, Cfg: cfg}
}

// RequireOwner restricts /admin to the configured owner identity.
func (h *Handler) RequireOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		if users.NormalizeEmail(c.GetString("email")) != h.Cfg.OwnerEmail {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return
		}
		c.Next()
	}
}

// Dashboard is GET /admin/dashboard: headline totals for the owner.
func (h *Handler) Dashboard(c *gin.Context) {
	var totalUsers int64
	if err := h.DB.Model(&users.User{}).Count(&totalUsers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard"})
		return
	}

	type tierCount struct {
		SubscriptionTier string
		Count            int64
	}
	var byTier []tierCount
	if err := h.DB.Model(&users.User{}).
		Select("subscription_tier, count(*) as count").
		Group("subscription_tier").
		Find(&byTier).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard"})
		return
	}
	tierTotals := make(map[string]int64, len(byTier))
	for _, tc := range byTier {
		tierTotals[tc.SubscriptionTier] = tc.Count
	}

	var requestsToday int64
	err := h.DB.Model(&usage.Record{}).
		Where("day = ?", usage.DayKey(time.Now())).
		Select("coalesce(sum(count), 0)").
		Scan(&requestsToday).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"totalUsers":    totalUsers,
		"usersByTier":   tierTotals,
		"requestsToday": requestsToday,
	})
}
