package ghost

import (
	"errors"
	"log"
	"net/http"

	"ghostai-app/config"
	"ghostai-app/internal/domain/quota"
	"ghostai-app/internal/domain/tiers"
	"ghostai-app/internal/domain/users"
	"ghostai-app/internal/llm"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	DB   *gorm.DB
	Cfg  *config.Config
	AI   llm.Provider
	Gate *quota.Gate
}

func NewHandler(db *gorm.DB, cfg *config.Config, ai llm.Provider, gate *quota.Gate) *Handler {
	return &Handler{DB: db, Cfg: cfg, AI: ai, Gate: gate}
}

// Run is POST /ghost: the usage-gated inference proxy.
//
// Denial reasons stay distinguishable: 402 upgradeRequired for a mode the
// tier doesn't include, 403 limitReached for an exhausted daily quota.
func (h *Handler) Run(c *gin.Context) {
	email := c.GetString("email")
	if email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	email = users.NormalizeEmail(email)

	var body struct {
		Task string `json:"task"`
		Mode string `json:"mode"`
		Cost int    `json:"cost"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Task == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Task is required."})
		return
	}

	// Attachment-augmented requests charge 2; everything else charges 1.
	// The client states the cost, the gate never infers it.
	cost := body.Cost
	if cost < 1 {
		cost = 1
	}
	if cost > 2 {
		cost = 2
	}

	tier, err := users.TierByEmail(h.DB, email)
	if err != nil {
		log.Printf("tier lookup failed for %s: %v", email, err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "usage accounting unavailable"})
		return
	}

	// Feature gate runs before any usage-row read.
	if body.Mode == proMode && email != h.Cfg.OwnerEmail && !tiers.HasAccess(tier, tiers.TierPro) {
		c.JSON(http.StatusPaymentRequired, gin.H{
			"upgradeRequired": true,
			"message":         "Mock interviews are a Pro feature. Upgrade to unlock them.",
		})
		return
	}

	if err := h.Gate.Admit(c.Request.Context(), email, tier, cost); err != nil {
		var le quota.LimitError
		if errors.As(err, &le) {
			c.JSON(http.StatusForbidden, gin.H{
				"limitReached": true,
				"used":         le.Used,
				"limit":        le.Limit,
			})
			return
		}
		log.Printf("usage gate failed for %s: %v", email, err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "usage accounting unavailable"})
		return
	}

	resp, err := h.AI.Complete(c.Request.Context(), &llm.Request{
		SystemPrompt: promptForMode(body.Mode),
		UserPrompt:   body.Task,
	})
	if err != nil {
		log.Printf("openai error: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "AI request failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": resp.Content})
}
