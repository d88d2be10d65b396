package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quizcraft/quiz-service/internal/services"
	"github.com/quizcraft/quiz-service/internal/utils"
)

// ===== BADGE HANDLER =====

// BadgeHandler handles badge catalog and earned-badge endpoints
type BadgeHandler struct {
	BaseHandler
	badgeService services.BadgeService
}

func NewBadgeHandler(badgeService services.BadgeService, logger utils.Logger) *BadgeHandler {
	return &BadgeHandler{
		BaseHandler:  NewBaseHandler(logger),
		badgeService: badgeService,
	}
}

// ListBadges handles GET /badges
func (h *BadgeHandler) ListBadges(c *gin.Context) {
	definitions, err := h.badgeService.ListDefinitions(c.Request.Context())
	if err != nil {
		h.LogError(c, err, "Failed to list badge definitions")
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"badges": definitions})
}

// GetUserBadges handles GET /profiles/:id/badges
func (h *BadgeHandler) GetUserBadges(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	earned, err := h.badgeService.GetUserBadges(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"badges": earned})
}
