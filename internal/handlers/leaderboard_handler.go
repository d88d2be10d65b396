package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/quizcraft/quiz-service/internal/services"
	"github.com/quizcraft/quiz-service/internal/utils"
)

// ===== LEADERBOARD HANDLER =====

// LeaderboardHandler handles ranking endpoints
type LeaderboardHandler struct {
	BaseHandler
	leaderboardService services.LeaderboardService
}

func NewLeaderboardHandler(leaderboardService services.LeaderboardService, logger utils.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{
		BaseHandler:        NewBaseHandler(logger),
		leaderboardService: leaderboardService,
	}
}

// GetLeaderboard handles GET /leaderboard
func (h *LeaderboardHandler) GetLeaderboard(c *gin.Context) {
	limit := 0
	if parsed, err := strconv.Atoi(c.DefaultQuery("limit", "0")); err == nil && parsed > 0 {
		limit = parsed
	}

	rows, err := h.leaderboardService.GetLeaderboard(c.Request.Context(), limit)
	if err != nil {
		h.LogError(c, err, "Failed to get leaderboard")
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": rows})
}

// GetUserRank handles GET /leaderboard/rank/:id
func (h *LeaderboardHandler) GetUserRank(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	rank, err := h.leaderboardService.GetUserRank(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": id, "rank": rank})
}

// RebuildLeaderboard handles POST /admin/leaderboard/rebuild
func (h *LeaderboardHandler) RebuildLeaderboard(c *gin.Context) {
	h.LogRequest(c, "Rebuilding leaderboard")
	if err := h.leaderboardService.Rebuild(c.Request.Context()); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Leaderboard rebuilt"})
}
