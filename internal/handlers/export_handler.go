package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/quizcraft/quiz-service/internal/services"
	"github.com/quizcraft/quiz-service/internal/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ===== EXPORT HANDLER =====

// ExportHandler streams xlsx reports for admins
type ExportHandler struct {
	BaseHandler
	exportService services.ExportService
}

func NewExportHandler(exportService services.ExportService, logger utils.Logger) *ExportHandler {
	return &ExportHandler{
		BaseHandler:   NewBaseHandler(logger),
		exportService: exportService,
	}
}

// ExportQuizAttempts handles GET /admin/quizzes/:id/export
func (h *ExportHandler) ExportQuizAttempts(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Exporting quiz attempts", "quiz_id", id)
	data, err := h.exportService.ExportQuizAttempts(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("quiz_%d_attempts_%s.xlsx", id, time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}

// ExportLeaderboard handles GET /admin/leaderboard/export
func (h *ExportHandler) ExportLeaderboard(c *gin.Context) {
	limit := 0
	if parsed, err := strconv.Atoi(c.DefaultQuery("limit", "0")); err == nil && parsed > 0 {
		limit = parsed
	}

	h.LogRequest(c, "Exporting leaderboard")
	data, err := h.exportService.ExportLeaderboard(c.Request.Context(), limit)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("leaderboard_%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}
