package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/quizcraft/quiz-service/internal/models"
	"github.com/quizcraft/quiz-service/internal/repositories"
	"github.com/quizcraft/quiz-service/internal/services"
	"github.com/quizcraft/quiz-service/internal/utils"
)

// ===== ATTEMPT HANDLER =====

// AttemptHandler drives quiz sessions over HTTP: start, answer, submit,
// review, and attempt history.
type AttemptHandler struct {
	BaseHandler
	attemptService services.AttemptService
}

func NewAttemptHandler(attemptService services.AttemptService, logger utils.Logger) *AttemptHandler {
	return &AttemptHandler{
		BaseHandler:    NewBaseHandler(logger),
		attemptService: attemptService,
	}
}

// ===== REQUEST/RESPONSE DTOS =====

type startAttemptRequest struct {
	QuizID uint `json:"quiz_id" binding:"required"`
}

type submitAnswerRequest struct {
	QuestionID uint    `json:"question_id" binding:"required"`
	Option     *int    `json:"option,omitempty"`
	Text       *string `json:"text,omitempty"`
}

// startAttemptResponse sanitizes the quiz before handing it to the player.
type startAttemptResponse struct {
	SessionID     string      `json:"session_id"`
	Quiz          *QuizDetail `json:"quiz"`
	TimeLimit     int         `json:"time_limit"`
	QuestionCount int         `json:"question_count"`
	StartedAt     string      `json:"started_at"`
}

// ===== SESSION ENDPOINTS =====

// StartAttempt handles POST /attempts
func (h *AttemptHandler) StartAttempt(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	var req startAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Starting quiz attempt", "quiz_id", req.QuizID)
	result, err := h.attemptService.StartAttempt(c.Request.Context(), req.QuizID, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	detail, err := toQuizDetail(result.Quiz)
	if err != nil {
		h.LogError(c, err, "Failed to build quiz detail", "quiz_id", req.QuizID)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Internal server error"})
		return
	}
	c.JSON(http.StatusCreated, startAttemptResponse{
		SessionID:     result.SessionID,
		Quiz:          detail,
		TimeLimit:     result.TimeLimit,
		QuestionCount: result.QuestionCount,
		StartedAt:     result.StartedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	})
}

// SubmitAnswer handles POST /attempts/:session_id/answers
func (h *AttemptHandler) SubmitAnswer(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	sessionID := c.Param("session_id")

	var req submitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	var answer models.Answer
	switch {
	case req.Option != nil:
		answer = models.OptionAnswer(*req.Option)
	case req.Text != nil:
		answer = models.TextAnswer(*req.Text)
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Either option or text must be provided",
		})
		return
	}

	err := h.attemptService.SubmitAnswer(c.Request.Context(), sessionID, userID, req.QuestionID, answer)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Answer recorded"})
}

// Submit handles POST /attempts/:session_id/submit
func (h *AttemptHandler) Submit(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	sessionID := c.Param("session_id")

	h.LogRequest(c, "Submitting quiz attempt", "session_id", sessionID)
	outcome, err := h.attemptService.Submit(c.Request.Context(), sessionID, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, outcome)
}

// Review handles GET /attempts/:session_id/review
func (h *AttemptHandler) Review(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	sessionID := c.Param("session_id")

	review, err := h.attemptService.Review(c.Request.Context(), sessionID, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

// TimeRemaining handles GET /attempts/:session_id/time
func (h *AttemptHandler) TimeRemaining(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	sessionID := c.Param("session_id")

	remaining, err := h.attemptService.TimeRemaining(c.Request.Context(), sessionID, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"time_remaining": remaining})
}

// AbandonSession handles DELETE /attempts/:session_id
func (h *AttemptHandler) AbandonSession(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	sessionID := c.Param("session_id")

	h.LogRequest(c, "Abandoning quiz attempt", "session_id", sessionID)
	if err := h.attemptService.AbandonSession(c.Request.Context(), sessionID, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Attempt abandoned"})
}

// ===== HISTORY ENDPOINTS =====

// GetMyAttempts handles GET /attempts
func (h *AttemptHandler) GetMyAttempts(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	filters := parseAttemptFilters(c)
	attempts, total, err := h.attemptService.GetUserAttempts(c.Request.Context(), userID, filters)
	if err != nil {
		h.LogError(c, err, "Failed to get user attempts")
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ListResponse{Items: attempts, Total: total})
}

// GetQuizAttempts handles GET /admin/quizzes/:id/attempts
func (h *AttemptHandler) GetQuizAttempts(c *gin.Context) {
	quizID := h.parseIDParam(c, "id")
	if quizID == 0 {
		return
	}

	filters := parseAttemptFilters(c)
	attempts, total, err := h.attemptService.GetQuizAttempts(c.Request.Context(), quizID, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ListResponse{Items: attempts, Total: total})
}

func parseAttemptFilters(c *gin.Context) repositories.AttemptFilters {
	filters := repositories.AttemptFilters{Limit: 20}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil && limit > 0 && limit <= 100 {
		filters.Limit = limit
	}
	if offset, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil && offset >= 0 {
		filters.Offset = offset
	}
	if quizIDStr := c.Query("quiz_id"); quizIDStr != "" {
		if quizID, err := strconv.ParseUint(quizIDStr, 10, 32); err == nil {
			id := uint(quizID)
			filters.QuizID = &id
		}
	}
	return filters
}
