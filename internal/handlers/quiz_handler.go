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

// ===== QUIZ HANDLER =====

// QuizHandler handles quiz catalog and content management endpoints
type QuizHandler struct {
	BaseHandler
	quizService services.QuizService
}

func NewQuizHandler(quizService services.QuizService, logger utils.Logger) *QuizHandler {
	return &QuizHandler{
		BaseHandler: NewBaseHandler(logger),
		quizService: quizService,
	}
}

// ===== PLAYER-FACING DTOS =====

// QuizSummary is the catalog view of a quiz, without questions.
type QuizSummary struct {
	ID            uint              `json:"id"`
	Title         string            `json:"title"`
	Description   string            `json:"description"`
	Category      string            `json:"category"`
	Difficulty    models.Difficulty `json:"difficulty"`
	TimeLimit     int               `json:"time_limit"`
	PassingScore  int               `json:"passing_score"`
	Points        int               `json:"points"`
	QuestionCount int               `json:"question_count"`
	Attempts      int               `json:"attempts"`
	AverageScore  float64           `json:"average_score"`
}

// QuestionView is the player view of a question: answer keys are stripped.
type QuestionView struct {
	ID         uint                `json:"id"`
	Prompt     string              `json:"prompt"`
	Type       models.QuestionType `json:"type"`
	Options    []string            `json:"options,omitempty"`
	Points     int                 `json:"points"`
	OrderIndex int                 `json:"order_index"`
}

// QuizDetail is the player view of a quiz including sanitized questions.
type QuizDetail struct {
	QuizSummary
	Questions []QuestionView `json:"questions"`
}

func toQuizSummary(quiz *models.Quiz) QuizSummary {
	return QuizSummary{
		ID:            quiz.ID,
		Title:         quiz.Title,
		Description:   quiz.Description,
		Category:      quiz.Category,
		Difficulty:    quiz.Difficulty,
		TimeLimit:     quiz.TimeLimit,
		PassingScore:  quiz.PassingScore,
		Points:        quiz.Points,
		QuestionCount: len(quiz.Questions),
		Attempts:      quiz.Attempts,
		AverageScore:  quiz.AverageScore,
	}
}

func toQuizDetail(quiz *models.Quiz) (*QuizDetail, error) {
	detail := &QuizDetail{
		QuizSummary: toQuizSummary(quiz),
		Questions:   make([]QuestionView, 0, len(quiz.Questions)),
	}
	for i := range quiz.Questions {
		q := &quiz.Questions[i]
		options, err := q.OptionList()
		if err != nil {
			return nil, err
		}
		detail.Questions = append(detail.Questions, QuestionView{
			ID:         q.ID,
			Prompt:     q.Prompt,
			Type:       q.Type,
			Options:    options,
			Points:     q.Points,
			OrderIndex: q.OrderIndex,
		})
	}
	return detail, nil
}

// ===== PLAYER ENDPOINTS =====

// ListQuizzes handles GET /quizzes with category/difficulty/pagination filters
func (h *QuizHandler) ListQuizzes(c *gin.Context) {
	filters := repositories.QuizFilters{
		ActiveOnly: true,
		Limit:      20,
		SortBy:     c.DefaultQuery("sort_by", "created_at"),
		SortOrder:  c.DefaultQuery("sort_order", "desc"),
	}
	if category := c.Query("category"); category != "" {
		filters.Category = &category
	}
	if difficulty := c.Query("difficulty"); difficulty != "" {
		d := models.Difficulty(difficulty)
		filters.Difficulty = &d
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil && limit > 0 && limit <= 100 {
		filters.Limit = limit
	}
	if offset, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil && offset >= 0 {
		filters.Offset = offset
	}

	// Admins may list inactive quizzes too
	if role, exists := c.Get("user_role"); exists && role == "admin" {
		filters.ActiveOnly = c.DefaultQuery("active_only", "false") == "true"
	}

	quizzes, total, err := h.quizService.List(c.Request.Context(), filters)
	if err != nil {
		h.LogError(c, err, "Failed to list quizzes")
		h.handleServiceError(c, err)
		return
	}

	summaries := make([]QuizSummary, 0, len(quizzes))
	for _, quiz := range quizzes {
		summaries = append(summaries, toQuizSummary(quiz))
	}
	c.JSON(http.StatusOK, ListResponse{Items: summaries, Total: total})
}

// GetQuiz handles GET /quizzes/:id, hiding answer keys from players
func (h *QuizHandler) GetQuiz(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	quiz, err := h.quizService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	if role, exists := c.Get("user_role"); exists && role == "admin" {
		c.JSON(http.StatusOK, quiz)
		return
	}

	if !quiz.IsActive {
		c.JSON(http.StatusNotFound, ErrorResponse{Message: services.ErrQuizNotFound.Error()})
		return
	}
	detail, err := toQuizDetail(quiz)
	if err != nil {
		h.LogError(c, err, "Failed to build quiz detail", "quiz_id", id)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, detail)
}

// ===== ADMIN ENDPOINTS =====

// CreateQuiz handles POST /admin/quizzes
func (h *QuizHandler) CreateQuiz(c *gin.Context) {
	var quiz models.Quiz
	if err := c.ShouldBindJSON(&quiz); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	if userID, exists := c.Get("user_id"); exists {
		quiz.CreatedBy = userID.(uint)
	}

	h.LogRequest(c, "Creating quiz", "title", quiz.Title)
	if err := h.quizService.Create(c.Request.Context(), &quiz); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, quiz)
}

// UpdateQuiz handles PUT /admin/quizzes/:id
func (h *QuizHandler) UpdateQuiz(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var quiz models.Quiz
	if err := c.ShouldBindJSON(&quiz); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}
	quiz.ID = id

	if err := h.quizService.Update(c.Request.Context(), &quiz); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, quiz)
}

// DeleteQuiz handles DELETE /admin/quizzes/:id
func (h *QuizHandler) DeleteQuiz(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Deleting quiz", "quiz_id", id)
	if err := h.quizService.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Quiz deleted successfully"})
}

// SetQuizActive handles PATCH /admin/quizzes/:id/active
func (h *QuizHandler) SetQuizActive(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var body struct {
		Active bool `json:"active"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	if err := h.quizService.SetActive(c.Request.Context(), id, body.Active); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Quiz status updated"})
}

// GetQuizStats handles GET /admin/quizzes/:id/stats
func (h *QuizHandler) GetQuizStats(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	stats, err := h.quizService.GetStats(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
