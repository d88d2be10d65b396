package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quizcraft/quiz-service/internal/models"
	"github.com/quizcraft/quiz-service/internal/services"
	"github.com/quizcraft/quiz-service/internal/utils"
)

// ===== PROFILE HANDLER =====

// ProfileHandler handles player profile endpoints
type ProfileHandler struct {
	BaseHandler
	profileService services.ProfileService
}

func NewProfileHandler(profileService services.ProfileService, logger utils.Logger) *ProfileHandler {
	return &ProfileHandler{
		BaseHandler:    NewBaseHandler(logger),
		profileService: profileService,
	}
}

// CreateProfile handles POST /profiles
func (h *ProfileHandler) CreateProfile(c *gin.Context) {
	var profile models.Profile
	if err := c.ShouldBindJSON(&profile); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	if userID, exists := c.Get("user_id"); exists {
		profile.ID = userID.(uint)
	}

	h.LogRequest(c, "Creating profile", "name", profile.Name)
	if err := h.profileService.Create(c.Request.Context(), &profile); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, profile)
}

// GetProfile handles GET /profiles/:id
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	profile, err := h.profileService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// GetProfileSummary handles GET /profiles/:id/summary with stats, badges and rank
func (h *ProfileHandler) GetProfileSummary(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	summary, err := h.profileService.GetSummary(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// UpdateProfile handles PUT /profiles/:id; only the owner may update
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	if userID != id {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Cannot update another user's profile",
		})
		return
	}

	var profile models.Profile
	if err := c.ShouldBindJSON(&profile); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}
	profile.ID = id

	if err := h.profileService.Update(c.Request.Context(), &profile); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
