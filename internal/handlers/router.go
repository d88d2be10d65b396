package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quizcraft/quiz-service/internal/services"
	"github.com/quizcraft/quiz-service/internal/utils"
)

type HandlerManager struct {
	quizHandler        *QuizHandler
	attemptHandler     *AttemptHandler
	profileHandler     *ProfileHandler
	badgeHandler       *BadgeHandler
	leaderboardHandler *LeaderboardHandler
	exportHandler      *ExportHandler
}

func NewHandlerManager(svcs *services.Services, logger utils.Logger) *HandlerManager {
	return &HandlerManager{
		quizHandler:        NewQuizHandler(svcs.Quiz, logger),
		attemptHandler:     NewAttemptHandler(svcs.Attempt, logger),
		profileHandler:     NewProfileHandler(svcs.Profile, logger),
		badgeHandler:       NewBadgeHandler(svcs.Badge, logger),
		leaderboardHandler: NewLeaderboardHandler(svcs.Leaderboard, logger),
		exportHandler:      NewExportHandler(svcs.Export, logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.Use(UserContextMiddleware())

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Quiz catalog routes
		quizzes := v1.Group("/quizzes")
		{
			quizzes.GET("", hm.quizHandler.ListQuizzes)
			quizzes.GET("/:id", hm.quizHandler.GetQuiz)
		}

		// Attempt/session routes
		attempts := v1.Group("/attempts")
		{
			attempts.POST("", hm.attemptHandler.StartAttempt)
			attempts.GET("", hm.attemptHandler.GetMyAttempts)
			attempts.POST("/:session_id/answers", hm.attemptHandler.SubmitAnswer)
			attempts.POST("/:session_id/submit", hm.attemptHandler.Submit)
			attempts.GET("/:session_id/review", hm.attemptHandler.Review)
			attempts.GET("/:session_id/time", hm.attemptHandler.TimeRemaining)
			attempts.DELETE("/:session_id", hm.attemptHandler.AbandonSession)
		}

		// Profile routes
		profiles := v1.Group("/profiles")
		{
			profiles.POST("", hm.profileHandler.CreateProfile)
			profiles.GET("/:id", hm.profileHandler.GetProfile)
			profiles.GET("/:id/summary", hm.profileHandler.GetProfileSummary)
			profiles.GET("/:id/badges", hm.badgeHandler.GetUserBadges)
			profiles.PUT("/:id", hm.profileHandler.UpdateProfile)
		}

		// Badge catalog
		v1.GET("/badges", hm.badgeHandler.ListBadges)

		// Leaderboard routes
		leaderboard := v1.Group("/leaderboard")
		{
			leaderboard.GET("", hm.leaderboardHandler.GetLeaderboard)
			leaderboard.GET("/rank/:id", hm.leaderboardHandler.GetUserRank)
		}

		// Admin routes
		admin := v1.Group("/admin", AdminMiddleware())
		{
			admin.POST("/quizzes", hm.quizHandler.CreateQuiz)
			admin.PUT("/quizzes/:id", hm.quizHandler.UpdateQuiz)
			admin.DELETE("/quizzes/:id", hm.quizHandler.DeleteQuiz)
			admin.PATCH("/quizzes/:id/active", hm.quizHandler.SetQuizActive)
			admin.GET("/quizzes/:id/stats", hm.quizHandler.GetQuizStats)
			admin.GET("/quizzes/:id/attempts", hm.attemptHandler.GetQuizAttempts)
			admin.GET("/quizzes/:id/export", hm.exportHandler.ExportQuizAttempts)

			admin.POST("/leaderboard/rebuild", hm.leaderboardHandler.RebuildLeaderboard)
			admin.GET("/leaderboard/export", hm.exportHandler.ExportLeaderboard)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "quiz-service",
		})
	})
}
