package services

import (
	"log/slog"

	"github.com/quizcraft/quiz-service/internal/cache"
	"github.com/quizcraft/quiz-service/internal/events"
	"github.com/quizcraft/quiz-service/internal/repositories"
	"github.com/quizcraft/quiz-service/internal/session"
	"github.com/quizcraft/quiz-service/internal/validator"
)

// Services bundles every service behind one constructor so wiring happens in
// a single place.
type Services struct {
	Quiz        QuizService
	Attempt     AttemptService
	Badge       BadgeService
	Profile     ProfileService
	Leaderboard LeaderboardService
	Export      ExportService
}

func New(
	repo repositories.TransactionRepository,
	registry *session.Registry,
	leaderboard *cache.Leaderboard,
	cacheService cache.CacheService,
	publisher events.EventPublisher,
	logger *slog.Logger,
	v *validator.Validator,
) *Services {
	badgeService := NewBadgeService(repo, publisher, logger)
	leaderboardService := NewLeaderboardService(repo, leaderboard, logger)

	return &Services{
		Quiz:        NewQuizService(repo, publisher, cacheService, logger, v),
		Attempt:     NewAttemptService(repo, registry, badgeService, leaderboard, publisher, logger),
		Badge:       badgeService,
		Profile:     NewProfileService(repo, leaderboardService, logger, v),
		Leaderboard: leaderboardService,
		Export:      NewExportService(repo, leaderboardService, logger),
	}
}
