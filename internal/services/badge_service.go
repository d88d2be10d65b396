package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/quizcraft/quiz-service/internal/badges"
	"github.com/quizcraft/quiz-service/internal/events"
	"github.com/quizcraft/quiz-service/internal/models"
	"github.com/quizcraft/quiz-service/internal/repositories"
	"github.com/quizcraft/quiz-service/internal/repositories/postgres"
)

// BadgeService owns achievement definitions and awarding. Awarding is
// idempotent end to end: the evaluator skips earned ids and the repository
// swallows duplicate inserts.
type BadgeService interface {
	ListDefinitions(ctx context.Context) ([]*models.Badge, error)
	GetUserBadges(ctx context.Context, userID uint) ([]*models.EarnedBadge, error)
	CountUserBadges(ctx context.Context, userID uint) (int64, error)

	// EvaluateAndAward re-checks every criterion against the user's full attempt
	// history and awards whatever newly qualifies.
	EvaluateAndAward(ctx context.Context, userID uint, attemptID, quizID uint) ([]*models.Badge, error)

	// SeedDefinitions inserts the built-in badge set if missing.
	SeedDefinitions(ctx context.Context) error
}

type badgeService struct {
	repo           repositories.Repository
	eventPublisher events.EventPublisher
	logger         *slog.Logger
}

func NewBadgeService(
	repo repositories.Repository,
	eventPublisher events.EventPublisher,
	logger *slog.Logger,
) BadgeService {
	return &badgeService{
		repo:           repo,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

func (s *badgeService) ListDefinitions(ctx context.Context) ([]*models.Badge, error) {
	definitions, err := s.repo.Badge().ListDefinitions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list badge definitions: %w", err)
	}
	return definitions, nil
}

func (s *badgeService) GetUserBadges(ctx context.Context, userID uint) ([]*models.EarnedBadge, error) {
	earned, err := s.repo.Badge().GetEarned(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get earned badges: %w", err)
	}
	return earned, nil
}

func (s *badgeService) CountUserBadges(ctx context.Context, userID uint) (int64, error) {
	count, err := s.repo.Badge().CountEarned(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count earned badges: %w", err)
	}
	return count, nil
}

func (s *badgeService) EvaluateAndAward(ctx context.Context, userID uint, attemptID, quizID uint) ([]*models.Badge, error) {
	definitions, err := s.repo.Badge().ListDefinitions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list badge definitions: %w", err)
	}

	earnedRows, err := s.repo.Badge().GetEarned(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get earned badges: %w", err)
	}
	earned := make(map[uint]bool, len(earnedRows))
	for _, row := range earnedRows {
		earned[row.BadgeID] = true
	}

	history, err := s.repo.Attempt().GetHistory(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get attempt history: %w", err)
	}

	qualified := badges.Evaluate(definitions, earned, history)
	awarded := make([]*models.Badge, 0, len(qualified))
	for _, badge := range qualified {
		inserted, err := s.repo.Badge().Award(ctx, userID, badge.ID, time.Now())
		if err != nil {
			return awarded, fmt.Errorf("failed to award badge %s: %w", badge.Slug, err)
		}
		if !inserted {
			// Lost a race with a concurrent award; fine either way.
			continue
		}
		awarded = append(awarded, badge)

		event := events.NewBadgeEarnedEvent(events.BadgeEarnedEvent{
			UserID:    userID,
			BadgeID:   badge.ID,
			BadgeSlug: badge.Slug,
			BadgeName: badge.Name,
			Rarity:    string(badge.Rarity),
			EarnedAt:  time.Now(),
			AttemptID: attemptID,
			QuizID:    quizID,
		})
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Warn("Failed to publish badge earned event",
				"user_id", userID, "badge", badge.Slug, "error", err)
		}

		s.logger.Info("Badge awarded", "user_id", userID, "badge", badge.Slug)
	}
	return awarded, nil
}

// defaultDefinitions is the built-in badge set.
func defaultDefinitions() []*models.Badge {
	return []*models.Badge{
		{
			Slug:        badges.SlugFirstQuiz,
			Name:        "First Steps",
			Description: "Complete your first quiz",
			Icon:        "🎯",
			Criteria:    "Complete at least one quiz",
			Rarity:      models.RarityCommon,
		},
		{
			Slug:        badges.SlugPerfectionist,
			Name:        "Perfectionist",
			Description: "Score 100% on a quiz",
			Icon:        "💯",
			Criteria:    "Score 100% on any quiz",
			Rarity:      models.RarityRare,
		},
		{
			Slug:        badges.SlugQuizMaster,
			Name:        "Quiz Master",
			Description: "Score 100% on five quizzes",
			Icon:        "👑",
			Criteria:    "Achieve five perfect scores",
			Rarity:      models.RarityEpic,
		},
		{
			Slug:        badges.SlugKnowledgeSeeker,
			Name:        "Knowledge Seeker",
			Description: "Complete ten quizzes",
			Icon:        "📚",
			Criteria:    "Complete at least ten quizzes",
			Rarity:      models.RarityEpic,
		},
		{
			Slug:        badges.SlugSpeedDemon,
			Name:        "Speed Demon",
			Description: "Finish a quiz in under half the time limit",
			Icon:        "⚡",
			Criteria:    "Finish any quiz in less than half its time limit",
			Rarity:      models.RarityLegendary,
		},
	}
}

func (s *badgeService) SeedDefinitions(ctx context.Context) error {
	for _, def := range defaultDefinitions() {
		_, err := s.repo.Badge().GetBySlug(ctx, def.Slug)
		if err == nil {
			continue
		}
		if !postgres.IsNotFoundError(err) {
			return fmt.Errorf("failed to look up badge %s: %w", def.Slug, err)
		}
		if err := s.repo.Badge().CreateDefinition(ctx, def); err != nil {
			return fmt.Errorf("failed to seed badge %s: %w", def.Slug, err)
		}
		s.logger.Info("Seeded badge definition", "slug", def.Slug)
	}
	return nil
}
