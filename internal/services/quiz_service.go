package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/quizcraft/quiz-service/internal/cache"
	"github.com/quizcraft/quiz-service/internal/events"
	"github.com/quizcraft/quiz-service/internal/models"
	"github.com/quizcraft/quiz-service/internal/repositories"
	"github.com/quizcraft/quiz-service/internal/repositories/postgres"
	"github.com/quizcraft/quiz-service/internal/validator"
)

const quizCacheTTL = 5 * time.Minute

// QuizService manages quiz content: admin CRUD, activation, and the
// attempt-derived aggregates shown on quiz listings.
type QuizService interface {
	Create(ctx context.Context, quiz *models.Quiz) error
	Update(ctx context.Context, quiz *models.Quiz) error
	Delete(ctx context.Context, id uint) error

	GetByID(ctx context.Context, id uint) (*models.Quiz, error)
	List(ctx context.Context, filters repositories.QuizFilters) ([]*models.Quiz, int64, error)

	SetActive(ctx context.Context, id uint, active bool) error
	GetStats(ctx context.Context, id uint) (*repositories.QuizStats, error)
	RecomputeStats(ctx context.Context, id uint) error
}

type quizService struct {
	repo           repositories.Repository
	eventPublisher events.EventPublisher
	cache          cache.CacheService // optional, nil disables quiz caching
	logger         *slog.Logger
	validator      *validator.Validator
}

func NewQuizService(
	repo repositories.Repository,
	eventPublisher events.EventPublisher,
	cacheService cache.CacheService,
	logger *slog.Logger,
	v *validator.Validator,
) QuizService {
	return &quizService{
		repo:           repo,
		eventPublisher: eventPublisher,
		cache:          cacheService,
		logger:         logger,
		validator:      v,
	}
}

func quizCacheKey(id uint) string {
	return fmt.Sprintf("quiz:%d", id)
}

func (s *quizService) invalidateCache(ctx context.Context, id uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, quizCacheKey(id)); err != nil {
		s.logger.Warn("Failed to invalidate quiz cache", "quiz_id", id, "error", err)
	}
}

// ===== CORE CRUD OPERATIONS =====

func (s *quizService) Create(ctx context.Context, quiz *models.Quiz) error {
	s.logger.Info("Creating quiz", "title", quiz.Title, "creator_id", quiz.CreatedBy)

	if err := s.validator.Validate(quiz); err != nil {
		return err
	}

	// Questions keep their submitted order.
	for i := range quiz.Questions {
		quiz.Questions[i].OrderIndex = i
	}

	if err := s.repo.Quiz().Create(ctx, quiz); err != nil {
		return fmt.Errorf("failed to create quiz: %w", err)
	}
	return nil
}

func (s *quizService) Update(ctx context.Context, quiz *models.Quiz) error {
	s.logger.Info("Updating quiz", "quiz_id", quiz.ID)

	existing, err := s.repo.Quiz().GetByID(ctx, quiz.ID)
	if err != nil {
		if postgres.IsNotFoundError(err) {
			return ErrQuizNotFound
		}
		return fmt.Errorf("failed to load quiz: %w", err)
	}

	if err := s.validator.Validate(quiz); err != nil {
		return err
	}

	for i := range quiz.Questions {
		quiz.Questions[i].OrderIndex = i
	}

	// Aggregates are owned by RecomputeStats, never by an update payload.
	quiz.Attempts = existing.Attempts
	quiz.AverageScore = existing.AverageScore
	quiz.CreatedBy = existing.CreatedBy

	if err := s.repo.Quiz().Update(ctx, quiz); err != nil {
		return fmt.Errorf("failed to update quiz: %w", err)
	}
	s.invalidateCache(ctx, quiz.ID)
	return nil
}

func (s *quizService) Delete(ctx context.Context, id uint) error {
	s.logger.Info("Deleting quiz", "quiz_id", id)

	if _, err := s.repo.Quiz().GetByID(ctx, id); err != nil {
		if postgres.IsNotFoundError(err) {
			return ErrQuizNotFound
		}
		return fmt.Errorf("failed to load quiz: %w", err)
	}

	count, _, _, err := s.repo.Attempt().Aggregate(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check quiz attempts: %w", err)
	}
	if count > 0 {
		return ErrQuizNotDeletable
	}

	if err := s.repo.Quiz().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete quiz: %w", err)
	}
	s.invalidateCache(ctx, id)
	return nil
}

func (s *quizService) GetByID(ctx context.Context, id uint) (*models.Quiz, error) {
	if s.cache != nil {
		var cached models.Quiz
		err := s.cache.Get(ctx, quizCacheKey(id), &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn("Quiz cache read failed", "quiz_id", id, "error", err)
		}
	}

	quiz, err := s.repo.Quiz().GetByID(ctx, id)
	if err != nil {
		if postgres.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, quizCacheKey(id), quiz, quizCacheTTL); err != nil {
			s.logger.Warn("Quiz cache write failed", "quiz_id", id, "error", err)
		}
	}
	return quiz, nil
}

func (s *quizService) List(ctx context.Context, filters repositories.QuizFilters) ([]*models.Quiz, int64, error) {
	quizzes, total, err := s.repo.Quiz().List(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list quizzes: %w", err)
	}
	return quizzes, total, nil
}

// ===== ACTIVATION AND STATS =====

// SetActive toggles quiz visibility. Activation requires at least one question
// so a session can never start against an empty quiz.
func (s *quizService) SetActive(ctx context.Context, id uint, active bool) error {
	quiz, err := s.repo.Quiz().GetByID(ctx, id)
	if err != nil {
		if postgres.IsNotFoundError(err) {
			return ErrQuizNotFound
		}
		return fmt.Errorf("failed to load quiz: %w", err)
	}

	if active && len(quiz.Questions) == 0 {
		return ErrQuizNoQuestions
	}

	wasActive := quiz.IsActive
	quiz.IsActive = active
	if err := s.repo.Quiz().Update(ctx, quiz); err != nil {
		return fmt.Errorf("failed to update quiz: %w", err)
	}
	s.invalidateCache(ctx, id)

	if active && !wasActive {
		event := events.NewQuizPublishedEvent(events.QuizPublishedEvent{
			QuizID:     quiz.ID,
			QuizTitle:  quiz.Title,
			Category:   quiz.Category,
			Difficulty: string(quiz.Difficulty),
			CreatorID:  quiz.CreatedBy,
		})
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Warn("Failed to publish quiz published event", "quiz_id", quiz.ID, "error", err)
		}
	}
	return nil
}

func (s *quizService) GetStats(ctx context.Context, id uint) (*repositories.QuizStats, error) {
	stats, err := s.repo.Quiz().GetStats(ctx, id)
	if err != nil {
		if postgres.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to get quiz stats: %w", err)
	}
	return stats, nil
}

// RecomputeStats folds all persisted attempts back into the quiz row. Called
// after each recorded attempt; derived values only, safe to replay.
func (s *quizService) RecomputeStats(ctx context.Context, id uint) error {
	count, avg, _, err := s.repo.Attempt().Aggregate(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to aggregate attempts: %w", err)
	}
	if err := s.repo.Quiz().UpdateStats(ctx, id, count, avg); err != nil {
		return fmt.Errorf("failed to update quiz stats: %w", err)
	}
	s.invalidateCache(ctx, id)
	return nil
}
