package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/quizcraft/quiz-service/internal/models"
	"github.com/quizcraft/quiz-service/internal/repositories"
	"github.com/quizcraft/quiz-service/internal/repositories/postgres"
	"github.com/quizcraft/quiz-service/internal/scoring"
	"github.com/quizcraft/quiz-service/internal/validator"
)

// ProfileSummary is the profile page payload: the stored aggregates plus
// everything derived from them.
type ProfileSummary struct {
	Profile          *models.Profile       `json:"profile"`
	QuizzesCompleted int                   `json:"quizzes_completed"`
	TotalAttempts    int64                 `json:"total_attempts"`
	Badges           []*models.EarnedBadge `json:"badges"`
	Rank             int64                 `json:"rank,omitempty"`
	PointsToNext     int                   `json:"points_to_next_level"`
}

// ProfileService manages user gamification profiles.
type ProfileService interface {
	Create(ctx context.Context, profile *models.Profile) error
	Update(ctx context.Context, profile *models.Profile) error
	GetByID(ctx context.Context, id uint) (*models.Profile, error)
	GetSummary(ctx context.Context, id uint) (*ProfileSummary, error)
}

type profileService struct {
	repo        repositories.Repository
	leaderboard LeaderboardService
	logger      *slog.Logger
	validator   *validator.Validator
}

func NewProfileService(
	repo repositories.Repository,
	leaderboard LeaderboardService,
	logger *slog.Logger,
	v *validator.Validator,
) ProfileService {
	return &profileService{
		repo:        repo,
		leaderboard: leaderboard,
		logger:      logger,
		validator:   v,
	}
}

func (s *profileService) Create(ctx context.Context, profile *models.Profile) error {
	s.logger.Info("Creating profile", "email", profile.Email)

	if err := s.validator.ValidateStruct(profile); err != nil {
		return err
	}

	profile.Points = 0
	profile.Level = scoring.LevelForPoints(0)
	if err := profile.SetCompletedQuizIDs(nil); err != nil {
		return err
	}

	if err := s.repo.Profile().Create(ctx, profile); err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

func (s *profileService) Update(ctx context.Context, profile *models.Profile) error {
	existing, err := s.repo.Profile().GetByID(ctx, profile.ID)
	if err != nil {
		if postgres.IsNotFoundError(err) {
			return ErrProfileNotFound
		}
		return fmt.Errorf("failed to load profile: %w", err)
	}

	if err := s.validator.ValidateStruct(profile); err != nil {
		return err
	}

	// Gamification aggregates belong to the attempt pipeline.
	profile.Points = existing.Points
	profile.Level = existing.Level
	profile.CompletedQuizzes = existing.CompletedQuizzes

	if err := s.repo.Profile().Update(ctx, profile); err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}

func (s *profileService) GetByID(ctx context.Context, id uint) (*models.Profile, error) {
	profile, err := s.repo.Profile().GetByID(ctx, id)
	if err != nil {
		if postgres.IsNotFoundError(err) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}

func (s *profileService) GetSummary(ctx context.Context, id uint) (*ProfileSummary, error) {
	profile, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	completed, err := profile.CompletedQuizIDs()
	if err != nil {
		return nil, err
	}

	_, total, err := s.repo.Attempt().GetByUser(ctx, id, repositories.AttemptFilters{Limit: 1})
	if err != nil {
		return nil, fmt.Errorf("failed to count attempts: %w", err)
	}

	earned, err := s.repo.Badge().GetEarned(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get earned badges: %w", err)
	}

	rank, err := s.leaderboard.GetUserRank(ctx, id)
	if err != nil {
		s.logger.Warn("Failed to resolve leaderboard rank", "user_id", id, "error", err)
		rank = 0
	}

	return &ProfileSummary{
		Profile:          profile,
		QuizzesCompleted: len(completed),
		TotalAttempts:    total,
		Badges:           earned,
		Rank:             rank,
		PointsToNext:     scoring.PointsToNextLevel(profile.Points),
	}, nil
}
