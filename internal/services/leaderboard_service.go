package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/quizcraft/quiz-service/internal/cache"
	"github.com/quizcraft/quiz-service/internal/models"
	"github.com/quizcraft/quiz-service/internal/repositories"
	"github.com/quizcraft/quiz-service/internal/repositories/postgres"
)

const leaderboardSize = 100

// LeaderboardRow is one ranked entry with the profile fields the board shows.
type LeaderboardRow struct {
	Rank             int    `json:"rank"`
	UserID           uint   `json:"user_id"`
	Name             string `json:"name"`
	Avatar           string `json:"avatar,omitempty"`
	Points           int    `json:"points"`
	Level            int    `json:"level"`
	BadgeCount       int64  `json:"badge_count"`
	QuizzesCompleted int    `json:"quizzes_completed"`
}

// LeaderboardService serves the points ranking. Reads go to the redis sorted
// set first and fall back to the database, which is the source of truth.
type LeaderboardService interface {
	GetLeaderboard(ctx context.Context, limit int) ([]LeaderboardRow, error)
	GetUserRank(ctx context.Context, userID uint) (int64, error)

	// Rebuild repopulates the sorted set from the database, for startup or
	// after a cache flush.
	Rebuild(ctx context.Context) error
}

type leaderboardService struct {
	repo        repositories.Repository
	leaderboard *cache.Leaderboard
	logger      *slog.Logger
}

func NewLeaderboardService(
	repo repositories.Repository,
	leaderboard *cache.Leaderboard,
	logger *slog.Logger,
) LeaderboardService {
	return &leaderboardService{
		repo:        repo,
		leaderboard: leaderboard,
		logger:      logger,
	}
}

func (s *leaderboardService) GetLeaderboard(ctx context.Context, limit int) ([]LeaderboardRow, error) {
	if limit <= 0 || limit > leaderboardSize {
		limit = leaderboardSize
	}

	if s.leaderboard != nil {
		entries, err := s.leaderboard.Top(ctx, limit)
		if err != nil {
			s.logger.Warn("Leaderboard cache read failed, falling back to database", "error", err)
		} else if len(entries) > 0 {
			return s.hydrate(ctx, entries)
		}
	}

	return s.fromDatabase(ctx, limit)
}

func (s *leaderboardService) GetUserRank(ctx context.Context, userID uint) (int64, error) {
	if s.leaderboard != nil {
		rank, err := s.leaderboard.Rank(ctx, userID)
		if err == nil && rank > 0 {
			return rank, nil
		}
		if err != nil {
			s.logger.Warn("Leaderboard rank read failed, falling back to database", "error", err)
		}
	}

	// Database fallback: rank among the top slice; beyond that, unranked.
	profiles, err := s.repo.Profile().TopByPoints(ctx, leaderboardSize)
	if err != nil {
		return 0, fmt.Errorf("failed to read profiles: %w", err)
	}
	for i, profile := range profiles {
		if profile.ID == userID {
			return int64(i + 1), nil
		}
	}
	return 0, nil
}

func (s *leaderboardService) Rebuild(ctx context.Context) error {
	if s.leaderboard == nil {
		return nil
	}

	profiles, err := s.repo.Profile().TopByPoints(ctx, leaderboardSize)
	if err != nil {
		return fmt.Errorf("failed to read profiles: %w", err)
	}
	for _, profile := range profiles {
		if err := s.leaderboard.SetScore(ctx, profile.ID, profile.Points); err != nil {
			return fmt.Errorf("failed to write leaderboard entry: %w", err)
		}
	}
	s.logger.Info("Leaderboard rebuilt", "entries", len(profiles))
	return nil
}

// hydrate turns cached (user, points) pairs into full rows.
func (s *leaderboardService) hydrate(ctx context.Context, entries []cache.LeaderboardEntry) ([]LeaderboardRow, error) {
	rows := make([]LeaderboardRow, 0, len(entries))
	for i, entry := range entries {
		profile, err := s.repo.Profile().GetByID(ctx, entry.UserID)
		if err != nil {
			if postgres.IsNotFoundError(err) {
				// Stale cache entry for a deleted profile; skip it.
				continue
			}
			return nil, fmt.Errorf("failed to load profile: %w", err)
		}
		row, err := s.buildRow(ctx, i+1, profile, entry.Points)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *leaderboardService) fromDatabase(ctx context.Context, limit int) ([]LeaderboardRow, error) {
	profiles, err := s.repo.Profile().TopByPoints(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read profiles: %w", err)
	}

	rows := make([]LeaderboardRow, 0, len(profiles))
	for i, profile := range profiles {
		row, err := s.buildRow(ctx, i+1, profile, profile.Points)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *leaderboardService) buildRow(ctx context.Context, rank int, profile *models.Profile, points int) (LeaderboardRow, error) {
	badgeCount, err := s.repo.Badge().CountEarned(ctx, profile.ID)
	if err != nil {
		return LeaderboardRow{}, fmt.Errorf("failed to count badges: %w", err)
	}
	completed, err := profile.CompletedQuizIDs()
	if err != nil {
		return LeaderboardRow{}, err
	}
	return LeaderboardRow{
		Rank:             rank,
		UserID:           profile.ID,
		Name:             profile.Name,
		Avatar:           profile.Avatar,
		Points:           points,
		Level:            profile.Level,
		BadgeCount:       badgeCount,
		QuizzesCompleted: len(completed),
	}, nil
}
