package repositories

import (
	"context"
	"time"

	"github.com/quizcraft/quiz-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type QuizFilters struct {
	Category   *string            `json:"category"`
	Difficulty *models.Difficulty `json:"difficulty"`
	ActiveOnly bool               `json:"active_only"`
	Limit      int                `json:"limit"`
	Offset     int                `json:"offset"`
	SortBy     string             `json:"sort_by"`    // "created_at", "title"
	SortOrder  string             `json:"sort_order"` // "asc", "desc"
}

type AttemptFilters struct {
	QuizID   *uint      `json:"quiz_id"`
	UserID   *uint      `json:"user_id"`
	DateFrom *time.Time `json:"date_from"`
	DateTo   *time.Time `json:"date_to"`
	Limit    int        `json:"limit"`
	Offset   int        `json:"offset"`
}

// ===== SHARED STATISTICS STRUCTS =====

type QuizStats struct {
	TotalAttempts int     `json:"total_attempts"`
	AverageScore  float64 `json:"average_score"`
	PassRate      float64 `json:"pass_rate"`
	QuestionCount int     `json:"question_count"`
}

// ===== REPOSITORY INTERFACES =====

type QuizRepository interface {
	Create(ctx context.Context, quiz *models.Quiz) error
	Update(ctx context.Context, quiz *models.Quiz) error
	Delete(ctx context.Context, id uint) error

	// GetByID preloads questions in their stable display/scoring order.
	GetByID(ctx context.Context, id uint) (*models.Quiz, error)
	List(ctx context.Context, filters QuizFilters) ([]*models.Quiz, int64, error)

	// UpdateStats rewrites the recomputed aggregates; never called with values
	// a session made up.
	UpdateStats(ctx context.Context, quizID uint, attempts int, averageScore float64) error
	GetStats(ctx context.Context, quizID uint) (*QuizStats, error)
}

type AttemptRepository interface {
	// Create persists a finished attempt. Rows are never updated afterwards.
	Create(ctx context.Context, attempt *models.QuizAttempt) error
	GetByID(ctx context.Context, id uint) (*models.QuizAttempt, error)
	GetByUser(ctx context.Context, userID uint, filters AttemptFilters) ([]*models.QuizAttempt, int64, error)
	GetByQuiz(ctx context.Context, quizID uint, filters AttemptFilters) ([]*models.QuizAttempt, int64, error)

	// GetHistory returns every attempt of a user, oldest first, for badge evaluation.
	GetHistory(ctx context.Context, userID uint) ([]*models.QuizAttempt, error)

	// Aggregate folds all attempts of a quiz into (count, average score, pass rate).
	Aggregate(ctx context.Context, quizID uint) (int, float64, float64, error)
}

type ProfileRepository interface {
	Create(ctx context.Context, profile *models.Profile) error
	GetByID(ctx context.Context, id uint) (*models.Profile, error)
	Update(ctx context.Context, profile *models.Profile) error

	// TopByPoints returns profiles ordered by points descending for the leaderboard.
	TopByPoints(ctx context.Context, limit int) ([]*models.Profile, error)
}

type BadgeRepository interface {
	CreateDefinition(ctx context.Context, badge *models.Badge) error
	ListDefinitions(ctx context.Context) ([]*models.Badge, error)
	GetBySlug(ctx context.Context, slug string) (*models.Badge, error)
	GetEarned(ctx context.Context, userID uint) ([]*models.EarnedBadge, error)
	CountEarned(ctx context.Context, userID uint) (int64, error)

	// Award inserts the (user, badge) pair. Returns false without error when the
	// badge was already earned - duplicate awards are a silent no-op.
	Award(ctx context.Context, userID, badgeID uint, earnedAt time.Time) (bool, error)
}

// Repository bundles the per-entity repositories behind one accessor, so
// services hold a single dependency.
type Repository interface {
	Quiz() QuizRepository
	Attempt() AttemptRepository
	Profile() ProfileRepository
	Badge() BadgeRepository
}

// TransactionRepository is implemented by repositories that can open a
// transactional view. Begin returns a Repository whose writes all land in one
// transaction; the caller must Commit or Rollback it.
type TransactionRepository interface {
	Repository
	Begin(ctx context.Context) (TransactionRepository, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}
