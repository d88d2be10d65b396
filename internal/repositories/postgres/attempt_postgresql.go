package postgres

import (
	"context"

	"github.com/quizcraft/quiz-service/internal/models"
	"github.com/quizcraft/quiz-service/internal/repositories"
	"gorm.io/gorm"
)

type AttemptPostgreSQL struct {
	db *gorm.DB
}

func NewAttemptPostgreSQL(db *gorm.DB) *AttemptPostgreSQL {
	return &AttemptPostgreSQL{db: db}
}

func (a *AttemptPostgreSQL) Create(ctx context.Context, attempt *models.QuizAttempt) error {
	return a.db.WithContext(ctx).Create(attempt).Error
}

func (a *AttemptPostgreSQL) GetByID(ctx context.Context, id uint) (*models.QuizAttempt, error) {
	var attempt models.QuizAttempt
	if err := a.db.WithContext(ctx).First(&attempt, id).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (a *AttemptPostgreSQL) GetByUser(ctx context.Context, userID uint, filters repositories.AttemptFilters) ([]*models.QuizAttempt, int64, error) {
	query := a.db.WithContext(ctx).Model(&models.QuizAttempt{}).Where("user_id = ?", userID)
	return a.list(query, filters)
}

func (a *AttemptPostgreSQL) GetByQuiz(ctx context.Context, quizID uint, filters repositories.AttemptFilters) ([]*models.QuizAttempt, int64, error) {
	query := a.db.WithContext(ctx).Model(&models.QuizAttempt{}).Where("quiz_id = ?", quizID)
	return a.list(query, filters)
}

func (a *AttemptPostgreSQL) GetHistory(ctx context.Context, userID uint) ([]*models.QuizAttempt, error) {
	var attempts []*models.QuizAttempt
	if err := a.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("completed_at ASC").
		Find(&attempts).Error; err != nil {
		return nil, err
	}
	return attempts, nil
}

func (a *AttemptPostgreSQL) Aggregate(ctx context.Context, quizID uint) (int, float64, float64, error) {
	var row struct {
		Count    int64
		AvgScore float64
		Passed   int64
	}
	err := a.db.WithContext(ctx).Model(&models.QuizAttempt{}).
		Select("COUNT(*) AS count, COALESCE(AVG(score), 0) AS avg_score, COUNT(*) FILTER (WHERE passed) AS passed").
		Where("quiz_id = ?", quizID).
		Scan(&row).Error
	if err != nil {
		return 0, 0, 0, err
	}

	passRate := 0.0
	if row.Count > 0 {
		passRate = float64(row.Passed) / float64(row.Count) * 100
	}
	return int(row.Count), row.AvgScore, passRate, nil
}

func (a *AttemptPostgreSQL) list(query *gorm.DB, filters repositories.AttemptFilters) ([]*models.QuizAttempt, int64, error) {
	if filters.QuizID != nil {
		query = query.Where("quiz_id = ?", *filters.QuizID)
	}
	if filters.UserID != nil {
		query = query.Where("user_id = ?", *filters.UserID)
	}
	if filters.DateFrom != nil {
		query = query.Where("completed_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("completed_at <= ?", *filters.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("completed_at DESC")
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	var attempts []*models.QuizAttempt
	if err := query.Find(&attempts).Error; err != nil {
		return nil, 0, err
	}
	return attempts, total, nil
}
