package postgres

import (
	"context"
	"errors"

	"github.com/quizcraft/quiz-service/internal/repositories"
	"gorm.io/gorm"
)

// Repository is the gorm-backed bundle. A transactional copy shares the same
// per-entity implementations over the transaction's *gorm.DB.
type Repository struct {
	db      *gorm.DB
	quiz    *QuizPostgreSQL
	attempt *AttemptPostgreSQL
	profile *ProfilePostgreSQL
	badge   *BadgePostgreSQL
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:      db,
		quiz:    NewQuizPostgreSQL(db),
		attempt: NewAttemptPostgreSQL(db),
		profile: NewProfilePostgreSQL(db),
		badge:   NewBadgePostgreSQL(db),
	}
}

func (r *Repository) Quiz() repositories.QuizRepository       { return r.quiz }
func (r *Repository) Attempt() repositories.AttemptRepository { return r.attempt }
func (r *Repository) Profile() repositories.ProfileRepository { return r.profile }
func (r *Repository) Badge() repositories.BadgeRepository     { return r.badge }

func (r *Repository) Begin(ctx context.Context) (repositories.TransactionRepository, error) {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return NewRepository(tx), nil
}

func (r *Repository) Commit(ctx context.Context) error {
	return r.db.Commit().Error
}

func (r *Repository) Rollback(ctx context.Context) error {
	return r.db.Rollback().Error
}

// IsNotFoundError reports whether err is gorm's missing-record error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
