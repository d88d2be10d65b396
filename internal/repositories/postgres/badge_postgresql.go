package postgres

import (
	"context"
	"time"

	"github.com/quizcraft/quiz-service/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BadgePostgreSQL struct {
	db *gorm.DB
}

func NewBadgePostgreSQL(db *gorm.DB) *BadgePostgreSQL {
	return &BadgePostgreSQL{db: db}
}

func (b *BadgePostgreSQL) CreateDefinition(ctx context.Context, badge *models.Badge) error {
	return b.db.WithContext(ctx).Create(badge).Error
}

func (b *BadgePostgreSQL) ListDefinitions(ctx context.Context) ([]*models.Badge, error) {
	var badges []*models.Badge
	if err := b.db.WithContext(ctx).Order("id ASC").Find(&badges).Error; err != nil {
		return nil, err
	}
	return badges, nil
}

func (b *BadgePostgreSQL) GetBySlug(ctx context.Context, slug string) (*models.Badge, error) {
	var badge models.Badge
	if err := b.db.WithContext(ctx).Where("slug = ?", slug).First(&badge).Error; err != nil {
		return nil, err
	}
	return &badge, nil
}

func (b *BadgePostgreSQL) GetEarned(ctx context.Context, userID uint) ([]*models.EarnedBadge, error) {
	var earned []*models.EarnedBadge
	if err := b.db.WithContext(ctx).
		Preload("Badge").
		Where("user_id = ?", userID).
		Order("earned_at ASC").
		Find(&earned).Error; err != nil {
		return nil, err
	}
	return earned, nil
}

func (b *BadgePostgreSQL) CountEarned(ctx context.Context, userID uint) (int64, error) {
	var count int64
	if err := b.db.WithContext(ctx).Model(&models.EarnedBadge{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Award relies on the unique (user_id, badge_id) index: a conflicting insert
// does nothing and reports false.
func (b *BadgePostgreSQL) Award(ctx context.Context, userID, badgeID uint, earnedAt time.Time) (bool, error) {
	earned := &models.EarnedBadge{
		UserID:   userID,
		BadgeID:  badgeID,
		EarnedAt: earnedAt,
	}
	result := b.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(earned)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
