package postgres

import (
	"context"

	"github.com/quizcraft/quiz-service/internal/models"
	"gorm.io/gorm"
)

type ProfilePostgreSQL struct {
	db *gorm.DB
}

func NewProfilePostgreSQL(db *gorm.DB) *ProfilePostgreSQL {
	return &ProfilePostgreSQL{db: db}
}

func (p *ProfilePostgreSQL) Create(ctx context.Context, profile *models.Profile) error {
	return p.db.WithContext(ctx).Create(profile).Error
}

func (p *ProfilePostgreSQL) GetByID(ctx context.Context, id uint) (*models.Profile, error) {
	var profile models.Profile
	if err := p.db.WithContext(ctx).First(&profile, id).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (p *ProfilePostgreSQL) Update(ctx context.Context, profile *models.Profile) error {
	return p.db.WithContext(ctx).Save(profile).Error
}

func (p *ProfilePostgreSQL) TopByPoints(ctx context.Context, limit int) ([]*models.Profile, error) {
	var profiles []*models.Profile
	if err := p.db.WithContext(ctx).
		Order("points DESC, id ASC").
		Limit(limit).
		Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}
