package models

import "time"

type BadgeRarity string

const (
	RarityCommon    BadgeRarity = "common"
	RarityRare      BadgeRarity = "rare"
	RarityEpic      BadgeRarity = "epic"
	RarityLegendary BadgeRarity = "legendary"
)

// Badge is an achievement definition. Slug keys the machine-checkable criteria
// implemented in the badges package; Criteria is the human-readable description.
type Badge struct {
	ID          uint        `json:"id" gorm:"primaryKey"`
	Slug        string      `json:"slug" gorm:"size:50;uniqueIndex;not null" validate:"required,max=50"`
	Name        string      `json:"name" gorm:"size:100;not null" validate:"required,max=100"`
	Description string      `json:"description" gorm:"type:text"`
	Icon        string      `json:"icon" gorm:"size:255"`
	Criteria    string      `json:"criteria" gorm:"type:text"`
	Rarity      BadgeRarity `json:"rarity" gorm:"size:20;not null" validate:"required,oneof=common rare epic legendary"`

	CreatedAt time.Time `json:"created_at"`
}

// EarnedBadge records a badge award. The (user, badge) pair is unique: a badge
// can be earned at most once and the table is append-only.
type EarnedBadge struct {
	ID       uint      `json:"id" gorm:"primaryKey"`
	UserID   uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_user_badge"`
	BadgeID  uint      `json:"badge_id" gorm:"not null;uniqueIndex:idx_user_badge"`
	EarnedAt time.Time `json:"earned_at" gorm:"not null"`

	Badge Badge `json:"badge" gorm:"foreignKey:BadgeID"`
}

func (Badge) TableName() string {
	return "badges"
}

func (EarnedBadge) TableName() string {
	return "earned_badges"
}
