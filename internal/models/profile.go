package models

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleAdmin   UserRole = "admin"
)

// Profile is the per-user gamification aggregate. Level is always derived from
// Points; it is stored only as a read-model convenience and recomputed on every
// point change.
type Profile struct {
	ID     uint     `json:"id" gorm:"primaryKey"`
	Name   string   `json:"name" gorm:"size:100;not null" validate:"required,max=100"`
	Email  string   `json:"email" gorm:"size:100;uniqueIndex;not null" validate:"required,email"`
	Role   UserRole `json:"role" gorm:"size:20;default:student" validate:"omitempty,oneof=student admin"`
	Avatar string   `json:"avatar" gorm:"size:255"`

	Points           int            `json:"points" gorm:"not null;default:0;index"`
	Level            int            `json:"level" gorm:"not null;default:1"`
	CompletedQuizzes datatypes.JSON `json:"completed_quizzes" gorm:"type:jsonb"` // []uint, set semantics

	JoinedAt  time.Time `json:"joined_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}

// CompletedQuizIDs decodes the completed-quiz set.
func (p *Profile) CompletedQuizIDs() ([]uint, error) {
	if len(p.CompletedQuizzes) == 0 {
		return nil, nil
	}
	var ids []uint
	if err := json.Unmarshal(p.CompletedQuizzes, &ids); err != nil {
		return nil, fmt.Errorf("failed to decode completed quizzes: %w", err)
	}
	return ids, nil
}

// SetCompletedQuizIDs encodes the completed-quiz set.
func (p *Profile) SetCompletedQuizIDs(ids []uint) error {
	raw, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("failed to encode completed quizzes: %w", err)
	}
	p.CompletedQuizzes = raw
	return nil
}

// HasCompleted reports set membership without ordering guarantees.
func (p *Profile) HasCompleted(quizID uint) bool {
	ids, err := p.CompletedQuizIDs()
	if err != nil {
		return false
	}
	for _, id := range ids {
		if id == quizID {
			return true
		}
	}
	return false
}
