package models

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

type AttemptEndReason string

const (
	EndReasonSubmitted AttemptEndReason = "submitted"
	EndReasonTimeout   AttemptEndReason = "timeout"
)

// QuizAttempt is one finished run through a quiz. Rows are immutable once
// created; a retake creates a new row.
type QuizAttempt struct {
	ID     uint `json:"id" gorm:"primaryKey"`
	QuizID uint `json:"quiz_id" gorm:"not null;index"`
	UserID uint `json:"user_id" gorm:"not null;index"`

	Score        int              `json:"score" gorm:"not null" validate:"min=0,max=100"`
	Passed       bool             `json:"passed" gorm:"not null"`
	PointsEarned int              `json:"points_earned" gorm:"not null;default:0"`
	Answers      datatypes.JSON   `json:"answers" gorm:"type:jsonb"` // AnswerMap
	TimeSpent    int              `json:"time_spent" gorm:"not null"` // seconds
	TimeLimit    int              `json:"time_limit" gorm:"not null"` // snapshot of the quiz limit
	EndReason    AttemptEndReason `json:"end_reason" gorm:"not null;size:20"`
	CompletedAt  time.Time        `json:"completed_at" gorm:"not null;index"`

	// Relations: the migration derives FK constraints from these, so the table
	// itself rejects attempts referencing unknown quiz or user ids.
	Quiz Quiz    `json:"-" gorm:"foreignKey:QuizID"`
	User Profile `json:"-" gorm:"foreignKey:UserID"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}

// AnswerMap decodes the stored answers column.
func (a *QuizAttempt) AnswerMap() (AnswerMap, error) {
	if len(a.Answers) == 0 {
		return AnswerMap{}, nil
	}
	var m AnswerMap
	if err := json.Unmarshal(a.Answers, &m); err != nil {
		return nil, fmt.Errorf("failed to decode attempt answers: %w", err)
	}
	return m, nil
}

// SetAnswerMap encodes answers into the stored column.
func (a *QuizAttempt) SetAnswerMap(m AnswerMap) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to encode attempt answers: %w", err)
	}
	a.Answers = raw
	return nil
}
