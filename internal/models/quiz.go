package models

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

type QuestionType string

const (
	MultipleChoice QuestionType = "multiple-choice"
	TrueFalse      QuestionType = "true-false"
	FillBlank      QuestionType = "fill-blank"
)

type Quiz struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	Title        string     `json:"title" gorm:"not null;size:200;index" validate:"required,min=1,max=200"`
	Description  string     `json:"description" gorm:"type:text" validate:"max=1000"`
	Category     string     `json:"category" gorm:"size:100;index" validate:"required,max=100"`
	Difficulty   Difficulty `json:"difficulty" gorm:"not null;size:20" validate:"required,oneof=beginner intermediate advanced"`
	TimeLimit    int        `json:"time_limit" gorm:"not null" validate:"required,min=1"` // seconds
	PassingScore int        `json:"passing_score" gorm:"not null" validate:"min=0,max=100"`
	Points       int        `json:"points" gorm:"not null;default:0" validate:"min=0"`
	IsActive     bool       `json:"is_active" gorm:"default:true;index"`

	// Metadata
	CreatedBy uint           `json:"created_by" gorm:"index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Aggregates recomputed from attempts, never written by a session directly
	Attempts     int     `json:"attempts" gorm:"default:0"`
	AverageScore float64 `json:"average_score" gorm:"default:0"`

	// Relations
	Questions []Question `json:"questions" gorm:"foreignKey:QuizID"`
}

// Question is a tagged variant: choice types carry Options plus CorrectIndex,
// fill-blank carries CorrectText. Order within a quiz is display and scoring order.
type Question struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	QuizID       uint           `json:"quiz_id" gorm:"not null;index"`
	Prompt       string         `json:"prompt" gorm:"type:text;not null" validate:"required"`
	Type         QuestionType   `json:"type" gorm:"not null;size:20" validate:"required,question_type"`
	Options      datatypes.JSON `json:"options" gorm:"type:jsonb"` // []string, choice types only
	CorrectIndex *int           `json:"correct_index,omitempty"`
	CorrectText  *string        `json:"correct_text,omitempty"`
	Explanation  string         `json:"explanation" gorm:"type:text"`
	// Points is a non-negative display weight, capped at 100; zero is allowed.
	Points     int `json:"points" gorm:"default:1" validate:"min=0,max=100"`
	OrderIndex int `json:"order_index" gorm:"not null;default:0;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// OptionList decodes the stored options column.
func (q *Question) OptionList() ([]string, error) {
	if len(q.Options) == 0 {
		return nil, nil
	}
	var opts []string
	if err := json.Unmarshal(q.Options, &opts); err != nil {
		return nil, fmt.Errorf("failed to decode question options: %w", err)
	}
	return opts, nil
}

// SetOptionList encodes options into the stored column.
func (q *Question) SetOptionList(opts []string) error {
	raw, err := json.Marshal(opts)
	if err != nil {
		return fmt.Errorf("failed to encode question options: %w", err)
	}
	q.Options = raw
	return nil
}

func (Question) TableName() string {
	return "questions"
}
