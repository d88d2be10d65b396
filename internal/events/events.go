package events

import (
	"time"

	"github.com/ThreeDotsLabs/watermill"
)

// EventType represents different types of quiz platform events
type EventType string

const (
	// Attempt events
	EventAttemptCompleted EventType = "attempt.completed"

	// Gamification events
	EventBadgeEarned EventType = "badge.earned"
	EventLevelUp     EventType = "profile.level_up"

	// Content events
	EventQuizPublished EventType = "quiz.published"
)

// Event is the base structure for all published events
type Event struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

const eventSource = "quiz-service"

// Event payloads

type AttemptCompletedEvent struct {
	AttemptID    uint      `json:"attempt_id"`
	QuizID       uint      `json:"quiz_id"`
	QuizTitle    string    `json:"quiz_title"`
	UserID       uint      `json:"user_id"`
	Score        int       `json:"score"`
	Passed       bool      `json:"passed"`
	PointsEarned int       `json:"points_earned"`
	TimeSpent    int       `json:"time_spent"` // seconds
	EndReason    string    `json:"end_reason"`
	CompletedAt  time.Time `json:"completed_at"`
}

type BadgeEarnedEvent struct {
	UserID    uint      `json:"user_id"`
	BadgeID   uint      `json:"badge_id"`
	BadgeSlug string    `json:"badge_slug"`
	BadgeName string    `json:"badge_name"`
	Rarity    string    `json:"rarity"`
	EarnedAt  time.Time `json:"earned_at"`
	AttemptID uint      `json:"attempt_id,omitempty"`
	QuizID    uint      `json:"quiz_id,omitempty"`
}

type LevelUpEvent struct {
	UserID      uint `json:"user_id"`
	OldLevel    int  `json:"old_level"`
	NewLevel    int  `json:"new_level"`
	TotalPoints int  `json:"total_points"`
}

type QuizPublishedEvent struct {
	QuizID     uint   `json:"quiz_id"`
	QuizTitle  string `json:"quiz_title"`
	Category   string `json:"category"`
	Difficulty string `json:"difficulty"`
	CreatorID  uint   `json:"creator_id"`
}

// Event factory functions

func NewAttemptCompletedEvent(data AttemptCompletedEvent) *Event {
	return newEvent(EventAttemptCompleted, data)
}

func NewBadgeEarnedEvent(data BadgeEarnedEvent) *Event {
	return newEvent(EventBadgeEarned, data)
}

func NewLevelUpEvent(data LevelUpEvent) *Event {
	return newEvent(EventLevelUp, data)
}

func NewQuizPublishedEvent(data QuizPublishedEvent) *Event {
	return newEvent(EventQuizPublished, data)
}

func newEvent(eventType EventType, data interface{}) *Event {
	return &Event{
		ID:        watermill.NewUUID(),
		Type:      eventType,
		Timestamp: time.Now(),
		Source:    eventSource,
		Version:   "1.0",
		Data:      data,
	}
}
