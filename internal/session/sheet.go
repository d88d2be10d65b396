package session

import (
	"sync"

	"github.com/quizcraft/quiz-service/internal/models"
)

// AnswerSheet holds the current attempt's answers keyed by question id,
// mutable in place as the user navigates. It only captures selections -
// correctness is the scorer's concern.
type AnswerSheet struct {
	mu      sync.RWMutex
	answers models.AnswerMap
}

func NewAnswerSheet() *AnswerSheet {
	return &AnswerSheet{answers: make(models.AnswerMap)}
}

// Set records the answer for a question, overwriting any previous selection.
func (s *AnswerSheet) Set(questionID uint, answer models.Answer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.answers[questionID] = answer
}

// Get returns the current answer for a question, absent if unanswered.
func (s *AnswerSheet) Get(questionID uint) (models.Answer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	answer, ok := s.answers[questionID]
	return answer, ok
}

// Answered returns the count of distinct answered questions.
func (s *AnswerSheet) Answered() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.answers)
}

// Snapshot returns a copy of the answers for scoring and persistence.
func (s *AnswerSheet) Snapshot() models.AnswerMap {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot := make(models.AnswerMap, len(s.answers))
	for id, answer := range s.answers {
		snapshot[id] = answer
	}
	return snapshot
}
