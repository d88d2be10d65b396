package scoring

import (
	"math"

	"github.com/quizcraft/quiz-service/internal/models"
)

// Result is the deterministic outcome of scoring one answer set against a quiz.
type Result struct {
	Score        int             `json:"score"` // 0-100
	CorrectCount int             `json:"correct_count"`
	Total        int             `json:"total"`
	Passed       bool            `json:"passed"`
	Correct      map[uint]bool   `json:"correct"` // question id -> correctness, for the review screen
}

// Score grades answers against the quiz's questions. Unanswered questions count
// as incorrect. Pure and idempotent: identical inputs always yield identical
// results. A quiz with zero questions violates the quiz invariant and panics.
func Score(quiz *models.Quiz, answers models.AnswerMap) *Result {
	if len(quiz.Questions) == 0 {
		panic("scoring: quiz has no questions")
	}

	result := &Result{
		Total:   len(quiz.Questions),
		Correct: make(map[uint]bool, len(quiz.Questions)),
	}

	for i := range quiz.Questions {
		q := &quiz.Questions[i]
		answer, answered := answers[q.ID]
		correct := answered && answer.Matches(q)
		result.Correct[q.ID] = correct
		if correct {
			result.CorrectCount++
		}
	}

	// Round half up, e.g. 1/3 correct -> 33, 2/3 correct -> 67.
	result.Score = int(math.Round(float64(result.CorrectCount) / float64(result.Total) * 100))
	result.Passed = result.Score >= quiz.PassingScore
	return result
}
