package badges

import (
	"testing"

	"github.com/quizcraft/quiz-service/internal/models"
	"github.com/stretchr/testify/assert"
)

func definitions() []*models.Badge {
	return []*models.Badge{
		{ID: 1, Slug: SlugFirstQuiz, Rarity: models.RarityCommon},
		{ID: 2, Slug: SlugPerfectionist, Rarity: models.RarityRare},
		{ID: 3, Slug: SlugQuizMaster, Rarity: models.RarityEpic},
		{ID: 4, Slug: SlugKnowledgeSeeker, Rarity: models.RarityEpic},
		{ID: 5, Slug: SlugSpeedDemon, Rarity: models.RarityLegendary},
	}
}

func attempt(score, timeSpent, timeLimit int) *models.QuizAttempt {
	return &models.QuizAttempt{Score: score, TimeSpent: timeSpent, TimeLimit: timeLimit}
}

func slugs(badges []*models.Badge) []string {
	out := make([]string, 0, len(badges))
	for _, b := range badges {
		out = append(out, b.Slug)
	}
	return out
}

func TestEvaluateFirstAttempt(t *testing.T) {
	earned := map[uint]bool{}
	got := Evaluate(definitions(), earned, []*models.QuizAttempt{
		attempt(60, 500, 600),
	})
	assert.Equal(t, []string{SlugFirstQuiz}, slugs(got))
}

func TestEvaluatePerfectScore(t *testing.T) {
	got := Evaluate(definitions(), map[uint]bool{1: true}, []*models.QuizAttempt{
		attempt(100, 500, 600),
	})
	assert.Equal(t, []string{SlugPerfectionist}, slugs(got))
}

func TestEvaluateQuizMasterNeedsFivePerfects(t *testing.T) {
	history := []*models.QuizAttempt{}
	for i := 0; i < 4; i++ {
		history = append(history, attempt(100, 500, 600))
	}
	earned := map[uint]bool{1: true, 2: true}

	got := Evaluate(definitions(), earned, history)
	assert.Empty(t, got)

	history = append(history, attempt(100, 500, 600))
	got = Evaluate(definitions(), earned, history)
	assert.Equal(t, []string{SlugQuizMaster}, slugs(got))
}

func TestEvaluateKnowledgeSeekerAtTenAttempts(t *testing.T) {
	history := []*models.QuizAttempt{}
	for i := 0; i < 10; i++ {
		history = append(history, attempt(50, 500, 600))
	}
	earned := map[uint]bool{1: true}

	got := Evaluate(definitions(), earned, history)
	assert.Equal(t, []string{SlugKnowledgeSeeker}, slugs(got))
}

func TestEvaluateSpeedDemonUnderHalfTimeLimit(t *testing.T) {
	earned := map[uint]bool{1: true}

	// 300 of 600 is exactly half: not fast enough.
	got := Evaluate(definitions(), earned, []*models.QuizAttempt{attempt(80, 300, 600)})
	assert.Empty(t, got)

	got = Evaluate(definitions(), earned, []*models.QuizAttempt{attempt(80, 299, 600)})
	assert.Equal(t, []string{SlugSpeedDemon}, slugs(got))
}

func TestEvaluateSkipsEarnedBadges(t *testing.T) {
	earned := map[uint]bool{1: true, 2: true, 5: true}
	got := Evaluate(definitions(), earned, []*models.QuizAttempt{
		attempt(100, 100, 600),
	})
	assert.Empty(t, got)
}

func TestEvaluateIdempotent(t *testing.T) {
	history := []*models.QuizAttempt{attempt(100, 100, 600)}

	first := Evaluate(definitions(), map[uint]bool{}, history)
	assert.ElementsMatch(t, []string{SlugFirstQuiz, SlugPerfectionist, SlugSpeedDemon}, slugs(first))

	// After awarding, a duplicate evaluation returns nothing new.
	earned := map[uint]bool{}
	for _, b := range first {
		earned[b.ID] = true
	}
	second := Evaluate(definitions(), earned, history)
	assert.Empty(t, second)
}

func TestEvaluateUnknownSlugNeverQualifies(t *testing.T) {
	defs := []*models.Badge{{ID: 9, Slug: "handwritten-notes"}}
	got := Evaluate(defs, map[uint]bool{}, []*models.QuizAttempt{attempt(100, 10, 600)})
	assert.Empty(t, got)
}
