package badges

import "github.com/quizcraft/quiz-service/internal/models"

// Badge slugs with machine-checkable criteria. A definition whose slug is not
// listed here never qualifies automatically.
const (
	SlugFirstQuiz       = "first-quiz"
	SlugPerfectionist   = "perfectionist"
	SlugQuizMaster      = "quiz-master"
	SlugKnowledgeSeeker = "knowledge-seeker"
	SlugSpeedDemon      = "speed-demon"
)

// Stats summarizes a user's attempt history for criteria checks.
type Stats struct {
	TotalAttempts int
	PerfectScores int
	FastFinish    bool // any attempt finished in under half its time limit
}

// StatsFrom folds an attempt history into the aggregate the criteria need.
func StatsFrom(attempts []*models.QuizAttempt) Stats {
	var stats Stats
	stats.TotalAttempts = len(attempts)
	for _, attempt := range attempts {
		if attempt.Score == 100 {
			stats.PerfectScores++
		}
		if attempt.TimeLimit > 0 && attempt.TimeSpent*2 < attempt.TimeLimit {
			stats.FastFinish = true
		}
	}
	return stats
}

// CriteriaFunc decides whether a user's history qualifies for one badge.
type CriteriaFunc func(Stats) bool

var criteria = map[string]CriteriaFunc{
	SlugFirstQuiz:       func(s Stats) bool { return s.TotalAttempts >= 1 },
	SlugPerfectionist:   func(s Stats) bool { return s.PerfectScores >= 1 },
	SlugQuizMaster:      func(s Stats) bool { return s.PerfectScores >= 5 },
	SlugKnowledgeSeeker: func(s Stats) bool { return s.TotalAttempts >= 10 },
	SlugSpeedDemon:      func(s Stats) bool { return s.FastFinish },
}

// Evaluate returns the badges from definitions that the user newly qualifies
// for: already-earned ids are skipped, so re-evaluation after a duplicate
// invocation awards nothing twice.
func Evaluate(definitions []*models.Badge, earned map[uint]bool, attempts []*models.QuizAttempt) []*models.Badge {
	stats := StatsFrom(attempts)

	var qualified []*models.Badge
	for _, badge := range definitions {
		if earned[badge.ID] {
			continue
		}
		check, ok := criteria[badge.Slug]
		if !ok || !check(stats) {
			continue
		}
		qualified = append(qualified, badge)
	}
	return qualified
}
