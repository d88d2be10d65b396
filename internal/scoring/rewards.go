package scoring

const pointsPerLevel = 500

// Reward is the profile-aggregate delta derived from one scored attempt.
type Reward struct {
	PointsEarned     int    `json:"points_earned"`
	NewTotalPoints   int    `json:"new_total_points"`
	NewLevel         int    `json:"new_level"`
	CompletedQuizzes []uint `json:"completed_quizzes"`
	NewlyCompleted   bool   `json:"newly_completed"`
}

// LevelForPoints derives the level from total points. Levels start at 1 and
// step every 500 points with no cap.
func LevelForPoints(points int) int {
	return points/pointsPerLevel + 1
}

// PointsToNextLevel returns how many points are missing until the next level
// boundary.
func PointsToNextLevel(points int) int {
	return pointsPerLevel - points%pointsPerLevel
}

// CalculateReward translates a score into profile deltas. Points scale
// continuously with the score and are not gated on passing: a failing attempt
// still earns floor(score/100 * quizPoints).
func CalculateReward(score, quizPoints, previousPoints int, completed []uint, quizID uint) Reward {
	earned := score * quizPoints / 100
	total := previousPoints + earned

	reward := Reward{
		PointsEarned:   earned,
		NewTotalPoints: total,
		NewLevel:       LevelForPoints(total),
	}

	// Idempotent set union: repeat attempts never duplicate the quiz id.
	for _, id := range completed {
		if id == quizID {
			reward.CompletedQuizzes = completed
			return reward
		}
	}
	reward.CompletedQuizzes = append(append([]uint(nil), completed...), quizID)
	reward.NewlyCompleted = true
	return reward
}
