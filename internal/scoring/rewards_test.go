package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateRewardPoints(t *testing.T) {
	tests := []struct {
		name       string
		score      int
		quizPoints int
		want       int
	}{
		{"score 85 of 100 points", 85, 100, 85},
		{"score 33 of 150 points floors", 33, 150, 49},
		{"perfect score", 100, 200, 200},
		{"zero score", 0, 100, 0},
		{"zero point quiz", 80, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reward := CalculateReward(tt.score, tt.quizPoints, 0, nil, 1)
			assert.Equal(t, tt.want, reward.PointsEarned)
		})
	}
}

func TestLevelForPoints(t *testing.T) {
	tests := []struct {
		points int
		level  int
	}{
		{0, 1},
		{499, 1},
		{500, 2},
		{999, 2},
		{1000, 3},
		{2750, 6},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.level, LevelForPoints(tt.points), "points=%d", tt.points)
	}
}

func TestCalculateRewardTotalsAndLevel(t *testing.T) {
	reward := CalculateReward(80, 100, 450, nil, 7)

	assert.Equal(t, 80, reward.PointsEarned)
	assert.Equal(t, 530, reward.NewTotalPoints)
	assert.Equal(t, 2, reward.NewLevel)
}

func TestCalculateRewardCompletedSetUnion(t *testing.T) {
	first := CalculateReward(60, 100, 0, nil, 7)
	assert.True(t, first.NewlyCompleted)
	assert.Equal(t, []uint{7}, first.CompletedQuizzes)

	// Repeat attempt on the same quiz must not duplicate the id.
	second := CalculateReward(90, 100, first.NewTotalPoints, first.CompletedQuizzes, 7)
	assert.False(t, second.NewlyCompleted)
	assert.Equal(t, []uint{7}, second.CompletedQuizzes)

	third := CalculateReward(50, 100, second.NewTotalPoints, second.CompletedQuizzes, 9)
	assert.True(t, third.NewlyCompleted)
	assert.Equal(t, []uint{7, 9}, third.CompletedQuizzes)
}

func TestCalculateRewardMonotonicPoints(t *testing.T) {
	reward := CalculateReward(0, 100, 1200, []uint{1}, 2)
	assert.Equal(t, 1200, reward.NewTotalPoints)
	assert.Equal(t, 3, reward.NewLevel)
}

func TestPointsToNextLevel(t *testing.T) {
	assert.Equal(t, 500, PointsToNextLevel(0))
	assert.Equal(t, 1, PointsToNextLevel(499))
	assert.Equal(t, 500, PointsToNextLevel(500))
	assert.Equal(t, 350, PointsToNextLevel(650))
}
