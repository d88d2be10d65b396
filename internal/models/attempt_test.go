package models

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"
)

func TestQuizAttemptAnswerMapRoundTrip(t *testing.T) {
	attempt := &QuizAttempt{}
	require.NoError(t, attempt.SetAnswerMap(AnswerMap{
		1: OptionAnswer(2),
		3: TextAnswer("mars"),
	}))

	decoded, err := attempt.AnswerMap()
	require.NoError(t, err)
	assert.Equal(t, OptionAnswer(2), decoded[1])
	assert.Equal(t, TextAnswer("mars"), decoded[3])
}

// The attempt table carries FK constraints to quizzes and profiles, so the
// database itself rejects rows referencing unknown ids.
func TestQuizAttemptDeclaresForeignKeys(t *testing.T) {
	s, err := schema.Parse(&QuizAttempt{}, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)

	quizRel, ok := s.Relationships.Relations["Quiz"]
	require.True(t, ok, "attempt must reference its quiz")
	assert.Equal(t, schema.BelongsTo, quizRel.Type)
	require.Len(t, quizRel.References, 1)
	assert.Equal(t, "QuizID", quizRel.References[0].ForeignKey.Name)

	userRel, ok := s.Relationships.Relations["User"]
	require.True(t, ok, "attempt must reference its user profile")
	assert.Equal(t, schema.BelongsTo, userRel.Type)
	require.Len(t, userRel.References, 1)
	assert.Equal(t, "UserID", userRel.References[0].ForeignKey.Name)
}
