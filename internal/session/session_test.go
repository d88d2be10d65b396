package session

import (
	"sync"
	"testing"
	"time"

	"github.com/quizcraft/quiz-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(i int) *int { return &i }

func testQuiz() *models.Quiz {
	quiz := &models.Quiz{
		ID:           1,
		Title:        "Go Basics",
		TimeLimit:    600,
		PassingScore: 70,
		Points:       100,
		IsActive:     true,
	}
	for i := 1; i <= 5; i++ {
		quiz.Questions = append(quiz.Questions, models.Question{
			ID:           uint(i),
			QuizID:       1,
			Type:         models.MultipleChoice,
			CorrectIndex: intPtr(0),
			OrderIndex:   i - 1,
		})
	}
	return quiz
}

func TestSessionLifecycleSubmit(t *testing.T) {
	sess := New("s1", testQuiz(), 42)
	require.Equal(t, StateNotStarted, sess.State())

	require.NoError(t, sess.Start())
	require.Equal(t, StateInProgress, sess.State())
	defer sess.Close()

	// Answer 4 of 5 correctly, 1 wrong.
	for i := uint(1); i <= 4; i++ {
		require.NoError(t, sess.SetAnswer(i, models.OptionAnswer(0)))
	}
	require.NoError(t, sess.SetAnswer(5, models.OptionAnswer(2)))

	result, err := sess.Submit()
	require.NoError(t, err)
	assert.Equal(t, StateSubmitted, sess.State())
	assert.Equal(t, 80, result.Score)
	assert.True(t, result.Passed)
	assert.Equal(t, models.EndReasonSubmitted, sess.EndReason())
}

func TestSessionStartTwiceRejected(t *testing.T) {
	sess := New("s1", testQuiz(), 42)
	require.NoError(t, sess.Start())
	defer sess.Close()

	err := sess.Start()
	assert.True(t, IsStateError(err))
}

func TestSessionSubmitIncompleteRejected(t *testing.T) {
	sess := New("s1", testQuiz(), 42)
	require.NoError(t, sess.Start())
	defer sess.Close()

	require.NoError(t, sess.SetAnswer(1, models.OptionAnswer(0)))

	result, err := sess.Submit()
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrIncompleteAnswers)

	// State unchanged, answers preserved.
	assert.Equal(t, StateInProgress, sess.State())
	assert.Equal(t, 1, sess.AnsweredCount())
}

func TestSessionAnswerOverwrite(t *testing.T) {
	sess := New("s1", testQuiz(), 42)
	require.NoError(t, sess.Start())
	defer sess.Close()

	require.NoError(t, sess.SetAnswer(1, models.OptionAnswer(2)))
	require.NoError(t, sess.SetAnswer(1, models.OptionAnswer(0)))

	answer, ok := sess.Answer(1)
	require.True(t, ok)
	assert.Equal(t, models.OptionAnswer(0), answer)
	assert.Equal(t, 1, sess.AnsweredCount())
}

func TestSessionAnswerBeforeStartRejected(t *testing.T) {
	sess := New("s1", testQuiz(), 42)
	err := sess.SetAnswer(1, models.OptionAnswer(0))
	assert.True(t, IsStateError(err))
}

func TestSessionAnswerAfterSubmitRejected(t *testing.T) {
	sess := New("s1", testQuiz(), 42)
	require.NoError(t, sess.Start())
	for i := uint(1); i <= 5; i++ {
		require.NoError(t, sess.SetAnswer(i, models.OptionAnswer(0)))
	}
	_, err := sess.Submit()
	require.NoError(t, err)

	err = sess.SetAnswer(1, models.OptionAnswer(1))
	assert.True(t, IsStateError(err))
}

func TestSessionUnknownQuestionRejected(t *testing.T) {
	sess := New("s1", testQuiz(), 42)
	require.NoError(t, sess.Start())
	defer sess.Close()

	err := sess.SetAnswer(99, models.OptionAnswer(0))
	assert.ErrorIs(t, err, ErrUnknownQuestion)
}

func TestSessionExpiryScoresPartialAnswers(t *testing.T) {
	quiz := testQuiz()
	quiz.TimeLimit = 3

	var mu sync.Mutex
	var expiredSession *Session
	done := make(chan struct{})

	sess := New("s1", quiz, 42,
		WithTickInterval(time.Millisecond),
		WithExpiryHandler(func(s *Session) {
			mu.Lock()
			expiredSession = s
			mu.Unlock()
			close(done)
		}),
	)
	require.NoError(t, sess.Start())

	// Two of five answered, both correct, before the clock runs out.
	require.NoError(t, sess.SetAnswer(1, models.OptionAnswer(0)))
	require.NoError(t, sess.SetAnswer(2, models.OptionAnswer(0)))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expiry handler never fired")
	}

	assert.Equal(t, StateExpired, sess.State())
	assert.Equal(t, models.EndReasonTimeout, sess.EndReason())

	result, ok := sess.Result()
	require.True(t, ok)
	assert.Equal(t, 40, result.Score) // round(100*2/5)
	assert.False(t, result.Passed)

	mu.Lock()
	assert.Same(t, sess, expiredSession)
	mu.Unlock()
}

func TestSessionExpiryWithZeroAnswers(t *testing.T) {
	quiz := testQuiz()
	quiz.TimeLimit = 2

	done := make(chan struct{})
	sess := New("s1", quiz, 42,
		WithTickInterval(time.Millisecond),
		WithExpiryHandler(func(*Session) { close(done) }),
	)
	require.NoError(t, sess.Start())

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expiry handler never fired")
	}

	result, ok := sess.Result()
	require.True(t, ok)
	assert.Equal(t, StateExpired, sess.State())
	assert.Equal(t, 0, result.Score)
}

func TestSessionSubmitAfterExpiryRejected(t *testing.T) {
	quiz := testQuiz()
	quiz.TimeLimit = 1

	done := make(chan struct{})
	sess := New("s1", quiz, 42,
		WithTickInterval(time.Millisecond),
		WithExpiryHandler(func(*Session) { close(done) }),
	)
	require.NoError(t, sess.Start())
	<-done

	_, err := sess.Submit()
	assert.True(t, IsStateError(err))
}

func TestSessionCloseSuppressesExpiry(t *testing.T) {
	quiz := testQuiz()
	quiz.TimeLimit = 2

	fired := make(chan struct{}, 1)
	sess := New("s1", quiz, 42,
		WithTickInterval(time.Millisecond),
		WithExpiryHandler(func(*Session) { fired <- struct{}{} }),
	)
	require.NoError(t, sess.Start())
	sess.Close()

	select {
	case <-fired:
		t.Fatal("expiry fired after Close")
	case <-time.After(50 * time.Millisecond):
	}
	assert.Equal(t, StateInProgress, sess.State())
}

func TestSessionReview(t *testing.T) {
	sess := New("s1", testQuiz(), 42)
	require.NoError(t, sess.Start())
	for i := uint(1); i <= 4; i++ {
		require.NoError(t, sess.SetAnswer(i, models.OptionAnswer(0)))
	}
	require.NoError(t, sess.SetAnswer(5, models.OptionAnswer(1)))
	_, err := sess.Submit()
	require.NoError(t, err)

	review, err := sess.Review()
	require.NoError(t, err)
	assert.Equal(t, StateReviewed, sess.State())
	assert.Len(t, review.Questions, 5)
	assert.False(t, review.CanRetake) // 80 >= 70

	// Chosen vs correct exposed per question, in quiz order.
	last := review.Questions[4]
	assert.Equal(t, uint(5), last.QuestionID)
	require.NotNil(t, last.Chosen)
	assert.Equal(t, models.OptionAnswer(1), *last.Chosen)
	assert.False(t, last.Correct)
}

func TestSessionReviewBeforeFinishRejected(t *testing.T) {
	sess := New("s1", testQuiz(), 42)
	require.NoError(t, sess.Start())
	defer sess.Close()

	_, err := sess.Review()
	assert.True(t, IsStateError(err))
}

func TestSessionRetakeOnlyBelowPassingScore(t *testing.T) {
	sess := New("s1", testQuiz(), 42)
	require.NoError(t, sess.Start())
	for i := uint(1); i <= 5; i++ {
		require.NoError(t, sess.SetAnswer(i, models.OptionAnswer(1)))
	}
	_, err := sess.Submit()
	require.NoError(t, err)

	assert.True(t, sess.CanRetake())

	review, err := sess.Review()
	require.NoError(t, err)
	assert.True(t, review.CanRetake)
}

func TestSessionRecordingClaim(t *testing.T) {
	sess := New("s1", testQuiz(), 42)
	assert.False(t, sess.Recorded())

	// Only one recorder may hold the slot at a time.
	require.True(t, sess.TryBeginRecording())
	assert.False(t, sess.TryBeginRecording())

	// A failed recording releases the slot for a retry.
	sess.EndRecording(false)
	assert.False(t, sess.Recorded())
	require.True(t, sess.TryBeginRecording())

	// A successful recording closes the slot for good.
	sess.EndRecording(true)
	assert.True(t, sess.Recorded())
	assert.False(t, sess.TryBeginRecording())
}

func TestSessionTimeSpentCappedAtLimit(t *testing.T) {
	quiz := testQuiz()
	now := time.Unix(1000, 0)
	sess := New("s1", quiz, 42, WithClock(func() time.Time { return now }))
	require.NoError(t, sess.Start())

	now = now.Add(20 * time.Minute) // past the 10 minute limit
	for i := uint(1); i <= 5; i++ {
		require.NoError(t, sess.SetAnswer(i, models.OptionAnswer(0)))
	}
	_, err := sess.Submit()
	require.NoError(t, err)

	assert.Equal(t, quiz.TimeLimit, sess.TimeSpent())
}

func TestRegistryRemoveStopsTimer(t *testing.T) {
	registry := NewRegistry()
	quiz := testQuiz()
	quiz.TimeLimit = 2

	fired := make(chan struct{}, 1)
	sess := New("s1", quiz, 42,
		WithTickInterval(time.Millisecond),
		WithExpiryHandler(func(*Session) { fired <- struct{}{} }),
	)
	registry.Put(sess)
	require.NoError(t, sess.Start())

	got, ok := registry.Get("s1")
	require.True(t, ok)
	assert.Same(t, sess, got)

	registry.Remove("s1")
	assert.Equal(t, 0, registry.Len())

	select {
	case <-fired:
		t.Fatal("timer kept running after registry removal")
	case <-time.After(50 * time.Millisecond):
	}
}
