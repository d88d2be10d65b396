package services

import (
	"context"
	"testing"

	"github.com/quizcraft/quiz-service/internal/events"
	"github.com/quizcraft/quiz-service/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type quizFixture struct {
	repo      *MockRepository
	publisher *events.MockEventPublisher
	service   QuizService
}

func newQuizFixture() *quizFixture {
	logger := testLogger()
	repo := NewMockRepository()
	publisher := events.NewMockEventPublisher(logger)
	service := NewQuizService(repo, publisher, nil, logger, validator.New())
	return &quizFixture{repo: repo, publisher: publisher, service: service}
}

func TestCreateQuizAssignsQuestionOrder(t *testing.T) {
	f := newQuizFixture()
	quiz := testQuiz(t)
	quiz.ID = 0
	f.repo.quiz.On("Create", mock.Anything, quiz).Return(nil)

	require.NoError(t, f.service.Create(context.Background(), quiz))
	for i, q := range quiz.Questions {
		assert.Equal(t, i, q.OrderIndex)
	}
}

func TestCreateQuizRejectsInvalidQuestion(t *testing.T) {
	f := newQuizFixture()
	quiz := testQuiz(t)
	quiz.Questions[0].CorrectIndex = intRef(9) // out of range for three options

	err := f.service.Create(context.Background(), quiz)
	assert.ErrorContains(t, err, "out of range")
	f.repo.quiz.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestDeleteQuizBlockedByAttempts(t *testing.T) {
	f := newQuizFixture()
	quiz := testQuiz(t)
	f.repo.quiz.On("GetByID", mock.Anything, quiz.ID).Return(quiz, nil)
	f.repo.attempt.On("Aggregate", mock.Anything, quiz.ID).Return(3, 55.0, 33.3, nil)

	err := f.service.Delete(context.Background(), quiz.ID)
	assert.ErrorIs(t, err, ErrQuizNotDeletable)
	f.repo.quiz.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDeleteQuizWithoutAttempts(t *testing.T) {
	f := newQuizFixture()
	quiz := testQuiz(t)
	f.repo.quiz.On("GetByID", mock.Anything, quiz.ID).Return(quiz, nil)
	f.repo.attempt.On("Aggregate", mock.Anything, quiz.ID).Return(0, 0.0, 0.0, nil)
	f.repo.quiz.On("Delete", mock.Anything, quiz.ID).Return(nil)

	require.NoError(t, f.service.Delete(context.Background(), quiz.ID))
}

func TestGetQuizMapsNotFound(t *testing.T) {
	f := newQuizFixture()
	f.repo.quiz.On("GetByID", mock.Anything, uint(999)).Return(nil, gorm.ErrRecordNotFound)

	_, err := f.service.GetByID(context.Background(), 999)
	assert.ErrorIs(t, err, ErrQuizNotFound)
}

func TestSetActiveRequiresQuestions(t *testing.T) {
	f := newQuizFixture()
	quiz := testQuiz(t)
	quiz.IsActive = false
	quiz.Questions = nil
	f.repo.quiz.On("GetByID", mock.Anything, quiz.ID).Return(quiz, nil)

	err := f.service.SetActive(context.Background(), quiz.ID, true)
	assert.ErrorIs(t, err, ErrQuizNoQuestions)
}

func TestSetActivePublishesOnActivation(t *testing.T) {
	f := newQuizFixture()
	quiz := testQuiz(t)
	quiz.IsActive = false
	f.repo.quiz.On("GetByID", mock.Anything, quiz.ID).Return(quiz, nil)
	f.repo.quiz.On("Update", mock.Anything, quiz).Return(nil)

	require.NoError(t, f.service.SetActive(context.Background(), quiz.ID, true))

	published := f.publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventQuizPublished, published[0].Type)
}

func TestRecomputeStats(t *testing.T) {
	f := newQuizFixture()
	f.repo.attempt.On("Aggregate", mock.Anything, uint(7)).Return(4, 72.5, 75.0, nil)
	f.repo.quiz.On("UpdateStats", mock.Anything, uint(7), 4, 72.5).Return(nil)

	require.NoError(t, f.service.RecomputeStats(context.Background(), 7))
	f.repo.quiz.AssertExpectations(t)
}
