package services

import (
	"context"
	"testing"

	"github.com/quizcraft/quiz-service/internal/badges"
	"github.com/quizcraft/quiz-service/internal/events"
	"github.com/quizcraft/quiz-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type badgeFixture struct {
	repo      *MockRepository
	publisher *events.MockEventPublisher
	service   BadgeService
}

func newBadgeFixture() *badgeFixture {
	logger := testLogger()
	repo := NewMockRepository()
	publisher := events.NewMockEventPublisher(logger)
	return &badgeFixture{
		repo:      repo,
		publisher: publisher,
		service:   NewBadgeService(repo, publisher, logger),
	}
}

func badgeDefinitions() []*models.Badge {
	return []*models.Badge{
		{ID: 1, Slug: badges.SlugFirstQuiz, Name: "First Steps", Rarity: models.RarityCommon},
		{ID: 2, Slug: badges.SlugPerfectionist, Name: "Perfectionist", Rarity: models.RarityRare},
		{ID: 5, Slug: badges.SlugSpeedDemon, Name: "Speed Demon", Rarity: models.RarityLegendary},
	}
}

func TestEvaluateAndAwardNewBadges(t *testing.T) {
	f := newBadgeFixture()
	f.repo.badge.On("ListDefinitions", mock.Anything).Return(badgeDefinitions(), nil)
	f.repo.badge.On("GetEarned", mock.Anything, uint(42)).Return([]*models.EarnedBadge{}, nil)
	f.repo.attempt.On("GetHistory", mock.Anything, uint(42)).Return([]*models.QuizAttempt{
		{Score: 100, TimeSpent: 100, TimeLimit: 600},
	}, nil)
	f.repo.badge.On("Award", mock.Anything, uint(42), mock.Anything, mock.Anything).Return(true, nil)

	awarded, err := f.service.EvaluateAndAward(context.Background(), 42, 10, 7)
	require.NoError(t, err)
	require.Len(t, awarded, 3)

	published := f.publisher.GetPublishedEvents()
	require.Len(t, published, 3)
	for _, event := range published {
		assert.Equal(t, events.EventBadgeEarned, event.Type)
	}
}

func TestEvaluateAndAwardSkipsEarned(t *testing.T) {
	f := newBadgeFixture()
	f.repo.badge.On("ListDefinitions", mock.Anything).Return(badgeDefinitions(), nil)
	f.repo.badge.On("GetEarned", mock.Anything, uint(42)).Return([]*models.EarnedBadge{
		{UserID: 42, BadgeID: 1}, {UserID: 42, BadgeID: 2}, {UserID: 42, BadgeID: 5},
	}, nil)
	f.repo.attempt.On("GetHistory", mock.Anything, uint(42)).Return([]*models.QuizAttempt{
		{Score: 100, TimeSpent: 100, TimeLimit: 600},
	}, nil)

	awarded, err := f.service.EvaluateAndAward(context.Background(), 42, 11, 7)
	require.NoError(t, err)
	assert.Empty(t, awarded)
	assert.Empty(t, f.publisher.GetPublishedEvents())
	f.repo.badge.AssertNotCalled(t, "Award", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestEvaluateAndAwardLostRacePublishesNothing(t *testing.T) {
	f := newBadgeFixture()
	f.repo.badge.On("ListDefinitions", mock.Anything).Return(badgeDefinitions()[:1], nil)
	f.repo.badge.On("GetEarned", mock.Anything, uint(42)).Return([]*models.EarnedBadge{}, nil)
	f.repo.attempt.On("GetHistory", mock.Anything, uint(42)).Return([]*models.QuizAttempt{
		{Score: 50, TimeSpent: 500, TimeLimit: 600},
	}, nil)
	// Unique index already holds the row: insert is a no-op.
	f.repo.badge.On("Award", mock.Anything, uint(42), uint(1), mock.Anything).Return(false, nil)

	awarded, err := f.service.EvaluateAndAward(context.Background(), 42, 12, 7)
	require.NoError(t, err)
	assert.Empty(t, awarded)
	assert.Empty(t, f.publisher.GetPublishedEvents())
}

func TestSeedDefinitionsInsertsMissingOnly(t *testing.T) {
	f := newBadgeFixture()
	f.repo.badge.On("GetBySlug", mock.Anything, badges.SlugFirstQuiz).
		Return(&models.Badge{ID: 1, Slug: badges.SlugFirstQuiz}, nil)
	f.repo.badge.On("GetBySlug", mock.Anything, mock.Anything).Return(nil, gorm.ErrRecordNotFound)
	f.repo.badge.On("CreateDefinition", mock.Anything, mock.Anything).Return(nil)

	require.NoError(t, f.service.SeedDefinitions(context.Background()))
	f.repo.badge.AssertNumberOfCalls(t, "CreateDefinition", 4)
}
