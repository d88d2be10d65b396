package services

import (
	"context"
	"time"

	"github.com/quizcraft/quiz-service/internal/models"
	"github.com/quizcraft/quiz-service/internal/repositories"
	"github.com/stretchr/testify/mock"
)

// MockQuizRepository is a mock implementation of QuizRepository
type MockQuizRepository struct {
	mock.Mock
}

func (m *MockQuizRepository) Create(ctx context.Context, quiz *models.Quiz) error {
	args := m.Called(ctx, quiz)
	return args.Error(0)
}

func (m *MockQuizRepository) Update(ctx context.Context, quiz *models.Quiz) error {
	args := m.Called(ctx, quiz)
	return args.Error(0)
}

func (m *MockQuizRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockQuizRepository) GetByID(ctx context.Context, id uint) (*models.Quiz, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Quiz), args.Error(1)
}

func (m *MockQuizRepository) List(ctx context.Context, filters repositories.QuizFilters) ([]*models.Quiz, int64, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).([]*models.Quiz), args.Get(1).(int64), args.Error(2)
}

func (m *MockQuizRepository) UpdateStats(ctx context.Context, quizID uint, attempts int, averageScore float64) error {
	args := m.Called(ctx, quizID, attempts, averageScore)
	return args.Error(0)
}

func (m *MockQuizRepository) GetStats(ctx context.Context, quizID uint) (*repositories.QuizStats, error) {
	args := m.Called(ctx, quizID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repositories.QuizStats), args.Error(1)
}

// MockAttemptRepository is a mock implementation of AttemptRepository
type MockAttemptRepository struct {
	mock.Mock
}

func (m *MockAttemptRepository) Create(ctx context.Context, attempt *models.QuizAttempt) error {
	args := m.Called(ctx, attempt)
	return args.Error(0)
}

func (m *MockAttemptRepository) GetByID(ctx context.Context, id uint) (*models.QuizAttempt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.QuizAttempt), args.Error(1)
}

func (m *MockAttemptRepository) GetByUser(ctx context.Context, userID uint, filters repositories.AttemptFilters) ([]*models.QuizAttempt, int64, error) {
	args := m.Called(ctx, userID, filters)
	return args.Get(0).([]*models.QuizAttempt), args.Get(1).(int64), args.Error(2)
}

func (m *MockAttemptRepository) GetByQuiz(ctx context.Context, quizID uint, filters repositories.AttemptFilters) ([]*models.QuizAttempt, int64, error) {
	args := m.Called(ctx, quizID, filters)
	return args.Get(0).([]*models.QuizAttempt), args.Get(1).(int64), args.Error(2)
}

func (m *MockAttemptRepository) GetHistory(ctx context.Context, userID uint) ([]*models.QuizAttempt, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]*models.QuizAttempt), args.Error(1)
}

func (m *MockAttemptRepository) Aggregate(ctx context.Context, quizID uint) (int, float64, float64, error) {
	args := m.Called(ctx, quizID)
	return args.Int(0), args.Get(1).(float64), args.Get(2).(float64), args.Error(3)
}

// MockProfileRepository is a mock implementation of ProfileRepository
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) Create(ctx context.Context, profile *models.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileRepository) GetByID(ctx context.Context, id uint) (*models.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileRepository) Update(ctx context.Context, profile *models.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileRepository) TopByPoints(ctx context.Context, limit int) ([]*models.Profile, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]*models.Profile), args.Error(1)
}

// MockBadgeRepository is a mock implementation of BadgeRepository
type MockBadgeRepository struct {
	mock.Mock
}

func (m *MockBadgeRepository) CreateDefinition(ctx context.Context, badge *models.Badge) error {
	args := m.Called(ctx, badge)
	return args.Error(0)
}

func (m *MockBadgeRepository) ListDefinitions(ctx context.Context) ([]*models.Badge, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.Badge), args.Error(1)
}

func (m *MockBadgeRepository) GetBySlug(ctx context.Context, slug string) (*models.Badge, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Badge), args.Error(1)
}

func (m *MockBadgeRepository) GetEarned(ctx context.Context, userID uint) ([]*models.EarnedBadge, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]*models.EarnedBadge), args.Error(1)
}

func (m *MockBadgeRepository) CountEarned(ctx context.Context, userID uint) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBadgeRepository) Award(ctx context.Context, userID, badgeID uint, earnedAt time.Time) (bool, error) {
	args := m.Called(ctx, userID, badgeID, earnedAt)
	return args.Bool(0), args.Error(1)
}

// MockRepository bundles the mocks behind the Repository interface. Begin
// returns the same bundle, so transactional expectations are set on the same
// mocks as non-transactional ones.
type MockRepository struct {
	mock.Mock
	quiz    *MockQuizRepository
	attempt *MockAttemptRepository
	profile *MockProfileRepository
	badge   *MockBadgeRepository
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		quiz:    new(MockQuizRepository),
		attempt: new(MockAttemptRepository),
		profile: new(MockProfileRepository),
		badge:   new(MockBadgeRepository),
	}
}

func (m *MockRepository) Quiz() repositories.QuizRepository       { return m.quiz }
func (m *MockRepository) Attempt() repositories.AttemptRepository { return m.attempt }
func (m *MockRepository) Profile() repositories.ProfileRepository { return m.profile }
func (m *MockRepository) Badge() repositories.BadgeRepository     { return m.badge }

func (m *MockRepository) Begin(ctx context.Context) (repositories.TransactionRepository, error) {
	args := m.Called(ctx)
	return m, args.Error(0)
}

func (m *MockRepository) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockRepository) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
