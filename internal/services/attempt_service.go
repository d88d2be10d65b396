package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/quizcraft/quiz-service/internal/cache"
	"github.com/quizcraft/quiz-service/internal/events"
	"github.com/quizcraft/quiz-service/internal/models"
	"github.com/quizcraft/quiz-service/internal/repositories"
	"github.com/quizcraft/quiz-service/internal/repositories/postgres"
	"github.com/quizcraft/quiz-service/internal/scoring"
	"github.com/quizcraft/quiz-service/internal/session"
)

// StartAttemptResult is returned when a session is opened.
type StartAttemptResult struct {
	SessionID     string       `json:"session_id"`
	Quiz          *models.Quiz `json:"quiz"`
	TimeLimit     int          `json:"time_limit"`
	QuestionCount int          `json:"question_count"`
	StartedAt     time.Time    `json:"started_at"`
}

// AttemptOutcome bundles everything a finished attempt produced: the stored
// row, the score, the profile deltas, and any badges awarded along the way.
type AttemptOutcome struct {
	AttemptID uint                    `json:"attempt_id"`
	Result    *scoring.Result         `json:"result"`
	Reward    scoring.Reward          `json:"reward"`
	EndReason models.AttemptEndReason `json:"end_reason"`
	TimeSpent int                     `json:"time_spent"`
	NewBadges []*models.Badge         `json:"new_badges"`
	LeveledUp bool                    `json:"leveled_up"`
}

// AttemptService drives quiz sessions end to end: opening them, collecting
// answers, scoring on submit or expiry, and recording the outcome.
type AttemptService interface {
	StartAttempt(ctx context.Context, quizID, userID uint) (*StartAttemptResult, error)
	SubmitAnswer(ctx context.Context, sessionID string, userID, questionID uint, answer models.Answer) error
	Submit(ctx context.Context, sessionID string, userID uint) (*AttemptOutcome, error)
	Review(ctx context.Context, sessionID string, userID uint) (*session.Review, error)
	TimeRemaining(ctx context.Context, sessionID string, userID uint) (int, error)
	AbandonSession(ctx context.Context, sessionID string, userID uint) error

	GetUserAttempts(ctx context.Context, userID uint, filters repositories.AttemptFilters) ([]*models.QuizAttempt, int64, error)
	GetQuizAttempts(ctx context.Context, quizID uint, filters repositories.AttemptFilters) ([]*models.QuizAttempt, int64, error)
}

type attemptService struct {
	repo        repositories.TransactionRepository
	registry    *session.Registry
	badges      BadgeService
	leaderboard *cache.Leaderboard
	publisher   events.EventPublisher
	logger      *slog.Logger
}

func NewAttemptService(
	repo repositories.TransactionRepository,
	registry *session.Registry,
	badgeService BadgeService,
	leaderboard *cache.Leaderboard,
	publisher events.EventPublisher,
	logger *slog.Logger,
) AttemptService {
	return &attemptService{
		repo:        repo,
		registry:    registry,
		badges:      badgeService,
		leaderboard: leaderboard,
		publisher:   publisher,
		logger:      logger,
	}
}

// ===== SESSION LIFECYCLE =====

func (s *attemptService) StartAttempt(ctx context.Context, quizID, userID uint) (*StartAttemptResult, error) {
	quiz, err := s.repo.Quiz().GetByID(ctx, quizID)
	if err != nil {
		if postgres.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to load quiz: %w", err)
	}
	if !quiz.IsActive {
		return nil, ErrQuizInactive
	}
	if len(quiz.Questions) == 0 {
		return nil, ErrQuizNoQuestions
	}

	if _, err := s.repo.Profile().GetByID(ctx, userID); err != nil {
		if postgres.IsNotFoundError(err) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	// A passed quiz cannot be retaken; failed or timed-out runs can.
	quizFilter := quizID
	history, _, err := s.repo.Attempt().GetByUser(ctx, userID, repositories.AttemptFilters{QuizID: &quizFilter})
	if err != nil {
		return nil, fmt.Errorf("failed to load attempt history: %w", err)
	}
	for _, attempt := range history {
		if attempt.Passed {
			return nil, ErrRetakeNotAllowed
		}
	}

	sess := session.New(watermill.NewUUID(), quiz, userID,
		session.WithExpiryHandler(s.handleExpiry))
	if err := sess.Start(); err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}
	s.registry.Put(sess)

	s.logger.Info("Attempt started",
		"session_id", sess.ID(), "quiz_id", quizID, "user_id", userID)

	return &StartAttemptResult{
		SessionID:     sess.ID(),
		Quiz:          quiz,
		TimeLimit:     quiz.TimeLimit,
		QuestionCount: len(quiz.Questions),
		StartedAt:     time.Now(),
	}, nil
}

func (s *attemptService) SubmitAnswer(ctx context.Context, sessionID string, userID, questionID uint, answer models.Answer) error {
	sess, err := s.ownedSession(sessionID, userID)
	if err != nil {
		return err
	}
	return sess.SetAnswer(questionID, answer)
}

func (s *attemptService) Submit(ctx context.Context, sessionID string, userID uint) (*AttemptOutcome, error) {
	sess, err := s.ownedSession(sessionID, userID)
	if err != nil {
		return nil, err
	}

	if _, err := sess.Submit(); err != nil {
		var stateErr *session.StateError
		// A terminal session whose result never reached the database may retry
		// the recording step; anything else is a real state violation.
		if !errors.As(err, &stateErr) || sess.Recorded() {
			return nil, err
		}
		if _, ok := sess.Result(); !ok {
			return nil, err
		}
	}

	return s.finalize(ctx, sess)
}

func (s *attemptService) Review(ctx context.Context, sessionID string, userID uint) (*session.Review, error) {
	sess, err := s.ownedSession(sessionID, userID)
	if err != nil {
		return nil, err
	}
	return sess.Review()
}

func (s *attemptService) TimeRemaining(ctx context.Context, sessionID string, userID uint) (int, error) {
	sess, err := s.ownedSession(sessionID, userID)
	if err != nil {
		return 0, err
	}
	return sess.TimeRemaining(), nil
}

func (s *attemptService) AbandonSession(ctx context.Context, sessionID string, userID uint) error {
	if _, err := s.ownedSession(sessionID, userID); err != nil {
		return err
	}
	s.registry.Remove(sessionID)
	s.logger.Info("Session abandoned", "session_id", sessionID, "user_id", userID)
	return nil
}

// ===== QUERIES =====

func (s *attemptService) GetUserAttempts(ctx context.Context, userID uint, filters repositories.AttemptFilters) ([]*models.QuizAttempt, int64, error) {
	attempts, total, err := s.repo.Attempt().GetByUser(ctx, userID, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list user attempts: %w", err)
	}
	return attempts, total, nil
}

func (s *attemptService) GetQuizAttempts(ctx context.Context, quizID uint, filters repositories.AttemptFilters) ([]*models.QuizAttempt, int64, error) {
	attempts, total, err := s.repo.Attempt().GetByQuiz(ctx, quizID, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list quiz attempts: %w", err)
	}
	return attempts, total, nil
}

// ===== RECORDING PIPELINE =====

// handleExpiry runs on the timer goroutine when a session times out. The
// session has already scored itself; this just records the outcome.
func (s *attemptService) handleExpiry(sess *session.Session) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s.logger.Info("Session expired",
		"session_id", sess.ID(), "quiz_id", sess.QuizID(), "user_id", sess.UserID())

	if _, err := s.finalize(ctx, sess); err != nil {
		// The session keeps its result; a later Submit call retries recording.
		s.logger.Error("Failed to record expired attempt",
			"session_id", sess.ID(), "error", err)
	}
}

// finalize persists a terminal session's outcome: one transaction covers the
// attempt row and the profile aggregates, then stats, leaderboard, badges and
// events follow best-effort.
func (s *attemptService) finalize(ctx context.Context, sess *session.Session) (*AttemptOutcome, error) {
	result, ok := sess.Result()
	if !ok {
		return nil, &session.StateError{Op: "finalize", State: sess.State()}
	}
	// Claim the session's recording slot: expiry and submit may race here, and
	// only one of them gets to write the attempt row.
	if !sess.TryBeginRecording() {
		return nil, ErrConflict
	}
	recorded := false
	defer func() { sess.EndRecording(recorded) }()

	quiz := sess.Quiz()
	attempt := &models.QuizAttempt{
		QuizID:      quiz.ID,
		UserID:      sess.UserID(),
		Score:       result.Score,
		Passed:      result.Passed,
		TimeSpent:   sess.TimeSpent(),
		TimeLimit:   quiz.TimeLimit,
		EndReason:   sess.EndReason(),
		CompletedAt: time.Now(),
	}
	if err := attempt.SetAnswerMap(sess.Snapshot()); err != nil {
		return nil, err
	}

	txRepo, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	profile, err := txRepo.Profile().GetByID(ctx, sess.UserID())
	if err != nil {
		_ = txRepo.Rollback(ctx)
		if postgres.IsNotFoundError(err) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	completed, err := profile.CompletedQuizIDs()
	if err != nil {
		_ = txRepo.Rollback(ctx)
		return nil, err
	}
	reward := scoring.CalculateReward(result.Score, quiz.Points, profile.Points, completed, quiz.ID)
	attempt.PointsEarned = reward.PointsEarned

	if err := txRepo.Attempt().Create(ctx, attempt); err != nil {
		_ = txRepo.Rollback(ctx)
		return nil, fmt.Errorf("failed to create attempt: %w", err)
	}

	oldLevel := profile.Level
	profile.Points = reward.NewTotalPoints
	profile.Level = reward.NewLevel
	if err := profile.SetCompletedQuizIDs(reward.CompletedQuizzes); err != nil {
		_ = txRepo.Rollback(ctx)
		return nil, err
	}
	if err := txRepo.Profile().Update(ctx, profile); err != nil {
		_ = txRepo.Rollback(ctx)
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	if err := txRepo.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit attempt: %w", err)
	}
	recorded = true

	outcome := &AttemptOutcome{
		AttemptID: attempt.ID,
		Result:    result,
		Reward:    reward,
		EndReason: attempt.EndReason,
		TimeSpent: attempt.TimeSpent,
		LeveledUp: reward.NewLevel > oldLevel,
	}

	s.afterRecord(ctx, sess, attempt, outcome, oldLevel)

	s.logger.Info("Attempt recorded",
		"attempt_id", attempt.ID,
		"quiz_id", quiz.ID,
		"user_id", sess.UserID(),
		"score", result.Score,
		"passed", result.Passed,
		"points_earned", reward.PointsEarned,
		"end_reason", attempt.EndReason)

	return outcome, nil
}

// afterRecord runs the derived updates that may fail without invalidating the
// committed attempt.
func (s *attemptService) afterRecord(ctx context.Context, sess *session.Session, attempt *models.QuizAttempt, outcome *AttemptOutcome, oldLevel int) {
	quiz := sess.Quiz()

	count, avg, _, err := s.repo.Attempt().Aggregate(ctx, quiz.ID)
	if err == nil {
		err = s.repo.Quiz().UpdateStats(ctx, quiz.ID, count, avg)
	}
	if err != nil {
		s.logger.Warn("Failed to recompute quiz stats", "quiz_id", quiz.ID, "error", err)
	}

	if s.leaderboard != nil {
		if err := s.leaderboard.SetScore(ctx, sess.UserID(), outcome.Reward.NewTotalPoints); err != nil {
			s.logger.Warn("Failed to sync leaderboard", "user_id", sess.UserID(), "error", err)
		}
	}

	newBadges, err := s.badges.EvaluateAndAward(ctx, sess.UserID(), attempt.ID, quiz.ID)
	if err != nil {
		s.logger.Warn("Failed to evaluate badges", "user_id", sess.UserID(), "error", err)
	}
	outcome.NewBadges = newBadges

	event := events.NewAttemptCompletedEvent(events.AttemptCompletedEvent{
		AttemptID:    attempt.ID,
		QuizID:       quiz.ID,
		QuizTitle:    quiz.Title,
		UserID:       sess.UserID(),
		Score:        attempt.Score,
		Passed:       attempt.Passed,
		PointsEarned: attempt.PointsEarned,
		TimeSpent:    attempt.TimeSpent,
		EndReason:    string(attempt.EndReason),
		CompletedAt:  attempt.CompletedAt,
	})
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish attempt completed event", "attempt_id", attempt.ID, "error", err)
	}

	if outcome.LeveledUp {
		levelEvent := events.NewLevelUpEvent(events.LevelUpEvent{
			UserID:      sess.UserID(),
			OldLevel:    oldLevel,
			NewLevel:    outcome.Reward.NewLevel,
			TotalPoints: outcome.Reward.NewTotalPoints,
		})
		if err := s.publisher.Publish(ctx, levelEvent); err != nil {
			s.logger.Warn("Failed to publish level up event", "user_id", sess.UserID(), "error", err)
		}
	}
}

func (s *attemptService) ownedSession(sessionID string, userID uint) (*session.Session, error) {
	sess, ok := s.registry.Get(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	if sess.UserID() != userID {
		return nil, ErrSessionNotOwned
	}
	return sess, nil
}
