package session

import (
	"sync"
	"time"

	"github.com/quizcraft/quiz-service/internal/models"
	"github.com/quizcraft/quiz-service/internal/scoring"
)

type State string

const (
	StateNotStarted State = "not_started"
	StateInProgress State = "in_progress"
	StateSubmitted  State = "submitted"
	StateExpired    State = "expired"
	StateReviewed   State = "reviewed"
)

// terminal reports whether the state has a computed result.
func (s State) terminal() bool {
	return s == StateSubmitted || s == StateExpired || s == StateReviewed
}

// Session is the state machine for one user's run through one quiz:
//
//	NotStarted -> InProgress -> {Submitted | Expired} -> Reviewed
//
// There is no way back into InProgress; a retake is a brand-new Session with a
// fresh sheet and timer. The session holds no I/O: persistence and reward
// application happen outside, against the snapshot this machine produces.
type Session struct {
	mu sync.Mutex

	id     string
	quiz   *models.Quiz
	userID uint

	state      State
	sheet      *AnswerSheet
	timer      *Timer
	startedAt  time.Time
	finishedAt time.Time
	result     *scoring.Result
	endReason  models.AttemptEndReason
	recorded   bool
	recording  bool

	clock     func() time.Time
	tick      time.Duration
	onExpired func(*Session)
}

// Option configures a Session.
type Option func(*Session)

// WithClock injects a deterministic clock for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.clock = now }
}

// WithTickInterval shortens the timer tick for tests.
func WithTickInterval(d time.Duration) Option {
	return func(s *Session) { s.tick = d }
}

// WithExpiryHandler registers a callback invoked (from the timer goroutine)
// after the session transitions to Expired.
func WithExpiryHandler(fn func(*Session)) Option {
	return func(s *Session) { s.onExpired = fn }
}

func New(id string, quiz *models.Quiz, userID uint, opts ...Option) *Session {
	s := &Session{
		id:     id,
		quiz:   quiz,
		userID: userID,
		state:  StateNotStarted,
		sheet:  NewAnswerSheet(),
		clock:  time.Now,
		tick:   time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) ID() string { return s.id }

func (s *Session) QuizID() uint { return s.quiz.ID }

func (s *Session) UserID() uint { return s.userID }

func (s *Session) Quiz() *models.Quiz { return s.quiz }

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start moves the session into InProgress and begins the countdown with the
// quiz's time limit.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateNotStarted {
		return &StateError{Op: "start", State: s.state}
	}

	s.startedAt = s.clock()
	s.timer = newTimer(s.quiz.TimeLimit, s.tick, s.expire)
	s.timer.Start()
	s.state = StateInProgress
	return nil
}

// SetAnswer records or overwrites the answer for a question. Only valid while
// InProgress; answering after a terminal transition is a caller bug.
func (s *Session) SetAnswer(questionID uint, answer models.Answer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateInProgress {
		return &StateError{Op: "answer", State: s.state}
	}
	if !s.hasQuestion(questionID) {
		return ErrUnknownQuestion
	}
	s.sheet.Set(questionID, answer)
	return nil
}

// Answer returns the current selection for a question.
func (s *Session) Answer(questionID uint) (models.Answer, bool) {
	return s.sheet.Get(questionID)
}

// AnsweredCount returns how many questions currently have an answer.
func (s *Session) AnsweredCount() int {
	return s.sheet.Answered()
}

// TimeRemaining returns the countdown's remaining seconds, zero outside InProgress.
func (s *Session) TimeRemaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateInProgress || s.timer == nil {
		return 0
	}
	return s.timer.Remaining()
}

// Submit performs the InProgress -> Submitted transition. Every question must
// be answered; an incomplete sheet is rejected without touching session state.
func (s *Session) Submit() (*scoring.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateInProgress {
		return nil, &StateError{Op: "submit", State: s.state}
	}
	if s.sheet.Answered() < len(s.quiz.Questions) {
		return nil, ErrIncompleteAnswers
	}

	s.timer.Stop()
	s.finishLocked(models.EndReasonSubmitted)
	return s.result, nil
}

// expire is the timer's expiry callback: InProgress -> Expired, scoring
// whatever subset of questions was answered.
func (s *Session) expire() {
	s.mu.Lock()
	if s.state != StateInProgress {
		s.mu.Unlock()
		return
	}
	s.finishLocked(models.EndReasonTimeout)
	onExpired := s.onExpired
	s.mu.Unlock()

	if onExpired != nil {
		onExpired(s)
	}
}

func (s *Session) finishLocked(reason models.AttemptEndReason) {
	s.finishedAt = s.clock()
	s.result = scoring.Score(s.quiz, s.sheet.Snapshot())
	s.endReason = reason
	if reason == models.EndReasonTimeout {
		s.state = StateExpired
	} else {
		s.state = StateSubmitted
	}
}

// Result returns the computed score once the session reached a terminal state.
func (s *Session) Result() (*scoring.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.terminal() {
		return nil, false
	}
	return s.result, true
}

func (s *Session) EndReason() models.AttemptEndReason {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.endReason
}

// TimeSpent returns the attempt duration in seconds, capped at the time limit.
func (s *Session) TimeSpent() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finishedAt.IsZero() {
		return 0
	}
	spent := int(s.finishedAt.Sub(s.startedAt).Seconds())
	if spent > s.quiz.TimeLimit {
		spent = s.quiz.TimeLimit
	}
	if spent < 0 {
		spent = 0
	}
	return spent
}

// QuestionReview pairs a question with the chosen vs correct answer for the
// review screen.
type QuestionReview struct {
	QuestionID   uint           `json:"question_id"`
	Prompt       string         `json:"prompt"`
	Options      []string       `json:"options,omitempty"`
	Chosen       *models.Answer `json:"chosen,omitempty"`
	CorrectIndex *int           `json:"correct_index,omitempty"`
	CorrectText  *string        `json:"correct_text,omitempty"`
	Correct      bool           `json:"correct"`
	Explanation  string         `json:"explanation"`
}

// Review holds everything the result screen shows.
type Review struct {
	Result    *scoring.Result  `json:"result"`
	Questions []QuestionReview `json:"questions"`
	CanRetake bool             `json:"can_retake"`
}

// Review moves a terminal-scoring session into Reviewed and builds the
// per-question breakdown. Calling it again while Reviewed is allowed; the
// breakdown is recomputed from the same immutable snapshot.
func (s *Session) Review() (*Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.terminal() {
		return nil, &StateError{Op: "review", State: s.state}
	}
	s.state = StateReviewed

	review := &Review{
		Result:    s.result,
		Questions: make([]QuestionReview, 0, len(s.quiz.Questions)),
		CanRetake: s.result.Score < s.quiz.PassingScore,
	}
	for i := range s.quiz.Questions {
		q := &s.quiz.Questions[i]
		qr := QuestionReview{
			QuestionID:   q.ID,
			Prompt:       q.Prompt,
			CorrectIndex: q.CorrectIndex,
			CorrectText:  q.CorrectText,
			Correct:      s.result.Correct[q.ID],
			Explanation:  q.Explanation,
		}
		if opts, err := q.OptionList(); err == nil {
			qr.Options = opts
		}
		if chosen, ok := s.sheet.Get(q.ID); ok {
			qr.Chosen = &chosen
		}
		review.Questions = append(review.Questions, qr)
	}
	return review, nil
}

// CanRetake reports whether a fresh session may be spawned for the same quiz:
// only after a terminal state, and only below the passing score.
func (s *Session) CanRetake() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.terminal() && s.result != nil && s.result.Score < s.quiz.PassingScore
}

// TryBeginRecording claims the session's single recording slot. Timer expiry
// and a user submit can race to persist the same result; the claim guarantees
// at most one recorder is in flight and none runs after a successful commit.
func (s *Session) TryBeginRecording() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.recorded || s.recording {
		return false
	}
	s.recording = true
	return true
}

// EndRecording releases the recording slot. Success marks the attempt durably
// persisted; failure leaves the session retryable with its answers and result
// intact.
func (s *Session) EndRecording(success bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recording = false
	if success {
		s.recorded = true
	}
}

func (s *Session) Recorded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recorded
}

// Close stops the timer without a terminal transition, suppressing a pending
// expiry. Used when the user abandons the session.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
	}
}

// Snapshot returns a copy of the current answers.
func (s *Session) Snapshot() models.AnswerMap {
	return s.sheet.Snapshot()
}

func (s *Session) hasQuestion(questionID uint) bool {
	for i := range s.quiz.Questions {
		if s.quiz.Questions[i].ID == questionID {
			return true
		}
	}
	return false
}
