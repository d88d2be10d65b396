package session

import (
	"errors"
	"fmt"
)

var (
	// ErrIncompleteAnswers is returned when submission is attempted before every
	// question has an answer. Recoverable; the session state is unchanged.
	ErrIncompleteAnswers = errors.New("not all questions answered")
	// ErrUnknownQuestion is returned when an answer targets a question id that
	// is not part of the session's quiz.
	ErrUnknownQuestion = errors.New("question not part of quiz")
	// ErrRetakeNotAllowed is returned when a retake is requested for a passed attempt.
	ErrRetakeNotAllowed = errors.New("retake only allowed below passing score")
)

// StateError reports an operation attempted in the wrong session state. This is
// a caller bug, not a recoverable runtime condition.
type StateError struct {
	Op    string
	State State
}

func (e *StateError) Error() string {
	return fmt.Sprintf("invalid session state: cannot %s while %s", e.Op, e.State)
}

// IsStateError reports whether err is a wrong-state rejection.
func IsStateError(err error) bool {
	var se *StateError
	return errors.As(err, &se)
}
