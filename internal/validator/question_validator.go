package validator

import (
	"fmt"
	"strings"

	"github.com/quizcraft/quiz-service/internal/models"
)

// QuestionValidator handles content rules that depend on the question type.
type QuestionValidator struct{}

// NewQuestionValidator creates a new question validator
func NewQuestionValidator() *QuestionValidator {
	return &QuestionValidator{}
}

// ValidateQuestion validates a complete question object
func (v *QuestionValidator) ValidateQuestion(question *models.Question) error {
	if strings.TrimSpace(question.Prompt) == "" {
		return fmt.Errorf("question prompt is required")
	}

	// Weight bound matches the model tag: zero-weight questions are allowed.
	if question.Points < 0 || question.Points > 100 {
		return fmt.Errorf("question points must be between 0 and 100")
	}

	switch question.Type {
	case models.MultipleChoice:
		return v.validateMultipleChoice(question)
	case models.TrueFalse:
		return v.validateTrueFalse(question)
	case models.FillBlank:
		return v.validateFillBlank(question)
	default:
		return fmt.Errorf("unsupported question type: %s", question.Type)
	}
}

// ValidateQuestionBatch validates a batch of questions
func (v *QuestionValidator) ValidateQuestionBatch(questions []models.Question) error {
	for i := range questions {
		if err := v.ValidateQuestion(&questions[i]); err != nil {
			return fmt.Errorf("validation failed for question %d: %w", i+1, err)
		}
	}
	return nil
}

// ===== PRIVATE VALIDATION METHODS =====

func (v *QuestionValidator) validateMultipleChoice(question *models.Question) error {
	options, err := question.OptionList()
	if err != nil {
		return fmt.Errorf("invalid multiple choice options: %w", err)
	}

	if len(options) < 2 {
		return fmt.Errorf("multiple choice questions must have at least 2 options")
	}
	if len(options) > 10 {
		return fmt.Errorf("multiple choice questions cannot have more than 10 options")
	}
	for i, option := range options {
		if strings.TrimSpace(option) == "" {
			return fmt.Errorf("option %d cannot be empty", i+1)
		}
	}

	if question.CorrectIndex == nil {
		return fmt.Errorf("multiple choice questions must have a correct option index")
	}
	if *question.CorrectIndex < 0 || *question.CorrectIndex >= len(options) {
		return fmt.Errorf("correct option index %d is out of range for %d options", *question.CorrectIndex, len(options))
	}

	return nil
}

func (v *QuestionValidator) validateTrueFalse(question *models.Question) error {
	options, err := question.OptionList()
	if err != nil {
		return fmt.Errorf("invalid true/false options: %w", err)
	}

	// Options are implied for true/false; when present there must be exactly two.
	if len(options) != 0 && len(options) != 2 {
		return fmt.Errorf("true/false questions must have exactly 2 options")
	}

	if question.CorrectIndex == nil {
		return fmt.Errorf("true/false questions must have a correct option index")
	}
	if *question.CorrectIndex != 0 && *question.CorrectIndex != 1 {
		return fmt.Errorf("true/false correct option index must be 0 or 1")
	}

	return nil
}

func (v *QuestionValidator) validateFillBlank(question *models.Question) error {
	if question.CorrectText == nil || strings.TrimSpace(*question.CorrectText) == "" {
		return fmt.Errorf("fill-blank questions must have a correct answer text")
	}
	return nil
}
