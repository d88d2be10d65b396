package models

import "strings"

type AnswerKind string

const (
	AnswerKindOption AnswerKind = "option"
	AnswerKindText   AnswerKind = "text"
)

// Answer is the value a quiz-taker selected for one question: either an option
// index (multiple-choice, true-false) or raw text (fill-blank). The kind tag keeps
// comparison strict - an option index 0 never equals the text "0".
type Answer struct {
	Kind   AnswerKind `json:"kind"`
	Option int        `json:"option,omitempty"`
	Text   string     `json:"text,omitempty"`
}

func OptionAnswer(index int) Answer {
	return Answer{Kind: AnswerKindOption, Option: index}
}

func TextAnswer(text string) Answer {
	return Answer{Kind: AnswerKindText, Text: text}
}

// Matches reports whether the answer is correct for the given question.
// Dispatch is per question type so adding a type only adds a case here.
func (a Answer) Matches(q *Question) bool {
	switch q.Type {
	case MultipleChoice, TrueFalse:
		return a.Kind == AnswerKindOption && q.CorrectIndex != nil && a.Option == *q.CorrectIndex
	case FillBlank:
		if a.Kind != AnswerKindText || q.CorrectText == nil {
			return false
		}
		return strings.EqualFold(strings.TrimSpace(a.Text), strings.TrimSpace(*q.CorrectText))
	default:
		return false
	}
}

// AnswerMap maps question id to the submitted answer. Unanswered questions are absent.
type AnswerMap map[uint]Answer
