package quiz

import (
	"fmt"
	"strings"
)

// Answer is a learner's tentative answer. Concrete types mirror the question
// types: an option index, a boolean, one string per blank, or left→right
// matches.
type Answer interface {
	// Empty reports whether the answer counts as "no answer yet" for
	// submission purposes.
	Empty() bool
}

// ChoiceAnswer is a selected option index (MCQ).
type ChoiceAnswer int

func (ChoiceAnswer) Empty() bool { return false }

// BoolAnswer is a true/false selection.
type BoolAnswer bool

func (BoolAnswer) Empty() bool { return false }

// TextAnswers holds one submitted string per blank (FILL_IN_THE_BLANK).
type TextAnswers []string

func (a TextAnswers) Empty() bool { return len(a) == 0 }

// MatchAnswer maps a left item to the learner's chosen right item (MATCHING).
// The no-answer state is an empty map, not nil-vs-present.
type MatchAnswer map[string]string

func (a MatchAnswer) Empty() bool { return len(a) == 0 }

// RawAnswer carries an answer that arrived over the wire without being bound
// to a question type. It round-trips as-is; checking it against a question
// is a shape mismatch.
type RawAnswer []byte

func (a RawAnswer) Empty() bool { return len(a) == 0 }

func (a RawAnswer) MarshalJSON() ([]byte, error) {
	if len(a) == 0 {
		return []byte("null"), nil
	}
	return a, nil
}

// CheckAnswer evaluates a tentative answer against a question's payload.
// Rules per type:
//
//   - MCQ / TRUE_FALSE: strict equality with the stored correct answer.
//   - FILL_IN_THE_BLANK: every position must match, case-insensitively and
//     whitespace-trimmed.
//   - MATCHING: every submitted left→right mapping must exist in the stored
//     pairs. Pairs the learner left unmatched are not penalized; only the
//     consistency of what was submitted is checked.
//
// A mismatch between answer shape and question type is an error, not a
// wrong answer.
func CheckAnswer(q *Question, a Answer) (bool, error) {
	if a == nil {
		return false, fmt.Errorf("no answer submitted")
	}
	switch data := q.Data.(type) {
	case MCQData:
		choice, ok := a.(ChoiceAnswer)
		if !ok {
			return false, fmt.Errorf("MCQ expects an option index, got %T", a)
		}
		return int(choice) == data.CorrectAnswer, nil

	case TrueFalseData:
		b, ok := a.(BoolAnswer)
		if !ok {
			return false, fmt.Errorf("TRUE_FALSE expects a boolean, got %T", a)
		}
		return bool(b) == data.CorrectAnswer, nil

	case FillBlankData:
		texts, ok := a.(TextAnswers)
		if !ok {
			return false, fmt.Errorf("FILL_IN_THE_BLANK expects text answers, got %T", a)
		}
		if len(texts) != len(data.Answers) {
			return false, nil
		}
		for i, expected := range data.Answers {
			if !foldEqual(texts[i], expected) {
				return false, nil
			}
		}
		return true, nil

	case MatchingData:
		matches, ok := a.(MatchAnswer)
		if !ok {
			return false, fmt.Errorf("MATCHING expects left/right matches, got %T", a)
		}
		for left, right := range matches {
			if !containsPair(data.Pairs, left, right) {
				return false, nil
			}
		}
		return true, nil

	default:
		return false, fmt.Errorf("unknown question data %T", q.Data)
	}
}

func foldEqual(submitted, expected string) bool {
	return strings.EqualFold(strings.TrimSpace(submitted), strings.TrimSpace(expected))
}

func containsPair(pairs []Pair, left, right string) bool {
	for _, p := range pairs {
		if p.Left == left && p.Right == right {
			return true
		}
	}
	return false
}
