package quiz

import (
	"encoding/json"
	"fmt"
	"strings"
)

const blankToken = "___"

// ValidateData checks an untyped payload against the declared question type
// and returns the typed form, or a descriptive error naming the failed
// constraint. Nothing is ever coerced into a "valid" but wrong record.
func ValidateData(t QuestionType, raw json.RawMessage) (Data, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%s: data is required", t)
	}
	switch t {
	case TypeMCQ:
		return validateMCQ(raw)
	case TypeTrueFalse:
		return validateTrueFalse(raw)
	case TypeFillInTheBlank:
		return validateFillBlank(raw)
	case TypeMatching:
		return validateMatching(raw)
	default:
		return nil, fmt.Errorf("unknown question type %q", t)
	}
}

func validateMCQ(raw json.RawMessage) (Data, error) {
	var d MCQData
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("MCQ: malformed data: %w", err)
	}
	if strings.TrimSpace(d.Question.Text) == "" {
		return nil, fmt.Errorf("MCQ: question is required")
	}
	if len(d.Options) == 0 {
		return nil, fmt.Errorf("MCQ: at least one option is required")
	}
	if d.CorrectAnswer < 0 || d.CorrectAnswer >= len(d.Options) {
		return nil, fmt.Errorf("MCQ: correctAnswer %d out of range [0,%d)", d.CorrectAnswer, len(d.Options))
	}
	return d, nil
}

func validateTrueFalse(raw json.RawMessage) (Data, error) {
	// Strict decode so a string or number correctAnswer fails instead of
	// coercing.
	var wire struct {
		Question      string `json:"question"`
		CorrectAnswer *bool  `json:"correctAnswer"`
		Explanation   string `json:"explanation"`
	}
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("TRUE_FALSE: malformed data: %w", err)
	}
	if strings.TrimSpace(wire.Question) == "" {
		return nil, fmt.Errorf("TRUE_FALSE: question is required")
	}
	if wire.CorrectAnswer == nil {
		return nil, fmt.Errorf("TRUE_FALSE: correctAnswer must be a boolean")
	}
	return TrueFalseData{
		Question:      wire.Question,
		CorrectAnswer: *wire.CorrectAnswer,
		Explanation:   wire.Explanation,
	}, nil
}

func validateFillBlank(raw json.RawMessage) (Data, error) {
	var d FillBlankData
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("FILL_IN_THE_BLANK: malformed data: %w", err)
	}
	blanks := strings.Count(d.Text, blankToken)
	if blanks == 0 {
		return nil, fmt.Errorf("FILL_IN_THE_BLANK: text must contain at least one %q placeholder", blankToken)
	}
	if len(d.Answers) != blanks {
		return nil, fmt.Errorf("FILL_IN_THE_BLANK: %d answers for %d blanks", len(d.Answers), blanks)
	}
	if d.WordOptions == nil {
		d.WordOptions = []string{}
	}
	if d.Hints == nil {
		d.Hints = []string{}
	}
	return d, nil
}

func validateMatching(raw json.RawMessage) (Data, error) {
	var d MatchingData
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("MATCHING: malformed data: %w", err)
	}
	if len(d.Pairs) == 0 {
		return nil, fmt.Errorf("MATCHING: at least one pair is required")
	}
	for i, p := range d.Pairs {
		if strings.TrimSpace(p.Left) == "" || strings.TrimSpace(p.Right) == "" {
			return nil, fmt.Errorf("MATCHING: pair %d is missing left or right", i)
		}
	}
	return d, nil
}

// NewQuestionInput is one item of a create request, single or bulk.
type NewQuestionInput struct {
	Type  string          `json:"type"`
	Data  json.RawMessage `json:"data"`
	Level string          `json:"level,omitempty"`
	Tags  []string        `json:"tags,omitempty"`
}

// ValidateBatch validates every item of a bulk create. A failure on any item
// aborts the whole batch; duplicate rows are left for the persistence layer
// to skip.
func ValidateBatch(inputs []NewQuestionInput) ([]*Question, error) {
	questions := make([]*Question, 0, len(inputs))
	for i, in := range inputs {
		q, err := validateInput(in)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		questions = append(questions, q)
	}
	return questions, nil
}

func validateInput(in NewQuestionInput) (*Question, error) {
	t, err := ParseType(in.Type)
	if err != nil {
		return nil, err
	}
	level, err := ParseLevel(in.Level)
	if err != nil {
		return nil, err
	}
	return NewQuestion(t, in.Data, level, in.Tags)
}

// ValidateOne validates a single create request.
func ValidateOne(in NewQuestionInput) (*Question, error) {
	return validateInput(in)
}
