package quiz

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// QuestionType is the discriminant of the question tagged union.
type QuestionType string

const (
	TypeMCQ            QuestionType = "MCQ"
	TypeTrueFalse      QuestionType = "TRUE_FALSE"
	TypeFillInTheBlank QuestionType = "FILL_IN_THE_BLANK"
	TypeMatching       QuestionType = "MATCHING"
)

// ParseType resolves a type string, case-insensitively.
func ParseType(s string) (QuestionType, error) {
	switch QuestionType(strings.ToUpper(strings.TrimSpace(s))) {
	case TypeMCQ:
		return TypeMCQ, nil
	case TypeTrueFalse:
		return TypeTrueFalse, nil
	case TypeFillInTheBlank:
		return TypeFillInTheBlank, nil
	case TypeMatching:
		return TypeMatching, nil
	default:
		return "", fmt.Errorf("unknown question type %q", s)
	}
}

// Level is a CEFR proficiency level.
type Level string

const (
	LevelA1 Level = "A1"
	LevelA2 Level = "A2"
	LevelB1 Level = "B1"
	LevelB2 Level = "B2"
	LevelC1 Level = "C1"
	LevelC2 Level = "C2"
)

// ParseLevel upper-cases and validates a level string. Empty defaults to A1.
func ParseLevel(s string) (Level, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return LevelA1, nil
	}
	switch Level(s) {
	case LevelA1, LevelA2, LevelB1, LevelB2, LevelC1, LevelC2:
		return Level(s), nil
	default:
		return "", fmt.Errorf("unknown level %q", s)
	}
}

// Data is the type-specific payload of a question. Concrete types form a
// closed set mirroring QuestionType.
type Data interface {
	QuestionType() QuestionType
}

// Prompt is an MCQ question text with an optional image. The wire form
// accepts either a bare string or {text, imageUrl}.
type Prompt struct {
	Text     string `json:"text"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// UnmarshalJSON accepts both the string and the object form.
func (p *Prompt) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		p.Text = s
		p.ImageURL = ""
		return nil
	}
	type alias Prompt
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*p = Prompt(a)
	return nil
}

// MCQData is a multiple-choice payload.
type MCQData struct {
	Question      Prompt   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation,omitempty"`
}

func (MCQData) QuestionType() QuestionType { return TypeMCQ }

// TrueFalseData is a true/false payload.
type TrueFalseData struct {
	Question      string `json:"question"`
	CorrectAnswer bool   `json:"correctAnswer"`
	Explanation   string `json:"explanation,omitempty"`
}

func (TrueFalseData) QuestionType() QuestionType { return TypeTrueFalse }

// FillBlankData is a cloze payload. Text holds "___" placeholders and
// Answers one expected answer per placeholder.
type FillBlankData struct {
	Text        string   `json:"text"`
	Answers     []string `json:"answers"`
	WordOptions []string `json:"wordOptions,omitempty"`
	Hints       []string `json:"hints,omitempty"`
}

func (FillBlankData) QuestionType() QuestionType { return TypeFillInTheBlank }

// Pair is one left/right match.
type Pair struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

// MatchingData is a matching-pairs payload.
type MatchingData struct {
	Title string `json:"title,omitempty"`
	Pairs []Pair `json:"pairs"`
}

func (MatchingData) QuestionType() QuestionType { return TypeMatching }

// Question is a persisted quiz question. Data always satisfies the validator
// for Type; malformed payloads are rejected before a Question exists.
type Question struct {
	ID        string       `json:"id"`
	Type      QuestionType `json:"type"`
	Data      Data         `json:"data"`
	Level     Level        `json:"level"`
	Tags      []string     `json:"tags"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// NewQuestion validates a raw payload and wraps it in a Question.
func NewQuestion(t QuestionType, raw json.RawMessage, level Level, tags []string) (*Question, error) {
	data, err := ValidateData(t, raw)
	if err != nil {
		return nil, err
	}
	if tags == nil {
		tags = []string{}
	}
	now := time.Now().UTC()
	return &Question{
		ID:        uuid.New().String(),
		Type:      t,
		Data:      data,
		Level:     level,
		Tags:      tags,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// UnmarshalJSON decodes a question, routing the data payload through the
// per-type validator so a decoded Question carries typed Data.
func (q *Question) UnmarshalJSON(b []byte) error {
	var wire struct {
		ID        string          `json:"id"`
		Type      QuestionType    `json:"type"`
		Data      json.RawMessage `json:"data"`
		Level     Level           `json:"level"`
		Tags      []string        `json:"tags"`
		CreatedAt time.Time       `json:"created_at"`
		UpdatedAt time.Time       `json:"updated_at"`
	}
	if err := json.Unmarshal(b, &wire); err != nil {
		return err
	}
	data, err := ValidateData(wire.Type, wire.Data)
	if err != nil {
		return err
	}
	if wire.Tags == nil {
		wire.Tags = []string{}
	}
	q.ID = wire.ID
	q.Type = wire.Type
	q.Data = data
	q.Level = wire.Level
	q.Tags = wire.Tags
	q.CreatedAt = wire.CreatedAt
	q.UpdatedAt = wire.UpdatedAt
	return nil
}
