package quiz

import "testing"

func mcqQuestion(t *testing.T) *Question {
	t.Helper()
	return &Question{
		Type: TypeMCQ,
		Data: MCQData{
			Question:      Prompt{Text: "Was ist rot?"},
			Options:       []string{"die Tomate", "der Himmel"},
			CorrectAnswer: 0,
		},
	}
}

func TestCheckAnswer_MCQ(t *testing.T) {
	q := mcqQuestion(t)

	correct, err := CheckAnswer(q, ChoiceAnswer(0))
	if err != nil || !correct {
		t.Errorf("correct index: got %v, %v", correct, err)
	}

	correct, err = CheckAnswer(q, ChoiceAnswer(1))
	if err != nil || correct {
		t.Errorf("wrong index: got %v, %v", correct, err)
	}
}

func TestCheckAnswer_TrueFalse(t *testing.T) {
	q := &Question{Type: TypeTrueFalse, Data: TrueFalseData{Question: "q", CorrectAnswer: false}}

	correct, err := CheckAnswer(q, BoolAnswer(false))
	if err != nil || !correct {
		t.Errorf("got %v, %v", correct, err)
	}

	correct, err = CheckAnswer(q, BoolAnswer(true))
	if err != nil || correct {
		t.Errorf("got %v, %v", correct, err)
	}
}

func TestCheckAnswer_FillBlank(t *testing.T) {
	q := &Question{
		Type: TypeFillInTheBlank,
		Data: FillBlankData{
			Text:    "Ich ___ nach Hause und ___ dort",
			Answers: []string{"gehe", "bleibe"},
		},
	}

	tests := []struct {
		name    string
		answer  TextAnswers
		correct bool
	}{
		{"exact", TextAnswers{"gehe", "bleibe"}, true},
		{"case insensitive", TextAnswers{"GEHE", "Bleibe"}, true},
		{"whitespace trimmed", TextAnswers{" gehe ", "bleibe\t"}, true},
		{"one wrong", TextAnswers{"gehe", "laufe"}, false},
		{"too few", TextAnswers{"gehe"}, false},
		{"too many", TextAnswers{"gehe", "bleibe", "extra"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			correct, err := CheckAnswer(q, tt.answer)
			if err != nil {
				t.Fatalf("CheckAnswer: %v", err)
			}
			if correct != tt.correct {
				t.Errorf("correct = %v, want %v", correct, tt.correct)
			}
		})
	}
}

func TestCheckAnswer_Matching(t *testing.T) {
	q := &Question{
		Type: TypeMatching,
		Data: MatchingData{Pairs: []Pair{
			{Left: "der Hund", Right: "dog"},
			{Left: "die Katze", Right: "cat"},
			{Left: "das Pferd", Right: "horse"},
		}},
	}

	// all submitted pairs correct
	correct, err := CheckAnswer(q, MatchAnswer{"der Hund": "dog", "die Katze": "cat", "das Pferd": "horse"})
	if err != nil || !correct {
		t.Errorf("full match: got %v, %v", correct, err)
	}

	// unmatched pairs are not penalized
	correct, err = CheckAnswer(q, MatchAnswer{"der Hund": "dog"})
	if err != nil || !correct {
		t.Errorf("partial submission: got %v, %v", correct, err)
	}

	// one wrong mapping fails the whole answer
	correct, err = CheckAnswer(q, MatchAnswer{"der Hund": "cat", "die Katze": "cat"})
	if err != nil || correct {
		t.Errorf("wrong mapping: got %v, %v", correct, err)
	}
}

func TestCheckAnswer_ShapeMismatch(t *testing.T) {
	q := mcqQuestion(t)

	if _, err := CheckAnswer(q, BoolAnswer(true)); err == nil {
		t.Error("expected shape mismatch error")
	}
	if _, err := CheckAnswer(q, nil); err == nil {
		t.Error("expected error for nil answer")
	}
	if _, err := CheckAnswer(q, RawAnswer(`0`)); err == nil {
		t.Error("raw answers cannot be checked")
	}
}

func TestAnswer_Empty(t *testing.T) {
	tests := []struct {
		name  string
		a     Answer
		empty bool
	}{
		{"choice zero", ChoiceAnswer(0), false},
		{"bool false", BoolAnswer(false), false},
		{"no texts", TextAnswers{}, true},
		{"some texts", TextAnswers{""}, false},
		{"empty matches", MatchAnswer{}, true},
		{"one match", MatchAnswer{"a": "b"}, false},
		{"empty raw", RawAnswer(nil), true},
	}

	for _, tt := range tests {
		if got := tt.a.Empty(); got != tt.empty {
			t.Errorf("%s: Empty() = %v, want %v", tt.name, got, tt.empty)
		}
	}
}
