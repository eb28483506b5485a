package content

import (
	"errors"
	"testing"
)

func TestImportExamples_PartialSuccess(t *testing.T) {
	data := []byte(`[
		{"german":"Guten Tag","english":"Good day"},
		{"german":"","english":"missing german"},
		{"de":"Tschüss","en":"Bye","audio":"bye.mp3"},
		{"unrelated":true}
	]`)

	blocks, err := ImportExamples(data)
	if err != nil {
		t.Fatalf("ImportExamples: %v", err)
	}
	if len(blocks) != 2 {
		t.Fatalf("blocks = %d, want 2", len(blocks))
	}

	first := blocks[0].(*ExampleBlock)
	if first.German != "Guten Tag" || first.English != "Good day" {
		t.Errorf("first = %+v", first)
	}
	second := blocks[1].(*ExampleBlock)
	if second.German != "Tschüss" || second.English != "Bye" || second.PronunciationAudio != "bye.mp3" {
		t.Errorf("alias keys not honored: %+v", second)
	}
}

func TestImportExamples_SingleObject(t *testing.T) {
	blocks, err := ImportExamples([]byte(`{"german":"Hallo","english":"Hello"}`))
	if err != nil {
		t.Fatalf("ImportExamples: %v", err)
	}
	if len(blocks) != 1 {
		t.Fatalf("blocks = %d, want 1", len(blocks))
	}
}

func TestImportExamples_NothingValid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty array", `[]`},
		{"all invalid", `[{"german":"nur deutsch"},{"english":"only english"}]`},
		{"whitespace only", `[{"german":"  ","english":"x"}]`},
		{"not json", `garbage`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ImportExamples([]byte(tt.data))
			if !errors.Is(err, ErrNoValidItems) {
				t.Errorf("err = %v, want ErrNoValidItems", err)
			}
		})
	}
}

func TestImportFillBlanks_AnswerArity(t *testing.T) {
	data := []byte(`[
		{"text":"Ich ___ Deutsch","answers":["lerne","zu viele"]},
		{"text":"Wir ___ und ___","answers":["essen"]},
		{"text":"   "},
		{"text":"ohne Lücke"}
	]`)

	blocks, err := ImportFillBlanks(data)
	if err != nil {
		t.Fatalf("ImportFillBlanks: %v", err)
	}
	if len(blocks) != 3 {
		t.Fatalf("blocks = %d, want 3", len(blocks))
	}

	first := blocks[0].(*FillInTheBlankBlock)
	if len(first.Answers) != 1 || first.Answers[0] != "lerne" {
		t.Errorf("first answers = %v", first.Answers)
	}

	second := blocks[1].(*FillInTheBlankBlock)
	if len(second.Answers) != 2 || second.Answers[0] != "essen" || second.Answers[1] != "" {
		t.Errorf("second answers = %v", second.Answers)
	}

	// blank-less text keeps a single answer slot
	third := blocks[2].(*FillInTheBlankBlock)
	if len(third.Answers) != 1 {
		t.Errorf("third answers = %v", third.Answers)
	}
}

func TestImportTable_CommaAndTab(t *testing.T) {
	table := ImportTable("der Hund,dog\ndie Katze\tcat\n\n", nil)

	if len(table.Headers) != 2 {
		t.Fatalf("headers = %v", table.Headers)
	}
	if table.Headers[0] != "Col 1" || table.Headers[1] != "Col 2" {
		t.Errorf("headers = %v", table.Headers)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("rows = %v", table.Rows)
	}
	if table.Rows[1][0] != "die Katze" || table.Rows[1][1] != "cat" {
		t.Errorf("tab line parsed wrong: %v", table.Rows[1])
	}
}

func TestImportTable_WidestRowWins(t *testing.T) {
	table := ImportTable("a,b,c\nd,e\nf", nil)

	if len(table.Headers) != 3 {
		t.Fatalf("headers = %v", table.Headers)
	}
	for i, row := range table.Rows {
		if len(row) != 3 {
			t.Errorf("row %d width = %d, want 3", i, len(row))
		}
	}
	if table.Rows[1][2] != "" || table.Rows[2][1] != "" {
		t.Errorf("short rows should be padded: %v", table.Rows)
	}
}

func TestImportTable_ReusesExistingHeaders(t *testing.T) {
	existing := &TableBlock{Headers: []string{"Singular", "Plural"}}
	table := ImportTable("das Auto,die Autos,extra", existing)

	if len(table.Headers) != 3 {
		t.Fatalf("headers = %v", table.Headers)
	}
	if table.Headers[0] != "Singular" || table.Headers[1] != "Plural" {
		t.Errorf("existing headers not reused: %v", table.Headers)
	}
	if table.Headers[2] != "Col 3" {
		t.Errorf("missing header not synthesized: %v", table.Headers)
	}
}

func TestImportTable_EmptyText(t *testing.T) {
	table := ImportTable("", nil)
	if len(table.Headers) != 1 {
		t.Errorf("headers = %v", table.Headers)
	}
	if len(table.Rows) != 0 {
		t.Errorf("rows = %v", table.Rows)
	}
}

func TestFillBlank_SetTextRederivesArity(t *testing.T) {
	b := &FillInTheBlankBlock{Text: "Ich ___ dich", Answers: []string{"sehe"}}

	b.SetText("Ich ___ dich und du ___ mich")
	if len(b.Answers) != 2 || b.Answers[0] != "sehe" {
		t.Errorf("answers = %v", b.Answers)
	}

	b.SetAnswer(1, "siehst")
	if b.Answers[1] != "siehst" {
		t.Errorf("answers = %v", b.Answers)
	}

	b.SetAnswer(5, "ignored") // out of range is a no-op
	if len(b.Answers) != 2 {
		t.Errorf("answers = %v", b.Answers)
	}

	b.SetText("keine Lücke mehr")
	if len(b.Answers) != 1 || b.Answers[0] != "sehe" {
		t.Errorf("blank-less text should keep the first answer: %v", b.Answers)
	}
}
