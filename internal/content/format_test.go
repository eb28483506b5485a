package content

import "testing"

func TestApplyMarkup(t *testing.T) {
	tests := []struct {
		name string
		text string
		sel  Selection
		m    Markup
		want string
	}{
		{
			name: "bold",
			text: "Guten Tag",
			sel:  Selection{Start: 0, End: 5},
			m:    Markup{Style: StyleBold},
			want: "**Guten** Tag",
		},
		{
			name: "underline",
			text: "Guten Tag",
			sel:  Selection{Start: 6, End: 9},
			m:    Markup{Style: StyleUnderline},
			want: "Guten __Tag__",
		},
		{
			name: "color",
			text: "der Hund",
			sel:  Selection{Start: 0, End: 3},
			m:    Markup{Style: StyleColor, Color: "blue"},
			want: "[color:blue]der[/color] Hund",
		},
		{
			name: "rune offsets",
			text: "Müde Männer",
			sel:  Selection{Start: 5, End: 11},
			m:    Markup{Style: StyleBold},
			want: "Müde **Männer**",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ApplyMarkup(tt.text, tt.sel, tt.m)
			if err != nil {
				t.Fatalf("ApplyMarkup: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestApplyMarkup_Errors(t *testing.T) {
	tests := []struct {
		name string
		text string
		sel  Selection
		m    Markup
	}{
		{"empty selection", "abc", Selection{Start: 1, End: 1}, Markup{Style: StyleBold}},
		{"inverted selection", "abc", Selection{Start: 2, End: 1}, Markup{Style: StyleBold}},
		{"negative start", "abc", Selection{Start: -1, End: 2}, Markup{Style: StyleBold}},
		{"end past text", "abc", Selection{Start: 0, End: 4}, Markup{Style: StyleBold}},
		{"color without color", "abc", Selection{Start: 0, End: 1}, Markup{Style: StyleColor}},
		{"unknown style", "abc", Selection{Start: 0, End: 1}, Markup{Style: "blink"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ApplyMarkup(tt.text, tt.sel, tt.m); err == nil {
				t.Error("expected error")
			}
		})
	}
}
