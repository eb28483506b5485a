package content

import "fmt"

// Markup identifies an inline formatting style applied to a text selection.
type Markup struct {
	Style MarkupStyle
	Color string // only for StyleColor
}

// MarkupStyle enumerates the supported inline styles.
type MarkupStyle string

const (
	StyleBold      MarkupStyle = "bold"
	StyleUnderline MarkupStyle = "underline"
	StyleColor     MarkupStyle = "color"
)

// Selection is a half-open rune range [Start, End) within a text field.
type Selection struct {
	Start int
	End   int
}

// ApplyMarkup wraps the selected substring of text in markup tokens. The
// caller passes the text of the active field directly; there is no lookup by
// content. An empty or out-of-range selection is an error.
func ApplyMarkup(text string, sel Selection, m Markup) (string, error) {
	runes := []rune(text)
	if sel.Start < 0 || sel.End > len(runes) || sel.Start >= sel.End {
		return "", fmt.Errorf("selection [%d,%d) out of range for text of length %d", sel.Start, sel.End, len(runes))
	}

	var opening, closing string
	switch m.Style {
	case StyleBold:
		opening, closing = "**", "**"
	case StyleUnderline:
		opening, closing = "__", "__"
	case StyleColor:
		if m.Color == "" {
			return "", fmt.Errorf("color markup requires a color")
		}
		opening = fmt.Sprintf("[color:%s]", m.Color)
		closing = "[/color]"
	default:
		return "", fmt.Errorf("unknown markup style %q", m.Style)
	}

	return string(runes[:sel.Start]) + opening + string(runes[sel.Start:sel.End]) + closing + string(runes[sel.End:]), nil
}
