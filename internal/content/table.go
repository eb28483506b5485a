package content

import "fmt"

// Table editing. Every operation keeps len(row) == len(Headers) for all rows
// at every intermediate state.

// normalizeWidths pads or truncates every row to the header width.
func (b *TableBlock) normalizeWidths() {
	width := len(b.Headers)
	for i, row := range b.Rows {
		b.Rows[i] = fitRow(row, width)
	}
}

func fitRow(row []string, width int) []string {
	if len(row) == width {
		return row
	}
	out := make([]string, width)
	copy(out, row)
	return out
}

// InsertColumn inserts an empty header and one empty cell per row at index.
// Index is clamped to [0, width].
func (b *TableBlock) InsertColumn(index int) {
	width := len(b.Headers)
	if index < 0 {
		index = 0
	}
	if index > width {
		index = width
	}
	b.Headers = spliceIn(b.Headers, index, "")
	for i, row := range b.Rows {
		b.Rows[i] = spliceIn(row, index, "")
	}
}

// RemoveColumn drops the header and the matching cell of every row. The last
// remaining column cannot be removed.
func (b *TableBlock) RemoveColumn(index int) error {
	if len(b.Headers) <= 1 {
		return fmt.Errorf("table requires at least one column")
	}
	if index < 0 || index >= len(b.Headers) {
		return fmt.Errorf("column %d out of range", index)
	}
	b.Headers = spliceOut(b.Headers, index)
	for i, row := range b.Rows {
		b.Rows[i] = spliceOut(row, index)
	}
	return nil
}

// InsertRow inserts a blank row of header width at index (clamped).
func (b *TableBlock) InsertRow(index int) {
	if index < 0 {
		index = 0
	}
	if index > len(b.Rows) {
		index = len(b.Rows)
	}
	row := make([]string, len(b.Headers))
	out := make([][]string, 0, len(b.Rows)+1)
	out = append(out, b.Rows[:index]...)
	out = append(out, row)
	b.Rows = append(out, b.Rows[index:]...)
}

// RemoveRow drops the row at index. Out-of-range indexes are a no-op.
func (b *TableBlock) RemoveRow(index int) {
	if index < 0 || index >= len(b.Rows) {
		return
	}
	out := make([][]string, 0, len(b.Rows)-1)
	out = append(out, b.Rows[:index]...)
	b.Rows = append(out, b.Rows[index+1:]...)
}

// MoveRow reorders a row from one index to another, drag style.
func (b *TableBlock) MoveRow(from, to int) {
	if from == to || from < 0 || from >= len(b.Rows) || to < 0 || to >= len(b.Rows) {
		return
	}
	row := b.Rows[from]
	rest := make([][]string, 0, len(b.Rows))
	rest = append(rest, b.Rows[:from]...)
	rest = append(rest, b.Rows[from+1:]...)

	out := make([][]string, 0, len(b.Rows))
	out = append(out, rest[:to]...)
	out = append(out, row)
	b.Rows = append(out, rest[to:]...)
}

// MoveColumn reorders a column, splicing the header and every row's cell at
// the same index so widths never diverge.
func (b *TableBlock) MoveColumn(from, to int) {
	width := len(b.Headers)
	if from == to || from < 0 || from >= width || to < 0 || to >= width {
		return
	}
	b.Headers = spliceMove(b.Headers, from, to)
	for i, row := range b.Rows {
		b.Rows[i] = spliceMove(row, from, to)
	}
}

func spliceIn(s []string, index int, v string) []string {
	out := make([]string, 0, len(s)+1)
	out = append(out, s[:index]...)
	out = append(out, v)
	return append(out, s[index:]...)
}

func spliceOut(s []string, index int) []string {
	out := make([]string, 0, len(s)-1)
	out = append(out, s[:index]...)
	return append(out, s[index+1:]...)
}

func spliceMove(s []string, from, to int) []string {
	v := s[from]
	rest := spliceOut(s, from)
	return spliceIn(rest, to, v)
}
