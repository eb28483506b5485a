package content

// Editing operations over the ordered block sequence. All of them are pure:
// they return a new slice and never mutate the input. A block has no identity
// outside its position, so reordering is a splice, not pointer surgery.

// InsertAfter inserts block immediately after the selected index, or appends
// when selected is negative or past the end.
func InsertAfter(seq []Block, selected int, block Block) []Block {
	if selected < 0 || selected >= len(seq) {
		out := make([]Block, 0, len(seq)+1)
		out = append(out, seq...)
		return append(out, block)
	}
	out := make([]Block, 0, len(seq)+1)
	out = append(out, seq[:selected+1]...)
	out = append(out, block)
	return append(out, seq[selected+1:]...)
}

// Remove drops the block at index. Out-of-range indexes are a no-op.
func Remove(seq []Block, index int) []Block {
	if index < 0 || index >= len(seq) {
		return seq
	}
	out := make([]Block, 0, len(seq)-1)
	out = append(out, seq[:index]...)
	return append(out, seq[index+1:]...)
}

// MoveAdjacent swaps the block at index with its neighbor in direction
// (-1 up, +1 down). Moves past either boundary are no-ops.
func MoveAdjacent(seq []Block, index, direction int) []Block {
	if direction != -1 && direction != 1 {
		return seq
	}
	target := index + direction
	if index < 0 || index >= len(seq) || target < 0 || target >= len(seq) {
		return seq
	}
	out := make([]Block, len(seq))
	copy(out, seq)
	out[index], out[target] = out[target], out[index]
	return out
}

// DragReorder removes the block at from and reinserts it at to. Equal or
// out-of-range indexes are no-ops.
func DragReorder(seq []Block, from, to int) []Block {
	if from == to {
		return seq
	}
	if from < 0 || from >= len(seq) || to < 0 || to >= len(seq) {
		return seq
	}
	out := make([]Block, 0, len(seq))
	out = append(out, seq[:from]...)
	out = append(out, seq[from+1:]...)

	rest := make([]Block, 0, len(seq))
	rest = append(rest, out[:to]...)
	rest = append(rest, seq[from])
	return append(rest, out[to:]...)
}

// SplitText splits a text-family block at offset into two sibling blocks of
// the same kind, each inheriting the translation. Returns the original block
// alone when the offset is at either end or the block is not text.
func SplitText(b Block, offset int) []Block {
	tb, ok := b.(*TextBlock)
	if !ok {
		return []Block{b}
	}
	runes := []rune(tb.Text)
	if offset <= 0 || offset >= len(runes) {
		return []Block{b}
	}
	left := &TextBlock{Kind: tb.Kind, Text: string(runes[:offset]), Translation: tb.Translation}
	right := &TextBlock{Kind: tb.Kind, Text: string(runes[offset:]), Translation: tb.Translation}
	return []Block{left, right}
}

// SplitTextAt replaces the block at index with its two halves. The sequence
// is unchanged when the split is a no-op.
func SplitTextAt(seq []Block, index, offset int) []Block {
	if index < 0 || index >= len(seq) {
		return seq
	}
	parts := SplitText(seq[index], offset)
	if len(parts) == 1 {
		return seq
	}
	out := make([]Block, 0, len(seq)+1)
	out = append(out, seq[:index]...)
	out = append(out, parts...)
	return append(out, seq[index+1:]...)
}

// Reorder tracks an in-progress reorder gesture independent of the input
// device. Begin from an index, hover over candidate targets, then commit.
type Reorder struct {
	from   int
	target int
	active bool
}

// BeginReorder starts a gesture from the given index.
func (r *Reorder) BeginReorder(index int) {
	r.from = index
	r.target = index
	r.active = true
}

// HoverTarget records the current drop candidate.
func (r *Reorder) HoverTarget(index int) {
	if r.active {
		r.target = index
	}
}

// Target returns the current drop candidate, or -1 when no gesture is active.
func (r *Reorder) Target() int {
	if !r.active {
		return -1
	}
	return r.target
}

// CommitReorder applies the gesture to seq and resets the handle. Committing
// without an active gesture returns seq unchanged.
func (r *Reorder) CommitReorder(seq []Block) []Block {
	if !r.active {
		return seq
	}
	from, to := r.from, r.target
	r.active = false
	return DragReorder(seq, from, to)
}

// Cancel abandons the gesture without touching the sequence.
func (r *Reorder) Cancel() {
	r.active = false
}
