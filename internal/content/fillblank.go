package content

// fitAnswers pads or truncates answers to exactly n entries, preserving
// existing answers by position. A blank-less text (n == 0) keeps a single
// answer entry: it degenerates to a one-answer item with no inline blank.
func fitAnswers(answers []string, n int) []string {
	if n == 0 {
		if len(answers) == 0 {
			return []string{""}
		}
		return answers[:1]
	}
	if len(answers) == n {
		return answers
	}
	out := make([]string, n)
	copy(out, answers)
	return out
}

// SetText replaces the cloze text and re-derives the answer arity from the
// new placeholder count. Answers are preserved by position up to the shorter
// of the old and new counts.
func (b *FillInTheBlankBlock) SetText(text string) {
	b.Text = text
	b.Answers = fitAnswers(b.Answers, BlankCount(text))
}

// SetAnswer stores the expected answer for one placeholder position.
func (b *FillInTheBlankBlock) SetAnswer(index int, answer string) {
	if index < 0 || index >= len(b.Answers) {
		return
	}
	b.Answers[index] = answer
}
