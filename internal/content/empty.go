package content

// Empty returns a minimal valid instance of the given block variant, ready
// for interactive editing. Unknown types fall back to a paragraph so the
// editor always has something to hold a cursor in.
func Empty(t BlockType) Block {
	switch t {
	case TypeTitle, TypeHeader, TypeSubheader, TypeParagraph:
		return &TextBlock{Kind: t}
	case TypeTable:
		return &TableBlock{
			Headers: []string{"", ""},
			Rows:    [][]string{{"", ""}},
		}
	case TypeAudio:
		return &AudioBlock{}
	case TypeYouTube:
		return &YouTubeBlock{}
	case TypeImage:
		return &ImageBlock{}
	case TypeExample:
		return &ExampleBlock{}
	case TypeVocabulary:
		return &VocabularyBlock{VocabIDs: []int64{}}
	case TypeMultipleChoice:
		return &MultipleChoiceBlock{
			Options: []string{"", ""},
		}
	case TypeFillInTheBlank:
		return &FillInTheBlankBlock{
			Text:        "___",
			Answers:     []string{""},
			WordOptions: []string{},
			Hints:       []string{},
		}
	case TypeMatchingPairs:
		return &MatchingPairsBlock{
			Pairs: []Pair{{}, {}},
		}
	case TypeDivider:
		return &DividerBlock{}
	default:
		return &TextBlock{Kind: TypeParagraph}
	}
}
