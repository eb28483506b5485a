package content

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Wire shapes. One struct per variant keeps the JSON stable and the
// encoder/decoder switches exhaustive.

type textWire struct {
	Type        BlockType `json:"type"`
	Text        string    `json:"text"`
	Translation string    `json:"translation,omitempty"`
}

type tableWire struct {
	Type    BlockType  `json:"type"`
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

type audioWire struct {
	Type    BlockType `json:"type"`
	Src     string    `json:"src"`
	Caption string    `json:"caption,omitempty"`
}

type youtubeWire struct {
	Type    BlockType `json:"type"`
	VideoID string    `json:"videoId"`
	Caption string    `json:"caption,omitempty"`
}

type imageWire struct {
	Type    BlockType `json:"type"`
	Src     string    `json:"src"`
	Alt     string    `json:"alt,omitempty"`
	Caption string    `json:"caption,omitempty"`
}

type exampleWire struct {
	Type               BlockType `json:"type"`
	German             string    `json:"german"`
	English            string    `json:"english"`
	PronunciationAudio string    `json:"pronunciationAudio,omitempty"`
}

type vocabularyWire struct {
	Type     BlockType `json:"type"`
	Title    string    `json:"title,omitempty"`
	VocabIDs []int64   `json:"vocabIds"`
}

type multipleChoiceWire struct {
	Type          BlockType `json:"type"`
	Question      string    `json:"question"`
	Options       []string  `json:"options"`
	CorrectAnswer int       `json:"correctAnswer"`
	Explanation   string    `json:"explanation,omitempty"`
}

type fillInTheBlankWire struct {
	Type        BlockType `json:"type"`
	Text        string    `json:"text"`
	Answers     []string  `json:"answers"`
	WordOptions []string  `json:"wordOptions,omitempty"`
	Hints       []string  `json:"hints,omitempty"`
}

type matchingPairsWire struct {
	Type  BlockType `json:"type"`
	Title string    `json:"title,omitempty"`
	Pairs []Pair    `json:"pairs"`
}

type dividerWire struct {
	Type BlockType `json:"type"`
}

// MarshalBlocks serializes an ordered block sequence to its JSON array form.
func MarshalBlocks(blocks []Block) ([]byte, error) {
	out := make([]json.RawMessage, 0, len(blocks))
	for i, b := range blocks {
		raw, err := MarshalBlock(b)
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", i, err)
		}
		out = append(out, raw)
	}
	return json.Marshal(out)
}

// MarshalBlock serializes a single block with its type discriminant.
func MarshalBlock(b Block) ([]byte, error) {
	switch v := b.(type) {
	case *TextBlock:
		return json.Marshal(textWire{v.Kind, v.Text, v.Translation})
	case *TableBlock:
		return json.Marshal(tableWire{TypeTable, v.Headers, v.Rows})
	case *AudioBlock:
		return json.Marshal(audioWire{TypeAudio, v.Src, v.Caption})
	case *YouTubeBlock:
		return json.Marshal(youtubeWire{TypeYouTube, SanitizeVideoID(v.VideoID), v.Caption})
	case *ImageBlock:
		return json.Marshal(imageWire{TypeImage, v.Src, v.Alt, v.Caption})
	case *ExampleBlock:
		return json.Marshal(exampleWire{TypeExample, v.German, v.English, v.PronunciationAudio})
	case *VocabularyBlock:
		return json.Marshal(vocabularyWire{TypeVocabulary, v.Title, v.VocabIDs})
	case *MultipleChoiceBlock:
		return json.Marshal(multipleChoiceWire{TypeMultipleChoice, v.Question, v.Options, v.CorrectAnswer, v.Explanation})
	case *FillInTheBlankBlock:
		return json.Marshal(fillInTheBlankWire{TypeFillInTheBlank, v.Text, v.Answers, v.WordOptions, v.Hints})
	case *MatchingPairsBlock:
		return json.Marshal(matchingPairsWire{TypeMatchingPairs, v.Title, v.Pairs})
	case *DividerBlock:
		return json.Marshal(dividerWire{TypeDivider})
	default:
		return nil, fmt.Errorf("unknown block type %T", b)
	}
}

// UnmarshalBlocks parses a JSON block array, enforcing per-variant shape
// invariants (table width, fill-blank arity, MCQ bounds, video ID charset).
func UnmarshalBlocks(data []byte) ([]Block, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("block sequence: %w", err)
	}

	blocks := make([]Block, 0, len(raws))
	for i, raw := range raws {
		b, err := UnmarshalBlock(raw)
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", i, err)
		}
		blocks = append(blocks, b)
	}
	return blocks, nil
}

// UnmarshalBlock parses a single block by its type discriminant.
func UnmarshalBlock(data []byte) (Block, error) {
	var head struct {
		Type BlockType `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, err
	}

	switch head.Type {
	case TypeTitle, TypeHeader, TypeSubheader, TypeParagraph:
		var w textWire
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		return &TextBlock{Kind: head.Type, Text: w.Text, Translation: w.Translation}, nil

	case TypeTable:
		var w tableWire
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		if len(w.Headers) == 0 {
			return nil, fmt.Errorf("table block requires at least one header")
		}
		b := &TableBlock{Headers: w.Headers, Rows: w.Rows}
		b.normalizeWidths()
		return b, nil

	case TypeAudio:
		var w audioWire
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		return &AudioBlock{Src: w.Src, Caption: w.Caption}, nil

	case TypeYouTube:
		var w youtubeWire
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		return &YouTubeBlock{VideoID: SanitizeVideoID(w.VideoID), Caption: w.Caption}, nil

	case TypeImage:
		var w imageWire
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		return &ImageBlock{Src: w.Src, Alt: w.Alt, Caption: w.Caption}, nil

	case TypeExample:
		var w exampleWire
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		return &ExampleBlock{German: w.German, English: w.English, PronunciationAudio: w.PronunciationAudio}, nil

	case TypeVocabulary:
		var w vocabularyWire
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		b := &VocabularyBlock{Title: w.Title}
		for _, id := range w.VocabIDs {
			b.AddVocabID(id)
		}
		return b, nil

	case TypeMultipleChoice:
		var w multipleChoiceWire
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		if len(w.Options) == 0 {
			return nil, fmt.Errorf("multiple choice block requires at least one option")
		}
		if w.CorrectAnswer < 0 || w.CorrectAnswer >= len(w.Options) {
			return nil, fmt.Errorf("multiple choice correctAnswer %d out of range [0,%d)", w.CorrectAnswer, len(w.Options))
		}
		return &MultipleChoiceBlock{
			Question:      w.Question,
			Options:       w.Options,
			CorrectAnswer: w.CorrectAnswer,
			Explanation:   w.Explanation,
		}, nil

	case TypeFillInTheBlank:
		var w fillInTheBlankWire
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		b := &FillInTheBlankBlock{
			Text:        w.Text,
			Answers:     w.Answers,
			WordOptions: w.WordOptions,
			Hints:       w.Hints,
		}
		if b.WordOptions == nil {
			b.WordOptions = []string{}
		}
		if b.Hints == nil {
			b.Hints = []string{}
		}
		b.Answers = fitAnswers(b.Answers, BlankCount(b.Text))
		return b, nil

	case TypeMatchingPairs:
		var w matchingPairsWire
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		return &MatchingPairsBlock{Title: w.Title, Pairs: w.Pairs}, nil

	case TypeDivider:
		return &DividerBlock{}, nil

	default:
		return nil, fmt.Errorf("unknown block type %q", head.Type)
	}
}

// BlankCount returns the number of "___" placeholders in text.
func BlankCount(text string) int {
	return strings.Count(text, blankToken)
}

const blankToken = "___"
