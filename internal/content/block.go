package content

import (
	"regexp"

	"github.com/samber/lo"
)

// BlockType is the discriminant of the block tagged union.
type BlockType string

const (
	TypeTitle          BlockType = "title"
	TypeHeader         BlockType = "header"
	TypeSubheader      BlockType = "subheader"
	TypeParagraph      BlockType = "paragraph"
	TypeTable          BlockType = "table"
	TypeAudio          BlockType = "audio"
	TypeYouTube        BlockType = "youtube"
	TypeImage          BlockType = "image"
	TypeExample        BlockType = "example"
	TypeVocabulary     BlockType = "vocabulary"
	TypeMultipleChoice BlockType = "multipleChoice"
	TypeFillInTheBlank BlockType = "fillInTheBlank"
	TypeMatchingPairs  BlockType = "matchingPairs"
	TypeDivider        BlockType = "divider"
)

// AllTypes lists every block variant in picker order.
var AllTypes = []BlockType{
	TypeTitle, TypeHeader, TypeSubheader, TypeParagraph,
	TypeTable, TypeAudio, TypeYouTube, TypeImage,
	TypeExample, TypeVocabulary,
	TypeMultipleChoice, TypeFillInTheBlank, TypeMatchingPairs,
	TypeDivider,
}

// Valid reports whether t is one of the known block variants.
func (t BlockType) Valid() bool {
	return lo.Contains(AllTypes, t)
}

// IsText reports whether t belongs to the text family
// (title/header/subheader/paragraph).
func (t BlockType) IsText() bool {
	switch t {
	case TypeTitle, TypeHeader, TypeSubheader, TypeParagraph:
		return true
	}
	return false
}

// Block is one unit of lesson content. Concrete types form a closed set;
// every consumer switches exhaustively on BlockType().
type Block interface {
	BlockType() BlockType
}

// TextBlock covers the text family. Kind is one of the four text variants.
// Translation is only meaningful for paragraphs.
type TextBlock struct {
	Kind        BlockType
	Text        string
	Translation string
}

func (b *TextBlock) BlockType() BlockType { return b.Kind }

// TableBlock holds a headers row plus data rows. Every row has exactly
// len(Headers) cells at all times; the editing operations in table.go
// maintain this.
type TableBlock struct {
	Headers []string
	Rows    [][]string
}

func (b *TableBlock) BlockType() BlockType { return TypeTable }

// AudioBlock references an audio file by URL.
type AudioBlock struct {
	Src     string
	Caption string
}

func (b *AudioBlock) BlockType() BlockType { return TypeAudio }

// YouTubeBlock embeds a video by its ID. The ID is sanitized on write so
// only [A-Za-z0-9_-] survive.
type YouTubeBlock struct {
	VideoID string
	Caption string
}

func (b *YouTubeBlock) BlockType() BlockType { return TypeYouTube }

// ImageBlock references an image by URL.
type ImageBlock struct {
	Src     string
	Alt     string
	Caption string
}

func (b *ImageBlock) BlockType() BlockType { return TypeImage }

// ExampleBlock is a German/English sentence pair, optionally with audio.
type ExampleBlock struct {
	German             string
	English            string
	PronunciationAudio string
}

func (b *ExampleBlock) BlockType() BlockType { return TypeExample }

// VocabularyBlock references externally-owned vocabulary entries by ID.
type VocabularyBlock struct {
	Title    string
	VocabIDs []int64
}

func (b *VocabularyBlock) BlockType() BlockType { return TypeVocabulary }

// AddVocabID appends id unless it is already referenced.
func (b *VocabularyBlock) AddVocabID(id int64) bool {
	if lo.Contains(b.VocabIDs, id) {
		return false
	}
	b.VocabIDs = append(b.VocabIDs, id)
	return true
}

// RemoveVocabID drops id from the reference list if present.
func (b *VocabularyBlock) RemoveVocabID(id int64) {
	b.VocabIDs = lo.Without(b.VocabIDs, id)
}

// MultipleChoiceBlock is an inline multiple-choice exercise.
type MultipleChoiceBlock struct {
	Question      string
	Options       []string
	CorrectAnswer int
	Explanation   string
}

func (b *MultipleChoiceBlock) BlockType() BlockType { return TypeMultipleChoice }

// FillInTheBlankBlock is an inline cloze exercise. Text contains "___"
// placeholders; Answers holds one expected answer per placeholder.
type FillInTheBlankBlock struct {
	Text        string
	Answers     []string
	WordOptions []string
	Hints       []string
}

func (b *FillInTheBlankBlock) BlockType() BlockType { return TypeFillInTheBlank }

// Pair is one left/right match in a matching exercise.
type Pair struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

// MatchingPairsBlock is an inline matching exercise.
type MatchingPairsBlock struct {
	Title string
	Pairs []Pair
}

func (b *MatchingPairsBlock) BlockType() BlockType { return TypeMatchingPairs }

// DividerBlock is a visual separator with no data.
type DividerBlock struct{}

func (b *DividerBlock) BlockType() BlockType { return TypeDivider }

var videoIDClean = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// SanitizeVideoID strips every character outside [A-Za-z0-9_-].
func SanitizeVideoID(id string) string {
	return videoIDClean.ReplaceAllString(id, "")
}

// SetVideoID stores a sanitized video ID.
func (b *YouTubeBlock) SetVideoID(id string) {
	b.VideoID = SanitizeVideoID(id)
}
