package content

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/tidwall/gjson"
)

// ErrNoValidItems is returned when a pasted batch normalizes to nothing.
// Partially valid batches succeed with the invalid items dropped.
var ErrNoValidItems = errors.New("no valid items to import")

// NormalizeImportedExample extracts an example block from an arbitrary JSON
// object, accepting de/en/audio as alias keys. Returns false when either
// required text field is missing or blank.
func NormalizeImportedExample(raw gjson.Result) (*ExampleBlock, bool) {
	german := strings.TrimSpace(firstString(raw, "german", "de"))
	english := strings.TrimSpace(firstString(raw, "english", "en"))
	if german == "" || english == "" {
		return nil, false
	}
	return &ExampleBlock{
		German:             german,
		English:            english,
		PronunciationAudio: strings.TrimSpace(firstString(raw, "pronunciationAudio", "audio")),
	}, true
}

// NormalizeImportedFillBlank extracts a cloze block from an arbitrary JSON
// object. The answers array is padded or truncated to the placeholder count
// of the text; wordOptions and hints default to empty.
func NormalizeImportedFillBlank(raw gjson.Result) (*FillInTheBlankBlock, bool) {
	text := raw.Get("text").String()
	if strings.TrimSpace(text) == "" {
		return nil, false
	}
	b := &FillInTheBlankBlock{
		Text:        text,
		Answers:     stringSlice(raw.Get("answers")),
		WordOptions: stringSlice(raw.Get("wordOptions")),
		Hints:       stringSlice(raw.Get("hints")),
	}
	b.Answers = fitAnswers(b.Answers, BlankCount(text))
	return b, true
}

// ImportExamples parses pasted JSON (an array or a single object) into
// example blocks. Invalid items are dropped; the import fails only when
// nothing at all normalizes.
func ImportExamples(data []byte) ([]Block, error) {
	blocks := lo.FilterMap(importItems(data), func(item gjson.Result, _ int) (Block, bool) {
		b, ok := NormalizeImportedExample(item)
		return b, ok
	})
	if len(blocks) == 0 {
		return nil, ErrNoValidItems
	}
	return blocks, nil
}

// ImportFillBlanks parses pasted JSON into fill-in-the-blank blocks with the
// same partial-success rule as ImportExamples.
func ImportFillBlanks(data []byte) ([]Block, error) {
	blocks := lo.FilterMap(importItems(data), func(item gjson.Result, _ int) (Block, bool) {
		b, ok := NormalizeImportedFillBlank(item)
		return b, ok
	})
	if len(blocks) == 0 {
		return nil, ErrNoValidItems
	}
	return blocks, nil
}

// ImportTable converts pasted CSV or TSV text into a table block. Each line
// splits on tab when one is present, otherwise on comma. The column count is
// the widest row seen; existing headers are reused positionally and missing
// ones synthesized as "Col N". Every row is padded or truncated to the
// column count.
func ImportTable(text string, existing *TableBlock) *TableBlock {
	var rows [][]string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.Contains(line, "\t") {
			rows = append(rows, strings.Split(line, "\t"))
		} else {
			rows = append(rows, strings.Split(line, ","))
		}
	}

	colCount := 0
	if existing != nil {
		colCount = len(existing.Headers)
	}
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}
	if colCount == 0 {
		colCount = 1
	}

	headers := make([]string, colCount)
	for i := range headers {
		if existing != nil && i < len(existing.Headers) && existing.Headers[i] != "" {
			headers[i] = existing.Headers[i]
		} else {
			headers[i] = fmt.Sprintf("Col %d", i+1)
		}
	}
	for i, row := range rows {
		rows[i] = fitRow(row, colCount)
	}
	if rows == nil {
		rows = [][]string{}
	}
	return &TableBlock{Headers: headers, Rows: rows}
}

// importItems flattens pasted JSON into candidate objects: an array yields
// its elements, anything else is treated as a single item.
func importItems(data []byte) []gjson.Result {
	parsed := gjson.ParseBytes(data)
	if parsed.IsArray() {
		return parsed.Array()
	}
	return []gjson.Result{parsed}
}

// firstString returns the first non-empty string among the given keys.
func firstString(raw gjson.Result, keys ...string) string {
	for _, key := range keys {
		if v := raw.Get(key); v.Exists() && v.String() != "" {
			return v.String()
		}
	}
	return ""
}

// stringSlice converts a JSON array value to []string, defaulting to empty
// when absent or not an array.
func stringSlice(v gjson.Result) []string {
	if !v.IsArray() {
		return []string{}
	}
	return lo.Map(v.Array(), func(item gjson.Result, _ int) string {
		return item.String()
	})
}
