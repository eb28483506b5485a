package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/lernwerk/lernwerk/internal/quiz"
)

// cmdQuiz manages quiz questions
func cmdQuiz(args []string) error {
	if len(args) < 1 {
		fmt.Println(`Quiz commands:

  lernwerk quiz import <file>      Import questions from a JSON file
  lernwerk quiz validate <file>    Validate a question file without importing
  lernwerk quiz list [level]       List questions, optionally by level
  lernwerk quiz export <file>      Export all questions to a JSON file`)
		return nil
	}

	switch args[0] {
	case "import":
		if len(args) < 2 {
			return fmt.Errorf("file path required")
		}
		return cmdQuizImport(args[1])
	case "export":
		if len(args) < 2 {
			return fmt.Errorf("output path required")
		}
		return cmdQuizExport(args[1])
	case "validate":
		if len(args) < 2 {
			return fmt.Errorf("file path required")
		}
		return cmdQuizValidate(args[1])
	case "list":
		level := ""
		if len(args) > 1 {
			level = args[1]
		}
		return cmdQuizList(level)
	default:
		return fmt.Errorf("unknown quiz command: %s", args[0])
	}
}

func cmdQuizImport(path string) error {
	if !isRunning() {
		return fmt.Errorf("daemon not running (run 'lernwerk start' first)")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	resp, err := http.Post(daemonAddr+"/v1/quiz", "application/json", bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("import questions: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusCreated {
		var errResp struct {
			Error  string `json:"error"`
			Detail string `json:"detail"`
		}
		if json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
			if errResp.Detail != "" {
				return fmt.Errorf("import rejected: %s: %s", errResp.Error, errResp.Detail)
			}
			return fmt.Errorf("import rejected: %s", errResp.Error)
		}
		return fmt.Errorf("import failed: HTTP %d", resp.StatusCode)
	}

	var result struct {
		Count   int `json:"count"`
		Skipped int `json:"skipped"`
	}
	if err := json.Unmarshal(body, &result); err == nil && result.Count > 0 {
		color.Green("✓ Imported %d question(s)", result.Count)
		if result.Skipped > 0 {
			color.Yellow("  %d duplicate(s) skipped", result.Skipped)
		}
		return nil
	}

	color.Green("✓ Imported 1 question")
	return nil
}

func cmdQuizValidate(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	trimmed := bytes.TrimSpace(data)
	var inputs []quiz.NewQuestionInput
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &inputs); err != nil {
			return fmt.Errorf("parse file: %w", err)
		}
	} else {
		var one quiz.NewQuestionInput
		if err := json.Unmarshal(trimmed, &one); err != nil {
			return fmt.Errorf("parse file: %w", err)
		}
		inputs = []quiz.NewQuestionInput{one}
	}

	if _, err := quiz.ValidateBatch(inputs); err != nil {
		color.Red("✗ %v", err)
		return fmt.Errorf("validation failed")
	}

	color.Green("✓ %d question(s) valid", len(inputs))
	return nil
}

func cmdQuizExport(outPath string) error {
	if !isRunning() {
		return fmt.Errorf("daemon not running (run 'lernwerk start' first)")
	}

	resp, err := http.Get(daemonAddr + "/v1/quiz")
	if err != nil {
		return fmt.Errorf("get questions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("export failed: HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	out, _ := sjson.SetRaw("{}", "questions", strings.TrimSpace(string(body)))
	out, _ = sjson.Set(out, "meta.generated_at", time.Now().UTC().Format(time.RFC3339))
	out, _ = sjson.Set(out, "meta.tool", "lernwerk "+Version)

	if err := os.WriteFile(outPath, []byte(out), 0644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	n := gjson.Get(out, "questions.#").Int()
	color.Green("✓ Exported %d question(s) to %s", n, outPath)
	return nil
}

func cmdQuizList(level string) error {
	if !isRunning() {
		return fmt.Errorf("daemon not running (run 'lernwerk start' first)")
	}

	endpoint := daemonAddr + "/v1/quiz"
	if level != "" {
		endpoint += "?level=" + url.QueryEscape(strings.ToUpper(level))
	}

	resp, err := http.Get(endpoint)
	if err != nil {
		return fmt.Errorf("get questions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("list failed: HTTP %d", resp.StatusCode)
	}

	var questions []struct {
		ID    string   `json:"id"`
		Type  string   `json:"type"`
		Level string   `json:"level"`
		Tags  []string `json:"tags"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&questions); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}

	if src := resp.Header.Get("X-Data-Source"); src == "cache" {
		color.Yellow("(served from offline cache)")
	}

	if len(questions) == 0 {
		fmt.Println("No questions found")
		return nil
	}

	for _, q := range questions {
		line := fmt.Sprintf("  %s  %-18s %s", q.ID, q.Type, q.Level)
		if len(q.Tags) > 0 {
			line += "  [" + strings.Join(q.Tags, ", ") + "]"
		}
		fmt.Println(line)
	}
	fmt.Printf("%d question(s)\n", len(questions))

	return nil
}
