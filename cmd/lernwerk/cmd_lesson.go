package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/tidwall/sjson"
)

// cmdLesson manages lessons
func cmdLesson(args []string) error {
	if len(args) < 1 {
		fmt.Println(`Lesson commands:

  lernwerk lesson list                       List lessons
  lernwerk lesson export <id> [file]         Export a lesson as JSON
  lernwerk lesson blocks <id> <kind> <file>  Import blocks (examples, fillblanks, table)`)
		return nil
	}

	switch args[0] {
	case "list":
		return cmdLessonList()
	case "export":
		if len(args) < 2 {
			return fmt.Errorf("lesson ID required")
		}
		out := ""
		if len(args) > 2 {
			out = args[2]
		}
		return cmdLessonExport(args[1], out)
	case "blocks":
		if len(args) < 4 {
			return fmt.Errorf("usage: lernwerk lesson blocks <id> <kind> <file>")
		}
		return cmdLessonBlocks(args[1], args[2], args[3])
	default:
		return fmt.Errorf("unknown lesson command: %s", args[0])
	}
}

func cmdLessonList() error {
	if !isRunning() {
		return fmt.Errorf("daemon not running (run 'lernwerk start' first)")
	}

	resp, err := http.Get(daemonAddr + "/v1/lessons")
	if err != nil {
		return fmt.Errorf("get lessons: %w", err)
	}
	defer resp.Body.Close()

	var result struct {
		Lessons []struct {
			ID    string `json:"id"`
			Title string `json:"title"`
			Level string `json:"level"`
		} `json:"lessons"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}

	if len(result.Lessons) == 0 {
		fmt.Println("No lessons found")
		return nil
	}

	for _, l := range result.Lessons {
		fmt.Printf("  %s  %-4s %s\n", l.ID, l.Level, l.Title)
	}
	fmt.Printf("%d lesson(s)\n", len(result.Lessons))

	return nil
}

func cmdLessonExport(id, outPath string) error {
	if !isRunning() {
		return fmt.Errorf("daemon not running (run 'lernwerk start' first)")
	}

	resp, err := http.Get(daemonAddr + "/v1/lessons/" + id)
	if err != nil {
		return fmt.Errorf("get lesson: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("lesson %s not found", id)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("export failed: HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	// Stamp export metadata without disturbing the payload shape.
	out := string(body)
	out, _ = sjson.Set(out, "meta.exported_at", time.Now().UTC().Format(time.RFC3339))
	out, _ = sjson.Set(out, "meta.tool", "lernwerk "+Version)

	if outPath == "" {
		fmt.Println(out)
		return nil
	}

	if err := os.WriteFile(outPath, []byte(out), 0644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	color.Green("✓ Exported lesson to %s", outPath)
	return nil
}

func cmdLessonBlocks(id, kind, path string) error {
	if !isRunning() {
		return fmt.Errorf("daemon not running (run 'lernwerk start' first)")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	req := map[string]interface{}{
		"kind":  kind,
		"index": -1,
	}
	switch kind {
	case "table":
		req["text"] = string(data)
	default:
		req["data"] = json.RawMessage(data)
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := http.Post(daemonAddr+"/v1/lessons/"+id+"/blocks/import", "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("import blocks: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		var errResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
			return fmt.Errorf("import rejected: %s", errResp.Error)
		}
		return fmt.Errorf("import failed: HTTP %d", resp.StatusCode)
	}

	var result struct {
		Added  int `json:"added"`
		Blocks int `json:"blocks"`
	}
	if json.Unmarshal(body, &result) == nil && result.Added > 0 {
		color.Green("✓ Added %d block(s), lesson now has %d", result.Added, result.Blocks)
	} else {
		color.Green("✓ Blocks imported")
	}

	return nil
}
