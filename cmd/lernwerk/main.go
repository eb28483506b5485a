package main

import (
	"fmt"
	"os"
)

// Version is set at build time via ldflags
var Version = "dev"

const (
	daemonAddr = "http://127.0.0.1:7610"
	pidFile    = "lernwerkd.pid"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "start":
		err = cmdStart()
	case "stop":
		err = cmdStop()
	case "status":
		err = cmdStatus()
	case "logs":
		err = cmdLogs()
	case "config":
		err = cmdConfig()
	case "quiz":
		err = cmdQuiz(os.Args[2:])
	case "lesson":
		err = cmdLesson(os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
	case "version", "-v", "--version":
		fmt.Printf("lernwerk %s\n", Version)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Lernwerk - German Learning Content Manager

Usage:
  lernwerk <command> [arguments]

Daemon Commands:
  start           Start the Lernwerk daemon
  stop            Stop the Lernwerk daemon
  status          Show daemon status
  logs            View daemon logs
  config          Show current configuration

Quiz Commands:
  quiz import     Import quiz questions from a JSON file
  quiz validate   Validate a quiz question file without importing
  quiz list       List cached quiz questions for a level
  quiz export     Export all questions to a JSON file

Lesson Commands:
  lesson list     List lessons
  lesson export   Export a lesson to a JSON file
  lesson blocks   Import content blocks into a lesson

Other:
  help            Show this help message
  version         Show version information

Examples:
  lernwerk start                       # Start daemon
  lernwerk quiz import questions.json  # Bulk-import questions
  lernwerk quiz validate drafts.json   # Check a file before import
  lernwerk lesson export <id> out.json # Export a lesson`)
}
