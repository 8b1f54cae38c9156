package main

import (
	"fmt"
	"log"
	"os"

	"newsticker/internal/cmd"
	"newsticker/internal/helper"
)

func main() {
	if len(os.Args) < 2 {
		helper.PrintHelp()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var run func([]string) error
	switch command {
	case "--help", "-h", "help":
		helper.PrintHelp()
		return
	case "run":
		run = cmd.Run
	case "watch":
		run = cmd.Watch
	case "add":
		run = cmd.Add
	case "import":
		run = cmd.Import
	case "list":
		run = cmd.List
	case "delete":
		run = cmd.Delete
	case "articles":
		run = cmd.Articles
	case "status":
		run = cmd.Status
	case "pause":
		run = cmd.Pause
	case "resume":
		run = cmd.Resume
	case "stop":
		run = cmd.Stop
	default:
		fmt.Printf("unknown command: %s\n\n", command)
		helper.PrintHelp()
		os.Exit(1)
	}

	if err := run(args); err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}
}
