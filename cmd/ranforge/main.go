package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/RANForge/ranforge/internal/config"
	"github.com/RANForge/ranforge/internal/logger"
)

func main() {
	if len(os.Args) < 2 || os.Args[1] == "help" || os.Args[1] == "--help" {
		printHelp()
		if len(os.Args) < 2 {
			os.Exit(2)
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ranforge: %v\n", err)
		os.Exit(1)
	}
	slog.SetDefault(logger.New(cfg.Logging))

	var cmdErr error
	switch os.Args[1] {
	case "run":
		cmdErr = runRun(cfg, os.Args[2:])
	case "validate-handoffs":
		cmdErr = runValidateHandoffs(cfg, os.Args[2:])
	case "serve":
		cmdErr = runServe(cfg, os.Args[2:])
	case "workflows":
		cmdErr = runWorkflows(cfg, os.Args[2:])
	case "archive":
		cmdErr = runArchive(cfg, os.Args[2:])
	default:
		printHelp()
		fmt.Fprintf(os.Stderr, "ranforge: unknown command %q\n", os.Args[1])
		os.Exit(2)
	}

	if cmdErr != nil {
		slog.Error("command failed", "command", os.Args[1], "error", cmdErr)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Fprintf(os.Stderr, `Usage: ranforge <command> [options]

Commands:
  run                Execute a workflow end to end
  validate-handoffs  Statically check an agent hand-off table
  serve              Start the inspection API and WebSocket event feed
  workflows          List resolvable workflow names
  archive            Inspect the Postgres run archive
  help               Show this help message

Examples:
  ranforge run deploy
  ranforge run troubleshoot --dry-run --verbose
  ranforge validate-handoffs --agents agents.yaml
  ranforge serve
`)
}
