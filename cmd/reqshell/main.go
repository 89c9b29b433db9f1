package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/sadopc/reqshell/internal/config"
	"github.com/sadopc/reqshell/internal/history"
	httpclient "github.com/sadopc/reqshell/internal/protocol/http"
	"github.com/sadopc/reqshell/internal/shell"
	"github.com/sadopc/reqshell/pkg/version"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "exec":
			execCmd()
			return
		case "history":
			historyCmd()
			return
		case "mock":
			mockCmd()
			return
		case "version":
			fmt.Printf("reqshell %s (%s) built %s\n", version.Version, version.Commit, version.Date)
			return
		case "help":
			printHelp()
			return
		}
	}
	shellCmd()
}

func printHelp() {
	fmt.Fprintf(os.Stderr, `reqshell - an interactive HTTP workbench for the terminal

Usage:
  reqshell                        Launch the interactive shell
  reqshell <command> [args]       Run a subcommand

Commands:
  exec      Execute a single curl command and print the response
  history   List or search persisted request history
  mock      Start a mock echo server for experimenting
  version   Print version information
  help      Show this help message

Inside the shell, type 'help' for the command list.
`)
}

func shellCmd() {
	cfg := config.Load()

	client := httpclient.New()
	client.SetTimeout(cfg.DefaultTimeout)

	store := openHistory(cfg)
	if store != nil {
		defer store.Close()
	}

	color := cfg.ColorEnabled(isatty.IsTerminal(os.Stdout.Fd()))
	rt := shell.NewRuntime(cfg, client, store, color)

	banner := fmt.Sprintf("reqshell %s. Type 'help' for commands, 'quit' to exit.", version.Version)
	p := tea.NewProgram(shell.New(rt, banner))
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// openHistory opens the history store; the shell degrades gracefully
// without one.
func openHistory(cfg config.Config) *history.Store {
	path, err := cfg.ResolveHistoryPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: history disabled: %v\n", err)
		return nil
	}
	store, err := history.NewStore(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: history disabled: %v\n", err)
		return nil
	}
	return store
}
