package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/sadopc/reqshell/internal/config"
	"github.com/sadopc/reqshell/internal/history"
)

func historyCmd() {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	limitFlag := fs.Int("limit", 20, "Maximum entries to show")
	clearFlag := fs.Bool("clear", false, "Delete all history entries")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: reqshell history [term] [flags]\n\n")
		fmt.Fprintf(os.Stderr, "List persisted request history, newest first. With a term,\n")
		fmt.Fprintf(os.Stderr, "entries are filtered by URL substring.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(os.Args[2:]); err != nil {
		os.Exit(2)
	}

	cfg := config.Load()
	path, err := cfg.ResolveHistoryPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	store, err := history.NewStore(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if *clearFlag {
		if err := store.Clear(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("History cleared.")
		return
	}

	var entries []history.Entry
	if fs.NArg() > 0 {
		entries, err = store.Search(fs.Arg(0))
	} else {
		entries, err = store.List(*limitFlag, 0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if len(entries) == 0 {
		fmt.Println("No history entries.")
		return
	}
	for _, e := range entries {
		fmt.Printf("%4d  %-6s %-50s %3d  %8s  %8s  %s\n",
			e.ID, e.Method, e.URL, e.StatusCode,
			e.Duration.Round(time.Millisecond),
			humanize.IBytes(uint64(e.Size)),
			humanize.Time(e.Timestamp))
	}
}
