package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"

	"github.com/sadopc/reqshell/internal/config"
	"github.com/sadopc/reqshell/internal/curl"
	"github.com/sadopc/reqshell/internal/history"
	"github.com/sadopc/reqshell/internal/message"
	"github.com/sadopc/reqshell/internal/protocol"
	httpclient "github.com/sadopc/reqshell/internal/protocol/http"
)

func execCmd() {
	os.Exit(runExec(os.Args[2:], os.Stdout, os.Stderr))
}

// runExec runs a single curl command and prints the rendered response.
// Exit codes: 2 for usage and parse errors, 1 for transport errors.
// Arguments are taken as delivered in argv; the shell already handled
// quoting, so they are never re-tokenized.
func runExec(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintf(stderr, "Usage: reqshell exec <curl_arguments>\n\n")
		fmt.Fprintf(stderr, "Example: reqshell exec -X POST -d '{\"name\":\"test\"}' -H 'Content-Type: application/json' http://localhost:8080/echo\n")
		return 2
	}

	req, err := curl.ParseArgs(args)
	if err != nil {
		fmt.Fprintf(stderr, "Error: invalid curl syntax: %v\n", err)
		return 2
	}
	req.ID = uuid.New().String()

	cfg := config.Load()
	client := httpclient.New()
	client.SetTimeout(cfg.DefaultTimeout)

	timeout := req.Timeout
	if timeout == 0 {
		timeout = cfg.DefaultTimeout
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	ctx, cancelTimeout := context.WithTimeout(ctx, timeout)
	defer cancelTimeout()

	resp, err := client.Execute(ctx, req)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	ex := &protocol.Exchange{
		ID:       req.ID,
		Request:  req,
		Response: resp,
		At:       time.Now(),
	}

	// Best-effort history persistence, same as the shell.
	if path, err := cfg.ResolveHistoryPath(); err == nil {
		if store, err := history.NewStore(path); err == nil {
			_, _ = store.Add(history.FromExchange(ex))
			store.Close()
		}
	}

	msg, err := message.FromResponse(ex)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Fprintln(stdout, msg.Render(message.RenderOptions{
		MaxBodyLength: cfg.MaxBodyLength,
		Color:         cfg.ColorEnabled(isatty.IsTerminal(os.Stdout.Fd())),
	}))
	return 0
}
