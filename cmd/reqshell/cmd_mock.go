package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/sadopc/reqshell/internal/mock"
)

func mockCmd() {
	fs := flag.NewFlagSet("mock", flag.ExitOnError)
	portFlag := fs.Int("port", 8080, "Port to listen on")
	latencyFlag := fs.Duration("latency", 0, "Artificial response latency (e.g., 200ms, 1s)")
	corsOriginFlag := fs.String("cors-origin", "*", "Access-Control-Allow-Origin header value")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: reqshell mock [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Start a mock echo server to experiment against.\n\n")
		fmt.Fprintf(os.Stderr, "Routes:\n")
		fmt.Fprintf(os.Stderr, "  GET  /                 Hello World sample document\n")
		fmt.Fprintf(os.Stderr, "  ANY  /echo             JSON echo of method, args, headers, body\n")
		fmt.Fprintf(os.Stderr, "  GET  /json             Nested sample document (users)\n")
		fmt.Fprintf(os.Stderr, "  GET  /status/<code>    Respond with that status code\n")
		fmt.Fprintf(os.Stderr, "  GET  /delay/<seconds>  Respond after a delay\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  reqshell mock\n")
		fmt.Fprintf(os.Stderr, "  reqshell mock --port 3000 --latency 200ms\n")
	}

	if err := fs.Parse(os.Args[2:]); err != nil {
		os.Exit(2)
	}

	if *portFlag < 0 || *portFlag > 65535 {
		fmt.Fprintf(os.Stderr, "Error: port must be between 0 and 65535\n")
		os.Exit(2)
	}

	opts := []mock.Option{
		mock.WithPort(*portFlag),
	}
	if *latencyFlag > 0 {
		opts = append(opts, mock.WithLatency(*latencyFlag))
	}
	if *corsOriginFlag != "*" {
		opts = append(opts, mock.WithCORSOrigin(*corsOriginFlag))
	}

	srv := mock.New(opts...)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if *latencyFlag > 0 {
		fmt.Fprintf(os.Stderr, "Artificial latency: %s\n", latencyFlag.String())
	}

	if err := srv.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
