// Package shell implements the interactive command shell: a registry
// of commands operating on a shared session, and a bubbletea program
// that reads lines and prints results.
package shell

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sadopc/reqshell/internal/config"
	"github.com/sadopc/reqshell/internal/history"
	"github.com/sadopc/reqshell/internal/message"
	"github.com/sadopc/reqshell/internal/protocol"
	httpclient "github.com/sadopc/reqshell/internal/protocol/http"
	"github.com/sadopc/reqshell/internal/scripting"
	"github.com/sadopc/reqshell/internal/session"
)

// Runtime carries everything commands operate on. Commands run one at
// a time from the shell loop; Runtime is not goroutine-safe.
type Runtime struct {
	Config   config.Config
	Session  *session.Session
	Client   *httpclient.Client
	History  *history.Store // nil when history is unavailable
	Engine   *scripting.Engine
	Registry *Registry
	Color    bool
}

// NewRuntime wires a runtime with the default command set.
func NewRuntime(cfg config.Config, client *httpclient.Client, store *history.Store, color bool) *Runtime {
	rt := &Runtime{
		Config:   cfg,
		Session:  session.New(),
		Client:   client,
		History:  store,
		Engine:   scripting.NewEngine(0),
		Registry: NewRegistry(),
		Color:    color,
	}
	registerCommands(rt.Registry)
	return rt
}

// Dispatch parses one input line and runs the matching command.
// The returned quit flag ends the shell.
func (rt *Runtime) Dispatch(line string) (output string, quit bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", false
	}

	name, args, _ := strings.Cut(line, " ")
	if name == "quit" || name == "exit" {
		return "", true
	}

	cmd, ok := rt.Registry.Lookup(name)
	if !ok {
		return fmt.Sprintf("Unknown command %q. Type 'help' for a list.", name), false
	}

	out, err := cmd.Run(rt, strings.TrimSpace(args))
	if err != nil {
		return "Error: " + err.Error(), false
	}
	return out, false
}

// ExecuteRequest runs a request, binds the exchange into the session,
// and persists it to history. Returns the exchange and its session name.
func (rt *Runtime) ExecuteRequest(req *protocol.Request) (*protocol.Exchange, string, error) {
	timeout := req.Timeout
	if timeout == 0 {
		timeout = rt.Config.DefaultTimeout
	}
	if timeout == 0 {
		timeout = httpclient.DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	resp, err := rt.Client.Execute(ctx, req)
	if err != nil {
		return nil, "", err
	}

	ex := &protocol.Exchange{
		ID:       req.ID,
		Request:  req,
		Response: resp,
		At:       time.Now(),
	}
	name := rt.Session.BindExchange(ex)

	if rt.History != nil {
		// History write failure should not fail the command.
		_, _ = rt.History.Add(history.FromExchange(ex))
	}

	return ex, name, nil
}

// renderOptions builds message render options from config.
func (rt *Runtime) renderOptions() message.RenderOptions {
	return message.RenderOptions{
		MaxBodyLength: rt.Config.MaxBodyLength,
		Color:         rt.Color,
	}
}

// exchangeVar resolves a session variable that must hold an exchange.
func (rt *Runtime) exchangeVar(name string) (*protocol.Exchange, error) {
	v, ok := rt.Session.Get(name)
	if !ok {
		return nil, fmt.Errorf("undefined variable %q", name)
	}
	if v.Kind != session.KindExchange {
		return nil, fmt.Errorf("%s is not a request/response", name)
	}
	return v.Exchange, nil
}
