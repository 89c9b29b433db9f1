// Package scripting runs user JavaScript against the last exchange.
package scripting

import (
	"context"
	"fmt"
	"time"

	"github.com/dop251/goja"
)

// Engine executes JavaScript snippets with access to an exchange.
type Engine struct {
	timeout time.Duration
}

// NewEngine creates a new scripting engine with the given timeout.
func NewEngine(timeout time.Duration) *Engine {
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	return &Engine{timeout: timeout}
}

// Result holds script execution results.
type Result struct {
	Logs        []string
	TestResults []TestResult
	Err         error
}

// Run executes a script with the given request/response snapshots.
func (e *Engine) Run(script string, req *ScriptRequest, resp *ScriptResponse) *Result {
	api := newScriptAPI(req, resp)
	err := e.run(script, api)
	return &Result{
		Logs:        api.logs,
		TestResults: api.testResults,
		Err:         err,
	}
}

func (e *Engine) run(script string, api *ScriptAPI) error {
	vm := goja.New()
	vm.SetFieldNameMapper(goja.TagFieldNameMapper("json", true))
	api.registerOnRuntime(vm)

	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()

	// Interrupt VM on timeout
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			vm.Interrupt("script timeout exceeded")
		case <-done:
		}
	}()

	_, err := vm.RunString(script)
	close(done)

	if err != nil {
		return fmt.Errorf("script error: %w", err)
	}
	return nil
}
