package scripting

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/dop251/goja"
	"github.com/google/uuid"
)

// ScriptAPI is the `reqshell` global object exposed to scripts.
type ScriptAPI struct {
	logs        []string
	testResults []TestResult
	request     *ScriptRequest
	response    *ScriptResponse
}

// TestResult holds the result of a reqshell.test() call.
type TestResult struct {
	Name   string
	Passed bool
	Error  string
}

func newScriptAPI(req *ScriptRequest, resp *ScriptResponse) *ScriptAPI {
	return &ScriptAPI{
		request:  req,
		response: resp,
	}
}

func (a *ScriptAPI) registerOnRuntime(vm *goja.Runtime) {
	obj := vm.NewObject()

	// Logging
	obj.Set("log", func(call goja.FunctionCall) goja.Value {
		args := make([]interface{}, len(call.Arguments))
		for i, arg := range call.Arguments {
			args[i] = arg.Export()
		}
		a.logs = append(a.logs, fmt.Sprint(args...))
		return goja.Undefined()
	})

	// Testing
	obj.Set("test", func(call goja.FunctionCall) goja.Value {
		name := call.Argument(0).String()
		fn, ok := goja.AssertFunction(call.Argument(1))
		if !ok {
			a.testResults = append(a.testResults, TestResult{Name: name, Passed: false, Error: "invalid test function"})
			return goja.Undefined()
		}

		result := TestResult{Name: name, Passed: true}
		_, err := fn(goja.Undefined())
		if err != nil {
			result.Passed = false
			result.Error = err.Error()
		}
		a.testResults = append(a.testResults, result)
		return goja.Undefined()
	})

	obj.Set("assert", func(call goja.FunctionCall) goja.Value {
		val := call.Argument(0).ToBoolean()
		if !val {
			msg := "assertion failed"
			if len(call.Arguments) > 1 {
				msg = call.Argument(1).String()
			}
			panic(vm.NewGoError(fmt.Errorf("%s", msg)))
		}
		return goja.Undefined()
	})

	// Utility functions
	obj.Set("base64encode", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(base64.StdEncoding.EncodeToString([]byte(call.Argument(0).String())))
	})
	obj.Set("base64decode", func(call goja.FunctionCall) goja.Value {
		decoded, err := base64.StdEncoding.DecodeString(call.Argument(0).String())
		if err != nil {
			return vm.ToValue("")
		}
		return vm.ToValue(string(decoded))
	})
	obj.Set("sha256", func(call goja.FunctionCall) goja.Value {
		h := sha256.Sum256([]byte(call.Argument(0).String()))
		return vm.ToValue(hex.EncodeToString(h[:]))
	})
	obj.Set("uuid", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(uuid.New().String())
	})

	// Request/response snapshots
	obj.Set("request", a.request)
	if a.response != nil {
		obj.Set("response", a.response)
		obj.Set("json", func(call goja.FunctionCall) goja.Value {
			var doc any
			if err := json.Unmarshal([]byte(a.response.Body), &doc); err != nil {
				panic(vm.NewGoError(fmt.Errorf("response body is not JSON: %w", err)))
			}
			return vm.ToValue(doc)
		})
	}

	vm.Set("reqshell", obj)
}
