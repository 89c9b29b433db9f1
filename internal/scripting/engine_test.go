package scripting

import (
	"strings"
	"testing"
	"time"

	"github.com/sadopc/reqshell/internal/protocol"
)

func testExchange() *protocol.Exchange {
	return &protocol.Exchange{
		Request: &protocol.Request{
			Method:  "GET",
			URL:     "http://example.com/json",
			Headers: map[string]string{"Accept": "application/json"},
		},
		Response: &protocol.Response{
			StatusCode: 200,
			Status:     "200 OK",
			Body:       []byte(`{"users":[{"name":"Alice"}],"total":1}`),
			Duration:   42 * time.Millisecond,
		},
	}
}

func run(t *testing.T, script string) *Result {
	t.Helper()
	req, resp := SnapshotExchange(testExchange())
	return NewEngine(0).Run(script, req, resp)
}

func TestRun_Log(t *testing.T) {
	result := run(t, `reqshell.log("hello", 42)`)
	if result.Err != nil {
		t.Fatal(result.Err)
	}
	if len(result.Logs) != 1 || !strings.Contains(result.Logs[0], "hello") {
		t.Errorf("unexpected logs: %v", result.Logs)
	}
}

func TestRun_ResponseAccess(t *testing.T) {
	result := run(t, `
		reqshell.test("status is 200", function() {
			reqshell.assert(reqshell.response.statusCode === 200, "bad status");
		});
	`)
	if result.Err != nil {
		t.Fatal(result.Err)
	}
	if len(result.TestResults) != 1 || !result.TestResults[0].Passed {
		t.Errorf("unexpected test results: %+v", result.TestResults)
	}
}

func TestRun_JSONHelper(t *testing.T) {
	result := run(t, `
		var doc = reqshell.json();
		reqshell.log(doc.users[0].name);
	`)
	if result.Err != nil {
		t.Fatal(result.Err)
	}
	if len(result.Logs) != 1 || result.Logs[0] != "Alice" {
		t.Errorf("unexpected logs: %v", result.Logs)
	}
}

func TestRun_FailingTest(t *testing.T) {
	result := run(t, `
		reqshell.test("fails", function() {
			reqshell.assert(false, "expected failure");
		});
	`)
	if result.Err != nil {
		t.Fatal(result.Err)
	}
	if len(result.TestResults) != 1 {
		t.Fatalf("expected one test result, got %d", len(result.TestResults))
	}
	tr := result.TestResults[0]
	if tr.Passed {
		t.Error("test should have failed")
	}
	if !strings.Contains(tr.Error, "expected failure") {
		t.Errorf("unexpected error: %s", tr.Error)
	}
}

func TestRun_RequestAccess(t *testing.T) {
	result := run(t, `reqshell.log(reqshell.request.method + " " + reqshell.request.url)`)
	if result.Err != nil {
		t.Fatal(result.Err)
	}
	if result.Logs[0] != "GET http://example.com/json" {
		t.Errorf("unexpected log: %s", result.Logs[0])
	}
}

func TestRun_Helpers(t *testing.T) {
	result := run(t, `
		reqshell.log(reqshell.base64encode("hi"));
		reqshell.log(reqshell.base64decode("aGk="));
		reqshell.log(reqshell.sha256("abc"));
		reqshell.log(reqshell.uuid().length);
	`)
	if result.Err != nil {
		t.Fatal(result.Err)
	}
	if result.Logs[0] != "aGk=" || result.Logs[1] != "hi" {
		t.Errorf("base64 helpers broken: %v", result.Logs)
	}
	if result.Logs[2] != "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad" {
		t.Errorf("sha256 helper broken: %s", result.Logs[2])
	}
	if result.Logs[3] != "36" {
		t.Errorf("uuid helper broken: %s", result.Logs[3])
	}
}

func TestRun_SyntaxError(t *testing.T) {
	result := run(t, `this is not javascript`)
	if result.Err == nil {
		t.Error("expected script error")
	}
}

func TestRun_TimeoutInterrupts(t *testing.T) {
	req, resp := SnapshotExchange(testExchange())
	engine := NewEngine(50 * time.Millisecond)

	done := make(chan *Result, 1)
	go func() {
		done <- engine.Run(`while (true) {}`, req, resp)
	}()

	select {
	case result := <-done:
		if result.Err == nil {
			t.Error("expected timeout error")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("script was not interrupted")
	}
}

func TestSnapshotExchange_NoResponse(t *testing.T) {
	ex := testExchange()
	ex.Response = nil
	req, resp := SnapshotExchange(ex)
	if req == nil {
		t.Fatal("expected request snapshot")
	}
	if resp != nil {
		t.Error("expected nil response snapshot")
	}
}
