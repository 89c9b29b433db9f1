package main

import (
	"bytes"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/sadopc/reqshell/internal/mock"
)

func mockServer(t *testing.T) *httptest.Server {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	srv := httptest.NewServer(mock.New(mock.WithLogger(log)).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func execWith(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	t.Setenv("HOME", t.TempDir()) // isolate config and history
	var out, errBuf bytes.Buffer
	code = runExec(args, &out, &errBuf)
	return code, out.String(), errBuf.String()
}

func TestRunExec_NoArgs(t *testing.T) {
	code, _, stderr := execWith(t)
	if code != 2 {
		t.Errorf("expected exit code 2, got %d", code)
	}
	if !strings.Contains(stderr, "Usage: reqshell exec") {
		t.Errorf("unexpected stderr: %s", stderr)
	}
}

func TestRunExec_ParseError(t *testing.T) {
	code, _, stderr := execWith(t, "-H", "Accept: application/json")
	if code != 2 {
		t.Errorf("expected exit code 2 for missing URL, got %d", code)
	}
	if !strings.Contains(stderr, "invalid curl syntax") {
		t.Errorf("unexpected stderr: %s", stderr)
	}
}

func TestRunExec_TransportError(t *testing.T) {
	code, _, stderr := execWith(t, "http://127.0.0.1:1/unreachable")
	if code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
	if !strings.HasPrefix(stderr, "Error:") {
		t.Errorf("unexpected stderr: %s", stderr)
	}
}

func TestRunExec_Success(t *testing.T) {
	srv := mockServer(t)

	code, stdout, stderr := execWith(t, srv.URL+"/json")
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d (stderr: %s)", code, stderr)
	}
	if !strings.Contains(stdout, "Status: 200 OK") {
		t.Errorf("expected rendered response:\n%s", stdout)
	}
	if !strings.Contains(stdout, "Alice") {
		t.Errorf("expected response body:\n%s", stdout)
	}
}

func TestRunExec_BodyWithSpacesSurvivesArgv(t *testing.T) {
	srv := mockServer(t)

	// The OS shell delivers the -d value as one argv element; it must
	// reach the server byte for byte.
	code, stdout, stderr := execWith(t,
		"-d", `{"name": "x y"}`,
		"-H", "Content-Type: application/json",
		srv.URL+"/echo")
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d (stderr: %s)", code, stderr)
	}
	if !strings.Contains(stdout, "x y") {
		t.Errorf("body with spaces not echoed back:\n%s", stdout)
	}
	if !strings.Contains(stdout, `"method": "POST"`) {
		t.Errorf("data flag should imply POST:\n%s", stdout)
	}
}
