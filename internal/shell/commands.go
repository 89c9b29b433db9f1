package shell

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/sahilm/fuzzy"

	"github.com/sadopc/reqshell/internal/curl"
	"github.com/sadopc/reqshell/internal/history"
	"github.com/sadopc/reqshell/internal/jsonq"
	"github.com/sadopc/reqshell/internal/message"
	"github.com/sadopc/reqshell/internal/protocol"
	"github.com/sadopc/reqshell/internal/scripting"
)

func registerCommands(r *Registry) {
	r.Register(Command{
		Name:    "curl",
		Usage:   "curl <curl_arguments>",
		Summary: "Execute a curl command and bind the exchange",
		Run:     cmdCurl,
	})
	r.Register(Command{
		Name:    "req",
		Usage:   "req <variable>",
		Summary: "Pretty print the request side of an exchange",
		Run:     cmdReq,
	})
	r.Register(Command{
		Name:    "res",
		Usage:   "res <variable>",
		Summary: "Pretty print the response side of an exchange",
		Run:     cmdRes,
	})
	r.Register(Command{
		Name:    "jq",
		Usage:   "jq [-q] <variable> <query>",
		Summary: "Apply a jq query to a variable's JSON; result binds to _",
		Run:     cmdJq,
	})
	r.Register(Command{
		Name:    "set",
		Usage:   "set <name> <json>",
		Summary: "Bind a JSON literal as a session variable",
		Run:     cmdSet,
	})
	r.Register(Command{
		Name:    "vars",
		Usage:   "vars",
		Summary: "List session variables",
		Run:     cmdVars,
	})
	r.Register(Command{
		Name:    "env",
		Usage:   "env [name value]",
		Summary: "List or set {{placeholder}} interpolation variables",
		Run:     cmdEnv,
	})
	r.Register(Command{
		Name:    "history",
		Usage:   "history [term]",
		Summary: "List or fuzzy-search persisted requests",
		Run:     cmdHistory,
	})
	r.Register(Command{
		Name:    "replay",
		Usage:   "replay <id>",
		Summary: "Re-execute a history entry",
		Run:     cmdReplay,
	})
	r.Register(Command{
		Name:    "copy",
		Usage:   "copy [variable]",
		Summary: "Copy a response body to the clipboard (default: last)",
		Run:     cmdCopy,
	})
	r.Register(Command{
		Name:    "script",
		Usage:   "script <file.js | expression>",
		Summary: "Run JavaScript against the last exchange",
		Run:     cmdScript,
	})
	r.Register(Command{
		Name:    "clear-history",
		Usage:   "clear-history",
		Summary: "Delete all persisted history",
		Run:     cmdClearHistory,
	})
	r.Register(Command{
		Name:    "help",
		Usage:   "help [command]",
		Summary: "Show command help",
		Run: func(rt *Runtime, args string) (string, error) {
			return rt.Registry.Help(strings.TrimSpace(args)), nil
		},
	})
}

func cmdCurl(rt *Runtime, args string) (string, error) {
	if args == "" {
		return "Usage: curl <curl_arguments>\nExample: curl http://localhost:8000/get", nil
	}

	args = rt.Session.Interpolate(args)

	req, err := curl.Parse(args)
	if err != nil {
		return "", fmt.Errorf("invalid curl syntax: %v", err)
	}
	req.ID = uuid.New().String()

	ex, name, err := rt.ExecuteRequest(req)
	if err != nil {
		return "", fmt.Errorf("executing curl command: %v", err)
	}

	return resultLine(ex, name), nil
}

// resultLine is the one-line summary printed after each executed request.
func resultLine(ex *protocol.Exchange, name string) string {
	resp := ex.Response
	return fmt.Sprintf("%d %s  %s %s  %s  %s  -> %s",
		resp.StatusCode, resp.Reason,
		ex.Request.Method, ex.Request.URL,
		resp.Duration.Round(time.Millisecond),
		humanize.IBytes(uint64(resp.Size)),
		name)
}

func cmdReq(rt *Runtime, args string) (string, error) {
	if args == "" {
		return "Usage: req <request_variable>", nil
	}
	ex, err := rt.exchangeVar(args)
	if err != nil {
		return "", err
	}
	msg := message.FromRequest(ex)
	return msg.Render(rt.renderOptions()), nil
}

func cmdRes(rt *Runtime, args string) (string, error) {
	if args == "" {
		return "Usage: res <response_variable>", nil
	}
	ex, err := rt.exchangeVar(args)
	if err != nil {
		return "", err
	}
	msg, err := message.FromResponse(ex)
	if err != nil {
		return "", fmt.Errorf("%s is not a response", args)
	}
	return msg.Render(rt.renderOptions()), nil
}

func cmdJq(rt *Runtime, args string) (string, error) {
	const usage = "Usage: jq [-q] <json_variable> <query>"
	if args == "" {
		return usage, nil
	}

	quiet := false
	if strings.HasPrefix(args, "-q") {
		quiet = true
		args = strings.TrimSpace(strings.TrimPrefix(args, "-q"))
	}

	varName, query, ok := strings.Cut(args, " ")
	if !ok || strings.TrimSpace(query) == "" {
		return usage, nil
	}
	query = strings.TrimSpace(query)
	query = trimQuotes(query)

	doc, err := rt.Session.JSONView(varName)
	if err != nil {
		return "", err
	}

	result, err := jsonq.Run(doc, query)
	if err != nil {
		return "", err
	}

	rt.Session.SetDoc("_", result)

	if quiet {
		return "", nil
	}
	out, err := jsonq.Format(result)
	if err != nil {
		return "", err
	}
	return out, nil
}

// trimQuotes strips one level of matching quotes around a jq query, so
// both `jq last '.users[0]'` and `jq last .users[0]` work.
func trimQuotes(s string) string {
	if len(s) >= 2 {
		if (s[0] == '\'' && s[len(s)-1] == '\'') || (s[0] == '"' && s[len(s)-1] == '"') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

func cmdSet(rt *Runtime, args string) (string, error) {
	name, literal, ok := strings.Cut(args, " ")
	if !ok || strings.TrimSpace(literal) == "" {
		return "Usage: set <name> <json>", nil
	}
	if name == "last" || name == "_" || isAutoName(name) {
		return "", fmt.Errorf("%q is a reserved name", name)
	}

	var doc any
	if err := json.Unmarshal([]byte(strings.TrimSpace(literal)), &doc); err != nil {
		return "", fmt.Errorf("invalid JSON: %v", err)
	}
	rt.Session.SetDoc(name, doc)
	return "", nil
}

// isAutoName reports whether a name collides with auto-bound r<N> names.
func isAutoName(name string) bool {
	if len(name) < 2 || name[0] != 'r' {
		return false
	}
	_, err := strconv.Atoi(name[1:])
	return err == nil
}

func cmdVars(rt *Runtime, args string) (string, error) {
	names := rt.Session.Names()
	if len(names) == 0 {
		return "No variables bound yet. Run a curl command first.", nil
	}
	var b strings.Builder
	for _, name := range names {
		v, _ := rt.Session.Get(name)
		fmt.Fprintf(&b, "%-8s %s\n", name, v.Summary())
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func cmdEnv(rt *Runtime, args string) (string, error) {
	if args == "" {
		names := rt.Session.EnvNames()
		if len(names) == 0 {
			return "No interpolation variables set.", nil
		}
		var b strings.Builder
		for _, name := range names {
			v, _ := rt.Session.EnvValue(name)
			fmt.Fprintf(&b, "%-16s %s\n", name, v)
		}
		return strings.TrimRight(b.String(), "\n"), nil
	}

	name, value, ok := strings.Cut(args, " ")
	if !ok {
		return "Usage: env [name value]", nil
	}
	rt.Session.SetEnv(name, strings.TrimSpace(value))
	return "", nil
}

func cmdHistory(rt *Runtime, args string) (string, error) {
	if rt.History == nil {
		return "", fmt.Errorf("history is not available")
	}

	limit := 20
	if args != "" {
		limit = 200
	}
	entries, err := rt.History.List(limit, 0)
	if err != nil {
		return "", err
	}

	if args != "" {
		entries = fuzzyFilter(entries, args)
	}
	if len(entries) == 0 {
		return "No matching history entries.", nil
	}

	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "%4d  %-6s %-40s %3d  %8s  %8s  %s\n",
			e.ID, e.Method, truncateStr(e.URL, 40), e.StatusCode,
			e.Duration.Round(time.Millisecond),
			humanize.IBytes(uint64(e.Size)),
			humanize.Time(e.Timestamp))
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// fuzzyFilter narrows history entries by fuzzy-matching "METHOD url".
func fuzzyFilter(entries []history.Entry, term string) []history.Entry {
	haystack := make([]string, len(entries))
	for i, e := range entries {
		haystack[i] = e.Method + " " + e.URL
	}
	matches := fuzzy.Find(term, haystack)
	out := make([]history.Entry, 0, len(matches))
	for _, m := range matches {
		out = append(out, entries[m.Index])
	}
	return out
}

func cmdReplay(rt *Runtime, args string) (string, error) {
	if rt.History == nil {
		return "", fmt.Errorf("history is not available")
	}
	if args == "" {
		return "Usage: replay <id>", nil
	}

	id, err := strconv.ParseInt(args, 10, 64)
	if err != nil {
		return "", fmt.Errorf("invalid history id %q", args)
	}

	entry, err := rt.History.Get(id)
	if err != nil {
		return "", err
	}
	req, err := entry.Request()
	if err != nil {
		return "", err
	}

	ex, name, err := rt.ExecuteRequest(req)
	if err != nil {
		return "", fmt.Errorf("replaying request: %v", err)
	}
	return resultLine(ex, name), nil
}

func cmdCopy(rt *Runtime, args string) (string, error) {
	name := args
	if name == "" {
		name = "last"
	}
	ex, err := rt.exchangeVar(name)
	if err != nil {
		return "", err
	}
	if ex.Response == nil {
		return "", fmt.Errorf("%s has no response body", name)
	}

	if err := clipboard.WriteAll(string(ex.Response.Body)); err != nil {
		return "", fmt.Errorf("copying to clipboard: %v", err)
	}
	return fmt.Sprintf("Copied %s to clipboard.", humanize.IBytes(uint64(len(ex.Response.Body)))), nil
}

func cmdScript(rt *Runtime, args string) (string, error) {
	if args == "" {
		return "Usage: script <file.js | expression>", nil
	}

	ex, err := rt.exchangeVar("last")
	if err != nil {
		return "", fmt.Errorf("no exchange to script against: run a curl command first")
	}

	src := args
	if st, statErr := os.Stat(args); statErr == nil && !st.IsDir() {
		data, readErr := os.ReadFile(args)
		if readErr != nil {
			return "", fmt.Errorf("reading script: %w", readErr)
		}
		src = string(data)
	}

	req, resp := scripting.SnapshotExchange(ex)
	result := rt.Engine.Run(src, req, resp)

	var b strings.Builder
	for _, log := range result.Logs {
		fmt.Fprintf(&b, "[log] %s\n", log)
	}
	for _, tr := range result.TestResults {
		if tr.Passed {
			fmt.Fprintf(&b, "✓ %s\n", tr.Name)
		} else {
			fmt.Fprintf(&b, "✗ %s: %s\n", tr.Name, tr.Error)
		}
	}
	if result.Err != nil {
		fmt.Fprintf(&b, "%v\n", result.Err)
	}
	out := strings.TrimRight(b.String(), "\n")
	if out == "" {
		out = "Script finished with no output."
	}
	return out, nil
}

func cmdClearHistory(rt *Runtime, args string) (string, error) {
	if rt.History == nil {
		return "", fmt.Errorf("history is not available")
	}
	if err := rt.History.Clear(); err != nil {
		return "", err
	}
	return "History cleared.", nil
}

func truncateStr(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
