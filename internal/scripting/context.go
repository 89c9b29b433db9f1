package scripting

import (
	"encoding/json"
	"strings"

	"github.com/sadopc/reqshell/internal/protocol"
)

// ScriptRequest is the request snapshot exposed to scripts.
type ScriptRequest struct {
	Method  string            `json:"method"`
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers"`
	Body    string            `json:"body"`
}

// ScriptResponse is the response snapshot exposed to scripts.
type ScriptResponse struct {
	StatusCode int               `json:"statusCode"`
	Status     string            `json:"status"`
	Headers    map[string]string `json:"headers"`
	Body       string            `json:"body"`
	DurationMs int64             `json:"durationMs"`
}

// JSON parses the response body so scripts can traverse it directly.
func (r *ScriptResponse) JSON() (any, error) {
	var doc any
	err := json.Unmarshal([]byte(r.Body), &doc)
	return doc, err
}

// SnapshotExchange converts an exchange into script-facing snapshots.
// The response snapshot is nil when the exchange has no response.
func SnapshotExchange(ex *protocol.Exchange) (*ScriptRequest, *ScriptResponse) {
	req := &ScriptRequest{
		Method:  ex.Request.Method,
		URL:     ex.Request.URL,
		Headers: make(map[string]string, len(ex.Request.Headers)),
		Body:    string(ex.Request.Body),
	}
	for k, v := range ex.Request.Headers {
		req.Headers[k] = v
	}

	if ex.Response == nil {
		return req, nil
	}

	resp := &ScriptResponse{
		StatusCode: ex.Response.StatusCode,
		Status:     ex.Response.Status,
		Headers:    make(map[string]string, len(ex.Response.Headers)),
		Body:       string(ex.Response.Body),
		DurationMs: ex.Response.Duration.Milliseconds(),
	}
	for k, vals := range ex.Response.Headers {
		resp.Headers[k] = strings.Join(vals, ", ")
	}
	return req, resp
}
