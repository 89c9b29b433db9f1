package history

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sadopc/reqshell/internal/protocol"
)

// Entry represents a single persisted exchange.
type Entry struct {
	ID           int64
	Method       string
	URL          string
	StatusCode   int
	Duration     time.Duration
	Size         int64
	RequestBody  string
	ResponseBody string
	Headers      string // JSON-encoded request headers
	Timestamp    time.Time
}

// FromExchange builds an Entry from a completed exchange.
func FromExchange(ex *protocol.Exchange) Entry {
	e := Entry{
		Method:      ex.Request.Method,
		URL:         ex.Request.URL,
		RequestBody: string(ex.Request.Body),
		Timestamp:   ex.At,
	}
	if headers, err := json.Marshal(ex.Request.Headers); err == nil {
		e.Headers = string(headers)
	}
	if ex.Response != nil {
		e.StatusCode = ex.Response.StatusCode
		e.Duration = ex.Response.Duration
		e.Size = ex.Response.Size
		e.ResponseBody = string(ex.Response.Body)
	}
	return e
}

// Request reconstructs a protocol.Request for replaying the entry.
func (e Entry) Request() (*protocol.Request, error) {
	headers := make(map[string]string)
	if e.Headers != "" {
		if err := json.Unmarshal([]byte(e.Headers), &headers); err != nil {
			return nil, fmt.Errorf("decoding stored headers: %w", err)
		}
	}
	req := &protocol.Request{
		ID:      uuid.New().String(),
		Method:  e.Method,
		URL:     e.URL,
		Headers: headers,
		Params:  make(map[string]string),
		Cookies: make(map[string]string),
	}
	if e.RequestBody != "" {
		req.Body = []byte(e.RequestBody)
	}
	return req, nil
}
