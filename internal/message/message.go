// Package message holds an immutable snapshot of an HTTP request or
// response and renders it for the terminal: headers itemized, JSON
// bodies pretty-printed and highlighted, long bodies truncated.
package message

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/sadopc/reqshell/internal/protocol"
)

// DefaultMaxBodyLength is the display truncation limit for non-JSON bodies.
const DefaultMaxBodyLength = 2000

const frameWidth = 80

// Message is a display snapshot of one side of an HTTP exchange.
// StatusCode == 0 marks the request side.
type Message struct {
	Method     string
	URL        string
	Headers    map[string]string
	Body       string
	StatusCode int
	Reason     string
}

// FromRequest builds a Message from the request side of an exchange.
// When the exchange has completed, the headers as actually sent are
// used instead of the ones the parser produced.
func FromRequest(ex *protocol.Exchange) Message {
	headers := make(map[string]string)
	if ex.Response != nil && ex.Response.SentHeaders != nil {
		for k, vals := range ex.Response.SentHeaders {
			headers[k] = strings.Join(vals, ", ")
		}
	} else {
		for k, v := range ex.Request.Headers {
			headers[k] = v
		}
	}

	return Message{
		Method:  ex.Request.Method,
		URL:     ex.Request.URL,
		Headers: headers,
		Body:    bodyString(ex.Request.Body),
	}
}

// FromResponse builds a Message from the response side of an exchange.
func FromResponse(ex *protocol.Exchange) (Message, error) {
	if ex.Response == nil {
		return Message{}, fmt.Errorf("exchange has no response")
	}

	headers := make(map[string]string, len(ex.Response.Headers))
	for k, vals := range ex.Response.Headers {
		headers[k] = strings.Join(vals, ", ")
	}

	return Message{
		Method:     ex.Request.Method,
		URL:        ex.Request.URL,
		Headers:    headers,
		Body:       bodyString(ex.Response.Body),
		StatusCode: ex.Response.StatusCode,
		Reason:     ex.Response.Reason,
	}, nil
}

// bodyString decodes a body for display. Bodies that are not valid
// UTF-8 render as a placeholder instead of raw bytes.
func bodyString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	if !utf8.Valid(b) {
		return fmt.Sprintf("<binary data, %d bytes>", len(b))
	}
	return string(b)
}

// RenderOptions controls Render output.
type RenderOptions struct {
	MaxBodyLength int  // 0 means DefaultMaxBodyLength
	Color         bool // syntax-highlight JSON bodies
}

// Render formats the message for the terminal.
func (m Message) Render(opts RenderOptions) string {
	maxLen := opts.MaxBodyLength
	if maxLen <= 0 {
		maxLen = DefaultMaxBodyLength
	}

	var b strings.Builder
	frame := strings.Repeat("=", frameWidth)
	sep := strings.Repeat("-", frameWidth)

	b.WriteString(frame)
	b.WriteByte('\n')

	if m.StatusCode != 0 {
		fmt.Fprintf(&b, "Status: %d %s\n", m.StatusCode, m.Reason)
	} else {
		fmt.Fprintf(&b, "Method: %s\n", m.Method)
	}
	fmt.Fprintf(&b, "URL:    %s\n", m.URL)
	b.WriteString(sep)
	b.WriteByte('\n')

	b.WriteString("Headers:\n")
	keys := make([]string, 0, len(m.Headers))
	for k := range m.Headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "  %s: %s\n", k, m.Headers[k])
	}
	b.WriteString(sep)
	b.WriteByte('\n')

	b.WriteString("Body:\n")
	b.WriteString(m.renderBody(maxLen, opts.Color))

	b.WriteString(frame)
	return b.String()
}

func (m Message) renderBody(maxLen int, color bool) string {
	if m.Body == "" {
		return "  <empty>\n"
	}

	if isJSONContentType(m.ContentType()) {
		if out, ok := prettyJSON(m.Body, color); ok {
			return out
		}
	}
	return truncate(m.Body, maxLen) + "\n"
}

// ContentType returns the Content-Type header, matched case-insensitively.
func (m Message) ContentType() string {
	for k, v := range m.Headers {
		if strings.EqualFold(k, "Content-Type") {
			return v
		}
	}
	return ""
}

func isJSONContentType(ct string) bool {
	return strings.Contains(strings.ToLower(ct), "json")
}

func truncate(body string, maxLen int) string {
	runes := []rune(body)
	if len(runes) > maxLen {
		return string(runes[:maxLen]) + "\n... [truncated]"
	}
	return body
}
