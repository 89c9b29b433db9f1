// Package session holds the shell's variable namespace: executed
// exchanges, JSON documents, and interpolation variables.
package session

import (
	"encoding/json"
	"fmt"

	"github.com/sadopc/reqshell/internal/protocol"
)

// Kind discriminates what a session variable holds.
type Kind int

const (
	KindExchange Kind = iota
	KindDoc
)

// Value is a single session variable: an HTTP exchange or a JSON document.
type Value struct {
	Kind     Kind
	Exchange *protocol.Exchange
	Doc      any
}

// Session is the variable namespace for one shell run. It is used from
// a single goroutine; no locking.
type Session struct {
	vars    map[string]Value
	order   []string
	counter int
	env     map[string]string
}

// New creates an empty session.
func New() *Session {
	return &Session{
		vars: make(map[string]Value),
		env:  make(map[string]string),
	}
}

// BindExchange stores an exchange under the next auto name (r1, r2, ...)
// and rebinds "last". Returns the auto name.
func (s *Session) BindExchange(ex *protocol.Exchange) string {
	s.counter++
	name := fmt.Sprintf("r%d", s.counter)
	s.set(name, Value{Kind: KindExchange, Exchange: ex})
	s.set("last", Value{Kind: KindExchange, Exchange: ex})
	return name
}

// SetDoc binds a JSON document under the given name.
func (s *Session) SetDoc(name string, doc any) {
	s.set(name, Value{Kind: KindDoc, Doc: doc})
}

func (s *Session) set(name string, v Value) {
	if _, exists := s.vars[name]; !exists {
		s.order = append(s.order, name)
	}
	s.vars[name] = v
}

// Get looks up a variable by name.
func (s *Session) Get(name string) (Value, bool) {
	v, ok := s.vars[name]
	return v, ok
}

// Names returns variable names in binding order.
func (s *Session) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// JSONView resolves a variable to a JSON document. An exchange resolves
// to its response body parsed as JSON.
func (s *Session) JSONView(name string) (any, error) {
	v, ok := s.vars[name]
	if !ok {
		return nil, fmt.Errorf("undefined variable %q", name)
	}

	switch v.Kind {
	case KindDoc:
		return v.Doc, nil
	case KindExchange:
		if v.Exchange.Response == nil {
			return nil, fmt.Errorf("%s has no response", name)
		}
		var doc any
		if err := json.Unmarshal(v.Exchange.Response.Body, &doc); err != nil {
			return nil, fmt.Errorf("response body of %s is not JSON: %w", name, err)
		}
		return doc, nil
	default:
		return nil, fmt.Errorf("unknown variable kind for %q", name)
	}
}

// Summary describes a variable in one line for the vars listing.
func (v Value) Summary() string {
	switch v.Kind {
	case KindExchange:
		ex := v.Exchange
		if ex.Response != nil {
			return fmt.Sprintf("%s %s -> %d %s (%d bytes)",
				ex.Request.Method, ex.Request.URL,
				ex.Response.StatusCode, ex.Response.Reason, ex.Response.Size)
		}
		return fmt.Sprintf("%s %s (no response)", ex.Request.Method, ex.Request.URL)
	case KindDoc:
		b, err := json.Marshal(v.Doc)
		if err != nil {
			return "<unencodable document>"
		}
		const max = 60
		if len(b) > max {
			return string(b[:max]) + "..."
		}
		return string(b)
	default:
		return "<unknown>"
	}
}
