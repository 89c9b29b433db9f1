package protocol

import (
	"net/http"
	"time"
)

// Request is the unified request type produced by the curl parser and
// consumed by the HTTP client.
type Request struct {
	ID      string
	Method  string
	URL     string
	Headers map[string]string
	Params  map[string]string
	Cookies map[string]string
	Body    []byte
	Auth    *AuthConfig

	// Transport options
	ProxyURL string
	Insecure bool
	Timeout  time.Duration
}

// AuthConfig holds authentication settings.
type AuthConfig struct {
	Type     string // none, basic, bearer
	Username string
	Password string
	Token    string
}

// Response is the unified response type.
type Response struct {
	StatusCode  int
	Status      string
	Reason      string
	Headers     http.Header
	Body        []byte
	ContentType string
	Duration    time.Duration
	Size        int64
	Proto       string
	TLS         bool

	// SentHeaders are the request headers as actually written to the
	// wire, after defaults and auth were applied. The request side of
	// an exchange is displayed from these, not from Request.Headers.
	SentHeaders http.Header

	Timing *TimingDetail
}

// TimingDetail breaks the total duration into connection phases.
type TimingDetail struct {
	DNSLookup    time.Duration
	TCPConnect   time.Duration
	TLSHandshake time.Duration
	TTFB         time.Duration
	Transfer     time.Duration
	Total        time.Duration
}

// Exchange couples a request with the response it produced. It is the
// value bound into the session after each executed command.
type Exchange struct {
	ID       string
	Request  *Request
	Response *Response
	At       time.Time
}
