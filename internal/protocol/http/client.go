// Package http executes protocol.Requests over net/http and collects
// per-phase timing via httptrace.
package http

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptrace"
	"net/url"
	"strings"
	"time"

	"github.com/sadopc/reqshell/internal/protocol"
	"golang.org/x/net/proxy"
)

// DefaultTimeout applies when neither the request nor the client sets one.
const DefaultTimeout = 30 * time.Second

// UserAgent is sent when the request carries no User-Agent header.
var UserAgent = "reqshell"

// ProxyConfig holds proxy settings.
type ProxyConfig struct {
	URL     string // http://, https://, or socks5:// proxy URL
	NoProxy string // comma-separated list of hosts to bypass proxy
}

// Client executes HTTP requests.
type Client struct {
	timeout   time.Duration
	proxyConf *ProxyConfig
	redirects int
}

// New creates a new HTTP client.
func New() *Client {
	return &Client{
		timeout:   DefaultTimeout,
		redirects: 10,
	}
}

// SetTimeout sets the default client timeout.
func (c *Client) SetTimeout(d time.Duration) {
	if d > 0 {
		c.timeout = d
	}
}

// SetProxy configures client-level proxy settings.
func (c *Client) SetProxy(proxyURL, noProxy string) {
	if proxyURL == "" {
		c.proxyConf = nil
		return
	}
	c.proxyConf = &ProxyConfig{URL: proxyURL, NoProxy: noProxy}
}

// Validate checks that a request can be executed.
func (c *Client) Validate(req *protocol.Request) error {
	if req.URL == "" {
		return fmt.Errorf("URL is required")
	}
	if req.Method == "" {
		return fmt.Errorf("method is required")
	}
	if _, err := url.Parse(req.URL); err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	return nil
}

// Execute sends the request and returns the response with timing and
// the headers as actually sent.
func (c *Client) Execute(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
	if err := c.Validate(req); err != nil {
		return nil, err
	}

	// Build URL with query params
	u, err := url.Parse(req.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing URL: %w", err)
	}
	if len(req.Params) > 0 {
		q := u.Query()
		for k, v := range req.Params {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}

	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	if httpReq.Header.Get("User-Agent") == "" {
		httpReq.Header.Set("User-Agent", UserAgent)
	}
	for k, v := range req.Cookies {
		httpReq.AddCookie(&http.Cookie{Name: k, Value: v})
	}
	applyAuth(httpReq, req.Auth)

	timeout := req.Timeout
	if timeout == 0 {
		timeout = c.timeout
	}

	transport, err := c.buildTransport(req.ProxyURL, req.Insecure)
	if err != nil {
		return nil, fmt.Errorf("configuring transport: %w", err)
	}

	client := &http.Client{
		Timeout:   timeout,
		Transport: transport,
		CheckRedirect: func(r *http.Request, via []*http.Request) error {
			if len(via) >= c.redirects {
				return fmt.Errorf("too many redirects")
			}
			return nil
		},
	}

	// Set up httptrace for detailed timing
	var dnsStart, connStart, tlsStart, gotConn, gotFirstByte time.Time
	var dnsDuration, connDuration, tlsDuration time.Duration

	trace := &httptrace.ClientTrace{
		DNSStart: func(_ httptrace.DNSStartInfo) {
			dnsStart = time.Now()
		},
		DNSDone: func(_ httptrace.DNSDoneInfo) {
			dnsDuration = time.Since(dnsStart)
		},
		ConnectStart: func(_, _ string) {
			connStart = time.Now()
		},
		ConnectDone: func(_, _ string, _ error) {
			connDuration = time.Since(connStart)
		},
		TLSHandshakeStart: func() {
			tlsStart = time.Now()
		},
		TLSHandshakeDone: func(_ tls.ConnectionState, _ error) {
			tlsDuration = time.Since(tlsStart)
		},
		GotConn: func(_ httptrace.GotConnInfo) {
			gotConn = time.Now()
		},
		GotFirstResponseByte: func() {
			gotFirstByte = time.Now()
		},
	}

	httpReq = httpReq.WithContext(httptrace.WithClientTrace(httpReq.Context(), trace))

	// Snapshot headers before the transport mutates the request
	sentHeaders := httpReq.Header.Clone()
	if httpReq.Host != "" {
		sentHeaders.Set("Host", httpReq.Host)
	} else {
		sentHeaders.Set("Host", u.Host)
	}
	if len(req.Body) > 0 && sentHeaders.Get("Content-Length") == "" {
		sentHeaders.Set("Content-Length", fmt.Sprintf("%d", len(req.Body)))
	}

	start := time.Now()
	resp, err := client.Do(httpReq)
	duration := time.Since(start)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	transferStart := time.Now()
	respBody, err := io.ReadAll(resp.Body)
	transferDuration := time.Since(transferStart)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	var ttfb time.Duration
	if !gotConn.IsZero() && !gotFirstByte.IsZero() {
		ttfb = gotFirstByte.Sub(gotConn)
	}

	return &protocol.Response{
		StatusCode:  resp.StatusCode,
		Status:      resp.Status,
		Reason:      reasonPhrase(resp),
		Headers:     resp.Header,
		Body:        respBody,
		ContentType: resp.Header.Get("Content-Type"),
		Duration:    duration,
		Size:        int64(len(respBody)),
		Proto:       resp.Proto,
		TLS:         resp.TLS != nil,
		SentHeaders: sentHeaders,
		Timing: &protocol.TimingDetail{
			DNSLookup:    dnsDuration,
			TCPConnect:   connDuration,
			TLSHandshake: tlsDuration,
			TTFB:         ttfb,
			Transfer:     transferDuration,
			Total:        duration,
		},
	}, nil
}

// reasonPhrase extracts the reason phrase from a status line like
// "200 OK". Falls back to the standard text for the code.
func reasonPhrase(resp *http.Response) string {
	if _, after, ok := strings.Cut(resp.Status, " "); ok && after != "" {
		return after
	}
	return http.StatusText(resp.StatusCode)
}

// buildTransport creates an http.Transport configured with proxy and
// TLS settings. perRequestProxy overrides the client-level proxy.
func (c *Client) buildTransport(perRequestProxy string, insecure bool) (http.RoundTripper, error) {
	transport := &http.Transport{
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	if insecure {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	proxyURL := perRequestProxy
	noProxy := ""
	if proxyURL == "" && c.proxyConf != nil {
		proxyURL = c.proxyConf.URL
		noProxy = c.proxyConf.NoProxy
	}

	if proxyURL != "" {
		parsed, err := url.Parse(proxyURL)
		if err != nil {
			return nil, fmt.Errorf("parsing proxy URL: %w", err)
		}

		switch parsed.Scheme {
		case "socks5", "socks5h":
			var auth *proxy.Auth
			if parsed.User != nil {
				password, _ := parsed.User.Password()
				auth = &proxy.Auth{
					User:     parsed.User.Username(),
					Password: password,
				}
			}
			dialer, err := proxy.SOCKS5("tcp", parsed.Host, auth, proxy.Direct)
			if err != nil {
				return nil, fmt.Errorf("creating SOCKS5 dialer: %w", err)
			}
			transport.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
				return dialer.Dial(network, addr)
			}
		case "http", "https":
			if noProxy != "" {
				noProxyHosts := parseNoProxy(noProxy)
				transport.Proxy = func(r *http.Request) (*url.URL, error) {
					if shouldBypassProxy(r.URL.Hostname(), noProxyHosts) {
						return nil, nil
					}
					return parsed, nil
				}
			} else {
				transport.Proxy = http.ProxyURL(parsed)
			}
		default:
			return nil, fmt.Errorf("unsupported proxy scheme: %s", parsed.Scheme)
		}
	}

	return transport, nil
}

// parseNoProxy splits a comma-separated no-proxy string into trimmed host entries.
func parseNoProxy(noProxy string) []string {
	parts := strings.Split(noProxy, ",")
	hosts := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			hosts = append(hosts, strings.ToLower(p))
		}
	}
	return hosts
}

// shouldBypassProxy checks whether a host should bypass the proxy.
func shouldBypassProxy(host string, noProxyHosts []string) bool {
	host = strings.ToLower(host)
	for _, h := range noProxyHosts {
		if h == host {
			return true
		}
		// Support wildcard suffix matching (e.g., .example.com)
		if strings.HasPrefix(h, ".") && strings.HasSuffix(host, h) {
			return true
		}
	}
	return false
}

func applyAuth(req *http.Request, auth *protocol.AuthConfig) {
	if auth == nil || auth.Type == "none" {
		return
	}
	switch auth.Type {
	case "basic":
		encoded := base64.StdEncoding.EncodeToString(
			[]byte(auth.Username + ":" + auth.Password),
		)
		req.Header.Set("Authorization", "Basic "+encoded)
	case "bearer":
		req.Header.Set("Authorization", "Bearer "+auth.Token)
	}
}
