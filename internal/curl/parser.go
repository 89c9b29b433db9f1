// Package curl translates a curl-style command line into a
// protocol.Request. It understands the subset of curl options that
// matter for issuing a request; output and progress flags are accepted
// and ignored so that pasted commands work as-is.
package curl

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sadopc/reqshell/internal/protocol"
)

// Parse parses a curl command string into a protocol.Request.
func Parse(input string) (*protocol.Request, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("empty input")
	}

	// Handle line continuations
	input = strings.ReplaceAll(input, "\\\r\n", " ")
	input = strings.ReplaceAll(input, "\\\n", " ")

	return ParseArgs(tokenize(input))
}

// ParseArgs parses already-split curl arguments, as delivered in argv.
// Values are taken literally; no quote processing happens here.
func ParseArgs(args []string) (*protocol.Request, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("empty command")
	}

	// Strip leading "curl" if present
	if strings.ToLower(args[0]) == "curl" {
		args = args[1:]
	}

	req := &protocol.Request{
		Method:  "GET",
		Headers: make(map[string]string),
		Params:  make(map[string]string),
		Cookies: make(map[string]string),
	}

	i := 0
	for i < len(args) {
		arg := args[i]
		switch {
		case arg == "-X" || arg == "--request":
			i++
			if i < len(args) {
				req.Method = strings.ToUpper(args[i])
			}
		case arg == "-H" || arg == "--header":
			i++
			if i < len(args) {
				key, val := parseHeader(args[i])
				if key != "" {
					req.Headers[key] = val
				}
			}
		case arg == "-d" || arg == "--data" || arg == "--data-raw" || arg == "--data-binary":
			i++
			if i < len(args) {
				req.Body = appendBody(req.Body, args[i])
				if req.Method == "GET" {
					req.Method = "POST"
				}
			}
		case arg == "--data-urlencode":
			i++
			if i < len(args) {
				req.Body = appendBody(req.Body, urlencodeData(args[i]))
				if req.Method == "GET" {
					req.Method = "POST"
				}
			}
		case arg == "-u" || arg == "--user":
			i++
			if i < len(args) {
				parts := strings.SplitN(args[i], ":", 2)
				req.Auth = &protocol.AuthConfig{Type: "basic", Username: parts[0]}
				if len(parts) > 1 {
					req.Auth.Password = parts[1]
				}
			}
		case arg == "-A" || arg == "--user-agent":
			i++
			if i < len(args) {
				req.Headers["User-Agent"] = args[i]
			}
		case arg == "-e" || arg == "--referer":
			i++
			if i < len(args) {
				req.Headers["Referer"] = args[i]
			}
		case arg == "-b" || arg == "--cookie":
			i++
			if i < len(args) {
				parseCookies(args[i], req.Cookies)
			}
		case arg == "-x" || arg == "--proxy":
			i++
			if i < len(args) {
				req.ProxyURL = args[i]
			}
		case arg == "-m" || arg == "--max-time":
			i++
			if i < len(args) {
				secs, err := strconv.ParseFloat(args[i], 64)
				if err != nil {
					return nil, fmt.Errorf("invalid --max-time value %q", args[i])
				}
				req.Timeout = time.Duration(secs * float64(time.Second))
			}
		case arg == "--url":
			i++
			if i < len(args) {
				req.URL = args[i]
			}
		case arg == "-k" || arg == "--insecure":
			req.Insecure = true
		case arg == "--compressed" ||
			arg == "-v" || arg == "--verbose" || arg == "-s" || arg == "--silent" ||
			arg == "-S" || arg == "--show-error" || arg == "-L" || arg == "--location" ||
			arg == "-i" || arg == "--include" || arg == "-f" || arg == "--fail" ||
			arg == "-G" || arg == "--get":
			// Accepted and ignored
		case arg == "-o" || arg == "--output":
			i++ // skip the output filename
		case !strings.HasPrefix(arg, "-"):
			// Positional argument = URL
			if req.URL == "" {
				req.URL = arg
			}
		}
		i++
	}

	if req.URL == "" {
		return nil, fmt.Errorf("no URL found in curl command")
	}
	if !strings.Contains(req.URL, "://") {
		req.URL = "http://" + req.URL
	}

	return req, nil
}

// appendBody joins repeated -d values with '&', as curl does.
func appendBody(body []byte, data string) []byte {
	if len(body) == 0 {
		return []byte(data)
	}
	return append(append(body, '&'), data...)
}

// urlencodeData encodes a --data-urlencode argument. A "name=value"
// form encodes only the value; a bare value is encoded whole.
func urlencodeData(s string) string {
	if idx := strings.Index(s, "="); idx >= 0 {
		return s[:idx+1] + url.QueryEscape(s[idx+1:])
	}
	return url.QueryEscape(s)
}

// parseCookies parses a curl cookie string ("a=1; b=2") into the map.
func parseCookies(s string, out map[string]string) {
	for _, pair := range strings.Split(s, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) == 2 {
			out[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
		}
	}
}

// tokenize splits a shell command into tokens, handling single and double quotes.
func tokenize(input string) []string {
	var tokens []string
	var current strings.Builder
	inSingle := false
	inDouble := false
	escaped := false
	hasToken := false

	for _, r := range input {
		if escaped {
			current.WriteRune(r)
			escaped = false
			continue
		}

		if r == '\\' && !inSingle {
			escaped = true
			continue
		}

		if r == '\'' && !inDouble {
			inSingle = !inSingle
			hasToken = true
			continue
		}

		if r == '"' && !inSingle {
			inDouble = !inDouble
			hasToken = true
			continue
		}

		if (r == ' ' || r == '\t' || r == '\n') && !inSingle && !inDouble {
			if current.Len() > 0 || hasToken {
				tokens = append(tokens, current.String())
				current.Reset()
				hasToken = false
			}
			continue
		}

		current.WriteRune(r)
	}

	if current.Len() > 0 || hasToken {
		tokens = append(tokens, current.String())
	}

	return tokens
}

// parseHeader parses "Key: Value" into key and value.
func parseHeader(s string) (string, string) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return s, ""
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
}
