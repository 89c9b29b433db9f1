package curl

import "testing"

func TestParse_SimpleGET(t *testing.T) {
	req, err := Parse(`curl https://api.example.com/users`)
	if err != nil {
		t.Fatal(err)
	}
	if req.Method != "GET" {
		t.Errorf("expected GET, got %s", req.Method)
	}
	if req.URL != "https://api.example.com/users" {
		t.Errorf("expected URL, got %s", req.URL)
	}
}

func TestParse_WithoutLeadingCurl(t *testing.T) {
	req, err := Parse(`-X DELETE https://api.example.com/users/1`)
	if err != nil {
		t.Fatal(err)
	}
	if req.Method != "DELETE" {
		t.Errorf("expected DELETE, got %s", req.Method)
	}
}

func TestParse_POST_WithBody(t *testing.T) {
	req, err := Parse(`curl -X POST -H 'Content-Type: application/json' -d '{"name":"test"}' https://api.example.com/users`)
	if err != nil {
		t.Fatal(err)
	}
	if req.Method != "POST" {
		t.Errorf("expected POST, got %s", req.Method)
	}
	if string(req.Body) != `{"name":"test"}` {
		t.Errorf("unexpected body: %s", string(req.Body))
	}
	if req.Headers["Content-Type"] != "application/json" {
		t.Errorf("expected Content-Type header, got %v", req.Headers)
	}
}

func TestParse_RepeatedData(t *testing.T) {
	req, err := Parse(`curl -d 'a=1' -d 'b=2' https://api.example.com`)
	if err != nil {
		t.Fatal(err)
	}
	if string(req.Body) != "a=1&b=2" {
		t.Errorf("expected joined body, got %s", string(req.Body))
	}
}

func TestParse_DataURLEncode(t *testing.T) {
	req, err := Parse(`curl --data-urlencode 'q=hello world' https://api.example.com/search`)
	if err != nil {
		t.Fatal(err)
	}
	if string(req.Body) != "q=hello+world" {
		t.Errorf("expected encoded body, got %s", string(req.Body))
	}
	if req.Method != "POST" {
		t.Errorf("expected implicit POST, got %s", req.Method)
	}
}

func TestParse_BasicAuth(t *testing.T) {
	req, err := Parse(`curl -u admin:secret https://api.example.com/private`)
	if err != nil {
		t.Fatal(err)
	}
	if req.Auth == nil {
		t.Fatal("expected auth config")
	}
	if req.Auth.Type != "basic" {
		t.Errorf("expected basic auth, got %s", req.Auth.Type)
	}
	if req.Auth.Username != "admin" || req.Auth.Password != "secret" {
		t.Errorf("unexpected credentials: %s:%s", req.Auth.Username, req.Auth.Password)
	}
}

func TestParse_MultipleHeaders(t *testing.T) {
	req, err := Parse(`curl -H "Accept: application/json" -H "Authorization: Bearer token123" https://api.example.com`)
	if err != nil {
		t.Fatal(err)
	}
	if req.Headers["Accept"] != "application/json" {
		t.Errorf("missing Accept header")
	}
	if req.Headers["Authorization"] != "Bearer token123" {
		t.Errorf("missing Authorization header")
	}
}

func TestParse_Cookies(t *testing.T) {
	req, err := Parse(`curl -b 'session=abc123; theme=dark' https://api.example.com`)
	if err != nil {
		t.Fatal(err)
	}
	if req.Cookies["session"] != "abc123" {
		t.Errorf("missing session cookie: %v", req.Cookies)
	}
	if req.Cookies["theme"] != "dark" {
		t.Errorf("missing theme cookie: %v", req.Cookies)
	}
}

func TestParse_UserAgentAndReferer(t *testing.T) {
	req, err := Parse(`curl -A 'test-agent/1.0' -e 'https://example.com' https://api.example.com`)
	if err != nil {
		t.Fatal(err)
	}
	if req.Headers["User-Agent"] != "test-agent/1.0" {
		t.Errorf("missing User-Agent: %v", req.Headers)
	}
	if req.Headers["Referer"] != "https://example.com" {
		t.Errorf("missing Referer: %v", req.Headers)
	}
}

func TestParse_Proxy(t *testing.T) {
	req, err := Parse(`curl -x socks5://localhost:1080 https://api.example.com`)
	if err != nil {
		t.Fatal(err)
	}
	if req.ProxyURL != "socks5://localhost:1080" {
		t.Errorf("unexpected proxy: %s", req.ProxyURL)
	}
}

func TestParse_MaxTime(t *testing.T) {
	req, err := Parse(`curl -m 2.5 https://api.example.com`)
	if err != nil {
		t.Fatal(err)
	}
	if req.Timeout.Seconds() != 2.5 {
		t.Errorf("unexpected timeout: %s", req.Timeout)
	}
}

func TestParse_MaxTimeInvalid(t *testing.T) {
	_, err := Parse(`curl -m nope https://api.example.com`)
	if err == nil {
		t.Error("expected error for invalid max-time")
	}
}

func TestParse_Insecure(t *testing.T) {
	req, err := Parse(`curl -k https://self-signed.example.com`)
	if err != nil {
		t.Fatal(err)
	}
	if !req.Insecure {
		t.Error("expected insecure flag")
	}
}

func TestParse_URLFlag(t *testing.T) {
	req, err := Parse(`curl --url https://api.example.com/v2`)
	if err != nil {
		t.Fatal(err)
	}
	if req.URL != "https://api.example.com/v2" {
		t.Errorf("unexpected URL: %s", req.URL)
	}
}

func TestParse_SchemeDefault(t *testing.T) {
	req, err := Parse(`curl localhost:8080/json`)
	if err != nil {
		t.Fatal(err)
	}
	if req.URL != "http://localhost:8080/json" {
		t.Errorf("expected http scheme default, got %s", req.URL)
	}
}

func TestParse_ImplicitPOST(t *testing.T) {
	req, err := Parse(`curl -d 'data=value' https://api.example.com`)
	if err != nil {
		t.Fatal(err)
	}
	if req.Method != "POST" {
		t.Errorf("expected implicit POST, got %s", req.Method)
	}
}

func TestParse_ExplicitMethodWithData(t *testing.T) {
	req, err := Parse(`curl -X PUT -d 'data=value' https://api.example.com`)
	if err != nil {
		t.Fatal(err)
	}
	if req.Method != "PUT" {
		t.Errorf("expected PUT, got %s", req.Method)
	}
}

func TestParse_LineContinuation(t *testing.T) {
	input := "curl \\\n  -X PUT \\\n  -H 'Content-Type: text/plain' \\\n  -d 'hello' \\\n  https://example.com"
	req, err := Parse(input)
	if err != nil {
		t.Fatal(err)
	}
	if req.Method != "PUT" {
		t.Errorf("expected PUT, got %s", req.Method)
	}
	if req.URL != "https://example.com" {
		t.Errorf("unexpected URL: %s", req.URL)
	}
}

func TestParse_OutputFlagSkipsValue(t *testing.T) {
	req, err := Parse(`curl -o out.json https://api.example.com`)
	if err != nil {
		t.Fatal(err)
	}
	if req.URL != "https://api.example.com" {
		t.Errorf("output filename consumed as URL: %s", req.URL)
	}
}

func TestParse_Empty(t *testing.T) {
	_, err := Parse("")
	if err == nil {
		t.Error("expected error for empty input")
	}
}

func TestParse_NoURL(t *testing.T) {
	_, err := Parse("curl -H 'Accept: */*'")
	if err == nil {
		t.Error("expected error for missing URL")
	}
}

func TestParseArgs_LiteralValues(t *testing.T) {
	// argv elements arrive with shell quoting already consumed; values
	// with spaces and quotes must pass through untouched.
	req, err := ParseArgs([]string{"-d", `{"name": "x y"}`, "http://localhost:8080/echo"})
	if err != nil {
		t.Fatal(err)
	}
	if string(req.Body) != `{"name": "x y"}` {
		t.Errorf("body mangled: %s", req.Body)
	}
	if req.URL != "http://localhost:8080/echo" {
		t.Errorf("unexpected URL: %s", req.URL)
	}
	if req.Method != "POST" {
		t.Errorf("expected POST, got %s", req.Method)
	}
}

func TestParseArgs_Empty(t *testing.T) {
	if _, err := ParseArgs(nil); err == nil {
		t.Error("expected error for empty argv")
	}
}

func TestTokenize_Quoting(t *testing.T) {
	tokens := tokenize(`-d '{"a": "b c"}' -H "X: 'y'"`)
	if len(tokens) != 4 {
		t.Fatalf("expected 4 tokens, got %d: %v", len(tokens), tokens)
	}
	if tokens[1] != `{"a": "b c"}` {
		t.Errorf("unexpected token: %s", tokens[1])
	}
	if tokens[3] != "X: 'y'" {
		t.Errorf("unexpected token: %s", tokens[3])
	}
}

func TestTokenize_EmptyQuotedToken(t *testing.T) {
	tokens := tokenize(`-d '' https://example.com`)
	if len(tokens) != 3 {
		t.Fatalf("expected 3 tokens, got %d: %v", len(tokens), tokens)
	}
	if tokens[1] != "" {
		t.Errorf("expected empty token, got %q", tokens[1])
	}
}
