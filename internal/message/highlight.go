package message

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromastyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/tidwall/pretty"
)

// prettyJSON pretty-prints a JSON body, optionally syntax-highlighted.
// Returns ok=false when the body is not valid JSON so the caller can
// fall back to raw output with truncation.
func prettyJSON(body string, color bool) (string, bool) {
	if !json.Valid([]byte(body)) {
		return "", false
	}

	out := string(pretty.Pretty([]byte(body)))
	out = strings.TrimRight(out, "\n")

	if color {
		out = highlight(out, "json")
	}
	return out + "\n", true
}

// highlight applies chroma syntax highlighting to source code.
func highlight(source, lexerName string) string {
	lexer := lexers.Get(lexerName)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := chromastyles.Get("monokai")
	if style == nil {
		style = chromastyles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		return source
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return source
	}

	return strings.TrimRight(buf.String(), "\n")
}
