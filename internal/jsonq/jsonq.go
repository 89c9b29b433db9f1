// Package jsonq evaluates jq filter expressions against JSON documents
// using gojq.
package jsonq

import (
	"encoding/json"
	"fmt"

	"github.com/itchyny/gojq"
)

// maxResults caps runaway generators like `repeat(1)`.
const maxResults = 100000

// Run compiles the query and evaluates it against data, which must be
// a JSON-compatible value (the result of json.Unmarshal into any).
// A single query result is returned as-is; multiple results are
// collected into a slice.
func Run(data any, query string) (any, error) {
	q, err := gojq.Parse(query)
	if err != nil {
		return nil, fmt.Errorf("parsing query: %w", err)
	}

	code, err := gojq.Compile(q)
	if err != nil {
		return nil, fmt.Errorf("compiling query: %w", err)
	}

	var results []any
	iter := code.Run(data)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := v.(error); isErr {
			if haltErr, isHalt := err.(*gojq.HaltError); isHalt && haltErr.Value() == nil {
				break
			}
			return nil, fmt.Errorf("running query: %w", err)
		}
		results = append(results, v)
		if len(results) >= maxResults {
			return nil, fmt.Errorf("query produced more than %d results", maxResults)
		}
	}

	switch len(results) {
	case 0:
		return nil, nil
	case 1:
		return results[0], nil
	default:
		return results, nil
	}
}

// Format marshals a query result for display with 2-space indentation.
func Format(v any) (string, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding result: %w", err)
	}
	return string(out), nil
}
