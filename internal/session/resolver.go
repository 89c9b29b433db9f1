package session

import (
	"os"
	"regexp"
	"sort"
	"strings"
)

var varPattern = regexp.MustCompile(`\{\{(\w+)\}\}`)

// SetEnv sets an interpolation variable.
func (s *Session) SetEnv(key, value string) {
	s.env[key] = value
}

// EnvNames returns interpolation variable names, sorted.
func (s *Session) EnvNames() []string {
	names := make([]string, 0, len(s.env))
	for k := range s.env {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// EnvValue returns the value of an interpolation variable.
func (s *Session) EnvValue(key string) (string, bool) {
	v, ok := s.env[key]
	return v, ok
}

// Interpolate replaces {{variable}} placeholders in a command line.
// Session variables take priority over OS environment variables;
// unknown placeholders are left as-is.
func (s *Session) Interpolate(input string) string {
	return varPattern.ReplaceAllStringFunc(input, func(match string) string {
		key := strings.TrimPrefix(strings.TrimSuffix(match, "}}"), "{{")
		if v, ok := s.env[key]; ok {
			return v
		}
		if v := os.Getenv(key); v != "" {
			return v
		}
		return match // leave unreplaced
	})
}
