package config

import "time"

// Config holds the application configuration.
type Config struct {
	Color          string        `yaml:"color"` // auto, always, never
	MaxBodyLength  int           `yaml:"max_body_length"`
	DefaultTimeout time.Duration `yaml:"default_timeout"`
	HistoryPath    string        `yaml:"history_path"`
	Prompt         string        `yaml:"prompt"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Color:          "auto",
		MaxBodyLength:  2000,
		DefaultTimeout: 30 * time.Second,
		HistoryPath:    "",
		Prompt:         "reqshell> ",
	}
}

// ColorEnabled resolves the color setting against terminal state.
func (c Config) ColorEnabled(isTTY bool) bool {
	switch c.Color {
	case "always":
		return true
	case "never":
		return false
	default:
		return isTTY
	}
}
