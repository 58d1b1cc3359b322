package app

import "errors"

// Config holds everything needed to build and run a demo graph.
type Config struct {
	// GraphPath, if set, is a .hcl file or directory the graph is loaded
	// from via internal/hclgraph. Empty means build the built-in
	// source -> pass -> sink pipeline programmatically.
	GraphPath string

	RingSize int
	Frames   int

	LogFormat       string
	LogLevel        string
	HealthcheckPort int
}

// NewConfig validates cfg and returns a copy, defaulting an unset RingSize
// to 2. Frames has no default: it must be positive.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.RingSize <= 0 {
		cfg.RingSize = 2
	}
	if cfg.Frames <= 0 {
		return nil, errors.New("Frames must be a positive number of iterations to run")
	}
	return &cfg, nil
}
