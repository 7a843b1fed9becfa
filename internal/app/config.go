package app

import "time"

// Config holds runtime configuration for the service.
type Config struct {
	// Server
	ListenAddr string

	// Fetch
	UserAgent    string
	FetchTimeout time.Duration
	MaxBodyBytes int64

	// Cache
	CacheCapacity int

	// One-shot mode: when URL is set, fetch once and write a report instead
	// of serving.
	URL           string
	OutputPath    string
	OutputPDFPath string

	// Behavior
	Verbose bool
}
