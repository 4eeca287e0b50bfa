// Package fluentlogger builds the Fluent Bit forward client shared by the
// logging adapters.
package fluentlogger

import (
	"errors"
	"fmt"
	"time"

	"github.com/fluent/fluent-logger-golang/fluent"
)

type Config struct {
	Host string
	Port int
	// TagPrefix is prepended to every record tag, e.g. "estate-agent".
	TagPrefix string
	// Async buffers records in the client instead of blocking the caller.
	Async bool
}

// NewClient creates the client. Fluent has no handshake, so a missing
// collector only shows up when the first record is posted.
func NewClient(cfg Config) (*fluent.Fluent, error) {
	if cfg.TagPrefix == "" {
		return nil, errors.New("fluent tag prefix is required")
	}

	client, err := fluent.New(fluent.Config{
		FluentHost:   cfg.Host,
		FluentPort:   cfg.Port,
		TagPrefix:    cfg.TagPrefix,
		Async:        cfg.Async,
		Timeout:      3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create fluent client: %w", err)
	}
	return client, nil
}
