// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package config describes how an actor scheduler is set up. A Config can be
// built in code, starting from Default, or read from a YAML document.
package config

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	gerrors "github.com/tochemey/goactor/errors"
	"github.com/tochemey/goactor/log"
)

// MailboxKind selects the mailbox backend
type MailboxKind string

const (
	// PooledMailbox drains mailboxes on the shared worker pool
	PooledMailbox MailboxKind = "pooled"
	// GoroutineMailbox drains every mailbox turn on its own goroutine
	GoroutineMailbox MailboxKind = "goroutine"
)

// TimerKind selects the delayed work backend
type TimerKind string

const (
	// StdTimer uses the runtime timers
	StdTimer TimerKind = "std"
	// QuartzTimer uses a quartz scheduler
	QuartzTimer TimerKind = "quartz"
)

const maxShards = 128

// Config holds the scheduler settings
type Config struct {
	// Shards is the number of worker pool shards. Default is 1.
	Shards int `yaml:"shards"`
	// IdleTimeout is how long an idle worker survives. Default is 1s.
	IdleTimeout time.Duration `yaml:"idle_timeout"`
	// Mailbox selects the mailbox backend. Default is pooled.
	Mailbox MailboxKind `yaml:"mailbox"`
	// Timer selects the delayed work backend. Default is std.
	Timer TimerKind `yaml:"timer"`
	// Throughput caps the events a mailbox handles before yielding its
	// worker. Zero means drain until empty.
	Throughput int `yaml:"throughput"`
	// TrackStats turns per mailbox statistics on. Default is true.
	TrackStats bool `yaml:"track_stats"`
	// LogLevel is the level of the default logger. Default is info.
	LogLevel string `yaml:"log_level"`
	// StopTimeout bounds how long Stop waits for the timer. Default is 5s.
	StopTimeout time.Duration `yaml:"stop_timeout"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Shards:      1,
		IdleTimeout: time.Second,
		Mailbox:     PooledMailbox,
		Timer:       StdTimer,
		Throughput:  0,
		TrackStats:  true,
		LogLevel:    "info",
		StopTimeout: 5 * time.Second,
	}
}

// Parse reads a YAML document on top of the defaults and validates it
func Parse(data []byte) (*Config, error) {
	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Load reads and parses the YAML file at path
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return Parse(data)
}

// Validate reports every invalid setting at once
func (c *Config) Validate() error {
	var violations error
	if c.Shards < 1 || c.Shards > maxShards {
		violations = multierr.Append(violations, fmt.Errorf("shards must be between 1 and %d, got %d", maxShards, c.Shards))
	}

	if c.IdleTimeout <= 0 {
		violations = multierr.Append(violations, fmt.Errorf("idle_timeout must be positive, got %s", c.IdleTimeout))
	}

	switch c.Mailbox {
	case PooledMailbox, GoroutineMailbox:
	default:
		violations = multierr.Append(violations, fmt.Errorf("unknown mailbox %q", c.Mailbox))
	}

	switch c.Timer {
	case StdTimer, QuartzTimer:
	default:
		violations = multierr.Append(violations, fmt.Errorf("unknown timer %q", c.Timer))
	}

	if c.Throughput < 0 {
		violations = multierr.Append(violations, fmt.Errorf("throughput must not be negative, got %d", c.Throughput))
	}

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		violations = multierr.Append(violations, err)
	}

	if c.StopTimeout <= 0 {
		violations = multierr.Append(violations, fmt.Errorf("stop_timeout must be positive, got %s", c.StopTimeout))
	}

	if violations != nil {
		return fmt.Errorf("%w: %w", gerrors.ErrInvalidConfig, violations)
	}
	return nil
}

// Level returns the parsed log level, falling back to info
func (c *Config) Level() log.Level {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}
