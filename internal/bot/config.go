package bot

import (
	"fmt"
	"time"

	"screenbot/internal/window"
)

// Default settings applied by ApplyDefaults when a field is unset.
const (
	DefaultDPIRatio = 2
	DefaultWaitTime = 90 * time.Millisecond
)

// Config holds the tunable behavior of a Bot. Zero values mean "use the
// default"; call ApplyDefaults before handing the config to NewBot.
type Config struct {
	// DPIRatio converts capture pixels to screen points. On a standard
	// display it is 1, on a HiDPI display usually 2.
	DPIRatio int

	// WaitTime is the settle delay between moving the pointer and pressing
	// or releasing a button.
	WaitTime time.Duration

	// SampleRate is the number of captures per second during searches.
	SampleRate float64

	// TemplateDir is the directory template YAML definitions and images
	// are resolved against.
	TemplateDir string

	// JournalPath is the SQLite file search and input history is written
	// to. Empty disables journaling.
	JournalPath string

	// LogLevel is the minimum level emitted by the bot's loggers.
	LogLevel string
}

// ApplyDefaults fills unset fields with their defaults.
func (c *Config) ApplyDefaults() {
	if c.DPIRatio == 0 {
		c.DPIRatio = DefaultDPIRatio
	}
	if c.WaitTime == 0 {
		c.WaitTime = DefaultWaitTime
	}
	if c.SampleRate == 0 {
		c.SampleRate = window.DefaultSampleRate
	}
	if c.LogLevel == "" {
		c.LogLevel = "INFO"
	}
}

// Validate checks the config for values no bot can run with.
func (c *Config) Validate() error {
	if c.DPIRatio < 1 {
		return fmt.Errorf("dpi ratio %d is invalid (must be >= 1)", c.DPIRatio)
	}
	if c.SampleRate <= 0 {
		return fmt.Errorf("sample rate %v is invalid (must be > 0)", c.SampleRate)
	}
	if c.WaitTime < 0 {
		return fmt.Errorf("wait time %v is invalid (must be >= 0)", c.WaitTime)
	}
	return nil
}
