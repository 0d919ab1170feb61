/*
 * MIT License
 *
 * Copyright (c) 2026 Nguyen Thanh Phuong
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package config

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// Config represents application configuration.
type Config struct {
	Interval    time.Duration // Time between counter samples
	LowPercent  float64       // Idle percentage at or below which the monitor arms
	HighPercent float64       // Idle percentage at or above which an armed monitor trips
	Verbose     bool          // Print a status line every interval
	Command     []string      // Alarm command and its arguments

	// Counter source
	Source       string // auto, proc or gopsutil
	ProcStatPath string // Path of the /proc/stat formatted file

	// Status endpoint (empty = disabled)
	Listen string

	// Logging
	LogLevel string // Log level: debug, info, warn, error
	LogFile  string // Log file path (empty = stderr)

	// Commands
	ListCPUs bool // List detected CPUs, then exit
}

// Default configuration values.
const (
	DefaultIntervalSeconds = 1.0
	DefaultInterval        = 1 * time.Second
	DefaultLowPercent      = 50.0
	DefaultHighPercent     = 80.0
	DefaultLogLevel        = "warn"
	DefaultSource          = "auto"
	DefaultProcStatPath    = "/proc/stat"
)

// Validation errors.
var (
	ErrNoCommand         = errors.New("please supply a command (with options) to run in case of alarm")
	ErrIntervalTooShort  = errors.New("please use an interval >= 1 second")
	ErrThresholdOrder    = errors.New("low threshold should be lower than alarm threshold")
	ErrThresholdRange    = errors.New("percentages are between 0 and 100; values are averaged across all CPUs")
	ErrUnknownCounterSrc = errors.New("unknown counter source")
)

// IntervalFromSeconds converts fractional seconds into a duration.
func IntervalFromSeconds(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if len(c.Command) == 0 && !c.ListCPUs {
		return ErrNoCommand
	}

	if c.Interval < 1*time.Second {
		return ErrIntervalTooShort
	}

	if math.IsNaN(c.LowPercent) || math.IsNaN(c.HighPercent) || c.LowPercent >= c.HighPercent {
		return ErrThresholdOrder
	}

	if c.LowPercent < 0 || c.LowPercent > 100 || c.HighPercent < 0 || c.HighPercent > 100 {
		return ErrThresholdRange
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	switch c.Source {
	case "auto", "proc", "gopsutil":
	default:
		return fmt.Errorf("%w: %s (must be auto, proc, or gopsutil)", ErrUnknownCounterSrc, c.Source)
	}

	return nil
}

// LowFraction returns the low threshold as a fraction of 1.
func (c *Config) LowFraction() float64 {
	return c.LowPercent / 100
}

// HighFraction returns the alarm threshold as a fraction of 1.
func (c *Config) HighFraction() float64 {
	return c.HighPercent / 100
}

// String returns a human-readable representation of the configuration.
func (c *Config) String() string {
	return fmt.Sprintf("Config{Interval=%v, Low=%.2f%%, Alarm=%.2f%%, Verbose=%t, Source=%s, Listen=%q, Command=%q}",
		c.Interval, c.LowPercent, c.HighPercent, c.Verbose, c.Source, c.Listen, strings.Join(c.Command, " "))
}
