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

// Package alarm runs the user's command when the idle monitor trips.
package alarm

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"github.com/google/uuid"
)

// DefaultWaitDelay is how long a child gets after an interrupt before it is killed.
const DefaultWaitDelay = 5 * time.Second

// Command launches an external program with the caller's standard streams
// and waits for it to exit.
type Command struct {
	argv      []string
	stdin     io.Reader
	stdout    io.Writer
	stderr    io.Writer
	waitDelay time.Duration
	logger    *slog.Logger
	runs      int
}

// NewCommand creates a Command for argv, attached to os.Stdin, os.Stdout and os.Stderr.
func NewCommand(argv []string, logger *slog.Logger) *Command {
	return &Command{
		argv:      argv,
		stdin:     os.Stdin,
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		waitDelay: DefaultWaitDelay,
		logger:    logger,
	}
}

// WithStreams replaces the standard streams handed to the child.
func (c *Command) WithStreams(stdin io.Reader, stdout, stderr io.Writer) *Command {
	c.stdin = stdin
	c.stdout = stdout
	c.stderr = stderr
	return c
}

// WithWaitDelay sets the grace period after an interrupt.
func (c *Command) WithWaitDelay(d time.Duration) *Command {
	c.waitDelay = d
	return c
}

// Fire runs the command and blocks until it exits. The exit status is
// logged and otherwise ignored. Cancelling ctx interrupts the child.
func (c *Command) Fire(ctx context.Context) {
	if len(c.argv) == 0 {
		c.logger.Warn("Alarm has no command to run")
		return
	}

	c.runs++
	alarmID := uuid.New().String()
	logger := c.logger.With("alarm_id", alarmID, "command", c.argv)

	cmd := exec.CommandContext(ctx, c.argv[0], c.argv[1:]...)
	cmd.Stdin = c.stdin
	cmd.Stdout = c.stdout
	cmd.Stderr = c.stderr
	cmd.Cancel = func() error {
		return cmd.Process.Signal(os.Interrupt)
	}
	cmd.WaitDelay = c.waitDelay

	logger.Info("Alarm tripped, running command")
	start := time.Now()

	if err := cmd.Run(); err != nil {
		logger.Warn("Alarm command failed",
			"error", err,
			"duration", time.Since(start),
		)
		return
	}

	logger.Info("Alarm command finished", "duration", time.Since(start))
}

// Runs returns how many times the command was launched.
func (c *Command) Runs() int {
	return c.runs
}
