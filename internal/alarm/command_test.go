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

package alarm

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"runtime"
	"strings"
	"testing"
	"time"
)

func testLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
}

func TestCommand_Streams(t *testing.T) {
	skipOnWindows(t)

	var logs, stdout, stderr bytes.Buffer
	c := NewCommand([]string{"sh", "-c", "read line; echo got $line; echo oops >&2"}, testLogger(&logs)).
		WithStreams(strings.NewReader("hello\n"), &stdout, &stderr)

	c.Fire(context.Background())

	if got := stdout.String(); got != "got hello\n" {
		t.Errorf("stdout = %q, want %q", got, "got hello\n")
	}
	if got := stderr.String(); got != "oops\n" {
		t.Errorf("stderr = %q, want %q", got, "oops\n")
	}
	if !strings.Contains(logs.String(), "alarm_id=") {
		t.Errorf("log does not carry an alarm id: %s", logs.String())
	}
	if c.Runs() != 1 {
		t.Errorf("Runs() = %d, want 1", c.Runs())
	}
}

func TestCommand_FailureIsIgnored(t *testing.T) {
	skipOnWindows(t)

	tests := []struct {
		name string
		argv []string
	}{
		{name: "Non-zero exit", argv: []string{"sh", "-c", "exit 3"}},
		{name: "Missing executable", argv: []string{"/nonexistent/idlerun-test-binary"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			c := NewCommand(tt.argv, testLogger(&logs)).WithStreams(nil, io.Discard, io.Discard)

			c.Fire(context.Background())

			if !strings.Contains(logs.String(), "Alarm command failed") {
				t.Errorf("expected failure to be logged, got: %s", logs.String())
			}
		})
	}
}

func TestCommand_Interrupt(t *testing.T) {
	skipOnWindows(t)

	var logs bytes.Buffer
	c := NewCommand([]string{"sleep", "30"}, testLogger(&logs)).
		WithStreams(nil, io.Discard, io.Discard).
		WithWaitDelay(100 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	c.Fire(ctx)

	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("Fire() took %v after cancellation", elapsed)
	}
}

func TestCommand_Empty(t *testing.T) {
	var logs bytes.Buffer
	c := NewCommand(nil, testLogger(&logs))

	c.Fire(context.Background())

	if c.Runs() != 0 {
		t.Errorf("Runs() = %d, want 0", c.Runs())
	}
}
