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

package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phuonguno98/idlerun/pkg/metrics"
)

// Reader produces per-CPU counter snapshots.
type Reader interface {
	Read(ctx context.Context) (metrics.Snapshot, error)
}

// Sleeper suspends the loop for d, returning early with an error when
// ctx is cancelled.
type Sleeper func(ctx context.Context, d time.Duration) error

// Status is a copy of the latest round, published for outside observers.
type Status struct {
	Ratio     float64   `json:"idle_ratio"`
	HasData   bool      `json:"has_data"`
	State     string    `json:"state"`
	Label     string    `json:"label"`
	Rounds    int       `json:"rounds"`
	Trips     int       `json:"trips"`
	LastTrip  time.Time `json:"last_trip"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StatusSink receives a Status after every round.
type StatusSink interface {
	Publish(Status)
}

// Sleep waits for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Runner drives the sample → aggregate → decide loop.
type Runner struct {
	reader   Reader
	monitor  *Monitor
	reporter *Reporter
	interval time.Duration
	sleep    Sleeper
	now      func() time.Time
	sink     StatusSink
	logger   *slog.Logger

	rounds   int
	lastTrip time.Time
}

// RunnerOption customizes a Runner.
type RunnerOption func(*Runner)

// WithSleeper replaces the real-time sleep between rounds.
func WithSleeper(s Sleeper) RunnerOption {
	return func(r *Runner) { r.sleep = s }
}

// WithClock replaces time.Now for status timestamps.
func WithClock(now func() time.Time) RunnerOption {
	return func(r *Runner) { r.now = now }
}

// WithStatusSink publishes the status of each round to sink.
func WithStatusSink(sink StatusSink) RunnerOption {
	return func(r *Runner) { r.sink = sink }
}

// NewRunner creates a sampling loop.
func NewRunner(reader Reader, monitor *Monitor, reporter *Reporter, interval time.Duration, logger *slog.Logger, opts ...RunnerOption) *Runner {
	r := &Runner{
		reader:   reader,
		monitor:  monitor,
		reporter: reporter,
		interval: interval,
		sleep:    Sleep,
		now:      time.Now,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run samples until ctx is cancelled, which ends the loop with a nil error.
// A failed counter read is fatal and returned.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.Info("Starting idle monitor", "interval", r.interval)

	prev, err := r.reader.Read(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("baseline read failed: %w", err)
	}

	for {
		if err := r.sleep(ctx, r.interval); err != nil {
			if ctx.Err() != nil {
				r.logger.Info("Idle monitor stopping...")
				return nil
			}
			return fmt.Errorf("sleep failed: %w", err)
		}

		current, err := r.reader.Read(ctx)
		if err != nil {
			if ctx.Err() != nil {
				r.logger.Info("Idle monitor stopping...")
				return nil
			}
			return fmt.Errorf("counter read failed: %w", err)
		}

		ratio, err := metrics.IdleRatio(prev, current)
		prev = current
		r.rounds++

		if err != nil {
			if !errors.Is(err, metrics.ErrNoData) {
				return err
			}
			r.logger.Debug("Skipping round", "reason", err)
			r.publish(Event{State: r.monitor.State()}, false)
			continue
		}

		// Never fire once shutdown has been requested.
		if ctx.Err() != nil {
			r.logger.Info("Idle monitor stopping...")
			return nil
		}

		ev := r.monitor.Observe(ctx, ratio)
		if ev.Fired {
			r.lastTrip = r.now()
		}

		r.logger.Debug("Round complete",
			"idle", ratio,
			"state", ev.State,
			"fired", ev.Fired,
		)

		if err := r.reporter.Report(ev); err != nil {
			r.logger.Warn("Failed to write status line", "error", err)
		}

		r.publish(ev, true)
	}
}

func (r *Runner) publish(ev Event, hasData bool) {
	if r.sink == nil {
		return
	}

	r.sink.Publish(Status{
		Ratio:     ev.Ratio,
		HasData:   hasData,
		State:     ev.State.String(),
		Label:     ev.Label,
		Rounds:    r.rounds,
		Trips:     r.monitor.Trips(),
		LastTrip:  r.lastTrip,
		UpdatedAt: r.now(),
	})
}
