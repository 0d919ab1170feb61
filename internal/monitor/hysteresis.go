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

// Package monitor implements the idle hysteresis state machine and the
// sampling loop that feeds it.
package monitor

import (
	"context"
	"fmt"
)

// State is the hysteresis state of a Monitor.
type State int

const (
	// Disarmed is the initial state: the alarm cannot fire until the
	// idle ratio has dropped to the low threshold.
	Disarmed State = iota
	// Armed means the low threshold was reached and no alarm fired since.
	Armed
)

// String returns the state name.
func (s State) String() string {
	if s == Armed {
		return "armed"
	}
	return "disarmed"
}

// Status labels printed after the idle percentage.
const (
	LabelArmed   = "armed"
	LabelTripped = "tripped"
)

// AlarmFunc is invoked synchronously when the monitor trips.
type AlarmFunc func(ctx context.Context)

// Event describes the outcome of one observed idle ratio.
type Event struct {
	Ratio  float64
	State  State  // State after the observation
	Label  string // "armed", "tripped" or empty
	Fired  bool   // The alarm ran during this observation
	Notify bool   // The status line must be printed even when not verbose
}

// Monitor decides when to fire the alarm from a stream of idle ratios.
// It is not safe for concurrent use; the sampling loop owns it.
type Monitor struct {
	low   float64
	high  float64
	armed bool
	trips int
	alarm AlarmFunc
}

// New creates a disarmed Monitor. Thresholds are fractions and must
// satisfy 0 <= low < high <= 1.
func New(low, high float64, alarm AlarmFunc) (*Monitor, error) {
	if low < 0 || high > 1 {
		return nil, fmt.Errorf("thresholds must be within [0, 1]: low=%v high=%v", low, high)
	}
	if low >= high {
		return nil, fmt.Errorf("low threshold %v must be lower than high threshold %v", low, high)
	}
	if alarm == nil {
		alarm = func(context.Context) {}
	}

	return &Monitor{
		low:   low,
		high:  high,
		alarm: alarm,
	}, nil
}

// Observe feeds one idle ratio into the state machine.
// Both thresholds are inclusive. When the monitor trips, the alarm runs
// before Observe returns.
func (m *Monitor) Observe(ctx context.Context, ratio float64) Event {
	ev := Event{Ratio: ratio}

	switch {
	case ratio <= m.low:
		m.armed = true
		ev.Label = LabelArmed
		ev.Notify = true

	case m.armed && ratio >= m.high:
		m.alarm(ctx)
		m.armed = false
		m.trips++
		ev.Label = LabelTripped
		ev.Fired = true
		ev.Notify = true

	case m.armed:
		ev.Label = LabelArmed
	}

	ev.State = m.State()
	return ev
}

// State returns the current hysteresis state.
func (m *Monitor) State() State {
	if m.armed {
		return Armed
	}
	return Disarmed
}

// Trips returns how many times the alarm has fired.
func (m *Monitor) Trips() int {
	return m.trips
}

// Thresholds returns the low and high thresholds as fractions.
func (m *Monitor) Thresholds() (low, high float64) {
	return m.low, m.high
}
