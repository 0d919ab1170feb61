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
	"testing"
)

func TestNew_Thresholds(t *testing.T) {
	tests := []struct {
		name    string
		low     float64
		high    float64
		wantErr bool
	}{
		{name: "Defaults", low: 0.5, high: 0.8},
		{name: "Full range", low: 0, high: 1},
		{name: "Inverted", low: 0.8, high: 0.5, wantErr: true},
		{name: "Equal", low: 0.5, high: 0.5, wantErr: true},
		{name: "Negative low", low: -0.1, high: 0.5, wantErr: true},
		{name: "High above one", low: 0.5, high: 1.1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.low, tt.high, nil)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// observeAll feeds ratios into a fresh monitor and records labels and
// the observation index of every alarm.
func observeAll(t *testing.T, low, high float64, ratios []float64) (labels []string, fires []int) {
	t.Helper()

	var current int
	m, err := New(low, high, func(context.Context) {
		fires = append(fires, current)
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	for i, r := range ratios {
		current = i
		ev := m.Observe(context.Background(), r)
		labels = append(labels, ev.Label)
		if ev.Fired != (len(fires) > 0 && fires[len(fires)-1] == i) {
			t.Errorf("observation %d: Fired = %v does not match alarm call", i, ev.Fired)
		}
	}

	return labels, fires
}

func TestMonitor_Sequences(t *testing.T) {
	tests := []struct {
		name       string
		ratios     []float64
		wantLabels []string
		wantFires  []int
	}{
		{
			name:       "Dip then recover",
			ratios:     []float64{0.3, 0.3, 0.9},
			wantLabels: []string{"armed", "armed", "tripped"},
			wantFires:  []int{2},
		},
		{
			name:       "Never busy",
			ratios:     []float64{0.9, 0.9, 0.9},
			wantLabels: []string{"", "", ""},
		},
		{
			name:       "No re-fire without re-arm",
			ratios:     []float64{0.3, 0.9, 0.9, 0.95, 1.0},
			wantLabels: []string{"armed", "tripped", "", "", ""},
			wantFires:  []int{1},
		},
		{
			name:       "Re-arm then fire again",
			ratios:     []float64{0.3, 0.9, 0.4, 0.85},
			wantLabels: []string{"armed", "tripped", "armed", "tripped"},
			wantFires:  []int{1, 3},
		},
		{
			name:       "Between thresholds keeps armed",
			ratios:     []float64{0.2, 0.6, 0.7, 0.79, 0.8},
			wantLabels: []string{"armed", "armed", "armed", "armed", "tripped"},
			wantFires:  []int{4},
		},
		{
			name:       "Inclusive boundaries",
			ratios:     []float64{0.5, 0.8},
			wantLabels: []string{"armed", "tripped"},
			wantFires:  []int{1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			labels, fires := observeAll(t, 0.5, 0.8, tt.ratios)

			if len(labels) != len(tt.wantLabels) {
				t.Fatalf("labels = %q, want %q", labels, tt.wantLabels)
			}
			for i := range labels {
				if labels[i] != tt.wantLabels[i] {
					t.Errorf("labels[%d] = %q, want %q", i, labels[i], tt.wantLabels[i])
				}
			}

			if len(fires) != len(tt.wantFires) {
				t.Fatalf("fires = %v, want %v", fires, tt.wantFires)
			}
			for i := range fires {
				if fires[i] != tt.wantFires[i] {
					t.Errorf("fires[%d] = %d, want %d", i, fires[i], tt.wantFires[i])
				}
			}
		})
	}
}

func TestMonitor_StateAndTrips(t *testing.T) {
	m, err := New(0.5, 0.8, nil)
	if err != nil {
		t.Fatal(err)
	}

	if m.State() != Disarmed {
		t.Errorf("initial State() = %v, want disarmed", m.State())
	}

	ev := m.Observe(context.Background(), 0.1)
	if ev.State != Armed || !ev.Notify {
		t.Errorf("after dip: State = %v, Notify = %v", ev.State, ev.Notify)
	}

	ev = m.Observe(context.Background(), 0.6)
	if ev.Notify {
		t.Error("between thresholds should not force a status line")
	}

	ev = m.Observe(context.Background(), 0.9)
	if ev.State != Disarmed || !ev.Fired || !ev.Notify {
		t.Errorf("after trip: State = %v, Fired = %v, Notify = %v", ev.State, ev.Fired, ev.Notify)
	}
	if m.Trips() != 1 {
		t.Errorf("Trips() = %d, want 1", m.Trips())
	}

	low, high := m.Thresholds()
	if low != 0.5 || high != 0.8 {
		t.Errorf("Thresholds() = %v, %v", low, high)
	}
}

func TestState_String(t *testing.T) {
	if Armed.String() != "armed" {
		t.Errorf("Armed.String() = %q", Armed.String())
	}
	if Disarmed.String() != "disarmed" {
		t.Errorf("Disarmed.String() = %q", Disarmed.String())
	}
}
