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

package collector

import (
	"context"
	"fmt"

	"github.com/phuonguno98/idlerun/pkg/metrics"
	"github.com/shirou/gopsutil/v3/cpu"
)

// Injection point for tests.
var cpuTimes = cpu.TimesWithContext

// TimesReader reads per-CPU counters through gopsutil.
// It is the portable fallback for platforms without /proc/stat.
type TimesReader struct{}

// NewTimesReader creates a new gopsutil backed reader.
func NewTimesReader() *TimesReader {
	return &TimesReader{}
}

// Read returns the per-CPU counters reported by gopsutil.
func (r *TimesReader) Read(ctx context.Context) (metrics.Snapshot, error) {
	times, err := cpuTimes(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to get per-CPU times: %w", err)
	}

	if len(times) == 0 {
		return nil, fmt.Errorf("no per-CPU time stats available")
	}

	snap := make(metrics.Snapshot, len(times))
	for _, t := range times {
		snap[t.CPU] = metrics.Sample{
			t.User, t.Nice, t.System, t.Idle,
			t.Iowait, t.Irq, t.Softirq, t.Steal,
		}
	}

	return snap, nil
}

// Name returns the reader name for logging purposes.
func (r *TimesReader) Name() string {
	return "gopsutil"
}
