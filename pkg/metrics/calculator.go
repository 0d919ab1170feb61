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

package metrics

import (
	"sort"
	"strconv"
	"strings"
)

// Diff computes the per-CPU counter delta between two snapshots.
// Only CPUs present in both snapshots are kept. Values are not clamped.
func Diff(prev, current Snapshot) Delta {
	delta := make(Delta, len(current))

	for id, cur := range current {
		old, ok := prev[id]
		if !ok {
			continue
		}

		n := len(cur)
		if len(old) < n {
			n = len(old)
		}

		d := make(Sample, n)
		for i := 0; i < n; i++ {
			d[i] = cur[i] - old[i]
		}
		delta[id] = d
	}

	return delta
}

// IdleFraction returns ΔIdle / ΔTotal for one CPU.
// The second result is false when the fraction is undefined
// (no idle bucket, or no ticks recorded in the interval).
func IdleFraction(d Sample) (float64, bool) {
	if len(d) <= BucketIdle {
		return 0, false
	}

	total := d.Total()
	if total == 0 {
		return 0, false
	}

	return d[BucketIdle] / total, true
}

// AverageIdle returns the arithmetic mean of the idle fractions of all CPUs
// in the delta. CPUs without a defined fraction are skipped for this round.
// The second result is false if no CPU contributed.
func AverageIdle(delta Delta) (float64, bool) {
	var (
		sum   float64
		count int
	)

	for _, d := range delta {
		f, ok := IdleFraction(d)
		if !ok {
			continue
		}
		sum += f
		count++
	}

	if count == 0 {
		return 0, false
	}

	return sum / float64(count), true
}

// IdleRatio is Diff followed by AverageIdle. It returns ErrNoData when the
// round cannot produce an aggregate.
func IdleRatio(prev, current Snapshot) (float64, error) {
	ratio, ok := AverageIdle(Diff(prev, current))
	if !ok {
		return 0, ErrNoData
	}
	return ratio, nil
}

// SortCPUIDs sorts identifiers like "cpu10" after "cpu9".
func SortCPUIDs(ids []string) {
	sort.Slice(ids, func(i, j int) bool {
		ni, okI := cpuIndex(ids[i])
		nj, okJ := cpuIndex(ids[j])
		if okI && okJ {
			return ni < nj
		}
		return ids[i] < ids[j]
	})
}

func cpuIndex(id string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimPrefix(id, "cpu"))
	if err != nil {
		return 0, false
	}
	return n, true
}
