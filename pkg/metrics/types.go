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

import "errors"

// Bucket positions within a Sample, in the order the kernel reports them.
const (
	BucketUser = iota
	BucketNice
	BucketSystem
	BucketIdle
	BucketIOWait
	BucketIrq
	BucketSoftIrq
	BucketSteal
)

const (
	// NumBuckets is the number of counters kept per CPU. Later fields
	// (guest, guest_nice) are already accounted in user/nice and are dropped.
	NumBuckets = BucketSteal + 1

	// MinBuckets is the minimum number of counters a CPU line must carry
	// (user through softirq).
	MinBuckets = BucketSoftIrq + 1
)

// ErrNoData is returned when a round yields no usable idle ratio,
// e.g. every CPU recorded zero ticks during the interval.
var ErrNoData = errors.New("no CPU activity recorded in interval")

// Sample holds the cumulative time counters of a single CPU, in clock ticks.
type Sample []float64

// Total returns the sum of all buckets.
func (s Sample) Total() float64 {
	var total float64
	for _, v := range s {
		total += v
	}
	return total
}

// Snapshot maps a CPU identifier (e.g. "cpu0") to its counters at one instant.
type Snapshot map[string]Sample

// IDs returns the CPU identifiers of the snapshot in natural order.
func (s Snapshot) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	SortCPUIDs(ids)
	return ids
}

// Delta maps a CPU identifier to the elementwise counter difference
// between two snapshots.
type Delta map[string]Sample
