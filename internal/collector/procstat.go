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
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/phuonguno98/idlerun/pkg/metrics"
)

// cpuLabel matches per-core lines only; the aggregate "cpu" line is skipped.
var cpuLabel = regexp.MustCompile(`^cpu\d+$`)

// ProcStatReader reads per-CPU counters from a /proc/stat formatted file.
type ProcStatReader struct {
	path string
}

// NewProcStatReader creates a reader for the given file.
// An empty path falls back to /proc/stat.
func NewProcStatReader(path string) *ProcStatReader {
	if path == "" {
		path = DefaultProcStatPath
	}
	return &ProcStatReader{path: path}
}

// Read opens the counter file and parses a fresh snapshot.
func (r *ProcStatReader) Read(ctx context.Context) (metrics.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", r.path, err)
	}
	defer f.Close()

	snap, err := ParseStat(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", r.path, err)
	}

	return snap, nil
}

// Name returns the reader name for logging purposes.
func (r *ProcStatReader) Name() string {
	return "procstat"
}

// ParseStat parses /proc/stat formatted text.
// Each per-core line must carry at least user..softirq; fields beyond
// steal are ignored.
func ParseStat(rd io.Reader) (metrics.Snapshot, error) {
	snap := make(metrics.Snapshot)
	scanner := bufio.NewScanner(rd)

	for lineNo := 1; scanner.Scan(); lineNo++ {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 || !cpuLabel.MatchString(fields[0]) {
			continue
		}

		counters := fields[1:]
		if len(counters) < metrics.MinBuckets {
			return nil, fmt.Errorf("line %d: %s has %d counters, want at least %d",
				lineNo, fields[0], len(counters), metrics.MinBuckets)
		}
		if len(counters) > metrics.NumBuckets {
			counters = counters[:metrics.NumBuckets]
		}

		sample := make(metrics.Sample, len(counters))
		for i, raw := range counters {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %s field %d: %w", lineNo, fields[0], i+1, err)
			}
			sample[i] = v
		}

		snap[fields[0]] = sample
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return snap, nil
}
