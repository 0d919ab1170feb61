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
	"runtime"

	"github.com/phuonguno98/idlerun/pkg/metrics"
)

// Counter sources accepted by NewReader.
const (
	SourceAuto     = "auto"
	SourceProc     = "proc"
	SourceGopsutil = "gopsutil"
)

// DefaultProcStatPath is the kernel's per-CPU counter file on Linux.
const DefaultProcStatPath = "/proc/stat"

// Reader produces a snapshot of the per-CPU cumulative time counters.
type Reader interface {
	Read(ctx context.Context) (metrics.Snapshot, error)
	Name() string
}

// NewReader returns the Reader for the given source.
// SourceAuto picks the /proc/stat reader on Linux and gopsutil elsewhere.
func NewReader(source, procStatPath string) (Reader, error) {
	if source == SourceAuto || source == "" {
		if runtime.GOOS == "linux" {
			source = SourceProc
		} else {
			source = SourceGopsutil
		}
	}

	switch source {
	case SourceProc:
		return NewProcStatReader(procStatPath), nil
	case SourceGopsutil:
		return NewTimesReader(), nil
	default:
		return nil, fmt.Errorf("unknown counter source: %s", source)
	}
}
