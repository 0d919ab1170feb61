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

package devices

import (
	"errors"
	"strings"
	"testing"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
)

func TestListCPUs(t *testing.T) {
	// Backup original functions
	origInfo := cpuInfo
	origCounts := cpuCounts
	defer func() {
		cpuInfo = origInfo
		cpuCounts = origCounts
	}()

	twoCores := func() ([]cpu.InfoStat, error) {
		return []cpu.InfoStat{
			{CPU: 0, VendorID: "GenuineIntel", ModelName: "Xeon", Mhz: 2400},
			{CPU: 1, VendorID: "GenuineIntel", ModelName: "Xeon", Mhz: 2400},
		}, nil
	}

	tests := []struct {
		name       string
		ids        []string
		mockInfo   func() ([]cpu.InfoStat, error)
		mockCounts func(bool) (int, error)
		wantIDs    []string
		wantModel  string
		wantErr    bool
	}{
		{
			name:     "Success (sorted)",
			ids:      []string{"cpu1", "cpu0"},
			mockInfo: twoCores,
			mockCounts: func(logical bool) (int, error) {
				if logical {
					return 2, nil
				}
				return 1, nil
			},
			wantIDs:   []string{"cpu0", "cpu1"},
			wantModel: "Xeon",
		},
		{
			name: "Single package entry",
			ids:  []string{"cpu0", "cpu1", "cpu2"},
			mockInfo: func() ([]cpu.InfoStat, error) {
				return []cpu.InfoStat{{ModelName: "Apple M1"}}, nil
			},
			mockCounts: func(bool) (int, error) { return 3, nil },
			wantIDs:    []string{"cpu0", "cpu1", "cpu2"},
			wantModel:  "Apple M1",
		},
		{
			name: "Info error (Should proceed without model)",
			ids:  []string{"cpu0"},
			mockInfo: func() ([]cpu.InfoStat, error) {
				return nil, errors.New("info failed")
			},
			mockCounts: func(bool) (int, error) { return 1, nil },
			wantIDs:    []string{"cpu0"},
		},
		{
			name:     "Counts error",
			ids:      []string{"cpu0"},
			mockInfo: twoCores,
			mockCounts: func(bool) (int, error) {
				return 0, errors.New("counts failed")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cpuInfo = tt.mockInfo
			cpuCounts = tt.mockCounts

			got, err := ListCPUs(tt.ids)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ListCPUs() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			if len(got.CPUs) != len(tt.wantIDs) {
				t.Fatalf("ListCPUs() count = %d, want %d", len(got.CPUs), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if got.CPUs[i].ID != id {
					t.Errorf("CPUs[%d].ID = %v, want %v", i, got.CPUs[i].ID, id)
				}
				if got.CPUs[i].Model != tt.wantModel {
					t.Errorf("CPUs[%d].Model = %q, want %q", i, got.CPUs[i].Model, tt.wantModel)
				}
			}
		})
	}
}

func TestPlatformInfo(t *testing.T) {
	orig := hostInfo
	defer func() { hostInfo = orig }()

	hostInfo = func() (*host.InfoStat, error) {
		return &host.InfoStat{
			Platform:        "ubuntu",
			PlatformVersion: "24.04",
			KernelArch:      "x86_64",
			KernelVersion:   "6.8.0",
		}, nil
	}

	got, err := PlatformInfo()
	if err != nil {
		t.Fatalf("PlatformInfo() error = %v", err)
	}
	if got != "ubuntu 24.04 (x86_64, kernel 6.8.0)" {
		t.Errorf("PlatformInfo() = %q", got)
	}

	hostInfo = func() (*host.InfoStat, error) { return nil, errors.New("boom") }
	if _, err := PlatformInfo(); err == nil {
		t.Error("PlatformInfo() should propagate host errors")
	}
}

func TestFormatCPUTable(t *testing.T) {
	s := &Summary{
		Logical:  2,
		Physical: 1,
		CPUs: []CPUInfo{
			{ID: "cpu0", Vendor: "GenuineIntel", Model: "Intel(R) Xeon(R) CPU E5-2686 v4 @ 2.30GHz with a very long name", MHz: 2300},
			{ID: "cpu1"},
		},
	}

	out := FormatCPUTable(s)

	if !strings.Contains(out, "Monitored CPUs") {
		t.Error("missing title")
	}
	if !strings.Contains(out, "cpu0") || !strings.Contains(out, "2300") {
		t.Error("missing cpu0 row")
	}
	if !strings.Contains(out, "...") {
		t.Error("long model name should be truncated")
	}
	if !strings.Contains(out, "N/A") {
		t.Error("missing details should render as N/A")
	}
	if !strings.Contains(out, "Logical CPUs: 2, physical cores: 1") {
		t.Error("missing counts footer")
	}
}
