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
	"fmt"
	"strconv"
	"strings"

	"github.com/phuonguno98/idlerun/pkg/metrics"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
)

// Dependency injection points for testing
var (
	cpuInfo   = cpu.Info
	cpuCounts = cpu.Counts
	hostInfo  = host.Info
)

// CPUInfo represents one logical CPU as seen by the counter source.
type CPUInfo struct {
	ID     string
	Model  string
	Vendor string
	MHz    float64
}

// Summary describes the CPUs the monitor averages over.
type Summary struct {
	Logical  int
	Physical int
	CPUs     []CPUInfo
}

// ListCPUs describes the given counter identifiers (e.g. "cpu0").
// Model details are best-effort and left empty when unavailable.
func ListCPUs(ids []string) (*Summary, error) {
	logical, err := cpuCounts(true)
	if err != nil {
		return nil, fmt.Errorf("failed to count logical CPUs: %w", err)
	}

	physical, err := cpuCounts(false)
	if err != nil {
		physical = 0
	}

	byIndex := make(map[int]cpu.InfoStat)
	if infos, err := cpuInfo(); err == nil {
		for i, info := range infos {
			byIndex[i] = info
		}
	}

	sorted := append([]string(nil), ids...)
	metrics.SortCPUIDs(sorted)

	cpus := make([]CPUInfo, 0, len(sorted))
	for _, id := range sorted {
		c := CPUInfo{ID: id}

		info, ok := byIndex[cpuIndex(id)]
		if !ok {
			// Some platforms report a single entry for the whole package
			info, ok = byIndex[0]
		}
		if ok {
			c.Model = info.ModelName
			c.Vendor = info.VendorID
			c.MHz = info.Mhz
		}

		cpus = append(cpus, c)
	}

	return &Summary{
		Logical:  logical,
		Physical: physical,
		CPUs:     cpus,
	}, nil
}

// PlatformInfo returns a short description of the host OS.
func PlatformInfo() (string, error) {
	info, err := hostInfo()
	if err != nil {
		return "", fmt.Errorf("failed to get host info: %w", err)
	}
	return fmt.Sprintf("%s %s (%s, kernel %s)",
		info.Platform, info.PlatformVersion, info.KernelArch, info.KernelVersion), nil
}

// FormatCPUTable formats CPU information as a table.
func FormatCPUTable(s *Summary) string {
	var sb strings.Builder

	sb.WriteString("\nMonitored CPUs:\n")
	sb.WriteString(strings.Repeat("=", 80))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("%-8s %-14s %-44s %s\n", "CPU", "VENDOR", "MODEL", "MHZ"))
	sb.WriteString(strings.Repeat("-", 80))
	sb.WriteString("\n")

	for _, c := range s.CPUs {
		mhz := "N/A"
		if c.MHz > 0 {
			mhz = fmt.Sprintf("%.0f", c.MHz)
		}
		sb.WriteString(fmt.Sprintf("%-8s %-14s %-44s %s\n",
			c.ID,
			orNA(truncate(c.Vendor, 14)),
			orNA(truncate(c.Model, 44)),
			mhz,
		))
	}

	sb.WriteString(strings.Repeat("=", 80))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Logical CPUs: %d, physical cores: %d\n", s.Logical, s.Physical))

	return sb.String()
}

func cpuIndex(id string) int {
	n, err := strconv.Atoi(strings.TrimPrefix(id, "cpu"))
	if err != nil {
		return -1
	}
	return n
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// truncate truncates a string to maxLen characters.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
