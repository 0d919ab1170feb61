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
	"fmt"
	"io"
)

// Reporter writes one status line per observation.
type Reporter struct {
	out     io.Writer
	verbose bool
}

// NewReporter creates a Reporter. In verbose mode every observation is
// printed, otherwise only armed and tripped rounds.
func NewReporter(out io.Writer, verbose bool) *Reporter {
	return &Reporter{out: out, verbose: verbose}
}

// Report prints the status line for ev if it should be shown.
func (r *Reporter) Report(ev Event) error {
	if !ev.Notify && !r.verbose {
		return nil
	}
	_, err := fmt.Fprintln(r.out, FormatStatus(ev))
	return err
}

// FormatStatus renders "idle <percent>  <label>".
func FormatStatus(ev Event) string {
	return fmt.Sprintf("idle %.2f  %s", ev.Ratio*100, ev.Label)
}
