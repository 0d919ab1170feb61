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

package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/phuonguno98/idlerun/internal/config"
	"github.com/phuonguno98/idlerun/pkg/version"
	"github.com/spf13/cobra"
)

var (
	cfg *config.Config

	// Monitor flags
	intervalSeconds float64
	lowPercent      float64
	highPercent     float64
	verbose         bool

	// Counter source and status endpoint
	source       string
	procStatPath string
	listen       string
	listCPUs     bool

	// Logging
	logLevel string
	logFile  string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "idlerun [flags] command [args...]",
	Short: "Run a command when the CPUs go from busy to idle",
	Long: `idlerun samples the per-CPU time counters every interval and averages the
idle share across all CPUs. Once the idle percentage has dropped to the low
threshold the monitor is armed; when it then climbs to the alarm threshold the
command is run with this terminal's stdin, stdout and stderr, and the monitor
disarms until the next dip.

Examples:
  # Notify when a build saturating the machine is done
  idlerun notify-send "build finished"

  # Check every 5 seconds, arm below 20% idle, fire above 90% idle
  idlerun -i 5 -l 20 -a 90 -- make -C ~/src deploy`,
	Version: version.Info(),
	RunE:    runMonitor,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.Flags()

	// Everything after the first positional argument belongs to the alarm command
	flags.SetInterspersed(false)

	flags.Float64VarP(&intervalSeconds, "interval", "i", config.DefaultIntervalSeconds,
		"Check every X seconds (must be >= 1)")
	flags.Float64VarP(&lowPercent, "low", "l", config.DefaultLowPercent,
		"CPU has to idle for less than L% before the alarm can trip again")
	flags.Float64VarP(&highPercent, "alarm", "a", config.DefaultHighPercent,
		"CPU has to idle for more than H% to trip the alarm")
	flags.BoolVarP(&verbose, "verbose", "v", false,
		"Print the current idle rate every interval")

	flags.StringVar(&source, "source", config.DefaultSource,
		"Counter source (auto, proc, gopsutil)")
	flags.StringVar(&procStatPath, "proc-stat", config.DefaultProcStatPath,
		"Path of the /proc/stat formatted counter file (proc source)")
	flags.StringVar(&listen, "listen", "",
		"Serve the monitor status over HTTP on this address, e.g. 127.0.0.1:9595 (empty = disabled)")
	flags.BoolVar(&listCPUs, "list-cpus", false,
		"List the CPUs the idle average is taken over, then exit")

	flags.StringVar(&logLevel, "log-level", config.DefaultLogLevel,
		"Log level (debug, info, warn, error)")
	flags.StringVar(&logFile, "log-file", "",
		"Log file path (empty = stderr)")
}

// InitLogger initializes and returns a slog.Logger based on the provided settings.
// Text logs go to stderr; stdout is reserved for status lines.
func InitLogger(levelStr, fileStr string) *slog.Logger {
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelWarn
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if fileStr != "" {
		f, err := os.OpenFile(fileStr, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
			os.Exit(1)
		}
		handler = slog.NewJSONHandler(f, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	return slog.New(handler)
}
