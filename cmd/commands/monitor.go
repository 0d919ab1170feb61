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
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/phuonguno98/idlerun/internal/alarm"
	"github.com/phuonguno98/idlerun/internal/collector"
	"github.com/phuonguno98/idlerun/internal/config"
	"github.com/phuonguno98/idlerun/internal/devices"
	"github.com/phuonguno98/idlerun/internal/monitor"
	"github.com/phuonguno98/idlerun/internal/server"
	"github.com/phuonguno98/idlerun/pkg/version"
	"github.com/spf13/cobra"
)

// buildConfig creates a Config object from parsed flags and the positional command.
func buildConfig(args []string) (*config.Config, error) {
	cfg := &config.Config{
		Interval:     config.IntervalFromSeconds(intervalSeconds),
		LowPercent:   lowPercent,
		HighPercent:  highPercent,
		Verbose:      verbose,
		Command:      args,
		Source:       source,
		ProcStatPath: procStatPath,
		Listen:       listen,
		LogLevel:     logLevel,
		LogFile:      logFile,
		ListCPUs:     listCPUs,
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// runMonitor is the main monitoring entry point.
func runMonitor(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = buildConfig(args)
	if err != nil {
		return err
	}

	// Arguments are valid; later failures are not usage errors
	cmd.SilenceUsage = true

	logger := InitLogger(cfg.LogLevel, cfg.LogFile)

	reader, err := collector.NewReader(cfg.Source, cfg.ProcStatPath)
	if err != nil {
		return err
	}

	if cfg.ListCPUs {
		return runListCPUs(cmd, reader)
	}

	logger.Info("Starting idlerun",
		"version", version.Info(),
		"os", runtime.GOOS,
		"arch", runtime.GOARCH,
		"source", reader.Name(),
	)
	if platform, err := devices.PlatformInfo(); err != nil {
		logger.Debug("Platform info unavailable", "error", err)
	} else {
		logger.Info("Running on", "platform", platform)
	}
	logger.Info("Configuration loaded", "config", cfg.String())

	// Setup context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("Received signal, initiating shutdown", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	action := alarm.NewCommand(cfg.Command, logger)

	mon, err := monitor.New(cfg.LowFraction(), cfg.HighFraction(), action.Fire)
	if err != nil {
		return err
	}

	var opts []monitor.RunnerOption
	if cfg.Listen != "" {
		board := &server.StatusBoard{}
		opts = append(opts, monitor.WithStatusSink(board))

		stopServer := startStatusServer(ctx, cfg, board, logger)
		defer stopServer()
	}

	runner := monitor.NewRunner(
		reader,
		mon,
		monitor.NewReporter(cmd.OutOrStdout(), cfg.Verbose),
		cfg.Interval,
		logger,
		opts...,
	)

	if err := runner.Run(ctx); err != nil {
		logger.Error("Idle monitor stopped with error", "error", err)
		return err
	}

	logger.Info("Shutdown complete", "alarms", action.Runs())

	return nil
}

// startStatusServer serves the status endpoint in the background and
// returns a function that shuts it down.
func startStatusServer(ctx context.Context, cfg *config.Config, board *server.StatusBoard, logger *slog.Logger) func() {
	srv := server.NewServer(board, server.Thresholds{
		Low:   cfg.LowPercent,
		Alarm: cfg.HighPercent,
	}, logger)

	httpServer := &http.Server{
		Addr:         cfg.Listen,
		Handler:      srv,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Status endpoint listening", "addr", cfg.Listen, "run_id", srv.RunID())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Status endpoint stopped", "error", err)
		}
	}()

	return func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer shutdownCancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
	}
}
