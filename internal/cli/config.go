// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-ykotp.
//
// go-ykotp is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeremyhahn/go-ykotp/internal/config"
	"github.com/jeremyhahn/go-ykotp/pkg/correlation"
	"github.com/jeremyhahn/go-ykotp/pkg/logging"
	"github.com/jeremyhahn/go-ykotp/pkg/metrics"
	"github.com/jeremyhahn/go-ykotp/pkg/otp"
	"github.com/jeremyhahn/go-ykotp/pkg/validation"
)

// Options holds the raw command-line flag values
type Options struct {
	// ConfigFile is the path to the configuration file
	ConfigFile string

	// OutputFormat controls output formatting (text, json)
	OutputFormat string

	// Verbose enables debug logging
	Verbose bool

	// LogFormat selects the log handler (text, json)
	LogFormat string

	// MetricsFile is the Prometheus textfile path
	MetricsFile string

	// init flags
	Slot          int
	ApplicationID string
	AccessCode    string
	OldAccessCode string
	Input         string
}

// app carries the state shared by the commands of one invocation
type app struct {
	opts     Options
	cfg      *config.Config
	logger   *logging.Logger
	recorder *metrics.Recorder
}

func newApp() *app {
	return &app{
		cfg:      config.Default(),
		logger:   logging.Discard(),
		recorder: metrics.NewRecorder(),
	}
}

// setup loads the configuration file, applies flags that were set on the
// command line and creates the logger
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.opts.ConfigFile)
	if err != nil {
		return err
	}
	a.applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.cfg = cfg
	a.recorder.SetRunID(correlation.GetRunID(cmd.Context()))

	a.logger = logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: logging.Format(strings.ToLower(cfg.Logging.Format)),
		Writer: cmd.ErrOrStderr(),
		Debug:  a.opts.Verbose,
	}).With(correlation.LogKey, correlation.GetRunID(cmd.Context()))

	a.logger.Debug("configuration loaded",
		"config_file", validation.SanitizeForLog(a.opts.ConfigFile),
		"slot", cfg.Slot,
		"output", cfg.Output)
	return nil
}

// applyFlags overrides configuration values with flags the user set
func (a *app) applyFlags(cmd *cobra.Command, cfg *config.Config) {
	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}

	if changed("output") {
		cfg.Output = a.opts.OutputFormat
	}
	if changed("log-format") {
		cfg.Logging.Format = a.opts.LogFormat
	}
	if changed("metrics-file") {
		cfg.MetricsFile = a.opts.MetricsFile
	}
	if changed("slot") {
		cfg.Slot = a.opts.Slot
	}
	if changed("app-id") {
		cfg.ApplicationID = a.opts.ApplicationID
	}
	if changed("access-code") {
		cfg.AccessCode = a.opts.AccessCode
	}
	if changed("old-access-code") {
		cfg.OldAccessCode = a.opts.OldAccessCode
	}
	if changed("input") {
		cfg.Input = a.opts.Input
	}
}

// params converts the configuration into builder parameters
func (a *app) params() otp.Params {
	return otp.Params{
		Slot:          otp.Slot(a.cfg.Slot),
		ApplicationID: a.cfg.ApplicationID,
		NewAccessCode: a.cfg.AccessCode,
		OldAccessCode: a.cfg.OldAccessCode,
	}
}

// keySource returns the key material reader. Files are opened on first
// read so that configuration errors are reported before input errors.
func (a *app) keySource(cmd *cobra.Command) io.Reader {
	if a.cfg.IsStdin() {
		return cmd.InOrStdin()
	}
	return &lazyFile{path: a.cfg.Input}
}

func (a *app) printer(cmd *cobra.Command) *Printer {
	return NewPrinter(strings.ToLower(a.cfg.Output), cmd.OutOrStdout())
}

// fail reports err on stderr through the printer, records it and marks it
// reported. The log record is debug only; the printer line is what the
// operator sees.
func (a *app) fail(cmd *cobra.Command, operation string, err error) error {
	a.logger.Debug("command failed",
		"operation", operation,
		"error_type", errorType(err),
		"error", validation.SanitizeForLog(err.Error()))
	a.recorder.RecordError(operation, strconv.Itoa(a.cfg.Slot), errorType(err))
	_ = NewPrinter(strings.ToLower(a.cfg.Output), cmd.ErrOrStderr()).PrintError(err)
	return &reportedError{err: err}
}

// flushMetrics writes the metrics file if one is configured
func (a *app) flushMetrics() {
	if a.cfg.MetricsFile == "" {
		return
	}
	if err := a.recorder.WriteTextfile(a.cfg.MetricsFile); err != nil {
		a.logger.Error(err, "path", validation.SanitizeForLog(a.cfg.MetricsFile))
		return
	}
	a.logger.Debugf("metrics written to %s", validation.SanitizeForLog(a.cfg.MetricsFile))
}

// errorType maps an error to the metrics error_type label
func errorType(err error) string {
	switch {
	case errors.Is(err, otp.ErrInvalidNewAccessCode):
		return "invalid_new_access_code"
	case errors.Is(err, otp.ErrInvalidOldAccessCode):
		return "invalid_old_access_code"
	case errors.Is(err, otp.ErrInvalidApplicationID):
		return "invalid_application_id"
	case errors.Is(err, otp.ErrInsufficientKeyMaterial):
		return "insufficient_key_material"
	case errors.Is(err, otp.ErrInvalidRecordLength):
		return "invalid_record_length"
	case errors.Is(err, otp.ErrNotSlotWrite), errors.Is(err, otp.ErrUnsupportedConfig):
		return "unsupported_command"
	default:
		return "other"
	}
}

// reportedError marks an error that has already been printed
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }

func (e *reportedError) Unwrap() error { return e.err }

// lazyFile opens path on the first Read
type lazyFile struct {
	path string
	f    *os.File
}

func (l *lazyFile) Read(p []byte) (int, error) {
	if l.f == nil {
		// #nosec G304 - key material path is provided by the operator
		f, err := os.Open(l.path)
		if err != nil {
			return 0, err
		}
		l.f = f
	}
	return l.f.Read(p)
}

// Close closes the file if it was opened
func (l *lazyFile) Close() error {
	if l.f == nil {
		return nil
	}
	return l.f.Close()
}
