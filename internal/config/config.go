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
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jeremyhahn/go-ykotp/pkg/validation"
)

const (
	// StdinInput selects standard input as the key material source
	StdinInput = "-"

	DefaultSlot          = 2
	DefaultApplicationID = "A0000005272001"
	DefaultAccessCode    = "000000000000"
)

// Config represents the complete CLI configuration
type Config struct {
	Slot          int    `yaml:"slot"`
	ApplicationID string `yaml:"application_id"`

	// AccessCode protects the slot after programming. Keep a copy: it is
	// required to reprogram the slot.
	AccessCode string `yaml:"access_code"`

	// OldAccessCode is the code currently protecting the slot, if any
	OldAccessCode string `yaml:"old_access_code"`

	// Input is the key material source, "-" for stdin or a file path
	Input string `yaml:"input"`

	// Output selects the result format (text, json)
	Output string `yaml:"output"`

	// MetricsFile is an optional Prometheus textfile collector path
	MetricsFile string `yaml:"metrics_file"`

	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig controls logging behavior
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		Slot:          DefaultSlot,
		ApplicationID: DefaultApplicationID,
		AccessCode:    DefaultAccessCode,
		OldAccessCode: "",
		Input:         StdinInput,
		Output:        "text",
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads configuration from a YAML file on top of the defaults and
// applies environment variable overrides. An empty path skips the file.
// The result is not validated; callers layer their own overrides on top
// and call Validate last.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		// #nosec G304 - Config file path is provided by the operator
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration
func applyEnvOverrides(cfg *Config) {
	if slot := os.Getenv("YKOTP_SLOT"); slot != "" {
		n, err := strconv.Atoi(slot)
		if err != nil {
			log.Printf("Warning: invalid YKOTP_SLOT value %q, using %d: %v", slot, cfg.Slot, err)
		} else {
			cfg.Slot = n
		}
	}
	if aid := os.Getenv("YKOTP_APPLICATION_ID"); aid != "" {
		cfg.ApplicationID = aid
	}
	// Access codes may legitimately be set to empty, so presence is what counts
	if code, ok := os.LookupEnv("YKOTP_ACCESS_CODE"); ok {
		cfg.AccessCode = code
	}
	if code, ok := os.LookupEnv("YKOTP_OLD_ACCESS_CODE"); ok {
		cfg.OldAccessCode = code
	}
	if input := os.Getenv("YKOTP_INPUT"); input != "" {
		cfg.Input = input
	}
	if level := os.Getenv("YKOTP_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
	if format := os.Getenv("YKOTP_LOG_FORMAT"); format != "" {
		cfg.Logging.Format = format
	}
}

// Validate checks if the configuration is valid. Access codes and the
// application ID are checked when the command is built.
func (c *Config) Validate() error {
	if c.Slot != 1 && c.Slot != 2 {
		return fmt.Errorf("invalid slot: %d (must be 1 or 2)", c.Slot)
	}

	if c.Input == "" {
		return fmt.Errorf("input must be specified (use %q for stdin)", StdinInput)
	}
	if !c.IsStdin() {
		if err := validation.ValidatePath("input", c.Input); err != nil {
			return err
		}
	}
	if c.MetricsFile != "" {
		if err := validation.ValidatePath("metrics_file", c.MetricsFile); err != nil {
			return err
		}
	}

	validOutputs := map[string]bool{"text": true, "json": true}
	if !validOutputs[strings.ToLower(c.Output)] {
		return fmt.Errorf("invalid output format: %s (must be text or json)", c.Output)
	}

	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logging.Level)
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		return fmt.Errorf("invalid log format: %s (must be json or text)", c.Logging.Format)
	}

	return nil
}

// IsStdin reports whether key material is read from standard input
func (c *Config) IsStdin() bool {
	return c.Input == StdinInput
}
