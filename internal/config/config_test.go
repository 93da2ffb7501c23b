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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ykotp.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

// TestLoad_Defaults tests loading without a config file
func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Slot)
	assert.Equal(t, "A0000005272001", cfg.ApplicationID)
	assert.Equal(t, "000000000000", cfg.AccessCode)
	assert.Empty(t, cfg.OldAccessCode)
	assert.True(t, cfg.IsStdin())
	assert.Equal(t, "text", cfg.Output)
	assert.Empty(t, cfg.MetricsFile)
}

// TestLoad_Success tests successful loading of a valid config file
func TestLoad_Success(t *testing.T) {
	path := writeConfig(t, `
slot: 1
application_id: "A0000005272001"
access_code: "112233445566"
old_access_code: "AAAAAAAAAAAA"
input: "/dev/shm/key.bin"
output: json
metrics_file: "/var/lib/node_exporter/ykotp.prom"
logging:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.Slot)
	assert.Equal(t, "112233445566", cfg.AccessCode)
	assert.Equal(t, "AAAAAAAAAAAA", cfg.OldAccessCode)
	assert.Equal(t, "/dev/shm/key.bin", cfg.Input)
	assert.False(t, cfg.IsStdin())
	assert.Equal(t, "json", cfg.Output)
	assert.Equal(t, "/var/lib/node_exporter/ykotp.prom", cfg.MetricsFile)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

// TestLoad_PartialFileKeepsDefaults tests that omitted keys keep defaults
func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "slot: 1\n"))
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.Slot)
	assert.Equal(t, DefaultApplicationID, cfg.ApplicationID)
	assert.Equal(t, DefaultAccessCode, cfg.AccessCode)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "slot: [1, 2\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoad_InvalidSlot(t *testing.T) {
	cfg, err := Load(writeConfig(t, "slot: 3\n"))
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Slot)

	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid slot")
}

func TestLoad_DoesNotValidate(t *testing.T) {
	t.Setenv("YKOTP_SLOT", "3")
	t.Setenv("YKOTP_LOG_LEVEL", "trace")

	cfg, err := Load(writeConfig(t, "output: xml\n"))
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Slot)
	assert.Equal(t, "xml", cfg.Output)
	assert.Equal(t, "trace", cfg.Logging.Level)

	// a later override repairs the values before validation
	cfg.Slot = 1
	cfg.Output = "text"
	cfg.Logging.Level = "info"
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("YKOTP_SLOT", "1")
	t.Setenv("YKOTP_APPLICATION_ID", "A0000005272002")
	t.Setenv("YKOTP_ACCESS_CODE", "010101010101")
	t.Setenv("YKOTP_OLD_ACCESS_CODE", "020202020202")
	t.Setenv("YKOTP_INPUT", "key.bin")
	t.Setenv("YKOTP_LOG_LEVEL", "warn")
	t.Setenv("YKOTP_LOG_FORMAT", "json")

	cfg, err := Load(writeConfig(t, "slot: 2\nold_access_code: \"\"\n"))
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.Slot)
	assert.Equal(t, "A0000005272002", cfg.ApplicationID)
	assert.Equal(t, "010101010101", cfg.AccessCode)
	assert.Equal(t, "020202020202", cfg.OldAccessCode)
	assert.Equal(t, "key.bin", cfg.Input)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_EnvEmptyOldAccessCode(t *testing.T) {
	t.Setenv("YKOTP_OLD_ACCESS_CODE", "")

	cfg, err := Load(writeConfig(t, "old_access_code: \"AAAAAAAAAAAA\"\n"))
	require.NoError(t, err)
	assert.Empty(t, cfg.OldAccessCode)
}

func TestLoad_EnvInvalidSlotIgnored(t *testing.T) {
	t.Setenv("YKOTP_SLOT", "two")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultSlot, cfg.Slot)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"slot 1", func(c *Config) { c.Slot = 1 }, ""},
		{"slot 0", func(c *Config) { c.Slot = 0 }, "invalid slot"},
		{"empty input", func(c *Config) { c.Input = "" }, "input must be specified"},
		{"input with newline", func(c *Config) { c.Input = "key\n.bin" }, "input contains control characters"},
		{"metrics file with null", func(c *Config) { c.MetricsFile = "a\x00b" }, "metrics_file contains null byte"},
		{"bad output", func(c *Config) { c.Output = "table" }, "invalid output format"},
		{"bad level", func(c *Config) { c.Logging.Level = "trace" }, "invalid log level"},
		{"bad format", func(c *Config) { c.Logging.Format = "console" }, "invalid log format"},
		{"uppercase accepted", func(c *Config) { c.Output = "JSON"; c.Logging.Level = "DEBUG" }, ""},
		// access codes are the builder's responsibility
		{"short access code", func(c *Config) { c.AccessCode = "00" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
