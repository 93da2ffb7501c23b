package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("info"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}

func TestLogger_TextLevels(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Writer: &buf, Level: "info"})

	l.Debug("hidden")
	l.Debugf("hidden %d", 1)
	assert.Empty(t, buf.String())

	l.Info("shown", "slot", 2)
	assert.Contains(t, buf.String(), "msg=shown")
	assert.Contains(t, buf.String(), "slot=2")
}

func TestLogger_DebugOverridesLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Writer: &buf, Level: "error", Debug: true})

	l.Debugf("reading %d bytes", 20)
	assert.Contains(t, buf.String(), "reading 20 bytes")
}

func TestLogger_JSONWith(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Writer: &buf, Format: FormatJSON}).With("run_id", "abc")

	l.Error(errors.New("boom"))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "boom", rec["msg"])
	assert.Equal(t, "abc", rec["run_id"])
	assert.Equal(t, "ERROR", rec["level"])
}

func TestLogger_MaybeError(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Writer: &buf})

	l.MaybeError(nil)
	assert.Empty(t, buf.String())

	l.MaybeError(errors.New("failed"))
	assert.Contains(t, buf.String(), "failed")
}

func TestDiscard(t *testing.T) {
	assert.NotPanics(t, func() {
		Discard().Warn("nothing")
	})
}
