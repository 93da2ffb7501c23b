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
// Package correlation tags each ykotp run with an identifier so that log
// lines, JSON output and metrics from one provisioning event can be joined.
package correlation

import (
	"context"

	"github.com/google/uuid"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// RunIDKey is the context key for storing the run ID
	RunIDKey contextKey = "run-id"

	// LogKey is the attribute name used in log records and JSON output
	LogKey = "run_id"
)

// WithRunID adds a run ID to the context
func WithRunID(ctx context.Context, id string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, RunIDKey, id)
}

// GetRunID retrieves the run ID from context.
// Returns an empty string if none is set.
func GetRunID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(RunIDKey).(string); ok {
		return id
	}
	return ""
}

// NewID generates a new UUID v4 run ID
func NewID() string {
	return uuid.New().String()
}

// GetOrGenerate retrieves an existing run ID from context
// or generates a new one if none exists.
func GetOrGenerate(ctx context.Context) string {
	if id := GetRunID(ctx); id != "" {
		return id
	}
	return NewID()
}
