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
// Package validation checks operator-supplied strings before they reach
// the filesystem or the logs.
package validation

import (
	"fmt"
	"strings"
)

// MaxPathLength bounds file paths accepted from configuration
const MaxPathLength = 4096

// ValidatePath validates a file path taken from flags, environment or a
// config file. It rejects:
// - empty strings
// - null bytes
// - control characters
// - paths longer than MaxPathLength
func ValidatePath(name, path string) error {
	if path == "" {
		return fmt.Errorf("%s cannot be empty", name)
	}

	// Check for null bytes (can truncate the path in syscalls)
	if strings.Contains(path, "\x00") {
		return fmt.Errorf("%s contains null byte", name)
	}

	if len(path) > MaxPathLength {
		return fmt.Errorf("%s too long (max %d characters)", name, MaxPathLength)
	}

	for _, r := range path {
		if r < 32 || r == 127 {
			return fmt.Errorf("%s contains control characters", name)
		}
	}

	return nil
}

// SanitizeForLog sanitizes a string for safe logging (prevents log injection).
func SanitizeForLog(s string) string {
	// Remove control characters and null bytes
	s = strings.Map(func(r rune) rune {
		if r < 32 || r == 127 {
			return -1
		}
		return r
	}, s)

	// Limit length to prevent log flooding
	if len(s) > 1000 {
		s = s[:1000] + "...[truncated]"
	}

	return s
}
