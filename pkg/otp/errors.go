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

package otp

import "errors"

var (
	// ErrInvalidNewAccessCode is returned when the new access code is not
	// exactly 6 bytes (12 hex characters).
	ErrInvalidNewAccessCode = errors.New("otp: invalid new access code: should be 6 bytes")

	// ErrInvalidOldAccessCode is returned when the old access code is neither
	// empty nor exactly 6 bytes.
	ErrInvalidOldAccessCode = errors.New("otp: invalid old access code: should be either six or zero bytes")

	// ErrInvalidApplicationID is returned when the application identifier is
	// not 7 bytes (14 hex characters).
	ErrInvalidApplicationID = errors.New("otp: invalid application identifier: should be 7 bytes")

	// ErrInsufficientKeyMaterial is returned when fewer than 20 bytes could
	// be read from the key material source.
	ErrInsufficientKeyMaterial = errors.New("otp: failed to read 20 bytes of key material")

	// ErrInvalidRecordLength is returned when the assembled record does not
	// have the expected length. Reaching it means the record layout is wrong.
	ErrInvalidRecordLength = errors.New("otp: invalid overall APDU length")

	// ErrNotSlotWrite is returned by Decode when the APDU is not a slot
	// configuration write.
	ErrNotSlotWrite = errors.New("otp: not a slot configuration command")

	// ErrUnsupportedConfig is returned by Decode when the applet would refuse
	// the record: it only accepts HMAC-SHA1 challenge-response configurations.
	ErrUnsupportedConfig = errors.New("otp: configuration not supported by applet")
)
