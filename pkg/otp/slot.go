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

import "fmt"

// Slot identifies one of the two configuration slots on the applet
type Slot int

const (
	// Slot1 is the short-touch slot
	Slot1 Slot = 1

	// Slot2 is the long-touch slot
	Slot2 Slot = 2
)

// Slot-write command bytes understood by the applet's API request
// instruction. Only the "set configuration" commands are used here.
const (
	InsAPIRequest byte = 0x01

	CmdSetConfig1 byte = 0x01
	CmdSetConfig2 byte = 0x03
)

// Selector returns the P1 command byte that writes this slot. Any value
// other than Slot2 selects slot 1.
func (s Slot) Selector() byte {
	if s == Slot2 {
		return CmdSetConfig2
	}
	return CmdSetConfig1
}

// IsValid returns true for the two slots the applet implements
func (s Slot) IsValid() bool {
	return s == Slot1 || s == Slot2
}

// String returns a human-readable slot name
func (s Slot) String() string {
	switch s {
	case Slot1:
		return "slot 1"
	case Slot2:
		return "slot 2"
	default:
		return fmt.Sprintf("unknown slot (%d)", int(s))
	}
}

// SlotFromSelector maps a slot-write command byte back to its slot
func SlotFromSelector(b byte) (Slot, error) {
	switch b {
	case CmdSetConfig1:
		return Slot1, nil
	case CmdSetConfig2:
		return Slot2, nil
	default:
		return 0, fmt.Errorf("%w: command byte 0x%02x", ErrNotSlotWrite, b)
	}
}
