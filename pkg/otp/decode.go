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

import (
	"fmt"

	"github.com/jeremyhahn/go-ykotp/pkg/apdu"
)

// Decoded is a slot-write command taken apart
type Decoded struct {
	Slot          Slot
	Record        SlotConfig
	OldAccessCode *AccessCode
}

// Decode parses a hex slot-write APDU, as printed after the second -s of
// an Invocation, and checks the record the way the applet does before
// accepting it.
func Decode(writeHex string) (*Decoded, error) {
	cmd, err := apdu.ParseHex(writeHex)
	if err != nil {
		return nil, err
	}
	if cmd.INS != InsAPIRequest {
		return nil, fmt.Errorf("%w: instruction 0x%02x", ErrNotSlotWrite, cmd.INS)
	}
	slot, err := SlotFromSelector(cmd.P1)
	if err != nil {
		return nil, err
	}

	dec := &Decoded{Slot: slot}
	if err := dec.Record.UnmarshalBinary(cmd.Data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecordLength, err)
	}

	switch len(cmd.Data) {
	case RecordSize:
	case RecordSize + AccessCodeSize:
		var code AccessCode
		copy(code[:], cmd.Data[RecordSize:])
		dec.OldAccessCode = &code
	default:
		return nil, fmt.Errorf("%w: %d data bytes", ErrInvalidRecordLength, len(cmd.Data))
	}

	if !dec.Record.IsChallengeResponse() {
		return nil, fmt.Errorf("%w: ticket flags 0x%02x, config flags 0x%02x",
			ErrUnsupportedConfig, dec.Record.TicketFlags, dec.Record.ConfigFlags[0])
	}
	return dec, nil
}
