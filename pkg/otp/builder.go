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
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jeremyhahn/go-ykotp/pkg/apdu"
)

const (
	// DefaultApplicationID is the AID of the YubiKey OTP application.
	// Change it only when targeting an applet installed under another AID.
	DefaultApplicationID = "A0000005272001"

	// DefaultAccessCode is the all-zero code, meaning "unprotected"
	DefaultAccessCode = "000000000000"

	// ApplicationIDSize is the AID length the select command is framed for
	ApplicationIDSize = 7

	// TransportTool is the PC/SC utility that sends the APDUs
	TransportTool = "opensc-tool"

	// TransportSendFlag precedes each hex APDU on the command line
	TransportSendFlag = "-s"
)

// Params holds the caller-supplied configuration for one run
type Params struct {
	// Slot is the slot to program. Any value other than Slot2 writes slot 1.
	Slot Slot

	// ApplicationID is the hex AID of the OTP application (14 characters)
	ApplicationID string

	// NewAccessCode is the hex code that will protect the slot (12
	// characters). Keep it: it is needed to reprogram the slot.
	NewAccessCode string

	// OldAccessCode is the hex code currently protecting the slot, or empty
	// if the slot is unprotected
	OldAccessCode string
}

// DefaultParams returns parameters for slot 2 of the standard applet with
// no access code
func DefaultParams() Params {
	return Params{
		Slot:          Slot2,
		ApplicationID: DefaultApplicationID,
		NewAccessCode: DefaultAccessCode,
		OldAccessCode: "",
	}
}

// Invocation is the assembled slot programming command
type Invocation struct {
	Slot   Slot
	Select apdu.Command
	Write  apdu.Command
	Record SlotConfig

	// OldAccessCode is nil when the slot was unprotected
	OldAccessCode *AccessCode
}

// Build validates p, reads KeyMaterialSize bytes from r and assembles the
// select and slot-write commands. Checks run in a fixed order and the
// first failure is returned; r is not read unless the access codes and
// application ID are valid. Bytes after the key material are left unread.
func Build(p Params, r io.Reader) (*Invocation, error) {
	newCode, err := ParseAccessCode(p.NewAccessCode)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidNewAccessCode, err)
	}

	var oldCode *AccessCode
	if p.OldAccessCode != "" {
		code, err := ParseAccessCode(p.OldAccessCode)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidOldAccessCode, err)
		}
		oldCode = &code
	}

	aid, err := parseApplicationID(p.ApplicationID)
	if err != nil {
		return nil, err
	}

	material, err := ReadKeyMaterial(r)
	if err != nil {
		return nil, err
	}

	record := NewSlotConfig(material, newCode)
	data, err := record.MarshalBinary()
	if err != nil {
		return nil, err
	}
	if oldCode != nil {
		data = append(data, oldCode[:]...)
	}

	if want := RecordHexLen + len(p.OldAccessCode); hex.EncodedLen(len(data)) != want {
		return nil, fmt.Errorf("%w: %d hex characters, want %d",
			ErrInvalidRecordLength, hex.EncodedLen(len(data)), want)
	}

	sel, err := apdu.Select(aid)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidApplicationID, err)
	}

	return &Invocation{
		Slot:   p.Slot,
		Select: sel,
		Write: apdu.Command{
			CLA:  apdu.ClaISO,
			INS:  InsAPIRequest,
			P1:   p.Slot.Selector(),
			P2:   0x00,
			Data: data,
		},
		Record:        *record,
		OldAccessCode: oldCode,
	}, nil
}

// ReadKeyMaterial consumes exactly KeyMaterialSize bytes from r
func ReadKeyMaterial(r io.Reader) ([KeyMaterialSize]byte, error) {
	var material [KeyMaterialSize]byte
	n, err := io.ReadFull(r, material[:])
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return material, fmt.Errorf("%w: got %d bytes", ErrInsufficientKeyMaterial, n)
		}
		return material, fmt.Errorf("%w: %v", ErrInsufficientKeyMaterial, err)
	}
	return material, nil
}

func parseApplicationID(s string) ([]byte, error) {
	if len(s) != ApplicationIDSize*2 {
		return nil, fmt.Errorf("%w: got %d hex characters", ErrInvalidApplicationID, len(s))
	}
	aid, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidApplicationID, err)
	}
	return aid, nil
}

// SelectHex returns the application select APDU as hex
func (inv *Invocation) SelectHex() string {
	s, _ := inv.Select.Hex()
	return s
}

// WriteHex returns the slot-write APDU as hex
func (inv *Invocation) WriteHex() string {
	s, _ := inv.Write.Hex()
	return s
}

// Args returns the transport tool arguments, without the tool name
func (inv *Invocation) Args() []string {
	return []string{TransportSendFlag, inv.SelectHex(), TransportSendFlag, inv.WriteHex()}
}

// String renders the full command line
func (inv *Invocation) String() string {
	return TransportTool + " " + strings.Join(inv.Args(), " ")
}
