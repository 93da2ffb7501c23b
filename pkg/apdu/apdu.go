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

// Package apdu encodes and decodes ISO 7816-4 short command APDUs.
//
// Only the short form is supported: Lc and Le are single bytes and the
// command data field is limited to 255 bytes. That is all the OTP applet
// accepts for slot programming.
package apdu

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

const (
	// MaxDataLength is the largest data field a short APDU can carry
	MaxDataLength = 255

	// HeaderLength is the size of CLA INS P1 P2
	HeaderLength = 4

	// ClaISO is the interindustry class byte with no secure messaging
	ClaISO byte = 0x00

	// InsSelect is the SELECT instruction
	InsSelect byte = 0xA4

	// P1SelectByName selects an application by its DF name (AID)
	P1SelectByName byte = 0x04

	// MinAIDLength and MaxAIDLength bound the application identifier length
	MinAIDLength = 5
	MaxAIDLength = 16
)

var (
	// ErrDataTooLong is returned when the data field exceeds MaxDataLength
	ErrDataTooLong = errors.New("apdu: data field exceeds 255 bytes")

	// ErrInvalidAID is returned when an application identifier is out of range
	ErrInvalidAID = errors.New("apdu: invalid application identifier")

	// ErrMalformed is returned when a serialized APDU has inconsistent lengths
	ErrMalformed = errors.New("apdu: malformed command")
)

// Command is a short command APDU.
type Command struct {
	CLA  byte
	INS  byte
	P1   byte
	P2   byte
	Data []byte

	// Le is emitted only when HasLe is set. A value of 0x00 requests up
	// to 256 response bytes.
	Le    byte
	HasLe bool
}

// Select returns a SELECT-by-name command for the given AID.
func Select(aid []byte) (Command, error) {
	if len(aid) < MinAIDLength || len(aid) > MaxAIDLength {
		return Command{}, fmt.Errorf("%w: %d bytes", ErrInvalidAID, len(aid))
	}
	return Command{
		CLA:   ClaISO,
		INS:   InsSelect,
		P1:    P1SelectByName,
		P2:    0x00,
		Data:  append([]byte(nil), aid...),
		Le:    0x00,
		HasLe: true,
	}, nil
}

// MarshalBinary encodes the command as CLA INS P1 P2 [Lc Data] [Le].
func (c Command) MarshalBinary() ([]byte, error) {
	if len(c.Data) > MaxDataLength {
		return nil, fmt.Errorf("%w: %d bytes", ErrDataTooLong, len(c.Data))
	}

	buf := new(bytes.Buffer)
	header := [HeaderLength]byte{c.CLA, c.INS, c.P1, c.P2}
	if err := binary.Write(buf, binary.BigEndian, header); err != nil {
		return nil, err
	}
	if len(c.Data) > 0 {
		buf.WriteByte(byte(len(c.Data)))
		buf.Write(c.Data)
	}
	if c.HasLe {
		buf.WriteByte(c.Le)
	}
	return buf.Bytes(), nil
}

// Hex returns the encoded command as uppercase hex, the form opensc-tool
// expects after -s.
func (c Command) Hex() (string, error) {
	b, err := c.MarshalBinary()
	if err != nil {
		return "", err
	}
	return strings.ToUpper(hex.EncodeToString(b)), nil
}

// Lc returns the length byte for the data field, or 0 if there is none.
func (c Command) Lc() byte {
	return byte(len(c.Data))
}

// Parse decodes a short command APDU.
//
// Accepted forms are header only, header+Le, header+Lc+data and
// header+Lc+data+Le. A lone fifth byte is read as Le.
func Parse(b []byte) (*Command, error) {
	if len(b) < HeaderLength {
		return nil, fmt.Errorf("%w: %d bytes is shorter than the header", ErrMalformed, len(b))
	}

	cmd := &Command{CLA: b[0], INS: b[1], P1: b[2], P2: b[3]}
	body := b[HeaderLength:]

	switch {
	case len(body) == 0:
		return cmd, nil
	case len(body) == 1:
		cmd.Le = body[0]
		cmd.HasLe = true
		return cmd, nil
	}

	lc := int(body[0])
	if lc == 0 {
		return nil, fmt.Errorf("%w: zero Lc with trailing bytes", ErrMalformed)
	}
	rest := body[1:]
	switch len(rest) {
	case lc:
	case lc + 1:
		cmd.Le = rest[lc]
		cmd.HasLe = true
	default:
		return nil, fmt.Errorf("%w: Lc=%d but %d bytes follow", ErrMalformed, lc, len(rest))
	}
	cmd.Data = append([]byte(nil), rest[:lc]...)
	return cmd, nil
}

// ParseHex decodes a hex-encoded short command APDU. Case is ignored.
func ParseHex(s string) (*Command, error) {
	b, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return Parse(b)
}
