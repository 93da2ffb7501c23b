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
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"
)

// Field sizes of the slot configuration record
const (
	FixedSize      = 16
	UIDSize        = 6
	KeySize        = 16
	AccessCodeSize = 6
	FlagsSize      = 3
	CRCSize        = 2

	// KeyMaterialSize is the HMAC-SHA1 secret length consumed from input
	KeyMaterialSize = 20

	// RecordSize is the encoded size of SlotConfig
	RecordSize = FixedSize + UIDSize + KeySize + AccessCodeSize + 3 + FlagsSize + CRCSize

	// RecordHexLen is RecordSize in hex characters
	RecordHexLen = RecordSize * 2
)

const (
	// TicketFlagChalResp switches the slot from OTP output to
	// challenge-response. The applet rejects any other ticket flags.
	TicketFlagChalResp byte = 0x40

	// ConfigFlagChalHMAC selects HMAC-SHA1 as the challenge-response algorithm
	ConfigFlagChalHMAC byte = 0x22

	// ConfigFlagHMACLT64 marks challenges shorter than 64 bytes as
	// variable length. The applet requires it.
	ConfigFlagHMACLT64 byte = 0x04
)

// ConfigFlags is the config flag field written for HMAC-SHA1
// challenge-response: 0x26 followed by two zero bytes.
var ConfigFlags = [FlagsSize]byte{ConfigFlagChalHMAC | ConfigFlagHMACLT64, 0x00, 0x00}

// AccessCode protects a slot against reprogramming
type AccessCode [AccessCodeSize]byte

// ParseAccessCode decodes a 12 character hex access code
func ParseAccessCode(s string) (AccessCode, error) {
	var code AccessCode
	if len(s) != AccessCodeSize*2 {
		return code, fmt.Errorf("access code must be %d hex characters, got %d", AccessCodeSize*2, len(s))
	}
	if _, err := hex.Decode(code[:], []byte(s)); err != nil {
		return code, fmt.Errorf("access code is not hex: %w", err)
	}
	return code, nil
}

// String returns the uppercase hex form of the access code
func (a AccessCode) String() string {
	return strings.ToUpper(hex.EncodeToString(a[:]))
}

// IsZero reports whether the code is all zeros, which the applet treats
// as "no access code"
func (a AccessCode) IsZero() bool {
	return a == AccessCode{}
}

// SlotConfig is the fixed-layout configuration record. Field order is the
// wire order and must not change.
type SlotConfig struct {
	Fixed       [FixedSize]byte
	UID         [UIDSize]byte
	Key         [KeySize]byte
	AccessCode  AccessCode
	FixedSize   byte
	ExtFlags    byte
	TicketFlags byte
	ConfigFlags [FlagsSize]byte
	CRC         [CRCSize]byte
}

// NewSlotConfig derives a challenge-response record from 20 bytes of key
// material. The first 16 bytes become the key and the remaining 4 bytes
// the start of the uid; the last two uid bytes stay zero.
func NewSlotConfig(material [KeyMaterialSize]byte, accessCode AccessCode) *SlotConfig {
	cfg := &SlotConfig{
		AccessCode:  accessCode,
		TicketFlags: TicketFlagChalResp,
		ConfigFlags: ConfigFlags,
	}
	copy(cfg.Key[:], material[:KeySize])
	copy(cfg.UID[:], material[KeySize:])
	return cfg
}

// MarshalBinary encodes the record in wire order
func (c *SlotConfig) MarshalBinary() ([]byte, error) {
	buf := new(bytes.Buffer)
	buf.Grow(RecordSize)
	if err := binary.Write(buf, binary.BigEndian, c); err != nil {
		return nil, fmt.Errorf("failed to encode slot config: %w", err)
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary decodes the first RecordSize bytes of data
func (c *SlotConfig) UnmarshalBinary(data []byte) error {
	if len(data) < RecordSize {
		return fmt.Errorf("slot config needs %d bytes, got %d", RecordSize, len(data))
	}
	return binary.Read(bytes.NewReader(data[:RecordSize]), binary.BigEndian, c)
}

// Hex returns the uppercase hex encoding of the record
func (c *SlotConfig) Hex() (string, error) {
	b, err := c.MarshalBinary()
	if err != nil {
		return "", err
	}
	return strings.ToUpper(hex.EncodeToString(b)), nil
}

// HMACKey returns the 20-byte secret the applet reconstructs from the
// key field and the first four uid bytes
func (c *SlotConfig) HMACKey() []byte {
	key := make([]byte, 0, KeyMaterialSize)
	key = append(key, c.Key[:]...)
	return append(key, c.UID[:KeyMaterialSize-KeySize]...)
}

// IsChallengeResponse applies the applet's acceptance rules
func (c *SlotConfig) IsChallengeResponse() bool {
	if c.TicketFlags != TicketFlagChalResp {
		return false
	}
	if c.ConfigFlags[0]&ConfigFlagChalHMAC == 0 {
		return false
	}
	return c.ConfigFlags[0]&ConfigFlagHMACLT64 != 0
}
