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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeremyhahn/go-ykotp/pkg/apdu"
)

func TestDecode_RoundTrip(t *testing.T) {
	material := bytes.Repeat([]byte{0x3C}, KeyMaterialSize)
	p := DefaultParams()
	p.Slot = Slot1
	p.NewAccessCode = "A1A2A3A4A5A6"
	p.OldAccessCode = "B1B2B3B4B5B6"

	inv, err := Build(p, bytes.NewReader(material))
	require.NoError(t, err)

	dec, err := Decode(inv.WriteHex())
	require.NoError(t, err)
	assert.Equal(t, Slot1, dec.Slot)
	assert.Equal(t, inv.Record, dec.Record)
	assert.Equal(t, "A1A2A3A4A5A6", dec.Record.AccessCode.String())
	require.NotNil(t, dec.OldAccessCode)
	assert.Equal(t, "B1B2B3B4B5B6", dec.OldAccessCode.String())
	assert.Equal(t, material, dec.Record.HMACKey())
}

func TestDecode_NoOldAccessCode(t *testing.T) {
	dec, err := Decode(strings.ToLower("0001030034" + zeroRecordHex))
	require.NoError(t, err)
	assert.Equal(t, Slot2, dec.Slot)
	assert.Nil(t, dec.OldAccessCode)
}

func TestDecode_Errors(t *testing.T) {
	otpRecord := zeroRecordHex[:92] + "00" + zeroRecordHex[94:]

	tests := []struct {
		name    string
		hex     string
		wantErr error
	}{
		{"not hex", "zz", apdu.ErrMalformed},
		{"select command", selectHex, ErrNotSlotWrite},
		{"unknown slot command", "0001100034" + zeroRecordHex, ErrNotSlotWrite},
		{"short record", "0001030002FFFF", ErrInvalidRecordLength},
		{"odd trailer", "0001030036" + zeroRecordHex + "FFFF", ErrInvalidRecordLength},
		{"otp ticket flags", "0001030034" + otpRecord, ErrUnsupportedConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.hex)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
