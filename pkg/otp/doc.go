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

// Package otp builds the administrative APDUs that program a
// challenge-response slot on a YubiKey-compatible OTP applet.
//
// # Slot Programming
//
// A slot is programmed by selecting the OTP application and sending a
// slot-write command whose data field is a fixed 52-byte configuration
// record, optionally followed by the 6-byte access code currently
// protecting the slot:
//
//	offset  size  field
//	     0    16  fixed (unused, zero)
//	    16     6  uid (last 4 bytes of key material, 2 bytes zero)
//	    22    16  key (first 16 bytes of key material)
//	    38     6  access code (new)
//	    44     1  fixed size (zero)
//	    45     1  extended flags (zero)
//	    46     1  ticket flags (0x40, challenge-response)
//	    47     3  config flags (0x26 0x00 0x00, HMAC-SHA1 with short challenges)
//	    50     2  crc (zero, not checked by the applet)
//	    52     6  access code (old, only when the slot is protected)
//
// The applet reassembles the 20-byte HMAC-SHA1 secret from the key field
// followed by the first four uid bytes.
//
// # Output
//
// The package never talks to the token. Build returns an Invocation whose
// String method renders the opensc-tool command line that performs both
// steps:
//
//	opensc-tool -s 00A4040007A000000527200100 -s 00010300340000...
//
// Usage Example:
//
//	inv, err := otp.Build(otp.DefaultParams(), os.Stdin)
//	if err != nil {
//		return err
//	}
//	fmt.Println(inv)
package otp
