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
package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jeremyhahn/go-ykotp/pkg/metrics"
	"github.com/jeremyhahn/go-ykotp/pkg/otp"
)

func newDecodeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "decode <write-apdu-hex>",
		Short: "Describe a slot-write APDU",
		Long: `Decode the slot-write APDU printed by init (the hex after the second -s)
and check it the way the applet does before accepting it.

Key material and access codes are never printed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runDecode(cmd, args[0])
		},
	}
}

func (a *app) runDecode(cmd *cobra.Command, writeHex string) error {
	defer a.flushMetrics()

	dec, err := otp.Decode(writeHex)
	if err != nil {
		return a.fail(cmd, metrics.OpDecode, err)
	}

	a.recorder.RecordSuccess(metrics.OpDecode, strconv.Itoa(int(dec.Slot)))
	return a.printer(cmd).PrintDecoded(dec)
}
