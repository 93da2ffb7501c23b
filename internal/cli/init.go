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
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jeremyhahn/go-ykotp/internal/config"
	"github.com/jeremyhahn/go-ykotp/pkg/correlation"
	"github.com/jeremyhahn/go-ykotp/pkg/metrics"
	"github.com/jeremyhahn/go-ykotp/pkg/otp"
	"github.com/jeremyhahn/go-ykotp/pkg/validation"
)

func newInitCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Print the opensc-tool command that programs a slot",
		Long: `Read 20 bytes of key material and print the opensc-tool command that
selects the OTP application and writes a challenge-response (HMAC-SHA1)
configuration to the chosen slot.

The first 16 bytes of key material become the key and the last 4 bytes
the start of the slot uid; together they form the 20-byte HMAC-SHA1
secret. Only the first 20 bytes of input are read.

The new access code protects the slot from being reprogrammed. Keep it:
it must be passed as --old-access-code next time.`,
		Example: `  # Program slot 2 with a fresh random key
  head -c 20 /dev/urandom > key.bin
  ykotp init --slot 2 --input key.bin

  # Reprogram slot 1 that is protected by an access code
  ykotp init --slot 1 --old-access-code 112233445566 < key.bin`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInit(cmd)
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&a.opts.Slot, "slot", config.DefaultSlot, "slot to program (1 or 2)")
	flags.StringVar(&a.opts.ApplicationID, "app-id", config.DefaultApplicationID,
		"OTP application identifier (14 hex characters)")
	flags.StringVar(&a.opts.AccessCode, "access-code", config.DefaultAccessCode,
		"new access code (12 hex characters)")
	flags.StringVar(&a.opts.OldAccessCode, "old-access-code", "",
		"current access code of the slot (12 hex characters, empty if none)")
	flags.StringVarP(&a.opts.Input, "input", "i", config.StdinInput,
		"key material source (- for stdin)")

	return cmd
}

func (a *app) runInit(cmd *cobra.Command) error {
	defer a.flushMetrics()

	src := a.keySource(cmd)
	if c, ok := src.(io.Closer); ok {
		defer func() { a.logger.MaybeError(c.Close()) }()
	}
	a.logger.Debugf("reading %d bytes of key material from %s",
		otp.KeyMaterialSize, validation.SanitizeForLog(a.cfg.Input))

	a.logger.Debug("building slot configuration",
		"slot", a.cfg.Slot,
		"application_id", a.cfg.ApplicationID,
		"protected", a.cfg.OldAccessCode != "")

	inv, err := otp.Build(a.params(), src)
	if err != nil {
		return a.fail(cmd, metrics.OpInit, err)
	}

	a.recorder.RecordSuccess(metrics.OpInit, strconv.Itoa(a.cfg.Slot))
	a.logger.Info("slot configuration built",
		"slot", inv.Slot.String(),
		"data_length", len(inv.Write.Data))

	return a.printer(cmd).PrintInvocation(correlation.GetRunID(cmd.Context()), inv)
}
