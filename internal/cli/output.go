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
	"encoding/json"
	"fmt"
	"io"

	"github.com/jeremyhahn/go-ykotp/pkg/otp"
)

// OutputFormat defines the output format type
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
)

// Printer handles formatted output
type Printer struct {
	format OutputFormat
	writer io.Writer
}

// NewPrinter creates a new Printer
func NewPrinter(format string, writer io.Writer) *Printer {
	return &Printer{
		format: OutputFormat(format),
		writer: writer,
	}
}

// PrintInvocation prints the slot programming command. Text output is the
// bare command line so it can be piped to a shell.
func (p *Printer) PrintInvocation(runID string, inv *otp.Invocation) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"run_id":        runID,
			"slot":          int(inv.Slot),
			"tool":          otp.TransportTool,
			"args":          inv.Args(),
			"command":       inv.String(),
			"select_apdu":   inv.SelectHex(),
			"write_apdu":    inv.WriteHex(),
			"data_length":   len(inv.Write.Data),
			"access_code":   !inv.Record.AccessCode.IsZero(),
			"replaces_code": inv.OldAccessCode != nil,
		})
	case OutputFormatText:
		_, err := fmt.Fprintln(p.writer, inv.String())
		return err
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintDecoded prints a decoded slot-write command without secrets
func (p *Printer) PrintDecoded(dec *otp.Decoded) error {
	rec := dec.Record
	flags := fmt.Sprintf("%02X%02X%02X", rec.ConfigFlags[0], rec.ConfigFlags[1], rec.ConfigFlags[2])

	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"slot":            int(dec.Slot),
			"mode":            "hmac-sha1-challenge-response",
			"ticket_flags":    fmt.Sprintf("%02X", rec.TicketFlags),
			"config_flags":    flags,
			"ext_flags":       fmt.Sprintf("%02X", rec.ExtFlags),
			"access_code":     !rec.AccessCode.IsZero(),
			"old_access_code": dec.OldAccessCode != nil,
			"record_length":   otp.RecordSize,
		})
	case OutputFormatText:
		fmt.Fprintln(p.writer, "Slot Configuration:")
		fmt.Fprintf(p.writer, "  Slot:            %s\n", dec.Slot)
		fmt.Fprintln(p.writer, "  Mode:            HMAC-SHA1 challenge-response")
		fmt.Fprintf(p.writer, "  Ticket Flags:    %02X\n", rec.TicketFlags)
		fmt.Fprintf(p.writer, "  Config Flags:    %s\n", flags)
		fmt.Fprintf(p.writer, "  Ext Flags:       %02X\n", rec.ExtFlags)
		fmt.Fprintf(p.writer, "  Access Code:     %s\n", setOrNone(!rec.AccessCode.IsZero()))
		fmt.Fprintf(p.writer, "  Old Access Code: %s\n", setOrNone(dec.OldAccessCode != nil))
		fmt.Fprintf(p.writer, "  Record Length:   %d bytes\n", otp.RecordSize)
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintError prints an error message
func (p *Printer) PrintError(err error) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"status": "error",
			"error":  err.Error(),
		})
	default:
		_, werr := fmt.Fprintf(p.writer, "Error: %v\n", err)
		return werr
	}
}

func setOrNone(set bool) string {
	if set {
		return "set"
	}
	return "none"
}

// printJSON prints data as JSON
func (p *Printer) printJSON(data interface{}) error {
	encoder := json.NewEncoder(p.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
