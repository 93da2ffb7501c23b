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
	"context"
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jeremyhahn/go-ykotp/pkg/correlation"
)

// NewRootCommand builds the command tree. Each call returns an
// independent tree with its own configuration.
func NewRootCommand() *cobra.Command {
	app := newApp()

	rootCmd := &cobra.Command{
		Use:   "ykotp",
		Short: "ykotp - OTP applet slot programming tool",
		Long: `ykotp builds the APDUs that program a challenge-response
(HMAC-SHA1) slot on a YubiKey-compatible OTP applet and prints them
as an opensc-tool command line.

The tool never talks to the token. Review the printed command, then
run it with the token inserted:

  head -c 20 /dev/urandom | tee key.bin | ykotp init --slot 2 | sh`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = correlation.WithRunID(ctx, correlation.GetOrGenerate(ctx))
			cmd.SetContext(ctx)
			return app.setup(cmd)
		},
	}

	// Persistent flags (available to all commands)
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&app.opts.ConfigFile, "config", "",
		"config file (YAML)")
	flags.StringVarP(&app.opts.OutputFormat, "output", "o", "text",
		"output format (text, json)")
	flags.BoolVarP(&app.opts.Verbose, "verbose", "v", false,
		"verbose output")
	flags.StringVar(&app.opts.LogFormat, "log-format", "text",
		"log format (text, json)")
	flags.StringVar(&app.opts.MetricsFile, "metrics-file", "",
		"write Prometheus metrics to this textfile collector path")

	rootCmd.AddCommand(newInitCmd(app))
	rootCmd.AddCommand(newDecodeCmd(app))
	rootCmd.AddCommand(newVersionCmd(app))

	return rootCmd
}

// Run executes the CLI with explicit streams. Errors not already reported
// by a command are printed to stderr. A run ID already on ctx is reused,
// otherwise a new one is generated.
func Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	rootCmd := NewRootCommand()
	rootCmd.SetArgs(args)
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		var reported *reportedError
		if !errors.As(err, &reported) {
			_ = NewPrinter(string(OutputFormatText), stderr).PrintError(err)
		}
	}
	return err
}

// Execute runs the root command against the process streams
func Execute() error {
	return Run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
}
