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
package main

import (
	"os"

	"github.com/jeremyhahn/go-ykotp/internal/cli"
)

func main() {
	// Errors are printed by the CLI; only the exit status is left to set
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
