// cmd/quantbench/main.go
package main

import (
	cmd "github.com/mwiater/quantbench/internal/cli"
)

// Build-time variables, injected via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Seams for wiring tests.
var (
	setVersionInfo = cmd.SetVersionInfo
	executeCmd     = cmd.Execute
)

// main starts the quantbench CLI application by delegating to the
// cobra root command defined in the cli package. It does not
// take any arguments and does not return a value.
func main() {
	setVersionInfo(version, commit, date)
	executeCmd()
}
