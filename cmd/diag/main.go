// cmd/diag/main.go

package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
)

// CLI is the top-level kong command tree: one subcommand struct per
// verb, tagged the way kong expects.
var CLI struct {
	Decode    DecodeCmd    `cmd:"" help:"Replay captured frame payloads through a simulated loopback and report PASS/FAIL."`
	Integrity IntegrityCmd `cmd:"" help:"Compute (and optionally verify) a CRC-16 over a captured payload file."`
	Monitor   MonitorCmd   `cmd:"" help:"Live view of a simulated loopback pair's buffer occupancy."`
	Term      TermCmd      `cmd:"" help:"Interactive raw-terminal session against a simulated loopback."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("diag"),
		kong.Description("Host-side diagnostic tool for the softuart bit-banged UART engine."))

	if err := ctx.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "diag:", err)
		os.Exit(1)
	}
}
