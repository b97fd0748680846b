// Command ledgerctl is an offline-first companion to the gateway daemon: it
// generates and inspects wallets, converts currency codes and runs read-only
// account queries against the configured ledger endpoint.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"
)

// Set via linker flags.
var (
	version = "dev"
	commit  = "unknown"
)

var jsonFlag = &cli.BoolFlag{
	Name:  "json",
	Usage: "output JSON instead of human-readable format",
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "ledgerctl",
		Usage:   "XRPL gateway wallet and account tool",
		Version: fmt.Sprintf("%s (%s)", version, commit),
		Commands: []*cli.Command{
			commandWallet,
			commandCurrency,
			commandBalance,
			commandHistory,
			commandFund,
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func printJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
