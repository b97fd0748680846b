package main

import (
	"fmt"

	"xrpl-gateway/go-backend/internal/currency"

	"github.com/urfave/cli/v2"
)

var commandCurrency = &cli.Command{
	Name:  "currency",
	Usage: "convert between currency symbols and ledger currency codes",
	Subcommands: []*cli.Command{
		{
			Name:      "encode",
			Usage:     "print the ledger code for a symbol",
			ArgsUsage: "<symbol>",
			Action: func(ctx *cli.Context) error {
				if ctx.NArg() != 1 {
					return fmt.Errorf("expected exactly one symbol, got %d", ctx.NArg())
				}
				code, err := currency.Canonicalize(ctx.Args().First())
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(ctx.App.Writer, code)
				return err
			},
		},
		{
			Name:      "decode",
			Usage:     "print the display symbol for a ledger code",
			ArgsUsage: "<code>",
			Action: func(ctx *cli.Context) error {
				if ctx.NArg() != 1 {
					return fmt.Errorf("expected exactly one code, got %d", ctx.NArg())
				}
				_, err := fmt.Fprintln(ctx.App.Writer, currency.Decode(ctx.Args().First()))
				return err
			},
		},
	},
}
