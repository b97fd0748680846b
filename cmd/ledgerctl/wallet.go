package main

import (
	"errors"
	"fmt"

	"xrpl-gateway/go-backend/internal/domains/gateway/model"
	"xrpl-gateway/go-backend/internal/wallet"

	"github.com/urfave/cli/v2"
)

var (
	algorithmFlag = &cli.StringFlag{
		Name:  "algorithm",
		Usage: "key algorithm (`ed25519` default, or secp256k1)",
	}
	seedFlag = &cli.StringFlag{
		Name:  "seed",
		Usage: "family seed (s...) to inspect",
	}
	mnemonicFlag = &cli.StringFlag{
		Name:  "mnemonic",
		Usage: "BIP39 mnemonic to inspect",
	}
	privateFlag = &cli.BoolFlag{
		Name:  "private",
		Usage: "include the seed and private key in the output",
	}
)

var commandWallet = &cli.Command{
	Name:  "wallet",
	Usage: "generate or inspect key material",
	Subcommands: []*cli.Command{
		{
			Name:  "generate",
			Usage: "generate a new wallet",
			Flags: []cli.Flag{algorithmFlag, jsonFlag},
			Action: func(ctx *cli.Context) error {
				algorithm, err := wallet.ParseAlgorithm(ctx.String(algorithmFlag.Name))
				if err != nil {
					return err
				}
				w, err := wallet.Generate(algorithm)
				if err != nil {
					return err
				}
				return printWallet(ctx, w, true)
			},
		},
		{
			Name:  "inspect",
			Usage: "derive the address and keys of an existing seed or mnemonic",
			Description: `
Exactly one of --seed or --mnemonic is required.

Secret material is only printed with --private; make sure to use this
feature with great caution!`,
			Flags: []cli.Flag{seedFlag, mnemonicFlag, algorithmFlag, privateFlag, jsonFlag},
			Action: func(ctx *cli.Context) error {
				seed, mnemonic := ctx.String(seedFlag.Name), ctx.String(mnemonicFlag.Name)
				var (
					w   *wallet.Wallet
					err error
				)
				switch {
				case seed != "" && mnemonic != "":
					return errors.New("--seed and --mnemonic are mutually exclusive")
				case seed != "":
					w, err = wallet.FromSeed(seed)
				case mnemonic != "":
					var algorithm wallet.Algorithm
					if algorithm, err = wallet.ParseAlgorithm(ctx.String(algorithmFlag.Name)); err == nil {
						w, err = wallet.FromMnemonic(mnemonic, algorithm)
					}
				default:
					return errors.New("one of --seed or --mnemonic is required")
				}
				if err != nil {
					return err
				}
				return printWallet(ctx, w, ctx.Bool(privateFlag.Name))
			},
		},
	},
}

func printWallet(ctx *cli.Context, w *wallet.Wallet, private bool) error {
	creds := model.WalletCredentials{
		Address:   w.Address(),
		PublicKey: w.PublicKey(),
		Algorithm: string(w.Algorithm()),
	}
	if private {
		creds.Seed = w.Seed()
		creds.PrivateKey = w.PrivateKey()
		if mnemonic, err := w.Mnemonic(); err == nil {
			creds.Mnemonic = mnemonic
		}
	}
	if ctx.Bool(jsonFlag.Name) {
		return printJSON(ctx.App.Writer, creds)
	}
	out := ctx.App.Writer
	fmt.Fprintln(out, "Address:   ", creds.Address)
	fmt.Fprintln(out, "Algorithm: ", creds.Algorithm)
	fmt.Fprintln(out, "Public key:", creds.PublicKey)
	if private {
		fmt.Fprintln(out, "Seed:      ", creds.Seed)
		fmt.Fprintln(out, "Private key:", creds.PrivateKey)
		if creds.Mnemonic != "" {
			fmt.Fprintln(out, "Mnemonic:  ", creds.Mnemonic)
		}
	}
	return nil
}
