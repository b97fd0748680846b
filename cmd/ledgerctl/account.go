package main

import (
	"fmt"

	"xrpl-gateway/go-backend/internal/bootstrap/gatewayconfig"
	"xrpl-gateway/go-backend/internal/composition/gatewayserver"
	"xrpl-gateway/go-backend/internal/domains/gateway/policy"
	"xrpl-gateway/go-backend/internal/domains/gateway/usecase"

	"github.com/urfave/cli/v2"
)

var (
	configFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "path to gateway.yaml",
	}
	endpointFlag = &cli.StringFlag{
		Name:    "endpoint",
		Usage:   "ledger websocket endpoint",
		EnvVars: []string{"XRPL_ENDPOINT"},
	}
	addressFlag = &cli.StringFlag{
		Name:     "address",
		Usage:    "classic account address (r...)",
		Required: true,
	}
	limitFlag = &cli.IntFlag{
		Name:  "limit",
		Usage: "maximum number of transactions",
		Value: policy.DefaultHistoryLimit,
	}
)

var commandBalance = &cli.Command{
	Name:  "balance",
	Usage: "show XRP and token balances of an account",
	Flags: []cli.Flag{addressFlag, configFlag, endpointFlag},
	Action: func(ctx *cli.Context) error {
		svc, err := accountService(ctx)
		if err != nil {
			return err
		}
		out, err := svc.GetBalance(ctx.Context, policy.BalanceInput{Address: ctx.String(addressFlag.Name)})
		if err != nil {
			return err
		}
		return printJSON(ctx.App.Writer, out)
	},
}

var commandHistory = &cli.Command{
	Name:  "history",
	Usage: "list recent transactions of an account",
	Flags: []cli.Flag{addressFlag, limitFlag, configFlag, endpointFlag},
	Action: func(ctx *cli.Context) error {
		svc, err := accountService(ctx)
		if err != nil {
			return err
		}
		out, err := svc.GetTransactionHistory(ctx.Context, policy.HistoryInput{
			Address: ctx.String(addressFlag.Name),
			Limit:   ctx.Int(limitFlag.Name),
		})
		if err != nil {
			return err
		}
		return printJSON(ctx.App.Writer, out)
	},
}

var commandFund = &cli.Command{
	Name:  "fund",
	Usage: "request test funds from the configured faucet",
	Flags: []cli.Flag{addressFlag, configFlag},
	Action: func(ctx *cli.Context) error {
		svc, err := accountService(ctx)
		if err != nil {
			return err
		}
		out, err := svc.FundWallet(ctx.Context, policy.FundWalletInput{DestinationAddress: ctx.String(addressFlag.Name)})
		if err != nil {
			return err
		}
		return printJSON(ctx.App.Writer, out)
	},
}

func accountService(ctx *cli.Context) (*usecase.Service, error) {
	cfg, err := gatewayconfig.LoadFromPath(ctx.String(configFlag.Name))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if endpoint := ctx.String(endpointFlag.Name); endpoint != "" {
		cfg.Ledger.Endpoint = endpoint
	}
	runtime := gatewayserver.Build(gatewayserver.Options{
		Config: cfg,
		Logger: gatewayserver.NewLogger(cfg, ctx.App.ErrWriter),
	})
	return runtime.Service, nil
}
