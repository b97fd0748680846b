// Package gatewayserver composes the gateway daemon: configuration, logging,
// metrics, the ledger connector, the faucet client, the use-case service and
// the HTTP transport.
package gatewayserver

import (
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"xrpl-gateway/go-backend/internal/adapters/rpc"
	"xrpl-gateway/go-backend/internal/bootstrap/gatewayconfig"
	"xrpl-gateway/go-backend/internal/domains/contracts"
	"xrpl-gateway/go-backend/internal/domains/gateway/usecase"
	"xrpl-gateway/go-backend/internal/faucet"
	"xrpl-gateway/go-backend/internal/ledger"
	"xrpl-gateway/go-backend/internal/ledger/wsclient"
	"xrpl-gateway/go-backend/internal/platform/metrics"
	"xrpl-gateway/go-backend/internal/platform/privacylog"
	"xrpl-gateway/go-backend/internal/platform/ratelimiter"
)

const componentName = "gatewayserver"

type Options struct {
	Config gatewayconfig.Config
	Logger *slog.Logger
	// ClientFactory defaults to the websocket client.
	ClientFactory ledger.ClientFactory
	HTTPClient    *http.Client
}

type Runtime struct {
	Server  *rpc.Server
	Service *usecase.Service
	Metrics *metrics.Registry
	Logger  *slog.Logger
}

// NewLogger returns a sanitizing logger: text output in development, JSON
// everywhere else.
func NewLogger(cfg gatewayconfig.Config, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	var handler slog.Handler
	if cfg.IsDevelopment() {
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	return slog.New(privacylog.WrapHandler(handler))
}

func Build(opts Options) *Runtime {
	cfg := opts.Config
	logger := opts.Logger
	if logger == nil {
		logger = NewLogger(cfg, nil)
	}
	factory := opts.ClientFactory
	if factory == nil {
		factory = wsclient.Factory(logger)
	}

	registry := metrics.New()
	registry.PreloadErrorCategories(contracts.ErrorCategories()...)
	connector := ledger.NewConnector(cfg.Ledger, factory, logger)
	faucetClient := faucet.New(cfg.FaucetURL, opts.HTTPClient)

	svc := usecase.NewService(usecase.ServiceDeps{
		Ledger:         connector,
		Faucet:         faucetClient,
		Logger:         logger,
		TrackOperation: registry.TrackOperation,
		RecordError: func(category string, err error) {
			if err == nil {
				return
			}
			registry.RecordError(category)
			logger.Error("service error",
				"component", componentName,
				"category", strings.TrimSpace(category),
				"error", err.Error(),
			)
		},
		RecordSubmission: registry.RecordSubmission,
	})

	server := rpc.NewServer(rpc.Options{
		Addr:           cfg.RPCAddr,
		Service:        svc,
		Limiter:        ratelimiter.FromConfig(cfg.RateLimit),
		AllowedOrigins: cfg.AllowedOrigins,
		Metrics:        registry.Handler(),
		Logger:         logger,
		RequestTimeout: cfg.RequestTimeout,
	})

	return &Runtime{Server: server, Service: svc, Metrics: registry, Logger: logger}
}

// NewRPCServerWithOptions loads configuration from configPath and the
// environment and wires the daemon. A non-empty rpcAddr wins over both.
func NewRPCServerWithOptions(rpcAddr, configPath string) (*Runtime, error) {
	cfg, err := gatewayconfig.LoadFromPath(configPath)
	if err != nil {
		return nil, err
	}
	if addr := strings.TrimSpace(rpcAddr); addr != "" {
		cfg.RPCAddr = addr
	}
	runtime := Build(Options{Config: cfg})
	runtime.Logger.Info("gateway configured",
		"component", componentName,
		"env", cfg.Env,
		"endpoint", cfg.Ledger.Endpoint,
		"rpc_addr", cfg.RPCAddr,
		"rate_limit", cfg.RateLimit.Enabled,
	)
	return runtime, nil
}
