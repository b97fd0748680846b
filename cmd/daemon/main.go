package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"xrpl-gateway/go-backend/internal/composition/gatewayserver"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	rpcAddr := flag.String("rpc-addr", "", "HTTP listen address (default 127.0.0.1:8787 or GATEWAY_RPC_ADDR)")
	configPath := flag.String("config", "", "Path to gateway.yaml (optional)")
	flag.Parse()
	if *showVersion {
		fmt.Printf("xrpl-gateway version=%s commit=%s build_date=%s\n", version, commit, buildDate)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runtime, err := gatewayserver.NewRPCServerWithOptions(*rpcAddr, *configPath)
	if err != nil {
		log.Fatalf("xrpl-gateway failed to initialize: %v", err)
	}

	runtime.Logger.Info("xrpl-gateway starting", "version", version, "commit", commit)
	if err := runtime.Server.Run(ctx); err != nil {
		log.Fatalf("xrpl-gateway failed: %v", err)
	}
	runtime.Logger.Info("xrpl-gateway stopped")
}
