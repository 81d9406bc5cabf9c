// Package main runs one example RPC call against rpcserver.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/louisbranch/rpcnode/internal/cmd/rpcclient"
	entrypoint "github.com/louisbranch/rpcnode/internal/platform/cmd"
	"github.com/louisbranch/rpcnode/internal/platform/config"
)

func main() {
	cfg, err := rpcclient.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.ExitOnParseError(err)
	}
	log.SetPrefix(entrypoint.ServiceRPCClient.LogPrefix())
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rpcclient.Run(ctx, cfg); err != nil {
		stop()
		config.Exitf("rpcclient: %v", err)
	}
}
