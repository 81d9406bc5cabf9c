// Package main starts the example RPC server process lifecycle.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/louisbranch/rpcnode/internal/cmd/rpcserver"
	entrypoint "github.com/louisbranch/rpcnode/internal/platform/cmd"
	"github.com/louisbranch/rpcnode/internal/platform/config"
	"github.com/louisbranch/rpcnode/internal/platform/shutdown"
)

func main() {
	cfg, err := rpcserver.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.ExitOnParseError(err)
	}
	log.SetPrefix(entrypoint.ServiceRPCServer.LogPrefix())

	bridge := shutdown.NewBridge()
	disarm := bridge.Arm()
	defer disarm()

	fmt.Println("rpcnode start.")

	if err := rpcserver.Run(context.Background(), cfg, rpcserver.Deps{Bridge: bridge}); err != nil {
		config.Exitf("rpcserver: %v", err)
	}

	fmt.Println("rpcnode exit.")
}
