// Package rpcserver parses rpcserver command flags and runs the example RPC
// service on the runtime core until a shutdown is requested.
package rpcserver

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"time"

	examplev1 "github.com/louisbranch/rpcnode/api/example/v1"
	entrypoint "github.com/louisbranch/rpcnode/internal/platform/cmd"
	"github.com/louisbranch/rpcnode/internal/platform/runner"
	"github.com/louisbranch/rpcnode/internal/platform/shutdown"
	"github.com/louisbranch/rpcnode/internal/runtime"
	"github.com/louisbranch/rpcnode/internal/services/example/api/grpc/example"
)

// ModuleName names the runtime module hosting the example service.
const ModuleName = "NormalRpcServerModule"

// Config holds rpcserver command configuration.
type Config struct {
	CfgFilePath  string        `env:"RPCNODE_CFG_FILE_PATH"`
	PollInterval time.Duration `env:"RPCNODE_POLL_INTERVAL" envDefault:"1s"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	err := entrypoint.ParseCommand(&cfg, fs, args, func(fs *flag.FlagSet, cfg *Config) {
		fs.StringVar(&cfg.CfgFilePath, "cfg_file_path", cfg.CfgFilePath, "config file path")
	})
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Binder receives the runtime once it exists so signals can stop it.
type Binder interface {
	Bind(target shutdown.Shutdowner) error
}

// Deps carries the collaborators Run needs beyond Config.
type Deps struct {
	// Bridge is bound to the core after registration. Required.
	Bridge Binder
	// LogOutput receives runtime and module logs. Defaults to os.Stderr.
	LogOutput io.Writer
	// OnStarted is called with the core once it accepts calls.
	OnStarted func(*runtime.Core)
}

// Run initializes the runtime, registers the example service and serves until
// the core is shut down through the bridge or ctx is cancelled.
func Run(ctx context.Context, cfg Config, deps Deps) error {
	if deps.Bridge == nil {
		return errors.New("shutdown bridge is required")
	}
	return entrypoint.Run(ctx, entrypoint.ServiceRPCServer, func(ctx context.Context) error {
		core := runtime.NewCore()
		if err := core.Initialize(runtime.Options{
			CfgFilePath: cfg.CfgFilePath,
			LogOutput:   deps.LogOutput,
		}); err != nil {
			return fmt.Errorf("initialize runtime: %w", err)
		}

		module, err := core.CreateModule(ModuleName)
		if err != nil {
			return fmt.Errorf("create module: %w", err)
		}
		service := example.NewService(module.Logger())
		if err := examplev1.RegisterExampleRos2Service(module.RPCHandle(), service); err != nil {
			return fmt.Errorf("register service failed: %w", err)
		}

		if err := deps.Bridge.Bind(core); err != nil {
			return fmt.Errorf("bind shutdown bridge: %w", err)
		}
		stop := context.AfterFunc(ctx, core.Shutdown)
		defer stop()

		finished := make(chan struct{})
		defer close(finished)
		if deps.OnStarted != nil {
			go func() {
				select {
				case <-core.Ready():
					deps.OnStarted(core)
				case <-finished:
				}
			}()
		}

		if err := runner.Run(core.Start, cfg.PollInterval); err != nil {
			return fmt.Errorf("run runtime: %w", err)
		}
		log.Printf("runtime finished in state %s", core.State())
		return nil
	})
}
