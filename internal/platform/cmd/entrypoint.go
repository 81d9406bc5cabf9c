// Package cmd holds the startup helpers shared by rpcnode commands: layered
// env-then-flag configuration parsing and a telemetry-wrapped run loop.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/louisbranch/rpcnode/internal/platform/config"
	"github.com/louisbranch/rpcnode/internal/platform/otel"
	"github.com/louisbranch/rpcnode/internal/platform/timeouts"
)

// Service identifies a command for telemetry resources and log prefixes.
type Service string

const (
	ServiceRPCServer Service = "rpcserver"
	ServiceRPCClient Service = "rpcclient"
)

// LogPrefix returns the standard logger prefix for the service, for example
// "[RPCSERVER] ".
func (s Service) LogPrefix() string {
	return "[" + strings.ToUpper(string(s)) + "] "
}

// ParseCommand fills cfg from the environment, lets bind register flags that
// default to those values, then parses args. Flags win over env.
func ParseCommand[T any](cfg *T, fs *flag.FlagSet, args []string, bind func(*flag.FlagSet, *T)) error {
	if cfg == nil {
		return errors.New("config target is required")
	}
	if fs == nil {
		return errors.New("flag parser is required")
	}
	if err := config.ParseEnv(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	if bind != nil {
		bind(fs, cfg)
	}
	if args == nil {
		args = []string{}
	}
	return fs.Parse(args)
}

// RunOptions controls the telemetry wrapper.
type RunOptions struct {
	// ShutdownTimeout bounds the tracer flush. Defaults to timeouts.Shutdown.
	ShutdownTimeout time.Duration
	// Logf reports flush failures. Defaults to log.Printf.
	Logf func(string, ...any)
}

// Run installs tracing for service, executes run and flushes traces after it
// returns. The result of run is returned unchanged.
func Run(ctx context.Context, service Service, run func(context.Context) error) error {
	return RunWithOptions(ctx, service, RunOptions{}, run)
}

// RunWithOptions is Run with explicit options.
func RunWithOptions(ctx context.Context, service Service, options RunOptions, run func(context.Context) error) error {
	name := strings.TrimSpace(string(service))
	if name == "" {
		return errors.New("service name is required")
	}
	if run == nil {
		return errors.New("run function is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if options.ShutdownTimeout <= 0 {
		options.ShutdownTimeout = timeouts.Shutdown
	}
	if options.Logf == nil {
		options.Logf = log.Printf
	}

	flush, err := otel.Setup(ctx, name)
	if err != nil {
		return fmt.Errorf("%s otel setup: %w", name, err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), options.ShutdownTimeout)
		defer cancel()
		if err := flush(flushCtx); err != nil {
			options.Logf("%s otel shutdown: %v", name, err)
		}
	}()

	return run(ctx)
}
