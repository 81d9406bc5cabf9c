// Package rpcclient parses rpcclient command flags and issues one
// ExampleRos2Service.RosTestRpc call against a running rpcserver.
package rpcclient

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	examplev1 "github.com/louisbranch/rpcnode/api/example/v1"
	entrypoint "github.com/louisbranch/rpcnode/internal/platform/cmd"
	platformgrpc "github.com/louisbranch/rpcnode/internal/platform/grpc"
	"github.com/louisbranch/rpcnode/internal/platform/timeouts"
	"github.com/louisbranch/rpcnode/internal/runtime"
	"github.com/louisbranch/rpcnode/internal/runtime/rpc"
	"google.golang.org/grpc/metadata"
)

// Config holds rpcclient command configuration.
type Config struct {
	Addr        string        `env:"RPCNODE_CLIENT_ADDR"`
	Timeout     time.Duration `env:"RPCNODE_CLIENT_TIMEOUT" envDefault:"2s"`
	DialTimeout time.Duration `env:"RPCNODE_CLIENT_DIAL_TIMEOUT" envDefault:"2s"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := Config{Addr: runtime.DefaultListenAddr}
	err := entrypoint.ParseCommand(&cfg, fs, args, func(fs *flag.FlagSet, cfg *Config) {
		fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "The rpcserver address")
		fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "The per-call timeout")
	})
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run dials the server, makes one call and logs the response.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.Run(ctx, entrypoint.ServiceRPCClient, func(ctx context.Context) error {
		_, err := Call(ctx, cfg, log.Printf)
		return err
	})
}

// Call performs one RosTestRpc call carrying key1/key2 metadata.
func Call(ctx context.Context, cfg Config, logf func(string, ...any)) (*examplev1.RosTestRpcResponse, error) {
	if logf == nil {
		logf = func(string, ...any) {}
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = timeouts.GRPCDial
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = timeouts.GRPCRequest
	}

	conn, err := platformgrpc.DialWithHealth(
		ctx,
		nil,
		cfg.Addr,
		examplev1.ServiceName,
		cfg.DialTimeout,
		logf,
		platformgrpc.DefaultClientDialOptions()...,
	)
	if err != nil {
		return nil, fmt.Errorf("dial rpcserver %s: %w", cfg.Addr, err)
	}
	defer func() {
		if closeErr := conn.Close(); closeErr != nil {
			logf("close rpcserver connection: %v", closeErr)
		}
	}()

	callCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()
	callCtx = metadata.AppendToOutgoingContext(callCtx, "key1", "val1", "key2", "val2")

	req := &examplev1.RosTestRpcRequest{
		StringData: "Hello, rpcnode!",
		BoolData:   true,
		ByteData:   []byte{1},
	}
	rsp, err := examplev1.NewExampleRos2ServiceClient(conn).RosTestRpc(callCtx, req)
	if err != nil {
		st := rpc.StatusFromError(err)
		return nil, fmt.Errorf("call RosTestRpc: %s", st)
	}
	logf("Client get rpc ret, status: %s, rsp: %s", rpc.Status{}, rsp)
	return rsp, nil
}
