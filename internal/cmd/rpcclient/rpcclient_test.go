package rpcclient

import (
	"context"
	"flag"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	examplev1 "github.com/louisbranch/rpcnode/api/example/v1"
	"github.com/louisbranch/rpcnode/internal/runtime"
	"github.com/louisbranch/rpcnode/internal/runtime/rpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("rpcclient", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Addr != runtime.DefaultListenAddr {
		t.Fatalf("addr = %q, want %q", cfg.Addr, runtime.DefaultListenAddr)
	}
	if cfg.Timeout != 2*time.Second {
		t.Fatalf("timeout = %s, want 2s", cfg.Timeout)
	}
}

func TestParseConfigOverrides(t *testing.T) {
	t.Setenv("RPCNODE_CLIENT_ADDR", "env-host:1")

	fs := flag.NewFlagSet("rpcclient", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-timeout", "5s"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Addr != "env-host:1" {
		t.Fatalf("addr = %q, want %q", cfg.Addr, "env-host:1")
	}
	if cfg.Timeout != 5*time.Second {
		t.Fatalf("timeout = %s, want 5s", cfg.Timeout)
	}

	fs = flag.NewFlagSet("rpcclient", flag.ContinueOnError)
	cfg, err = ParseConfig(fs, []string{"-addr", "flag-host:2"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Addr != "flag-host:2" {
		t.Fatalf("addr = %q, want %q", cfg.Addr, "flag-host:2")
	}
}

// statusServer answers every call with a fixed failed status.
type statusServer struct {
	status rpc.Status
	meta   chan map[string]string
}

func (s *statusServer) RosTestRpc(ctx *rpc.Context, _ *examplev1.RosTestRpcRequest) (rpc.Status, *examplev1.RosTestRpcResponse) {
	if s.meta != nil {
		meta := map[string]string{}
		for key, value := range rpc.MetaPairs(ctx) {
			meta[key] = value
		}
		s.meta <- meta
	}
	if !s.status.OK() {
		return s.status, nil
	}
	return rpc.Status{}, &examplev1.RosTestRpcResponse{Code: 1000}
}

func startServer(t *testing.T, impl examplev1.ExampleRos2ServiceServer) string {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	server := grpc.NewServer()
	server.RegisterService(&examplev1.ExampleRos2Service_ServiceDesc, impl)
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(server, healthServer)
	healthServer.SetServingStatus(examplev1.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	go func() {
		_ = server.Serve(listener)
	}()
	t.Cleanup(server.Stop)
	return listener.Addr().String()
}

func TestCallSendsMetadata(t *testing.T) {
	meta := make(chan map[string]string, 1)
	addr := startServer(t, &statusServer{meta: meta})

	rsp, err := Call(context.Background(), Config{Addr: addr, Timeout: time.Second, DialTimeout: time.Second}, nil)
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if rsp.Code != 1000 {
		t.Fatalf("code = %d, want 1000", rsp.Code)
	}

	got := <-meta
	if len(got) != 2 || got["key1"] != "val1" || got["key2"] != "val2" {
		t.Fatalf("meta = %v, want key1/key2", got)
	}
}

func TestCallReportsHandlerStatus(t *testing.T) {
	addr := startServer(t, &statusServer{status: rpc.NewStatus(rpc.Unavailable, "draining")})

	_, err := Call(context.Background(), Config{Addr: addr, Timeout: time.Second, DialTimeout: time.Second}, nil)
	if err == nil {
		t.Fatal("expected call error")
	}
	if !strings.Contains(err.Error(), "UNAVAILABLE: draining") {
		t.Fatalf("expected handler status in error, got %v", err)
	}
}

func TestCallFailsWithoutServer(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := listener.Addr().String()
	_ = listener.Close()

	var logged strings.Builder
	logf := func(format string, args ...any) {
		_, _ = io.WriteString(&logged, format+"\n")
	}
	if _, err := Call(context.Background(), Config{Addr: addr, DialTimeout: 200 * time.Millisecond}, logf); err == nil {
		t.Fatal("expected dial error")
	}
	if !strings.Contains(logged.String(), "waiting for gRPC health") {
		t.Fatalf("expected health wait logs, got %q", logged.String())
	}
}
