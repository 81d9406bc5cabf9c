package rpcserver

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	examplev1 "github.com/louisbranch/rpcnode/api/example/v1"
	platformgrpc "github.com/louisbranch/rpcnode/internal/platform/grpc"
	"github.com/louisbranch/rpcnode/internal/platform/shutdown"
	"github.com/louisbranch/rpcnode/internal/runtime"
	"google.golang.org/grpc/metadata"
)

// syncBuffer guards a bytes.Buffer shared by several loggers.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rpcserver.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("rpcserver", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.CfgFilePath != "" {
		t.Fatalf("cfg_file_path = %q, want empty", cfg.CfgFilePath)
	}
	if cfg.PollInterval != time.Second {
		t.Fatalf("poll_interval = %s, want 1s", cfg.PollInterval)
	}
}

func TestParseConfigOverrides(t *testing.T) {
	t.Setenv("RPCNODE_CFG_FILE_PATH", "/env/path.yaml")
	t.Setenv("RPCNODE_POLL_INTERVAL", "250ms")

	fs := flag.NewFlagSet("rpcserver", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-cfg_file_path", "/flag/path.yaml"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.CfgFilePath != "/flag/path.yaml" {
		t.Fatalf("cfg_file_path = %q, want %q", cfg.CfgFilePath, "/flag/path.yaml")
	}
	if cfg.PollInterval != 250*time.Millisecond {
		t.Fatalf("poll_interval = %s, want 250ms", cfg.PollInterval)
	}
}

func TestParseConfigRejectsUnknownFlag(t *testing.T) {
	fs := flag.NewFlagSet("rpcserver", flag.ContinueOnError)
	fs.SetOutput(&bytes.Buffer{})
	if _, err := ParseConfig(fs, []string{"-port", "9000"}); err == nil {
		t.Fatal("expected unknown flag error")
	}
}

func TestRunRequiresBridge(t *testing.T) {
	if err := Run(context.Background(), Config{}, Deps{}); err == nil {
		t.Fatal("expected missing bridge error")
	}
}

func TestRunFailsOnInvalidConfig(t *testing.T) {
	t.Setenv("RPCNODE_OTEL_ENDPOINT", "")
	path := writeConfig(t, "runtime:\n  listen_adr: typo\n")

	bridge := shutdown.NewBridge(shutdown.WithExit(func(int) { t.Error("unexpected exit") }))
	err := Run(context.Background(), Config{CfgFilePath: path}, Deps{Bridge: bridge, LogOutput: &syncBuffer{}})
	if err == nil {
		t.Fatal("expected initialize error")
	}
	if !strings.Contains(err.Error(), "initialize runtime") {
		t.Fatalf("expected initialize runtime prefix, got %v", err)
	}
	if bridge.Bound() {
		t.Fatal("expected bridge to stay unbound after failed startup")
	}
}

// TestRunServesUntilInterrupt covers the full lifecycle: start, one call,
// interrupt through the bridge, and runner exit.
func TestRunServesUntilInterrupt(t *testing.T) {
	t.Setenv("RPCNODE_OTEL_ENDPOINT", "")
	path := writeConfig(t, "runtime:\n  listen_addr: 127.0.0.1:0\n  shutdown_timeout: 2s\n")

	logs := &syncBuffer{}
	bridge := shutdown.NewBridge(shutdown.WithExit(func(code int) { t.Errorf("unexpected exit %d", code) }))
	started := make(chan *runtime.Core, 1)

	const poll = 10 * time.Millisecond
	runErr := make(chan error, 1)
	go func() {
		runErr <- Run(context.Background(), Config{CfgFilePath: path, PollInterval: poll}, Deps{
			Bridge:    bridge,
			LogOutput: logs,
			OnStarted: func(core *runtime.Core) { started <- core },
		})
	}()

	var core *runtime.Core
	select {
	case core = <-started:
	case err := <-runErr:
		t.Fatalf("run returned before start: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("runtime did not start")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	conn, err := platformgrpc.DialWithHealth(ctx, nil, core.Addr().String(), examplev1.ServiceName, 2*time.Second, nil, platformgrpc.DefaultClientDialOptions()...)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	callCtx := metadata.AppendToOutgoingContext(ctx, "key1", "val1", "key2", "val2")
	rsp, err := examplev1.NewExampleRos2ServiceClient(conn).RosTestRpc(callCtx, &examplev1.RosTestRpcRequest{StringData: "ping"})
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if rsp.Code != 1000 || !rsp.BoolData || rsp.Int8Data != -8 || rsp.Uint8Data != 8 {
		t.Fatalf("unexpected response %s", rsp)
	}

	bridge.Handle(os.Interrupt)
	bridge.Handle(os.Interrupt)

	select {
	case err := <-runErr:
		if err != nil {
			t.Fatalf("run returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("run did not exit after interrupt")
	}
	if core.State() != runtime.StateStopped {
		t.Fatalf("state = %s, want stopped", core.State())
	}

	out := logs.String()
	if !strings.Contains(out, "["+ModuleName+"] ") {
		t.Fatalf("expected module log prefix in %q", out)
	}
	if !strings.Contains(out, "meta key: key1, value: val1") || !strings.Contains(out, "meta key: key2, value: val2") {
		t.Fatalf("expected meta lines in %q", out)
	}
	if !strings.Contains(out, "Server handle new rpc call.") {
		t.Fatalf("expected summary line in %q", out)
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	t.Setenv("RPCNODE_OTEL_ENDPOINT", "")
	path := writeConfig(t, "runtime:\n  listen_addr: 127.0.0.1:0\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bridge := shutdown.NewBridge()
	started := make(chan struct{})
	runErr := make(chan error, 1)
	go func() {
		runErr <- Run(ctx, Config{CfgFilePath: path, PollInterval: 10 * time.Millisecond}, Deps{
			Bridge:    bridge,
			LogOutput: &syncBuffer{},
			OnStarted: func(*runtime.Core) { close(started) },
		})
	}()

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("runtime did not start")
	}
	cancel()

	select {
	case err := <-runErr:
		if err != nil {
			t.Fatalf("run returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("run did not exit after cancel")
	}
}
