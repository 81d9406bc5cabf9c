package cmd

import (
	"context"
	"errors"
	"flag"
	"testing"
)

type commandConfig struct {
	Addr string `env:"CMD_TEST_ADDR" envDefault:"127.0.0.1:50080"`
	Path string `env:"CMD_TEST_PATH"`
}

func bindCommandFlags(fs *flag.FlagSet, cfg *commandConfig) {
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "address")
	fs.StringVar(&cfg.Path, "path", cfg.Path, "path")
}

func TestParseCommandLayersEnvThenFlags(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		args     []string
		wantAddr string
		wantPath string
	}{
		{name: "defaults", wantAddr: "127.0.0.1:50080"},
		{name: "env", env: map[string]string{"CMD_TEST_ADDR": "env:1", "CMD_TEST_PATH": "/env"}, wantAddr: "env:1", wantPath: "/env"},
		{name: "flag over env", env: map[string]string{"CMD_TEST_ADDR": "env:1", "CMD_TEST_PATH": "/env"}, args: []string{"-addr", "flag:2"}, wantAddr: "flag:2", wantPath: "/env"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for key, value := range tt.env {
				t.Setenv(key, value)
			}
			var cfg commandConfig
			fs := flag.NewFlagSet("test", flag.ContinueOnError)
			if err := ParseCommand(&cfg, fs, tt.args, bindCommandFlags); err != nil {
				t.Fatalf("parse command: %v", err)
			}
			if cfg.Addr != tt.wantAddr || cfg.Path != tt.wantPath {
				t.Fatalf("config = %+v, want addr %q path %q", cfg, tt.wantAddr, tt.wantPath)
			}
		})
	}
}

func TestParseCommandErrors(t *testing.T) {
	var cfg commandConfig
	if err := ParseCommand[commandConfig](nil, flag.NewFlagSet("t", flag.ContinueOnError), nil, nil); err == nil {
		t.Fatal("expected nil config error")
	}
	if err := ParseCommand(&cfg, nil, nil, bindCommandFlags); err == nil {
		t.Fatal("expected nil flag set error")
	}

	fs := flag.NewFlagSet("t", flag.ContinueOnError)
	fs.SetOutput(discard{})
	if err := ParseCommand(&cfg, fs, []string{"-unknown"}, bindCommandFlags); err == nil {
		t.Fatal("expected unknown flag error")
	}

	fs = flag.NewFlagSet("t", flag.ContinueOnError)
	fs.SetOutput(discard{})
	if err := ParseCommand(&cfg, fs, []string{"-h"}, bindCommandFlags); !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("expected flag.ErrHelp, got %v", err)
	}
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func TestServiceLogPrefix(t *testing.T) {
	if got := ServiceRPCServer.LogPrefix(); got != "[RPCSERVER] " {
		t.Fatalf("prefix = %q", got)
	}
	if got := ServiceRPCClient.LogPrefix(); got != "[RPCCLIENT] " {
		t.Fatalf("prefix = %q", got)
	}
}

func TestRunRejectsMissingInputs(t *testing.T) {
	if err := Run(context.Background(), " ", func(context.Context) error { return nil }); err == nil {
		t.Fatal("expected missing service error")
	}
	if err := Run(context.Background(), ServiceRPCServer, nil); err == nil {
		t.Fatal("expected missing run function error")
	}
}

func TestRunPropagatesResultAndContext(t *testing.T) {
	t.Setenv("RPCNODE_OTEL_ENABLED", "false")

	type ctxKey struct{}
	ctx := context.WithValue(context.Background(), ctxKey{}, "marker")
	want := errors.New("run failed")

	var logged []string
	err := RunWithOptions(ctx, ServiceRPCClient, RunOptions{
		Logf: func(format string, _ ...any) { logged = append(logged, format) },
	}, func(runCtx context.Context) error {
		if runCtx.Value(ctxKey{}) != "marker" {
			t.Fatal("expected caller context to reach run")
		}
		return want
	})
	if !errors.Is(err, want) {
		t.Fatalf("err = %v, want %v", err, want)
	}
	if len(logged) != 0 {
		t.Fatalf("unexpected flush logs: %v", logged)
	}
}
