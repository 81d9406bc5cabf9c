package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/louisbranch/rpcnode/internal/platform/timeouts"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

// Options controls core initialization.
type Options struct {
	// CfgFilePath points at the YAML configuration. Empty uses defaults.
	CfgFilePath string
	// LogOutput receives runtime and module logs. Defaults to os.Stderr.
	LogOutput io.Writer
}

// Core owns the runtime lifecycle and the RPC server.
type Core struct {
	state atomic.Int32

	mu        sync.Mutex
	cfg       Config
	logOutput io.Writer
	logger    *log.Logger
	server    *grpc.Server
	health    *health.Server
	registry  *prometheus.Registry
	modules   map[string]*Module
	services  []string
	addr      net.Addr
	adminAddr net.Addr

	ready        chan struct{}
	shutdownOnce sync.Once
	shutdownCh   chan struct{}
}

// NewCore returns an uninitialized core.
func NewCore() *Core {
	return &Core{
		modules:    make(map[string]*Module),
		ready:      make(chan struct{}),
		shutdownCh: make(chan struct{}),
	}
}

// State returns the current lifecycle state.
func (c *Core) State() State {
	return State(c.state.Load())
}

// Config returns the loaded configuration.
func (c *Core) Config() Config {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg
}

// Addr returns the RPC listen address, or nil before Start is listening.
func (c *Core) Addr() net.Addr {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.addr
}

// AdminAddr returns the admin HTTP listen address, or nil when disabled.
func (c *Core) AdminAddr() net.Addr {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.adminAddr
}

// Ready is closed once Start is accepting calls.
func (c *Core) Ready() <-chan struct{} {
	return c.ready
}

// Registry returns the core's metrics registry.
func (c *Core) Registry() *prometheus.Registry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.registry
}

// Initialize loads configuration and prepares the RPC server. It may only be
// called once; any error leaves the core unusable.
func (c *Core) Initialize(opts Options) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.State() != StateUninitialized {
		return ErrAlreadyInitialized
	}

	cfg, err := LoadConfig(opts.CfgFilePath)
	if err != nil {
		return fmt.Errorf("load runtime config: %w", err)
	}

	c.cfg = cfg
	c.logOutput = opts.LogOutput
	if c.logOutput == nil {
		c.logOutput = os.Stderr
	}
	c.logger = log.New(c.logOutput, "[runtime] ", log.LstdFlags)
	c.registry = prometheus.NewRegistry()

	metrics := newCallMetrics(c.registry, c.State)
	interceptors := []grpc.UnaryServerInterceptor{metrics.unaryInterceptor()}
	if cfg.RateLimit > 0 {
		limiter := rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)
		interceptors = append(interceptors, rateLimitInterceptor(limiter))
	}

	c.server = grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(interceptors...),
	)
	c.health = health.NewServer()
	grpc_health_v1.RegisterHealthServer(c.server, c.health)
	c.health.SetServingStatus("", grpc_health_v1.HealthCheckResponse_NOT_SERVING)

	c.state.Store(int32(StateInitialized))
	c.logger.Printf("runtime initialized (listen %s)", cfg.ListenAddr)
	return nil
}

// CreateModule returns a new module scoped to name.
func (c *Core) CreateModule(name string) (*Module, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("module name is required")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requireInitialized("create module"); err != nil {
		return nil, err
	}
	if _, exists := c.modules[name]; exists {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateModule, name)
	}

	module := &Module{
		name:   name,
		logger: log.New(c.logOutput, "["+name+"] ", log.LstdFlags),
		rpc:    &RPCHandle{core: c, module: name},
	}
	c.modules[name] = module
	return module, nil
}

func (c *Core) registerService(module string, desc *grpc.ServiceDesc, impl any) error {
	if desc == nil || impl == nil {
		return fmt.Errorf("%w: descriptor and implementation are required", ErrInvalidService)
	}
	if v := reflect.ValueOf(impl); v.Kind() == reflect.Pointer && v.IsNil() {
		return fmt.Errorf("%w: implementation is nil", ErrInvalidService)
	}
	if strings.TrimSpace(desc.ServiceName) == "" {
		return fmt.Errorf("%w: service name is required", ErrInvalidService)
	}
	if desc.HandlerType != nil {
		handlerType := reflect.TypeOf(desc.HandlerType).Elem()
		if !reflect.TypeOf(impl).Implements(handlerType) {
			return fmt.Errorf("%w: %T does not implement %v", ErrInvalidService, impl, handlerType)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requireInitialized("register service"); err != nil {
		return err
	}
	for _, name := range c.services {
		if name == desc.ServiceName {
			return fmt.Errorf("%w: %s", ErrDuplicateService, desc.ServiceName)
		}
	}

	c.server.RegisterService(desc, impl)
	c.services = append(c.services, desc.ServiceName)
	c.logger.Printf("module %s registered service %s", module, desc.ServiceName)
	return nil
}

// requireInitialized must be called with c.mu held.
func (c *Core) requireInitialized(op string) error {
	switch st := c.State(); st {
	case StateInitialized:
		return nil
	case StateUninitialized:
		return fmt.Errorf("%s: %w", op, ErrNotInitialized)
	default:
		return fmt.Errorf("%s: %w: %s", op, ErrInvalidState, st)
	}
}

// Start serves registered services and blocks until Shutdown is observed or
// serving fails. A shutdown requested before Start makes it return nil
// without serving.
func (c *Core) Start() error {
	c.mu.Lock()
	switch st := c.State(); st {
	case StateInitialized:
	case StateUninitialized:
		c.mu.Unlock()
		return fmt.Errorf("start: %w", ErrNotInitialized)
	case StateShuttingDown:
		c.state.Store(int32(StateStopped))
		c.mu.Unlock()
		c.logger.Printf("shutdown requested before start")
		return nil
	default:
		c.mu.Unlock()
		return fmt.Errorf("start: %w: %s", ErrInvalidState, st)
	}
	if c.shutdownRequested() || !c.state.CompareAndSwap(int32(StateInitialized), int32(StateStarted)) {
		c.state.Store(int32(StateStopped))
		c.mu.Unlock()
		c.logger.Printf("shutdown requested before start")
		return nil
	}
	cfg := c.cfg
	services := append([]string(nil), c.services...)
	c.mu.Unlock()

	listener, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		c.state.Store(int32(StateStopped))
		return fmt.Errorf("listen on %s: %w", cfg.ListenAddr, err)
	}

	admin, err := c.startAdmin(cfg.AdminAddr)
	if err != nil {
		_ = listener.Close()
		c.state.Store(int32(StateStopped))
		return err
	}

	c.mu.Lock()
	c.addr = listener.Addr()
	c.mu.Unlock()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- c.server.Serve(listener)
	}()

	c.health.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	for _, name := range services {
		c.health.SetServingStatus(name, grpc_health_v1.HealthCheckResponse_SERVING)
	}
	close(c.ready)
	c.logger.Printf("runtime serving at %v", listener.Addr())

	var runErr error
	select {
	case <-c.shutdownCh:
		c.logger.Printf("runtime shutting down")
		c.health.Shutdown()
		c.gracefulStop(cfg.ShutdownTimeout)
		if err := <-serveErr; err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			runErr = fmt.Errorf("serve gRPC: %w", err)
		}
	case err := <-serveErr:
		c.health.Shutdown()
		if err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			runErr = fmt.Errorf("serve gRPC: %w", err)
		}
	}

	if admin != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		if err := admin.Shutdown(shutdownCtx); err != nil {
			c.logger.Printf("admin shutdown: %v", err)
		}
		cancel()
	}

	c.state.Store(int32(StateStopped))
	c.logger.Printf("runtime stopped")
	return runErr
}

// Shutdown requests termination of Start. It is safe to call from any
// goroutine, repeatedly, and before Start has begun.
func (c *Core) Shutdown() {
	if c == nil {
		return
	}
	c.shutdownOnce.Do(func() {
		close(c.shutdownCh)
	})
	for {
		st := c.State()
		if st != StateInitialized && st != StateStarted {
			return
		}
		if c.state.CompareAndSwap(int32(st), int32(StateShuttingDown)) {
			return
		}
	}
}

func (c *Core) shutdownRequested() bool {
	select {
	case <-c.shutdownCh:
		return true
	default:
		return false
	}
}

// gracefulStop drains in-flight calls, forcing a stop after timeout.
func (c *Core) gracefulStop(timeout time.Duration) {
	done := make(chan struct{})
	go func() {
		c.server.GracefulStop()
		close(done)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-done:
	case <-timer.C:
		c.logger.Printf("graceful stop exceeded %s; forcing stop", timeout)
		c.server.Stop()
		<-done
	}
}

// startAdmin starts the metrics and health HTTP listener when addr is set.
func (c *Core) startAdmin(addr string) (*http.Server, error) {
	if addr == "" {
		return nil, nil
	}
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on admin %s: %w", addr, err)
	}

	server := &http.Server{
		Handler: newAdminHandler(c.registry, func() bool {
			return c.State() == StateStarted
		}),
		ReadHeaderTimeout: timeouts.ReadHeader,
	}
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			c.logger.Printf("admin server: %v", err)
		}
	}()

	c.mu.Lock()
	c.adminAddr = listener.Addr()
	c.mu.Unlock()
	c.logger.Printf("admin listening at %v", listener.Addr())
	return server, nil
}
