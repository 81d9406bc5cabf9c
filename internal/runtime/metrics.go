package runtime

import (
	"context"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// callMetrics records per-method call outcomes.
type callMetrics struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newCallMetrics(reg prometheus.Registerer, state func() State) *callMetrics {
	factory := promauto.With(reg)
	factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "rpcnode_runtime_state",
			Help: "Current runtime lifecycle state (0=uninitialized .. 4=stopped)",
		},
		func() float64 { return float64(state()) },
	)
	return &callMetrics{
		calls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rpcnode_rpc_calls_total",
				Help: "Total number of RPC calls by method and status code",
			},
			[]string{"method", "code"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rpcnode_rpc_call_duration_seconds",
				Help:    "RPC handler latency by method",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
	}
}

// unaryInterceptor observes every unary call, including rejected ones.
func (m *callMetrics) unaryInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		m.duration.WithLabelValues(info.FullMethod).Observe(time.Since(start).Seconds())
		m.calls.WithLabelValues(info.FullMethod, status.Code(err).String()).Inc()
		return resp, err
	}
}

// healthMethodPrefix marks calls exempt from rate limiting.
const healthMethodPrefix = "/grpc.health.v1.Health/"

// rateLimitInterceptor rejects service calls beyond the limiter's budget.
// Health checks always pass.
func rateLimitInterceptor(limiter *rate.Limiter) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if !strings.HasPrefix(info.FullMethod, healthMethodPrefix) && !limiter.Allow() {
			return nil, status.Errorf(codes.ResourceExhausted, "rate limit exceeded for %s", info.FullMethod)
		}
		return handler(ctx, req)
	}
}
