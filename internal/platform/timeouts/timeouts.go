// Package timeouts defines shared timeout constants used across commands and
// the runtime. Centralizing these values prevents drift between the server and
// client paths and makes the durations discoverable.
package timeouts

import "time"

// GRPCDial caps the wait time when dialing a gRPC peer.
const GRPCDial = 2 * time.Second

// GRPCRequest caps the time allowed for a single client RPC.
const GRPCRequest = 2 * time.Second

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long servers wait for in-flight requests during
// graceful shutdown.
const Shutdown = 5 * time.Second

// RunnerPoll is the bounded wait between liveness checks of the runtime
// worker.
const RunnerPoll = time.Second
