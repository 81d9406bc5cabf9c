// Package runtime hosts RPC services inside one process-wide core.
//
// A Core moves through Uninitialized → Initialized → Started → ShuttingDown →
// Stopped. Callers initialize it from a configuration file, create named
// modules, register services through each module's RPC handle, and then run
// Start on a dedicated goroutine. Shutdown may be called from any goroutine at
// any point, including before Start has begun; it is observed exactly once.
//
// Dispatch, wire encoding and transport are handled by gRPC. Handlers only see
// the rpc package types.
package runtime
