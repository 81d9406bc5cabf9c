// Package rpc defines the call-scoped values the runtime hands to service
// handlers: the call context with its metadata, the out-of-band call status,
// and the wire codec used for service messages.
//
// Handlers receive a *Context and return a Status next to their response. The
// zero Status is success. Transport concerns (gRPC metadata, status details,
// content subtypes) stay inside this package and the runtime.
package rpc
