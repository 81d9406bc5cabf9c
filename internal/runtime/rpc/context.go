package rpc

import (
	"iter"
	"slices"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/grpc/metadata"
)

// Context is the read-only, call-scoped view of one inbound call.
//
// Metadata keys are enumerated in sorted order. A Context must not be retained
// after the handler returns.
type Context struct {
	id            string
	method        string
	serialization string
	keys          []string
	values        map[string]string
}

// NewContext builds a call context from explicit metadata values.
func NewContext(method string, meta map[string]string) *Context {
	keys := make([]string, 0, len(meta))
	values := make(map[string]string, len(meta))
	for key, value := range meta {
		keys = append(keys, key)
		values[key] = value
	}
	slices.Sort(keys)
	return &Context{
		id:            uuid.NewString(),
		method:        method,
		serialization: CodecName,
		keys:          keys,
		values:        values,
	}
}

// ContextFromMetadata builds a call context from incoming gRPC metadata.
// Transport-reserved headers are skipped; repeated keys expose their first value.
func ContextFromMetadata(method string, md metadata.MD) *Context {
	meta := make(map[string]string, len(md))
	for key, values := range md {
		if reservedKey(key) || len(values) == 0 {
			continue
		}
		meta[key] = values[0]
	}
	return NewContext(method, meta)
}

// reservedKey reports whether a metadata key belongs to the transport.
func reservedKey(key string) bool {
	switch key {
	case ":authority", "content-type", "user-agent", "te":
		return true
	}
	return strings.HasPrefix(key, "grpc-")
}

// ID returns the runtime-assigned call identifier.
func (c *Context) ID() string {
	if c == nil {
		return ""
	}
	return c.id
}

// Method returns the full RPC method name.
func (c *Context) Method() string {
	if c == nil {
		return ""
	}
	return c.method
}

// SerializationType returns the codec name the request was decoded with.
func (c *Context) SerializationType() string {
	if c == nil {
		return ""
	}
	return c.serialization
}

// MetaKeys returns a copy of the metadata keys in enumeration order.
func (c *Context) MetaKeys() []string {
	if c == nil {
		return nil
	}
	return slices.Clone(c.keys)
}

// MetaValue returns the value for key, or "" when absent.
func (c *Context) MetaValue(key string) string {
	if c == nil {
		return ""
	}
	return c.values[key]
}

// String renders the context for diagnostics.
func (c *Context) String() string {
	if c == nil {
		return "Server context {}"
	}
	var b strings.Builder
	b.WriteString("Server context {method: ")
	b.WriteString(c.method)
	b.WriteString(", id: ")
	b.WriteString(c.id)
	b.WriteString(", serialization: ")
	b.WriteString(c.serialization)
	b.WriteString(", meta: {")
	for i, key := range c.keys {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(c.values[key])
	}
	b.WriteString("}}")
	return b.String()
}

// MetaPairs yields the context's metadata as (key, value) pairs in key
// enumeration order. A nil context or one without metadata yields nothing.
// Callers should consume the sequence once.
func MetaPairs(c *Context) iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		if c == nil {
			return
		}
		for _, key := range c.keys {
			if !yield(key, c.values[key]) {
				return
			}
		}
	}
}
