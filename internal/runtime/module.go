package runtime

import (
	"errors"
	"log"

	"google.golang.org/grpc"
)

// Module scopes a logger and an RPC registration surface under one name.
type Module struct {
	name   string
	logger *log.Logger
	rpc    *RPCHandle
}

// Name returns the module name.
func (m *Module) Name() string {
	return m.name
}

// Logger returns the module logger. It is safe for concurrent use.
func (m *Module) Logger() *log.Logger {
	return m.logger
}

// RPCHandle returns the module's service registration surface.
func (m *Module) RPCHandle() *RPCHandle {
	return m.rpc
}

// RPCHandle registers services with the owning core.
type RPCHandle struct {
	core   *Core
	module string
}

// RegisterService registers impl under desc. Registration is only accepted
// before the core starts.
func (h *RPCHandle) RegisterService(desc *grpc.ServiceDesc, impl any) error {
	if h == nil || h.core == nil {
		return errors.New("rpc handle is not bound to a core")
	}
	return h.core.registerService(h.module, desc, impl)
}
