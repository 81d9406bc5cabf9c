package example

import (
	"log"

	examplev1 "github.com/louisbranch/rpcnode/api/example/v1"
	"github.com/louisbranch/rpcnode/internal/runtime/rpc"
)

// Service exposes example.ros2.v1 RPC endpoints.
//
// The logger is the only field and is never reassigned, so one Service can
// serve concurrent calls.
type Service struct {
	logger *log.Logger
}

// NewService constructs an example service that logs through logger.
func NewService(logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{logger: logger}
}

// RosTestRpc answers with the fixed response and logs the call metadata.
func (s *Service) RosTestRpc(ctx *rpc.Context, req *examplev1.RosTestRpcRequest) (rpc.Status, *examplev1.RosTestRpcResponse) {
	rsp := BuildResponse(req)

	logMeta(s.logger, ctx)
	s.logger.Printf("Server handle new rpc call. context: %s, req: %s, return rsp: %s", ctx, req, rsp)

	return rpc.Status{}, rsp
}

// logMeta writes one line per metadata key on the call context.
func logMeta(logger *log.Logger, ctx *rpc.Context) {
	for key, value := range rpc.MetaPairs(ctx) {
		logger.Printf("meta key: %s, value: %s", key, value)
	}
}
