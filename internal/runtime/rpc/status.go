package rpc

import (
	"fmt"
	"strconv"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Domain is the error domain attached to status details.
const Domain = "github.com/louisbranch/rpcnode"

// Code is the runtime-level call result code.
type Code uint32

const (
	// OK is the zero value and marks a successful call.
	OK Code = iota
	// Unknown marks an unclassified handler failure.
	Unknown
	// InvalidArgument marks a request the handler refused.
	InvalidArgument
	// Timeout marks a call that ran past its deadline.
	Timeout
	// Unimplemented marks a method the service does not serve.
	Unimplemented
	// Unavailable marks a handler that cannot serve right now.
	Unavailable
	// Internal marks a handler defect.
	Internal
)

var codeNames = map[Code]string{
	OK:              "OK",
	Unknown:         "UNKNOWN",
	InvalidArgument: "INVALID_ARGUMENT",
	Timeout:         "TIMEOUT",
	Unimplemented:   "UNIMPLEMENTED",
	Unavailable:     "UNAVAILABLE",
	Internal:        "INTERNAL",
}

// String returns the stable code name.
func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "CODE_" + strconv.FormatUint(uint64(c), 10)
}

// GRPCCode maps the runtime code to a gRPC status code.
func (c Code) GRPCCode() codes.Code {
	switch c {
	case OK:
		return codes.OK
	case InvalidArgument:
		return codes.InvalidArgument
	case Timeout:
		return codes.DeadlineExceeded
	case Unimplemented:
		return codes.Unimplemented
	case Unavailable:
		return codes.Unavailable
	case Internal:
		return codes.Internal
	default:
		return codes.Unknown
	}
}

// Status is the out-of-band result returned next to a response.
type Status struct {
	Code    Code
	Message string
}

// NewStatus builds a status with a code and message.
func NewStatus(code Code, message string) Status {
	return Status{Code: code, Message: message}
}

// OK reports whether the status marks success.
func (s Status) OK() bool {
	return s.Code == OK
}

// String renders the status for logs.
func (s Status) String() string {
	if s.Message == "" {
		return s.Code.String()
	}
	return fmt.Sprintf("%s: %s", s.Code, s.Message)
}

// Err converts a failed status into a gRPC status error. It returns nil for OK.
func (s Status) Err() error {
	if s.OK() {
		return nil
	}
	grpcCode := s.Code.GRPCCode()
	st := status.New(grpcCode, s.Message)
	detailed, err := st.WithDetails(&errdetails.ErrorInfo{
		Reason:   s.Code.String(),
		Domain:   Domain,
		Metadata: map[string]string{"code": strconv.FormatUint(uint64(s.Code), 10)},
	})
	if err != nil {
		return st.Err()
	}
	return detailed.Err()
}

// StatusFromError recovers a Status from a call error. Errors without runtime
// details map to Unknown, or to the closest code for well-known gRPC codes.
func StatusFromError(err error) Status {
	if err == nil {
		return Status{}
	}
	st, ok := status.FromError(err)
	if !ok {
		return Status{Code: Unknown, Message: err.Error()}
	}
	for _, detail := range st.Details() {
		info, ok := detail.(*errdetails.ErrorInfo)
		if !ok || info.GetDomain() != Domain {
			continue
		}
		value, parseErr := strconv.ParseUint(info.GetMetadata()["code"], 10, 32)
		if parseErr != nil {
			continue
		}
		return Status{Code: Code(value), Message: st.Message()}
	}
	return Status{Code: codeFromGRPC(st.Code()), Message: st.Message()}
}

func codeFromGRPC(code codes.Code) Code {
	switch code {
	case codes.OK:
		return OK
	case codes.InvalidArgument:
		return InvalidArgument
	case codes.DeadlineExceeded:
		return Timeout
	case codes.Unimplemented:
		return Unimplemented
	case codes.Unavailable:
		return Unavailable
	case codes.Internal:
		return Internal
	default:
		return Unknown
	}
}
