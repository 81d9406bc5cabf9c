package example

import examplev1 "github.com/louisbranch/rpcnode/api/example/v1"

// Fixed response values.
const (
	ResponseCode       int64   = 1000
	ResponseString             = "Hello, rpcnode!"
	ResponseWideString         = "Hello, rpcnode!1111111111111111"
	ResponseChar       uint8   = 92
	ResponseFloat32    float32 = 1.1
	ResponseFloat64    float64 = 2.2
)

// BuildResponse returns the fully populated response for req. The result does
// not depend on the request contents; req may be nil.
func BuildResponse(_ *examplev1.RosTestRpcRequest) *examplev1.RosTestRpcResponse {
	return &examplev1.RosTestRpcResponse{
		Code:        ResponseCode,
		StringData:  ResponseString,
		WstringData: ResponseWideString,
		BoolData:    true,
		ByteData:    []byte{1},
		CharData:    ResponseChar,
		Float32Data: ResponseFloat32,
		Float64Data: ResponseFloat64,
		Int8Data:    -8,
		Uint8Data:   8,
		Int16Data:   -16,
		Uint16Data:  16,
		Int32Data:   -32,
		Uint32Data:  32,
		Int64Data:   -64,
		Uint64Data:  64,
	}
}
