package examplev1

import "fmt"

// RosTestRpcRequest carries one value of every primitive field type.
type RosTestRpcRequest struct {
	StringData  string  `json:"string_data"`
	WstringData string  `json:"wstring_data"`
	BoolData    bool    `json:"bool_data"`
	ByteData    []byte  `json:"byte_data"`
	CharData    uint8   `json:"char_data"`
	Float32Data float32 `json:"float32_data"`
	Float64Data float64 `json:"float64_data"`
	Int8Data    int8    `json:"int8_data"`
	Uint8Data   uint8   `json:"uint8_data"`
	Int16Data   int16   `json:"int16_data"`
	Uint16Data  uint16  `json:"uint16_data"`
	Int32Data   int32   `json:"int32_data"`
	Uint32Data  uint32  `json:"uint32_data"`
	Int64Data   int64   `json:"int64_data"`
	Uint64Data  uint64  `json:"uint64_data"`
}

// String renders the request for logs.
func (r *RosTestRpcRequest) String() string {
	if r == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%+v", *r)
}

// RosTestRpcResponse mirrors the request fields and adds a result code.
type RosTestRpcResponse struct {
	Code        int64   `json:"code"`
	StringData  string  `json:"string_data"`
	WstringData string  `json:"wstring_data"`
	BoolData    bool    `json:"bool_data"`
	ByteData    []byte  `json:"byte_data"`
	CharData    uint8   `json:"char_data"`
	Float32Data float32 `json:"float32_data"`
	Float64Data float64 `json:"float64_data"`
	Int8Data    int8    `json:"int8_data"`
	Uint8Data   uint8   `json:"uint8_data"`
	Int16Data   int16   `json:"int16_data"`
	Uint16Data  uint16  `json:"uint16_data"`
	Int32Data   int32   `json:"int32_data"`
	Uint32Data  uint32  `json:"uint32_data"`
	Int64Data   int64   `json:"int64_data"`
	Uint64Data  uint64  `json:"uint64_data"`
}

// String renders the response for logs.
func (r *RosTestRpcResponse) String() string {
	if r == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%+v", *r)
}
