package rpc

import (
	"encoding/json"
	"errors"
	"fmt"

	"google.golang.org/grpc/encoding"
)

// CodecName is the gRPC content subtype carried by service messages.
const CodecName = "json"

func init() {
	encoding.RegisterCodec(Codec{})
}

// ErrNilMessage is returned by the codec for nil payloads.
var ErrNilMessage = errors.New("rpc: nil message")

// Codec encodes service messages as JSON over gRPC.
type Codec struct{}

// Marshal encodes v.
func (Codec) Marshal(v any) ([]byte, error) {
	if v == nil {
		return nil, ErrNilMessage
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("rpc: marshal %T: %w", v, err)
	}
	return data, nil
}

// Unmarshal decodes data into v.
func (Codec) Unmarshal(data []byte, v any) error {
	if v == nil {
		return ErrNilMessage
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("rpc: unmarshal %T: %w", v, err)
	}
	return nil
}

// Name returns the codec content subtype.
func (Codec) Name() string {
	return CodecName
}
