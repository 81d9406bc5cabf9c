package rpc

import (
	"errors"
	"testing"

	"google.golang.org/grpc/encoding"
)

type codecMessage struct {
	Name  string `json:"name"`
	Bytes []byte `json:"bytes"`
	Int8  int8   `json:"int8"`
}

func TestCodecRegistered(t *testing.T) {
	if encoding.GetCodec(CodecName) == nil {
		t.Fatalf("expected %q codec to be registered", CodecName)
	}
}

func TestCodecRoundTrip(t *testing.T) {
	in := codecMessage{Name: "hello", Bytes: []byte{1, 2}, Int8: -8}
	data, err := Codec{}.Marshal(&in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out codecMessage
	if err := (Codec{}).Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Name != in.Name || out.Int8 != in.Int8 || len(out.Bytes) != 2 || out.Bytes[1] != 2 {
		t.Fatalf("round trip = %+v, want %+v", out, in)
	}
}

func TestCodecRejectsNil(t *testing.T) {
	if _, err := (Codec{}).Marshal(nil); !errors.Is(err, ErrNilMessage) {
		t.Fatalf("marshal nil err = %v, want ErrNilMessage", err)
	}
	if err := (Codec{}).Unmarshal([]byte("{}"), nil); !errors.Is(err, ErrNilMessage) {
		t.Fatalf("unmarshal nil err = %v, want ErrNilMessage", err)
	}
}

func TestCodecUnmarshalEmptyPayload(t *testing.T) {
	var out codecMessage
	if err := (Codec{}).Unmarshal(nil, &out); err != nil {
		t.Fatalf("unmarshal empty: %v", err)
	}
}
