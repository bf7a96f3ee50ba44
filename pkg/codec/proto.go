package codec

import (
	"fmt"
	"reflect"

	"google.golang.org/protobuf/proto"

	"github.com/Suhaibinator/SNegotiate/pkg/mediatype"
)

// ProtoCodec is a codec that uses Protocol Buffers for marshaling and
// unmarshaling. Values handed to it must implement proto.Message; anything
// else is a codec error, since protobuf has no schema for arbitrary Go
// values. It serves the "application/x-protobuf" media type.
type ProtoCodec struct{}

// NewProtoCodec creates a new ProtoCodec instance.
func NewProtoCodec() *ProtoCodec {
	return &ProtoCodec{}
}

// For testing purposes, we expose these variables so they can be overridden in tests
var protoMarshal = proto.Marshal
var protoUnmarshal = proto.Unmarshal

// ContentType returns the protobuf media type.
func (c *ProtoCodec) ContentType() mediatype.MediaType {
	return mediatype.Proto
}

// Marshal serializes a proto.Message to its binary format. It returns an
// error if v does not implement proto.Message.
func (c *ProtoCodec) Marshal(v any) ([]byte, error) {
	msg, ok := v.(proto.Message)
	if !ok {
		return nil, fmt.Errorf("codec: %T does not implement proto.Message", v)
	}
	return protoMarshal(msg)
}

// Unmarshal deserializes binary protobuf data into v. v may be the message
// itself or, as produced by generic request decoding, a pointer to a
// pointer-typed message; in the latter case a fresh message is allocated
// through the outer pointer before unmarshaling.
func (c *ProtoCodec) Unmarshal(data []byte, v any) error {
	if msg, ok := v.(proto.Message); ok {
		return protoUnmarshal(data, msg)
	}

	// Request decoding hands us &data where data has type *pb.Msg.
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer && !rv.IsNil() {
		elem := rv.Elem()
		if elem.Kind() == reflect.Pointer {
			if elem.IsNil() {
				elem.Set(reflect.New(elem.Type().Elem()))
			}
			if msg, ok := elem.Interface().(proto.Message); ok {
				return protoUnmarshal(data, msg)
			}
		}
	}

	return fmt.Errorf("codec: %T does not implement proto.Message", v)
}
