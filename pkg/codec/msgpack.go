package codec

import (
	"github.com/vmihailenco/msgpack/v5"

	"github.com/Suhaibinator/SNegotiate/pkg/mediatype"
)

// MsgpackCodec is a codec that uses MessagePack for marshaling and
// unmarshaling. It serves the "application/msgpack" media type.
type MsgpackCodec struct{}

// NewMsgpackCodec creates a new MsgpackCodec instance.
func NewMsgpackCodec() *MsgpackCodec {
	return &MsgpackCodec{}
}

// ContentType returns the msgpack media type.
func (c *MsgpackCodec) ContentType() mediatype.MediaType {
	return mediatype.Msgpack
}

// Marshal serializes a value to MessagePack.
func (c *MsgpackCodec) Marshal(v any) ([]byte, error) {
	return msgpack.Marshal(v)
}

// Unmarshal deserializes MessagePack data into the value pointed to by v.
func (c *MsgpackCodec) Unmarshal(data []byte, v any) error {
	return msgpack.Unmarshal(data, v)
}
