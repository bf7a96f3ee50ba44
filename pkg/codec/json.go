package codec

import (
	"encoding/json"

	"github.com/Suhaibinator/SNegotiate/pkg/mediatype"
)

// JSONCodec is a codec that uses JSON for marshaling and unmarshaling.
// It serves the "application/json" media type.
type JSONCodec struct{}

// NewJSONCodec creates a new JSONCodec instance.
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// ContentType returns the JSON media type.
func (c *JSONCodec) ContentType() mediatype.MediaType {
	return mediatype.JSON
}

// Marshal serializes a value to JSON.
func (c *JSONCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Unmarshal deserializes JSON data into the value pointed to by v. If the
// JSON is malformed or doesn't match the structure of v, an error is
// returned and v is left in an unspecified partial state.
func (c *JSONCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}
