package codec

import (
	cbor "github.com/fxamacker/cbor/v2"

	"github.com/Suhaibinator/SNegotiate/pkg/mediatype"
)

// CBORCodec is a codec that uses CBOR (RFC 8949) for marshaling and
// unmarshaling. Encoding uses the canonical core profile so that equal
// values always produce identical bytes. It serves the "application/cbor"
// media type.
type CBORCodec struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

// NewCBORCodec creates a new CBORCodec instance with canonical encoding
// options. It returns an error if the encode or decode modes cannot be
// constructed, which is a startup failure rather than a request failure.
func NewCBORCodec() (*CBORCodec, error) {
	enc, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return nil, err
	}
	dec, err := cbor.DecOptions{}.DecMode()
	if err != nil {
		return nil, err
	}
	return &CBORCodec{enc: enc, dec: dec}, nil
}

// ContentType returns the CBOR media type.
func (c *CBORCodec) ContentType() mediatype.MediaType {
	return mediatype.CBOR
}

// Marshal serializes a value to canonical CBOR.
func (c *CBORCodec) Marshal(v any) ([]byte, error) {
	return c.enc.Marshal(v)
}

// Unmarshal deserializes CBOR data into the value pointed to by v.
func (c *CBORCodec) Unmarshal(data []byte, v any) error {
	return c.dec.Unmarshal(data, v)
}
