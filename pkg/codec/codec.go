// Package codec provides encoding and decoding functionality for the wire
// formats a service negotiates. Each codec is a paired encode/decode
// capability for exactly one media type.
package codec

import (
	"fmt"

	"github.com/Suhaibinator/SNegotiate/pkg/mediatype"
)

// Codec defines the boundary contract for one wire format. Implementations
// marshal typed values to bytes and unmarshal bytes into typed values; they
// never touch the HTTP layer, which is what allows response encoding to be
// deferred until after the handler has returned. The framework includes
// implementations for JSON, CBOR, msgpack, and Protocol Buffers.
type Codec interface {
	// ContentType returns the media type this codec serves. A codec serves
	// exactly one media type.
	ContentType() mediatype.MediaType

	// Marshal serializes a value into the codec's wire format.
	Marshal(v any) ([]byte, error)

	// Unmarshal deserializes wire-format bytes into the value pointed to
	// by v.
	Unmarshal(data []byte, v any) error
}

// Registry pairs a media-type registry with the codec serving each
// registered type. Like the media-type registry it is built once at startup
// and immutable afterwards.
type Registry struct {
	types  *mediatype.Registry
	codecs map[mediatype.MediaType]Codec
}

// NewRegistry builds a codec registry over a media-type registry. Every
// registered media type must be covered by exactly one codec and every
// codec must serve a registered type; any gap or overlap is a startup
// error, never a per-request failure.
func NewRegistry(types *mediatype.Registry, codecs ...Codec) (*Registry, error) {
	if types == nil {
		return nil, fmt.Errorf("codec: media-type registry must not be nil")
	}

	byType := make(map[mediatype.MediaType]Codec, len(codecs))
	for _, c := range codecs {
		mt := c.ContentType()
		if !types.Contains(mt) {
			return nil, fmt.Errorf("codec: codec for unregistered media type %q", mt)
		}
		if _, exists := byType[mt]; exists {
			return nil, fmt.Errorf("codec: duplicate codec for media type %q", mt)
		}
		byType[mt] = c
	}
	for _, mt := range types.Types() {
		if _, ok := byType[mt]; !ok {
			return nil, fmt.Errorf("codec: no codec registered for media type %q", mt)
		}
	}

	return &Registry{types: types, codecs: byType}, nil
}

// Types returns the underlying media-type registry.
func (r *Registry) Types() *mediatype.Registry {
	return r.types
}

// Get returns the codec serving the given media type. For any type the
// registry's Types() reports as registered, ok is always true.
func (r *Registry) Get(mt mediatype.MediaType) (Codec, bool) {
	c, ok := r.codecs[mt]
	return c, ok
}
