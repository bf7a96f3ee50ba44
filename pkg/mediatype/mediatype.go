// Package mediatype defines the identifiers for the wire formats a service
// supports and the registry that holds them. The registry is built once at
// startup and is immutable afterwards, so it is safe for unsynchronized
// concurrent reads across requests.
package mediatype

import (
	"fmt"
	"sort"
)

// MediaType is a token naming a wire format for a request or response body
// (e.g. "application/json").
type MediaType string

// Media types for the codecs shipped with the framework. Custom types can be
// registered by wrapping any string:
//
//	mediatype.MediaType("text/csv")
const (
	JSON    = MediaType("application/json")
	CBOR    = MediaType("application/cbor")
	Msgpack = MediaType("application/msgpack")
	Proto   = MediaType("application/x-protobuf")
)

// Wildcard is the universal accept token. It is a valid candidate in an
// Accept header but can never be registered directly; it resolves to the
// registry default at selection time.
const Wildcard = MediaType("*/*")

// Registry is the set of media types a service supports plus the designated
// default applied when a request expresses no preference. It is constructed
// once via NewRegistry and never mutated.
type Registry struct {
	def   MediaType
	types map[MediaType]struct{}
}

// NewRegistry creates a Registry containing the default media type and any
// additional types. It returns an error, rather than deferring the failure
// to request time, when the default is empty, when the wildcard is passed as
// a concrete type, or when a type is registered twice.
func NewRegistry(def MediaType, additional ...MediaType) (*Registry, error) {
	if def == "" {
		return nil, fmt.Errorf("mediatype: default media type must not be empty")
	}
	if def == Wildcard {
		return nil, fmt.Errorf("mediatype: wildcard cannot be the default media type")
	}

	types := make(map[MediaType]struct{}, len(additional)+1)
	types[def] = struct{}{}
	for _, mt := range additional {
		if mt == Wildcard {
			return nil, fmt.Errorf("mediatype: wildcard cannot be registered as a media type")
		}
		if _, exists := types[mt]; exists {
			return nil, fmt.Errorf("mediatype: media type %q registered twice", mt)
		}
		types[mt] = struct{}{}
	}

	return &Registry{def: def, types: types}, nil
}

// Default returns the fallback media type used when a request carries no
// declared content type or accepts the wildcard.
func (r *Registry) Default() MediaType {
	return r.def
}

// Contains reports whether the media type is registered. The wildcard is not
// a member; it only resolves through Resolve.
func (r *Registry) Contains(mt MediaType) bool {
	_, ok := r.types[mt]
	return ok
}

// Resolve maps an accept-candidate token to a registered media type. Exact
// matches resolve to themselves and the wildcard resolves to the default;
// every other token is unresolvable and reported with ok=false.
func (r *Registry) Resolve(token MediaType) (MediaType, bool) {
	if token == Wildcard {
		return r.def, true
	}
	if r.Contains(token) {
		return token, true
	}
	return "", false
}

// Types returns the registered media types in lexical order.
func (r *Registry) Types() []MediaType {
	out := make([]MediaType, 0, len(r.types))
	for mt := range r.types {
		out = append(out, mt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
