package negotiate

import "github.com/Suhaibinator/SNegotiate/pkg/codec"

// Payload is a type-erased handle over a handler's response value. The
// handler produces a value of some concrete type; erasure hides that type
// behind the single capability the re-encoder needs: serialize into a codec
// chosen from an independent code path. Once erased the concrete type is
// never recovered.
//
// Payloads are shared by pointer so they can travel as opaque response
// metadata, but each one is logically consumed exactly once by the
// re-encoding stage; consuming a payload twice is a programming error, not
// a runtime race this package defends against.
type Payload struct {
	value any
}

// NewPayload erases a typed value into a Payload. The value is owned by the
// payload from this point on; callers must not mutate it afterwards.
func NewPayload[T any](v T) *Payload {
	return &Payload{value: v}
}

// Encode serializes the erased value with the given codec.
func (p *Payload) Encode(c codec.Codec) ([]byte, error) {
	return c.Marshal(p.value)
}
