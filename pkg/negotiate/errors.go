package negotiate

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Suhaibinator/SNegotiate/pkg/mediatype"
)

// Kind classifies the terminal failures of an exchange. None of them are
// retried by this package; retry, if any, is the enclosing pipeline's policy.
type Kind int

const (
	// KindNegotiationFailed means no mutually acceptable response format
	// exists for the request's Accept preferences. User-caused, always
	// surfaced.
	KindNegotiationFailed Kind = iota

	// KindUnsupportedDeclaredType means the request's declared Content-Type
	// is not registered. User-caused, surfaced before the body is read.
	KindUnsupportedDeclaredType

	// KindMalformedBody means the body bytes do not match the declared
	// format's schema. User-caused; the caller sees a generic diagnostic,
	// never raw codec internals.
	KindMalformedBody

	// KindBodyTransportFailure means reading the body failed at the
	// transport layer. Delegated to the transport, surfaced as-is.
	KindBodyTransportFailure

	// KindEncodeFailure means a codec could not serialize an otherwise
	// valid typed value. Programming or schema caused; logged internally
	// with full detail and surfaced only as a generic internal error.
	KindEncodeFailure
)

// String returns the kind's name for logs and metric labels.
func (k Kind) String() string {
	switch k {
	case KindNegotiationFailed:
		return "negotiation_failed"
	case KindUnsupportedDeclaredType:
		return "unsupported_declared_type"
	case KindMalformedBody:
		return "malformed_body"
	case KindBodyTransportFailure:
		return "body_transport_failure"
	case KindEncodeFailure:
		return "encode_failure"
	default:
		return "unknown"
	}
}

// Fixed caller-facing responses. The bodies are deliberately generic so no
// codec diagnostics leak to the client.
const (
	notAcceptableBody = "Invalid content type on request"
	malformedBody     = "Malformed request body"
	misconfiguredBody = "Misconfigured service layer"
	encodeFailedBody  = "Failed to serialize response"
)

// Status returns the fixed HTTP status for the kind.
func (k Kind) Status() int {
	switch k {
	case KindNegotiationFailed, KindUnsupportedDeclaredType:
		return http.StatusNotAcceptable
	case KindMalformedBody, KindBodyTransportFailure:
		return http.StatusBadRequest
	case KindEncodeFailure:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// responseBody returns the fixed diagnostic body for the kind.
func (k Kind) responseBody() string {
	switch k {
	case KindNegotiationFailed, KindUnsupportedDeclaredType:
		return notAcceptableBody
	case KindMalformedBody, KindBodyTransportFailure:
		return malformedBody
	case KindEncodeFailure:
		return encodeFailedBody
	default:
		return encodeFailedBody
	}
}

// Error is the failure record surfaced by this package. It carries the
// failing media type and, for decode failures, the original body length,
// alongside the underlying codec or transport error.
type Error struct {
	Kind      Kind
	MediaType mediatype.MediaType
	BodyLen   int
	Err       error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.MediaType != "" {
		if e.Err != nil {
			return fmt.Sprintf("negotiate: %s (%s): %v", e.Kind, e.MediaType, e.Err)
		}
		return fmt.Sprintf("negotiate: %s (%s)", e.Kind, e.MediaType)
	}
	if e.Err != nil {
		return fmt.Sprintf("negotiate: %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("negotiate: %s", e.Kind)
}

// Unwrap returns the underlying cause so callers can use errors.Is/As
// against codec and transport errors.
func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf extracts the failure kind from an error chain. ok is false when the
// chain contains no *Error.
func KindOf(err error) (Kind, bool) {
	var ne *Error
	if errors.As(err, &ne) {
		return ne.Kind, true
	}
	return 0, false
}

// WriteError writes the fixed status and diagnostic body for the kind.
// Negotiation-failure responses intentionally carry no Content-Type header.
func WriteError(w http.ResponseWriter, kind Kind) {
	w.WriteHeader(kind.Status())
	_, _ = w.Write([]byte(kind.responseBody()))
}
