package negotiate

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Suhaibinator/SNegotiate/pkg/mediatype"
)

// TestKindStatusMapping tests the fixed status for every failure kind
func TestKindStatusMapping(t *testing.T) {
	cases := []struct {
		kind   Kind
		status int
		body   string
	}{
		{KindNegotiationFailed, http.StatusNotAcceptable, "Invalid content type on request"},
		{KindUnsupportedDeclaredType, http.StatusNotAcceptable, "Invalid content type on request"},
		{KindMalformedBody, http.StatusBadRequest, "Malformed request body"},
		{KindBodyTransportFailure, http.StatusBadRequest, "Malformed request body"},
		{KindEncodeFailure, http.StatusInternalServerError, "Failed to serialize response"},
	}

	for _, tc := range cases {
		t.Run(tc.kind.String(), func(t *testing.T) {
			if tc.kind.Status() != tc.status {
				t.Errorf("Expected status %d, got %d", tc.status, tc.kind.Status())
			}

			rr := httptest.NewRecorder()
			WriteError(rr, tc.kind)
			if rr.Code != tc.status {
				t.Errorf("Expected written status %d, got %d", tc.status, rr.Code)
			}
			if rr.Body.String() != tc.body {
				t.Errorf("Expected body %q, got %q", tc.body, rr.Body.String())
			}
		})
	}
}

// TestKindOf tests kind extraction through wrapped error chains
func TestKindOf(t *testing.T) {
	base := &Error{Kind: KindMalformedBody, MediaType: mediatype.JSON, Err: errors.New("bad token")}
	wrapped := fmt.Errorf("decoding request: %w", base)

	kind, ok := KindOf(wrapped)
	if !ok || kind != KindMalformedBody {
		t.Errorf("Expected KindMalformedBody through the chain, got %v %v", kind, ok)
	}

	if _, ok := KindOf(errors.New("unrelated")); ok {
		t.Error("Expected no kind for an unrelated error")
	}
	if _, ok := KindOf(nil); ok {
		t.Error("Expected no kind for nil")
	}
}

// TestErrorMessage tests the formatted error string
func TestErrorMessage(t *testing.T) {
	err := &Error{Kind: KindEncodeFailure, MediaType: mediatype.CBOR, Err: errors.New("boom")}
	want := "negotiate: encode_failure (application/cbor): boom"
	if err.Error() != want {
		t.Errorf("Expected %q, got %q", want, err.Error())
	}

	bare := &Error{Kind: KindNegotiationFailed}
	if bare.Error() != "negotiate: negotiation_failed" {
		t.Errorf("Unexpected message: %q", bare.Error())
	}
}
