package negotiate

import (
	"bytes"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/Suhaibinator/SNegotiate/pkg/codec"
	"github.com/Suhaibinator/SNegotiate/pkg/mediatype"
)

type example struct {
	Message string `json:"message" cbor:"message"`
}

func newTestCodecs(t *testing.T, def mediatype.MediaType) *codec.Registry {
	t.Helper()

	var additional []mediatype.MediaType
	for _, mt := range []mediatype.MediaType{mediatype.JSON, mediatype.CBOR} {
		if mt != def {
			additional = append(additional, mt)
		}
	}
	types, err := mediatype.NewRegistry(def, additional...)
	if err != nil {
		t.Fatalf("Failed to create media type registry: %v", err)
	}

	cborCodec, err := codec.NewCBORCodec()
	if err != nil {
		t.Fatalf("Failed to create CBOR codec: %v", err)
	}
	codecs, err := codec.NewRegistry(types, codec.NewJSONCodec(), cborCodec)
	if err != nil {
		t.Fatalf("Failed to create codec registry: %v", err)
	}
	return codecs
}

// TestDecodeRequestJSON tests decoding with an explicit Content-Type
func TestDecodeRequestJSON(t *testing.T) {
	codecs := newTestCodecs(t, mediatype.JSON)

	req := httptest.NewRequest("POST", "/", bytes.NewReader([]byte(`{"message":"test"}`)))
	req.Header.Set("Content-Type", "application/json")

	data, err := DecodeRequest[example](codecs, req)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if data.Message != "test" {
		t.Errorf("Expected message %q, got %q", "test", data.Message)
	}
}

// TestDecodeRequestDefaultsContentType tests that an absent Content-Type
// falls back to the registry default
func TestDecodeRequestDefaultsContentType(t *testing.T) {
	codecs := newTestCodecs(t, mediatype.CBOR)

	cborCodec, _ := codecs.Get(mediatype.CBOR)
	body, err := cborCodec.Marshal(example{Message: "test"})
	if err != nil {
		t.Fatalf("Failed to encode fixture: %v", err)
	}

	req := httptest.NewRequest("POST", "/", bytes.NewReader(body))

	data, err := DecodeRequest[example](codecs, req)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if data.Message != "test" {
		t.Errorf("Expected message %q, got %q", "test", data.Message)
	}
}

// TestDecodeRequestStripsParameters tests that media-type parameters are not
// part of the token
func TestDecodeRequestStripsParameters(t *testing.T) {
	codecs := newTestCodecs(t, mediatype.JSON)

	req := httptest.NewRequest("POST", "/", bytes.NewReader([]byte(`{"message":"test"}`)))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	if _, err := DecodeRequest[example](codecs, req); err != nil {
		t.Fatalf("Expected parameters to be ignored, got %v", err)
	}
}

// bodyRecorder counts reads so tests can assert the body was never consumed.
type bodyRecorder struct {
	read bool
}

func (b *bodyRecorder) Read(p []byte) (int, error) {
	b.read = true
	return 0, io.EOF
}

// TestDecodeRequestUnsupportedType tests that an unregistered Content-Type
// fails before any body bytes are consumed
func TestDecodeRequestUnsupportedType(t *testing.T) {
	codecs := newTestCodecs(t, mediatype.JSON)

	body := &bodyRecorder{}
	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", "nothing/supported")

	_, err := DecodeRequest[example](codecs, req)
	kind, ok := KindOf(err)
	if !ok || kind != KindUnsupportedDeclaredType {
		t.Fatalf("Expected KindUnsupportedDeclaredType, got %v", err)
	}
	if body.read {
		t.Error("Expected body to remain unread for an unsupported declared type")
	}
}

// TestDecodeRequestMalformedBody tests that schema mismatches are reported
// as malformed, distinct from unsupported types
func TestDecodeRequestMalformedBody(t *testing.T) {
	codecs := newTestCodecs(t, mediatype.JSON)

	req := httptest.NewRequest("POST", "/", bytes.NewReader([]byte("really-cool-format")))
	req.Header.Set("Content-Type", "application/json")

	_, err := DecodeRequest[example](codecs, req)
	kind, ok := KindOf(err)
	if !ok || kind != KindMalformedBody {
		t.Fatalf("Expected KindMalformedBody, got %v", err)
	}

	var ne *Error
	if !errors.As(err, &ne) {
		t.Fatal("Expected a *Error in the chain")
	}
	if ne.MediaType != mediatype.JSON {
		t.Errorf("Expected media type %q, got %q", mediatype.JSON, ne.MediaType)
	}
	if ne.BodyLen != len("really-cool-format") {
		t.Errorf("Expected body length %d, got %d", len("really-cool-format"), ne.BodyLen)
	}
	if ne.Unwrap() == nil {
		t.Error("Expected the codec error to be wrapped")
	}
}

// failingReader simulates a transport-level body failure.
type failingReader struct{}

func (failingReader) Read(p []byte) (int, error) {
	return 0, errors.New("connection reset")
}

// TestDecodeRequestTransportFailure tests that read failures surface as
// transport errors, not decode errors
func TestDecodeRequestTransportFailure(t *testing.T) {
	codecs := newTestCodecs(t, mediatype.JSON)

	req := httptest.NewRequest("POST", "/", failingReader{})
	req.Header.Set("Content-Type", "application/json")

	_, err := DecodeRequest[example](codecs, req)
	kind, ok := KindOf(err)
	if !ok || kind != KindBodyTransportFailure {
		t.Fatalf("Expected KindBodyTransportFailure, got %v", err)
	}
}

// TestDecodeRequestEmptyBody tests that a body-less request decodes to the
// zero value
func TestDecodeRequestEmptyBody(t *testing.T) {
	codecs := newTestCodecs(t, mediatype.JSON)

	req := httptest.NewRequest("GET", "/", nil)

	data, err := DecodeRequest[example](codecs, req)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if data.Message != "" {
		t.Errorf("Expected zero value, got %+v", data)
	}
}
