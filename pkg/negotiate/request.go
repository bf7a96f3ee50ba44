package negotiate

import (
	"io"
	"net/http"
	"strings"

	"github.com/Suhaibinator/SNegotiate/pkg/codec"
	"github.com/Suhaibinator/SNegotiate/pkg/mediatype"
)

// DecodeRequest resolves the request's declared Content-Type against the
// registry and decodes the body into a value of type T with the matching
// codec.
//
// Content-Type is a single declaration, not a preference list: the token is
// matched exactly, with no wildcard and no quality handling. Media-type
// parameters after ";" (e.g. "; charset=utf-8") are not part of the token
// and are ignored. An absent header falls back to the registry default. An
// unregistered token fails with KindUnsupportedDeclaredType before any body
// bytes are consumed; a transport-level read failure is surfaced as
// KindBodyTransportFailure; bytes that do not match the declared format's
// schema fail with KindMalformedBody. The body stream is consumed at most
// once.
func DecodeRequest[T any](codecs *codec.Registry, r *http.Request) (T, error) {
	var data T

	mt := codecs.Types().Default()
	if token := contentTypeToken(r.Header.Get("Content-Type")); token != "" {
		mt = mediatype.MediaType(token)
		if !codecs.Types().Contains(mt) {
			return data, &Error{Kind: KindUnsupportedDeclaredType, MediaType: mt}
		}
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return data, &Error{Kind: KindBodyTransportFailure, MediaType: mt, Err: err}
	}
	defer r.Body.Close()

	// An empty body decodes to the zero value so body-less requests (GETs
	// in particular) don't fail schema validation they never opted into.
	if len(body) == 0 {
		return data, nil
	}

	c, ok := codecs.Get(mt)
	if !ok {
		// Unreachable: the codec registry is validated at startup to
		// cover every registered media type.
		return data, &Error{Kind: KindUnsupportedDeclaredType, MediaType: mt}
	}

	if err := c.Unmarshal(body, &data); err != nil {
		var zero T
		return zero, &Error{Kind: KindMalformedBody, MediaType: mt, BodyLen: len(body), Err: err}
	}

	return data, nil
}

// contentTypeToken extracts the media-type token from a Content-Type header
// value, dropping any parameters.
func contentTypeToken(header string) string {
	if idx := strings.Index(header, ";"); idx >= 0 {
		header = header[:idx]
	}
	return strings.TrimSpace(header)
}
