package negotiate

import (
	"bytes"
	"net/http"
)

// payloadCarrier is the interface the Respond helpers use to attach an
// erased payload to the response. Only the middleware's buffering writer
// implements it; when a plain http.ResponseWriter is passed the wrapping
// stage is absent and the fail-safe applies.
type payloadCarrier interface {
	attachPayload(p *Payload)
}

// negotiationWriter buffers the handler's entire response so the
// re-encoding stage can rewrite status, headers, and body after the handler
// has returned. Nothing reaches the real connection until flush or
// reencode runs.
type negotiationWriter struct {
	header  http.Header
	body    bytes.Buffer
	status  int
	payload *Payload
}

func newNegotiationWriter() *negotiationWriter {
	return &negotiationWriter{header: make(http.Header)}
}

// Header returns the buffered header map.
func (w *negotiationWriter) Header() http.Header {
	return w.header
}

// WriteHeader records the status code. Like net/http, only the first call
// takes effect.
func (w *negotiationWriter) WriteHeader(statusCode int) {
	if w.status == 0 {
		w.status = statusCode
	}
}

// Write buffers body bytes, defaulting the status to 200 on first write as
// net/http does.
func (w *negotiationWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.body.Write(b)
}

// attachPayload implements payloadCarrier.
func (w *negotiationWriter) attachPayload(p *Payload) {
	w.payload = p
}

// flush copies the buffered response verbatim to the real writer. Used for
// pass-through responses that carry no erased payload.
func (w *negotiationWriter) flush(dst http.ResponseWriter) {
	copyHeader(dst.Header(), w.header)
	status := w.status
	if status == 0 {
		status = http.StatusOK
	}
	dst.WriteHeader(status)
	_, _ = dst.Write(w.body.Bytes())
}

func copyHeader(dst, src http.Header) {
	for key, values := range src {
		for _, value := range values {
			dst.Add(key, value)
		}
	}
}
