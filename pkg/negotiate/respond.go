package negotiate

import "net/http"

// placeholderStatus marks a response whose body is still a deferred erased
// payload. The re-encoding stage replaces exactly this status with 200 OK;
// if the response escapes without passing through the wrapping stage it
// reads as a clear server error rather than corrupt or empty output.
const placeholderStatus = http.StatusUnsupportedMediaType

// Respond attaches the handler's typed response value to the exchange as an
// erased payload, to be serialized later in the format negotiated before
// the handler ran. The response is marked with the placeholder status,
// which the wrapping stage replaces with 200 OK.
//
// If the wrapping stage's middleware was never applied to this handler, the
// placeholder itself is written: 415 with a fixed diagnostic body. That is
// the fail-safe for a misconfigured pipeline.
func Respond[T any](w http.ResponseWriter, v T) {
	RespondStatus(w, placeholderStatus, v)
}

// RespondStatus is Respond with an explicit success status (e.g. 201
// Created). Any status other than the placeholder is preserved verbatim by
// the wrapping stage.
func RespondStatus[T any](w http.ResponseWriter, status int, v T) {
	payload := NewPayload(v)

	if carrier, ok := w.(payloadCarrier); ok {
		carrier.attachPayload(payload)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(misconfiguredBody))
		return
	}

	// Wrapping stage absent: emit the placeholder for real.
	w.WriteHeader(placeholderStatus)
	_, _ = w.Write([]byte(misconfiguredBody))
}
