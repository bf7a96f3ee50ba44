// Package scontext manages the values SNegotiate stores in request contexts:
// the trace ID, the media type negotiated for the response, and the route's
// path parameters. All values live in a single wrapper structure behind one
// private key to avoid deep nesting of context values.
package scontext

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/Suhaibinator/SNegotiate/pkg/mediatype"
)

// sNegotiateContextKey is a private type for the context key to avoid collisions
type sNegotiateContextKey struct{}

// SNegotiateContext holds all values that SNegotiate adds to request contexts.
type SNegotiateContext struct {
	TraceID string
	Format  mediatype.MediaType

	PathParams httprouter.Params

	TraceIDSet    bool
	FormatSet     bool
	PathParamsSet bool
}

// GetSNegotiateContext retrieves the framework context from a request context.
func GetSNegotiateContext(ctx context.Context) (*SNegotiateContext, bool) {
	sc, ok := ctx.Value(sNegotiateContextKey{}).(*SNegotiateContext)
	return sc, ok
}

// ensureContext retrieves the framework context or creates a fresh one.
func ensureContext(ctx context.Context) (*SNegotiateContext, context.Context) {
	sc, ok := GetSNegotiateContext(ctx)
	if !ok {
		sc = &SNegotiateContext{}
		ctx = context.WithValue(ctx, sNegotiateContextKey{}, sc)
	}
	return sc, ctx
}

// WithTraceID adds a trace ID to the context.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	sc, ctx := ensureContext(ctx)
	sc.TraceID = traceID
	sc.TraceIDSet = true
	return ctx
}

// GetTraceIDFromContext extracts the trace ID from a context.
// Returns an empty string if no trace ID is set.
func GetTraceIDFromContext(ctx context.Context) string {
	if sc, ok := GetSNegotiateContext(ctx); ok && sc.TraceIDSet {
		return sc.TraceID
	}
	return ""
}

// GetTraceIDFromRequest extracts the trace ID from a request's context.
func GetTraceIDFromRequest(r *http.Request) string {
	return GetTraceIDFromContext(r.Context())
}

// WithNegotiatedFormat records the media type selected for the response.
// Selection happens once per exchange, before the handler is invoked; the
// recorded value is immutable for the rest of the exchange.
func WithNegotiatedFormat(ctx context.Context, format mediatype.MediaType) context.Context {
	sc, ctx := ensureContext(ctx)
	sc.Format = format
	sc.FormatSet = true
	return ctx
}

// GetNegotiatedFormatFromContext extracts the negotiated media type from a
// context. ok is false when the request did not pass through the
// negotiation middleware.
func GetNegotiatedFormatFromContext(ctx context.Context) (mediatype.MediaType, bool) {
	if sc, ok := GetSNegotiateContext(ctx); ok && sc.FormatSet {
		return sc.Format, true
	}
	return "", false
}

// GetNegotiatedFormatFromRequest extracts the negotiated media type from a
// request's context.
func GetNegotiatedFormatFromRequest(r *http.Request) (mediatype.MediaType, bool) {
	return GetNegotiatedFormatFromContext(r.Context())
}

// WithPathParams stores the route's path parameters in the context.
func WithPathParams(ctx context.Context, params httprouter.Params) context.Context {
	sc, ctx := ensureContext(ctx)
	sc.PathParams = params
	sc.PathParamsSet = true
	return ctx
}

// GetPathParamsFromRequest retrieves the route's path parameters from a
// request's context. Returns nil when the request was not dispatched
// through the router.
func GetPathParamsFromRequest(r *http.Request) httprouter.Params {
	if sc, ok := GetSNegotiateContext(r.Context()); ok && sc.PathParamsSet {
		return sc.PathParams
	}
	return nil
}

// GetPathParamFromRequest retrieves a single named path parameter from a
// request's context.
func GetPathParamFromRequest(r *http.Request, name string) string {
	return GetPathParamsFromRequest(r).ByName(name)
}
