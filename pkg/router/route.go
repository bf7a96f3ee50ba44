package router

import (
	"net/http"

	"github.com/Suhaibinator/SNegotiate/pkg/negotiate"
)

// RegisterRoute registers a typed route with the router.
// This is a standalone function rather than a method because Go methods
// cannot have type parameters.
//
// The generated handler decodes the request body into Req using the declared
// Content-Type, invokes the typed handler, and hands the response value to
// the negotiation stage for deferred encoding in the format selected from
// the Accept header. Decode failures never reach the handler.
func RegisterRoute[Req any, Resp any](r *Router, route RouteConfig[Req, Resp]) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		data, err := negotiate.DecodeRequest[Req](r.config.Codecs, req)
		if err != nil {
			r.handleError(w, req, err)
			return
		}

		resp, err := route.Handler(req, data)
		if err != nil {
			r.handleError(w, req, err)
			return
		}

		if route.SuccessStatus != 0 {
			negotiate.RespondStatus(w, route.SuccessStatus, resp)
			return
		}
		negotiate.Respond(w, resp)
	})

	timeout := r.getEffectiveTimeout(route.Timeout)
	maxBodySize := r.getEffectiveMaxBodySize(route.MaxBodySize)
	wrapped := r.wrapHandler(handler, timeout, maxBodySize, route.Middlewares)

	for _, method := range route.Methods {
		r.router.Handle(method, route.Path, r.convertToHTTPRouterHandle(wrapped))
	}
}

// Handle registers a plain http.HandlerFunc with the router, wrapped in the
// same pipeline as typed routes. Responses written by the handler pass
// through the negotiation stage untouched unless the handler opts in via
// negotiate.Respond.
func (r *Router) Handle(method, path string, handler http.HandlerFunc) {
	wrapped := r.wrapHandler(handler, r.config.GlobalTimeout, r.config.GlobalMaxBodySize, nil)
	r.router.Handle(method, path, r.convertToHTTPRouterHandle(wrapped))
}
