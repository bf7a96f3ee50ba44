// Package common provides shared types and utilities used across the SNegotiate framework.
package common

import "net/http"

// Middleware defines the type for HTTP middleware functions.
// It takes an http.Handler and returns an http.Handler.
type Middleware func(http.Handler) http.Handler

// MiddlewareChain is an ordered collection of middlewares that can be applied
// to a handler in one step. Chains are value types; Append returns a new
// chain and never mutates the receiver.
type MiddlewareChain struct {
	middlewares []Middleware
}

// NewMiddlewareChain creates a chain from the given middlewares. The first
// middleware in the list is the outermost wrapper: the first to see the
// request and the last to see the response.
func NewMiddlewareChain(middlewares ...Middleware) MiddlewareChain {
	return MiddlewareChain{middlewares: middlewares}
}

// Append returns a new chain with the given middlewares added after the
// existing ones.
func (c MiddlewareChain) Append(middlewares ...Middleware) MiddlewareChain {
	combined := make([]Middleware, 0, len(c.middlewares)+len(middlewares))
	combined = append(combined, c.middlewares...)
	combined = append(combined, middlewares...)
	return MiddlewareChain{middlewares: combined}
}

// Then applies the chain to the given handler and returns the wrapped
// handler. A nil handler defaults to http.DefaultServeMux, mirroring the
// behavior of http.ListenAndServe.
func (c MiddlewareChain) Then(h http.Handler) http.Handler {
	if h == nil {
		h = http.DefaultServeMux
	}
	for i := len(c.middlewares) - 1; i >= 0; i-- {
		h = c.middlewares[i](h)
	}
	return h
}
