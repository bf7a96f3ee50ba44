// Package router provides a small HTTP router that wires the SNegotiate
// content-negotiation pipeline around typed handlers. It supports
// middleware, per-route timeouts and body-size caps, trace IDs, and
// graceful shutdown.
package router

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/julien040/go-ternary"
	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"github.com/Suhaibinator/SNegotiate/pkg/common"
	"github.com/Suhaibinator/SNegotiate/pkg/middleware"
	"github.com/Suhaibinator/SNegotiate/pkg/negotiate"
	"github.com/Suhaibinator/SNegotiate/pkg/scontext"
)

// Router is the main router struct that implements http.Handler.
// It provides routing, middleware support, content negotiation, and
// graceful shutdown.
type Router struct {
	config           RouterConfig
	router           *httprouter.Router
	logger           *zap.Logger
	negotiation      common.Middleware
	traceIDGenerator *middleware.IDGenerator
	traceWriterPool  sync.Pool
	wg               sync.WaitGroup
	shutdown         bool
	shutdownMu       sync.RWMutex
}

// NewRouter creates a new Router with the given configuration.
// It fails when no codec registry is configured; a router without codecs
// cannot negotiate anything, and that is a startup error rather than a
// per-request one.
func NewRouter(config RouterConfig) (*Router, error) {
	if config.Codecs == nil {
		return nil, fmt.Errorf("router: codec registry is required")
	}

	logger := config.Logger
	if logger == nil {
		var err error
		logger, err = zap.NewProduction()
		if err != nil {
			logger = zap.NewNop()
		}
	}

	r := &Router{
		config: config,
		router: httprouter.New(),
		logger: logger.Named("SNegotiate"),
		traceWriterPool: sync.Pool{
			New: func() any {
				return &traceResponseWriter{}
			},
		},
	}

	r.negotiation = negotiate.Middleware(negotiate.Config{
		Codecs:  config.Codecs,
		Logger:  r.logger,
		Metrics: config.Metrics,
	})

	if config.TraceIDBufferSize > 0 {
		r.traceIDGenerator = middleware.NewIDGenerator(config.TraceIDBufferSize)
	}

	return r, nil
}

// ServeHTTP implements the http.Handler interface.
// It delegates to the underlying httprouter, optionally logging one trace
// line per request.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if !r.config.EnableTraceLogging {
		r.router.ServeHTTP(w, req)
		return
	}

	trw := r.traceWriterPool.Get().(*traceResponseWriter)
	trw.ResponseWriter = w
	trw.statusCode = http.StatusOK
	trw.bytesWritten = 0
	start := time.Now()

	defer func() {
		duration := time.Since(start)
		traceID := scontext.GetTraceIDFromRequest(req)

		fields := []zap.Field{
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.Int("status", trw.statusCode),
			zap.Duration("duration", duration),
			zap.Int64("bytes", trw.bytesWritten),
		}
		if traceID != "" {
			fields = append([]zap.Field{zap.String("trace_id", traceID)}, fields...)
		}

		logFunc := ternary.If(r.config.TraceLoggingUseInfo, r.logger.Info, r.logger.Debug)
		logFunc("Request trace", fields...)

		if trw.statusCode >= 500 {
			r.logger.Error("Server error", fields...)
		} else if trw.statusCode >= 400 {
			r.logger.Warn("Client error", fields...)
		}

		// Drop references before pooling to avoid pinning the request.
		trw.ResponseWriter = nil
		r.traceWriterPool.Put(trw)
	}()

	r.router.ServeHTTP(trw, req)
}

// wrapHandler wraps a handler with the full request pipeline: shutdown
// check, body size cap, global and route middlewares, trace IDs, timeout
// handling, panic recovery, and innermost the negotiation wrapping stage.
func (r *Router) wrapHandler(handler http.HandlerFunc, timeout time.Duration, maxBodySize int64, middlewares []common.Middleware) http.Handler {
	h := http.Handler(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		r.wg.Add(1)
		defer r.wg.Done()
		r.shutdownMu.RLock()
		isShutdown := r.shutdown
		r.shutdownMu.RUnlock()
		if isShutdown {
			http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
			return
		}

		if maxBodySize > 0 {
			req.Body = http.MaxBytesReader(w, req.Body, maxBodySize)
		}

		handler(w, req)
	}))

	chain := common.NewMiddlewareChain()

	if r.traceIDGenerator != nil {
		chain = chain.Append(middleware.Trace(r.traceIDGenerator))
	}

	chain = chain.Append(r.config.Middlewares...)
	chain = chain.Append(middlewares...)

	if timeout > 0 {
		chain = chain.Append(r.timeoutMiddleware(timeout))
	}

	// Recovery sits outside negotiation so a panicking handler still
	// produces a well-formed 500 instead of a half-buffered response.
	chain = chain.Append(middleware.Recovery(r.logger))
	chain = chain.Append(r.negotiation)

	return chain.Then(h)
}

// convertToHTTPRouterHandle converts an http.Handler to an httprouter.Handle,
// storing the route parameters in the request context so handlers can access
// them through scontext.
func (r *Router) convertToHTTPRouterHandle(handler http.Handler) httprouter.Handle {
	return func(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {
		ctx := scontext.WithPathParams(req.Context(), ps)
		handler.ServeHTTP(w, req.WithContext(ctx))
	}
}

// timeoutMiddleware creates a middleware that handles request timeouts.
// It sets a context deadline and writes a timeout error if the handler
// exceeds it, but only if the handler hasn't already started writing the
// response.
func (r *Router) timeoutMiddleware(timeout time.Duration) common.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx, cancel := context.WithTimeout(req.Context(), timeout)
			defer cancel()
			req = req.WithContext(ctx)

			var wMutex sync.Mutex
			wrappedW := &mutexResponseWriter{
				ResponseWriter: w,
				mu:             &wMutex,
			}

			done := make(chan struct{})
			panicChan := make(chan any, 1)

			go func() {
				defer func() {
					if p := recover(); p != nil {
						panicChan <- p
					}
					close(done)
				}()
				next.ServeHTTP(wrappedW, req)
			}()

			select {
			case <-done:
				select {
				case p := <-panicChan:
					// Re-panic so the recovery middleware can handle it.
					panic(p)
				default:
				}
			case <-ctx.Done():
				traceID := scontext.GetTraceIDFromRequest(req)
				r.logger.Error("Request timed out",
					zap.String("method", req.Method),
					zap.String("path", req.URL.Path),
					zap.Duration("timeout", timeout),
					zap.String("trace_id", traceID),
				)

				wrappedW.mu.Lock()
				if !wrappedW.wroteHeader.Swap(true) {
					r.writeJSONError(wrappedW.ResponseWriter, http.StatusRequestTimeout, "Request Timeout", traceID)
				}
				wrappedW.mu.Unlock()
			}
		})
	}
}

// Shutdown gracefully shuts down the router.
// It stops accepting new requests and waits for existing requests to complete.
func (r *Router) Shutdown(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	r.shutdownMu.Lock()
	r.shutdown = true
	r.shutdownMu.Unlock()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// getEffectiveTimeout returns the effective timeout for a route, preferring
// the route-specific setting over the global one.
func (r *Router) getEffectiveTimeout(routeTimeout time.Duration) time.Duration {
	if routeTimeout > 0 {
		return routeTimeout
	}
	return r.config.GlobalTimeout
}

// getEffectiveMaxBodySize returns the effective max body size for a route,
// preferring the route-specific setting over the global one.
func (r *Router) getEffectiveMaxBodySize(routeMaxBodySize int64) int64 {
	if routeMaxBodySize > 0 {
		return routeMaxBodySize
	}
	return r.config.GlobalMaxBodySize
}

// handleError handles an error by logging it and writing an appropriate
// response. Negotiation failures map to their fixed statuses and diagnostic
// bodies; everything else becomes a generic JSON error.
func (r *Router) handleError(w http.ResponseWriter, req *http.Request, err error) {
	traceID := scontext.GetTraceIDFromRequest(req)

	fields := []zap.Field{
		zap.Error(err),
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
	}
	if traceID != "" {
		fields = append([]zap.Field{zap.String("trace_id", traceID)}, fields...)
	}

	// Checked before the kind mapping: a tripped body-size cap surfaces as
	// a transport failure wrapping *http.MaxBytesError, and 413 is the
	// more precise answer.
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		r.logger.Warn("Request entity too large", fields...)
		r.writeJSONError(w, http.StatusRequestEntityTooLarge, "Request Entity Too Large", traceID)
		return
	}

	if kind, ok := negotiate.KindOf(err); ok {
		switch kind {
		case negotiate.KindEncodeFailure:
			r.logger.Error("Negotiation failure", fields...)
		default:
			r.logger.Warn("Negotiation failure", fields...)
		}
		negotiate.WriteError(w, kind)
		return
	}

	if errors.Is(err, context.DeadlineExceeded) {
		r.logger.Error("Request timed out (detected in handler)", fields...)
		r.writeJSONError(w, http.StatusRequestTimeout, "Request Timeout", traceID)
		return
	}

	r.logger.Error("Handler error", fields...)
	r.writeJSONError(w, http.StatusInternalServerError, "Internal Server Error", traceID)
}

// writeJSONError writes a JSON error response to the client, including the
// trace ID in the payload if available.
func (r *Router) writeJSONError(w http.ResponseWriter, statusCode int, message string, traceID string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)

	errorPayload := map[string]any{
		"error": map[string]string{
			"message": message,
		},
	}
	if traceID != "" {
		errorPayload["error"].(map[string]string)["trace_id"] = traceID
	}

	if err := json.NewEncoder(w).Encode(errorPayload); err != nil {
		r.logger.Error("Failed to write JSON error response",
			zap.Error(err),
			zap.Int("original_status", statusCode),
			zap.String("original_message", message),
		)
	}
}

// traceResponseWriter is a wrapper around http.ResponseWriter that captures
// the status code and bytes written for trace logging.
type traceResponseWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int64
}

// WriteHeader captures the status code and calls the underlying ResponseWriter.WriteHeader.
func (rw *traceResponseWriter) WriteHeader(statusCode int) {
	rw.statusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

// Write captures the number of bytes written and calls the underlying ResponseWriter.Write.
func (rw *traceResponseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.bytesWritten += int64(n)
	return n, err
}

// Flush calls the underlying ResponseWriter.Flush if it implements http.Flusher.
func (rw *traceResponseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// mutexResponseWriter is a wrapper around http.ResponseWriter that uses a
// mutex to protect access and tracks if headers or body have been written,
// so the timeout path and the handler goroutine cannot interleave writes.
type mutexResponseWriter struct {
	http.ResponseWriter
	mu          *sync.Mutex
	wroteHeader atomic.Bool
}

// Header acquires the mutex and returns the underlying Header map.
func (rw *mutexResponseWriter) Header() http.Header {
	rw.mu.Lock()
	defer rw.mu.Unlock()
	return rw.ResponseWriter.Header()
}

// WriteHeader acquires the mutex, marks headers as written, and calls the
// underlying ResponseWriter.WriteHeader.
func (rw *mutexResponseWriter) WriteHeader(statusCode int) {
	rw.mu.Lock()
	defer rw.mu.Unlock()
	if !rw.wroteHeader.Swap(true) {
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

// Write acquires the mutex, marks headers as written, and calls the
// underlying ResponseWriter.Write.
func (rw *mutexResponseWriter) Write(b []byte) (int, error) {
	rw.mu.Lock()
	defer rw.mu.Unlock()
	rw.wroteHeader.Store(true)
	return rw.ResponseWriter.Write(b)
}
