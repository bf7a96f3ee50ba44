package negotiate

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Suhaibinator/SNegotiate/pkg/accept"
	"github.com/Suhaibinator/SNegotiate/pkg/codec"
	"github.com/Suhaibinator/SNegotiate/pkg/common"
	"github.com/Suhaibinator/SNegotiate/pkg/mediatype"
	"github.com/Suhaibinator/SNegotiate/pkg/metrics"
	"github.com/Suhaibinator/SNegotiate/pkg/scontext"
)

// Config configures the negotiation middleware.
type Config struct {
	// Codecs is the codec registry for the process. Required.
	Codecs *codec.Registry

	// Logger receives the full detail of internal failures (encode errors
	// in particular) that are only surfaced to callers as generic
	// diagnostics. Defaults to a no-op logger.
	Logger *zap.Logger

	// Metrics optionally records negotiation outcomes. A nil collector
	// disables instrumentation.
	Metrics *metrics.Collector
}

// Middleware returns the wrapping stage that drives an exchange through the
// negotiation protocol:
//
// Phase 1, before the handler: the request's Accept preferences are parsed
// and resolved against the registry. When nothing is acceptable the
// exchange short-circuits with 406 and the handler is never invoked.
// Otherwise the selected format is recorded for phase 3 and exposed to the
// handler through the request context.
//
// Phase 2: the handler runs against a buffering response writer. A handler
// that wants content negotiation hands its typed value to Respond or
// RespondStatus; anything else it writes passes through untouched.
//
// Phase 3, after the handler returns: if the buffered response carries an
// erased payload it is serialized with the codec matching the phase-1
// format, the placeholder status becomes 200 (explicit handler statuses are
// preserved verbatim), the Content-Type header is set to the negotiated
// token, any stale Content-Length is dropped, and the produced bytes become
// the body. A codec failure here discards the partial output and yields a
// generic 500; the codec's diagnostics go to the logger only.
//
// All state is per exchange; concurrent exchanges share nothing but the
// read-only registries.
func Middleware(cfg Config) common.Middleware {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			acceptHeader := r.Header.Get("Accept")

			// Phase 1: select the response format before the handler runs.
			format, ok := negotiateFormat(acceptHeader, cfg.Codecs)
			if !ok {
				logger.Warn("No acceptable response format",
					zap.String("accept", acceptHeader),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
				)
				cfg.Metrics.ExchangeFailed(KindNegotiationFailed.String())
				WriteError(w, KindNegotiationFailed)
				return
			}
			cfg.Metrics.FormatSelected(string(format))

			ctx := scontext.WithNegotiatedFormat(r.Context(), format)
			r = r.WithContext(ctx)

			// Phase 2: run the handler against a buffering writer.
			nw := newNegotiationWriter()
			next.ServeHTTP(nw, r)

			// Phase 3: pass through, or re-encode the erased payload.
			if nw.payload == nil {
				nw.flush(w)
				return
			}

			c, ok := cfg.Codecs.Get(format)
			if !ok {
				// Unreachable: the registry covers every type it resolves.
				logger.Error("No codec for negotiated media type",
					zap.String("media_type", string(format)),
				)
				cfg.Metrics.ExchangeFailed(KindEncodeFailure.String())
				WriteError(w, KindEncodeFailure)
				return
			}

			start := time.Now()
			body, err := nw.payload.Encode(c)
			if err != nil {
				logger.Error("Failed to encode response payload",
					zap.Error(err),
					zap.String("media_type", string(format)),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.String("trace_id", scontext.GetTraceIDFromRequest(r)),
				)
				cfg.Metrics.ExchangeFailed(KindEncodeFailure.String())
				WriteError(w, KindEncodeFailure)
				return
			}
			cfg.Metrics.ObserveEncode(time.Since(start))

			status := nw.status
			if status == placeholderStatus || status == 0 {
				status = http.StatusOK
			}

			header := w.Header()
			copyHeader(header, nw.header)
			header.Del("Content-Length") // stale: refers to the placeholder body
			header.Set("Content-Type", string(format))
			w.WriteHeader(status)
			_, _ = w.Write(body)
		})
	}
}

// negotiateFormat runs the accept parser and format selector against the
// codec registry's media types.
func negotiateFormat(header string, codecs *codec.Registry) (format mediatype.MediaType, ok bool) {
	return accept.Negotiate(header, codecs.Types())
}
