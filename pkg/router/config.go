package router

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Suhaibinator/SNegotiate/pkg/codec"
	"github.com/Suhaibinator/SNegotiate/pkg/common"
	"github.com/Suhaibinator/SNegotiate/pkg/metrics"
)

// RouterConfig defines the configuration for a Router.
type RouterConfig struct {
	// Codecs is the codec registry driving content negotiation for every
	// route. Required; New fails without it.
	Codecs *codec.Registry

	// Logger is used for request logging and internal errors. A nil logger
	// falls back to zap.NewProduction, then to a no-op logger.
	Logger *zap.Logger

	// Metrics optionally records negotiation outcomes.
	Metrics *metrics.Collector

	// GlobalTimeout bounds handler execution for every route. Zero
	// disables the timeout. Route-level timeouts take precedence.
	GlobalTimeout time.Duration

	// GlobalMaxBodySize caps request body size in bytes for every route.
	// Zero disables the cap. Route-level caps take precedence.
	GlobalMaxBodySize int64

	// TraceIDBufferSize enables trace-ID generation when positive; it sizes
	// the precomputed UUID buffer.
	TraceIDBufferSize int

	// EnableTraceLogging logs one line per request with trace information.
	EnableTraceLogging bool

	// TraceLoggingUseInfo logs request traces at Info level instead of Debug.
	TraceLoggingUseInfo bool

	// Middlewares are applied to every route, outside the negotiation
	// wrapping stage.
	Middlewares []common.Middleware
}

// HandlerFunc is a typed route handler: it receives the decoded request value
// and returns the response value to be encoded in the negotiated format.
type HandlerFunc[Req any, Resp any] func(r *http.Request, data Req) (Resp, error)

// RouteConfig defines a typed route.
type RouteConfig[Req any, Resp any] struct {
	// Path is the httprouter-style path pattern (e.g. "/users/:id").
	Path string

	// Methods lists the HTTP methods the route serves.
	Methods []string

	// Handler is the typed handler for the route.
	Handler HandlerFunc[Req, Resp]

	// SuccessStatus, when non-zero, is the explicit status for successful
	// responses (e.g. http.StatusCreated). Zero means 200 OK.
	SuccessStatus int

	// Timeout overrides RouterConfig.GlobalTimeout for this route.
	Timeout time.Duration

	// MaxBodySize overrides RouterConfig.GlobalMaxBodySize for this route.
	MaxBodySize int64

	// Middlewares are applied to this route only, after the global ones.
	Middlewares []common.Middleware
}
