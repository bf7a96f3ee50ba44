package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Suhaibinator/SNegotiate/pkg/scontext"
)

// IDGenerator provides efficient generation of trace IDs by precomputing them.
// A background goroutine keeps a buffered channel of UUIDs filled so request
// paths never pay the generation cost.
type IDGenerator struct {
	idChan   chan string
	size     int
	initOnce sync.Once
}

// NewIDGenerator creates a new IDGenerator with the specified buffer size.
func NewIDGenerator(bufferSize int) *IDGenerator {
	g := &IDGenerator{
		idChan: make(chan string, bufferSize),
		size:   bufferSize,
	}
	g.init()
	return g
}

// init fills the channel and starts the background goroutine that keeps it filled.
func (g *IDGenerator) init() {
	g.initOnce.Do(func() {
		for i := 0; i < g.size; i++ {
			g.idChan <- uuid.New().String()
		}

		go func() {
			for {
				select {
				case g.idChan <- uuid.New().String():
					// Added a fresh ID.
				default:
					// Channel is full, back off to save CPU.
					time.Sleep(1 * time.Millisecond)
				}
			}
		}()
	})
}

// GetID returns a precomputed UUID from the channel. If the channel is empty
// (which should be rare with proper sizing), it generates a new UUID on the
// spot rather than waiting, so requests are never delayed during traffic
// spikes.
func (g *IDGenerator) GetID() string {
	select {
	case id := <-g.idChan:
		return id
	default:
		return uuid.New().String()
	}
}

// Trace creates a middleware that assigns each request a trace ID and stores
// it in the request context via scontext. An incoming X-Trace-ID header is
// honored so IDs propagate across services; otherwise a fresh ID is drawn
// from the generator. The assigned ID is echoed back on the response.
func Trace(generator *IDGenerator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			traceID := r.Header.Get("X-Trace-ID")
			if traceID == "" {
				traceID = generator.GetID()
			}

			ctx := scontext.WithTraceID(r.Context(), traceID)
			r = r.WithContext(ctx)

			w.Header().Set("X-Trace-ID", traceID)

			next.ServeHTTP(w, r)
		})
	}
}
