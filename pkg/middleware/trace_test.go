package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/Suhaibinator/SNegotiate/pkg/scontext"
)

func TestIDGeneratorProducesUniqueIDs(t *testing.T) {
	generator := NewIDGenerator(10)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := generator.GetID()
		if _, err := uuid.Parse(id); err != nil {
			t.Fatalf("Generated ID %q is not a valid UUID: %v", id, err)
		}
		if seen[id] {
			t.Fatalf("Generated duplicate ID %q", id)
		}
		seen[id] = true
	}
}

func TestTraceMiddlewareAssignsID(t *testing.T) {
	generator := NewIDGenerator(4)

	var seenID string
	handler := Trace(generator)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = scontext.GetTraceIDFromRequest(r)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))

	if seenID == "" {
		t.Fatal("Expected a trace ID in the request context")
	}
	if rr.Header().Get("X-Trace-ID") != seenID {
		t.Errorf("Expected response header to echo trace ID %q, got %q", seenID, rr.Header().Get("X-Trace-ID"))
	}
}

func TestTraceMiddlewareHonorsIncomingID(t *testing.T) {
	generator := NewIDGenerator(4)

	var seenID string
	handler := Trace(generator)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = scontext.GetTraceIDFromRequest(r)
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Trace-ID", "upstream-trace-id")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if seenID != "upstream-trace-id" {
		t.Errorf("Expected upstream trace ID to be honored, got %q", seenID)
	}
	if rr.Header().Get("X-Trace-ID") != "upstream-trace-id" {
		t.Errorf("Expected response header to echo upstream ID, got %q", rr.Header().Get("X-Trace-ID"))
	}
}
