package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestChainOrder(t *testing.T) {
	var order []string
	tag := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	handler := Chain(tag("first"), tag("second"))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	if len(order) != 3 || order[0] != "first" || order[1] != "second" || order[2] != "handler" {
		t.Errorf("Unexpected execution order: %v", order)
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	logger := zap.New(core)

	handler := Recovery(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("something broke")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/boom", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", rr.Code)
	}

	entries := logs.FilterMessage("Panic recovered").All()
	if len(entries) != 1 {
		t.Fatalf("Expected one panic log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["panic"] != "something broke" {
		t.Errorf("Expected panic value to be logged, got %v", fields["panic"])
	}
	if fields["path"] != "/boom" {
		t.Errorf("Expected path to be logged, got %v", fields["path"])
	}
}

func TestLoggingMiddlewareLevels(t *testing.T) {
	cases := []struct {
		name        string
		status      int
		infoSuccess bool
		wantLevel   zapcore.Level
		wantMessage string
	}{
		{"server error", http.StatusInternalServerError, false, zap.ErrorLevel, "Server error"},
		{"client error", http.StatusBadRequest, false, zap.WarnLevel, "Client error"},
		{"success debug", http.StatusOK, false, zap.DebugLevel, "Request"},
		{"success info", http.StatusOK, true, zap.InfoLevel, "Request"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			core, logs := observer.New(zap.DebugLevel)
			logger := zap.New(core)

			handler := Logging(logger, tc.infoSuccess)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			}))
			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

			entries := logs.All()
			if len(entries) != 1 {
				t.Fatalf("Expected one log entry, got %d", len(entries))
			}
			if entries[0].Message != tc.wantMessage {
				t.Errorf("Expected message %q, got %q", tc.wantMessage, entries[0].Message)
			}
			if entries[0].Level != tc.wantLevel {
				t.Errorf("Expected level %v, got %v", tc.wantLevel, entries[0].Level)
			}
			if entries[0].ContextMap()["status"] != int64(tc.status) {
				t.Errorf("Expected status field %d, got %v", tc.status, entries[0].ContextMap()["status"])
			}
		})
	}
}

func TestLoggingMiddlewareDefaultsStatus(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)

	handler := Logging(logger, false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("Expected one log entry, got %d", len(entries))
	}
	if entries[0].ContextMap()["status"] != int64(http.StatusOK) {
		t.Errorf("Expected implicit 200 status, got %v", entries[0].ContextMap()["status"])
	}
}
