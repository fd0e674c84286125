package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestLogMiddleware(t *testing.T) {
	var buf bytes.Buffer

	encoderCfg := zap.NewDevelopmentEncoderConfig()
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.AddSync(&buf),
		zapcore.DebugLevel,
	)
	logger := zap.New(core).Sugar()

	req := httptest.NewRequest(http.MethodPost, "/api/pedidos/novo", strings.NewReader(`{}`))
	rr := httptest.NewRecorder()

	handler := LogMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("resposta"))
	}))

	handler.ServeHTTP(rr, req)

	logOutput := buf.String()
	if !strings.Contains(logOutput, "method=POST") {
		t.Error("log is missing the method")
	}
	if !strings.Contains(logOutput, "path=/api/pedidos/novo") {
		t.Error("log is missing the path")
	}
	if !strings.Contains(logOutput, "status=201") {
		t.Error("log is missing the status")
	}
	if !strings.Contains(logOutput, "size=8") {
		t.Error("log is missing the response size")
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()

	var seen string
	handler := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	handler.ServeHTTP(rr, req)

	if seen == "" {
		t.Fatal("request id not set in context")
	}
	if rr.Header().Get("X-Request-Id") != seen {
		t.Fatal("request id header does not match context")
	}
}

func TestRequestIDMiddlewareKeepsSupplied(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	rr := httptest.NewRecorder()

	handler := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := RequestIDFromContext(r.Context()); got != "abc-123" {
			t.Errorf("unexpected request id: %s", got)
		}
	}))

	handler.ServeHTTP(rr, req)
}
