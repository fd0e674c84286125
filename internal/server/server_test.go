package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"acai-pedidos/internal/config"
	"acai-pedidos/internal/mocks"

	"github.com/golang/mock/gomock"
	"go.uber.org/zap/zaptest"
)

func setup(t *testing.T) (http.Handler, *mocks.MockStorage) {
	t.Helper()

	ctrl := gomock.NewController(t)
	mockStorage := mocks.NewMockStorage(ctrl)

	logger := zaptest.NewLogger(t)
	cfg := &config.Config{Logger: logger.Sugar()}

	srv := NewServer(mockStorage, cfg)

	return srv.buildRouter(), mockStorage
}

func doRequest(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func TestHealthHandler(t *testing.T) {
	router, mock := setup(t)

	mock.EXPECT().Ping(gomock.Any()).Return(nil)

	w := doRequest(t, router, http.MethodGet, "/api/pedidos/teste/conexao", "")

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"success":true`) {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
}

func TestUnknownRoute(t *testing.T) {
	router, _ := setup(t)

	w := doRequest(t, router, http.MethodGet, "/api/nada", "")

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}
