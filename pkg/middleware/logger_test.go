package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
)

func serve(status int) string {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	handler := middleware.RequestID(NewStructuredLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	})))
	req := httptest.NewRequest(http.MethodPost, "/runs?format=json", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	return buf.String()
}

func TestNewStructuredLogger(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		out := serve(http.StatusOK)

		assert.Contains(t, out, "level=INFO")
		assert.Contains(t, out, `msg="request completed"`)
		assert.Contains(t, out, "request.path=/runs")
		assert.Contains(t, out, `request.query="format=json"`)
		assert.Contains(t, out, "response.status=200")
		assert.Regexp(t, `request\.id=\S+`, out)
	})

	t.Run("Client Error", func(t *testing.T) {
		out := serve(http.StatusBadRequest)

		assert.Contains(t, out, "level=WARN")
		assert.Contains(t, out, "response.status=400")
	})

	t.Run("Server Error", func(t *testing.T) {
		out := serve(http.StatusBadGateway)

		assert.Contains(t, out, "level=ERROR")
		assert.Contains(t, out, `msg="server error"`)
	})
}
