package handlers

import (
	"log/slog"
	"net/http"

	"github.com/chris/transaction-ledger/pkg/api"
	"github.com/chris/transaction-ledger/pkg/batch"
	"github.com/chris/transaction-ledger/pkg/handlers/runs"
	"github.com/chris/transaction-ledger/pkg/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// ApiHandler implements the api.ServerInterface.
// It composes the handlers of each resource.
type ApiHandler struct {
	*runs.RunsHandler
}

// NewApiHandler creates a new ApiHandler.
func NewApiHandler(runner *batch.Runner, logger *slog.Logger) *ApiHandler {
	return &ApiHandler{
		RunsHandler: runs.NewRunsHandler(runner, logger),
	}
}

// Make sure we conform to the interface
var _ api.ServerInterface = (*ApiHandler)(nil)

// Healthz reports that the server is up.
func (h *ApiHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// NewRouter mounts the API on a chi router with request ids, panic recovery
// and structured request logging.
func NewRouter(handler api.ServerInterface, logger *slog.Logger) http.Handler {
	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(middleware.NewStructuredLogger(logger))
	router.Use(chimiddleware.Recoverer)

	return api.HandlerFromMux(handler, router)
}
