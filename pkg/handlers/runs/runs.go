package runs

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"math"
	"net/http"
	"slices"

	"github.com/chris/transaction-ledger/pkg/api"
	"github.com/chris/transaction-ledger/pkg/batch"
	"github.com/chris/transaction-ledger/pkg/mapping"
	"github.com/chris/transaction-ledger/pkg/models"
	"github.com/chris/transaction-ledger/pkg/tabular"
)

// DefaultMaxBodyBytes is the largest transaction log accepted in a request body.
const DefaultMaxBodyBytes = 10 << 20

// RunsHandler holds the dependencies for run-related handlers.
type RunsHandler struct {
	Runner       *batch.Runner
	Logger       *slog.Logger
	MaxBodyBytes int64
}

// NewRunsHandler creates a new RunsHandler.
func NewRunsHandler(runner *batch.Runner, logger *slog.Logger) *RunsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RunsHandler{Runner: runner, Logger: logger, MaxBodyBytes: DefaultMaxBodyBytes}
}

// CreateRun processes the CSV transaction log in the request body with a fresh
// ledger and responds with the resulting account table.
func (h *RunsHandler) CreateRun(w http.ResponseWriter, r *http.Request, params api.CreateRunParams) {
	format := tabular.CSV
	if params.Format != nil {
		var err error
		if format, err = tabular.ParseFormat(string(*params.Format)); err != nil {
			http.Error(w, fmt.Sprintf("Invalid format: %v", err), http.StatusBadRequest)
			return
		}
	}

	filter := func(models.Account) bool { return true }
	if params.Client != nil {
		id := *params.Client
		if id < 0 || id > math.MaxUint16 {
			http.Error(w, fmt.Sprintf("Invalid client: %d", id), http.StatusBadRequest)
			return
		}
		filter = func(a models.Account) bool { return a.Client == models.ClientID(id) }
	}

	// The whole body is read before the run starts so a truncated upload never
	// reaches the ledger or the sinks.
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, fmt.Sprintf("Request body exceeds %d bytes", tooLarge.Limit), http.StatusRequestEntityTooLarge)
		} else {
			http.Error(w, fmt.Sprintf("Failed to read request body: %v", err), http.StatusBadRequest)
		}
		return
	}

	result, err := h.Runner.Run(r.Context(), tabular.Read(bytes.NewReader(body)))
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to export run results: %v", err), http.StatusBadGateway)
		return
	}
	accounts := selectAccounts(result.Accounts, filter)

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("X-Run-Id", result.Report.RunID.String())
	w.WriteHeader(http.StatusOK)

	switch format {
	case tabular.JSON:
		err = json.NewEncoder(w).Encode(mapping.ToApiRunResponse(result, accounts))
	default:
		err = tabular.Write(w, format, accounts)
	}
	if err != nil {
		// Headers are already sent.
		h.Logger.Error("failed to write response", "run_id", result.Report.RunID.String(), "error", err)
	}
}

func selectAccounts(accounts []models.Account, keep func(models.Account) bool) iter.Seq[models.Account] {
	return func(yield func(models.Account) bool) {
		for account := range slices.Values(accounts) {
			if keep(account) && !yield(account) {
				return
			}
		}
	}
}
