package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/chris/transaction-ledger/pkg/batch"
	"github.com/chris/transaction-ledger/pkg/tabular"
)

// Handler runs the transaction log of an API Gateway request through a fresh ledger.
type Handler struct {
	Runner *batch.Runner
	Logger *slog.Logger
}

// NewHandler creates a new Handler.
func NewHandler(runner *batch.Runner, logger *slog.Logger) *Handler {
	return &Handler{Runner: runner, Logger: logger}
}

// HandleRequest processes the CSV log in the request body and responds with the
// account table. The format query parameter selects csv (default) or json.
func (h *Handler) HandleRequest(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	format, err := tabular.ParseFormat(req.QueryStringParameters["format"])
	if err != nil {
		return textResponse(http.StatusBadRequest, fmt.Sprintf("Invalid format: %v", err)), nil
	}

	body := req.Body
	if req.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(req.Body)
		if err != nil {
			return textResponse(http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err)), nil
		}
		body = string(decoded)
	}

	result, err := h.Runner.Run(ctx, tabular.Read(strings.NewReader(body)))
	if err != nil {
		h.Logger.Error("failed to export run results", "request_id", req.RequestContext.RequestID, "error", err)
		return textResponse(http.StatusBadGateway, fmt.Sprintf("Failed to export run results: %v", err)), nil
	}

	var buf bytes.Buffer
	if err := tabular.Write(&buf, format, slices.Values(result.Accounts)); err != nil {
		return events.APIGatewayProxyResponse{}, fmt.Errorf("failed to write accounts: %w", err)
	}

	h.Logger.Info("run completed",
		"request_id", req.RequestContext.RequestID,
		"run_id", result.Report.RunID.String(),
		"processed", result.Report.Processed,
		"rejected", result.Report.Rejected(),
	)
	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers: map[string]string{
			"Content-Type": format.ContentType(),
			"X-Run-Id":     result.Report.RunID.String(),
		},
		Body: buf.String(),
	}, nil
}

func textResponse(status int, msg string) events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "text/plain; charset=utf-8"},
		Body:       msg + "\n",
	}
}
