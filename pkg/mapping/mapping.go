package mapping

import (
	"iter"

	"github.com/chris/transaction-ledger/pkg/api"
	"github.com/chris/transaction-ledger/pkg/batch"
	"github.com/chris/transaction-ledger/pkg/ledger"
	"github.com/chris/transaction-ledger/pkg/models"
	"github.com/chris/transaction-ledger/pkg/tabular"
)

// ToApiAccount converts a domain Account model to an API Account model.
func ToApiAccount(account models.Account) api.Account {
	return fromRow(tabular.NewRow(account))
}

func fromRow(row tabular.Row) api.Account {
	return api.Account{
		Client:    int(row.Client),
		Available: row.Available,
		Held:      row.Held,
		Total:     row.Total,
		Locked:    row.Locked,
	}
}

// ToApiRejection converts a ledger Rejection to an API Rejection model.
func ToApiRejection(rejection ledger.Rejection) api.Rejection {
	return api.Rejection{
		Line:   rejection.Line,
		Type:   string(rejection.Type),
		Client: int(rejection.Client),
		Tx:     int64(rejection.Tx),
		Reason: rejection.Reason,
	}
}

// ToApiRunResponse converts the result of a run to an API RunResponse model.
// Accounts are taken from the given sequence so callers can filter them.
func ToApiRunResponse(result *batch.Result, accounts iter.Seq[models.Account]) *api.RunResponse {
	resp := &api.RunResponse{
		RunId:      result.Report.RunID,
		Processed:  result.Report.Processed,
		Applied:    result.Report.Applied,
		Rejected:   result.Report.Rejected(),
		Accounts:   []api.Account{},
		Rejections: []api.Rejection{},
	}
	for _, row := range tabular.Rows(accounts) {
		resp.Accounts = append(resp.Accounts, fromRow(row))
	}
	for _, rejection := range result.Report.Rejections {
		resp.Rejections = append(resp.Rejections, ToApiRejection(rejection))
	}
	return resp
}
