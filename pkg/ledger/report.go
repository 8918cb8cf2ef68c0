package ledger

import (
	"github.com/chris/transaction-ledger/pkg/models"
	"github.com/google/uuid"
)

// Rejection describes an input that was discarded.
type Rejection struct {
	Line   int                    `json:"line"`
	Type   models.TransactionType `json:"type,omitempty"`
	Client models.ClientID        `json:"client"`
	Tx     models.TransactionID   `json:"tx"`
	Reason string                 `json:"reason"`
	Err    error                  `json:"-"`
}

// Report summarizes a call to Engine.Process.
type Report struct {
	RunID      uuid.UUID   `json:"run_id"`
	Processed  int         `json:"processed"`
	Applied    int         `json:"applied"`
	Rejections []Rejection `json:"rejections"`
}

// Rejected returns the number of inputs that were discarded.
func (r *Report) Rejected() int {
	return len(r.Rejections)
}

func newRejection(input models.Input, err error) Rejection {
	rejection := Rejection{
		Line:   input.Line,
		Reason: err.Error(),
		Err:    err,
	}
	if input.Transaction != nil {
		ref := input.Transaction.Ref()
		rejection.Type = input.Transaction.Type()
		rejection.Client = ref.Client
		rejection.Tx = ref.Tx
	}
	return rejection
}
