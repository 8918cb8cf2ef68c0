package tabular

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"slices"
	"strconv"

	"github.com/chris/transaction-ledger/pkg/models"
)

// Format selects the encoding of the account table.
type Format string

const (
	CSV  Format = "csv"
	JSON Format = "json"
)

// ParseFormat validates a format name. The empty name selects CSV.
func ParseFormat(name string) (Format, error) {
	switch Format(name) {
	case "", CSV:
		return CSV, nil
	case JSON:
		return JSON, nil
	default:
		return "", fmt.Errorf("unsupported format %q (want csv or json)", name)
	}
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	if f == JSON {
		return "application/json"
	}
	return "text/csv"
}

var header = []string{"client", "available", "held", "total", "locked"}

// Row is an account as it is written out.
type Row struct {
	Client    models.ClientID `json:"client"`
	Available string          `json:"available"`
	Held      string          `json:"held"`
	Total     string          `json:"total"`
	Locked    bool            `json:"locked"`
}

// NewRow converts an account snapshot into its written form.
func NewRow(account models.Account) Row {
	return Row{
		Client:    account.Client,
		Available: models.FormatAmount(account.Available),
		Held:      models.FormatAmount(account.Held),
		Total:     models.FormatAmount(account.Total()),
		Locked:    account.Locked,
	}
}

func (r Row) record() []string {
	return []string{
		strconv.FormatUint(uint64(r.Client), 10),
		r.Available,
		r.Held,
		r.Total,
		strconv.FormatBool(r.Locked),
	}
}

// Rows converts and sorts the accounts by client.
func Rows(accounts iter.Seq[models.Account]) []Row {
	rows := []Row{}
	for account := range accounts {
		rows = append(rows, NewRow(account))
	}
	slices.SortFunc(rows, func(a, b Row) int { return int(a.Client) - int(b.Client) })
	return rows
}

// Write writes the accounts, ordered by client, in the given format.
func Write(w io.Writer, format Format, accounts iter.Seq[models.Account]) error {
	rows := Rows(accounts)
	switch format {
	case JSON:
		if err := json.NewEncoder(w).Encode(rows); err != nil {
			return fmt.Errorf("failed to encode accounts: %w", err)
		}
		return nil
	case CSV, "":
		return writeCSV(w, rows)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

func writeCSV(w io.Writer, rows []Row) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range rows {
		if err := writer.Write(row.record()); err != nil {
			return fmt.Errorf("failed to write account %d: %w", row.Client, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush accounts: %w", err)
	}
	return nil
}
