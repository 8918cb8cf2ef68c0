// Package tabular reads transaction logs from and writes account tables to
// delimited text.
package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"strconv"
	"strings"

	"github.com/chris/transaction-ledger/pkg/models"
	"github.com/shopspring/decimal"
)

// ErrMissingAmount is returned for a deposit or withdrawal row without an amount.
var ErrMissingAmount = errors.New("missing amount")

// ErrUnknownType is returned for a row whose type is not one of the five transaction types.
var ErrUnknownType = errors.New("unknown transaction type")

// ErrInvalidAmount is returned for an amount outside the fixed-point range: written
// in exponent notation, with more than MaxScale fractional digits or more than
// MaxDigits significant digits.
var ErrInvalidAmount = errors.New("amount out of fixed-point range")

// MaxScale is the largest number of fractional digits an amount may carry.
const MaxScale = 28

// MaxDigits is the largest number of significant digits an amount may carry.
const MaxDigits = 29

// ErrInvalidHeader is returned when the header row lacks a required column.
var ErrInvalidHeader = errors.New("invalid header")

// columns maps the input columns to their position in a record.
type columns struct {
	typ, client, tx, amount int
}

var positional = columns{typ: 0, client: 1, tx: 2, amount: 3}

func parseHeader(header []string) (columns, error) {
	cols := columns{typ: -1, client: -1, tx: -1, amount: -1}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "type":
			cols.typ = i
		case "client":
			cols.client = i
		case "tx":
			cols.tx = i
		case "amount":
			cols.amount = i
		}
	}
	if cols.typ < 0 || cols.client < 0 || cols.tx < 0 {
		return cols, fmt.Errorf("%w: want type, client, tx[, amount], got %q", ErrInvalidHeader, header)
	}
	return cols, nil
}

func newReader(r io.Reader) *csv.Reader {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	return reader
}

// Read lazily parses a transaction log with a header row. Every data row yields
// one Input, holding either the parsed transaction or the reason it was not
// understood. Reading stops at the first I/O error, after yielding it.
func Read(r io.Reader) iter.Seq[models.Input] {
	return func(yield func(models.Input) bool) {
		reader := newReader(r)

		header, err := reader.Read()
		if err == io.EOF {
			return
		}
		if err != nil {
			yield(models.Input{Line: 1, Err: fmt.Errorf("failed to read header: %w", err)})
			return
		}
		line, _ := reader.FieldPos(0)
		cols, err := parseHeader(header)
		if err != nil {
			yield(models.Input{Line: line, Err: err})
			return
		}

		for {
			record, err := reader.Read()
			if err == io.EOF {
				return
			}
			if err != nil {
				var parseErr *csv.ParseError
				if errors.As(err, &parseErr) {
					if !yield(models.Input{Line: parseErr.Line, Err: err}) {
						return
					}
					continue
				}
				yield(models.Input{Err: fmt.Errorf("failed to read transactions: %w", err)})
				return
			}

			line, _ := reader.FieldPos(0)
			tx, err := parseRecord(cols, record)
			if !yield(models.Input{Line: line, Transaction: tx, Err: err}) {
				return
			}
		}
	}
}

// ParseRow parses a single header-less row laid out as type, client, tx[, amount].
func ParseRow(row string) (models.Transaction, error) {
	record, err := newReader(strings.NewReader(row)).Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty row")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read row: %w", err)
	}
	return parseRecord(positional, record)
}

func field(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func parseRecord(cols columns, record []string) (models.Transaction, error) {
	typ := models.TransactionType(field(record, cols.typ))

	client, err := strconv.ParseUint(field(record, cols.client), 10, 16)
	if err != nil {
		return nil, fmt.Errorf("invalid client %q: %w", field(record, cols.client), err)
	}
	id, err := strconv.ParseUint(field(record, cols.tx), 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid tx %q: %w", field(record, cols.tx), err)
	}
	ref := models.TxRef{Client: models.ClientID(client), Tx: models.TransactionID(id)}

	switch typ {
	case models.DEPOSIT, models.WITHDRAWAL:
		raw := field(record, cols.amount)
		if raw == "" {
			return nil, fmt.Errorf("%s tx %d: %w", typ, ref.Tx, ErrMissingAmount)
		}
		amount, err := parseAmount(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid amount %q for tx %d: %w", raw, ref.Tx, err)
		}
		if typ == models.DEPOSIT {
			return models.NewDeposit(ref.Client, ref.Tx, amount), nil
		}
		return models.NewWithdrawal(ref.Client, ref.Tx, amount), nil
	// Any amount given on the dispute family is ignored.
	case models.DISPUTE:
		return models.Dispute{TxRef: ref}, nil
	case models.RESOLVE:
		return models.Resolve{TxRef: ref}, nil
	case models.CHARGEBACK:
		return models.Chargeback{TxRef: ref}, nil
	default:
		return nil, fmt.Errorf("%w %q (tx %d)", ErrUnknownType, typ, ref.Tx)
	}
}

// parseAmount accepts plain decimal notation only. Exponents are refused before
// parsing so a short row cannot expand into an arbitrarily large coefficient.
func parseAmount(raw string) (models.Amount, error) {
	if strings.ContainsAny(raw, "eE") {
		return models.Amount{}, ErrInvalidAmount
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return models.Amount{}, err
	}
	if amount.Exponent() < -MaxScale || amount.NumDigits() > MaxDigits {
		return models.Amount{}, ErrInvalidAmount
	}
	return amount, nil
}
