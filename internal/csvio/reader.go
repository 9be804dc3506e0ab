// Package csvio adapts the engine to the CSV record format used for input
// and output. It owns the policy for mapping raw records to transactions;
// the ledger never sees a malformed row.
package csvio

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/corefin/payproc/internal/domain"
)

// Reader streams transactions out of a CSV document with a
// "type, client, tx, amount" header. Column order follows the header, the
// type column is case-insensitive, and all fields tolerate surrounding
// whitespace. The amount column may be absent entirely for streams that
// carry no deposits or withdrawals.
type Reader struct {
	csv     *csv.Reader
	columns map[string]int
}

// NewReader reads the header record and prepares the column mapping.
func NewReader(r io.Reader) (*Reader, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	// Dispute rows legitimately omit the amount field.
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, errors.Wrap(err, "read csv header")
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"type", "client", "tx"} {
		if _, ok := columns[required]; !ok {
			return nil, errors.Errorf("csv header is missing the %q column", required)
		}
	}

	return &Reader{csv: cr, columns: columns}, nil
}

// Next decodes the next row into a transaction. It returns io.EOF once the
// input is exhausted. A malformed row returns an error without invalidating
// the reader; the caller decides whether to skip or abort.
func (r *Reader) Next() (domain.Transaction, error) {
	record, err := r.csv.Read()
	if err != nil {
		if err == io.EOF {
			return domain.Transaction{}, io.EOF
		}
		return domain.Transaction{}, errors.Wrap(err, "read csv record")
	}
	return r.decode(record)
}

func (r *Reader) decode(record []string) (domain.Transaction, error) {
	kind := strings.ToLower(r.field(record, "type"))

	client, err := strconv.ParseUint(r.field(record, "client"), 10, 16)
	if err != nil {
		return domain.Transaction{}, errors.Wrap(err, "parse client id")
	}
	tx, err := strconv.ParseUint(r.field(record, "tx"), 10, 32)
	if err != nil {
		return domain.Transaction{}, errors.Wrap(err, "parse transaction id")
	}

	switch kind {
	case "deposit":
		amount, err := r.amount(record)
		if err != nil {
			return domain.Transaction{}, err
		}
		return domain.NewDeposit(domain.ClientID(client), domain.TxID(tx), amount)
	case "withdrawal":
		amount, err := r.amount(record)
		if err != nil {
			return domain.Transaction{}, err
		}
		return domain.NewWithdrawal(domain.ClientID(client), domain.TxID(tx), amount)
	case "dispute":
		return domain.NewDispute(domain.ClientID(client), domain.TxID(tx)), nil
	case "resolve":
		return domain.NewResolve(domain.ClientID(client), domain.TxID(tx)), nil
	case "chargeback":
		return domain.NewChargeBack(domain.ClientID(client), domain.TxID(tx)), nil
	default:
		return domain.Transaction{}, errors.Errorf("unknown transaction type: %q", kind)
	}
}

// amount extracts the amount field, which is required for deposits and
// withdrawals. Its absence is a decode error, not a ledger error.
func (r *Reader) amount(record []string) (decimal.Decimal, error) {
	raw := r.field(record, "amount")
	if raw == "" {
		return decimal.Decimal{}, errors.New("amount absent from deposit or withdrawal")
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, errors.Wrap(err, "parse amount")
	}
	return amount, nil
}

// field returns the named column of the record, trimmed, or "" when the row
// is too short to contain it.
func (r *Reader) field(record []string, name string) string {
	i, ok := r.columns[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}
