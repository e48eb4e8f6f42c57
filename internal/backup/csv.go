package backup

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/tally-dev/tally/internal/model"
)

// CSVHeader is the header row of a transactions CSV.
const CSVHeader = "id,description,amount,category,date,createdAt,updatedAt"

const (
	numFields    = 7
	colID        = 0
	colDesc      = 1
	colAmount    = 2
	colCategory  = 3
	colDate      = 4
	colCreatedAt = 5
	colUpdatedAt = 6
)

// MarshalTransaction converts a Transaction to a CSV row.
func MarshalTransaction(t model.Transaction) []string {
	row := make([]string, numFields)
	row[colID] = t.ID
	row[colDesc] = t.Description
	row[colAmount] = t.Amount.String()
	row[colCategory] = t.Category
	row[colDate] = t.Date
	row[colCreatedAt] = t.Field(model.FieldCreatedAt)
	row[colUpdatedAt] = t.Field(model.FieldUpdatedAt)
	return row
}

// UnmarshalTransaction converts a CSV row to a Transaction. Empty id and
// timestamp columns are allowed and left zero.
func UnmarshalTransaction(record []string) (model.Transaction, error) {
	if len(record) != numFields {
		return model.Transaction{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	amount, err := model.NewMoney(record[colAmount])
	if err != nil {
		return model.Transaction{}, err
	}
	created, err := parseTime(record[colCreatedAt])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing createdAt %q: %w", record[colCreatedAt], err)
	}
	updated, err := parseTime(record[colUpdatedAt])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing updatedAt %q: %w", record[colUpdatedAt], err)
	}

	return model.Transaction{
		ID:          record[colID],
		Description: record[colDesc],
		Amount:      amount,
		Category:    record[colCategory],
		Date:        record[colDate],
		CreatedAt:   created,
		UpdatedAt:   updated,
	}, nil
}

// WriteCSV writes txns with a header row.
func WriteCSV(w io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(strings.Split(CSVHeader, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, t := range txns {
		if err := cw.Write(MarshalTransaction(t)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV reads a transactions CSV. The first row must be the header.
func ReadCSV(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading transactions CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	if got := strings.Join(records[0], ","); got != CSVHeader {
		return nil, fmt.Errorf("unexpected header %q", got)
	}

	txns := make([]model.Transaction, 0, len(records)-1)
	for i, rec := range records[1:] {
		t, err := UnmarshalTransaction(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txns = append(txns, t)
	}
	return txns, nil
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
