// Package backup exports and imports the application snapshot.
package backup

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/tally-dev/tally/internal/model"
)

// ErrInvalidFile is returned by Import for anything that is not a snapshot
// carrying both transactions and settings.
var ErrInvalidFile = errors.New("invalid file structure")

// Messages shown to the user after an import attempt.
const (
	MsgImported    = "Data imported successfully."
	MsgImportError = "Error: Could not import data. Please check file format."
)

// DefaultFilename is the suggested export file name.
const DefaultFilename = "finance-data.json"

// Export writes snap as indented JSON in the persisted layout.
func Export(w io.Writer, snap model.Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("encoding export: %w", err)
	}
	return nil
}

// Data is a decoded import. Sort is nil when the file carried none (or an
// unusable one), in which case the current sort should be kept.
type Data struct {
	Transactions []model.Transaction
	Settings     model.Settings
	Sort         *model.SortState
}

// Import decodes an exported snapshot. The transactions and settings keys
// must both be present and non-null.
func Import(r io.Reader) (Data, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Data{}, fmt.Errorf("reading import: %w", err)
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return Data{}, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}
	txnsRaw, settingsRaw := top["transactions"], top["settings"]
	if isMissing(txnsRaw) || isMissing(settingsRaw) {
		return Data{}, fmt.Errorf("%w: transactions and settings are required", ErrInvalidFile)
	}

	var d Data
	if err := json.Unmarshal(txnsRaw, &d.Transactions); err != nil {
		return Data{}, fmt.Errorf("%w: transactions: %v", ErrInvalidFile, err)
	}
	if err := json.Unmarshal(settingsRaw, &d.Settings); err != nil {
		return Data{}, fmt.Errorf("%w: settings: %v", ErrInvalidFile, err)
	}
	if d.Transactions == nil {
		d.Transactions = []model.Transaction{}
	}

	if sortRaw := top["sort"]; !isMissing(sortRaw) {
		var s model.SortState
		if err := json.Unmarshal(sortRaw, &s); err == nil && s.Valid() {
			d.Sort = &s
		}
	}
	return d, nil
}

func isMissing(raw json.RawMessage) bool {
	v := bytes.TrimSpace(raw)
	return len(v) == 0 || bytes.Equal(v, []byte("null"))
}
