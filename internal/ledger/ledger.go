// Package ledger is the in-memory source of truth for transactions,
// settings and sort order. Every mutation persists the whole snapshot.
package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/tally-dev/tally/internal/id"
	"github.com/tally-dev/tally/internal/log"
	"github.com/tally-dev/tally/internal/model"
	"github.com/tally-dev/tally/internal/search"
)

var (
	// ErrNotFound is returned by Update for an unknown transaction ID.
	ErrNotFound = errors.New("transaction not found")
	// ErrUnknownField is returned by Sort for a name that is not a transaction field.
	ErrUnknownField = errors.New("unknown field")
)

// Status messages returned by mutations.
const (
	MsgDeleted       = "Transaction deleted."
	MsgSettingsSaved = "Settings saved."
)

// Persister writes a full snapshot. Save errors are logged by the
// persister; the ledger keeps its in-memory state either way.
type Persister interface {
	Save(model.Snapshot) error
}

// Store owns the application snapshot. It is not safe for concurrent use;
// the application has a single actor.
type Store struct {
	persist  Persister
	state    model.Snapshot
	compiler *search.Compiler
	sorter   *sorter
	now      func() time.Time
	newID    func() string
	log      *log.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides id.New.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.log = l.WithComponent(log.ComponentLedger) }
}

// WithLocale sets the collation locale used by Query (BCP 47, e.g. "en").
func WithLocale(tag string) Option {
	return func(s *Store) { s.sorter = newSorter(tag) }
}

// WithSearchCache sets how many compiled search patterns are remembered.
func WithSearchCache(size int) Option {
	return func(s *Store) { s.compiler = search.NewCompiler(size) }
}

// New creates a Store holding the default snapshot.
func New(p Persister, opts ...Option) *Store {
	s := &Store{
		persist:  p,
		state:    model.DefaultSnapshot(),
		compiler: search.NewCompiler(search.DefaultCacheSize),
		sorter:   newSorter(""),
		now:      func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		newID:    id.New,
		log:      log.Discard().WithComponent(log.ComponentLedger),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns a copy of the full snapshot.
func (s *Store) State() model.Snapshot {
	return s.state.Clone()
}

// Settings returns a copy of the settings.
func (s *Store) Settings() model.Settings {
	return s.state.Settings.Clone()
}

// Patch names the top-level snapshot fields to replace. Nil fields are
// left alone; an empty non-nil Transactions clears the list.
type Patch struct {
	Transactions []model.Transaction
	Settings     *model.Settings
	Sort         *model.SortState
}

// SetState shallow-merges p into the snapshot and persists it.
func (s *Store) SetState(p Patch) {
	if p.Transactions != nil {
		s.state.Transactions = append([]model.Transaction{}, p.Transactions...)
	}
	if p.Settings != nil {
		s.state.Settings = p.Settings.Clone()
	}
	if p.Sort != nil {
		s.state.Sort = *p.Sort
	}
	s.save()
	s.log.Debug("state replaced", log.FieldCount, len(s.state.Transactions))
}

// Input is the data for a new transaction. ID is ignored: identity is
// always generated.
type Input struct {
	ID          string
	Description string
	Amount      model.Money
	Category    string
	Date        string
}

// Add appends a new transaction and returns it with a confirmation message.
func (s *Store) Add(in Input) (model.Transaction, string) {
	now := s.now()
	txn := model.Transaction{
		ID:          s.newID(),
		Description: in.Description,
		Amount:      in.Amount,
		Category:    in.Category,
		Date:        in.Date,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.state.Transactions = append(s.state.Transactions, txn)
	s.save()

	s.log.Debug("transaction added",
		log.FieldOperation, log.OpCreate, log.FieldTransactionID, txn.ID, log.FieldDescription, txn.Description)
	return txn, fmt.Sprintf("Transaction %q added.", in.Description)
}

// Update names the fields to change; nil fields are kept.
type Update struct {
	ID          *string // ignored; identity is immutable
	Description *string
	Amount      *model.Money
	Category    *string
	Date        *string
}

// Update merges u into the transaction with the given id and refreshes
// its updatedAt. An unknown id returns ErrNotFound and changes nothing.
func (s *Store) Update(txnID string, u Update) (model.Transaction, string, error) {
	i := s.indexOf(txnID)
	if i < 0 {
		return model.Transaction{}, "", fmt.Errorf("%w: %s", ErrNotFound, txnID)
	}

	txn := s.state.Transactions[i]
	if u.Description != nil {
		txn.Description = *u.Description
	}
	if u.Amount != nil {
		txn.Amount = *u.Amount
	}
	if u.Category != nil {
		txn.Category = *u.Category
	}
	if u.Date != nil {
		txn.Date = *u.Date
	}
	txn.UpdatedAt = s.now()
	if txn.UpdatedAt.Before(txn.CreatedAt) {
		txn.UpdatedAt = txn.CreatedAt
	}

	s.state.Transactions[i] = txn
	s.save()

	s.log.Debug("transaction updated",
		log.FieldOperation, log.OpUpdate, log.FieldTransactionID, txn.ID)
	return txn, fmt.Sprintf("Transaction %q updated.", txn.Description), nil
}

// Delete removes the transaction with the given id, if any, and persists.
// Deleting an unknown id is a no-op apart from the save.
func (s *Store) Delete(txnID string) string {
	kept := s.state.Transactions[:0:0]
	for _, t := range s.state.Transactions {
		if t.ID != txnID {
			kept = append(kept, t)
		}
	}
	s.state.Transactions = kept
	s.save()

	s.log.Debug("transaction deleted",
		log.FieldOperation, log.OpDelete, log.FieldTransactionID, txnID, log.FieldCount, len(kept))
	return MsgDeleted
}

// Get returns the transaction with the given id.
func (s *Store) Get(txnID string) (model.Transaction, bool) {
	i := s.indexOf(txnID)
	if i < 0 {
		return model.Transaction{}, false
	}
	return s.state.Transactions[i], true
}

// SettingsPatch names the settings to change. ClearBudgetCap removes the cap.
type SettingsPatch struct {
	BudgetCap      *model.Money
	ClearBudgetCap bool
}

// UpdateSettings merges p into the settings and persists.
func (s *Store) UpdateSettings(p SettingsPatch) string {
	switch {
	case p.ClearBudgetCap:
		s.state.Settings.BudgetCap = nil
	case p.BudgetCap != nil:
		budgetCap := *p.BudgetCap
		s.state.Settings.BudgetCap = &budgetCap
	}
	s.save()

	s.log.Debug("settings updated", log.FieldOperation, log.OpSettings)
	return MsgSettingsSaved
}

// Sort flips the order when field is already the sort key, otherwise
// switches to field ascending. The stored sequence is not reordered.
func (s *Store) Sort(field string) (model.SortState, error) {
	if !model.IsField(field) {
		return s.state.Sort, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	if s.state.Sort.By == field {
		s.state.Sort.Order = s.state.Sort.Order.Flip()
	} else {
		s.state.Sort = model.SortState{By: field, Order: model.OrderAsc}
	}
	s.save()

	s.log.Debug("sort changed", log.FieldOperation, log.OpSort, "by", s.state.Sort.By, "order", s.state.Sort.Order)
	return s.state.Sort, nil
}

func (s *Store) indexOf(txnID string) int {
	for i, t := range s.state.Transactions {
		if t.ID == txnID {
			return i
		}
	}
	return -1
}

func (s *Store) save() {
	// The persister logs its own failures; memory stays authoritative.
	_ = s.persist.Save(s.state)
}
