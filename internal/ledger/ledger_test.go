package ledger

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tally-dev/tally/internal/model"
)

// mockPersister records every saved snapshot.
type mockPersister struct {
	saves []model.Snapshot
	err   error
}

func (m *mockPersister) Save(s model.Snapshot) error {
	m.saves = append(m.saves, s.Clone())
	return m.err
}

func (m *mockPersister) last() model.Snapshot {
	return m.saves[len(m.saves)-1]
}

// testClock advances one second per call.
type testClock struct {
	t time.Time
}

func (c *testClock) now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func newTestStore() (*Store, *mockPersister) {
	p := &mockPersister{}
	clock := &testClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	seq := 0
	s := New(p,
		WithClock(clock.now),
		WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("txn_%03d", seq)
		}),
	)
	return s, p
}

func money(s string) model.Money { return model.MustMoney(s) }

func strPtr(s string) *string { return &s }

func addSample(t *testing.T, s *Store, desc, amount, category, date string) model.Transaction {
	t.Helper()
	txn, _ := s.Add(Input{Description: desc, Amount: money(amount), Category: category, Date: date})
	return txn
}

func TestNew_Defaults(t *testing.T) {
	s, p := newTestStore()
	state := s.State()
	assert.Empty(t, state.Transactions)
	assert.Nil(t, state.Settings.BudgetCap)
	assert.Equal(t, model.SortState{By: "date", Order: model.OrderDesc}, state.Sort)
	assert.Empty(t, p.saves, "constructing a store does not persist")
}

func TestAdd(t *testing.T) {
	s, p := newTestStore()

	txn, msg := s.Add(Input{
		ID:          "forged",
		Description: "Coffee",
		Amount:      money("4.50"),
		Category:    "Food",
		Date:        "2025-01-15",
	})

	assert.Equal(t, `Transaction "Coffee" added.`, msg)
	assert.Equal(t, "txn_001", txn.ID, "caller-supplied id is ignored")
	assert.Equal(t, txn.CreatedAt, txn.UpdatedAt)
	assert.False(t, txn.CreatedAt.IsZero())

	require.Len(t, p.saves, 1)
	assert.Len(t, p.last().Transactions, 1)
	assert.Equal(t, "Coffee", p.last().Transactions[0].Description)
}

func TestAdd_UniqueIDsAndCount(t *testing.T) {
	s, _ := newTestStore()
	seen := make(map[string]bool)
	for i := 0; i < 5; i++ {
		before := len(s.State().Transactions)
		txn := addSample(t, s, fmt.Sprintf("Item %d", i), "1", "Misc", "2025-01-01")
		assert.False(t, seen[txn.ID], "id %s reused", txn.ID)
		seen[txn.ID] = true
		assert.Len(t, s.State().Transactions, before+1)
	}
}

func TestAdd_KeepsInsertionOrder(t *testing.T) {
	s, _ := newTestStore()
	addSample(t, s, "First", "1", "A", "2025-03-01")
	addSample(t, s, "Second", "2", "B", "2025-01-01")

	state := s.State()
	assert.Equal(t, "First", state.Transactions[0].Description)
	assert.Equal(t, "Second", state.Transactions[1].Description)
}

func TestUpdate(t *testing.T) {
	s, p := newTestStore()
	orig := addSample(t, s, "Coffee", "4.50", "Food", "2025-01-15")

	updated, msg, err := s.Update(orig.ID, Update{
		ID:     strPtr("txn_hijack"),
		Amount: ptr(money("5.25")),
	})
	require.NoError(t, err)

	assert.Equal(t, `Transaction "Coffee" updated.`, msg)
	assert.Equal(t, orig.ID, updated.ID, "id is immutable")
	assert.Equal(t, orig.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(orig.UpdatedAt))
	assert.Equal(t, "5.25", updated.Amount.String())
	assert.Equal(t, "Food", updated.Category, "unsupplied fields are kept")

	got, ok := s.Get(orig.ID)
	require.True(t, ok)
	assert.Equal(t, updated, got)
	assert.Len(t, p.saves, 2)
}

func TestUpdate_NotFound(t *testing.T) {
	s, p := newTestStore()
	addSample(t, s, "Coffee", "4.50", "Food", "2025-01-15")
	saves := len(p.saves)

	_, msg, err := s.Update("txn_missing", Update{Description: strPtr("Tea")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Empty(t, msg)
	assert.Len(t, p.saves, saves, "nothing persisted")
	assert.Equal(t, "Coffee", s.State().Transactions[0].Description)
}

func TestUpdate_UpdatedAtNeverBeforeCreatedAt(t *testing.T) {
	p := &mockPersister{}
	created := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	clock := created
	s := New(p, WithClock(func() time.Time { return clock }))

	txn, _ := s.Add(Input{Description: "Rent", Amount: money("500"), Date: "2025-06-01"})

	clock = created.Add(-time.Hour) // wall clock stepped backwards
	updated, _, err := s.Update(txn.ID, Update{Category: strPtr("Housing")})
	require.NoError(t, err)
	assert.False(t, updated.UpdatedAt.Before(updated.CreatedAt))
}

func TestDelete(t *testing.T) {
	s, p := newTestStore()
	a := addSample(t, s, "Coffee", "4.50", "Food", "2025-01-15")
	b := addSample(t, s, "Books", "20", "School", "2025-01-10")

	msg := s.Delete(a.ID)
	assert.Equal(t, "Transaction deleted.", msg)

	state := s.State()
	require.Len(t, state.Transactions, 1)
	assert.Equal(t, b.ID, state.Transactions[0].ID)
	assert.Len(t, p.last().Transactions, 1)

	_, ok := s.Get(a.ID)
	assert.False(t, ok)
}

func TestDelete_Idempotent(t *testing.T) {
	s, _ := newTestStore()
	addSample(t, s, "Coffee", "4.50", "Food", "2025-01-15")
	before := s.State()

	assert.Equal(t, MsgDeleted, s.Delete("txn_missing"))
	assert.Equal(t, before, s.State())
}

func TestGet_Missing(t *testing.T) {
	s, _ := newTestStore()
	_, ok := s.Get("nope")
	assert.False(t, ok)
}

func TestUpdateSettings(t *testing.T) {
	s, p := newTestStore()

	msg := s.UpdateSettings(SettingsPatch{BudgetCap: ptr(money("300"))})
	assert.Equal(t, "Settings saved.", msg)
	require.NotNil(t, s.Settings().BudgetCap)
	assert.Equal(t, "300", s.Settings().BudgetCap.String())
	require.NotNil(t, p.last().Settings.BudgetCap)

	s.UpdateSettings(SettingsPatch{})
	assert.NotNil(t, s.Settings().BudgetCap, "empty patch keeps the cap")

	s.UpdateSettings(SettingsPatch{ClearBudgetCap: true})
	assert.Nil(t, s.Settings().BudgetCap)
}

func TestSettings_IsACopy(t *testing.T) {
	s, _ := newTestStore()
	s.UpdateSettings(SettingsPatch{BudgetCap: ptr(money("100"))})

	got := s.Settings()
	*got.BudgetCap = money("1")
	assert.Equal(t, "100", s.Settings().BudgetCap.String())
}

func TestSetState(t *testing.T) {
	s, p := newTestStore()
	addSample(t, s, "Coffee", "4.50", "Food", "2025-01-15")

	budgetCap := money("50")
	s.SetState(Patch{Settings: &model.Settings{BudgetCap: &budgetCap}})

	state := s.State()
	assert.Len(t, state.Transactions, 1, "transactions untouched by a settings-only patch")
	assert.Equal(t, "50", state.Settings.BudgetCap.String())

	s.SetState(Patch{Transactions: []model.Transaction{}})
	assert.Empty(t, s.State().Transactions)
	assert.Empty(t, p.last().Transactions)
}

func TestSort_Toggle(t *testing.T) {
	s, _ := newTestStore()

	got, err := s.Sort("date")
	require.NoError(t, err)
	assert.Equal(t, model.SortState{By: "date", Order: model.OrderAsc}, got)

	got, err = s.Sort("date")
	require.NoError(t, err)
	assert.Equal(t, model.SortState{By: "date", Order: model.OrderDesc}, got)

	got, err = s.Sort("amount")
	require.NoError(t, err)
	assert.Equal(t, model.SortState{By: "amount", Order: model.OrderAsc}, got)

	got, err = s.Sort("amount")
	require.NoError(t, err)
	assert.Equal(t, model.OrderDesc, got.Order)
}

func TestSort_UnknownField(t *testing.T) {
	s, _ := newTestStore()
	got, err := s.Sort("budgetCap")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownField)
	assert.Equal(t, model.DefaultSort(), got)
}

func TestSort_DoesNotReorderStoredSequence(t *testing.T) {
	s, _ := newTestStore()
	addSample(t, s, "B", "2", "X", "2025-01-02")
	addSample(t, s, "A", "1", "X", "2025-01-01")

	_, err := s.Sort("description")
	require.NoError(t, err)
	assert.Equal(t, "B", s.State().Transactions[0].Description)
}

func TestSaveFailureKeepsMemory(t *testing.T) {
	s, p := newTestStore()
	p.err = errors.New("quota exceeded")

	txn, msg := s.Add(Input{Description: "Coffee", Amount: money("4.50"), Date: "2025-01-15"})
	assert.NotEmpty(t, msg)

	got, ok := s.Get(txn.ID)
	require.True(t, ok)
	assert.Equal(t, "Coffee", got.Description)
}

func TestState_IsACopy(t *testing.T) {
	s, _ := newTestStore()
	addSample(t, s, "Coffee", "4.50", "Food", "2025-01-15")

	state := s.State()
	state.Transactions[0].Description = "Tampered"
	assert.Equal(t, "Coffee", s.State().Transactions[0].Description)
}

func ptr[T any](v T) *T { return &v }
