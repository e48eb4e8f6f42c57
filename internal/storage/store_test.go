package storage

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tally-dev/tally/internal/model"
)

// failingBackend simulates a full disk on Put.
type failingBackend struct {
	*MemoryBackend
}

func (f failingBackend) Put(string, []byte) error {
	return errors.New("quota exceeded")
}

func sampleSnapshot() model.Snapshot {
	ts := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)
	budgetCap := model.MustMoney("250")
	return model.Snapshot{
		Transactions: []model.Transaction{
			{ID: "txn_1", Description: "Coffee", Amount: model.MustMoney("4.5"), Category: "Food", Date: "2025-01-15", CreatedAt: ts, UpdatedAt: ts},
			{ID: "txn_2", Description: "Books", Amount: model.MustMoney("20"), Category: "School", Date: "2025-01-10", CreatedAt: ts, UpdatedAt: ts.Add(time.Hour)},
		},
		Settings: model.Settings{BudgetCap: &budgetCap},
		Sort:     model.SortState{By: model.FieldAmount, Order: model.OrderAsc},
	}
}

func TestLoad_Empty(t *testing.T) {
	s := NewStore(NewMemoryBackend(), "", nil)
	snap := s.Load()
	assert.Empty(t, snap.Transactions)
	assert.NotNil(t, snap.Transactions)
	assert.Nil(t, snap.Settings.BudgetCap)
	assert.Equal(t, model.DefaultSort(), snap.Sort)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	s := NewStore(NewMemoryBackend(), DefaultKey, nil)
	want := sampleSnapshot()
	require.NoError(t, s.Save(want))

	got := s.Load()

	wantJSON, err := json.Marshal(want)
	require.NoError(t, err)
	gotJSON, err := json.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, string(wantJSON), string(gotJSON))
	assert.True(t, got.Transactions[0].CreatedAt.Equal(want.Transactions[0].CreatedAt))
}

func TestLoad_Corrupt(t *testing.T) {
	b := NewMemoryBackend()
	require.NoError(t, b.Put(DefaultKey, []byte("{not json")))

	snap := NewStore(b, DefaultKey, nil).Load()
	assert.Empty(t, snap.Transactions)
	assert.Nil(t, snap.Settings.BudgetCap)
}

func TestLoad_WrongShape(t *testing.T) {
	b := NewMemoryBackend()
	require.NoError(t, b.Put(DefaultKey, []byte(`[1,2,3]`)))

	snap := NewStore(b, DefaultKey, nil).Load()
	assert.Empty(t, snap.Transactions)
}

func TestLoad_MissingSortUsesDefault(t *testing.T) {
	b := NewMemoryBackend()
	require.NoError(t, b.Put(DefaultKey, []byte(`{"transactions":[],"settings":{"budgetCap":null}}`)))

	snap := NewStore(b, DefaultKey, nil).Load()
	assert.Equal(t, model.DefaultSort(), snap.Sort)
}

func TestDecode_ResetsBadSort(t *testing.T) {
	snap, err := Decode([]byte(`{"transactions":null,"settings":{},"sort":{"by":"color","order":"sideways"}}`))
	require.NoError(t, err)
	assert.Equal(t, model.DefaultSort(), snap.Sort)
	assert.NotNil(t, snap.Transactions)
}

func TestSave_FailureIsReturnedNotPanicked(t *testing.T) {
	s := NewStore(failingBackend{NewMemoryBackend()}, DefaultKey, nil)
	err := s.Save(sampleSnapshot())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")

	// Nothing was written, so Load still sees defaults.
	assert.Empty(t, s.Load().Transactions)
}

func TestSave_IsFullOverwrite(t *testing.T) {
	s := NewStore(NewMemoryBackend(), DefaultKey, nil)
	require.NoError(t, s.Save(sampleSnapshot()))

	smaller := sampleSnapshot()
	smaller.Transactions = smaller.Transactions[:1]
	require.NoError(t, s.Save(smaller))

	assert.Len(t, s.Load().Transactions, 1)
}
