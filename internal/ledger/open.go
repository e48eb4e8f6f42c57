package ledger

import (
	"context"
	"time"

	"github.com/tally-dev/tally/internal/id"
	"github.com/tally-dev/tally/internal/log"
	"github.com/tally-dev/tally/internal/model"
)

// Loader reads the persisted snapshot, defaulting when there is none.
type Loader interface {
	Load() model.Snapshot
}

// Persistence is what Open needs from the storage layer.
type Persistence interface {
	Loader
	Persister
}

// Seeder supplies initial transactions for an empty store.
type Seeder interface {
	Seed(ctx context.Context) ([]model.Transaction, error)
}

// Open loads the persisted snapshot, seeds it when it holds no
// transactions, and returns a Store holding the result. A failing seeder
// is logged and leaves the list empty. seeder may be nil.
func Open(ctx context.Context, p Persistence, seeder Seeder, opts ...Option) *Store {
	s := New(p, opts...)

	snap := p.Load()
	if len(snap.Transactions) == 0 && seeder != nil {
		seeded, err := seeder.Seed(ctx)
		if err != nil {
			s.log.Warn("could not load seed data",
				log.FieldOperation, log.OpSeed, log.FieldError, err)
		} else {
			snap.Transactions = Normalize(seeded, s.now())
			s.log.Info("seeded transactions",
				log.FieldOperation, log.OpSeed, log.FieldCount, len(snap.Transactions))
		}
	}
	if snap.Transactions == nil {
		snap.Transactions = []model.Transaction{}
	}

	s.SetState(Patch{
		Transactions: snap.Transactions,
		Settings:     &snap.Settings,
		Sort:         &snap.Sort,
	})
	return s
}

// Normalize fills in a fresh id for records without one (or with a
// duplicate) and now for missing timestamps. The input is not modified.
func Normalize(txns []model.Transaction, now time.Time) []model.Transaction {
	out := make([]model.Transaction, len(txns))
	seen := make(map[string]bool, len(txns))
	for i, t := range txns {
		if t.ID == "" || seen[t.ID] {
			t.ID = id.New()
		}
		seen[t.ID] = true
		if t.CreatedAt.IsZero() {
			t.CreatedAt = now
		}
		if t.UpdatedAt.IsZero() || t.UpdatedAt.Before(t.CreatedAt) {
			t.UpdatedAt = t.CreatedAt
		}
		out[i] = t
	}
	return out
}
