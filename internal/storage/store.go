// Package storage persists the application snapshot to a durable
// key-value slot and reads it back, falling back to defaults.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tally-dev/tally/internal/log"
	"github.com/tally-dev/tally/internal/model"
)

// DefaultKey is the slot the snapshot lives in.
const DefaultKey = "tally.snapshot"

// Store loads and saves whole snapshots through a Backend.
type Store struct {
	backend Backend
	key     string
	log     *log.Logger
}

// NewStore creates a Store writing under key.
func NewStore(backend Backend, key string, logger *log.Logger) *Store {
	if key == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &Store{
		backend: backend,
		key:     key,
		log:     logger.WithComponent(log.ComponentStorage),
	}
}

// Load returns the last saved snapshot. A missing, unreadable or corrupt
// payload yields the default snapshot; problems are logged, not returned.
func (s *Store) Load() model.Snapshot {
	data, err := s.backend.Get(s.key)
	if errors.Is(err, ErrNotFound) {
		return model.DefaultSnapshot()
	}
	if err != nil {
		s.log.Warn("reading snapshot failed, using defaults",
			log.FieldOperation, log.OpLoad, log.FieldKey, s.key, log.FieldError, err)
		return model.DefaultSnapshot()
	}

	snap, err := Decode(data)
	if err != nil {
		s.log.Warn("snapshot is corrupt, using defaults",
			log.FieldOperation, log.OpLoad, log.FieldKey, s.key, log.FieldError, err)
		return model.DefaultSnapshot()
	}
	return snap
}

// Save overwrites the stored snapshot. A failure is logged and returned;
// callers holding the snapshot in memory may carry on without it.
func (s *Store) Save(snap model.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		s.log.Error("encoding snapshot failed",
			log.FieldOperation, log.OpSave, log.FieldError, err)
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := s.backend.Put(s.key, data); err != nil {
		s.log.Error("saving snapshot failed",
			log.FieldOperation, log.OpSave, log.FieldKey, s.key, log.FieldError, err)
		return fmt.Errorf("saving snapshot: %w", err)
	}
	s.log.Debug("snapshot saved", log.FieldKey, s.key, log.FieldCount, len(snap.Transactions))
	return nil
}

// Decode parses a persisted snapshot. Absent fields take their defaults
// and an unusable sort state is reset.
func Decode(data []byte) (model.Snapshot, error) {
	snap := model.DefaultSnapshot()
	if err := json.Unmarshal(data, &snap); err != nil {
		return model.Snapshot{}, fmt.Errorf("parsing snapshot: %w", err)
	}
	if snap.Transactions == nil {
		snap.Transactions = []model.Transaction{}
	}
	if !snap.Sort.Valid() {
		snap.Sort = model.DefaultSort()
	}
	return snap, nil
}
