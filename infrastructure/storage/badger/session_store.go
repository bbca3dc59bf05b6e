package badger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/felixgeelhaar/checklist-go/domain/memory"
)

// SessionStore persists agent state snapshots per thread in BadgerDB.
type SessionStore struct {
	db        *badger.DB
	keyPrefix string
}

// NewSessionStore opens a store with the given configuration.
func NewSessionStore(cfg Config, opts ...Option) (*SessionStore, error) {
	for _, opt := range opts {
		opt(&cfg)
	}

	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}
	return &SessionStore{db: db, keyPrefix: cfg.KeyPrefix}, nil
}

// NewSessionStoreFromDB wraps an existing BadgerDB database.
func NewSessionStoreFromDB(db *badger.DB, keyPrefix string) *SessionStore {
	return &SessionStore{db: db, keyPrefix: keyPrefix}
}

func (s *SessionStore) key(threadID string) []byte {
	return []byte(s.keyPrefix + "session:" + threadID)
}

// Save writes the state snapshot for its thread.
func (s *SessionStore) Save(ctx context.Context, state *memory.AgentState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if state == nil || state.ThreadID == "" {
		return fmt.Errorf("session store: state has no thread id")
	}

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("session store: marshal state: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(s.key(state.ThreadID), data)
	})
}

// Load reads the state snapshot for a thread.
func (s *SessionStore) Load(ctx context.Context, threadID string) (*memory.AgentState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(s.key(threadID))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	var state memory.AgentState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("session store: unmarshal state: %w", err)
	}
	return &state, nil
}

// Delete removes the snapshot for a thread. Deleting a missing thread
// is not an error.
func (s *SessionStore) Delete(ctx context.Context, threadID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(s.key(threadID))
	})
}

// Close closes the underlying database.
func (s *SessionStore) Close() error {
	return s.db.Close()
}
