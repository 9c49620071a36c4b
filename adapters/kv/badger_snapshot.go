package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"roster/internal"
)

const snapshotPrefix = "snapshot:"

// BadgerSnapshotRepository stores snapshot slots in an embedded Badger database
type BadgerSnapshotRepository struct {
	db     *badger.DB
	logger *internal.Logger
}

// OpenBadger opens (or creates) a Badger database at dir. An empty dir
// opens an in-memory database.
func OpenBadger(dir string, logger *internal.Logger) (*BadgerSnapshotRepository, error) {
	if logger == nil {
		logger = internal.DefaultLogger
	}

	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil
	opts.SyncWrites = true
	opts.CompactL0OnClose = true

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	logger = logger.WithComponent("Badger")
	if dir == "" {
		logger.Info("Opened in-memory snapshot database")
	} else {
		logger.Info("Opened snapshot database at %s", dir)
	}
	return &BadgerSnapshotRepository{db: db, logger: logger}, nil
}

func slotKey(slot string) []byte {
	return []byte(snapshotPrefix + slot)
}

// Load returns the stored blob for slot
func (r *BadgerSnapshotRepository) Load(_ context.Context, slot string) ([]byte, bool, error) {
	var payload []byte
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(slotKey(slot))
		if err != nil {
			return err
		}
		payload, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read slot %q: %w", slot, err)
	}
	return payload, true, nil
}

// Save replaces the blob for slot in a single transaction
func (r *BadgerSnapshotRepository) Save(_ context.Context, slot string, payload []byte) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(slotKey(slot), payload)
	})
	if err != nil {
		return fmt.Errorf("failed to write slot %q: %w", slot, err)
	}
	r.logger.Debug("Saved slot %q (%d bytes)", slot, len(payload))
	return nil
}

// Slots lists the stored slot names
func (r *BadgerSnapshotRepository) Slots() ([]string, error) {
	var slots []string
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(snapshotPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			slots = append(slots, string(it.Item().Key()[len(snapshotPrefix):]))
		}
		return nil
	})
	return slots, err
}

// Close closes the database
func (r *BadgerSnapshotRepository) Close() error {
	return r.db.Close()
}
