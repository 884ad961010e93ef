package kv

import (
	"bytes"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/nestboard-dev/nestboard/shared/config"
	"github.com/nestboard-dev/nestboard/shared/logger"
	"github.com/nestboard-dev/nestboard/shared/metrics"
)

// BadgerEngine adapts a Badger instance to the Engine contract. Badger keys
// are kept raw; partition layout is the caller's concern.
type BadgerEngine struct {
	db *badger.DB
}

func Open(cfg config.Store) (*BadgerEngine, error) {
	if err := checkFreeSpace(cfg.Path, cfg.MinimumFreeSpace); err != nil {
		return nil, fmt.Errorf("store preflight failed: %w", err)
	}

	opts := badger.DefaultOptions(cfg.Path)
	opts.Logger = nil
	opts.ValueLogFileSize = 1024 * 1024 * 100
	opts.SyncWrites = false

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger at %s: %w", cfg.Path, err)
	}
	logger.Log.Info("opened key-value store", "path", cfg.Path)

	return &BadgerEngine{db: db}, nil
}

func (e *BadgerEngine) Put(key, value []byte) error {
	err := e.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
	metrics.ObserveEngineOp("put", err)
	return err
}

func (e *BadgerEngine) Get(key []byte) ([]byte, error) {
	var value []byte
	err := e.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err == badger.ErrKeyNotFound {
		metrics.ObserveEngineOp("get", nil) // a miss is not an engine failure
		return nil, ErrKeyNotFound
	}
	metrics.ObserveEngineOp("get", err)
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (e *BadgerEngine) Delete(key []byte) error {
	err := e.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
	metrics.ObserveEngineOp("delete", err)
	return err
}

// Scan returns items with start <= key < end. With reverse set, iteration
// begins just below end and walks down towards start.
func (e *BadgerEngine) Scan(start, end []byte, reverse bool, limit int) ([]Item, error) {
	var out []Item
	err := e.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = reverse
		it := txn.NewIterator(opts)
		defer it.Close()

		seek := start
		if reverse {
			seek = end
		}
		for it.Seek(seek); it.Valid(); it.Next() {
			key := it.Item().KeyCopy(nil)
			if reverse {
				if bytes.Compare(key, end) >= 0 {
					continue // Seek lands on end itself when that key exists
				}
				if bytes.Compare(key, start) < 0 {
					break
				}
			} else if bytes.Compare(key, end) >= 0 {
				break
			}
			value, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			out = append(out, Item{Key: key, Value: value})
			if limit > 0 && len(out) >= limit {
				break
			}
		}
		return nil
	})
	metrics.ObserveEngineOp("scan", err)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (e *BadgerEngine) Close() error {
	if err := e.db.Sync(); err != nil {
		logger.Log.Error("failed to sync store before close", "error", err)
	}
	return e.db.Close()
}
