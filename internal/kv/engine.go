// Package kv defines the embedded ordered key-value engine contract the
// storage core is built on: atomic single-key put/get/delete plus bounded
// lexicographic range scans. No multi-key transactions, no native counters.
package kv

import "errors"

// ErrKeyNotFound is returned by Get for absent keys. Callers translate it
// into the domain NotFound error; it never escapes the storage layer.
var ErrKeyNotFound = errors.New("key not found")

// Item is one (key, value) pair produced by a scan.
type Item struct {
	Key   []byte
	Value []byte
}

type Engine interface {
	Put(key, value []byte) error
	Get(key []byte) ([]byte, error)
	Delete(key []byte) error

	// Scan streams items with start <= key < end in lexicographic order,
	// newest-first when reverse is set. limit <= 0 means unbounded.
	Scan(start, end []byte, reverse bool, limit int) ([]Item, error)

	Close() error
}
