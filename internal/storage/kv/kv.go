// Package kv implements the lifecycle storage core over the embedded
// ordered key-value engine: key-space layout, denormalized counters,
// soft-delete/purge state machine, legacy-id import mapping and cursor
// pagination. Payloads arrive already validated; text arrives already
// sanitized.
package kv

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/nestboard-dev/nestboard/internal/counters"
	engine "github.com/nestboard-dev/nestboard/internal/kv"
	"github.com/nestboard-dev/nestboard/internal/keys"
	"github.com/nestboard-dev/nestboard/shared/config"
	"github.com/nestboard-dev/nestboard/shared/domain"
	internal_errors "github.com/nestboard-dev/nestboard/shared/errors"
)

// Metadata field names. Counters are decimal, timestamps are unix millis.
const (
	fieldPostCount         = "post_count"
	fieldThreadCount       = "thread_count"
	fieldTotalPostCount    = "total_post_count"
	fieldTotalThreadCount  = "total_thread_count"
	fieldViewCount         = "view_count"
	fieldTitle             = "title"
	fieldFirstPostId       = "first_post_id"
	fieldUsername          = "username"
	fieldLastPostUsername  = "last_post_username"
	fieldLastPostCreatedAt = "last_post_created_at"
	fieldLastThreadTitle   = "last_thread_title"
	fieldLastThreadId      = "last_thread_id"
)

type Storage struct {
	db       engine.Engine
	counters *counters.Engine
	ids      *keys.Generator
	cfg      *config.Public

	// now is overridable so tests control timestamps.
	now func() domain.Timestamp
}

func New(db engine.Engine, cfg *config.Public) *Storage {
	return &Storage{
		db:       db,
		counters: counters.New(db),
		ids:      keys.NewGenerator(),
		cfg:      cfg,
		now:      func() domain.Timestamp { return time.Now().UnixMilli() },
	}
}

func (s *Storage) pageLimit(page domain.Page) int {
	if page.Limit > 0 {
		return page.Limit
	}
	if s.cfg != nil && s.cfg.PageLimit > 0 {
		return s.cfg.PageLimit
	}
	return domain.DefaultPageLimit
}

// putJSON writes one record; engine failures surface as StoreError.
func (s *Storage) putJSON(key []byte, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	if err := s.db.Put(key, raw); err != nil {
		return &internal_errors.StoreError{Op: "put", Err: err}
	}
	return nil
}

// getJSON reads one record. Absent keys surface as NotFound; soft-deleted
// records are regular records at this level.
func (s *Storage) getJSON(key []byte, out any) error {
	raw, err := s.db.Get(key)
	if err == engine.ErrKeyNotFound {
		return internal_errors.NotFound
	}
	if err != nil {
		return &internal_errors.StoreError{Op: "get", Err: err}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to unmarshal record: %w", err)
	}
	return nil
}

func (s *Storage) delete(key []byte) error {
	if err := s.db.Delete(key); err != nil {
		return &internal_errors.StoreError{Op: "delete", Err: err}
	}
	return nil
}

func (s *Storage) exists(key []byte) (bool, error) {
	_, err := s.db.Get(key)
	if err == engine.ErrKeyNotFound {
		return false, nil
	}
	if err != nil {
		return false, &internal_errors.StoreError{Op: "get", Err: err}
	}
	return true, nil
}

func (s *Storage) putMeta(kind, id, field, value string) error {
	if err := s.db.Put(keys.Metadata(kind, id, field), []byte(value)); err != nil {
		return &internal_errors.StoreError{Op: "put", Err: err}
	}
	return nil
}

// getMeta returns ("", nil) for absent fields.
func (s *Storage) getMeta(kind, id, field string) (string, error) {
	raw, err := s.db.Get(keys.Metadata(kind, id, field))
	if err == engine.ErrKeyNotFound {
		return "", nil
	}
	if err != nil {
		return "", &internal_errors.StoreError{Op: "get", Err: err}
	}
	return string(raw), nil
}

func (s *Storage) getMetaInt(kind, id, field string) (int64, error) {
	raw, err := s.getMeta(kind, id, field)
	if err != nil || raw == "" {
		return 0, err
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt metadata %s/%s/%s: %w", kind, id, field, err)
	}
	return v, nil
}

// deletePrefix removes every key under prefix. Used by purge for metadata
// and version slots.
func (s *Storage) deletePrefix(prefix []byte) error {
	items, err := s.db.Scan(prefix, keys.PrefixEnd(prefix), false, 0)
	if err != nil {
		return &internal_errors.StoreError{Op: "scan", Err: err}
	}
	for _, item := range items {
		if err := s.delete(item.Key); err != nil {
			return err
		}
	}
	return nil
}

// bump keeps updated_at monotonically non-decreasing even when the wall
// clock steps backwards.
func bump(current domain.Timestamp, now domain.Timestamp) domain.Timestamp {
	if now > current {
		return now
	}
	return current
}
