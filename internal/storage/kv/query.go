package kv

import (
	"encoding/json"
	"fmt"

	engine "github.com/nestboard-dev/nestboard/internal/kv"
	"github.com/nestboard-dev/nestboard/internal/keys"
	"github.com/nestboard-dev/nestboard/shared/domain"
	internal_errors "github.com/nestboard-dev/nestboard/shared/errors"
)

// scanIndex pages through an ordering-index prefix newest-first. The scan is
// bounded by [prefix, prefix+cursor): child ids lead with a time-ordered
// component, so byte order under the prefix is creation order and the cursor
// (the previous page's last id) is an exclusive upper bound. Scans take no
// locks; listings are approximate paginated views, not transactional reads.
func (s *Storage) scanIndex(prefix []byte, page domain.Page) ([]engine.Item, domain.Id, error) {
	limit := s.pageLimit(page)

	end := keys.PrefixEnd(prefix)
	if page.Cursor != "" {
		end = append(append([]byte{}, prefix...), page.Cursor...)
	}

	items, err := s.db.Scan(prefix, end, true, limit)
	if err != nil {
		return nil, "", &internal_errors.StoreError{Op: "scan", Err: err}
	}

	var next domain.Id
	if len(items) == limit {
		lastKey := items[len(items)-1].Key
		next = string(lastKey[len(prefix):])
	}
	return items, next, nil
}

func unmarshalSummary[T any](item engine.Item) (T, error) {
	var out T
	if err := json.Unmarshal(item.Value, &out); err != nil {
		return out, fmt.Errorf("corrupt index entry %q: %w", item.Key, err)
	}
	return out, nil
}
