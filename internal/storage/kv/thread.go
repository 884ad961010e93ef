package kv

import (
	"fmt"
	"strconv"

	"github.com/nestboard-dev/nestboard/internal/counters"
	"github.com/nestboard-dev/nestboard/internal/keys"
	"github.com/nestboard-dev/nestboard/shared/domain"
	internal_errors "github.com/nestboard-dev/nestboard/shared/errors"
)

// CreateThread verifies the board, writes the thread, bumps the board's
// thread_count plus the rollup totals up the ancestor chain, refreshes the
// board's last-thread fields, and creates the starting post.
func (s *Storage) CreateThread(data domain.ThreadCreationData) (domain.Thread, error) {
	now := s.now()
	return s.createThread(data, now, 0, nil)
}

func (s *Storage) ImportThread(data domain.ThreadImportData) (domain.Thread, error) {
	legacy := &domain.LegacyRef{Id: data.LegacyId, ParentId: data.LegacyParentId}
	return s.createThread(data.ThreadCreationData, data.CreatedAt, s.now(), legacy)
}

func (s *Storage) createThread(data domain.ThreadCreationData, createdAt, importedAt domain.Timestamp, legacy *domain.LegacyRef) (domain.Thread, error) {
	ok, err := s.exists(keys.Content(keys.KindBoard, data.BoardId))
	if err != nil {
		return domain.Thread{}, err
	}
	if !ok {
		return domain.Thread{}, &internal_errors.InvalidReferenceError{Kind: keys.KindBoard, Id: data.BoardId}
	}

	thread := domain.Thread{
		Envelope: domain.Envelope{
			Id:         s.ids.NewId(createdAt),
			CreatedAt:  createdAt,
			UpdatedAt:  createdAt,
			ImportedAt: importedAt,
			Legacy:     legacy,
		},
		BoardId: data.BoardId,
	}

	if err := s.putJSON(keys.Content(keys.KindThread, thread.Id), &thread); err != nil {
		return domain.Thread{}, err
	}
	summary := domain.ThreadSummary{
		Id:        thread.Id,
		Title:     data.Op.Title,
		Username:  s.usernameOf(data.Op.UserId),
		CreatedAt: createdAt,
	}
	if err := s.putJSON(keys.ThreadBoardIndex(data.BoardId, thread.Id), summary); err != nil {
		return domain.Thread{}, fmt.Errorf("failed to index thread: %w", err)
	}

	if _, err := s.counters.Increment(counters.ClassBoard, keys.Metadata(keys.KindBoard, data.BoardId, fieldThreadCount)); err != nil {
		return domain.Thread{}, err
	}
	if err := s.bumpBoardTotals(data.BoardId, fieldTotalThreadCount, true); err != nil {
		return domain.Thread{}, err
	}
	err = s.counters.WithLock(counters.ClassBoard, func() error {
		if err := s.putMeta(keys.KindBoard, data.BoardId, fieldLastThreadTitle, data.Op.Title); err != nil {
			return err
		}
		return s.putMeta(keys.KindBoard, data.BoardId, fieldLastThreadId, thread.Id)
	})
	if err != nil {
		return domain.Thread{}, err
	}

	// The starting post carries board_id as its discriminator and seeds the
	// thread's derived display metadata.
	op := data.Op
	op.ThreadId = thread.Id
	if _, err := s.createPost(op, data.BoardId, createdAt, importedAt, nil); err != nil {
		return domain.Thread{}, fmt.Errorf("failed to create starting post: %w", err)
	}

	if legacy != nil {
		if err := s.db.Put(keys.Legacy(keys.KindThread, legacy.Id), []byte(thread.Id)); err != nil {
			return domain.Thread{}, &internal_errors.StoreError{Op: "put", Err: err}
		}
	}
	return thread, nil
}

// GetThread attaches the starter-derived display fields and counters from
// the metadata partition.
func (s *Storage) GetThread(id domain.Id) (domain.Thread, error) {
	var thread domain.Thread
	if err := s.getJSON(keys.Content(keys.KindThread, id), &thread); err != nil {
		return domain.Thread{}, err
	}

	meta := &domain.ThreadMeta{}
	var err error
	if meta.Title, err = s.getMeta(keys.KindThread, id, fieldTitle); err != nil {
		return domain.Thread{}, err
	}
	if meta.FirstPostId, err = s.getMeta(keys.KindThread, id, fieldFirstPostId); err != nil {
		return domain.Thread{}, err
	}
	if meta.Username, err = s.getMeta(keys.KindThread, id, fieldUsername); err != nil {
		return domain.Thread{}, err
	}
	if meta.LastPostUsername, err = s.getMeta(keys.KindThread, id, fieldLastPostUsername); err != nil {
		return domain.Thread{}, err
	}
	if meta.LastPostCreatedAt, err = s.getMetaInt(keys.KindThread, id, fieldLastPostCreatedAt); err != nil {
		return domain.Thread{}, err
	}
	if meta.PostCount, err = s.counters.Value(keys.Metadata(keys.KindThread, id, fieldPostCount)); err != nil {
		return domain.Thread{}, err
	}
	if meta.ViewCount, err = s.counters.Value(keys.Metadata(keys.KindThread, id, fieldViewCount)); err != nil {
		return domain.Thread{}, err
	}
	thread.Meta = meta
	return thread, nil
}

func (s *Storage) UpdateThread(id domain.Id, upd domain.ThreadUpdateData) (domain.Thread, error) {
	var thread domain.Thread
	if err := s.getJSON(keys.Content(keys.KindThread, id), &thread); err != nil {
		return domain.Thread{}, err
	}
	if upd.Deleted != nil {
		thread.Deleted = *upd.Deleted
	}
	thread.UpdatedAt = bump(thread.UpdatedAt, s.now())
	if err := s.putJSON(keys.Content(keys.KindThread, id), &thread); err != nil {
		return domain.Thread{}, err
	}
	return thread, nil
}

func (s *Storage) DeleteThread(id domain.Id) error {
	deleted := true
	_, err := s.UpdateThread(id, domain.ThreadUpdateData{Deleted: &deleted})
	return err
}

// PurgeThread removes the thread from every active partition and reverses
// its contribution to the owning board's thread counters. Its posts are NOT
// cascaded into: their records, index entries and metadata stay until each
// post is purged independently.
func (s *Storage) PurgeThread(id domain.Id) error {
	var thread domain.Thread
	if err := s.getJSON(keys.Content(keys.KindThread, id), &thread); err != nil {
		return err
	}

	if err := s.putJSON(keys.Deleted(keys.KindThread, id), &thread); err != nil {
		return err
	}
	if err := s.delete(keys.Content(keys.KindThread, id)); err != nil {
		return err
	}
	if err := s.deletePrefix(keys.MetadataPrefix(keys.KindThread, id)); err != nil {
		return err
	}
	if err := s.delete(keys.ThreadBoardIndex(thread.BoardId, id)); err != nil {
		return err
	}
	if thread.Legacy != nil {
		if err := s.delete(keys.Legacy(keys.KindThread, thread.Legacy.Id)); err != nil {
			return err
		}
	}

	if _, err := s.counters.Decrement(counters.ClassBoard, keys.Metadata(keys.KindBoard, thread.BoardId, fieldThreadCount)); err != nil {
		return err
	}
	return s.bumpBoardTotals(thread.BoardId, fieldTotalThreadCount, false)
}

// ThreadsByBoard lists threads newest-first with post_count attached from
// metadata, so listing never loads full records.
func (s *Storage) ThreadsByBoard(boardId domain.Id, page domain.Page) ([]domain.ThreadSummary, domain.Id, error) {
	items, next, err := s.scanIndex(keys.ThreadBoardIndexPrefix(boardId), page)
	if err != nil {
		return nil, "", err
	}
	summaries := make([]domain.ThreadSummary, 0, len(items))
	for _, item := range items {
		summary, err := unmarshalSummary[domain.ThreadSummary](item)
		if err != nil {
			return nil, "", err
		}
		summary.PostCount, err = s.counters.Value(keys.Metadata(keys.KindThread, summary.Id, fieldPostCount))
		if err != nil {
			return nil, "", err
		}
		summaries = append(summaries, summary)
	}
	return summaries, next, nil
}

// RecordThreadView bumps the thread's view_count and stamps the viewer's
// per-user views map. The views map shares the user-class gate with the
// other user mutations.
func (s *Storage) RecordThreadView(userId, threadId domain.Id) error {
	for kind, id := range map[string]domain.Id{keys.KindThread: threadId, keys.KindUser: userId} {
		ok, err := s.exists(keys.Content(kind, id))
		if err != nil {
			return err
		}
		if !ok {
			return internal_errors.NotFound
		}
	}

	if _, err := s.counters.Increment(counters.ClassThread, keys.Metadata(keys.KindThread, threadId, fieldViewCount)); err != nil {
		return err
	}
	now := s.now()
	return s.counters.WithLock(counters.ClassUser, func() error {
		if err := s.db.Put(keys.UserView(userId, threadId), []byte(strconv.FormatInt(now, 10))); err != nil {
			return &internal_errors.StoreError{Op: "put", Err: err}
		}
		return nil
	})
}
