package kv

import (
	"fmt"

	"github.com/nestboard-dev/nestboard/internal/counters"
	"github.com/nestboard-dev/nestboard/internal/keys"
	"github.com/nestboard-dev/nestboard/shared/domain"
	internal_errors "github.com/nestboard-dev/nestboard/shared/errors"
	"github.com/nestboard-dev/nestboard/shared/logger"
)

func (s *Storage) CreateBoard(data domain.BoardCreationData) (domain.Board, error) {
	now := s.now()
	return s.createBoard(data, now, 0, nil)
}

// ImportBoard preserves the legacy creation time so the board sorts into its
// historical position, and records the legacy-id mapping.
func (s *Storage) ImportBoard(data domain.BoardImportData) (domain.Board, error) {
	legacy := &domain.LegacyRef{Id: data.LegacyId, ParentId: data.LegacyParentId}
	return s.createBoard(data.BoardCreationData, data.CreatedAt, s.now(), legacy)
}

func (s *Storage) createBoard(data domain.BoardCreationData, createdAt, importedAt domain.Timestamp, legacy *domain.LegacyRef) (domain.Board, error) {
	if data.ParentId != "" {
		ok, err := s.exists(keys.Content(keys.KindBoard, data.ParentId))
		if err != nil {
			return domain.Board{}, err
		}
		if !ok {
			return domain.Board{}, &internal_errors.InvalidReferenceError{Kind: keys.KindBoard, Id: data.ParentId}
		}
	}

	board := domain.Board{
		Envelope: domain.Envelope{
			Id:         s.ids.NewId(createdAt),
			CreatedAt:  createdAt,
			UpdatedAt:  createdAt,
			ImportedAt: importedAt,
			Legacy:     legacy,
		},
		Name:        data.Name,
		Description: data.Description,
		ParentId:    data.ParentId,
	}

	// Primary record first: a failure below leaves a detectable, retryable
	// partial state rather than an invisible one.
	if err := s.putJSON(keys.Content(keys.KindBoard, board.Id), &board); err != nil {
		return domain.Board{}, err
	}
	if err := s.putJSON(keys.BoardParentIndex(board.ParentId, board.Id), board.Summary()); err != nil {
		return domain.Board{}, fmt.Errorf("failed to index board: %w", err)
	}
	if legacy != nil {
		if err := s.db.Put(keys.Legacy(keys.KindBoard, legacy.Id), []byte(board.Id)); err != nil {
			return domain.Board{}, &internal_errors.StoreError{Op: "put", Err: err}
		}
	}
	return board, nil
}

// GetBoard resolves children_ids into full child records and attaches the
// denormalized counters. Soft-deleted boards are found; purged ones are not.
func (s *Storage) GetBoard(id domain.Id) (domain.Board, error) {
	var board domain.Board
	if err := s.getJSON(keys.Content(keys.KindBoard, id), &board); err != nil {
		return domain.Board{}, err
	}

	c, err := s.boardCounters(id)
	if err != nil {
		return domain.Board{}, err
	}
	board.Counters = c

	for _, childId := range board.ChildrenIds {
		var child domain.Board
		err := s.getJSON(keys.Content(keys.KindBoard, childId), &child)
		if internal_errors.IsNotFound(err) {
			// purged child still listed by the parent; skip until the
			// parent's own update drops it
			logger.Log.Warn("board lists missing child", "board", id, "child", childId)
			continue
		}
		if err != nil {
			return domain.Board{}, err
		}
		board.Children = append(board.Children, child)
	}
	return board, nil
}

func (s *Storage) boardCounters(id domain.Id) (*domain.BoardCounters, error) {
	c := &domain.BoardCounters{}
	for field, dst := range map[string]*uint64{
		fieldPostCount:        &c.PostCount,
		fieldThreadCount:      &c.ThreadCount,
		fieldTotalPostCount:   &c.TotalPostCount,
		fieldTotalThreadCount: &c.TotalThreadCount,
	} {
		v, err := s.counters.Value(keys.Metadata(keys.KindBoard, id, field))
		if err != nil {
			return nil, err
		}
		*dst = v
	}

	var err error
	if c.LastPostUsername, err = s.getMeta(keys.KindBoard, id, fieldLastPostUsername); err != nil {
		return nil, err
	}
	if c.LastPostCreatedAt, err = s.getMetaInt(keys.KindBoard, id, fieldLastPostCreatedAt); err != nil {
		return nil, err
	}
	if c.LastThreadTitle, err = s.getMeta(keys.KindBoard, id, fieldLastThreadTitle); err != nil {
		return nil, err
	}
	if c.LastThreadId, err = s.getMeta(keys.KindBoard, id, fieldLastThreadId); err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateBoard overwrites only the requested mutable fields. Setting
// Deleted=false restores a soft-deleted board.
func (s *Storage) UpdateBoard(id domain.Id, upd domain.BoardUpdateData) (domain.Board, error) {
	var board domain.Board
	if err := s.getJSON(keys.Content(keys.KindBoard, id), &board); err != nil {
		return domain.Board{}, err
	}
	oldParent := board.ParentId

	if upd.Name != nil {
		board.Name = *upd.Name
	}
	if upd.Description != nil {
		board.Description = *upd.Description
	}
	if upd.ChildrenIds != nil {
		board.ChildrenIds = *upd.ChildrenIds
	}
	if upd.ParentId != nil && *upd.ParentId != oldParent {
		if *upd.ParentId != "" {
			ok, err := s.exists(keys.Content(keys.KindBoard, *upd.ParentId))
			if err != nil {
				return domain.Board{}, err
			}
			if !ok {
				return domain.Board{}, &internal_errors.InvalidReferenceError{Kind: keys.KindBoard, Id: *upd.ParentId}
			}
		}
		board.ParentId = *upd.ParentId
	}
	if upd.Deleted != nil {
		board.Deleted = *upd.Deleted
	}
	board.UpdatedAt = bump(board.UpdatedAt, s.now())

	if err := s.putJSON(keys.Content(keys.KindBoard, id), &board); err != nil {
		return domain.Board{}, err
	}
	// Retarget the ordering index as part of the same logical update; a
	// stale entry would make the board unlistable.
	if board.ParentId != oldParent {
		if err := s.delete(keys.BoardParentIndex(oldParent, id)); err != nil {
			return domain.Board{}, err
		}
	}
	if err := s.putJSON(keys.BoardParentIndex(board.ParentId, id), board.Summary()); err != nil {
		return domain.Board{}, err
	}
	return board, nil
}

// DeleteBoard soft-deletes: the record stays stored and enumerable, counters
// and children untouched. Re-deleting is allowed and changes nothing more.
func (s *Storage) DeleteBoard(id domain.Id) error {
	deleted := true
	_, err := s.UpdateBoard(id, domain.BoardUpdateData{Deleted: &deleted})
	return err
}

// PurgeBoard permanently removes the board: snapshot into the deleted
// partition, then drop the record, its metadata, its index entry and its
// legacy mapping. Child boards/threads are not cascaded into.
func (s *Storage) PurgeBoard(id domain.Id) error {
	var board domain.Board
	if err := s.getJSON(keys.Content(keys.KindBoard, id), &board); err != nil {
		return err
	}

	if err := s.putJSON(keys.Deleted(keys.KindBoard, id), &board); err != nil {
		return err
	}
	if err := s.delete(keys.Content(keys.KindBoard, id)); err != nil {
		return err
	}
	if err := s.deletePrefix(keys.MetadataPrefix(keys.KindBoard, id)); err != nil {
		return err
	}
	if err := s.delete(keys.BoardParentIndex(board.ParentId, id)); err != nil {
		return err
	}
	if board.Legacy != nil {
		if err := s.delete(keys.Legacy(keys.KindBoard, board.Legacy.Id)); err != nil {
			return err
		}
	}
	return nil
}

// BoardsByParent lists direct children newest-first; parentId == "" lists
// top-level boards.
func (s *Storage) BoardsByParent(parentId domain.Id, page domain.Page) ([]domain.BoardSummary, domain.Id, error) {
	items, next, err := s.scanIndex(keys.BoardParentIndexPrefix(parentId), page)
	if err != nil {
		return nil, "", err
	}
	summaries := make([]domain.BoardSummary, 0, len(items))
	for _, item := range items {
		summary, err := unmarshalSummary[domain.BoardSummary](item)
		if err != nil {
			return nil, "", err
		}
		summaries = append(summaries, summary)
	}
	return summaries, next, nil
}

// boardAncestors walks the parent chain upward from boardId (exclusive).
// Broken links end the walk; a cycle guard caps pathological trees.
func (s *Storage) boardAncestors(boardId domain.Id) ([]domain.Id, error) {
	var chain []domain.Id
	seen := map[domain.Id]bool{boardId: true}
	current := boardId
	for {
		var board domain.Board
		err := s.getJSON(keys.Content(keys.KindBoard, current), &board)
		if internal_errors.IsNotFound(err) {
			return chain, nil
		}
		if err != nil {
			return nil, err
		}
		if board.ParentId == "" || seen[board.ParentId] {
			return chain, nil
		}
		seen[board.ParentId] = true
		chain = append(chain, board.ParentId)
		current = board.ParentId
	}
}

// bumpBoardTotals increments (or decrements) a total_* counter on the board
// and every ancestor.
func (s *Storage) bumpBoardTotals(boardId domain.Id, field string, up bool) error {
	ancestors, err := s.boardAncestors(boardId)
	if err != nil {
		return err
	}
	targets := append([]domain.Id{boardId}, ancestors...)
	for _, id := range targets {
		key := keys.Metadata(keys.KindBoard, id, field)
		if up {
			_, err = s.counters.Increment(counters.ClassBoard, key)
		} else {
			_, err = s.counters.Decrement(counters.ClassBoard, key)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
