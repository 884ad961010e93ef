package kv

import (
	engine "github.com/nestboard-dev/nestboard/internal/kv"
	"github.com/nestboard-dev/nestboard/internal/keys"
	"github.com/nestboard-dev/nestboard/shared/domain"
	internal_errors "github.com/nestboard-dev/nestboard/shared/errors"
)

// Legacy lookups resolve an old-system numeric id through the legacy
// partition and then load the record normally. The mapping exists exactly
// while the entity carries a legacy id and has not been purged, so a purged
// entity is NotFound by either id.

func (s *Storage) legacyId(kind string, legacyId int64) (domain.Id, error) {
	id, err := s.db.Get(keys.Legacy(kind, legacyId))
	if err == engine.ErrKeyNotFound {
		return "", internal_errors.NotFound
	}
	if err != nil {
		return "", &internal_errors.StoreError{Op: "get", Err: err}
	}
	return string(id), nil
}

func (s *Storage) GetBoardByLegacyId(legacy int64) (domain.Board, error) {
	id, err := s.legacyId(keys.KindBoard, legacy)
	if err != nil {
		return domain.Board{}, err
	}
	return s.GetBoard(id)
}

func (s *Storage) GetThreadByLegacyId(legacy int64) (domain.Thread, error) {
	id, err := s.legacyId(keys.KindThread, legacy)
	if err != nil {
		return domain.Thread{}, err
	}
	return s.GetThread(id)
}

func (s *Storage) GetPostByLegacyId(legacy int64) (domain.Post, error) {
	id, err := s.legacyId(keys.KindPost, legacy)
	if err != nil {
		return domain.Post{}, err
	}
	return s.GetPost(id)
}

func (s *Storage) GetUserByLegacyId(legacy int64) (domain.User, error) {
	id, err := s.legacyId(keys.KindUser, legacy)
	if err != nil {
		return domain.User{}, err
	}
	return s.GetUser(id)
}
