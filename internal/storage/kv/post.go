package kv

import (
	"fmt"
	"strconv"

	"github.com/nestboard-dev/nestboard/internal/counters"
	"github.com/nestboard-dev/nestboard/internal/keys"
	"github.com/nestboard-dev/nestboard/shared/domain"
	internal_errors "github.com/nestboard-dev/nestboard/shared/errors"
)

// CreatePost appends a reply to an existing thread, incrementing the
// thread's post_count and the owning board's post_count plus the rollup
// totals up the ancestor chain.
func (s *Storage) CreatePost(data domain.PostCreationData) (domain.Post, error) {
	return s.createReply(data, s.now(), 0, nil)
}

func (s *Storage) ImportPost(data domain.PostImportData) (domain.Post, error) {
	legacy := &domain.LegacyRef{Id: data.LegacyId, ParentId: data.LegacyParentId}
	return s.createReply(data.PostCreationData, data.CreatedAt, s.now(), legacy)
}

func (s *Storage) createReply(data domain.PostCreationData, createdAt, importedAt domain.Timestamp, legacy *domain.LegacyRef) (domain.Post, error) {
	ok, err := s.exists(keys.Content(keys.KindThread, data.ThreadId))
	if err != nil {
		return domain.Post{}, err
	}
	if !ok {
		return domain.Post{}, &internal_errors.InvalidReferenceError{Kind: keys.KindThread, Id: data.ThreadId}
	}
	return s.createPost(data, "", createdAt, importedAt, legacy)
}

// createPost is the shared write path for replies and thread-starting posts.
// opBoardId is set only for the starting post; it lands on the record as the
// discriminator and routes the board-side counter updates without a second
// thread read. Write order: content record, ordering index, counters and
// derived metadata, legacy mapping.
func (s *Storage) createPost(data domain.PostCreationData, opBoardId domain.Id, createdAt, importedAt domain.Timestamp, legacy *domain.LegacyRef) (domain.Post, error) {
	post := domain.Post{
		Envelope: domain.Envelope{
			Id:         s.ids.NewId(createdAt),
			CreatedAt:  createdAt,
			UpdatedAt:  createdAt,
			ImportedAt: importedAt,
			Legacy:     legacy,
		},
		ThreadId: data.ThreadId,
		BoardId:  opBoardId,
		UserId:   data.UserId,
		Title:    data.Title,
		Body:     data.Body,
		Version:  1,
	}

	if err := s.putJSON(keys.Content(keys.KindPost, post.Id), &post); err != nil {
		return domain.Post{}, err
	}
	summary := domain.PostSummary{Id: post.Id, Title: post.Title, UserId: post.UserId, CreatedAt: createdAt}
	if err := s.putJSON(keys.PostThreadIndex(post.ThreadId, post.Id), summary); err != nil {
		return domain.Post{}, fmt.Errorf("failed to index post: %w", err)
	}

	if _, err := s.counters.Increment(counters.ClassThread, keys.Metadata(keys.KindThread, post.ThreadId, fieldPostCount)); err != nil {
		return domain.Post{}, err
	}

	username := s.usernameOf(post.UserId)
	err := s.counters.WithLock(counters.ClassThread, func() error {
		if opBoardId != "" {
			// first post seeds the thread's display metadata
			if err := s.putMeta(keys.KindThread, post.ThreadId, fieldTitle, post.Title); err != nil {
				return err
			}
			if err := s.putMeta(keys.KindThread, post.ThreadId, fieldFirstPostId, post.Id); err != nil {
				return err
			}
			if err := s.putMeta(keys.KindThread, post.ThreadId, fieldUsername, username); err != nil {
				return err
			}
		}
		if err := s.putMeta(keys.KindThread, post.ThreadId, fieldLastPostUsername, username); err != nil {
			return err
		}
		return s.putMeta(keys.KindThread, post.ThreadId, fieldLastPostCreatedAt, strconv.FormatInt(createdAt, 10))
	})
	if err != nil {
		return domain.Post{}, err
	}

	boardId := opBoardId
	if boardId == "" {
		var thread domain.Thread
		if err := s.getJSON(keys.Content(keys.KindThread, post.ThreadId), &thread); err != nil {
			return domain.Post{}, err
		}
		boardId = thread.BoardId
	}
	if _, err := s.counters.Increment(counters.ClassBoard, keys.Metadata(keys.KindBoard, boardId, fieldPostCount)); err != nil {
		return domain.Post{}, err
	}
	if err := s.bumpBoardTotals(boardId, fieldTotalPostCount, true); err != nil {
		return domain.Post{}, err
	}
	err = s.counters.WithLock(counters.ClassBoard, func() error {
		if err := s.putMeta(keys.KindBoard, boardId, fieldLastPostUsername, username); err != nil {
			return err
		}
		return s.putMeta(keys.KindBoard, boardId, fieldLastPostCreatedAt, strconv.FormatInt(createdAt, 10))
	})
	if err != nil {
		return domain.Post{}, err
	}

	if legacy != nil {
		if err := s.db.Put(keys.Legacy(keys.KindPost, legacy.Id), []byte(post.Id)); err != nil {
			return domain.Post{}, &internal_errors.StoreError{Op: "put", Err: err}
		}
	}
	return post, nil
}

// usernameOf resolves a user's username for denormalized display fields.
// Best effort: a missing author (purged, or a legacy import gap) reads as
// empty rather than failing the write.
func (s *Storage) usernameOf(userId domain.Id) domain.Username {
	var user domain.User
	if err := s.getJSON(keys.Content(keys.KindUser, userId), &user); err != nil {
		return ""
	}
	return user.Username
}

// GetPost attaches the author's public projection when the author still
// exists.
func (s *Storage) GetPost(id domain.Id) (domain.Post, error) {
	var post domain.Post
	if err := s.getJSON(keys.Content(keys.KindPost, id), &post); err != nil {
		return domain.Post{}, err
	}
	var user domain.User
	if err := s.getJSON(keys.Content(keys.KindUser, post.UserId), &user); err == nil {
		public := user.Public()
		post.Author = &public
	}
	return post, nil
}

// UpdatePost snapshots the superseded revision under its version slot, then
// overwrites the primary record in place with a bumped version.
func (s *Storage) UpdatePost(id domain.Id, upd domain.PostUpdateData) (domain.Post, error) {
	var post domain.Post
	if err := s.getJSON(keys.Content(keys.KindPost, id), &post); err != nil {
		return domain.Post{}, err
	}

	if err := s.putJSON(keys.PostVersion(id, post.Version), &post); err != nil {
		return domain.Post{}, fmt.Errorf("failed to snapshot post revision: %w", err)
	}

	if upd.Title != nil {
		post.Title = *upd.Title
	}
	if upd.Body != nil {
		post.Body = *upd.Body
	}
	if upd.Deleted != nil {
		post.Deleted = *upd.Deleted
	}
	post.Version++
	post.UpdatedAt = bump(post.UpdatedAt, s.now())

	if err := s.putJSON(keys.Content(keys.KindPost, id), &post); err != nil {
		return domain.Post{}, err
	}
	return post, nil
}

// PostVersions returns the superseded revisions of a post, oldest first.
// The current revision lives on the primary record only.
func (s *Storage) PostVersions(id domain.Id) ([]domain.Post, error) {
	prefix := keys.PostVersionPrefix(id)
	items, err := s.db.Scan(prefix, keys.PrefixEnd(prefix), false, 0)
	if err != nil {
		return nil, &internal_errors.StoreError{Op: "scan", Err: err}
	}
	versions := make([]domain.Post, 0, len(items))
	for _, item := range items {
		version, err := unmarshalSummary[domain.Post](item)
		if err != nil {
			return nil, err
		}
		versions = append(versions, version)
	}
	return versions, nil
}

func (s *Storage) DeletePost(id domain.Id) error {
	var post domain.Post
	if err := s.getJSON(keys.Content(keys.KindPost, id), &post); err != nil {
		return err
	}
	post.Deleted = true
	post.UpdatedAt = bump(post.UpdatedAt, s.now())
	return s.putJSON(keys.Content(keys.KindPost, id), &post)
}

// PurgePost removes the post, its version history and its index entry, and
// reverses its contribution to the thread and board counters. The thread's
// derived last-post fields are left as-is; they describe history, not
// current state, and the next post overwrites them.
func (s *Storage) PurgePost(id domain.Id) error {
	var post domain.Post
	if err := s.getJSON(keys.Content(keys.KindPost, id), &post); err != nil {
		return err
	}

	if err := s.putJSON(keys.Deleted(keys.KindPost, id), &post); err != nil {
		return err
	}
	if err := s.delete(keys.Content(keys.KindPost, id)); err != nil {
		return err
	}
	if err := s.deletePrefix(keys.PostVersionPrefix(id)); err != nil {
		return err
	}
	if err := s.delete(keys.PostThreadIndex(post.ThreadId, id)); err != nil {
		return err
	}
	if post.Legacy != nil {
		if err := s.delete(keys.Legacy(keys.KindPost, post.Legacy.Id)); err != nil {
			return err
		}
	}

	if _, err := s.counters.Decrement(counters.ClassThread, keys.Metadata(keys.KindThread, post.ThreadId, fieldPostCount)); err != nil {
		return err
	}
	boardId := post.BoardId
	if boardId == "" {
		var thread domain.Thread
		err := s.getJSON(keys.Content(keys.KindThread, post.ThreadId), &thread)
		if internal_errors.IsNotFound(err) {
			return nil // thread already purged; its board counters went with it
		}
		if err != nil {
			return err
		}
		boardId = thread.BoardId
	}
	if _, err := s.counters.Decrement(counters.ClassBoard, keys.Metadata(keys.KindBoard, boardId, fieldPostCount)); err != nil {
		return err
	}
	return s.bumpBoardTotals(boardId, fieldTotalPostCount, false)
}

// PostsByThread lists a thread's posts newest-first as light projections.
func (s *Storage) PostsByThread(threadId domain.Id, page domain.Page) ([]domain.PostSummary, domain.Id, error) {
	items, next, err := s.scanIndex(keys.PostThreadIndexPrefix(threadId), page)
	if err != nil {
		return nil, "", err
	}
	summaries := make([]domain.PostSummary, 0, len(items))
	for _, item := range items {
		summary, err := unmarshalSummary[domain.PostSummary](item)
		if err != nil {
			return nil, "", err
		}
		summaries = append(summaries, summary)
	}
	return summaries, next, nil
}
