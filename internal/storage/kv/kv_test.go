package kv

import (
	"testing"

	"github.com/stretchr/testify/require"

	engine "github.com/nestboard-dev/nestboard/internal/kv"
	"github.com/nestboard-dev/nestboard/shared/config"
	"github.com/nestboard-dev/nestboard/shared/domain"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	db, err := engine.Open(config.Store{Path: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db, &config.Public{PageLimit: 10})
}

// tick replaces the wall clock with a strictly increasing counter so records
// created back-to-back get distinct, ordered timestamps.
func tick(s *Storage) {
	ts := domain.Timestamp(1700000000000)
	s.now = func() domain.Timestamp {
		ts++
		return ts
	}
}

func mustBoard(t *testing.T, s *Storage, name string, parentId domain.Id) domain.Board {
	t.Helper()
	board, err := s.CreateBoard(domain.BoardCreationData{Name: name, ParentId: parentId})
	require.NoError(t, err)
	return board
}

func mustUser(t *testing.T, s *Storage, username string) domain.User {
	t.Helper()
	user, err := s.CreateUser(domain.UserCreationData{
		Username: username,
		Email:    username + "@example.com",
		PassHash: "$2a$10$x",
	})
	require.NoError(t, err)
	return user
}

func mustThread(t *testing.T, s *Storage, boardId, userId domain.Id, title string) domain.Thread {
	t.Helper()
	thread, err := s.CreateThread(domain.ThreadCreationData{
		BoardId: boardId,
		Op:      domain.PostCreationData{UserId: userId, Title: title, Body: "starting post"},
	})
	require.NoError(t, err)
	return thread
}

func mustPost(t *testing.T, s *Storage, threadId, userId domain.Id, body string) domain.Post {
	t.Helper()
	post, err := s.CreatePost(domain.PostCreationData{ThreadId: threadId, UserId: userId, Body: body})
	require.NoError(t, err)
	return post
}
