package kv

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nestboard-dev/nestboard/internal/keys"
	"github.com/nestboard-dev/nestboard/shared/domain"
	internal_errors "github.com/nestboard-dev/nestboard/shared/errors"
)

func TestCreateThread(t *testing.T) {
	s := newTestStorage(t)
	tick(s)

	board := mustBoard(t, s, "b", "")
	user := mustUser(t, s, "alice")
	thread := mustThread(t, s, board.Id, user.Id, "first thread")

	got, err := s.GetThread(thread.Id)
	require.NoError(t, err)
	assert.Equal(t, board.Id, got.BoardId)
	require.NotNil(t, got.Meta)
	assert.Equal(t, "first thread", got.Meta.Title)
	assert.Equal(t, "alice", got.Meta.Username)
	assert.NotEmpty(t, got.Meta.FirstPostId)
	assert.Equal(t, uint64(1), got.Meta.PostCount, "the starting post counts")
	assert.Zero(t, got.Meta.ViewCount)

	// the starting post exists, carries the board id and is flagged as such
	op, err := s.GetPost(got.Meta.FirstPostId)
	require.NoError(t, err)
	assert.True(t, op.IsOp())
	assert.Equal(t, board.Id, op.BoardId)
	assert.Equal(t, thread.Id, op.ThreadId)
}

func TestCreateThreadUnknownBoard(t *testing.T) {
	s := newTestStorage(t)
	_, err := s.CreateThread(domain.ThreadCreationData{
		BoardId: "000000000000-00000000",
		Op:      domain.PostCreationData{Body: "x"},
	})
	assert.True(t, internal_errors.Is[*internal_errors.InvalidReferenceError](err))
}

func TestThreadSoftDeleteIsReversible(t *testing.T) {
	s := newTestStorage(t)
	tick(s)

	board := mustBoard(t, s, "b", "")
	user := mustUser(t, s, "alice")
	thread := mustThread(t, s, board.Id, user.Id, "t")

	require.NoError(t, s.DeleteThread(thread.Id))
	got, err := s.GetThread(thread.Id)
	require.NoError(t, err)
	assert.True(t, got.Deleted)
	assert.Equal(t, uint64(1), got.Meta.PostCount, "soft delete leaves counters alone")

	// still enumerable under the board
	listed, _, err := s.ThreadsByBoard(board.Id, domain.Page{})
	require.NoError(t, err)
	assert.Len(t, listed, 1)

	restore := false
	restored, err := s.UpdateThread(thread.Id, domain.ThreadUpdateData{Deleted: &restore})
	require.NoError(t, err)
	assert.False(t, restored.Deleted)
}

func TestPurgeThreadDoesNotCascadeIntoPosts(t *testing.T) {
	s := newTestStorage(t)
	tick(s)

	board := mustBoard(t, s, "b", "")
	user := mustUser(t, s, "alice")
	thread := mustThread(t, s, board.Id, user.Id, "t")
	reply := mustPost(t, s, thread.Id, user.Id, "reply")

	require.NoError(t, s.PurgeThread(thread.Id))

	_, err := s.GetThread(thread.Id)
	assert.True(t, internal_errors.IsNotFound(err))

	listed, _, err := s.ThreadsByBoard(board.Id, domain.Page{})
	require.NoError(t, err)
	assert.Empty(t, listed)

	// the reply is untouched until purged on its own
	got, err := s.GetPost(reply.Id)
	require.NoError(t, err)
	assert.Equal(t, "reply", got.Body)

	b, err := s.GetBoard(board.Id)
	require.NoError(t, err)
	assert.Zero(t, b.Counters.ThreadCount)
	assert.Zero(t, b.Counters.TotalThreadCount)

	// purging the orphaned reply reverses its thread counter only; the
	// board side went away with the thread
	require.NoError(t, s.PurgePost(reply.Id))
}

func TestPurgeImportedThreadDropsLegacyMapping(t *testing.T) {
	s := newTestStorage(t)
	tick(s)

	board := mustBoard(t, s, "b", "")
	user := mustUser(t, s, "alice")
	thread, err := s.ImportThread(domain.ThreadImportData{
		ThreadCreationData: domain.ThreadCreationData{
			BoardId: board.Id,
			Op:      domain.PostCreationData{UserId: user.Id, Title: "old thread", Body: "op"},
		},
		LegacyId:       301,
		LegacyParentId: 12,
		CreatedAt:      1500000000000,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.Timestamp(1500000000000), thread.CreatedAt)

	got, err := s.GetThreadByLegacyId(301)
	require.NoError(t, err)
	assert.Equal(t, thread.Id, got.Id)

	require.NoError(t, s.PurgeThread(thread.Id))
	_, err = s.GetThreadByLegacyId(301)
	assert.True(t, internal_errors.IsNotFound(err))

	raw, err := s.db.Get(keys.Deleted(keys.KindThread, thread.Id))
	require.NoError(t, err)
	assert.NotEmpty(t, raw)
}

func TestThreadsByBoard(t *testing.T) {
	s := newTestStorage(t)
	tick(s)

	board := mustBoard(t, s, "b", "")
	user := mustUser(t, s, "alice")

	var ids []domain.Id
	for i := 0; i < 3; i++ {
		th := mustThread(t, s, board.Id, user.Id, fmt.Sprintf("thread-%d", i))
		ids = append(ids, th.Id)
	}
	mustPost(t, s, ids[2], user.Id, "extra reply")

	listed, next, err := s.ThreadsByBoard(board.Id, domain.Page{})
	require.NoError(t, err)
	assert.Empty(t, next)
	require.Len(t, listed, 3)
	assert.Equal(t, ids[2], listed[0].Id, "newest first")
	assert.Equal(t, "thread-2", listed[0].Title)
	assert.Equal(t, "alice", listed[0].Username)
	assert.Equal(t, uint64(2), listed[0].PostCount)
	assert.Equal(t, uint64(1), listed[1].PostCount)
}

func TestRecordThreadView(t *testing.T) {
	s := newTestStorage(t)
	tick(s)

	board := mustBoard(t, s, "b", "")
	user := mustUser(t, s, "alice")
	thread := mustThread(t, s, board.Id, user.Id, "t")

	require.NoError(t, s.RecordThreadView(user.Id, thread.Id))
	require.NoError(t, s.RecordThreadView(user.Id, thread.Id))

	got, err := s.GetThread(thread.Id)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), got.Meta.ViewCount)

	u, err := s.GetUser(user.Id)
	require.NoError(t, err)
	require.Contains(t, u.Views, thread.Id)
	assert.Positive(t, u.Views[thread.Id])
}

func TestRecordThreadViewMissingParticipants(t *testing.T) {
	s := newTestStorage(t)
	tick(s)

	board := mustBoard(t, s, "b", "")
	user := mustUser(t, s, "alice")
	thread := mustThread(t, s, board.Id, user.Id, "t")

	err := s.RecordThreadView(user.Id, "000000000000-00000000")
	assert.True(t, internal_errors.IsNotFound(err))

	err = s.RecordThreadView("000000000000-00000000", thread.Id)
	assert.True(t, internal_errors.IsNotFound(err))
}
