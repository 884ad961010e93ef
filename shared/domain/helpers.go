package domain

import (
	"fmt"
	"time"
)

func millis(ts Timestamp) string {
	return time.UnixMilli(ts).UTC().Format(time.StampMilli)
}

// for debug
func (b *Board) String() string {
	return fmt.Sprintf("[id:%s, name:%s, parent:%s, children:%d, created:%s, deleted:%v]",
		b.Id, b.Name, b.ParentId, len(b.ChildrenIds), millis(b.CreatedAt), b.Deleted)
}

func (t *Thread) String() string {
	s := fmt.Sprintf("[id:%s, board:%s, created:%s", t.Id, t.BoardId, millis(t.CreatedAt))
	if t.Meta != nil {
		s += fmt.Sprintf(", title:%s, posts:%d, views:%d", t.Meta.Title, t.Meta.PostCount, t.Meta.ViewCount)
	}
	return s + "]"
}

func (p *Post) String() string {
	return fmt.Sprintf("[id:%s, thread:%s, user:%s, op:%v, v:%d, created:%s]",
		p.Id, p.ThreadId, p.UserId, p.IsOp(), p.Version, millis(p.CreatedAt))
}
