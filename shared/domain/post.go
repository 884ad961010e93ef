package domain

// to iterate thru layers: service -> storage
type PostCreationData struct {
	ThreadId Id
	UserId   Id
	Title    string
	Body     PostBody
}

type PostImportData struct {
	PostCreationData
	LegacyId       int64
	LegacyParentId int64
	CreatedAt      Timestamp
}

type PostUpdateData struct {
	Title   *string
	Body    *PostBody
	Deleted *bool
}

// Post is the stored record. BoardId is set only on the thread-starting
// post and discriminates it from replies. Each update bumps Version and
// snapshots the previous revision under a version-keyed slot.
type Post struct {
	Envelope
	ThreadId Id       `json:"thread_id"`
	BoardId  Id       `json:"board_id,omitempty"`
	UserId   Id       `json:"user_id"`
	Title    string   `json:"title,omitempty"`
	Body     PostBody `json:"body"`
	Version  uint64   `json:"version"`

	Author *UserPublic `json:"-"`
}

func (p *Post) IsOp() bool {
	return p.BoardId != ""
}

type PostSummary struct {
	Id        Id        `json:"id"`
	Title     string    `json:"title,omitempty"`
	UserId    Id        `json:"user_id"`
	CreatedAt Timestamp `json:"created_at"`
}
