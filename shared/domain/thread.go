package domain

// to iterate thru layers: service -> storage
type ThreadCreationData struct {
	BoardId Id
	Op      PostCreationData // the starting post; its title becomes the thread title
}

type ThreadImportData struct {
	ThreadCreationData
	LegacyId       int64
	LegacyParentId int64
	CreatedAt      Timestamp
}

type ThreadUpdateData struct {
	Deleted *bool
}

// Thread is the stored record. Meta is attached by Get from the metadata
// partition: the title/username come from the starting post, the counters
// from the counter engine.
type Thread struct {
	Envelope
	BoardId Id `json:"board_id"`

	Meta *ThreadMeta `json:"-"`
}

type ThreadMeta struct {
	Title             ThreadTitle
	FirstPostId       Id
	Username          Username // starter's username
	PostCount         uint64
	ViewCount         uint64
	LastPostUsername  string
	LastPostCreatedAt Timestamp
}

type ThreadSummary struct {
	Id        Id          `json:"id"`
	Title     ThreadTitle `json:"title"`
	Username  Username    `json:"username"`
	CreatedAt Timestamp   `json:"created_at"`
	PostCount uint64      `json:"post_count,omitempty"`
}
