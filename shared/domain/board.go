package domain

// to iterate thru layers: service -> storage
type BoardCreationData struct {
	Name        BoardName
	Description string
	ParentId    Id
}

type BoardImportData struct {
	BoardCreationData
	LegacyId       int64
	LegacyParentId int64
	CreatedAt      Timestamp // original creation time from the legacy system
}

// BoardUpdateData mutates only the fields whose pointers are non-nil.
type BoardUpdateData struct {
	Name        *BoardName
	Description *string
	ParentId    *Id
	ChildrenIds *[]Id
	Deleted     *bool
}

// Board is the stored record. Counters and Children are attached by Get from
// the metadata partition and are never persisted with the record itself.
type Board struct {
	Envelope
	Name        BoardName `json:"name"`
	Description string    `json:"description,omitempty"`
	ParentId    Id        `json:"parent_id,omitempty"`
	ChildrenIds []Id      `json:"children_ids,omitempty"`

	Counters *BoardCounters `json:"-"`
	Children []Board        `json:"-"`
}

// BoardCounters are the denormalized aggregates kept in the metadata
// partition. The total_* fields roll up across all descendant boards;
// post_count/thread_count cover direct children only.
type BoardCounters struct {
	PostCount         uint64
	ThreadCount       uint64
	TotalPostCount    uint64
	TotalThreadCount  uint64
	LastPostUsername  string
	LastPostCreatedAt Timestamp
	LastThreadTitle   ThreadTitle
	LastThreadId      Id
}

// BoardSummary is the lightweight listing projection stored in the ordering
// index value, so pagination never reads full records.
type BoardSummary struct {
	Id        Id        `json:"id"`
	Name      BoardName `json:"name"`
	CreatedAt Timestamp `json:"created_at"`
}

func (b *Board) Summary() BoardSummary {
	return BoardSummary{Id: b.Id, Name: b.Name, CreatedAt: b.CreatedAt}
}
