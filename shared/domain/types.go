package domain

type (
	// Id is an identity-generator output: a time-ordered lowercase hex
	// string, byte-comparable in creation order.
	Id = string

	// Timestamp is unix milliseconds.
	Timestamp = int64

	BoardName   = string
	ThreadTitle = string
	PostBody    = string
	Username    = string
	Email       = string
	Password    = string
)

// LegacyRef carries the old-system numeric id(s) for an imported entity.
type LegacyRef struct {
	Id       int64 `json:"id"`
	ParentId int64 `json:"parent_id,omitempty"`
}

// Envelope holds the fields shared by every stored entity. Deleted is
// tri-state: absent = active, true = soft-deleted, record absent from the
// content partition = purged.
type Envelope struct {
	Id         Id         `json:"id"`
	CreatedAt  Timestamp  `json:"created_at"`
	UpdatedAt  Timestamp  `json:"updated_at"`
	ImportedAt Timestamp  `json:"imported_at,omitempty"`
	Deleted    bool       `json:"deleted,omitempty"`
	Legacy     *LegacyRef `json:"legacy,omitempty"`
}

// Page bounds a reverse-chronological listing. Cursor is the id of the last
// item of the previous page; empty means "from the newest".
type Page struct {
	Limit  int
	Cursor Id
}

// DefaultPageLimit applies when Page.Limit is zero or negative.
const DefaultPageLimit = 10
