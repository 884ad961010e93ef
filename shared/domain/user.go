package domain

// to iterate thru layers: service -> storage.
// PassHash arrives already derived; the plaintext password never reaches
// the storage layer.
type UserCreationData struct {
	Username Username
	Email    Email
	PassHash string
}

type UserImportData struct {
	UserCreationData
	LegacyId  int64
	CreatedAt Timestamp
}

type UserUpdateData struct {
	Username        *Username
	Email           *Email
	PassHash        *string
	ResetToken      *string // set to "" to clear, together with ResetExpiration
	ResetExpiration *Timestamp
	Deleted         *bool
}

type User struct {
	Envelope
	Username        Username  `json:"username"`
	Email           Email     `json:"email"`
	PassHash        string    `json:"passhash"`
	ResetToken      string    `json:"reset_token,omitempty"`
	ResetExpiration Timestamp `json:"reset_expiration,omitempty"`

	// Views maps thread id -> last-viewed timestamp. Kept in the metadata
	// partition, attached by Get.
	Views map[Id]Timestamp `json:"-"`
}

// UserPublic is the canonical public projection: what other entities (post
// authorship, board last-post fields) are allowed to see.
type UserPublic struct {
	Id        Id        `json:"id"`
	Username  Username  `json:"username"`
	CreatedAt Timestamp `json:"created_at"`
}

func (u *User) Public() UserPublic {
	return UserPublic{Id: u.Id, Username: u.Username, CreatedAt: u.CreatedAt}
}
