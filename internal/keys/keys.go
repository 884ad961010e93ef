// Package keys encodes logical keys (entity kind, id, dimension) into byte
// strings whose lexicographic order matches scan order.
//
// Layout notation:
//
//	content:<kind>:<id>                        primary record
//	content:post:<id>:v:<seq>                  versioned post snapshot
//	indexes:board:parent:<parent>:<child>      ordering index ("" parent = top level)
//	indexes:thread:board:<board>:<thread>      ordering index
//	indexes:post:thread:<thread>:<post>        ordering index
//	indexes:user:username:<username>           uniqueness + lookup
//	indexes:user:email:<email>                 uniqueness + lookup
//	metadata:<kind>:<id>:<field>               denormalized counter / field
//	metadata:user:<id>:views:<thread>          last-viewed timestamp
//	deleted:<kind>:<id>                        purge snapshot
//	legacy:<kind>:<seq legacy id>              legacy id -> new id
//
// Segments are joined with Sep, which is reserved: ids are lowercase hex
// plus '-', so adversarial ids cannot fabricate a foreign partition or kind
// prefix. Counts and sequence numbers embedded in keys use fixed-width hex
// (Seq) so numeric order and byte order coincide at any magnitude.
package keys

import "fmt"

// Sep joins key segments and may not occur inside ids.
const Sep = ":"

// Partition prefixes.
const (
	PartContent  = "content"
	PartIndexes  = "indexes"
	PartMetadata = "metadata"
	PartDeleted  = "deleted"
	PartLegacy   = "legacy"
)

// Entity kinds.
const (
	KindBoard  = "board"
	KindThread = "thread"
	KindPost   = "post"
	KindUser   = "user"
)

// SeqPadWidth is the fixed hex width for sequence numbers in keys. Decimal
// strings are wrong here: "9" sorts after "10".
const SeqPadWidth = 16

// Seq renders n as fixed-width hex so byte order equals numeric order.
func Seq(n uint64) string {
	return fmt.Sprintf("%0*x", SeqPadWidth, n)
}

func Content(kind, id string) []byte {
	return []byte(PartContent + Sep + kind + Sep + id)
}

// PostVersion addresses one historical revision of a post.
func PostVersion(id string, version uint64) []byte {
	return []byte(PartContent + Sep + KindPost + Sep + id + Sep + "v" + Sep + Seq(version))
}

func PostVersionPrefix(id string) []byte {
	return []byte(PartContent + Sep + KindPost + Sep + id + Sep + "v" + Sep)
}

func BoardParentIndex(parentId, childId string) []byte {
	return []byte(PartIndexes + Sep + KindBoard + Sep + "parent" + Sep + parentId + Sep + childId)
}

func BoardParentIndexPrefix(parentId string) []byte {
	return []byte(PartIndexes + Sep + KindBoard + Sep + "parent" + Sep + parentId + Sep)
}

func ThreadBoardIndex(boardId, threadId string) []byte {
	return []byte(PartIndexes + Sep + KindThread + Sep + "board" + Sep + boardId + Sep + threadId)
}

func ThreadBoardIndexPrefix(boardId string) []byte {
	return []byte(PartIndexes + Sep + KindThread + Sep + "board" + Sep + boardId + Sep)
}

func PostThreadIndex(threadId, postId string) []byte {
	return []byte(PartIndexes + Sep + KindPost + Sep + "thread" + Sep + threadId + Sep + postId)
}

func PostThreadIndexPrefix(threadId string) []byte {
	return []byte(PartIndexes + Sep + KindPost + Sep + "thread" + Sep + threadId + Sep)
}

func UsernameIndex(username string) []byte {
	return []byte(PartIndexes + Sep + KindUser + Sep + "username" + Sep + username)
}

func EmailIndex(email string) []byte {
	return []byte(PartIndexes + Sep + KindUser + Sep + "email" + Sep + email)
}

func Metadata(kind, id, field string) []byte {
	return []byte(PartMetadata + Sep + kind + Sep + id + Sep + field)
}

func MetadataPrefix(kind, id string) []byte {
	return []byte(PartMetadata + Sep + kind + Sep + id + Sep)
}

func UserView(userId, threadId string) []byte {
	return []byte(PartMetadata + Sep + KindUser + Sep + userId + Sep + "views" + Sep + threadId)
}

func UserViewPrefix(userId string) []byte {
	return []byte(PartMetadata + Sep + KindUser + Sep + userId + Sep + "views" + Sep)
}

func Deleted(kind, id string) []byte {
	return []byte(PartDeleted + Sep + kind + Sep + id)
}

// Legacy maps an old-system numeric id to the new id. Fixed-width hex keeps
// legacy ids scannable in numeric order.
func Legacy(kind string, legacyId int64) []byte {
	return []byte(PartLegacy + Sep + kind + Sep + Seq(uint64(legacyId)))
}

// PrefixEnd returns the smallest key greater than every key carrying the
// prefix, for use as an exclusive scan bound.
func PrefixEnd(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	// all 0xff: no upper bound below the end of the key space
	return append(end, 0xff)
}
