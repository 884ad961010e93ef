package keys

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/nestboard-dev/nestboard/shared/domain"
)

// Id layout: <12 hex chars unix millis>-<8 hex chars suffix>. The leading
// time component makes raw byte comparison follow creation order; 12 hex
// digits of milliseconds stay fixed-width until the year 10889.
const (
	tsHexWidth  = 12
	seqHexWidth = 8
)

// Generator produces globally-ordered, collision-resistant ids. A fresh
// random suffix is drawn per timestamp; within one timestamp the suffix
// increments so that ids from one generator never compare out of order.
type Generator struct {
	mu      sync.Mutex
	lastTs  domain.Timestamp
	lastSeq uint32
}

func NewGenerator() *Generator {
	return &Generator{}
}

// NewId derives an id from ts. For imported entities the caller passes the
// original legacy creation time so historical ordering survives the import.
func (g *Generator) NewId(ts domain.Timestamp) domain.Id {
	g.mu.Lock()
	defer g.mu.Unlock()

	var seq uint32
	if ts == g.lastTs {
		seq = g.lastSeq + 1
	} else {
		seq = randomSeq()
	}
	if ts >= g.lastTs {
		g.lastTs, g.lastSeq = ts, seq
	}
	return fmt.Sprintf("%0*x-%0*x", tsHexWidth, uint64(ts), seqHexWidth, seq)
}

func randomSeq() uint32 {
	u := uuid.New()
	return binary.BigEndian.Uint32(u[:4])
}
