package questionnaire

import (
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	sessionPrefix = "sess_"
	suffixLen     = 9
)

// Identity is the immutable identity of one questionnaire attempt.
type Identity struct {
	SessionID string
	StartTime time.Time
}

// NewIdentity stamps a new attempt with the clock's current time.
func NewIdentity(clock Clock) Identity {
	if clock == nil {
		clock = SystemClock
	}
	now := clock.Now()
	return Identity{SessionID: NewSessionID(now), StartTime: now}
}

// NewSessionID builds "sess_<unix millis>_<9 base36 chars>". The suffix comes
// from a random UUID so concurrent attempts started in the same millisecond
// still differ.
func NewSessionID(now time.Time) string {
	return fmt.Sprintf("%s%d_%s", sessionPrefix, now.UnixMilli(), randomSuffix())
}

func randomSuffix() string {
	id := uuid.New()
	s := new(big.Int).SetBytes(id[:]).Text(36)
	if len(s) < suffixLen {
		s = strings.Repeat("0", suffixLen-len(s)) + s
	}
	// low-order digits come from the fully random tail of the UUID
	return s[len(s)-suffixLen:]
}
