package ids

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// New returns a lexicographically time-ordered identifier for a new entity
func New() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// ApplicationID derives the identity of a job application from the
// (worker, job) pair, so at most one row can exist per pair.
func ApplicationID(workerID, jobID string) string {
	sum := sha256.Sum256([]byte(workerID + "\x00" + jobID))
	return hex.EncodeToString(sum[:])[:40]
}
