package attachmentid

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	entropyOnce sync.Once
	entropy     *ulid.MonotonicEntropy
)

func newEntropy() *ulid.MonotonicEntropy {
	entropyOnce.Do(func() {
		source := rand.NewSource(time.Now().UnixNano())
		entropy = ulid.Monotonic(rand.New(source), 0)
	})
	return entropy
}

// New returns an att_* ULID string used as a blob storage key.
func New() string {
	id := ulid.MustNew(ulid.Timestamp(time.Now()), newEntropy())
	return "att_" + strings.ToLower(id.String())
}

// IsValid reports whether the string is an att_* ULID.
func IsValid(value string) bool {
	if !strings.HasPrefix(value, "att_") {
		return false
	}
	_, err := Parse(value)
	return err == nil
}

// Parse strips the att_ prefix and returns the ULID.
func Parse(value string) (ulid.ULID, error) {
	value = strings.TrimSpace(value)
	value = strings.TrimPrefix(value, "att_")
	value = strings.TrimPrefix(value, "ATT_")
	return ulid.Parse(value)
}
