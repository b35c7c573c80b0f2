package ledger

import (
	"strings"

	"github.com/google/uuid"
)

// NewID returns a fresh unique identifier with the given prefix,
// e.g. NewID("LR") -> "LR9f2c1a4b7d".
func NewID(prefix string) string {
	compact := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + compact[:10]
}
