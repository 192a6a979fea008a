package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewID returns a short unique id with the given prefix, e.g. "person_3f2a91bc".
func NewID(prefix string) string {
	if prefix == "" {
		prefix = "id"
	}
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + "_" + raw[:8]
}

// ThisYear returns the current calendar year.
func ThisYear() int {
	return time.Now().Year()
}

// Clamp bounds n to [min, max].
func Clamp(n, min, max int) int {
	if n < min {
		return min
	}
	if n > max {
		return max
	}
	return n
}
