package pkguid

import (
	"strings"

	"github.com/google/uuid"
)

// UUID generates time-ordered (version 7) UUID strings, optionally prefixed.
type UUID struct {
	prefix string
}

// NewUUID returns a UUID generator.
func NewUUID() *UUID {
	return &UUID{}
}

// NewPrefixedUUID returns a generator whose ids start with prefix, for
// example "imp_" for import jobs.
func NewPrefixedUUID(prefix string) *UUID {
	return &UUID{prefix: prefix}
}

// Generate returns a new UUID string.
func (u *UUID) Generate() string {
	return u.prefix + uuid.Must(uuid.NewV7()).String()
}

// Valid reports whether id was shaped by this generator.
func (u *UUID) Valid(id string) bool {
	rest, ok := strings.CutPrefix(id, u.prefix)
	if !ok {
		return false
	}
	return uuid.Validate(rest) == nil
}
