package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Credential is one uniquely-named logical secret. The name is unique
// case-insensitively across the whole store. The row is created on the first
// version write and never updated in place.
type Credential struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
}

// NewCredential creates a credential row for a name's first version.
func NewCredential(name string) *Credential {
	return &Credential{
		ID:        uuid.Must(uuid.NewV7()),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
}

// NormalizePath rewrites a path-prefix query into slash-delimited form
// ("/a/b/" style) so prefix search matches whole path segments.
func NormalizePath(prefix string) string {
	if !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return prefix
}
