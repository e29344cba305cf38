// Package objectkey implements the deterministic naming scheme linking a
// logical file to its physical objects.
//
// The original object lives at
//
//	uploads/{owner}/{YYYY-MM-DD}/{fileID}_{filename}
//
// and derivatives alongside it as {role}-{fileID}.jpg. Only the original key
// is ever persisted, so the scheme must be invertible: the file id token is
// spliced to the filename with "_", a character that cannot occur inside a
// UUID, which lets delete paths recover the exact token by cutting the last
// path segment at its first "_". Splicing with "-" would collide with the
// UUID's own internal delimiter and make reconstruction recover only the
// first UUID group.
package objectkey

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	prefix         = "uploads"
	tokenSeparator = "_"
)

// Derivative roles.
const (
	RolePreview = "preview" // downscaled image
	RolePoster  = "poster"  // extracted video frame
)

// ForOriginal builds the storage key of an original object.
func ForOriginal(owner string, fileID uuid.UUID, filename string, at time.Time) string {
	return fmt.Sprintf("%s/%s/%s/%s%s%s",
		prefix,
		sanitizePathComponent(owner),
		at.UTC().Format("2006-01-02"),
		fileID,
		tokenSeparator,
		sanitizeFilename(filename),
	)
}

// ForDerivative builds the role-tagged derivative key addressed by a primary
// key. It is used both at write time and at delete time so the two can never
// disagree.
func ForDerivative(primaryKey, role string) (string, error) {
	dir, token, err := splitPrimary(primaryKey)
	if err != nil {
		return "", err
	}
	if dir == "" {
		return fmt.Sprintf("%s-%s.jpg", role, token), nil
	}
	return fmt.Sprintf("%s/%s-%s.jpg", dir, role, token), nil
}

// Reconstruct returns every physical key belonging to a primary key: the
// primary key itself plus, when role is non-empty, the derivative key.
func Reconstruct(primaryKey, role string) []string {
	keys := []string{primaryKey}
	if role == "" {
		return keys
	}
	dk, err := ForDerivative(primaryKey, role)
	if err != nil {
		// Key predates the scheme or was tampered with; the primary key is
		// still deleted.
		return keys
	}
	return append(keys, dk)
}

// splitPrimary recovers the base directory and the file id token from a
// primary key.
func splitPrimary(primaryKey string) (dir, token string, err error) {
	base := primaryKey
	if i := strings.LastIndex(primaryKey, "/"); i >= 0 {
		dir = primaryKey[:i]
		base = primaryKey[i+1:]
	}

	sep := strings.Index(base, tokenSeparator)
	if sep <= 0 {
		return "", "", fmt.Errorf("primary key %q has no file id token", primaryKey)
	}
	token = base[:sep]
	if _, err := uuid.Parse(token); err != nil {
		return "", "", fmt.Errorf("primary key %q has malformed file id token: %w", primaryKey, err)
	}
	return dir, token, nil
}

func sanitizeFilename(filename string) string {
	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
		" ", "_",
	)
	name := replacer.Replace(filename)
	if name == "" {
		name = "file"
	}
	return name
}

func sanitizePathComponent(component string) string {
	return sanitizeFilename(strings.ToLower(component))
}
