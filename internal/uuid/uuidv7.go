// Package uuid wraps google/uuid for the string ids stored in every table.
// New ids are version 7 so primary keys sort by creation time.
package uuid

import googleuuid "github.com/google/uuid"

// New returns a UUIDv7 string. If the clock-sequence source fails it falls
// back to a random v4 id rather than returning an error.
func New() string {
	if id, err := googleuuid.NewV7(); err == nil {
		return id.String()
	}
	return googleuuid.NewString()
}

// Parse returns s in canonical lower-case hyphenated form.
func Parse(s string) (string, error) {
	id, err := googleuuid.Parse(s)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// IsValid reports whether s parses as a UUID.
func IsValid(s string) bool {
	return googleuuid.Validate(s) == nil
}
