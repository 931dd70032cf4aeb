package templates

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidID is returned when a template id cannot be used as a file name
// inside the storage directory.
var ErrInvalidID = errors.New("invalid template id")

var (
	idPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_\-]*$`)

	// reservedIDs would shadow files the repository manages itself.
	reservedIDs = map[string]bool{
		"index": true,
	}

	idStripRe = regexp.MustCompile(`[^a-z0-9_]`)
)

// ValidateID checks that id is safe to use as <id>.json inside the storage
// directory.
func ValidateID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: must not be empty", ErrInvalidID)
	}
	if len(id) > 128 {
		return fmt.Errorf("%w: longer than 128 characters", ErrInvalidID)
	}
	if !idPattern.MatchString(id) {
		return fmt.Errorf("%w: %q must contain only letters, digits, underscores and hyphens and start with a letter or digit", ErrInvalidID, id)
	}
	if reservedIDs[id] {
		return fmt.Errorf("%w: %q is reserved", ErrInvalidID, id)
	}
	return nil
}

// DeriveID derives a template id from a display name: lowercase, spaces and
// hyphens become underscores, everything outside [a-z0-9_] is dropped.
func DeriveID(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = idStripRe.ReplaceAllString(s, "")
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	return strings.Trim(s, "_")
}
