package core

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	RenderID ID
	PageSlug ID
)

func (id RenderID) String() string { return ID(id).String() }
func (s PageSlug) String() string  { return ID(s).String() }

// NewRenderID identifies one render pass over a page.
func NewRenderID() RenderID {
	return RenderID(NewID())
}

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// ParsePageSlug parses a URL-safe page slug such as "country-trading-strategy".
func ParsePageSlug(s string) (PageSlug, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("page slug cannot be empty")
	}
	if !slugPattern.MatchString(s) {
		return "", fmt.Errorf("page slug %q must be lowercase letters, digits and single dashes", s)
	}
	return PageSlug(s), nil
}
