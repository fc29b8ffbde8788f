package persistence

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// MaxSlugLength keeps public tenant slugs usable as a single URL path segment and DNS label.
const MaxSlugLength = 63

var (
	ErrSlugRequired = errors.New("slug is required")
	ErrSlugTooLong  = fmt.Errorf("slug must be at most %d characters", MaxSlugLength)
	ErrSlugInvalid  = errors.New("slug may only contain lowercase letters, digits and single hyphens between them")
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// NormalizeSlug returns the canonical form of a tenant slug. Comparison and storage
// always use this form, so "Acme" and "acme" are the same tenant.
func NormalizeSlug(input string) (string, error) {
	slug := strings.ToLower(strings.TrimSpace(input))
	switch {
	case slug == "":
		return "", ErrSlugRequired
	case len(slug) > MaxSlugLength:
		return "", ErrSlugTooLong
	case !slugPattern.MatchString(slug):
		return "", ErrSlugInvalid
	}
	return slug, nil
}
