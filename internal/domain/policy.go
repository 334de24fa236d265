package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// SanityMode selects how non-release branches are judged by IsSane.
type SanityMode string

const (
	// SanityLenient treats every non-release branch as sane.
	SanityLenient SanityMode = "lenient"

	// SanityStrict additionally requires a non-release branch not to sit on a release tag.
	SanityStrict SanityMode = "strict"
)

// Default policy values.
const (
	DefaultReleaseBranchPrefix = "rel-"
	DefaultSanityMode          = SanityLenient
)

// DefaultTagPrefixes returns the default accepted tag prefixes. The first
// entry is the release prefix.
func DefaultTagPrefixes() []string {
	return []string{"v", "m"}
}

// Policy configures how repository facts are classified.
type Policy struct {
	// ReleaseBranchPrefix marks branches subject to release discipline.
	ReleaseBranchPrefix string

	// TagPrefixes is the accepted tag prefix set; TagPrefixes[0] is the release prefix.
	TagPrefixes []string

	// Sanity selects the sanity rule applied off release branches.
	Sanity SanityMode
}

// DefaultPolicy returns the policy used when nothing is configured.
func DefaultPolicy() Policy {
	return Policy{
		ReleaseBranchPrefix: DefaultReleaseBranchPrefix,
		TagPrefixes:         DefaultTagPrefixes(),
		Sanity:              DefaultSanityMode,
	}
}

// Validate checks the policy. The release-branch prefix must not be empty
// and every tag prefix must be exactly one character.
func (p Policy) Validate() error {
	if p.ReleaseBranchPrefix == "" {
		return ErrInvalidReleaseBranchPrefix
	}
	if len(p.TagPrefixes) == 0 {
		return fmt.Errorf("%w: at least one tag prefix is required", ErrInvalidTagPrefix)
	}
	for _, pfx := range p.TagPrefixes {
		if utf8.RuneCountInString(pfx) != 1 {
			return fmt.Errorf("%w '%s'", ErrInvalidTagPrefix, pfx)
		}
	}
	if _, err := ParseSanityMode(string(p.Sanity)); err != nil {
		return err
	}
	return nil
}

// ReleaseTagPrefix returns the prefix designating release tags.
func (p Policy) ReleaseTagPrefix() string {
	if len(p.TagPrefixes) == 0 {
		return ""
	}
	return p.TagPrefixes[0]
}

// IsReleaseBranch reports whether branch carries the release-branch prefix.
func (p Policy) IsReleaseBranch(branch string) bool {
	return strings.HasPrefix(branch, p.ReleaseBranchPrefix)
}

// ParseSanityMode parses a sanity mode name, case-insensitively.
// The empty string selects the default mode.
func ParseSanityMode(s string) (SanityMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DefaultSanityMode, nil
	case string(SanityLenient):
		return SanityLenient, nil
	case string(SanityStrict):
		return SanityStrict, nil
	default:
		return "", fmt.Errorf("%w %q: expected %q or %q", ErrInvalidSanityMode, s, SanityLenient, SanityStrict)
	}
}
