package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Tag description grammars. The release grammar forbids an extension; the
// non-release grammar captures it with its leading dash.
var (
	// releaseTagPattern matches MAJOR.MINOR-COMMITS-gHASH.
	releaseTagPattern = regexp.MustCompile(`^(\d+)\.(\d+)-(\d+)-g([0-9A-Za-z]+)$`)

	// nonReleaseTagPattern matches MAJOR.MINOR[-EXTENSION]-COMMITS-gHASH.
	nonReleaseTagPattern = regexp.MustCompile(`^(\d+)\.(\d+)(-.+)?-(\d+)-g([0-9A-Za-z]+)$`)
)

// ParseTagDescription parses a `git describe --long` description.
// prefixes is the accepted prefix set; prefixes[0] is the release prefix and
// selects the release grammar, every other prefix the non-release grammar.
//
// Returns ErrUnacceptablePrefix if the description starts with none of the
// prefixes, and ErrMalformedTag if the remainder does not match the grammar.
func ParseTagDescription(desc string, prefixes []string) (TagDescriptor, error) {
	prefix := ""
	for _, pfx := range prefixes {
		if pfx != "" && strings.HasPrefix(desc, pfx) {
			prefix = pfx
			break
		}
	}
	if prefix == "" {
		return TagDescriptor{}, fmt.Errorf("%w: '%s'", ErrUnacceptablePrefix, desc)
	}

	body := desc[len(prefix):]
	if prefix == prefixes[0] {
		return parseReleaseTag(desc, prefix, body)
	}
	return parseNonReleaseTag(desc, prefix, body)
}

func parseReleaseTag(desc, prefix, body string) (TagDescriptor, error) {
	m := releaseTagPattern.FindStringSubmatch(body)
	if m == nil {
		return TagDescriptor{}, fmt.Errorf("%w '%s'", ErrMalformedTag, desc)
	}
	nums, err := parseTagNumbers(desc, m[1], m[2], m[3])
	if err != nil {
		return TagDescriptor{}, err
	}
	return TagDescriptor{
		Prefix:          prefix,
		Major:           nums[0],
		Minor:           nums[1],
		CommitsSinceTag: nums[2],
		Hashcode:        m[4],
	}, nil
}

func parseNonReleaseTag(desc, prefix, body string) (TagDescriptor, error) {
	m := nonReleaseTagPattern.FindStringSubmatch(body)
	if m == nil {
		return TagDescriptor{}, fmt.Errorf("%w '%s'", ErrMalformedTag, desc)
	}
	nums, err := parseTagNumbers(desc, m[1], m[2], m[4])
	if err != nil {
		return TagDescriptor{}, err
	}
	return TagDescriptor{
		Prefix:          prefix,
		Major:           nums[0],
		Minor:           nums[1],
		Extension:       m[3],
		CommitsSinceTag: nums[2],
		Hashcode:        m[5],
	}, nil
}

// parseTagNumbers converts the numeric groups, rejecting values that overflow int.
func parseTagNumbers(desc string, groups ...string) ([]int, error) {
	nums := make([]int, len(groups))
	for i, g := range groups {
		n, err := strconv.Atoi(g)
		if err != nil {
			return nil, fmt.Errorf("%w '%s': %w", ErrMalformedTag, desc, err)
		}
		nums[i] = n
	}
	return nums, nil
}
