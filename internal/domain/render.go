package domain

import (
	"fmt"
	"math"
	"strings"
)

// dirtyQualifier is appended to the qualifier of volatile snapshots.
const dirtyQualifier = "dirty"

// snapshotSuffix marks build-snapshot versions.
const snapshotSuffix = "SNAPSHOT"

// VersionString renders MAJOR.MINOR.COMMITS-QUALIFIER. The qualifier is the
// branch, followed by ".<prefix><extension>" when not release-tagged and
// ".dirty" when volatile.
func (s *VersionSnapshot) VersionString() string {
	var qualifier strings.Builder
	qualifier.WriteString(s.branch)
	if !s.releaseTagged {
		qualifier.WriteString(".")
		qualifier.WriteString(s.tag.Prefix)
		qualifier.WriteString(s.tag.Extension)
	}
	if s.IsVolatile() {
		qualifier.WriteString(".")
		qualifier.WriteString(dirtyQualifier)
	}
	return fmt.Sprintf("%d.%d.%d-%s", s.tag.Major, s.tag.Minor, s.tag.CommitsSinceTag, qualifier.String())
}

// NumericVersionString renders the numerical version joined by dots.
func (s *VersionSnapshot) NumericVersionString() (string, error) {
	v, err := s.NumericalVersion()
	if err != nil {
		return "", err
	}
	return v.String(), nil
}

// MavenVersionString renders the build-snapshot version.
// On a release branch it equals VersionString. Elsewhere it is
// MAJOR.MINOR-BRANCH<extension>-SNAPSHOT, where MINOR is bumped by one when
// the nearest tag is a release tag, since that release seeds the next minor line.
//
// Returns ErrInsaneState if the snapshot is not sane, and ErrMalformedTag if
// the bumped minor would overflow.
func (s *VersionSnapshot) MavenVersionString() (string, error) {
	if !s.IsSane() {
		return "", fmt.Errorf("%w: %s", ErrInsaneState, s.VersionString())
	}
	if s.releaseBranch {
		return s.VersionString(), nil
	}

	minor := s.tag.Minor
	if s.releaseTagged {
		if minor == math.MaxInt {
			return "", fmt.Errorf("%w: minor version %d cannot be incremented", ErrMalformedTag, minor)
		}
		minor++
	}
	return fmt.Sprintf("%d.%d-%s%s-%s",
		s.tag.Major, minor, sanitizeQualifier(s.branch), s.tag.Extension, snapshotSuffix), nil
}

// ExplainFlags explains the snapshot's own qualifier flags.
func (s *VersionSnapshot) ExplainFlags() ([]string, error) {
	flags, err := s.QualifierFlags()
	if err != nil {
		return nil, err
	}
	return ExplainQualifierFlags(flags)
}

// sanitizeQualifier replaces characters artifact repositories reject in
// version qualifiers (e.g. the slash of "feature/x") with underscores.
func sanitizeQualifier(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			return r
		case r == '.', r == '_', r == '-':
			return r
		default:
			return '_'
		}
	}, s)
}
