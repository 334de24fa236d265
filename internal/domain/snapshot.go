package domain

import (
	"cmp"
	"fmt"
)

// VersionSnapshot is the immutable state every rendering is derived from.
// It is constructed once per invocation by NewVersionSnapshot.
type VersionSnapshot struct {
	policy        Policy
	branch        string
	releaseBranch bool
	tag           TagDescriptor
	releaseTagged bool
	dirty         DirtyState
}

// NewVersionSnapshot validates the policy, parses the tag description and
// classifies branch and tag. This is the only place parsing and validation
// errors originate.
func NewVersionSnapshot(policy Policy, branch, description string, dirty DirtyState) (*VersionSnapshot, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}

	tag, err := ParseTagDescription(description, policy.TagPrefixes)
	if err != nil {
		return nil, err
	}

	prefixes := make([]string, len(policy.TagPrefixes))
	copy(prefixes, policy.TagPrefixes)
	policy.TagPrefixes = prefixes

	return &VersionSnapshot{
		policy:        policy,
		branch:        branch,
		releaseBranch: policy.IsReleaseBranch(branch),
		tag:           tag,
		releaseTagged: tag.Prefix == policy.ReleaseTagPrefix(),
		dirty:         dirty.Clone(),
	}, nil
}

// Branch returns the resolved branch name.
func (s *VersionSnapshot) Branch() string { return s.branch }

// ReleaseBranch reports whether the branch carries the release-branch prefix.
func (s *VersionSnapshot) ReleaseBranch() bool { return s.releaseBranch }

// Tag returns the parsed tag description.
func (s *VersionSnapshot) Tag() TagDescriptor { return s.tag }

// ReleaseTagged reports whether the nearest tag carries the release prefix.
func (s *VersionSnapshot) ReleaseTagged() bool { return s.releaseTagged }

// Dirty returns a copy of the root dirty state.
func (s *VersionSnapshot) Dirty() DirtyState { return s.dirty.Clone() }

// IsVolatile reports whether the working tree, including nested units, is dirty.
func (s *VersionSnapshot) IsVolatile() bool {
	return s.dirty.IsDirty()
}

// IsSane reports whether the snapshot satisfies release discipline.
// A release branch must be release-tagged, carry no tag extension and be
// clean. Off release branches the outcome depends on the policy's sanity mode.
func (s *VersionSnapshot) IsSane() bool {
	if s.releaseBranch {
		return s.releaseTagged && s.tag.Extension == "" && !s.IsVolatile()
	}
	if s.policy.Sanity == SanityStrict {
		return !s.releaseTagged
	}
	return true
}

// QualifierFlags computes the qualifier bitfield. The result is checked
// against ValidateQualifierFlags; a failure there is an internal defect.
func (s *VersionSnapshot) QualifierFlags() (QualifierFlags, error) {
	var flags QualifierFlags
	if !s.releaseBranch {
		flags |= FlagNonReleaseBranch
	}
	if !s.releaseTagged {
		flags |= FlagNonReleaseTag
	}
	if s.IsVolatile() {
		flags |= FlagDirty
		if s.dirty.Untracked > 0 {
			flags |= FlagUntracked
		}
		if s.dirty.Unstaged > 0 {
			flags |= FlagUnstaged
		}
		if s.dirty.Uncommitted > 0 {
			flags |= FlagUncommitted
		}
		if len(s.dirty.Children) > 0 {
			flags |= FlagNestedDirty
		}
	}

	if err := ValidateQualifierFlags(flags); err != nil {
		return 0, fmt.Errorf("computing qualifier flags: %w", err)
	}
	return flags, nil
}

// NumericalVersion returns the (major, minor, commits, flags) tuple.
func (s *VersionSnapshot) NumericalVersion() (NumericVersion, error) {
	flags, err := s.QualifierFlags()
	if err != nil {
		return NumericVersion{}, err
	}
	return NumericVersion{
		Major:   s.tag.Major,
		Minor:   s.tag.Minor,
		Commits: s.tag.CommitsSinceTag,
		Flags:   flags,
	}, nil
}

// NumericVersion is a totally ordered version tuple for states of one lineage.
type NumericVersion struct {
	Major   int
	Minor   int
	Commits int
	Flags   QualifierFlags
}

// Compare orders versions lexicographically by major, minor, commits, flags.
// It returns -1, 0 or +1.
func (v NumericVersion) Compare(other NumericVersion) int {
	if c := cmp.Compare(v.Major, other.Major); c != 0 {
		return c
	}
	if c := cmp.Compare(v.Minor, other.Minor); c != 0 {
		return c
	}
	if c := cmp.Compare(v.Commits, other.Commits); c != 0 {
		return c
	}
	return cmp.Compare(v.Flags, other.Flags)
}

// String joins the components with dots; flags are written in decimal.
func (v NumericVersion) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", v.Major, v.Minor, v.Commits, uint8(v.Flags))
}
