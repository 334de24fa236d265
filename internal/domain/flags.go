package domain

import (
	"fmt"
	"strconv"
)

// QualifierFlags summarises the branch, tag and dirtiness classification.
type QualifierFlags uint8

// Qualifier flag bits. 0x04 is reserved and never valid.
const (
	FlagNonReleaseBranch QualifierFlags = 0x01
	FlagNonReleaseTag    QualifierFlags = 0x02
	FlagDirty            QualifierFlags = 0x08
	FlagUntracked        QualifierFlags = 0x10
	FlagUnstaged         QualifierFlags = 0x20
	FlagUncommitted      QualifierFlags = 0x40
	FlagNestedDirty      QualifierFlags = 0x80

	// flagsValidMask covers every defined bit.
	flagsValidMask QualifierFlags = 0xFB

	// flagsDirtyDetail covers the bits that qualify FlagDirty.
	flagsDirtyDetail = FlagUntracked | FlagUnstaged | FlagUncommitted | FlagNestedDirty
)

// Qualifier flag labels, as listed by ExplainQualifierFlags.
const (
	LabelReleaseBranch    = "Release branch"
	LabelNonReleaseBranch = "Non-release branch"
	LabelReleaseTag       = "Release tagged"
	LabelNonReleaseTag    = "Non-release tagged"
	LabelDirty            = "Source dirty"
	LabelUntracked        = "Untracked"
	LabelUnstaged         = "Unstaged"
	LabelUncommitted      = "Uncommitted"
	LabelNestedDirty      = "Submodule dirty"
)

// String returns the flags in 0x-prefixed hexadecimal.
func (f QualifierFlags) String() string {
	return fmt.Sprintf("0x%02X", uint8(f))
}

// ValidateQualifierFlags checks that flags only uses defined bits and that
// FlagDirty is set exactly when at least one dirty detail bit is set.
func ValidateQualifierFlags(flags QualifierFlags) error {
	if flags&flagsValidMask != flags {
		return fmt.Errorf("%w (%s): undefined bits set", ErrInvalidFlags, flags)
	}
	dirty := flags&FlagDirty != 0
	detail := flags&flagsDirtyDetail != 0
	switch {
	case dirty && !detail:
		return fmt.Errorf("%w (%s): expected dirty detail flags", ErrInvalidFlags, flags)
	case !dirty && detail:
		return fmt.Errorf("%w (%s): unexpected dirty detail flags", ErrInvalidFlags, flags)
	}
	return nil
}

// ExplainQualifierFlags validates flags and returns one label per semantic
// bit: branch state, tag state, then the dirty labels when FlagDirty is set.
func ExplainQualifierFlags(flags QualifierFlags) ([]string, error) {
	if err := ValidateQualifierFlags(flags); err != nil {
		return nil, err
	}

	labels := make([]string, 0, 7)
	if flags&FlagNonReleaseBranch != 0 {
		labels = append(labels, LabelNonReleaseBranch)
	} else {
		labels = append(labels, LabelReleaseBranch)
	}
	if flags&FlagNonReleaseTag != 0 {
		labels = append(labels, LabelNonReleaseTag)
	} else {
		labels = append(labels, LabelReleaseTag)
	}

	if flags&FlagDirty == 0 {
		return labels, nil
	}
	labels = append(labels, LabelDirty)
	for _, bit := range []struct {
		flag  QualifierFlags
		label string
	}{
		{FlagUntracked, LabelUntracked},
		{FlagUnstaged, LabelUnstaged},
		{FlagUncommitted, LabelUncommitted},
		{FlagNestedDirty, LabelNestedDirty},
	} {
		if flags&bit.flag != 0 {
			labels = append(labels, bit.label)
		}
	}
	return labels, nil
}

// ParseQualifierFlags parses a flag value written in decimal or 0x-prefixed hex.
func ParseQualifierFlags(s string) (QualifierFlags, error) {
	n, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("%w '%s': %w", ErrInvalidFlags, s, err)
	}
	return QualifierFlags(n), nil
}
