// Package domain defines the core business entities and interfaces for versionlint.
// This package contains no external dependencies and represents the innermost layer
// of the CLEAN architecture: parsing, classification and rendering of repository versions.
package domain

import (
	"context"
	"errors"
)

// Domain errors for version derivation.
var (
	// ErrUnacceptablePrefix indicates the tag description starts with a prefix outside the accepted set.
	ErrUnacceptablePrefix = errors.New("tag with unacceptable prefix")

	// ErrMalformedTag indicates the tag description does not match the grammar selected by its prefix.
	ErrMalformedTag = errors.New("malformed tag content")

	// ErrBranchUndeterminable indicates HEAD is detached and no branch override is available.
	ErrBranchUndeterminable = errors.New("cannot determine branch: HEAD is detached and no override is set")

	// ErrInsaneState indicates a build-snapshot version was requested for a non-sane snapshot.
	ErrInsaneState = errors.New("insane version configuration")

	// ErrInvalidFlags indicates a qualifier flag value violates the consistency rules.
	ErrInvalidFlags = errors.New("invalid qualifier flag")

	// ErrUnknownOperation indicates an unrecognized operation token.
	ErrUnknownOperation = errors.New("unknown request")

	// ErrInconsistentDirtyState indicates raw dirty counters contradict the nested unit state.
	ErrInconsistentDirtyState = errors.New("inconsistent dirty state")

	// ErrInvalidTagPrefix indicates an accepted tag prefix is not exactly one character.
	ErrInvalidTagPrefix = errors.New("invalid tag prefix")

	// ErrInvalidReleaseBranchPrefix indicates an empty release-branch prefix.
	ErrInvalidReleaseBranchPrefix = errors.New("release branch prefix must not be empty")

	// ErrInvalidSanityMode indicates an unknown sanity mode name.
	ErrInvalidSanityMode = errors.New("invalid sanity mode")

	// ErrRepositoryNotFound indicates the specified path is not a valid Git repository.
	ErrRepositoryNotFound = errors.New("git repository not found at specified path")

	// ErrNoDescribableTag indicates no tag is reachable from HEAD.
	ErrNoDescribableTag = errors.New("no tag reachable from HEAD")
)

// RepositoryStateReader provides the version-control facts a snapshot is built from.
// Implementations only read repository state; they never mutate it.
type RepositoryStateReader interface {
	// ActiveBranchOrOverride returns the checked out branch name. When HEAD is
	// detached, the value of the overrideEnv environment variable is used instead.
	// Returns ErrBranchUndeterminable if neither is available.
	ActiveBranchOrOverride(ctx context.Context, overrideEnv string) (string, error)

	// DescribeLong returns the first-parent, long-form tag description of HEAD
	// with the full commit hash, e.g. "v1.2-3-g<40 hex>".
	DescribeLong(ctx context.Context) (string, error)

	// DirtyCounts returns the raw counters and nested units of the unit at
	// unitPath, relative to the repository root ("." is the root).
	DirtyCounts(ctx context.Context, unitPath string) (*UnitStatus, error)

	// Close releases any resources held by the reader.
	Close() error
}

// SnapshotBuilder builds the immutable version snapshot for a repository.
type SnapshotBuilder interface {
	// Build reads the repository facts once and returns the snapshot.
	Build(ctx context.Context) (*VersionSnapshot, error)
}

// OutputWriter writes rendered results to an output destination.
type OutputWriter interface {
	// WriteLine writes one rendered line.
	WriteLine(line string) error
}
