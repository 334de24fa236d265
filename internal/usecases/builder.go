// Package usecases contains the application business logic.
// This package orchestrates domain entities and interfaces to fulfill use cases.
package usecases

import (
	"context"
	"fmt"
	"path"

	"github.com/MyCarrier-DevOps/versionlint/internal/domain"
)

// Logger defines the logging interface required by the builder.
// This abstracts the logger dependency to avoid coupling to a specific implementation.
type Logger interface {
	Info(ctx context.Context, msg string, fields map[string]interface{})
	Debug(ctx context.Context, msg string, fields map[string]interface{})
	Warn(ctx context.Context, msg string, fields map[string]interface{})
	Error(ctx context.Context, msg string, err error, fields map[string]interface{})
}

// BuildOptions configures snapshot construction.
type BuildOptions struct {
	// Policy classifies branch and tag.
	Policy domain.Policy

	// BranchOverrideEnv names the environment variable consulted when HEAD is detached.
	BranchOverrideEnv string
}

// VersionSnapshotBuilder reads repository facts once and builds the version snapshot.
type VersionSnapshotBuilder struct {
	reader domain.RepositoryStateReader
	opts   BuildOptions
	logger Logger
}

// NewVersionSnapshotBuilder creates a new VersionSnapshotBuilder with the given dependencies.
func NewVersionSnapshotBuilder(
	reader domain.RepositoryStateReader,
	opts BuildOptions,
	log Logger,
) *VersionSnapshotBuilder {
	return &VersionSnapshotBuilder{
		reader: reader,
		opts:   opts,
		logger: log,
	}
}

// Build resolves the branch, describes HEAD, aggregates the dirty state of
// the repository and its nested units, and returns the resulting snapshot.
func (b *VersionSnapshotBuilder) Build(ctx context.Context) (*domain.VersionSnapshot, error) {
	branch, err := b.reader.ActiveBranchOrOverride(ctx, b.opts.BranchOverrideEnv)
	if err != nil {
		return nil, fmt.Errorf("failed to determine branch: %w", err)
	}

	description, err := b.reader.DescribeLong(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to describe HEAD: %w", err)
	}

	b.logger.Debug(ctx, "read repository facts", map[string]interface{}{
		"branch":      branch,
		"description": description,
	})

	dirty, err := b.aggregate(ctx, domain.RootUnitName, domain.RootUnitName)
	if err != nil {
		return nil, err
	}

	snapshot, err := domain.NewVersionSnapshot(b.opts.Policy, branch, description, dirty)
	if err != nil {
		return nil, err
	}

	b.logger.Info(ctx, "built version snapshot", map[string]interface{}{
		"branch":         snapshot.Branch(),
		"release_branch": snapshot.ReleaseBranch(),
		"release_tagged": snapshot.ReleaseTagged(),
		"volatile":       snapshot.IsVolatile(),
		"hash":           snapshot.Tag().Hashcode,
	})

	return snapshot, nil
}

// aggregate walks nested units depth-first, children before their parent.
func (b *VersionSnapshotBuilder) aggregate(
	ctx context.Context,
	name string,
	unitPath string,
) (domain.DirtyState, error) {
	if err := ctx.Err(); err != nil {
		return domain.DirtyState{}, err
	}

	status, err := b.reader.DirtyCounts(ctx, unitPath)
	if err != nil {
		return domain.DirtyState{}, fmt.Errorf("failed to read dirty state of '%s': %w", unitPath, err)
	}

	nested := make([]domain.DirtyState, 0, len(status.Nested))
	for _, unit := range status.Nested {
		child, err := b.aggregate(ctx, unit.Name, path.Clean(unit.Path))
		if err != nil {
			return domain.DirtyState{}, err
		}
		nested = append(nested, child)
	}

	state, err := domain.AggregateDirtyState(name, status.Counts, nested...)
	if err != nil {
		b.logger.Error(ctx, "dirty state is inconsistent", err, map[string]interface{}{
			"unit":   unitPath,
			"counts": status.Counts,
		})
		return domain.DirtyState{}, err
	}

	b.logger.Debug(ctx, "aggregated dirty state", map[string]interface{}{
		"unit":        unitPath,
		"untracked":   state.Untracked,
		"unstaged":    state.Unstaged,
		"uncommitted": state.Uncommitted,
		"dirty_units": len(state.Children),
	})
	return state, nil
}
