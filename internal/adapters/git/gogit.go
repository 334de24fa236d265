// Package git provides adapters for interacting with local Git repositories.
// This package implements the domain.RepositoryStateReader interface using go-git/v5.
package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/MyCarrier-DevOps/versionlint/internal/domain"
)

// Logger defines the logging interface for the git adapter.
// This interface enables dependency injection and testability.
type Logger interface {
	Debug(ctx context.Context, msg string, fields map[string]interface{})
	Warn(ctx context.Context, msg string, fields map[string]interface{})
}

// Options tunes how repository facts are read.
type Options struct {
	// IncludeLightweightTags makes DescribeLong consider lightweight tags,
	// like `git describe --tags`. By default only annotated tags count.
	IncludeLightweightTags bool
}

// GoGitRepository implements domain.RepositoryStateReader using go-git/v5.
// Nested repositories (submodules) are opened on demand and kept by their
// path relative to the root.
type GoGitRepository struct {
	repo   *git.Repository
	path   string
	opts   Options
	units  map[string]*git.Repository
	logger Logger
}

// NewGoGitRepository creates a new GoGitRepository for the working tree at path.
// Returns domain.ErrRepositoryNotFound if the path is not a valid Git repository.
func NewGoGitRepository(path string, opts Options, log Logger) (*GoGitRepository, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrRepositoryNotFound, path)
	}

	return &GoGitRepository{
		repo:   repo,
		path:   path,
		opts:   opts,
		units:  map[string]*git.Repository{domain.RootUnitName: repo},
		logger: log,
	}, nil
}

// ActiveBranchOrOverride returns the short name of the checked out branch.
// When HEAD is detached the overrideEnv environment variable supplies the
// branch name, as CI systems that check out a bare commit usually export it.
func (r *GoGitRepository) ActiveBranchOrOverride(ctx context.Context, overrideEnv string) (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to get HEAD: %w", err)
	}

	if head.Name().IsBranch() {
		return head.Name().Short(), nil
	}

	override := ""
	if overrideEnv != "" {
		override = strings.TrimSpace(os.Getenv(overrideEnv))
	}
	if override == "" {
		return "", fmt.Errorf("%w (set %s)", domain.ErrBranchUndeterminable, overrideEnv)
	}

	r.logger.Warn(ctx, "HEAD is detached; using branch override", map[string]interface{}{
		"head_sha": head.Hash().String(),
		"env":      overrideEnv,
		"branch":   override,
		"path":     r.path,
	})
	return override, nil
}

// DescribeLong produces the equivalent of
// `git describe --long --first-parent --abbrev=40`: the nearest tag on the
// first-parent chain of HEAD, the number of commits since it, and the full
// hash of HEAD.
func (r *GoGitRepository) DescribeLong(ctx context.Context) (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to get HEAD: %w", err)
	}

	tags, err := r.tagsByCommit()
	if err != nil {
		return "", err
	}
	if len(tags) == 0 {
		return "", domain.ErrNoDescribableTag
	}

	commit, err := r.repo.CommitObject(head.Hash())
	if err != nil {
		return "", fmt.Errorf("failed to get commit object for HEAD: %w", err)
	}

	for distance := 0; ; distance++ {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		if candidates, ok := tags[commit.Hash]; ok {
			name := bestTag(candidates).name
			desc := fmt.Sprintf("%s-%d-g%s", name, distance, head.Hash().String())
			r.logger.Debug(ctx, "described HEAD", map[string]interface{}{
				"tag":         name,
				"distance":    distance,
				"head_sha":    head.Hash().String(),
				"description": desc,
			})
			return desc, nil
		}

		if commit.NumParents() == 0 {
			return "", fmt.Errorf("%w: searched %d first-parent commits from %s",
				domain.ErrNoDescribableTag, distance+1, head.Hash())
		}
		commit, err = commit.Parent(0)
		if err != nil {
			return "", fmt.Errorf("failed to walk first-parent history: %w", err)
		}
	}
}

// DirtyCounts reports the raw counters of the unit at unitPath and lists its
// initialised submodules.
func (r *GoGitRepository) DirtyCounts(ctx context.Context, unitPath string) (*domain.UnitStatus, error) {
	unitPath = path.Clean(unitPath)
	repo, ok := r.units[unitPath]
	if !ok {
		return nil, fmt.Errorf("%w: unknown nested unit '%s'", domain.ErrRepositoryNotFound, unitPath)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to open worktree of '%s': %w", unitPath, err)
	}
	status, err := worktree.Status()
	if err != nil {
		return nil, fmt.Errorf("failed to get status of '%s': %w", unitPath, err)
	}

	result := &domain.UnitStatus{Counts: countStatus(status)}

	submodules, err := worktree.Submodules()
	if err != nil {
		return nil, fmt.Errorf("failed to list submodules of '%s': %w", unitPath, err)
	}

	for _, sub := range submodules {
		cfg := sub.Config()
		subRepo, err := sub.Repository()
		if err != nil {
			if errors.Is(err, git.ErrSubmoduleNotInitialized) {
				r.logger.Debug(ctx, "skipping uninitialized submodule", map[string]interface{}{
					"unit":      unitPath,
					"submodule": cfg.Name,
				})
				continue
			}
			return nil, fmt.Errorf("failed to open submodule '%s' of '%s': %w", cfg.Name, unitPath, err)
		}

		childPath := path.Join(unitPath, cfg.Path)
		r.units[childPath] = subRepo
		result.Nested = append(result.Nested, domain.NestedUnit{
			Name: cfg.Name,
			Path: childPath,
		})

		// go-git compares a gitlink by commit only; git also reports a
		// submodule whose own working tree is dirty as a modified path.
		if fs, ok := status[cfg.Path]; ok && fs.Worktree != git.Unmodified && fs.Worktree != git.Untracked {
			continue
		}
		dirty, err := repositoryDirty(subRepo)
		if err != nil {
			return nil, fmt.Errorf("failed to get status of submodule '%s': %w", cfg.Name, err)
		}
		if dirty {
			result.Counts.Unstaged++
		}
	}

	r.logger.Debug(ctx, "read unit status", map[string]interface{}{
		"unit":        unitPath,
		"untracked":   result.Counts.Untracked,
		"unstaged":    result.Counts.Unstaged,
		"uncommitted": result.Counts.Uncommitted,
		"nested":      len(result.Nested),
	})
	return result, nil
}

// Close releases any resources held by the repository.
// For go-git, this is a no-op as the repository doesn't hold persistent resources.
func (r *GoGitRepository) Close() error {
	return nil
}

// countStatus maps go-git file statuses onto untracked, unstaged
// (worktree vs index) and uncommitted (index vs HEAD) counters.
func countStatus(status git.Status) domain.DirtyCounts {
	var counts domain.DirtyCounts
	for _, fs := range status {
		if fs.Worktree == git.Untracked {
			counts.Untracked++
			continue
		}
		if fs.Worktree != git.Unmodified {
			counts.Unstaged++
		}
		if fs.Staging != git.Unmodified {
			counts.Uncommitted++
		}
	}
	return counts
}

// repositoryDirty reports whether repo or any of its initialised submodules
// has untracked, unstaged or uncommitted changes.
func repositoryDirty(repo *git.Repository) (bool, error) {
	worktree, err := repo.Worktree()
	if err != nil {
		return false, err
	}
	status, err := worktree.Status()
	if err != nil {
		return false, err
	}
	if !status.IsClean() {
		return true, nil
	}

	submodules, err := worktree.Submodules()
	if err != nil {
		return false, err
	}
	for _, sub := range submodules {
		subRepo, err := sub.Repository()
		if errors.Is(err, git.ErrSubmoduleNotInitialized) {
			continue
		}
		if err != nil {
			return false, err
		}
		dirty, err := repositoryDirty(subRepo)
		if err != nil || dirty {
			return dirty, err
		}
	}
	return false, nil
}

// tagsByCommit indexes the describable tags by the commit they point at.
func (r *GoGitRepository) tagsByCommit() (map[plumbing.Hash][]tagCandidate, error) {
	refs, err := r.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	defer refs.Close()

	tags := make(map[plumbing.Hash][]tagCandidate)
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().Short()

		tagObj, err := r.repo.TagObject(ref.Hash())
		switch {
		case err == nil:
			commit, err := tagObj.Commit()
			if err != nil {
				// Tags of trees, blobs or other tags cannot describe a commit.
				return nil
			}
			tags[commit.Hash] = append(tags[commit.Hash], tagCandidate{
				name:      name,
				annotated: true,
				when:      tagObj.Tagger.When.Unix(),
			})
		case errors.Is(err, plumbing.ErrObjectNotFound):
			if !r.opts.IncludeLightweightTags {
				return nil
			}
			tags[ref.Hash()] = append(tags[ref.Hash()], tagCandidate{name: name})
		default:
			return fmt.Errorf("failed to read tag '%s': %w", name, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// tagCandidate is a tag pointing at a commit on the first-parent chain.
type tagCandidate struct {
	name      string
	annotated bool
	when      int64
}

// bestTag picks among tags on the same commit: annotated before lightweight,
// then the newest tagger date, then the lexically smallest name.
func bestTag(candidates []tagCandidate) tagCandidate {
	best := candidates[0]
	for _, c := range candidates[1:] {
		switch {
		case c.annotated != best.annotated:
			if c.annotated {
				best = c
			}
		case c.when != best.when:
			if c.when > best.when {
				best = c
			}
		case c.name < best.name:
			best = c
		}
	}
	return best
}
