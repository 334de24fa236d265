// Package cmd provides the CLI commands for versionlint.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MyCarrier-DevOps/versionlint/internal/buildinfo"
	"github.com/MyCarrier-DevOps/versionlint/internal/domain"
)

// Exit statuses.
const (
	ExitOK      = 0
	ExitAbout   = 1
	ExitFailure = 2
)

// Logger defines the logging interface used by the command.
type Logger interface {
	Info(ctx context.Context, msg string, fields map[string]interface{})
	Debug(ctx context.Context, msg string, fields map[string]interface{})
	Warn(ctx context.Context, msg string, fields map[string]interface{})
	Error(ctx context.Context, msg string, err error, fields map[string]interface{})
}

// Dependencies holds all injectable dependencies for the command.
// This enables testing by allowing mock implementations to be injected.
type Dependencies struct {
	// LoggerFactory creates a logger instance.
	LoggerFactory func() Logger

	// ConfigLoader loads application configuration for the repository at
	// repoPath, optionally from an explicit configuration file.
	ConfigLoader func(repoPath, configFile string) (*AppConfig, error)

	// ReaderFactory creates a RepositoryStateReader for the given path.
	ReaderFactory func(path string, cfg *AppConfig, log Logger) (domain.RepositoryStateReader, error)

	// BuilderFactory creates a SnapshotBuilder with the given dependencies.
	BuilderFactory func(
		reader domain.RepositoryStateReader,
		cfg *AppConfig,
		log Logger,
	) domain.SnapshotBuilder

	// OutputWriterFactory creates an OutputWriter.
	OutputWriterFactory func() domain.OutputWriter

	// Stdout is the writer for the banner of the about request.
	Stdout io.Writer

	// Stderr is the writer for standard error (for warnings/errors).
	Stderr io.Writer
}

// AppConfig holds application configuration loaded by ConfigLoader.
type AppConfig struct {
	// Policy classifies branches and tags.
	Policy domain.Policy

	// BranchEnv names the environment variable consulted when HEAD is detached.
	BranchEnv string

	// IncludeLightweightTags makes tag description consider lightweight tags.
	IncludeLightweightTags bool

	// LogLevel is the log level setting.
	LogLevel string

	// LogAppName is the application name for logging.
	LogAppName string
}

// rootOptions holds the command-line flags of one command instance.
type rootOptions struct {
	path                string
	configFile          string
	releaseBranchPrefix string
	tagPrefixes         []string
	branchEnv           string
	strictSanity        bool
	lightweightTags     bool
	explain             string
	verbose             bool
}

// ExitError carries a specific exit status out of the command.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// defaultDeps holds the production dependencies.
// This is set by the production wiring in main or via SetDefaultDependencies.
var defaultDeps *Dependencies

// SetDefaultDependencies sets the default dependencies for production use.
// This should be called from main() before Execute().
func SetDefaultDependencies(deps *Dependencies) {
	defaultDeps = deps
}

// NewRootCmd creates the root command for versionlint.
func NewRootCmd() *cobra.Command {
	return NewRootCmdWithDeps(defaultDeps)
}

// NewRootCmdWithDeps creates the root command with explicit dependencies.
// This is the primary constructor that enables testing via dependency injection.
func NewRootCmdWithDeps(deps *Dependencies) *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "versionlint [flags] [operation...]",
		Short: "Derive the version of a Git repository from its tags and working tree",
		Long: `versionlint derives a canonical version identifier for a Git repository
from its current branch, the nearest tag on the first-parent history, the
number of commits since that tag and the cleanliness of the working tree,
including submodules.

Operations (case-insensitive, default "Ver Flags"):
  Ver      human version string, e.g. 1.0.5-feature-x.m.dirty
  NumVer   numeric version major.minor.commits.flags
  MvnVer   Maven version; requires a sane repository state
  Flags    explanation of the qualifier flags
  Hash     commit hash of HEAD
  Branch   resolved branch name
  Dirt     nested report of untracked, unstaged and uncommitted changes
  ?        print the banner and the accepted operations

Tags must start with one of the accepted prefixes (default "v", "m"); the
first prefix marks release tags. Branches starting with the release-branch
prefix (default "rel-") are subject to release discipline.

Examples:
  # Version and flag explanation of the current directory
  versionlint

  # Maven version of another checkout
  versionlint --path /path/to/repo mvnver

  # Explain a numeric qualifier flag value
  versionlint --explain 0x1B`,
		Args:          cobra.ArbitraryArgs,
		Version:       buildinfo.ResolvedVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVersion(cmd, args, deps, opts)
		},
	}

	// Define flags
	rootCmd.Flags().StringVarP(&opts.path, "path", "p", ".",
		"Path of the repository working tree")
	rootCmd.Flags().StringVar(&opts.configFile, "config", "",
		"Configuration file (default <path>/.versionlint.yaml)")
	rootCmd.Flags().StringVar(&opts.releaseBranchPrefix, "release-branch-prefix", domain.DefaultReleaseBranchPrefix,
		"Prefix of release branch names")
	rootCmd.Flags().StringSliceVar(&opts.tagPrefixes, "tag-prefixes", domain.DefaultTagPrefixes(),
		"Accepted single-character tag prefixes; the first marks release tags")
	rootCmd.Flags().StringVar(&opts.branchEnv, "branch-env", "",
		"Environment variable holding the branch name when HEAD is detached")
	rootCmd.Flags().BoolVar(&opts.strictSanity, "strict-sanity", false,
		"Treat release-tagged commits on non-release branches as insane")
	rootCmd.Flags().BoolVar(&opts.lightweightTags, "lightweight-tags", false,
		"Consider lightweight tags when describing HEAD")
	rootCmd.Flags().StringVar(&opts.explain, "explain", "",
		"Explain the given qualifier flag value instead of reading a repository")
	rootCmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false,
		"Enable verbose/debug logging")

	return rootCmd
}

// runVersion executes the requested operations with injected dependencies.
func runVersion(cmd *cobra.Command, args []string, deps *Dependencies, opts *rootOptions) error {
	if deps == nil {
		return errors.New("dependencies not configured")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	stdout := deps.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := deps.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	// Validate every token before touching the repository
	for _, token := range args {
		if token == domain.AboutToken {
			writeAbout(stdout)
			return &ExitError{Code: ExitAbout}
		}
		if _, err := domain.ParseOperation(token); err != nil {
			return err
		}
	}
	ops, err := domain.ParseOperations(args)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("explain") {
		return explainFlags(opts.explain, deps)
	}

	// Set log level based on verbose flag (best-effort)
	if opts.verbose {
		if err := os.Setenv("LOG_LEVEL", "debug"); err != nil {
			writeWarningf(stderr, "warning: could not set log level: %v\n", err)
		}
	}

	log := deps.LoggerFactory()

	log.Debug(ctx, "starting versionlint", map[string]interface{}{
		"path":       opts.path,
		"operations": ops,
		"verbose":    opts.verbose,
	})

	cfg, err := deps.ConfigLoader(opts.path, opts.configFile)
	if err != nil {
		log.Error(ctx, "failed to load configuration", err, nil)
		return fmt.Errorf("configuration error: %w", err)
	}
	if err := applyFlagOverrides(cmd, opts, cfg); err != nil {
		log.Error(ctx, "invalid command-line configuration", err, nil)
		return fmt.Errorf("configuration error: %w", err)
	}

	reader, err := deps.ReaderFactory(opts.path, cfg, log)
	if err != nil {
		log.Error(ctx, "failed to open git repository", err, map[string]interface{}{
			"path": opts.path,
		})
		if errors.Is(err, domain.ErrRepositoryNotFound) {
			return fmt.Errorf("not a git repository: %s", opts.path)
		}
		return err
	}
	defer func() {
		if closeErr := reader.Close(); closeErr != nil {
			log.Warn(ctx, "failed to close git repository", map[string]interface{}{
				"error": closeErr.Error(),
			})
		}
	}()

	builder := deps.BuilderFactory(reader, cfg, log)
	snapshot, err := builder.Build(ctx)
	if err != nil {
		log.Error(ctx, "failed to build version snapshot", err, nil)
		return err
	}

	writer := deps.OutputWriterFactory()
	for _, op := range ops {
		lines, err := snapshot.Render(op)
		if err != nil {
			log.Error(ctx, "failed to render operation", err, map[string]interface{}{
				"operation": op,
			})
			return err
		}
		for _, line := range lines {
			if err := writer.WriteLine(line); err != nil {
				return fmt.Errorf("output error: %w", err)
			}
		}
	}

	log.Debug(ctx, "versionlint complete", map[string]interface{}{
		"version": snapshot.VersionString(),
	})
	return nil
}

// explainFlags writes the explanation of an externally supplied flag value.
func explainFlags(value string, deps *Dependencies) error {
	flags, err := domain.ParseQualifierFlags(value)
	if err != nil {
		return err
	}
	labels, err := domain.ExplainQualifierFlags(flags)
	if err != nil {
		return err
	}
	if err := deps.OutputWriterFactory().WriteLine(strings.Join(labels, ", ")); err != nil {
		return fmt.Errorf("output error: %w", err)
	}
	return nil
}

// applyFlagOverrides applies explicitly set flags on top of the loaded
// configuration and revalidates the policy.
func applyFlagOverrides(cmd *cobra.Command, opts *rootOptions, cfg *AppConfig) error {
	flags := cmd.Flags()
	if flags.Changed("release-branch-prefix") {
		cfg.Policy.ReleaseBranchPrefix = opts.releaseBranchPrefix
	}
	if flags.Changed("tag-prefixes") {
		cfg.Policy.TagPrefixes = opts.tagPrefixes
	}
	if flags.Changed("branch-env") {
		cfg.BranchEnv = opts.branchEnv
	}
	if flags.Changed("strict-sanity") {
		cfg.Policy.Sanity = domain.SanityLenient
		if opts.strictSanity {
			cfg.Policy.Sanity = domain.SanityStrict
		}
	}
	if flags.Changed("lightweight-tags") {
		cfg.IncludeLightweightTags = opts.lightweightTags
	}
	return cfg.Policy.Validate()
}

// writeAbout prints the banner and the accepted operation tokens.
func writeAbout(w io.Writer) {
	ops := domain.Operations()
	names := make([]string, len(ops))
	for i, op := range ops {
		names[i] = string(op)
	}
	_, _ = fmt.Fprintln(w, buildinfo.Banner())
	_, _ = fmt.Fprintf(w, "Accepted operations: %s %s\n", strings.Join(names, ", "), domain.AboutToken)
}

// Run executes the root command with args and returns the process exit status.
// Failures are reported as a single "Error: ..." line on stderr.
func Run(deps *Dependencies, args []string) int {
	rootCmd := NewRootCmdWithDeps(deps)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	if err == nil {
		return ExitOK
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		return exitErr.Code
	}

	stderr := io.Writer(os.Stderr)
	if deps != nil && deps.Stderr != nil {
		stderr = deps.Stderr
	}
	writeWarningf(stderr, "Error: %v\n", err)
	if exitErr != nil {
		return exitErr.Code
	}
	return ExitFailure
}

// Execute runs the root command and exits with its status.
func Execute() {
	os.Exit(Run(defaultDeps, os.Args[1:]))
}

// writeWarningf writes a message to the given writer.
// This is a best-effort operation; errors are intentionally ignored
// because there is no recovery action if stderr writes fail.
func writeWarningf(w io.Writer, format string, args ...any) {
	_, err := fmt.Fprintf(w, format, args...)
	if err != nil {
		// Intentionally ignored: no recovery action for failed stderr writes
		return
	}
}
