// Package main is the entry point for the versionlint CLI application.
// versionlint derives a repository's version from its branch, nearest tag,
// commit distance and working-tree state, and prints it in several formats.
package main

import (
	"os"
	"sync"

	"github.com/MyCarrier-DevOps/goLibMyCarrier/logger"

	"github.com/MyCarrier-DevOps/versionlint/cmd"
	"github.com/MyCarrier-DevOps/versionlint/internal/adapters/git"
	logadapter "github.com/MyCarrier-DevOps/versionlint/internal/adapters/logger"
	"github.com/MyCarrier-DevOps/versionlint/internal/adapters/output"
	"github.com/MyCarrier-DevOps/versionlint/internal/domain"
	"github.com/MyCarrier-DevOps/versionlint/internal/infrastructure/config"
	"github.com/MyCarrier-DevOps/versionlint/internal/usecases"
)

func main() {
	// The zap logger reads LOG_LEVEL when created, so it is built on first
	// use, after the --verbose flag had a chance to raise the level.
	newAdapter := sync.OnceValue(func() *logadapter.ZapAdapter {
		return logadapter.NewZapAdapter(logger.NewZapLoggerFromConfig())
	})

	// Wire up production dependencies
	deps := &cmd.Dependencies{
		LoggerFactory: func() cmd.Logger {
			return newAdapter().WithComponent("cmd")
		},

		ConfigLoader: func(repoPath, configFile string) (*cmd.AppConfig, error) {
			cfg, err := config.Load(repoPath, configFile)
			if err != nil {
				return nil, err
			}
			return &cmd.AppConfig{
				Policy:                 cfg.Policy,
				BranchEnv:              cfg.BranchEnv,
				IncludeLightweightTags: cfg.IncludeLightweightTags,
				LogLevel:               cfg.LogLevel,
				LogAppName:             cfg.LogAppName,
			}, nil
		},

		ReaderFactory: func(path string, cfg *cmd.AppConfig, _ cmd.Logger) (domain.RepositoryStateReader, error) {
			return git.NewGoGitRepository(path, git.Options{
				IncludeLightweightTags: cfg.IncludeLightweightTags,
			}, newAdapter().WithComponent("git"))
		},

		BuilderFactory: func(
			reader domain.RepositoryStateReader,
			cfg *cmd.AppConfig,
			_ cmd.Logger,
		) domain.SnapshotBuilder {
			return usecases.NewVersionSnapshotBuilder(reader, usecases.BuildOptions{
				Policy:            cfg.Policy,
				BranchOverrideEnv: cfg.BranchEnv,
			}, newAdapter().WithComponent("snapshot"))
		},

		OutputWriterFactory: func() domain.OutputWriter {
			return output.NewWriter()
		},

		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}

	cmd.SetDefaultDependencies(deps)
	cmd.Execute()
}
