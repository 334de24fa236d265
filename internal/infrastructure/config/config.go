// Package config provides configuration loading for the versionlint application.
// Settings come from built-in defaults, an optional YAML file and environment
// variables, in increasing order of precedence.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/MyCarrier-DevOps/versionlint/internal/domain"
)

// Environment variable names.
const (
	// EnvConfigFile is the path to the YAML configuration file.
	EnvConfigFile = "VERSIONLINT_CONFIG"

	// EnvReleaseBranchPrefix overrides the release-branch prefix.
	EnvReleaseBranchPrefix = "VERSIONLINT_RELEASE_BRANCH_PREFIX"

	// EnvTagPrefixes overrides the accepted tag prefixes (comma separated, release prefix first).
	EnvTagPrefixes = "VERSIONLINT_TAG_PREFIXES"

	// EnvBranchEnv names the variable holding the branch when HEAD is detached.
	EnvBranchEnv = "VERSIONLINT_BRANCH_ENV"

	// EnvSanity selects the sanity mode (lenient, strict).
	EnvSanity = "VERSIONLINT_SANITY"

	// EnvLightweightTags makes tag description consider lightweight tags.
	EnvLightweightTags = "VERSIONLINT_LIGHTWEIGHT_TAGS"

	// EnvLogLevel is the log level (debug, info, error).
	EnvLogLevel = "LOG_LEVEL"

	// EnvLogAppName is the application name for log context.
	EnvLogAppName = "LOG_APP_NAME"
)

// Default values.
const (
	DefaultConfigFileName = ".versionlint.yaml"
	DefaultBranchEnv      = "VERSIONLINT_BRANCH"
	DefaultLogLevel       = "info"
	DefaultLogAppName     = "versionlint"
)

// Configuration errors.
var (
	// ErrConfigFileNotFound indicates an explicitly requested config file does not exist.
	ErrConfigFileNotFound = errors.New("configuration file not found")

	// ErrConfigFileInvalid indicates the config file is not valid YAML or has unknown keys.
	ErrConfigFileInvalid = errors.New("configuration file is not valid")

	// ErrInvalidEnvValue indicates an environment variable holds an unparsable value.
	ErrInvalidEnvValue = errors.New("invalid environment variable value")
)

// Config holds all application configuration.
type Config struct {
	// Policy classifies branches and tags.
	Policy domain.Policy

	// BranchEnv names the environment variable consulted when HEAD is detached.
	BranchEnv string

	// IncludeLightweightTags makes tag description consider lightweight tags.
	IncludeLightweightTags bool

	// LogLevel is the logging level (debug, info, error).
	LogLevel string

	// LogAppName is the application name for log context.
	LogAppName string

	// File is the configuration file that was applied, empty if none.
	File string
}

// fileConfig is the YAML layout of the configuration file.
type fileConfig struct {
	ReleaseBranchPrefix *string  `yaml:"release_branch_prefix"`
	TagPrefixes         []string `yaml:"tag_prefixes"`
	BranchEnv           *string  `yaml:"branch_env"`
	Sanity              string   `yaml:"sanity"`
	LightweightTags     *bool    `yaml:"lightweight_tags"`
}

// Default returns the configuration used when nothing is configured.
func Default() *Config {
	return &Config{
		Policy:     domain.DefaultPolicy(),
		BranchEnv:  DefaultBranchEnv,
		LogLevel:   DefaultLogLevel,
		LogAppName: DefaultLogAppName,
	}
}

// Load loads the configuration for the repository at repoPath.
//
// The YAML file is taken from explicitFile, else from VERSIONLINT_CONFIG,
// else from .versionlint.yaml in repoPath when it exists. Environment
// variables override the file. Unparsable values fail here; the policy itself
// is validated by the caller once command-line overrides are applied.
func Load(repoPath, explicitFile string) (*Config, error) {
	cfg := Default()

	file, required := explicitFile, explicitFile != ""
	if file == "" {
		file = os.Getenv(EnvConfigFile)
		required = file != ""
	}
	if file == "" {
		file = filepath.Join(repoPath, DefaultConfigFileName)
	}

	if err := applyFile(cfg, file, required); err != nil {
		return nil, err
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyFile merges the YAML file at path into cfg. A missing file is only an
// error when it was explicitly requested.
func applyFile(cfg *Config, path string, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if required {
				return fmt.Errorf("%w: %s", ErrConfigFileNotFound, path)
			}
			return nil
		}
		return fmt.Errorf("failed to read configuration file: %w", err)
	}

	var fc fileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %s: %w", ErrConfigFileInvalid, path, err)
	}

	if fc.ReleaseBranchPrefix != nil {
		cfg.Policy.ReleaseBranchPrefix = *fc.ReleaseBranchPrefix
	}
	if fc.TagPrefixes != nil {
		cfg.Policy.TagPrefixes = fc.TagPrefixes
	}
	if fc.BranchEnv != nil {
		cfg.BranchEnv = *fc.BranchEnv
	}
	if fc.Sanity != "" {
		mode, err := domain.ParseSanityMode(fc.Sanity)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrConfigFileInvalid, path, err)
		}
		cfg.Policy.Sanity = mode
	}
	if fc.LightweightTags != nil {
		cfg.IncludeLightweightTags = *fc.LightweightTags
	}
	cfg.File = path
	return nil
}

// applyEnv merges environment variable overrides into cfg.
func applyEnv(cfg *Config) error {
	if v := os.Getenv(EnvReleaseBranchPrefix); v != "" {
		cfg.Policy.ReleaseBranchPrefix = v
	}
	if v := os.Getenv(EnvTagPrefixes); v != "" {
		cfg.Policy.TagPrefixes = SplitList(v)
	}
	if v := os.Getenv(EnvBranchEnv); v != "" {
		cfg.BranchEnv = v
	}
	if v := os.Getenv(EnvSanity); v != "" {
		mode, err := domain.ParseSanityMode(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvSanity, err)
		}
		cfg.Policy.Sanity = mode
	}
	if v := os.Getenv(EnvLightweightTags); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidEnvValue, EnvLightweightTags, v)
		}
		cfg.IncludeLightweightTags = b
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv(EnvLogAppName); v != "" {
		cfg.LogAppName = v
	}
	return nil
}

// SplitList splits a comma separated list, trimming blanks around entries.
func SplitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
