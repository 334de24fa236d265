package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MyCarrier-DevOps/versionlint/internal/domain"
)

// clearEnv unsets every variable Load reads and restores them after the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		EnvConfigFile, EnvReleaseBranchPrefix, EnvTagPrefixes, EnvBranchEnv,
		EnvSanity, EnvLightweightTags, EnvLogLevel, EnvLogAppName,
	} {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, DefaultConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(t.TempDir(), "")

	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "rel-", cfg.Policy.ReleaseBranchPrefix)
	assert.Equal(t, []string{"v", "m"}, cfg.Policy.TagPrefixes)
	assert.Equal(t, domain.SanityLenient, cfg.Policy.Sanity)
	assert.Equal(t, DefaultBranchEnv, cfg.BranchEnv)
	assert.False(t, cfg.IncludeLightweightTags)
	assert.Empty(t, cfg.File)
}

func TestLoad_RepositoryFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := writeConfig(t, dir, `
release_branch_prefix: release/
tag_prefixes: [r, d]
branch_env: CI_BRANCH
sanity: strict
lightweight_tags: true
`)

	cfg, err := Load(dir, "")

	require.NoError(t, err)
	assert.Equal(t, "release/", cfg.Policy.ReleaseBranchPrefix)
	assert.Equal(t, []string{"r", "d"}, cfg.Policy.TagPrefixes)
	assert.Equal(t, domain.SanityStrict, cfg.Policy.Sanity)
	assert.Equal(t, "CI_BRANCH", cfg.BranchEnv)
	assert.True(t, cfg.IncludeLightweightTags)
	assert.Equal(t, path, cfg.File)
}

func TestLoad_EmptyFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeConfig(t, dir, "")

	cfg, err := Load(dir, "")

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultPolicy(), cfg.Policy)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeConfig(t, dir, "sanity: strict\n")

	cfg, err := Load(dir, "")

	require.NoError(t, err)
	assert.Equal(t, domain.SanityStrict, cfg.Policy.Sanity)
	assert.Equal(t, domain.DefaultReleaseBranchPrefix, cfg.Policy.ReleaseBranchPrefix)
	assert.Equal(t, domain.DefaultTagPrefixes(), cfg.Policy.TagPrefixes)
}

func TestLoad_ExplicitFile(t *testing.T) {
	clearEnv(t)
	other := t.TempDir()
	path := filepath.Join(other, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("release_branch_prefix: stable-\n"), 0o644))

	cfg, err := Load(t.TempDir(), path)

	require.NoError(t, err)
	assert.Equal(t, "stable-", cfg.Policy.ReleaseBranchPrefix)
	assert.Equal(t, path, cfg.File)
}

func TestLoad_MissingRequiredFile(t *testing.T) {
	tests := []struct {
		name     string
		explicit bool
	}{
		{name: "explicit flag", explicit: true},
		{name: "environment variable", explicit: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			missing := filepath.Join(t.TempDir(), "missing.yaml")
			explicit := ""
			if tt.explicit {
				explicit = missing
			} else {
				t.Setenv(EnvConfigFile, missing)
			}

			cfg, err := Load(t.TempDir(), explicit)

			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.ErrorIs(t, err, ErrConfigFileNotFound)
		})
	}
}

func TestLoad_InvalidFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "malformed yaml", content: "tag_prefixes: [v, m\n"},
		{name: "unknown key", content: "release_prefix: rel-\n"},
		{name: "wrong type", content: "lightweight_tags: maybe\n"},
		{name: "unknown sanity mode", content: "sanity: paranoid\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			dir := t.TempDir()
			writeConfig(t, dir, tt.content)

			_, err := Load(dir, "")

			require.Error(t, err)
			assert.ErrorIs(t, err, ErrConfigFileInvalid)
		})
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeConfig(t, dir, `
release_branch_prefix: release/
tag_prefixes: [r, d]
sanity: strict
`)
	t.Setenv(EnvReleaseBranchPrefix, "stable-")
	t.Setenv(EnvTagPrefixes, " x , y ")
	t.Setenv(EnvSanity, "LENIENT")
	t.Setenv(EnvBranchEnv, "GITHUB_HEAD_REF")
	t.Setenv(EnvLightweightTags, "1")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvLogAppName, "ci-versioning")

	cfg, err := Load(dir, "")

	require.NoError(t, err)
	assert.Equal(t, "stable-", cfg.Policy.ReleaseBranchPrefix)
	assert.Equal(t, []string{"x", "y"}, cfg.Policy.TagPrefixes)
	assert.Equal(t, domain.SanityLenient, cfg.Policy.Sanity)
	assert.Equal(t, "GITHUB_HEAD_REF", cfg.BranchEnv)
	assert.True(t, cfg.IncludeLightweightTags)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "ci-versioning", cfg.LogAppName)
}

func TestLoad_InvalidEnv(t *testing.T) {
	tests := []struct {
		name        string
		key         string
		value       string
		expectedErr error
	}{
		{
			name:        "unknown sanity mode",
			key:         EnvSanity,
			value:       "sloppy",
			expectedErr: domain.ErrInvalidSanityMode,
		},
		{
			name:        "unparsable boolean",
			key:         EnvLightweightTags,
			value:       "sometimes",
			expectedErr: ErrInvalidEnvValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			cfg, err := Load(t.TempDir(), "")

			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.ErrorIs(t, err, tt.expectedErr)
		})
	}
}

// TestLoad_LeavesPolicyValidationToCaller tests that an invalid policy loads,
// so command-line flags can still replace the offending value.
func TestLoad_LeavesPolicyValidationToCaller(t *testing.T) {
	tests := []struct {
		name        string
		value       string
		expectedErr error
	}{
		{name: "multi-character tag prefix", value: "v,rc", expectedErr: domain.ErrInvalidTagPrefix},
		{name: "empty tag prefix list", value: " , ", expectedErr: domain.ErrInvalidTagPrefix},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(EnvTagPrefixes, tt.value)

			cfg, err := Load(t.TempDir(), "")

			require.NoError(t, err)
			assert.ErrorIs(t, cfg.Policy.Validate(), tt.expectedErr)
		})
	}
}

func TestLoad_EmptyReleaseBranchPrefixEnvIgnored(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeConfig(t, dir, "release_branch_prefix: release/\n")
	t.Setenv(EnvReleaseBranchPrefix, "")

	cfg, err := Load(dir, "")

	require.NoError(t, err)
	assert.Equal(t, "release/", cfg.Policy.ReleaseBranchPrefix)
	assert.NoError(t, cfg.Policy.Validate())
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{input: "v,m", expected: []string{"v", "m"}},
		{input: " v , m ,", expected: []string{"v", "m"}},
		{input: "", expected: []string{}},
		{input: "single", expected: []string{"single"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, SplitList(tt.input))
		})
	}
}
