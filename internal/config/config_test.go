package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func writeDotEnv(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"), envMap(nil))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	require.NoError(t, cfg.Validate())
}

func TestLoadEnvironment(t *testing.T) {
	cfg, err := Load("", envMap(map[string]string{
		EnvOut:          "out",
		EnvPrefix:       "variant",
		EnvRules:        "rules.cue",
		EnvSeed:         "18446744073709551615",
		EnvMaxDocuments: " 500 ",
		EnvManifest:     "ledger.db",
		EnvLogFormat:    "json",
	}))
	require.NoError(t, err)

	assert.Equal(t, Config{
		OutputDir:    "out",
		Prefix:       "variant",
		RulesPath:    "rules.cue",
		Seed:         ^uint64(0),
		MaxDocuments: 500,
		ManifestPath: "ledger.db",
		Format:       "text",
		LogFormat:    "json",
	}, cfg)
}

func TestLoadIgnoresBlankValues(t *testing.T) {
	cfg, err := Load("", envMap(map[string]string{EnvOut: "  ", EnvSeed: ""}))
	require.NoError(t, err)
	assert.Equal(t, "configurations", cfg.OutputDir)
	assert.Zero(t, cfg.Seed)
}

func TestLoadDotEnvBelowEnvironment(t *testing.T) {
	path := writeDotEnv(t, "CFGFUZZ_OUT=from-file\nCFGFUZZ_PREFIX=file-prefix\n# comment\nCFGFUZZ_SEED=7\n")

	cfg, err := Load(path, envMap(map[string]string{EnvOut: "from-env"}))
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.OutputDir)
	assert.Equal(t, "file-prefix", cfg.Prefix)
	assert.Equal(t, uint64(7), cfg.Seed)
}

func TestLoadDotEnvDoesNotTouchProcessEnvironment(t *testing.T) {
	path := writeDotEnv(t, "CFGFUZZ_TEST_ONLY=1\n")

	_, err := Load(path, envMap(nil))
	require.NoError(t, err)

	_, ok := os.LookupEnv("CFGFUZZ_TEST_ONLY")
	assert.False(t, ok)
}

func TestLoadDotEnvUnreadable(t *testing.T) {
	// a directory cannot be read as a file
	_, err := Load(t.TempDir(), envMap(nil))
	assert.Error(t, err)
}

func TestLoadRejectsBadNumbers(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{EnvSeed, "-1"},
		{EnvSeed, "lots"},
		{EnvMaxDocuments, "1e3"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			_, err := Load("", envMap(map[string]string{tt.key: tt.value}))
			assert.ErrorIs(t, err, ErrInvalid)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty output dir", func(c *Config) { c.OutputDir = "" }},
		{"empty prefix", func(c *Config) { c.Prefix = "" }},
		{"prefix with separator", func(c *Config) { c.Prefix = "a/b" }},
		{"negative cap", func(c *Config) { c.MaxDocuments = -1 }},
		{"unknown format", func(c *Config) { c.Format = "yaml" }},
		{"unknown log format", func(c *Config) { c.LogFormat = "logfmt" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
}

func TestApplyFlagsOnlyChanged(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"-o", "flag-out", "--seed", "9", "--dry-run", "-v", "--format=json"}))

	cfg, err := Load("", envMap(map[string]string{EnvOut: "env-out", EnvPrefix: "env-prefix", EnvMaxDocuments: "3"}))
	require.NoError(t, err)
	require.NoError(t, cfg.ApplyFlags(fs))

	assert.Equal(t, "flag-out", cfg.OutputDir)
	assert.Equal(t, "env-prefix", cfg.Prefix)
	assert.Equal(t, uint64(9), cfg.Seed)
	assert.Equal(t, 3, cfg.MaxDocuments)
	assert.True(t, cfg.DryRun)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestApplyFlagsAll(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{
		"--out", "o", "--prefix", "p", "-r", "rules.yaml", "--max-documents", "10",
		"--manifest", "m.db", "--log-format", "json",
	}))

	cfg := Default()
	require.NoError(t, cfg.ApplyFlags(fs))

	assert.Equal(t, "o", cfg.OutputDir)
	assert.Equal(t, "p", cfg.Prefix)
	assert.Equal(t, "rules.yaml", cfg.RulesPath)
	assert.Equal(t, 10, cfg.MaxDocuments)
	assert.Equal(t, "m.db", cfg.ManifestPath)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoadDefaultReadsProcessEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(EnvPrefix, "from-process")

	cfg, err := LoadDefault()
	require.NoError(t, err)
	assert.Equal(t, "from-process", cfg.Prefix)
}
