// Package config resolves cfgfuzz run settings.
//
// Precedence, lowest first: built-in defaults, a .env file, CFGFUZZ_*
// environment variables, then flags given explicitly on the command line.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// ErrInvalid marks a setting that failed validation.
var ErrInvalid = errors.New("invalid configuration")

// DotEnvFile is the .env file read from the working directory.
const DotEnvFile = ".env"

// Environment variables.
const (
	EnvOut          = "CFGFUZZ_OUT"
	EnvPrefix       = "CFGFUZZ_PREFIX"
	EnvRules        = "CFGFUZZ_RULES"
	EnvSeed         = "CFGFUZZ_SEED"
	EnvMaxDocuments = "CFGFUZZ_MAX_DOCUMENTS"
	EnvManifest     = "CFGFUZZ_MANIFEST"
	EnvLogFormat    = "CFGFUZZ_LOG_FORMAT"
)

// Config is one run's settings.
type Config struct {
	OutputDir    string
	Prefix       string
	RulesPath    string
	Seed         uint64
	MaxDocuments int
	ManifestPath string

	DryRun    bool
	Verbose   bool
	Format    string
	LogFormat string
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		OutputDir: "configurations",
		Prefix:    "config",
		Format:    "text",
		LogFormat: "text",
	}
}

// LookupFunc reads one environment variable. os.LookupEnv satisfies it.
type LookupFunc func(key string) (string, bool)

// Load returns the defaults overlaid with dotenvPath and then lookup.
// A missing dotenv file is not an error. Values already present in lookup
// win over the file.
func Load(dotenvPath string, lookup LookupFunc) (Config, error) {
	cfg := Default()

	fileVars := map[string]string{}
	if dotenvPath != "" {
		vars, err := godotenv.Read(dotenvPath)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("read %s: %w", dotenvPath, err)
		default:
			fileVars = vars
		}
	}

	get := func(key string) (string, bool) {
		if lookup != nil {
			if v, ok := lookup(key); ok {
				return v, true
			}
		}
		v, ok := fileVars[key]
		return v, ok
	}

	if err := cfg.applyEnv(get); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadDefault is Load with DotEnvFile and the process environment.
func LoadDefault() (Config, error) {
	return Load(DotEnvFile, os.LookupEnv)
}

func (c *Config) applyEnv(get LookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := get(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	str(EnvOut, &c.OutputDir)
	str(EnvPrefix, &c.Prefix)
	str(EnvRules, &c.RulesPath)
	str(EnvManifest, &c.ManifestPath)
	str(EnvLogFormat, &c.LogFormat)

	if v, ok := get(EnvSeed); ok && strings.TrimSpace(v) != "" {
		seed, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %w", ErrInvalid, EnvSeed, v, err)
		}
		c.Seed = seed
	}
	if v, ok := get(EnvMaxDocuments); ok && strings.TrimSpace(v) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %w", ErrInvalid, EnvMaxDocuments, v, err)
		}
		c.MaxDocuments = n
	}
	return nil
}

// Validate checks that the settings are usable.
func (c Config) Validate() error {
	if c.OutputDir == "" {
		return fmt.Errorf("%w: output directory is empty", ErrInvalid)
	}
	if c.Prefix == "" || strings.ContainsAny(c.Prefix, `/\`) {
		return fmt.Errorf("%w: prefix %q must be a non-empty file name", ErrInvalid, c.Prefix)
	}
	if c.MaxDocuments < 0 {
		return fmt.Errorf("%w: max documents %d is negative", ErrInvalid, c.MaxDocuments)
	}
	if !oneOf(c.Format, "text", "json") {
		return fmt.Errorf("%w: format %q (want text or json)", ErrInvalid, c.Format)
	}
	if !oneOf(c.LogFormat, "text", "json") {
		return fmt.Errorf("%w: log format %q (want text or json)", ErrInvalid, c.LogFormat)
	}
	return nil
}

func oneOf(v string, allowed ...string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
