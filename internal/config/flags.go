package config

import (
	"github.com/spf13/pflag"
)

// Flag names.
const (
	FlagOut          = "out"
	FlagPrefix       = "prefix"
	FlagRules        = "rules"
	FlagSeed         = "seed"
	FlagMaxDocuments = "max-documents"
	FlagManifest     = "manifest"
	FlagDryRun       = "dry-run"
	FlagFormat       = "format"
	FlagVerbose      = "verbose"
	FlagLogFormat    = "log-format"
)

// RegisterFlags adds every setting to fs with the built-in defaults.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.StringP(FlagOut, "o", d.OutputDir, "output directory (env "+EnvOut+")")
	fs.String(FlagPrefix, d.Prefix, "output file name prefix (env "+EnvPrefix+")")
	fs.StringP(FlagRules, "r", d.RulesPath, "rule table file: .cue, .hcl, .yaml, .yml, .json or .jsonc (env "+EnvRules+")")
	fs.Uint64(FlagSeed, d.Seed, "random seed, 0 picks one (env "+EnvSeed+")")
	fs.Int(FlagMaxDocuments, d.MaxDocuments, "cap on generated documents, 0 is unbounded (env "+EnvMaxDocuments+")")
	fs.String(FlagManifest, d.ManifestPath, "SQLite manifest ledger path, empty disables (env "+EnvManifest+")")
	fs.Bool(FlagDryRun, d.DryRun, "expand and report without writing files")
	fs.String(FlagFormat, d.Format, "summary format (text|json)")
	fs.BoolP(FlagVerbose, "v", d.Verbose, "debug logging")
	fs.String(FlagLogFormat, d.LogFormat, "log format (text|json) (env "+EnvLogFormat+")")
}

// ApplyFlags copies the flags the user set explicitly onto c. Flags left
// at their defaults do not override environment values.
func (c *Config) ApplyFlags(fs *pflag.FlagSet) error {
	var err error
	set := func(name string, apply func() error) {
		if err == nil && fs.Changed(name) {
			err = apply()
		}
	}

	set(FlagOut, func() (e error) { c.OutputDir, e = fs.GetString(FlagOut); return })
	set(FlagPrefix, func() (e error) { c.Prefix, e = fs.GetString(FlagPrefix); return })
	set(FlagRules, func() (e error) { c.RulesPath, e = fs.GetString(FlagRules); return })
	set(FlagSeed, func() (e error) { c.Seed, e = fs.GetUint64(FlagSeed); return })
	set(FlagMaxDocuments, func() (e error) { c.MaxDocuments, e = fs.GetInt(FlagMaxDocuments); return })
	set(FlagManifest, func() (e error) { c.ManifestPath, e = fs.GetString(FlagManifest); return })
	set(FlagDryRun, func() (e error) { c.DryRun, e = fs.GetBool(FlagDryRun); return })
	set(FlagFormat, func() (e error) { c.Format, e = fs.GetString(FlagFormat); return })
	set(FlagVerbose, func() (e error) { c.Verbose, e = fs.GetBool(FlagVerbose); return })
	set(FlagLogFormat, func() (e error) { c.LogFormat, e = fs.GetString(FlagLogFormat); return })

	return err
}
