package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/kostassolo/cfgfuzz/internal/config"
	"github.com/kostassolo/cfgfuzz/internal/ctxlog"
	"github.com/kostassolo/cfgfuzz/internal/store"
)

// RootOptions holds what every command shares. Config is resolved before
// any command runs.
type RootOptions struct {
	Config config.Config

	// DotEnv is the .env file consulted below the environment.
	DotEnv string
	Lookup config.LookupFunc

	NewRunID func() string
}

// NewRootCommand creates the cfgfuzz command reading the process environment.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{
		DotEnv:   config.DotEnvFile,
		Lookup:   os.LookupEnv,
		NewRunID: store.NewRunID,
	})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cfgfuzz <config-file>",
		Short: "Generate mutated variants of a JSON configuration",
		Long: `Generate every combination of type-aware mutations of a JSON configuration.

Each leaf field is mutated by type: booleans are negated, numbers scaled and
shifted, percentages, hex colors, font names and yes/no style tokens swapped.
The Cartesian product of all leaves is deduplicated and written as
config1.json .. configN.json in the output directory.

Exit codes:
  0 - Every configuration written
  1 - Some configuration files could not be written
  2 - Command error (bad input, rules, output directory, ledger)

Examples:
  cfgfuzz settings.json
  cfgfuzz settings.json -o out --seed 42
  cfgfuzz settings.json --rules rules.cue --max-documents 10000
  cfgfuzz settings.json --manifest cfgfuzz.db --format json`,
		Args:          usageArgs(cobra.ExactArgs(1)),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return resolveConfig(opts, cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(opts, args[0], cmd)
		},
	}

	config.RegisterFlags(cmd.PersistentFlags())
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return WrapExitError(ExitCommandError, "usage", err)
	})

	cmd.AddCommand(NewManifestCommand(opts))
	cmd.AddCommand(NewFindCommand(opts))

	return cmd
}

// resolveConfig layers flags over the environment and installs the logger.
func resolveConfig(opts *RootOptions, cmd *cobra.Command) error {
	cfg, err := config.Load(opts.DotEnv, opts.Lookup)
	if err == nil {
		err = cfg.ApplyFlags(cmd.Flags())
	}
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		formatter := &OutputFormatter{Format: cfg.Format, Writer: cmd.OutOrStdout()}
		return fail(formatter, ExitCommandError, ErrCodeConfig, "invalid configuration", err)
	}
	opts.Config = cfg

	level := "info"
	if cfg.Verbose {
		level = "debug"
	}
	logger := ctxlog.New(cmd.ErrOrStderr(), level, cfg.LogFormat)
	cmd.SetContext(ctxlog.WithLogger(cmd.Context(), logger))
	return nil
}

// usageArgs reports positional argument errors as usage errors.
func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return WrapExitError(ExitCommandError, "usage", err)
		}
		return nil
	}
}

func (opts *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{Format: opts.Config.Format, Writer: cmd.OutOrStdout()}
}
