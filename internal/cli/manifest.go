package cli

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/kostassolo/cfgfuzz/internal/doc"
	"github.com/kostassolo/cfgfuzz/internal/store"
)

// RunInfo is a ledger run as shown by the CLI.
type RunInfo struct {
	ID        string    `json:"run_id"`
	Input     string    `json:"input"`
	InputHash string    `json:"input_hash"`
	OutputDir string    `json:"output_dir"`
	Seed      uint64    `json:"seed"`
	Documents int       `json:"documents"`
	Truncated bool      `json:"truncated"`
	CreatedAt time.Time `json:"created_at"`
}

// ConfigInfo is a recorded file as shown by the CLI.
type ConfigInfo struct {
	RunID string `json:"run_id"`
	Index int    `json:"index"`
	Path  string `json:"path"`
	Hash  string `json:"hash"`
}

// ManifestResult is the output of the manifest command.
type ManifestResult struct {
	Run     RunInfo      `json:"run"`
	Configs []ConfigInfo `json:"configs"`
}

// FindResult is the output of the find command.
type FindResult struct {
	Input   string       `json:"input"`
	Hash    string       `json:"hash"`
	Matches []ConfigInfo `json:"matches"`
}

// NewManifestCommand creates the manifest command.
func NewManifestCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "manifest [run-id]",
		Short: "List the files a run recorded in the manifest",
		Long: `List the configuration files recorded in the manifest ledger for a run.
Without a run ID the most recent run is shown.

Examples:
  cfgfuzz manifest --manifest cfgfuzz.db
  cfgfuzz manifest 0190a5c4-7b3e-7d61-9c2f-5e8a1b2c3d4e --manifest cfgfuzz.db --format json`,
		Args:          usageArgs(cobra.MaximumNArgs(1)),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			runID := ""
			if len(args) == 1 {
				runID = args[0]
			}
			return runManifest(opts, runID, cmd)
		},
	}
}

// NewFindCommand creates the find command.
func NewFindCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "find <config-file>",
		Short: "Find recorded files with the same content as a configuration",
		Long: `Hash a JSON configuration canonically and list every recorded file with the
same content, across all runs in the manifest ledger. Field order and
Unicode normalization do not affect the match.`,
		Args:          usageArgs(cobra.ExactArgs(1)),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFind(opts, args[0], cmd)
		},
	}
}

func openLedger(opts *RootOptions, formatter *OutputFormatter) (*store.Store, error) {
	if opts.Config.ManifestPath == "" {
		return nil, fail(formatter, ExitCommandError, ErrCodeManifest, "no manifest configured (use --manifest or CFGFUZZ_MANIFEST)", nil)
	}
	st, err := store.Open(opts.Config.ManifestPath)
	if err != nil {
		return nil, fail(formatter, ExitCommandError, ErrCodeManifest, "cannot open manifest", err)
	}
	return st, nil
}

func runManifest(opts *RootOptions, runID string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	formatter := opts.formatter(cmd)

	st, err := openLedger(opts, formatter)
	if err != nil {
		return err
	}
	defer st.Close()

	var run store.Run
	if runID == "" {
		run, err = st.LatestRun(ctx)
	} else {
		run, err = st.Run(ctx, runID)
	}
	if errors.Is(err, store.ErrNoRuns) {
		return fail(formatter, ExitCommandError, ErrCodeManifest, "manifest has no runs", nil)
	}
	if err != nil {
		return fail(formatter, ExitCommandError, ErrCodeManifest, "cannot read run", err)
	}

	records, err := st.Configs(ctx, run.ID)
	if err != nil {
		return fail(formatter, ExitCommandError, ErrCodeManifest, "cannot read configs", err)
	}

	result := ManifestResult{Run: runInfo(run), Configs: configInfos(records)}
	return formatter.Success(run.ID, result, result.writeText)
}

func runFind(opts *RootOptions, path string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	formatter := opts.formatter(cmd)

	d, err := readInput(path)
	if err != nil {
		return fail(formatter, ExitCommandError, ErrCodeInput, fmt.Sprintf("cannot read %s", path), err)
	}
	hash, err := doc.Hash(d)
	if err != nil {
		return fail(formatter, ExitCommandError, ErrCodeInput, fmt.Sprintf("cannot hash %s", path), err)
	}

	st, err := openLedger(opts, formatter)
	if err != nil {
		return err
	}
	defer st.Close()

	records, err := st.FindByHash(ctx, hash)
	if err != nil {
		return fail(formatter, ExitCommandError, ErrCodeManifest, "cannot search manifest", err)
	}

	result := FindResult{Input: path, Hash: hash, Matches: configInfos(records)}
	return formatter.Success("", result, result.writeText)
}

func runInfo(r store.Run) RunInfo {
	return RunInfo{
		ID:        r.ID,
		Input:     r.InputPath,
		InputHash: r.InputHash,
		OutputDir: r.OutputDir,
		Seed:      r.Seed,
		Documents: r.Documents,
		Truncated: r.Truncated,
		CreatedAt: r.CreatedAt,
	}
}

func configInfos(records []store.ConfigRecord) []ConfigInfo {
	out := make([]ConfigInfo, len(records))
	for i, r := range records {
		out[i] = ConfigInfo{RunID: r.RunID, Index: r.Index, Path: r.Path, Hash: r.Hash}
	}
	return out
}

func (r ManifestResult) writeText(w io.Writer) {
	fmt.Fprintf(w, "Run %s (%s)\n", r.Run.ID, r.Run.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "  input:  %s\n", r.Run.Input)
	fmt.Fprintf(w, "  output: %s\n", r.Run.OutputDir)
	fmt.Fprintf(w, "  seed:   %d\n", r.Run.Seed)
	fmt.Fprintf(w, "  files:  %d of %d\n", len(r.Configs), r.Run.Documents)
	for _, c := range r.Configs {
		fmt.Fprintf(w, "  %5d  %s  %s\n", c.Index, shortHash(c.Hash), c.Path)
	}
}

func (r FindResult) writeText(w io.Writer) {
	if len(r.Matches) == 0 {
		fmt.Fprintf(w, "No recorded configuration matches %s (%s)\n", r.Input, shortHash(r.Hash))
		return
	}
	fmt.Fprintf(w, "%d recorded configuration(s) match %s (%s):\n", len(r.Matches), r.Input, shortHash(r.Hash))
	for _, m := range r.Matches {
		fmt.Fprintf(w, "  %s  #%d  %s\n", m.RunID, m.Index, m.Path)
	}
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
