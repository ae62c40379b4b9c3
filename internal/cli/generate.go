package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kostassolo/cfgfuzz/internal/ctxlog"
	"github.com/kostassolo/cfgfuzz/internal/doc"
	"github.com/kostassolo/cfgfuzz/internal/emit"
	"github.com/kostassolo/cfgfuzz/internal/expand"
	"github.com/kostassolo/cfgfuzz/internal/mutate"
	"github.com/kostassolo/cfgfuzz/internal/ruleset"
	"github.com/kostassolo/cfgfuzz/internal/store"
)

// GenerateSummary is the result of one generation run.
type GenerateSummary struct {
	RunID         string          `json:"run_id"`
	Input         string          `json:"input"`
	InputHash     string          `json:"input_hash"`
	OutputDir     string          `json:"output_dir"`
	Seed          uint64          `json:"seed"`
	Leaves        int             `json:"leaves"`
	MutableLeaves int             `json:"mutable_leaves"`
	Bound         int             `json:"bound"`
	Documents     int             `json:"documents"`
	Truncated     bool            `json:"truncated"`
	DryRun        bool            `json:"dry_run"`
	Written       []emit.Artifact `json:"written"`
	Failed        []FailedWrite   `json:"failed,omitempty"`
	Manifest      string          `json:"manifest,omitempty"`
}

// FailedWrite is a file emission that failed.
type FailedWrite struct {
	Index int    `json:"index"`
	Path  string `json:"path"`
	Error string `json:"error"`
}

func runGenerate(opts *RootOptions, inputPath string, cmd *cobra.Command) error {
	cfg := opts.Config
	formatter := opts.formatter(cmd)

	root, err := readInput(inputPath)
	if err != nil {
		return fail(formatter, ExitCommandError, ErrCodeInput, fmt.Sprintf("cannot read %s", inputPath), err)
	}
	inputHash, err := doc.Hash(root)
	if err != nil {
		return fail(formatter, ExitCommandError, ErrCodeInput, fmt.Sprintf("cannot hash %s", inputPath), err)
	}

	tables, err := ruleset.Load(cfg.RulesPath)
	if err != nil {
		return fail(formatter, ExitCommandError, ErrCodeRules, "cannot load rules", err)
	}

	seed := mutate.ResolveSeed(cfg.Seed)
	runID := opts.NewRunID()
	logger := ctxlog.FromContext(cmd.Context()).With("run_id", runID)
	ctx := ctxlog.WithLogger(cmd.Context(), logger)

	logger.Debug("starting run", "input", inputPath, "seed", seed, "rules", cfg.RulesPath)

	expander := &expand.Expander{
		Transformer:  mutate.NewTransformer(tables, mutate.NewRand(seed)),
		MaxDocuments: cfg.MaxDocuments,
	}
	res, err := expander.Expand(ctx, root)
	if err != nil {
		return fail(formatter, ExitCommandError, ErrCodeExpand, "expansion aborted", err)
	}

	summary := &GenerateSummary{
		RunID:         runID,
		Input:         inputPath,
		InputHash:     inputHash,
		OutputDir:     cfg.OutputDir,
		Seed:          seed,
		Leaves:        res.Leaves,
		MutableLeaves: res.MutableLeaves,
		Bound:         res.Bound,
		Documents:     len(res.Documents),
		Truncated:     res.Truncated,
		DryRun:        cfg.DryRun,
		Written:       []emit.Artifact{},
	}

	if cfg.DryRun {
		return formatter.Success(runID, summary, summary.writeText)
	}

	// The ledger opens before anything is written so a bad path leaves no
	// unrecorded files behind.
	var ledger *store.Store
	if cfg.ManifestPath != "" {
		ledger, err = store.Open(cfg.ManifestPath)
		if err != nil {
			return fail(formatter, ExitCommandError, ErrCodeManifest, "cannot open manifest", err)
		}
		defer ledger.Close()
	}

	emitter := &emit.Emitter{Dir: cfg.OutputDir, Prefix: cfg.Prefix}
	report, err := emitter.Emit(ctx, res.Documents)
	switch {
	case errors.Is(err, emit.ErrOutputDir):
		return fail(formatter, ExitCommandError, ErrCodeOutputDir, "cannot create output directory", err)
	case err != nil:
		return fail(formatter, ExitCommandError, ErrCodeGeneric, "emission interrupted", err)
	}

	summary.Written = report.Written
	for _, f := range report.Failed {
		summary.Failed = append(summary.Failed, FailedWrite{Index: f.Index, Path: f.Path, Error: f.Err.Error()})
	}

	if ledger != nil {
		run := store.Run{
			ID:        runID,
			InputPath: inputPath,
			InputHash: inputHash,
			OutputDir: cfg.OutputDir,
			Seed:      seed,
			Documents: len(res.Documents),
			Truncated: res.Truncated,
		}
		if err := ledger.RecordRun(ctx, run, report.Written); err != nil {
			return fail(formatter, ExitCommandError, ErrCodeManifest, "cannot record run", err)
		}
		summary.Manifest = cfg.ManifestPath
	}

	if !report.OK() {
		cliErr := CLIError{
			Code:    ErrCodeWriteFailed,
			Message: fmt.Sprintf("%d of %d configuration(s) not written", len(report.Failed), len(res.Documents)),
		}
		_ = formatter.Partial(runID, summary, cliErr, summary.writeText)
		return NewExitError(ExitFailure, cliErr.Code+": "+cliErr.Message)
	}

	return formatter.Success(runID, summary, summary.writeText)
}

func readInput(path string) (*doc.Object, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return doc.Decode(f)
}

func (s *GenerateSummary) writeText(w io.Writer) {
	fmt.Fprintf(w, "Expanded %s: %d leaves, %d mutable, %d configuration(s)\n",
		s.Input, s.Leaves, s.MutableLeaves, s.Documents)
	if s.Truncated {
		fmt.Fprintf(w, "  truncated from a bound of %d\n", s.Bound)
	}

	switch {
	case s.DryRun:
		fmt.Fprintln(w, "Dry run: nothing written")
	case len(s.Written) > 0:
		fmt.Fprintf(w, "Wrote %d file(s) to %s (%s .. %s)\n",
			len(s.Written), s.OutputDir, filepath.Base(s.Written[0].Path), filepath.Base(s.Written[len(s.Written)-1].Path))
	default:
		fmt.Fprintf(w, "Wrote 0 file(s) to %s\n", s.OutputDir)
	}
	for _, f := range s.Failed {
		fmt.Fprintf(w, "  failed %s: %s\n", f.Path, f.Error)
	}

	fmt.Fprintf(w, "Seed: %d\n", s.Seed)
	fmt.Fprintf(w, "Run: %s\n", s.RunID)
	if s.Manifest != "" {
		fmt.Fprintf(w, "Recorded in %s\n", s.Manifest)
	}
}
