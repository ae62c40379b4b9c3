// Package emit writes candidate documents to numbered JSON files.
package emit

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/kostassolo/cfgfuzz/internal/ctxlog"
	"github.com/kostassolo/cfgfuzz/internal/doc"
)

// DefaultPrefix is the file name prefix consumers look for.
const DefaultPrefix = "config"

const (
	dirPerms  = 0o755
	filePerms = 0o644
)

// ErrOutputDir is returned when the output directory cannot be created.
// Nothing is written in that case.
var ErrOutputDir = errors.New("output directory unavailable")

// Artifact describes one written file.
type Artifact struct {
	Index int    `json:"index"`
	Path  string `json:"path"`
	Hash  string `json:"hash"`
}

// Failure describes one file that could not be written.
type Failure struct {
	Index int
	Path  string
	Err   error
}

// Report lists what an Emit call wrote and what it could not.
type Report struct {
	Written []Artifact
	Failed  []Failure
}

// OK reports whether every file was written.
func (r *Report) OK() bool {
	return len(r.Failed) == 0
}

// Emitter writes documents as <Dir>/<Prefix><N>.json, N counting from 1.
type Emitter struct {
	Dir    string
	Prefix string
}

// FileName returns the file name of the document at 1-based index n.
func (e *Emitter) FileName(n int) string {
	return e.prefix() + strconv.Itoa(n) + ".json"
}

func (e *Emitter) prefix() string {
	if e.Prefix == "" {
		return DefaultPrefix
	}
	return e.Prefix
}

// Emit writes every document in order. A failure to create Dir aborts with
// ErrOutputDir. A failure on a single file is logged, recorded in the report
// and does not stop the remaining writes. Each file is replaced atomically,
// so a reader never sees a partial document.
func (e *Emitter) Emit(ctx context.Context, docs []*doc.Object) (*Report, error) {
	logger := ctxlog.FromContext(ctx)

	if err := os.MkdirAll(e.Dir, dirPerms); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrOutputDir, e.Dir, err)
	}

	report := &Report{Written: make([]Artifact, 0, len(docs))}
	for i, d := range docs {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		n := i + 1
		path := filepath.Join(e.Dir, e.FileName(n))
		hash, err := e.writeOne(path, d)
		if err != nil {
			logger.Error("write failed", "path", path, "error", err)
			report.Failed = append(report.Failed, Failure{Index: n, Path: path, Err: err})
			continue
		}

		logger.Debug("wrote configuration", "path", path, "hash", hash)
		report.Written = append(report.Written, Artifact{Index: n, Path: path, Hash: hash})
	}

	logger.Info("emission complete",
		"dir", e.Dir,
		"written", len(report.Written),
		"failed", len(report.Failed),
	)
	return report, nil
}

func (e *Emitter) writeOne(path string, d *doc.Object) (string, error) {
	hash, err := doc.Hash(d)
	if err != nil {
		return "", err
	}
	data, err := Render(d)
	if err != nil {
		return "", err
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	// atomic.WriteFile leaves new files with the temp file's 0600
	if err := os.Chmod(path, filePerms); err != nil {
		return "", fmt.Errorf("failed to set file permissions: %w", err)
	}
	return hash, nil
}

// Render formats d the way Emit writes it: two-space indentation in the
// document's own field order, with a trailing newline.
func Render(d *doc.Object) ([]byte, error) {
	data, err := doc.MarshalIndent(d, "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// ParseIndex extracts N from a file name of the form <prefix><N>.json.
// N must be a positive decimal integer without a sign or leading zeros.
func ParseIndex(name, prefix string) (int, bool) {
	rest, ok := strings.CutPrefix(filepath.Base(name), prefix)
	if !ok {
		return 0, false
	}
	digits, ok := strings.CutSuffix(rest, ".json")
	if !ok || digits == "" || digits[0] == '0' {
		return 0, false
	}
	for _, c := range digits {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}
