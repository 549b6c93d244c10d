// Package graph parses the scanned files and freezes them with their import
// edges into an immutable snapshot.
package graph

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ludo-technologies/fsdscan/domain"
	"github.com/ludo-technologies/fsdscan/internal/classifier"
	"github.com/ludo-technologies/fsdscan/internal/parser"
	"github.com/ludo-technologies/fsdscan/internal/scanner"
)

// DefaultMaxFileSize is the largest file parsed; bigger files get a warning
const DefaultMaxFileSize int64 = 1 << 20

// Options configures the builder
type Options struct {
	// Aliases maps import prefixes to root-relative folders
	Aliases map[string]string

	// MaxFileSize in bytes, 0 means DefaultMaxFileSize
	MaxFileSize int64

	// Workers bounds parallel parsing, 0 means runtime.NumCPU()
	Workers int
}

// Builder reads and parses files in parallel, then classifies them and
// resolves their imports once every file is done.
type Builder struct {
	opts       Options
	classifier *classifier.Classifier
	progress   domain.ProgressManager
	logger     *zap.Logger
}

// NewBuilder creates a builder. progress and logger may be nil.
func NewBuilder(opts Options, c *classifier.Classifier, progress domain.ProgressManager, logger *zap.Logger) *Builder {
	if opts.MaxFileSize <= 0 {
		opts.MaxFileSize = DefaultMaxFileSize
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{opts: opts, classifier: c, progress: progress, logger: logger}
}

// parsed is the per-file outcome of the parallel phase
type parsed struct {
	facts   *parser.ModuleFacts
	warning string
}

// Build parses every scanned record and returns the snapshot plus the parse
// warnings, which include the scan warnings.
func (b *Builder) Build(ctx context.Context, scan *scanner.Result) (*domain.Snapshot, []domain.Warning, error) {
	records := scan.Records
	results := make([]parsed, len(records))

	var task domain.TaskProgress
	if b.progress != nil && len(records) > 0 {
		task = b.progress.StartTask("Parsing files", len(records))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.opts.Workers)
	for i, rec := range records {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			// each goroutine writes only its own slot
			results[i] = b.parseOne(gctx, rec)
			if task != nil {
				task.Increment(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	if task != nil {
		task.Complete()
	}

	known := make(map[string]bool, len(records))
	for _, rec := range records {
		known[rec.Path] = true
	}
	resolver := NewResolver(scan.Root, known, b.opts.Aliases)

	warnings := append([]domain.Warning(nil), scan.Warnings...)
	modules := make([]*domain.ModuleRecord, len(records))
	var edges []domain.ImportEdge

	for i, rec := range records {
		res := results[i]
		modules[i] = b.classifier.Classify(rec, res.facts)
		if res.facts == nil {
			warnings = append(warnings, domain.NewParseWarning(rec.RelPath, res.warning))
			b.logger.Debug("parse warning", zap.String("file", rec.RelPath), zap.String("reason", res.warning))
			continue
		}
		for _, imp := range res.facts.Imports {
			r := resolver.Resolve(rec.Path, imp.Specifier)
			edges = append(edges, domain.ImportEdge{
				From:      rec.Path,
				Specifier: imp.Specifier,
				To:        r.To,
				Kind:      imp.Kind,
				External:  r.External(),
				TypeOnly:  imp.TypeOnly,
				Line:      imp.Line,
			})
		}
	}

	snap, err := domain.NewSnapshot(scan.Root, modules, edges)
	if err != nil {
		return nil, nil, err
	}

	b.logger.Debug("import graph built",
		zap.Int("modules", snap.ModuleCount()),
		zap.Int("edges", snap.EdgeCount()),
		zap.Int("parse_warnings", len(warnings)))

	return snap, warnings, nil
}

func (b *Builder) parseOne(ctx context.Context, rec *domain.ModuleRecord) parsed {
	info, err := os.Stat(rec.Path)
	if err != nil {
		return parsed{warning: fmt.Sprintf("cannot read file: %v", err)}
	}
	if info.Size() > b.opts.MaxFileSize {
		return parsed{warning: fmt.Sprintf("file exceeds %d bytes and was not parsed", b.opts.MaxFileSize)}
	}

	source, err := os.ReadFile(rec.Path)
	if err != nil {
		return parsed{warning: fmt.Sprintf("cannot read file: %v", err)}
	}

	facts, err := parser.ExtractFile(ctx, rec.Path, source)
	if err != nil {
		var se *parser.SyntaxError
		if errors.As(err, &se) {
			return parsed{warning: fmt.Sprintf("syntax error at line %d, column %d", se.Line, se.Column)}
		}
		return parsed{warning: err.Error()}
	}
	return parsed{facts: facts}
}
