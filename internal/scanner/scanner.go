// Package scanner walks a project tree and produces the module inventory.
package scanner

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
	"go.uber.org/zap"

	"github.com/ludo-technologies/fsdscan/domain"
	"github.com/ludo-technologies/fsdscan/internal/classifier"
)

// DefaultIgnore are the folders skipped without configuration
var DefaultIgnore = []string{"node_modules", "dist", "build"}

// DefaultExtensions are the source extensions audited without configuration
var DefaultExtensions = []string{".ts", ".tsx", ".js", ".jsx"}

// Options controls what the scanner visits
type Options struct {
	// Ignore holds gitignore-syntax patterns matched against root-relative paths
	Ignore []string

	// RespectGitignore adds the patterns of <root>/.gitignore
	RespectGitignore bool

	// Extensions are the file extensions to inventory, with leading dot
	Extensions []string
}

// Result is the inventory of one scan
type Result struct {
	Root string

	// Records are placed (layer, slice, feature) but not yet role-classified,
	// ordered by relative path
	Records []*domain.ModuleRecord

	// Warnings collects unreadable sub-directories
	Warnings []domain.Warning

	IgnoredDirs int
}

// Scanner walks a root directory once
type Scanner struct {
	opts       Options
	classifier *classifier.Classifier
	logger     *zap.Logger
}

// New creates a scanner
func New(opts Options, c *classifier.Classifier, logger *zap.Logger) *Scanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(opts.Extensions) == 0 {
		opts.Extensions = DefaultExtensions
	}
	return &Scanner{opts: opts, classifier: c, logger: logger}
}

// Scan inventories every source file under root. A missing or unreadable
// root fails with a scan error; unreadable sub-directories become warnings.
func (s *Scanner) Scan(ctx context.Context, root string) (*Result, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, domain.NewScanError(root, err)
	}
	absRoot = filepath.Clean(absRoot)

	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, domain.NewScanError(absRoot, err)
	}
	if !info.IsDir() {
		return nil, domain.NewScanError(absRoot, errors.New("not a directory"))
	}
	if _, err := os.ReadDir(absRoot); err != nil {
		return nil, domain.NewScanError(absRoot, err)
	}

	matcher, err := s.compileIgnore(absRoot)
	if err != nil {
		return nil, domain.NewScanError(absRoot, err)
	}

	exts := make(map[string]bool, len(s.opts.Extensions))
	for _, e := range s.opts.Extensions {
		exts[strings.ToLower(e)] = true
	}

	result := &Result{Root: absRoot}
	walkErr := filepath.WalkDir(absRoot, func(p string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if p == absRoot {
			return err
		}

		relOS, relErr := filepath.Rel(absRoot, p)
		if relErr != nil {
			return relErr
		}
		rel := filepath.ToSlash(relOS)
		if err != nil {
			result.Warnings = append(result.Warnings, domain.NewParseWarning(rel, err.Error()))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if matcher.MatchesPath(rel) || matcher.MatchesPath(rel+"/") {
				result.IgnoredDirs++
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() || !exts[strings.ToLower(filepath.Ext(p))] {
			return nil
		}
		if matcher.MatchesPath(rel) {
			return nil
		}

		result.Records = append(result.Records, s.classifier.Place(p, rel))
		return nil
	})
	if walkErr != nil {
		if errors.Is(walkErr, context.Canceled) || errors.Is(walkErr, context.DeadlineExceeded) {
			return nil, walkErr
		}
		return nil, domain.NewScanError(absRoot, walkErr)
	}

	sort.Slice(result.Records, func(i, j int) bool {
		return result.Records[i].RelPath < result.Records[j].RelPath
	})

	s.logger.Debug("scan complete",
		zap.String("root", absRoot),
		zap.Int("files", len(result.Records)),
		zap.Int("ignored_dirs", result.IgnoredDirs),
		zap.Int("warnings", len(result.Warnings)))

	return result, nil
}

func (s *Scanner) compileIgnore(root string) (*ignore.GitIgnore, error) {
	lines := append([]string{}, s.opts.Ignore...)
	if len(lines) == 0 {
		lines = append(lines, DefaultIgnore...)
	}

	if s.opts.RespectGitignore {
		gitignore := filepath.Join(root, ".gitignore")
		if _, err := os.Stat(gitignore); err == nil {
			s.logger.Debug("using .gitignore", zap.String("path", gitignore))
			return ignore.CompileIgnoreFileAndLines(gitignore, lines...)
		}
	}
	return ignore.CompileIgnoreLines(lines...), nil
}
