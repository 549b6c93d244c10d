// Package scaffold creates a Feature-Sliced Design skeleton without touching
// anything that already exists.
package scaffold

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/ludo-technologies/fsdscan/domain"
	"github.com/ludo-technologies/fsdscan/internal/classifier"
)

// SliceSegments are the segment folders of a slice
var SliceSegments = []string{"ui", "model", "api", "lib", "config"}

// Layout maps each layer folder to its segment folders. features starts empty;
// its slices are created per feature.
var Layout = map[string][]string{
	"app":       {"ui", "router", "providers", "store", "styles", "config"},
	"processes": SliceSegments,
	"pages":     SliceSegments,
	"widgets":   SliceSegments,
	"features":  nil,
	"entities":  SliceSegments,
	"shared":    {"ui", "lib", "api", "config", "hooks", "styles", "types"},
	"test":      nil,
	"types":     nil,
}

// layerOrder is the creation order, highest layer first
var layerOrder = []string{"app", "processes", "pages", "widgets", "features", "entities", "shared", "test", "types"}

// Options controls where the skeleton goes
type Options struct {
	// SourceRoot is the folder under root holding the layers, "src" when empty
	SourceRoot string
}

// Result lists root-relative paths in creation order
type Result struct {
	Root     string   `json:"root" yaml:"root"`
	Features []string `json:"features" yaml:"features"`
	Created  []string `json:"created" yaml:"created"`
	Existing []string `json:"existing" yaml:"existing"`
}

// Scaffolder creates directories and barrels
type Scaffolder struct {
	opts   Options
	logger *zap.Logger
}

// New creates a scaffolder. logger may be nil.
func New(opts Options, logger *zap.Logger) *Scaffolder {
	if opts.SourceRoot == "" {
		opts.SourceRoot = "src"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scaffolder{opts: opts, logger: logger}
}

// FeatureSlug converts a free-form feature name such as "User Auth" into its
// folder name. It fails when nothing usable is left.
func FeatureSlug(name string) (string, error) {
	slug := classifier.ToKebabCase(strings.TrimSpace(name))
	if slug == "" {
		return "", domain.NewInvalidInputError(fmt.Sprintf("invalid feature name %q", name), nil)
	}
	return slug, nil
}

// BarrelContent is written to the index.ts of a new feature
func BarrelContent(slug string) string {
	return fmt.Sprintf("// Public API for feature '%s'\n// export { ExampleComponent } from './ui/ExampleComponent';\n", slug)
}

// Run creates the layer skeleton under root and one slice per feature.
// Existing folders and files are reported and left unchanged.
func (s *Scaffolder) Run(root string, features []string) (*Result, error) {
	slugs := make([]string, 0, len(features))
	seen := make(map[string]bool)
	for _, name := range features {
		slug, err := FeatureSlug(name)
		if err != nil {
			return nil, err
		}
		if !seen[slug] {
			seen[slug] = true
			slugs = append(slugs, slug)
		}
	}
	sort.Strings(slugs)

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, domain.NewInvalidInputError("invalid root "+root, err)
	}
	res := &Result{Root: absRoot, Features: slugs, Created: []string{}, Existing: []string{}}

	if err := s.mkdir(res, ""); err != nil {
		return nil, err
	}
	src := filepath.ToSlash(filepath.Clean(s.opts.SourceRoot))
	if err := s.mkdir(res, src); err != nil {
		return nil, err
	}
	for _, layer := range layerOrder {
		dir := src + "/" + layer
		if err := s.mkdir(res, dir); err != nil {
			return nil, err
		}
		for _, seg := range Layout[layer] {
			if err := s.mkdir(res, dir+"/"+seg); err != nil {
				return nil, err
			}
		}
	}

	for _, slug := range slugs {
		dir := src + "/features/" + slug
		if err := s.mkdir(res, dir); err != nil {
			return nil, err
		}
		for _, seg := range SliceSegments {
			if err := s.mkdir(res, dir+"/"+seg); err != nil {
				return nil, err
			}
		}
		if err := s.writeNew(res, dir+"/index.ts", BarrelContent(slug)); err != nil {
			return nil, err
		}
	}

	s.logger.Debug("scaffold finished",
		zap.String("root", absRoot),
		zap.Int("created", len(res.Created)),
		zap.Int("existing", len(res.Existing)))
	return res, nil
}

func (s *Scaffolder) mkdir(res *Result, rel string) error {
	full := filepath.Join(res.Root, filepath.FromSlash(rel))
	display := rel
	if display == "" {
		display = "."
	}

	info, err := os.Stat(full)
	switch {
	case err == nil && info.IsDir():
		res.Existing = append(res.Existing, display)
		return nil
	case err == nil:
		return domain.NewInvalidInputError(display+" exists and is not a directory", nil)
	case !errors.Is(err, fs.ErrNotExist):
		return domain.NewOutputError("cannot inspect "+display, err)
	}

	if err := os.MkdirAll(full, 0o755); err != nil {
		return domain.NewOutputError("cannot create "+display, err)
	}
	res.Created = append(res.Created, display)
	return nil
}

// writeNew creates the file only if it does not exist yet
func (s *Scaffolder) writeNew(res *Result, rel, content string) error {
	full := filepath.Join(res.Root, filepath.FromSlash(rel))
	f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		res.Existing = append(res.Existing, rel)
		return nil
	}
	if err != nil {
		return domain.NewOutputError("cannot create "+rel, err)
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return domain.NewOutputError("cannot write "+rel, err)
	}
	if err := f.Close(); err != nil {
		return domain.NewOutputError("cannot write "+rel, err)
	}
	res.Created = append(res.Created, rel)
	return nil
}
