package rules

import (
	"path"
	"sort"

	"github.com/ludo-technologies/fsdscan/domain"
	"github.com/ludo-technologies/fsdscan/internal/classifier"
	"github.com/ludo-technologies/fsdscan/internal/consumers"
)

// DefaultThresholds bound the number of files a flat folder may hold
var DefaultThresholds = map[string]int{
	"hooks":      10,
	"components": 20,
	"utils":      5,
}

// DefaultNetworkModules are the imports treated as direct network access
var DefaultNetworkModules = []string{
	"axios", "ky", "node-fetch", "cross-fetch", "isomorphic-fetch", "got", "superagent", "http-client",
}

// Settings are the tunables rules read
type Settings struct {
	// Thresholds maps a folder name to the maximum number of direct files
	Thresholds map[string]int

	// NetworkModules are package names or local module names counting as network clients
	NetworkModules []string
}

// DefaultSettings returns the built-in settings
func DefaultSettings() Settings {
	th := make(map[string]int, len(DefaultThresholds))
	for k, v := range DefaultThresholds {
		th[k] = v
	}
	return Settings{
		Thresholds:     th,
		NetworkModules: append([]string(nil), DefaultNetworkModules...),
	}
}

// Folder is a directory holding at least one source file somewhere below it
type Folder struct {
	// Path is root-relative
	Path string
	Name string

	// Files are the modules directly inside the folder
	Files []*domain.ModuleRecord

	// Subdirs are the names of child folders, sorted
	Subdirs []string

	// Total counts modules at any depth below the folder
	Total int

	// TopLevel is set for folders sitting directly in a source root or the project root
	TopLevel bool
}

// Feature is one slice of the features layer
type Feature struct {
	Slug    string
	Root    string
	Modules []*domain.ModuleRecord
	Barrel  *domain.ModuleRecord
}

// Context is the read-only input of every rule predicate
type Context struct {
	Snapshot  *domain.Snapshot
	Matcher   *classifier.LayerMatcher
	Consumers *consumers.Analysis
	Settings  Settings

	folders  []*Folder
	features []*Feature
	byRoot   map[string]*Feature
}

// NewContext indexes the snapshot into folders and features
func NewContext(snap *domain.Snapshot, matcher *classifier.LayerMatcher, analysis *consumers.Analysis, settings Settings) *Context {
	ctx := &Context{
		Snapshot:  snap,
		Matcher:   matcher,
		Consumers: analysis,
		Settings:  settings,
		byRoot:    make(map[string]*Feature),
	}
	ctx.indexFolders()
	ctx.indexFeatures()
	return ctx
}

func (c *Context) indexFolders() {
	byPath := make(map[string]*Folder)
	subdirs := make(map[string]map[string]bool)

	get := func(p string) *Folder {
		f, ok := byPath[p]
		if !ok {
			f = &Folder{Path: p, Name: path.Base(p)}
			parent := parentDir(p)
			f.TopLevel = c.Matcher == nil || parent == c.Matcher.SourceRoot(p+"/_")
			byPath[p] = f
		}
		return f
	}

	for _, m := range c.Snapshot.Modules() {
		dir := parentDir(m.RelPath)
		if dir == "" {
			continue
		}
		get(dir).Files = append(get(dir).Files, m)
		for d := dir; d != ""; d = parentDir(d) {
			get(d).Total++
			if parent := parentDir(d); parent != "" {
				if subdirs[parent] == nil {
					subdirs[parent] = make(map[string]bool)
				}
				subdirs[parent][path.Base(d)] = true
			}
		}
	}

	for p, f := range byPath {
		for name := range subdirs[p] {
			f.Subdirs = append(f.Subdirs, name)
		}
		sort.Strings(f.Subdirs)
		c.folders = append(c.folders, f)
	}
	sort.Slice(c.folders, func(i, j int) bool { return c.folders[i].Path < c.folders[j].Path })
}

func (c *Context) indexFeatures() {
	for _, m := range c.Snapshot.Modules() {
		if !m.InFeature() {
			continue
		}
		f, ok := c.byRoot[m.FeatureRoot]
		if !ok {
			f = &Feature{Slug: m.FeatureSlug, Root: m.FeatureRoot}
			c.byRoot[m.FeatureRoot] = f
			c.features = append(c.features, f)
		}
		f.Modules = append(f.Modules, m)
		if m.Role == domain.RoleBarrel && parentDir(m.RelPath) == f.Root && f.Barrel == nil {
			f.Barrel = m
		}
	}
	sort.Slice(c.features, func(i, j int) bool { return c.features[i].Root < c.features[j].Root })
}

// Folders returns all folders ordered by path
func (c *Context) Folders() []*Folder {
	return c.folders
}

// Features returns all feature slices ordered by root
func (c *Context) Features() []*Feature {
	return c.features
}

// Feature returns the slice rooted at the root-relative folder root, or nil.
// Slugs are not unique: each source root may hold its own features layer.
func (c *Context) Feature(root string) *Feature {
	return c.byRoot[root]
}

// Target returns the resolved module of an edge, or nil
func (c *Context) Target(e domain.ImportEdge) *domain.ModuleRecord {
	if e.To == "" {
		return nil
	}
	return c.Snapshot.Module(e.To)
}

// Source returns the importing module of an edge
func (c *Context) Source(e domain.ImportEdge) *domain.ModuleRecord {
	return c.Snapshot.Module(e.From)
}

func parentDir(p string) string {
	d := path.Dir(p)
	if d == "." || d == "/" {
		return ""
	}
	return d
}
