package classifier

import (
	"path"
	"sort"
	"strings"

	"github.com/ludo-technologies/fsdscan/domain"
)

// LayerFolder binds a root-relative folder prefix to a layer
type LayerFolder struct {
	Layer  domain.Layer
	Prefix string
}

// Location is where a file sits in the layered structure
type Location struct {
	Layer domain.Layer

	// LayerRoot is the matched layer folder (src/features), empty for unknown layers
	LayerRoot string

	// Slice and SliceRoot are set for files inside a slice of a sliced layer
	Slice     string
	SliceRoot string

	// Segments are the directories between the slice (or layer) root and the
	// file, shallowest first. For unknown layers they start below the source root.
	Segments []string
}

// LayerMatcher classifies paths by longest matching layer folder prefix
type LayerMatcher struct {
	folders     []LayerFolder
	sourceRoots []string
}

// NewLayerMatcher builds a matcher for the given layer folder names, tried
// under every source root and at the project root. extra maps a layer name to
// additional root-relative folders.
func NewLayerMatcher(sourceRoots, folders []string, extra map[string][]string) *LayerMatcher {
	roots := make([]string, 0, len(sourceRoots)+1)
	for _, r := range sourceRoots {
		r = cleanRel(r)
		if r != "" {
			roots = append(roots, r)
		}
	}
	sort.SliceStable(roots, func(i, j int) bool { return len(roots[i]) > len(roots[j]) })
	roots = append(roots, "")

	names := append([]string{}, folders...)
	if !contains(names, string(domain.LayerTypes)) {
		names = append(names, string(domain.LayerTypes))
	}

	seen := make(map[string]bool)
	m := &LayerMatcher{sourceRoots: roots}
	add := func(layer domain.Layer, prefix string) {
		prefix = cleanRel(prefix)
		if prefix == "" || seen[prefix] {
			return
		}
		seen[prefix] = true
		m.folders = append(m.folders, LayerFolder{Layer: layer, Prefix: prefix})
	}
	for _, name := range names {
		for _, root := range roots {
			add(domain.Layer(name), path.Join(root, name))
		}
	}
	layerNames := make([]string, 0, len(extra))
	for name := range extra {
		layerNames = append(layerNames, name)
	}
	sort.Strings(layerNames)
	for _, name := range layerNames {
		for _, p := range extra[name] {
			add(domain.Layer(name), p)
		}
	}

	sort.SliceStable(m.folders, func(i, j int) bool {
		return len(m.folders[i].Prefix) > len(m.folders[j].Prefix)
	})
	return m
}

// Folders returns the layer folders, longest prefix first
func (m *LayerMatcher) Folders() []LayerFolder {
	return append([]LayerFolder(nil), m.folders...)
}

// SourceRoot returns the longest configured source root containing rel, or ""
func (m *LayerMatcher) SourceRoot(rel string) string {
	for _, r := range m.sourceRoots {
		if r != "" && strings.HasPrefix(rel, r+"/") {
			return r
		}
	}
	return ""
}

// Locate classifies a root-relative slash path
func (m *LayerMatcher) Locate(rel string) Location {
	rel = cleanRel(rel)
	dir := path.Dir(rel)
	if dir == "." {
		dir = ""
	}

	for _, f := range m.folders {
		if !strings.HasPrefix(rel, f.Prefix+"/") {
			continue
		}
		loc := Location{Layer: f.Layer, LayerRoot: f.Prefix}
		inner := splitDir(strings.TrimPrefix(dir, f.Prefix))
		if f.Layer.IsSliced() && len(inner) > 0 {
			loc.Slice = inner[0]
			loc.SliceRoot = path.Join(f.Prefix, inner[0])
			inner = inner[1:]
		}
		loc.Segments = inner
		return loc
	}

	root := m.SourceRoot(rel)
	return Location{
		Layer:    domain.LayerUnknown,
		Segments: splitDir(strings.TrimPrefix(dir, root)),
	}
}

func splitDir(dir string) []string {
	dir = strings.Trim(dir, "/")
	if dir == "" {
		return nil
	}
	return strings.Split(dir, "/")
}

func cleanRel(p string) string {
	p = path.Clean(strings.ReplaceAll(p, "\\", "/"))
	p = strings.TrimPrefix(p, "./")
	if p == "." || p == "/" {
		return ""
	}
	return strings.Trim(p, "/")
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
