package classifier

import (
	"path"
	"regexp"
	"strings"

	"github.com/ludo-technologies/fsdscan/domain"
)

// RoleInput is what the role heuristics look at
type RoleInput struct {
	// RelPath is the root-relative slash path of the file
	RelPath  string
	Location Location

	// HasJSXExport is set when an export of the file returns JSX
	HasJSXExport bool
}

func (in RoleInput) base() string { return path.Base(in.RelPath) }

func (in RoleInput) ext() string { return strings.ToLower(path.Ext(in.RelPath)) }

func (in RoleInput) stem() string {
	b := in.base()
	return strings.TrimSuffix(b, path.Ext(b))
}

func (in RoleInput) dir() string {
	d := path.Dir(in.RelPath)
	if d == "." {
		return ""
	}
	return d
}

// RoleRule is one entry of the role decision list
type RoleRule struct {
	Name  string
	Match func(in RoleInput) (domain.Role, bool)
}

// SegmentRoles maps folder names to the role of the files inside them
var SegmentRoles = map[string]domain.Role{
	"model":     domain.RoleModel,
	"hooks":     domain.RoleHooks,
	"store":     domain.RoleStore,
	"api":       domain.RoleAPI,
	"lib":       domain.RoleLib,
	"config":    domain.RoleConfig,
	"constants": domain.RoleConstants,
	"schemas":   domain.RoleSchemas,
	"types":     domain.RoleTypes,
}

// FilenameCategoryRoles maps the category suffix of name.category.ts files to roles
var FilenameCategoryRoles = map[string]domain.Role{
	"constants": domain.RoleConstants,
	"config":    domain.RoleConfig,
	"schema":    domain.RoleSchemas,
	"schemas":   domain.RoleSchemas,
	"types":     domain.RoleTypes,
	"store":     domain.RoleStore,
	"api":       domain.RoleAPI,
	"model":     domain.RoleModel,
	"errors":    domain.RoleModel,
}

var (
	testPattern  = regexp.MustCompile(`\.(test|spec)\.[^.]+$`)
	storyPattern = regexp.MustCompile(`\.stories\.[^.]+$`)
	hookPattern  = regexp.MustCompile(`^use[A-Z0-9]`)
)

// RoleRules is the ordered role decision list. The first matching rule wins;
// a file no rule matches gets domain.RoleUnknown.
var RoleRules = []RoleRule{
	{
		Name: "test-file",
		Match: func(in RoleInput) (domain.Role, bool) {
			return domain.RoleTest, testPattern.MatchString(in.base())
		},
	},
	{
		Name: "story-file",
		Match: func(in RoleInput) (domain.Role, bool) {
			return domain.RoleStory, storyPattern.MatchString(in.base())
		},
	},
	{
		Name: "barrel",
		Match: func(in RoleInput) (domain.Role, bool) {
			if in.stem() != "index" || !isScriptExt(in.ext()) {
				return "", false
			}
			loc := in.Location
			if loc.Layer == domain.LayerUnknown {
				return "", false
			}
			dir := in.dir()
			return domain.RoleBarrel, dir == loc.LayerRoot || (loc.SliceRoot != "" && dir == loc.SliceRoot)
		},
	},
	{
		Name: "jsx-export",
		Match: func(in RoleInput) (domain.Role, bool) {
			ext := in.ext()
			return domain.RoleUI, (ext == ".tsx" || ext == ".jsx") && in.HasJSXExport
		},
	},
	{
		Name: "path-segment",
		Match: func(in RoleInput) (domain.Role, bool) {
			segs := in.Location.Segments
			for i := len(segs) - 1; i >= 0; i-- {
				if role, ok := SegmentRoles[segs[i]]; ok {
					return role, true
				}
			}
			// unsliced layers such as lib/ and types/ lend their name to loose files
			if !in.Location.Layer.IsSliced() && in.Location.LayerRoot != "" {
				role, ok := SegmentRoles[path.Base(in.Location.LayerRoot)]
				return role, ok
			}
			return "", false
		},
	},
	{
		Name: "filename-category",
		Match: func(in RoleInput) (domain.Role, bool) {
			parts := strings.Split(in.stem(), ".")
			if len(parts) < 2 {
				return "", false
			}
			role, ok := FilenameCategoryRoles[parts[len(parts)-1]]
			return role, ok
		},
	},
	{
		Name: "hook-filename",
		Match: func(in RoleInput) (domain.Role, bool) {
			return domain.RoleHooks, hookPattern.MatchString(in.stem())
		},
	},
}

// ClassifyRole runs the decision list and returns the role with the name of
// the rule that decided it ("" when the file fell through to unknown).
func ClassifyRole(in RoleInput) (domain.Role, string) {
	for _, rule := range RoleRules {
		if role, ok := rule.Match(in); ok {
			return role, rule.Name
		}
	}
	return domain.RoleUnknown, ""
}

// KindFor decides whether a module is a component
func KindFor(role domain.Role, hasJSXExport bool) domain.Kind {
	if role == domain.RoleUI || hasJSXExport {
		return domain.KindComponent
	}
	return domain.KindModule
}

func isScriptExt(ext string) bool {
	switch ext {
	case ".ts", ".tsx", ".js", ".jsx":
		return true
	}
	return false
}
