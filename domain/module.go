package domain

// Layer is an architectural tier of a Feature-Sliced project
type Layer string

const (
	LayerApp      Layer = "app"
	LayerPages    Layer = "pages"
	LayerWidgets  Layer = "widgets"
	LayerFeatures Layer = "features"
	LayerEntities Layer = "entities"
	LayerShared   Layer = "shared"
	LayerDomain   Layer = "domain"
	LayerLib      Layer = "lib"
	LayerTypes    Layer = "types"
	LayerUnknown  Layer = "unknown"
)

// DefaultLayerFolders are the top-level layer folders recognized without configuration
var DefaultLayerFolders = []string{"app", "pages", "widgets", "features", "entities", "shared", "domain", "lib"}

// Rank orders layers by import direction: a module may import only layers
// with a lower or equal rank. Unknown layers rank 0 and are never checked.
func (l Layer) Rank() int {
	switch l {
	case LayerApp:
		return 6
	case LayerPages:
		return 5
	case LayerWidgets:
		return 4
	case LayerFeatures:
		return 3
	case LayerEntities:
		return 2
	case LayerShared, LayerDomain, LayerLib, LayerTypes:
		return 1
	}
	return 0
}

// IsSliced reports whether the layer is divided into named slices (features/<slug>, entities/<slug>, ...)
func (l Layer) IsSliced() bool {
	switch l {
	case LayerPages, LayerWidgets, LayerFeatures, LayerEntities:
		return true
	}
	return false
}

// Role is the responsibility a module plays inside its layer
type Role string

const (
	RoleUI        Role = "ui"
	RoleModel     Role = "model"
	RoleAPI       Role = "api"
	RoleHooks     Role = "hooks"
	RoleStore     Role = "store"
	RoleLib       Role = "lib"
	RoleConfig    Role = "config"
	RoleConstants Role = "constants"
	RoleSchemas   Role = "schemas"
	RoleTypes     Role = "types"
	RoleTest      Role = "test"
	RoleStory     Role = "story"
	RoleBarrel    Role = "barrel"
	RoleUnknown   Role = "unknown"
)

// Kind distinguishes UI components from plain modules
type Kind string

const (
	KindComponent Kind = "component"
	KindModule    Kind = "module"
)

// ModuleRecord is one source file of the audited tree.
// Records are created once per run and never mutated after classification.
type ModuleRecord struct {
	// Path is the absolute, cleaned file path and the record identity
	Path string `json:"path" yaml:"path"`

	// RelPath is the slash-separated path relative to the audit root
	RelPath string `json:"rel_path" yaml:"rel_path"`

	Layer Layer `json:"layer" yaml:"layer"`

	// FeatureSlug is the folder name after features/, literal even when not kebab-case
	FeatureSlug string `json:"feature_slug,omitempty" yaml:"feature_slug,omitempty"`

	// FeatureRoot is the root-relative folder of the feature slice (src/features/orders)
	FeatureRoot string `json:"feature_root,omitempty" yaml:"feature_root,omitempty"`

	// LayerRoot is the root-relative folder of the layer (src/features)
	LayerRoot string `json:"layer_root,omitempty" yaml:"layer_root,omitempty"`

	// SliceRoot is the root-relative slice folder for sliced layers (src/entities/user)
	SliceRoot string `json:"slice_root,omitempty" yaml:"slice_root,omitempty"`

	Role Role `json:"role" yaml:"role"`
	Kind Kind `json:"kind" yaml:"kind"`

	Exports []string `json:"exports,omitempty" yaml:"exports,omitempty"`

	// HasJSX is set when the file contains JSX elements
	HasJSX bool `json:"has_jsx" yaml:"has_jsx"`

	// CallsFetch is set when the file calls the global fetch function
	CallsFetch bool `json:"calls_fetch" yaml:"calls_fetch"`

	// ParseFailed marks files that contributed zero edges because of a parse warning
	ParseFailed bool `json:"parse_failed,omitempty" yaml:"parse_failed,omitempty"`
}

// InFeature reports whether the module lives in a feature slice
func (m *ModuleRecord) InFeature() bool {
	return m.Layer == LayerFeatures && m.FeatureSlug != ""
}

// IsAuxiliary reports whether the module is a test or story file
func (m *ModuleRecord) IsAuxiliary() bool {
	return m.Role == RoleTest || m.Role == RoleStory
}
