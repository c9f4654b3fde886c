// Package kir holds the in-memory model of a KIR (Kryon Intermediate
// Representation) document and its decoder.
//
// A Document is produced once by Decode and is read-only afterwards.
// Components live in a flat arena owned by the document; parent and child
// links are arena indices, so a tree walk never follows pointers that could
// form a cycle.
package kir

// ModuleKind classifies what a document exports
type ModuleKind int

const (
	// LibraryModule has neither a root component nor component definitions
	LibraryModule ModuleKind = iota
	// ComponentModule exports reusable component constructors
	ComponentModule
	// AppModule has a root component tree
	AppModule
)

func (k ModuleKind) String() string {
	switch k {
	case AppModule:
		return "app"
	case ComponentModule:
		return "components"
	default:
		return "library"
	}
}

// NoComponent is the arena index used for an absent component
const NoComponent = -1

// Document is a decoded KIR document
type Document struct {
	Format   string
	Metadata Metadata
	App      *AppInfo

	Reactive     *ReactiveManifest
	Logic        *LogicBlock
	Declarations *SourceDeclarations

	// Definitions merges top-level component_definitions with the reactive
	// manifest's component_definitions, keyed by name, first seen first.
	Definitions []ComponentDefinition

	Components []Component
	Root       int

	Exports []Export
	Imports []string

	// Sources maps module id to the verbatim original text of that module
	Sources map[string]string
}

// Metadata describes where a document came from
type Metadata struct {
	SourceLanguage  string `json:"source_language,omitempty" yaml:"source_language,omitempty"`
	SourceFile      string `json:"source_file,omitempty" yaml:"source_file,omitempty"`
	CompilerVersion string `json:"compiler_version,omitempty" yaml:"compiler_version,omitempty"`
	Timestamp       string `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
}

// AppInfo holds window metadata for application modules
type AppInfo struct {
	WindowTitle  string
	WindowWidth  Value
	WindowHeight Value
}

// HasWindow reports whether any window field was set
func (a *AppInfo) HasWindow() bool {
	return a != nil && (a.WindowTitle != "" || a.WindowWidth.Kind == Number || a.WindowHeight.Kind == Number)
}

// Component is one node of the component tree
type Component struct {
	Index int
	ID    int
	Type  string

	// Properties holds the component's sparse visual properties in document order
	Properties []Field
	CustomData Value

	Children []int
	Parent   int
}

// Prop returns the named property
func (c *Component) Prop(name string) (Value, bool) {
	for _, f := range c.Properties {
		if f.Key == name {
			return f.Value, true
		}
	}
	return Value{}, false
}

// Custom returns the custom_data entry for key
func (c *Component) Custom(key string) (Value, bool) {
	return c.CustomData.Get(key)
}

// ComponentDefinition is a reusable component declared by a module
type ComponentDefinition struct {
	Name     string
	Props    Value
	State    Value
	Template int // arena index, NoComponent when absent
	Source   string
}

// ReactiveManifest describes reactive state and its bindings
type ReactiveManifest struct {
	Variables    []ReactiveVar
	Bindings     []Value
	Conditionals []Value
	ForLoops     []Value
	Hooks        []Hook
}

// ReactiveVar is one state variable
type ReactiveVar struct {
	ID           int
	Name         string
	Type         string
	InitialValue Value
	SetterName   string
	Scope        string
}

// Hook records a React-style hook found in the original source
type Hook struct {
	Type         string
	Name         string
	Dependencies []string
	Callback     string
}

// LogicBlock holds event handler functions and their bindings
type LogicBlock struct {
	Functions []Function
	Bindings  []EventBinding
}

// Function is a named handler with one source per language
type Function struct {
	Name    string
	Sources []FunctionSource
}

// FunctionSource is the body of a function in one language
type FunctionSource struct {
	Language string
	Source   string
}

// EventBinding connects a component event to a handler function
type EventBinding struct {
	ComponentID int
	EventType   string
	HandlerName string
}

// Function returns the first function with the given name
func (l *LogicBlock) Function(name string) (*Function, bool) {
	if l == nil {
		return nil, false
	}
	for i := range l.Functions {
		if l.Functions[i].Name == name {
			return &l.Functions[i], true
		}
	}
	return nil, false
}

// SourceDeclarations preserves top-level statements of the original source
// so a same-language round trip can reproduce them verbatim
type SourceDeclarations struct {
	Requires          []Require
	Functions         []DeclaredFunction
	ModuleInit        string
	ModuleConstants   string
	NonReactiveState  string
	StateInit         string
	Initialization    string
	ConditionalBlocks string
	AppExport         string
}

// Require is one module import of the original source. Line is set when the
// import was preserved as a complete statement rather than a variable/module pair.
type Require struct {
	Variable string
	Module   string
	Line     string
}

// DeclaredFunction is a top-level function preserved verbatim
type DeclaredFunction struct {
	Name   string
	Source string
}

// Export is a named value a module exposes
type Export struct {
	Name     string
	Type     string
	Value    Value
	Function string
}

// Classify decides the module kind. A root component wins over definitions.
func (d *Document) Classify() ModuleKind {
	switch {
	case d.Root != NoComponent:
		return AppModule
	case len(d.Definitions) > 0:
		return ComponentModule
	default:
		return LibraryModule
	}
}

// Component returns the arena entry at index, or nil when out of range
func (d *Document) Component(index int) *Component {
	if index < 0 || index >= len(d.Components) {
		return nil
	}
	return &d.Components[index]
}

// Definition returns the named component definition
func (d *Document) Definition(name string) (*ComponentDefinition, bool) {
	for i := range d.Definitions {
		if d.Definitions[i].Name == name {
			return &d.Definitions[i], true
		}
	}
	return nil, false
}

// DeclaredFunction returns the preserved source of a top-level function
func (d *Document) DeclaredFunction(name string) (string, bool) {
	if d.Declarations == nil {
		return "", false
	}
	for _, f := range d.Declarations.Functions {
		if f.Name == name {
			return f.Source, true
		}
	}
	return "", false
}
