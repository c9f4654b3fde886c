// Package codegen reconstructs target-language source from a KIR document.
//
// # Architecture
//
// The package uses a two-layer design:
//  1. Language-agnostic walking (engine.go, emitter.go, events.go) decides
//     what to emit: preserved source or a structural rebuild of the tree.
//  2. Language-specific dialects (lua/, python/) decide how each construct is
//     spelled: literals, constructors, property lines, function blocks.
//
// # Preservation
//
// When a document was compiled from the target language itself, verbatim
// source captured in KIR (sources, source_declarations, definition sources)
// is emitted unchanged so that source -> KIR -> source is byte-stable.
// Otherwise the component tree and reactive manifest are translated
// structurally.
//
// # Implementing a New Dialect
//
//  1. Create package: codegen/<language>/dialect.go
//  2. Implement the Dialect interface (see below)
//  3. Add the language to targets.Lookup
//  4. Add a literal round-trip test for the new language
package codegen

import "github.com/teranos/kirgen/kir"

// NodeMode selects how a component node is bound when opened
type NodeMode int

const (
	// Inline emits a bare constructor expression, e.g. a child in a list
	Inline NodeMode = iota
	// Named binds the node to a local variable
	Named
	// Returned emits the node as the value of a return statement
	Returned
)

// Line is one output line at a depth relative to the enclosing block.
// Text may span several lines; each is indented at the same depth.
type Line struct {
	Depth int
	Text  string
}

// Block wraps content: Open lines, content at Inner extra depth, Close lines
type Block struct {
	Open  []Line
	Inner int
	Close []Line
}

// Handler is resolved event handler source ready for emission
type Handler struct {
	Name     string // handler function name from the logic block
	Event    string // KIR event type, e.g. "click"
	Source   string
	Language string
}

// ExportEntry is one name in a module's export map
type ExportEntry struct {
	Name string
	Expr string
}

// Dialect defines the syntax of one target language.
// Each target language (Lua, Python) implements this interface.
type Dialect interface {
	// Language returns the language name (e.g., "lua", "python")
	Language() string

	// Aliases returns source-language tags treated as this language, including Language()
	Aliases() []string

	// FileExtension returns the file extension without dot (e.g., "lua", "py")
	FileExtension() string

	// DefaultIndent returns the number of spaces per indentation level
	DefaultIndent() int

	// Literal converts a JSON value into a literal expression
	Literal(v kir.Value) (string, error)

	// Comment renders a single-line comment
	Comment(text string) string

	// Header returns the generated-file banner lines
	Header() []string

	// DefaultRequires returns the import preamble used when none was preserved
	DefaultRequires() []string

	// Require renders one preserved import as a statement in this language
	Require(r kir.Require) string

	// StateInit binds a reactive state variable to an initial expression
	StateInit(name, initial string) string

	// PropertyName maps a KIR property or ForEach key to this language's spelling
	PropertyName(name string) string

	// Property renders one "key = value" entry of a constructor
	Property(key, literal string) string

	// NodeOpen opens a constructor call; binding is used for Named mode
	NodeOpen(constructor string, mode NodeMode, binding string) string

	// NodeClose closes a constructor call; sep is "," or ""
	NodeClose(sep string) string

	// ChildrenBlock wraps a node's child list
	ChildrenBlock() Block

	// RenderBlock wraps ForEach children in a render function of (item, index)
	RenderBlock(item, index string) Block

	// EventProperty maps a KIR event type to a constructor property name
	EventProperty(event string) (string, bool)

	// EventValue renders an event property. Dialects that cannot inline a
	// multi-statement body reference the hoisted function by name instead.
	EventValue(prop string, h Handler) []Line

	// HoistedHandler returns a top-level definition for h, or nil when
	// EventValue inlines it
	HoistedHandler(h Handler) []Line

	// DefinitionBlock wraps a reusable component constructor function
	DefinitionBlock(name string) Block

	// AppExport returns the closing statement of an application module
	AppExport(rootVar string, window []kir.Field) ([]Line, error)

	// ExportMap returns the closing statement of a definition or library module
	ExportMap(entries []ExportEntry) []Line
}

// Speaks reports whether a source tagged lang was authored in d's language
func Speaks(d Dialect, lang string) bool {
	for _, alias := range d.Aliases() {
		if alias == lang {
			return true
		}
	}
	return false
}
