// Package python implements the Python dialect of the codegen engine.
//
// Components become calls on the kryon.dsl module with snake_case keyword
// arguments. Handlers that fit in an expression are inlined as lambdas;
// anything else is hoisted to a module-level def and referenced by name.
package python

import (
	"fmt"
	"strings"

	"github.com/teranos/kirgen/codegen"
	"github.com/teranos/kirgen/kir"
)

// Dialect spells KIR constructs in Python
type Dialect struct{}

// New returns the Python dialect
func New() *Dialect {
	return &Dialect{}
}

var _ codegen.Dialect = (*Dialect)(nil)

func (*Dialect) Language() string      { return "python" }
func (*Dialect) Aliases() []string     { return []string{"python", "py"} }
func (*Dialect) FileExtension() string { return "py" }
func (*Dialect) DefaultIndent() int    { return 4 }

func (*Dialect) Literal(v kir.Value) (string, error) {
	return Literal(v)
}

func (*Dialect) Comment(text string) string {
	return "# " + text
}

func (*Dialect) Header() []string {
	return []string{
		"# Generated from .kir by Kryon Code Generator",
		"# Do not edit manually - regenerate from source",
	}
}

func (*Dialect) DefaultRequires() []string {
	return []string{
		"from kryon import reactive as Reactive",
		"from kryon import dsl as UI",
	}
}

func (*Dialect) Require(r kir.Require) string {
	module := strings.ReplaceAll(r.Module, "/", ".")
	switch {
	case r.Line != "":
		return r.Line
	case r.Variable == "":
		return "import " + module
	default:
		return fmt.Sprintf("import %s as %s", module, r.Variable)
	}
}

func (*Dialect) StateInit(name, initial string) string {
	return fmt.Sprintf("%s = Reactive.state(%s)", name, initial)
}

func (*Dialect) PropertyName(name string) string {
	return SnakeCase(name)
}

func (*Dialect) Property(key, literal string) string {
	return key + "=" + literal + ","
}

func (*Dialect) NodeOpen(constructor string, mode codegen.NodeMode, binding string) string {
	switch mode {
	case codegen.Named:
		return fmt.Sprintf("%s = UI.%s(", binding, constructor)
	case codegen.Returned:
		return fmt.Sprintf("return UI.%s(", constructor)
	default:
		return fmt.Sprintf("UI.%s(", constructor)
	}
}

func (*Dialect) NodeClose(sep string) string {
	return ")" + sep
}

func (*Dialect) ChildrenBlock() codegen.Block {
	return codegen.Block{
		Open:  []codegen.Line{{Text: "children=["}},
		Inner: 1,
		Close: []codegen.Line{{Text: "],"}},
	}
}

func (*Dialect) RenderBlock(item, index string) codegen.Block {
	return codegen.Block{
		Open:  []codegen.Line{{Text: fmt.Sprintf("render=lambda %s, %s: [", item, index)}},
		Inner: 1,
		Close: []codegen.Line{{Text: "],"}},
	}
}

func (*Dialect) EventProperty(event string) (string, bool) {
	switch event {
	case "click", "change", "submit", "input":
		return "on_" + event, true
	}
	return "", false
}

func (*Dialect) EventValue(prop string, h codegen.Handler) []codegen.Line {
	if hoisted(h) {
		return []codegen.Line{{Text: fmt.Sprintf("%s=%s,", prop, handlerName(h))}}
	}
	body := strings.TrimSpace(h.Source)
	if body == "" {
		body = "None"
	}
	return []codegen.Line{{Text: fmt.Sprintf("%s=lambda: %s,", prop, body)}}
}

// HoistedHandler defines handlers that cannot be written as a lambda
func (*Dialect) HoistedHandler(h codegen.Handler) []codegen.Line {
	if !hoisted(h) {
		return nil
	}
	lines := []codegen.Line{{Text: fmt.Sprintf("def %s():", handlerName(h))}}
	for _, line := range codegen.Dedent(h.Source) {
		if line == "" {
			lines = append(lines, codegen.Line{})
			continue
		}
		lines = append(lines, codegen.Line{Depth: 1, Text: line})
	}
	return lines
}

func (*Dialect) DefinitionBlock(name string) codegen.Block {
	return codegen.Block{
		Open:  []codegen.Line{{Text: fmt.Sprintf("def %s(props):", name)}},
		Inner: 1,
	}
}

// AppExport binds the module-level app object the Python runtime loads
func (*Dialect) AppExport(rootVar string, window []kir.Field) ([]codegen.Line, error) {
	if len(window) == 0 {
		return []codegen.Line{{Text: "app = " + rootVar}}, nil
	}
	lit, err := Literal(kir.Value{Kind: kir.Object, Fields: window})
	if err != nil {
		return nil, err
	}
	return []codegen.Line{
		{Text: "app = {"},
		{Depth: 1, Text: fmt.Sprintf(`"root": %s,`, rootVar)},
		{Depth: 1, Text: fmt.Sprintf(`"window": %s,`, lit)},
		{Text: "}"},
	}, nil
}

func (*Dialect) ExportMap(entries []codegen.ExportEntry) []codegen.Line {
	if len(entries) == 0 {
		return []codegen.Line{{Text: "__exports__ = {}"}}
	}
	lines := []codegen.Line{{Text: "__exports__ = {"}}
	for _, e := range entries {
		lines = append(lines, codegen.Line{Depth: 1, Text: fmt.Sprintf("%s: %s,", quote(e.Name), e.Expr)})
	}
	return append(lines, codegen.Line{Text: "}"})
}

// Statement keywords that cannot appear in a lambda body
var statementPrefixes = []string{
	"if ", "for ", "while ", "return", "pass", "del ", "global ", "nonlocal ",
	"import ", "from ", "raise", "with ", "try:", "assert ", "break", "continue",
}

// hoisted reports whether h needs a def rather than a lambda
func hoisted(h codegen.Handler) bool {
	lines := codegen.Dedent(h.Source)
	if len(lines) > 1 {
		return true
	}
	if len(lines) == 0 {
		return false
	}
	line := lines[0]
	for _, p := range statementPrefixes {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return hasAssignment(line)
}

// hasAssignment finds a bare '=' or augmented assignment outside string
// literals and brackets
func hasAssignment(line string) bool {
	depth := 0
	var inString byte
	for i := 0; i < len(line); i++ {
		c := line[i]
		if inString != 0 {
			if c == '\\' {
				i++
			} else if c == inString {
				inString = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			inString = c
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case '=':
			if depth > 0 {
				continue
			}
			next := byte(0)
			if i+1 < len(line) {
				next = line[i+1]
			}
			prev := byte(0)
			if i > 0 {
				prev = line[i-1]
			}
			if next == '=' {
				i++
				continue
			}
			if prev == '=' || prev == '!' || prev == '<' || prev == '>' {
				continue
			}
			return true
		}
	}
	return false
}

func handlerName(h codegen.Handler) string {
	if codegen.IsIdentifier(h.Name, keywords) {
		return h.Name
	}
	var b strings.Builder
	b.WriteString("handle_")
	b.WriteString(h.Event)
	for _, r := range h.Name {
		if r < 128 && (r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
