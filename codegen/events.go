package codegen

import (
	"strings"

	"github.com/teranos/kirgen/kir"
)

// Source tags for handler bodies written in a structural notation rather
// than a concrete scripting language
var genericLanguages = map[string]bool{
	"":           true,
	"kry":        true,
	"kir":        true,
	"structural": true,
	"generic":    true,
}

// Resolve finds the handler bound to (componentID, event) in logic.
//
// Only the first binding for a (component, event) pair is considered, even
// when its handler function is missing. Within the function, a source in
// the dialect's language is used as-is; otherwise the first non-empty source
// is used, cleaned of surrounding whitespace and one pair of enclosing braces
// when it was written in a generic notation.
func Resolve(logic *kir.LogicBlock, componentID int, event string, d Dialect) (Handler, bool) {
	if logic == nil || componentID == kir.NoComponent {
		return Handler{}, false
	}

	for _, b := range logic.Bindings {
		if b.ComponentID != componentID || b.EventType != event {
			continue
		}

		fn, ok := logic.Function(b.HandlerName)
		if !ok {
			return Handler{}, false
		}
		src, ok := selectSource(fn, d)
		if !ok {
			return Handler{}, false
		}
		return Handler{
			Name:     fn.Name,
			Event:    event,
			Source:   src.Source,
			Language: src.Language,
		}, true
	}

	return Handler{}, false
}

func selectSource(fn *kir.Function, d Dialect) (kir.FunctionSource, bool) {
	for _, src := range fn.Sources {
		if Speaks(d, src.Language) && src.Source != "" {
			return src, true
		}
	}

	for _, src := range fn.Sources {
		if src.Source == "" {
			continue
		}
		if genericLanguages[src.Language] {
			src.Source = cleanStructural(src.Source)
		}
		return src, true
	}

	return kir.FunctionSource{}, false
}

// cleanStructural strips one enclosing { } pair and the indentation shared
// by the body lines. Text on the opening brace line is trimmed on its own.
func cleanStructural(src string) string {
	s := strings.TrimSpace(src)
	if len(s) >= 2 && s[0] == '{' && s[len(s)-1] == '}' {
		s = s[1 : len(s)-1]
	} else {
		s = src
	}

	head, rest, multiline := strings.Cut(s, "\n")
	if !multiline {
		return strings.TrimSpace(s)
	}
	lines := Dedent(rest)
	if head = strings.TrimSpace(head); head != "" {
		lines = append([]string{head}, lines...)
	}
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
