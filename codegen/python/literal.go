package python

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/teranos/kirgen/codegen"
	"github.com/teranos/kirgen/errors"
	"github.com/teranos/kirgen/kir"
)

var keywords = map[string]bool{
	"False": true, "None": true, "True": true, "and": true, "as": true,
	"assert": true, "async": true, "await": true, "break": true, "class": true,
	"continue": true, "def": true, "del": true, "elif": true, "else": true,
	"except": true, "finally": true, "for": true, "from": true, "global": true,
	"if": true, "import": true, "in": true, "is": true, "lambda": true,
	"nonlocal": true, "not": true, "or": true, "pass": true, "raise": true,
	"return": true, "try": true, "while": true, "with": true, "yield": true,
}

// Literal renders v as a Python expression
func Literal(v kir.Value) (string, error) {
	var b strings.Builder
	if err := writeLiteral(&b, v); err != nil {
		return "", err
	}
	return b.String(), nil
}

func writeLiteral(b *strings.Builder, v kir.Value) error {
	switch v.Kind {
	case kir.Null:
		b.WriteString("None")
	case kir.Bool:
		if v.Bool {
			b.WriteString("True")
		} else {
			b.WriteString("False")
		}
	case kir.Number:
		b.WriteString(codegen.FormatNumber(v))
	case kir.String:
		b.WriteString(String(v.Str))
	case kir.Array:
		b.WriteByte('[')
		for i, item := range v.Items {
			if i > 0 {
				b.WriteString(", ")
			}
			if err := writeLiteral(b, item); err != nil {
				return err
			}
		}
		b.WriteByte(']')
	case kir.Object:
		b.WriteByte('{')
		for i, f := range v.Fields {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(quote(f.Key))
			b.WriteString(": ")
			if err := writeLiteral(b, f.Value); err != nil {
				return err
			}
		}
		b.WriteByte('}')
	default:
		return errors.Newf("no Python literal for value kind %d", v.Kind)
	}
	return nil
}

// String renders s as a Python string literal. Multi-line text uses a
// triple-quoted literal when its content can be written unescaped.
func String(s string) string {
	if strings.Contains(s, "\n") && tripleSafe(s) {
		return `"""` + s + `"""`
	}
	return quote(s)
}

func tripleSafe(s string) bool {
	return !strings.Contains(s, `"""`) &&
		!strings.HasSuffix(s, `"`) &&
		!strings.ContainsAny(s, "\\\r")
}

func quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"', '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&b, `\x%02x`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// SnakeCase converts a camelCase KIR key to a Python keyword argument name.
// Names that collide with a Python keyword get a trailing underscore.
func SnakeCase(name string) string {
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	out := b.String()
	if keywords[out] {
		out += "_"
	}
	return out
}
