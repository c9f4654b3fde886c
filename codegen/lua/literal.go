package lua

import (
	"strconv"
	"strings"

	"github.com/teranos/kirgen/codegen"
	"github.com/teranos/kirgen/errors"
	"github.com/teranos/kirgen/kir"
)

var keywords = map[string]bool{
	"and": true, "break": true, "do": true, "else": true, "elseif": true,
	"end": true, "false": true, "for": true, "function": true, "goto": true,
	"if": true, "in": true, "local": true, "nil": true, "not": true,
	"or": true, "repeat": true, "return": true, "then": true, "true": true,
	"until": true, "while": true,
}

// Literal renders v as a Lua expression
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
		b.WriteString("nil")
	case kir.Bool:
		b.WriteString(strconv.FormatBool(v.Bool))
	case kir.Number:
		b.WriteString(codegen.FormatNumber(v))
	case kir.String:
		b.WriteString(String(v.Str))
	case kir.Array:
		b.WriteByte('{')
		for i, item := range v.Items {
			if i > 0 {
				b.WriteByte(',')
			}
			if err := writeLiteral(b, item); err != nil {
				return err
			}
		}
		b.WriteByte('}')
	case kir.Object:
		b.WriteByte('{')
		for i, f := range v.Fields {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(Key(f.Key))
			b.WriteByte('=')
			if err := writeLiteral(b, f.Value); err != nil {
				return err
			}
		}
		b.WriteByte('}')
	default:
		return errors.Newf("no Lua literal for value kind %d", v.Kind)
	}
	return nil
}

// Key renders a table key: bare when it is a valid identifier, ["..."] otherwise
func Key(k string) string {
	if codegen.IsIdentifier(k, keywords) {
		return k
	}
	return "[" + quote(k) + "]"
}

// String renders s as a Lua string literal. Text containing a newline uses
// long-bracket syntax with enough '=' to never collide with the content.
func String(s string) string {
	if strings.Contains(s, "\n") && !strings.Contains(s, "\r") {
		return longBracket(s)
	}
	return quote(s)
}

func longBracket(s string) string {
	level := 0
	for {
		eq := strings.Repeat("=", level)
		// a trailing "]" + eq would fuse with the closer
		if !strings.Contains(s+"]", "]"+eq+"]") {
			break
		}
		level++
	}
	eq := strings.Repeat("=", level)

	// Lua drops a newline directly after the opening bracket
	if strings.HasPrefix(s, "\n") {
		s = "\n" + s
	}
	return "[" + eq + "[" + s + "]" + eq + "]"
}

func quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"', '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if c < 0x20 || c == 0x7f {
				// three digits so a following digit is not absorbed
				b.WriteByte('\\')
				b.WriteString(pad3(int(c)))
				continue
			}
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func pad3(n int) string {
	s := strconv.Itoa(n)
	return strings.Repeat("0", 3-len(s)) + s
}
