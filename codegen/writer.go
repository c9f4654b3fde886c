package codegen

import "strings"

// Writer accumulates generated source. Indentation is passed explicitly
// on every call; the writer holds no current-depth state.
type Writer struct {
	b    strings.Builder
	unit string
}

// NewWriter creates a writer indenting by width spaces per level
func NewWriter(width int) *Writer {
	if width <= 0 {
		width = 2
	}
	return &Writer{unit: strings.Repeat(" ", width)}
}

// Indent returns the indentation string for depth
func (w *Writer) Indent(depth int) string {
	if depth <= 0 {
		return ""
	}
	return strings.Repeat(w.unit, depth)
}

// Line writes text at depth. Only the first line is indented so that
// multi-line string literals keep their exact content.
func (w *Writer) Line(depth int, text string) {
	if text == "" {
		w.b.WriteByte('\n')
		return
	}
	w.b.WriteString(w.Indent(depth))
	w.b.WriteString(text)
	w.b.WriteByte('\n')
}

// Lines writes a sequence of relative lines below base depth
func (w *Writer) Lines(base int, lines []Line) {
	for _, l := range lines {
		w.Line(base+l.Depth, l.Text)
	}
}

// Code writes a multi-line code fragment with every non-empty line at depth,
// after removing the fragment's common leading whitespace
func (w *Writer) Code(depth int, text string) {
	for _, line := range Dedent(text) {
		if strings.TrimSpace(line) == "" {
			w.b.WriteByte('\n')
			continue
		}
		w.Line(depth, line)
	}
}

// Verbatim writes text unchanged, terminated by exactly one newline
func (w *Writer) Verbatim(text string) {
	w.b.WriteString(strings.TrimRight(text, "\n"))
	w.b.WriteByte('\n')
}

// Blank writes an empty separator line unless output is empty or already
// ends in one
func (w *Writer) Blank() {
	s := w.b.String()
	if s == "" || strings.HasSuffix(s, "\n\n") {
		return
	}
	w.b.WriteByte('\n')
}

// String returns the accumulated source
func (w *Writer) String() string {
	return w.b.String()
}

// Dedent splits text into lines, drops leading and trailing blank lines, and
// removes the longest whitespace prefix shared by all non-blank lines
func Dedent(text string) []string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}

	prefix := ""
	first := true
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lead := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		if first {
			prefix, first = lead, false
			continue
		}
		for !strings.HasPrefix(lead, prefix) {
			prefix = prefix[:len(prefix)-1]
		}
	}

	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, prefix)
	}
	return lines
}
