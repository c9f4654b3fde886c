package python

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/kirgen/codegen"
	"github.com/teranos/kirgen/kir"
)

func TestLiteral(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"null", `null`, "None"},
		{"bools", `[true, false]`, "[True, False]"},
		{"integer", `400`, "400"},
		{"fraction", `0.5`, "0.5"},
		{"string", `"a \"b\""`, `"a \"b\""`},
		{"multi-line", `"line1\nline2"`, "\"\"\"line1\nline2\"\"\""},
		{"multi-line with backslash", `"a\\b\nc"`, `"a\\b\nc"`},
		{"multi-line ending in quote", `"a\n\""`, `"a\n\""`},
		{"multi-line with triple quote", `"a\n\"\"\""`, `"a\n\"\"\""`},
		{"control", `"\u0001"`, `"\x01"`},
		{"object", `{"title": "x", "width": 800}`, `{"title": "x", "width": 800}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := kir.ParseValue([]byte(tt.in))
			require.NoError(t, err)
			got, err := Literal(v)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSnakeCase(t *testing.T) {
	tests := map[string]string{
		"width":           "width",
		"backgroundColor": "background_color",
		"fontSize":        "font_size",
		"layoutDirection": "layout_direction",
		"as":              "as_",
		"each":            "each",
	}
	for in, want := range tests {
		assert.Equal(t, want, SnakeCase(in), in)
	}
}

func TestHandlerInlining(t *testing.T) {
	tests := []struct {
		name   string
		source string
		hoist  bool
	}{
		{"call", `print("clicked")`, false},
		{"comparison", `check(a == b, c <= d)`, false},
		{"keyword argument", `update(value=1)`, false},
		{"equals inside string", `print("a = b")`, false},
		{"assignment", `count = count + 1`, true},
		{"augmented assignment", `count += 1`, true},
		{"statement", `pass`, true},
		{"conditional", `if ok: go()`, true},
		{"multi-line", "a()\nb()", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.hoist, hoisted(codegen.Handler{Source: tt.source}))
		})
	}
}

func TestEventValue(t *testing.T) {
	d := New()

	assert.Equal(t, []codegen.Line{{Text: `on_click=lambda: print("hi"),`}},
		d.EventValue("on_click", codegen.Handler{Name: "h", Source: ` print("hi") `}))

	h := codegen.Handler{Name: "handler-3", Event: "click", Source: "x = 1"}
	assert.Equal(t, []codegen.Line{{Text: "on_click=handle_clickhandler3,"}}, d.EventValue("on_click", h))
	assert.Equal(t, []codegen.Line{
		{Text: "def handle_clickhandler3():"},
		{Depth: 1, Text: "x = 1"},
	}, d.HoistedHandler(h))
}

func TestRequire(t *testing.T) {
	d := New()
	assert.Equal(t, "import kryon.dsl as UI", d.Require(kir.Require{Variable: "UI", Module: "kryon/dsl"}))
	assert.Equal(t, "import helpers", d.Require(kir.Require{Module: "helpers"}))
}

func TestExports(t *testing.T) {
	d := New()

	lines, err := d.AppExport("root", []kir.Field{{Key: "width", Value: kir.Value{Kind: kir.Number, Num: 640}}})
	require.NoError(t, err)
	assert.Equal(t, []codegen.Line{
		{Text: "app = {"},
		{Depth: 1, Text: `"root": root,`},
		{Depth: 1, Text: `"window": {"width": 640},`},
		{Text: "}"},
	}, lines)

	assert.Equal(t, []codegen.Line{
		{Text: "__exports__ = {"},
		{Depth: 1, Text: `"Card": Card,`},
		{Text: "}"},
	}, d.ExportMap([]codegen.ExportEntry{{Name: "Card", Expr: "Card"}}))
}
