// Package lua implements the Lua dialect of the codegen engine.
//
// Generated modules target the Kryon Lua DSL: components are table
// constructors on the UI module (UI.Button { ... }), reactive state is
// created with Reactive.state, and modules end with a return statement.
package lua

import (
	"fmt"

	"github.com/teranos/kirgen/codegen"
	"github.com/teranos/kirgen/kir"
)

// Dialect spells KIR constructs in Lua
type Dialect struct{}

// New returns the Lua dialect
func New() *Dialect {
	return &Dialect{}
}

var _ codegen.Dialect = (*Dialect)(nil)

var eventProperties = map[string]string{
	"click":  "onClick",
	"change": "onChange",
	"submit": "onSubmit",
	"input":  "onInput",
}

func (*Dialect) Language() string      { return "lua" }
func (*Dialect) Aliases() []string     { return []string{"lua"} }
func (*Dialect) FileExtension() string { return "lua" }
func (*Dialect) DefaultIndent() int    { return 2 }

func (*Dialect) Literal(v kir.Value) (string, error) {
	return Literal(v)
}

func (*Dialect) Comment(text string) string {
	return "-- " + text
}

func (*Dialect) Header() []string {
	return []string{
		"-- Generated from .kir by Kryon Code Generator",
		"-- Uses Smart DSL syntax for clean, readable code",
		"-- Do not edit manually - regenerate from source",
	}
}

func (*Dialect) DefaultRequires() []string {
	return []string{
		`local Reactive = require("kryon.reactive")`,
		`local UI = require("kryon.dsl")`,
	}
}

func (*Dialect) Require(r kir.Require) string {
	switch {
	case r.Line != "":
		return r.Line
	case r.Variable == "":
		return fmt.Sprintf("require(%s)", quote(r.Module))
	default:
		return fmt.Sprintf("local %s = require(%s)", r.Variable, quote(r.Module))
	}
}

func (*Dialect) StateInit(name, initial string) string {
	return fmt.Sprintf("local %s = Reactive.state(%s)", name, initial)
}

func (*Dialect) PropertyName(name string) string {
	return name
}

func (*Dialect) Property(key, literal string) string {
	return Key(key) + " = " + literal + ","
}

func (*Dialect) NodeOpen(constructor string, mode codegen.NodeMode, binding string) string {
	switch mode {
	case codegen.Named:
		return fmt.Sprintf("local %s = UI.%s {", binding, constructor)
	case codegen.Returned:
		return fmt.Sprintf("return UI.%s {", constructor)
	default:
		return fmt.Sprintf("UI.%s {", constructor)
	}
}

func (*Dialect) NodeClose(sep string) string {
	return "}" + sep
}

func (*Dialect) ChildrenBlock() codegen.Block {
	return codegen.Block{Open: []codegen.Line{{Text: ""}}}
}

// RenderBlock returns the ForEach children as multiple return values of a
// render function
func (*Dialect) RenderBlock(item, index string) codegen.Block {
	return codegen.Block{
		Open: []codegen.Line{
			{Text: ""},
			{Text: fmt.Sprintf("render = function(%s, %s)", item, index)},
			{Depth: 1, Text: "return"},
		},
		Inner: 2,
		Close: []codegen.Line{{Text: "end,"}},
	}
}

func (*Dialect) EventProperty(event string) (string, bool) {
	prop, ok := eventProperties[event]
	return prop, ok
}

// EventValue wraps the handler body in an anonymous function
func (*Dialect) EventValue(prop string, h codegen.Handler) []codegen.Line {
	lines := []codegen.Line{{Text: prop + " = function()"}}
	for _, line := range codegen.Dedent(h.Source) {
		if line == "" {
			lines = append(lines, codegen.Line{})
			continue
		}
		lines = append(lines, codegen.Line{Depth: 1, Text: line})
	}
	return append(lines, codegen.Line{Text: "end,"})
}

func (*Dialect) HoistedHandler(codegen.Handler) []codegen.Line {
	return nil
}

func (*Dialect) DefinitionBlock(name string) codegen.Block {
	return codegen.Block{
		Open:  []codegen.Line{{Text: fmt.Sprintf("local function %s(props)", name)}},
		Inner: 1,
		Close: []codegen.Line{{Text: "end"}},
	}
}

// AppExport returns the root node, wrapped in a table with the window
// settings when the document has any
func (*Dialect) AppExport(rootVar string, window []kir.Field) ([]codegen.Line, error) {
	if len(window) == 0 {
		return []codegen.Line{{Text: "return " + rootVar}}, nil
	}

	lines := []codegen.Line{
		{Text: "return {"},
		{Depth: 1, Text: fmt.Sprintf("root = %s,", rootVar)},
		{Depth: 1, Text: "window = {"},
	}
	for _, f := range window {
		lit, err := Literal(f.Value)
		if err != nil {
			return nil, err
		}
		lines = append(lines, codegen.Line{Depth: 2, Text: fmt.Sprintf("%s = %s,", Key(f.Key), lit)})
	}
	return append(lines,
		codegen.Line{Depth: 1, Text: "},"},
		codegen.Line{Text: "}"},
	), nil
}

func (*Dialect) ExportMap(entries []codegen.ExportEntry) []codegen.Line {
	if len(entries) == 0 {
		return []codegen.Line{{Text: "return {}"}}
	}
	lines := []codegen.Line{{Text: "return {"}}
	for _, e := range entries {
		lines = append(lines, codegen.Line{Depth: 1, Text: fmt.Sprintf("%s = %s,", Key(e.Name), e.Expr)})
	}
	return append(lines, codegen.Line{Text: "}"})
}
