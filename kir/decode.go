package kir

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/spf13/afero"

	"github.com/teranos/kirgen/errors"
)

// DecodeError reports a KIR file that could not be decoded
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Path == "" {
		return "decode KIR: " + e.Err.Error()
	}
	return "decode " + e.Path + ": " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Keys of a component object that are structure, not properties
var structuralKeys = map[string]bool{
	"id":          true,
	"type":        true,
	"children":    true,
	"custom_data": true,
	"properties":  true,
	"parent":      true,
}

// Binary KIR decodes maps with string keys so the result has a JSON form
var cborDecMode = func() cbor.DecMode {
	dm, err := cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]interface{}(nil)),
	}.DecMode()
	if err != nil {
		panic(err)
	}
	return dm
}()

// Decode parses KIR from JSON text or its CBOR binary encoding.
//
// Every section is optional: an empty object decodes to an empty library
// module. Input that is not valid JSON or CBOR fails with ErrMalformed; a
// top-level value that is not an object fails with ErrMissingRoot.
//
// CBOR maps carry no key order, so object literals from binary input are
// emitted in sorted key order.
func Decode(raw []byte) (*Document, error) {
	text := bytes.TrimSpace(raw)
	if len(text) == 0 {
		return nil, &DecodeError{Err: errors.NewMalformedError("empty input")}
	}

	if text[0] != '{' && text[0] != '[' && text[0] != '"' {
		converted, err := cborToJSON(raw)
		if err != nil {
			return nil, &DecodeError{Err: err}
		}
		text = converted
	}

	top, err := ParseValue(text)
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	if top.Kind != Object {
		return nil, &DecodeError{Err: errors.Wrapf(errors.ErrMissingRoot, "top-level value is %s", top.Kind)}
	}

	return buildDocument(top), nil
}

// DecodeFile reads and decodes a KIR file
func DecodeFile(fs afero.Fs, path string) (*Document, error) {
	raw, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}

	doc, err := Decode(raw)
	if err != nil {
		var de *DecodeError
		if errors.As(err, &de) {
			de.Path = path
		}
		return nil, errors.WithHint(err, "check that "+filepath.Base(path)+" is KIR JSON produced by the compiler")
	}
	return doc, nil
}

func cborToJSON(raw []byte) ([]byte, error) {
	var v interface{}
	if err := cborDecMode.Unmarshal(raw, &v); err != nil {
		return nil, errors.NewMalformedError("neither JSON nor CBOR: %v", err)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.NewMalformedError("CBOR value has no JSON form: %v", err)
	}
	return data, nil
}

func buildDocument(top Value) *Document {
	d := &Document{
		Format:  top.GetString("format"),
		Root:    NoComponent,
		Sources: map[string]string{},
	}

	if meta, ok := top.Get("metadata"); ok {
		d.Metadata = Metadata{
			SourceLanguage:  meta.GetString("source_language"),
			SourceFile:      meta.GetString("source_file"),
			CompilerVersion: meta.GetString("compiler_version"),
		}
		if ts, ok := meta.Get("timestamp"); ok {
			d.Metadata.Timestamp = ts.Text()
		}
	}

	if app, ok := top.Get("app"); ok && app.Kind == Object {
		d.App = &AppInfo{WindowTitle: app.GetString("windowTitle")}
		d.App.WindowWidth, _ = app.Get("windowWidth")
		d.App.WindowHeight, _ = app.Get("windowHeight")
	}

	root, ok := top.Get("root")
	if !ok {
		root, ok = top.Get("component")
	}
	if ok && root.Kind == Object {
		d.Root = d.addComponent(root, NoComponent)
	}

	if defs, ok := top.Get("component_definitions"); ok {
		for _, def := range defs.Items {
			d.mergeDefinition(def)
		}
	}

	if manifest, ok := top.Get("reactive_manifest"); ok && manifest.Kind == Object {
		d.Reactive = decodeManifest(manifest)
		if defs, ok := manifest.Get("component_definitions"); ok {
			for _, def := range defs.Items {
				d.mergeDefinition(def)
			}
		}
	}

	if logic, ok := top.Get("logic_block"); ok && logic.Kind == Object {
		d.Logic = decodeLogic(logic)
	}

	if decls, ok := top.Get("source_declarations"); ok && decls.Kind == Object {
		d.Declarations = decodeDeclarations(decls)
	}

	if exports, ok := top.Get("exports"); ok {
		for _, e := range exports.Items {
			if e.Kind != Object {
				continue
			}
			exp := Export{
				Name:     e.GetString("name"),
				Type:     e.GetString("type"),
				Function: e.GetString("function"),
			}
			exp.Value, _ = e.Get("value")
			if exp.Name != "" {
				d.Exports = append(d.Exports, exp)
			}
		}
	}

	if imports, ok := top.Get("imports"); ok {
		for _, imp := range imports.Items {
			id := imp.Str
			if imp.Kind == Object {
				id = imp.GetString("module")
			}
			if id != "" {
				d.Imports = append(d.Imports, id)
			}
		}
	}

	if sources, ok := top.Get("sources"); ok {
		for _, f := range sources.Fields {
			switch f.Value.Kind {
			case String:
				d.Sources[f.Key] = f.Value.Str
			case Object:
				if src, ok := f.Value.Get("source"); ok && src.Kind == String {
					d.Sources[f.Key] = src.Str
				}
			}
		}
	}

	return d
}

// addComponent appends v and its subtree to the arena and returns its index
func (d *Document) addComponent(v Value, parent int) int {
	idx := len(d.Components)
	d.Components = append(d.Components, Component{
		Index:  idx,
		ID:     NoComponent,
		Type:   v.GetString("type"),
		Parent: parent,
	})

	c := &d.Components[idx]
	if id, ok := v.Get("id"); ok {
		if n, ok := id.Int(); ok {
			c.ID = n
		}
	}

	for _, f := range v.Fields {
		if !structuralKeys[f.Key] {
			c.Properties = setField(c.Properties, f.Key, f.Value)
		}
	}
	if nested, ok := v.Get("properties"); ok {
		for _, f := range nested.Fields {
			c.Properties = setField(c.Properties, f.Key, f.Value)
		}
	}

	if custom, ok := v.Get("custom_data"); ok {
		c.CustomData = decodeCustomData(custom)
	}

	// c is invalidated by appends below
	var kids []int
	if children, ok := v.Get("children"); ok {
		for _, child := range children.Items {
			if child.Kind == Object {
				kids = append(kids, d.addComponent(child, idx))
			}
		}
	}
	d.Components[idx].Children = kids
	return idx
}

// setField replaces an existing key in place or appends it
func setField(fields []Field, key string, v Value) []Field {
	for i := range fields {
		if fields[i].Key == key {
			fields[i].Value = v
			return fields
		}
	}
	return append(fields, Field{Key: key, Value: v})
}

// custom_data is an object, or that object serialized into a string
func decodeCustomData(v Value) Value {
	if v.Kind != String {
		return v
	}
	trimmed := strings.TrimSpace(v.Str)
	if strings.HasPrefix(trimmed, "{") {
		if parsed, err := ParseValue([]byte(trimmed)); err == nil {
			return parsed
		}
	}
	return v
}

func (d *Document) mergeDefinition(v Value) {
	if v.Kind != Object {
		return
	}
	name := v.GetString("name")
	if name == "" {
		return
	}

	def, exists := d.Definition(name)
	if !exists {
		d.Definitions = append(d.Definitions, ComponentDefinition{Name: name, Template: NoComponent})
		def = &d.Definitions[len(d.Definitions)-1]
	}

	if def.Props.Kind == Null {
		def.Props, _ = v.Get("props")
	}
	if def.State.Kind == Null {
		def.State, _ = v.Get("state")
	}
	if def.Source == "" {
		for _, key := range []string{"source", "preserved_source"} {
			if src := v.GetString(key); src != "" {
				def.Source = src
				break
			}
		}
	}
	if def.Template == NoComponent {
		for _, key := range []string{"template", "template_component"} {
			if tpl, ok := v.Get(key); ok && tpl.Kind == Object {
				def.Template = d.addComponent(tpl, NoComponent)
				break
			}
		}
	}
}

func decodeManifest(v Value) *ReactiveManifest {
	m := &ReactiveManifest{}

	if vars, ok := v.Get("variables"); ok {
		for _, item := range vars.Items {
			rv := ReactiveVar{
				ID:         NoComponent,
				Name:       item.GetString("name"),
				Type:       item.GetString("type"),
				SetterName: item.GetString("setter_name"),
				Scope:      item.GetString("scope"),
			}
			if id, ok := item.Get("id"); ok {
				if n, ok := id.Int(); ok {
					rv.ID = n
				}
			}
			rv.InitialValue, _ = item.Get("initial_value")
			if rv.Name != "" {
				m.Variables = append(m.Variables, rv)
			}
		}
	}

	m.Bindings = items(v, "bindings")
	m.Conditionals = items(v, "conditionals")
	m.ForLoops = items(v, "for_loops")

	for _, h := range items(v, "hooks") {
		hook := Hook{
			Type:     h.GetString("type"),
			Name:     h.GetString("name"),
			Callback: h.GetString("callback"),
		}
		if deps, ok := h.Get("dependencies"); ok {
			hook.Dependencies = stringList(deps)
		}
		if hook.Type != "" {
			m.Hooks = append(m.Hooks, hook)
		}
	}

	return m
}

func decodeLogic(v Value) *LogicBlock {
	l := &LogicBlock{}

	for _, fn := range items(v, "functions") {
		f := Function{Name: fn.GetString("name")}
		for _, src := range items(fn, "sources") {
			fs := FunctionSource{Language: src.GetString("language"), Source: src.GetString("source")}
			if fs.Source == "" {
				fs.Source = src.GetString("source_text")
			}
			f.Sources = append(f.Sources, fs)
		}
		if f.Name != "" {
			l.Functions = append(l.Functions, f)
		}
	}

	for _, b := range items(v, "event_bindings") {
		binding := EventBinding{
			ComponentID: NoComponent,
			EventType:   b.GetString("event_type"),
			HandlerName: b.GetString("handler_name"),
		}
		if id, ok := b.Get("component_id"); ok {
			if n, ok := id.Int(); ok {
				binding.ComponentID = n
			}
		}
		l.Bindings = append(l.Bindings, binding)
	}

	return l
}

func decodeDeclarations(v Value) *SourceDeclarations {
	s := &SourceDeclarations{
		ModuleInit:        sourceText(v, "module_init"),
		ModuleConstants:   sourceText(v, "module_constants"),
		NonReactiveState:  sourceText(v, "non_reactive_state"),
		Initialization:    sourceText(v, "initialization"),
		ConditionalBlocks: sourceText(v, "conditional_blocks"),
		AppExport:         sourceText(v, "app_export"),
	}

	if st, ok := v.Get("state_init"); ok {
		if st.Kind == Object {
			s.StateInit = st.GetString("expression")
		} else {
			s.StateInit = st.Text()
		}
	}

	for _, r := range items(v, "requires") {
		if r.Kind == String {
			s.Requires = append(s.Requires, Require{Line: r.Str})
			continue
		}
		req := Require{Variable: r.GetString("variable"), Module: r.GetString("module")}
		if req.Module != "" {
			s.Requires = append(s.Requires, req)
		}
	}

	for _, fn := range items(v, "functions") {
		df := DeclaredFunction{Name: fn.GetString("name"), Source: fn.GetString("source")}
		if df.Name != "" && df.Source != "" {
			s.Functions = append(s.Functions, df)
		}
	}

	return s
}

// sourceText reads a preserved source field written as a string, an array
// of lines or statements, or an object with a "source" key
func sourceText(v Value, key string) string {
	f, ok := v.Get(key)
	if !ok {
		return ""
	}
	return textOf(f)
}

func textOf(v Value) string {
	switch v.Kind {
	case String:
		return v.Str
	case Array:
		parts := make([]string, 0, len(v.Items))
		for _, item := range v.Items {
			if s := textOf(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, "\n")
	case Object:
		if src := v.GetString("source"); src != "" {
			return src
		}
		return v.GetString("expression")
	}
	return ""
}

func items(v Value, key string) []Value {
	if f, ok := v.Get(key); ok && f.Kind == Array {
		return f.Items
	}
	return nil
}

// stringList accepts ["a","b"] or the textual form "[a, b]"
func stringList(v Value) []string {
	switch v.Kind {
	case Array:
		out := make([]string, 0, len(v.Items))
		for _, item := range v.Items {
			out = append(out, item.Text())
		}
		return out
	case String:
		inner := strings.Trim(strings.TrimSpace(v.Str), "[]")
		if strings.TrimSpace(inner) == "" {
			return []string{}
		}
		parts := strings.Split(inner, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return nil
}
