package kir

import (
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/kirgen/errors"
)

const appKIR = `{
  "format": "kir",
  "metadata": {"source_language": "lua", "source_file": "app.lua", "compiler_version": "1.4.0", "timestamp": 1700000000},
  "app": {"windowTitle": "Counter", "windowWidth": 800, "windowHeight": 600},
  "root": {
    "id": 1, "type": "Column", "padding": 16, "width": "0px",
    "children": [
      {"id": 2, "type": "Text", "text": "Hello"},
      {"id": 3, "type": "Button", "properties": {"text": "Click"}, "custom_data": "{\"role\": \"primary\"}"}
    ]
  },
  "reactive_manifest": {
    "variables": [{"id": 1, "name": "count", "type": "number", "initial_value": "0", "scope": "global"}],
    "hooks": [{"type": "useEffect", "callback": "() => {}", "dependencies": "[count, step]"}],
    "component_definitions": [{"name": "Badge", "template_component": {"type": "Text", "text": "new"}}]
  },
  "logic_block": {
    "functions": [{"name": "handler_3_click", "sources": [{"language": "lua", "source": "print(\"Button clicked!\")"}]}],
    "event_bindings": [{"component_id": 3, "event_type": "click", "handler_name": "handler_3_click"}]
  },
  "source_declarations": {
    "requires": [{"variable": "UI", "module": "kryon.dsl"}, "local json = require(\"json\")"],
    "state_init": {"expression": "local count = Reactive.state(0)"},
    "module_constants": ["local A = 1", "local B = 2"],
    "functions": [{"name": "helper", "source": "local function helper() end"}]
  },
  "imports": ["components/card", {"module": "dsl"}],
  "sources": {"main": "-- original\n", "components/card": {"source": "return {}\n"}}
}`

func TestDecode_App(t *testing.T) {
	doc, err := Decode([]byte(appKIR))
	require.NoError(t, err)

	assert.Equal(t, "kir", doc.Format)
	assert.Equal(t, "lua", doc.Metadata.SourceLanguage)
	assert.Equal(t, "1.4.0", doc.Metadata.CompilerVersion)
	assert.Equal(t, "1700000000", doc.Metadata.Timestamp)
	require.NotNil(t, doc.App)
	assert.Equal(t, "Counter", doc.App.WindowTitle)
	assert.True(t, doc.App.HasWindow())

	assert.Equal(t, AppModule, doc.Classify())
	root := doc.Component(doc.Root)
	require.NotNil(t, root)
	assert.Equal(t, "Column", root.Type)
	assert.Equal(t, 1, root.ID)
	assert.Equal(t, NoComponent, root.Parent)
	require.Len(t, root.Children, 2)

	padding, ok := root.Prop("padding")
	require.True(t, ok)
	assert.Equal(t, 16.0, padding.Num)

	// Every child's parent index points back at its container
	for _, childIdx := range root.Children {
		assert.Equal(t, root.Index, doc.Component(childIdx).Parent)
	}

	button := doc.Component(root.Children[1])
	text, ok := button.Prop("text")
	require.True(t, ok, "nested properties object merges into the property list")
	assert.Equal(t, "Click", text.Str)
	role, ok := button.Custom("role")
	require.True(t, ok, "string-encoded custom_data is parsed")
	assert.Equal(t, "primary", role.Str)

	require.NotNil(t, doc.Reactive)
	require.Len(t, doc.Reactive.Variables, 1)
	assert.Equal(t, "count", doc.Reactive.Variables[0].Name)
	assert.Equal(t, "0", doc.Reactive.Variables[0].InitialValue.Str)
	require.Len(t, doc.Reactive.Hooks, 1)
	assert.Equal(t, []string{"count", "step"}, doc.Reactive.Hooks[0].Dependencies)

	def, ok := doc.Definition("Badge")
	require.True(t, ok)
	assert.NotEqual(t, NoComponent, def.Template)
	assert.Equal(t, "Text", doc.Component(def.Template).Type)

	fn, ok := doc.Logic.Function("handler_3_click")
	require.True(t, ok)
	assert.Equal(t, `print("Button clicked!")`, fn.Sources[0].Source)
	assert.Equal(t, 3, doc.Logic.Bindings[0].ComponentID)

	decls := doc.Declarations
	require.NotNil(t, decls)
	assert.Equal(t, "local count = Reactive.state(0)", decls.StateInit)
	assert.Equal(t, "local A = 1\nlocal B = 2", decls.ModuleConstants)
	require.Len(t, decls.Requires, 2)
	assert.Equal(t, Require{Variable: "UI", Module: "kryon.dsl"}, decls.Requires[0])
	assert.Equal(t, `local json = require("json")`, decls.Requires[1].Line)
	src, ok := doc.DeclaredFunction("helper")
	assert.True(t, ok)
	assert.Equal(t, "local function helper() end", src)

	assert.Equal(t, []string{"components/card", "dsl"}, doc.Imports)
	assert.Equal(t, "-- original\n", doc.Sources["main"])
	assert.Equal(t, "return {}\n", doc.Sources["components/card"])
}

func TestDecode_OptionalSectionsAbsent(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty object", `{}`},
		{"format only", `{"format": "kir"}`},
		{"null root", `{"root": null, "imports": []}`},
		{"wrong section shapes", `{"logic_block": [], "reactive_manifest": "x", "exports": {}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Decode([]byte(tt.in))
			require.NoError(t, err)
			assert.Equal(t, LibraryModule, doc.Classify())
			assert.Equal(t, NoComponent, doc.Root)
			assert.Empty(t, doc.Components)
			assert.Nil(t, doc.Logic)
			assert.NotNil(t, doc.Sources)
		})
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		sentinel error
	}{
		{"truncated", `{"root": {"type": "Text"`, errors.ErrMalformed},
		{"trailing garbage", `{} {}`, errors.ErrMalformed},
		{"empty", "   ", errors.ErrMalformed},
		{"binary garbage", "\xff\xfe\x00", errors.ErrMalformed},
		{"top-level array", `[1, 2]`, errors.ErrMissingRoot},
		{"top-level string", `"kir"`, errors.ErrMissingRoot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.in))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.sentinel), "got %v", err)
			assert.True(t, errors.IsDecodeError(err))

			var de *DecodeError
			assert.True(t, errors.As(err, &de))
		})
	}
}

func TestDecode_EachSourceKeysKeepBackslashes(t *testing.T) {
	doc, err := Decode([]byte(`{"root": {"id": 1, "type": "ForEach",
	  "custom_data": {"each_item_name": "dir", "each_source": {"C:\\temp": 1, "\\u": 2}}}}`))
	require.NoError(t, err)

	src, ok := doc.Component(doc.Root).Custom("each_source")
	require.True(t, ok)
	require.Len(t, src.Fields, 2)
	assert.Equal(t, `C:\temp`, src.Fields[0].Key)
	assert.Equal(t, `\u`, src.Fields[1].Key)
}

func TestDecode_ComponentDefinitionsMergeByName(t *testing.T) {
	in := `{
	  "component_definitions": [
	    {"name": "Card", "props": [{"name": "title"}], "template": {"type": "Column"}},
	    {"name": "Avatar"}
	  ],
	  "reactive_manifest": {
	    "component_definitions": [
	      {"name": "Avatar", "template_component": {"type": "Row"}, "preserved_source": "local function Avatar() end"},
	      {"name": "Card", "template_component": {"type": "Text"}}
	    ]
	  }
	}`

	doc, err := Decode([]byte(in))
	require.NoError(t, err)
	assert.Equal(t, ComponentModule, doc.Classify())
	require.Len(t, doc.Definitions, 2)

	assert.Equal(t, "Card", doc.Definitions[0].Name)
	assert.Equal(t, "Column", doc.Component(doc.Definitions[0].Template).Type, "first template wins")
	assert.Equal(t, Array, doc.Definitions[0].Props.Kind)

	assert.Equal(t, "Avatar", doc.Definitions[1].Name)
	assert.Equal(t, "Row", doc.Component(doc.Definitions[1].Template).Type)
	assert.Equal(t, "local function Avatar() end", doc.Definitions[1].Source)
}

func TestDecode_RootAndDefinitionsIsApp(t *testing.T) {
	doc, err := Decode([]byte(`{"component": {"type": "Text"}, "component_definitions": [{"name": "Card"}]}`))
	require.NoError(t, err)
	assert.Equal(t, AppModule, doc.Classify())
}

func TestDecode_CBOR(t *testing.T) {
	in := map[string]interface{}{
		"format": "kir",
		"root": map[string]interface{}{
			"id":   7,
			"type": "Text",
			"text": "binary",
		},
		"imports": []interface{}{"lib/util"},
	}
	raw, err := cbor.Marshal(in)
	require.NoError(t, err)

	doc, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, AppModule, doc.Classify())
	root := doc.Component(doc.Root)
	assert.Equal(t, 7, root.ID)
	text, _ := root.Prop("text")
	assert.Equal(t, "binary", text.Str)
	assert.Equal(t, []string{"lib/util"}, doc.Imports)
}

func TestDecodeFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "build/app.kir", []byte(`{"root": {"type": "Text"}}`), 0644))
	require.NoError(t, afero.WriteFile(fs, "build/bad.kir", []byte(`{`), 0644))

	doc, err := DecodeFile(fs, "build/app.kir")
	require.NoError(t, err)
	assert.Equal(t, AppModule, doc.Classify())

	_, err = DecodeFile(fs, "build/bad.kir")
	require.Error(t, err)
	var de *DecodeError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "build/bad.kir", de.Path)
	assert.NotEmpty(t, errors.GetAllHints(err))

	_, err = DecodeFile(fs, "build/missing.kir")
	assert.Error(t, err)
	assert.False(t, errors.IsDecodeError(err))
}
