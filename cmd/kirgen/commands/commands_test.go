package commands

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/kirgen/kir"
	"github.com/teranos/kirgen/version"
)

const counterKIR = `{
  "format": "kir",
  "metadata": {"source_language": "lua", "source_file": "counter.lua", "compiler_version": "1.4.0"},
  "root": {"id": 1, "type": "Column", "children": [
    {"id": 2, "type": "Text", "text": "0"},
    {"id": 3, "type": "Button", "text": "+"}
  ]},
  "reactive_manifest": {"variables": [{"id": 1, "name": "count", "type": "int", "initial_value": "0"}]},
  "logic_block": {
    "functions": [{"name": "increment", "sources": [
      {"language": "lua", "source": "count.value = count.value + 1"},
      {"language": "python", "source": "count.value += 1"}
    ]}],
    "event_bindings": [{"component_id": 3, "event_type": "click", "handler_name": "increment"}]
  },
  "imports": ["components/header", "kryon.runtime"],
  "sources": {"main": "local x = 1\n"}
}`

func TestSummarize(t *testing.T) {
	doc, err := kir.Decode([]byte(counterKIR))
	require.NoError(t, err)

	s := Summarize(doc)

	assert.Equal(t, "app", s.Kind)
	assert.Equal(t, "kir", s.Format)
	assert.Equal(t, "lua", s.Metadata.SourceLanguage)
	assert.Equal(t, 3, s.Components)
	assert.Equal(t, []string{"count"}, s.StateVariables)
	assert.Equal(t, []string{"increment (lua, python)"}, s.Handlers)
	assert.Equal(t, 1, s.EventBindings)
	assert.Equal(t, []string{"components/header", "kryon.runtime"}, s.Imports)
	assert.Equal(t, []string{"main"}, s.PreservedSources)
	assert.Empty(t, s.Definitions)
}

func TestSummarize_JSONOmitsEmpty(t *testing.T) {
	doc, err := kir.Decode([]byte(`{"component_definitions": [{"name": "Card"}]}`))
	require.NoError(t, err)

	data, err := json.Marshal(Summarize(doc))
	require.NoError(t, err)

	assert.Contains(t, string(data), `"kind":"components"`)
	assert.Contains(t, string(data), `"definitions":["Card"]`)
	assert.NotContains(t, string(data), "imports")
}

func TestVersionCmd_JSON(t *testing.T) {
	var out bytes.Buffer
	VersionCmd.SetOut(&out)
	VersionCmd.SetArgs([]string{"--json"})
	t.Cleanup(func() {
		VersionCmd.SetOut(nil)
		VersionCmd.SetArgs(nil)
		_ = VersionCmd.Flags().Set("json", "false")
	})

	require.NoError(t, VersionCmd.Execute())

	var info version.Info
	require.NoError(t, json.Unmarshal(out.Bytes(), &info))
	assert.Equal(t, version.KIRFormat, info.KIRFormat)
	assert.NotEmpty(t, info.GoVersion)
}
