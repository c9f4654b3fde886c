package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/kirgen/kir"
)

// stubDialect answers the language questions the resolver asks; any other
// method panics through the nil embedded interface
type stubDialect struct {
	Dialect
	aliases []string
}

func (s stubDialect) Aliases() []string { return s.aliases }

var (
	luaStub    = stubDialect{aliases: []string{"lua"}}
	pythonStub = stubDialect{aliases: []string{"python", "py"}}
)

func increment() *kir.LogicBlock {
	return &kir.LogicBlock{
		Functions: []kir.Function{
			{Name: "increment", Sources: []kir.FunctionSource{
				{Language: "kry", Source: "  { count = count + 1 }  "},
				{Language: "lua", Source: "count:set(count:get() + 1)"},
			}},
			{Name: "js_only", Sources: []kir.FunctionSource{
				{Language: "javascript", Source: "{ setCount(c => c + 1) }"},
			}},
			{Name: "empty", Sources: []kir.FunctionSource{{Language: "lua"}}},
		},
		Bindings: []kir.EventBinding{
			{ComponentID: 1, EventType: "click", HandlerName: "increment"},
			{ComponentID: 2, EventType: "click", HandlerName: "missing"},
			{ComponentID: 2, EventType: "click", HandlerName: "increment"},
			{ComponentID: 3, EventType: "change", HandlerName: "js_only"},
			{ComponentID: 4, EventType: "click", HandlerName: "empty"},
		},
	}
}

func TestResolve_PrefersTargetLanguage(t *testing.T) {
	h, ok := Resolve(increment(), 1, "click", luaStub)
	require.True(t, ok)
	assert.Equal(t, "increment", h.Name)
	assert.Equal(t, "click", h.Event)
	assert.Equal(t, "lua", h.Language)
	assert.Equal(t, "count:set(count:get() + 1)", h.Source)
}

func TestResolve_FallbackCleansStructuralSource(t *testing.T) {
	h, ok := Resolve(increment(), 1, "click", pythonStub)
	require.True(t, ok)
	assert.Equal(t, "kry", h.Language)
	assert.Equal(t, "count = count + 1", h.Source)
}

func TestResolve_FallbackKeepsConcreteLanguageSource(t *testing.T) {
	h, ok := Resolve(increment(), 3, "change", luaStub)
	require.True(t, ok)
	assert.Equal(t, "javascript", h.Language)
	assert.Equal(t, "{ setCount(c => c + 1) }", h.Source)
}

func TestResolve_NoHandler(t *testing.T) {
	tests := []struct {
		name        string
		logic       *kir.LogicBlock
		componentID int
		event       string
	}{
		{"nil logic block", nil, 1, "click"},
		{"no component id", increment(), kir.NoComponent, "click"},
		{"unbound event", increment(), 1, "submit"},
		{"unbound component", increment(), 99, "click"},
		// first binding wins even though its function is missing
		{"first binding shadows later ones", increment(), 2, "click"},
		{"function without source text", increment(), 4, "click"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := Resolve(tt.logic, tt.componentID, tt.event, luaStub)
			assert.False(t, ok)
		})
	}
}

func TestCleanStructural(t *testing.T) {
	assert.Equal(t, "a()", cleanStructural("\n  { a() }\n"))
	assert.Equal(t, "{ a() }", cleanStructural("{{ a() }}"))
	assert.Equal(t, "a()", cleanStructural("a()"))
	assert.Equal(t, "", cleanStructural("{}"))

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"braced block", "{\n    count = count + 1\n    print(count)\n}", "count = count + 1\nprint(count)"},
		{"nested indentation kept", "  {\n    if ok:\n        go()\n  }  ", "if ok:\n    go()"},
		{"content on brace line", "{ a()\n    b()\n}", "a()\nb()"},
		{"unbraced indented", "    a()\n    b()\n", "a()\nb()"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanStructural(tt.in))
		})
	}
}
