package codegen

import "github.com/teranos/kirgen/kir"

// constructors maps KIR component types to DSL constructor names.
// Unlisted types fall back to Container.
var constructors = map[string]string{
	"Container":  "Container",
	"Row":        "Row",
	"Column":     "Column",
	"Text":       "Text",
	"Button":     "Button",
	"Checkbox":   "Checkbox",
	"Input":      "Input",
	"TabGroup":   "TabGroup",
	"TabBar":     "TabBar",
	"TabContent": "TabContent",
	"TabPanel":   "TabPanel",
	"ForEach":    "ForEach",
}

// Constructor returns the DSL constructor for a component type
func Constructor(componentType string) string {
	if name, ok := constructors[componentType]; ok {
		return name
	}
	return "Container"
}

// property describes one emitted component property
type property struct {
	name   string
	kinds  []kir.Kind
	isZero func(kir.Value) bool // value equal to the type's implicit default
}

// Emission order of known properties
var propertyTable = []property{
	{"width", dimensionKinds, zeroDimension},
	{"height", dimensionKinds, zeroDimension},
	{"padding", spacingKinds, nonPositive},
	{"fontSize", scalarKinds, nonPositive},
	{"fontWeight", scalarKinds, numberEquals(400)},
	{"text", textKinds, nil},
	{"backgroundColor", textKinds, nil},
	{"background", textKinds, nil},
	{"color", textKinds, nil},
	{"borderRadius", scalarKinds, nonPositive},
	{"borderWidth", scalarKinds, nonPositive},
	{"borderColor", textKinds, nil},
	{"gap", scalarKinds, nonPositive},
	{"margin", spacingKinds, nonPositive},
	{"opacity", numberKinds, atLeast(1.0)},
	{"alignItems", textKinds, nil},
	{"justifyContent", textKinds, nil},
	{"textAlign", textKinds, nil},
	{"placeholder", textKinds, nil},
	{"value", textKinds, nil},
	{"checked", boolKinds, nil},
	{"disabled", boolKinds, nil},
	{"visible", boolKinds, isTrue},
	{"windowTitle", textKinds, nil},
	{"minWidth", dimensionKinds, nil},
	{"minHeight", dimensionKinds, nil},
	{"maxWidth", dimensionKinds, nil},
	{"maxHeight", dimensionKinds, nil},
}

var (
	textKinds      = []kir.Kind{kir.String}
	numberKinds    = []kir.Kind{kir.Number}
	boolKinds      = []kir.Kind{kir.Bool}
	scalarKinds    = []kir.Kind{kir.Number, kir.String}
	dimensionKinds = []kir.Kind{kir.String, kir.Number}
	spacingKinds   = []kir.Kind{kir.Number, kir.String, kir.Array}
)

func (p property) accepts(v kir.Value) bool {
	for _, k := range p.kinds {
		if v.Kind == k {
			return true
		}
	}
	return false
}

func (p property) omitted(v kir.Value) bool {
	return p.isZero != nil && p.isZero(v)
}

func zeroDimension(v kir.Value) bool {
	switch v.Kind {
	case kir.String:
		return v.Str == "0px" || v.Str == "0.0px"
	case kir.Number:
		return v.Num == 0
	}
	return false
}

func nonPositive(v kir.Value) bool {
	return v.Kind == kir.Number && v.Num <= 0
}

func numberEquals(n float64) func(kir.Value) bool {
	return func(v kir.Value) bool {
		return v.Kind == kir.Number && v.Num == n
	}
}

func atLeast(n float64) func(kir.Value) bool {
	return func(v kir.Value) bool {
		return v.Kind == kir.Number && v.Num >= n
	}
}

func isTrue(v kir.Value) bool {
	return v.Kind == kir.Bool && v.Bool
}

// Event types with a constructor property, in emission order
var eventTypes = []string{"click", "change", "submit", "input"}

// EventTypes returns the KIR event types that produce handler properties
func EventTypes() []string {
	return append([]string(nil), eventTypes...)
}

// ForEach custom_data keys and defaults
const (
	eachSourceKey   = "each_source"
	eachItemKey     = "each_item_name"
	eachIndexKey    = "each_index_name"
	defaultItemName = "item"
	defaultIndex    = "index"
)
