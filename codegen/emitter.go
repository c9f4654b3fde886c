package codegen

import (
	"go.uber.org/zap"

	"github.com/teranos/kirgen/errors"
	"github.com/teranos/kirgen/kir"
	"github.com/teranos/kirgen/logger"
)

// Emitter writes component subtrees as nested constructor literals
type Emitter struct {
	doc     *kir.Document
	dialect Dialect
	w       *Writer
	log     *zap.SugaredLogger

	// Skipped counts properties whose value had no literal form
	Skipped int
}

// NewEmitter creates an emitter writing doc's components to w
func NewEmitter(doc *kir.Document, d Dialect, w *Writer, log *zap.SugaredLogger) *Emitter {
	if log == nil {
		log = logger.Logger
	}
	return &Emitter{doc: doc, dialect: d, w: w, log: log}
}

// Emit writes the component at arena index and its subtree at depth.
// sep is written after the closing delimiter ("," between siblings).
func (e *Emitter) Emit(depth, index int, mode NodeMode, binding, sep string) {
	c := e.doc.Component(index)
	if c == nil {
		return
	}
	d := e.dialect

	e.w.Line(depth, d.NodeOpen(Constructor(c.Type), mode, binding))
	inner := depth + 1

	e.properties(inner, c)
	e.events(inner, c)

	isForEach := c.Type == "ForEach"
	if isForEach {
		e.forEach(inner, c)
	}

	if len(c.Children) > 0 {
		block := d.ChildrenBlock()
		if isForEach {
			item := customString(c, eachItemKey, defaultItemName)
			block = d.RenderBlock(item, item+"_index")
		}

		e.w.Lines(inner, block.Open)
		last := len(c.Children) - 1
		for i, child := range c.Children {
			childSep := ","
			if i == last {
				childSep = ""
			}
			e.Emit(inner+block.Inner, child, Inline, "", childSep)
		}
		e.w.Lines(inner, block.Close)
	}

	e.w.Line(depth, d.NodeClose(sep))
}

func (e *Emitter) properties(depth int, c *kir.Component) {
	for _, p := range propertyTable {
		v, ok := c.Prop(p.name)
		if !ok {
			continue
		}
		if !p.accepts(v) {
			e.skip(c, p.name, v, nil)
			continue
		}
		if p.omitted(v) {
			continue
		}
		e.property(depth, c, p.name, v)
	}

	// Only a column direction differs from the layout default
	if dir, ok := c.Prop("flexDirection"); ok && dir.Kind == kir.String && dir.Str == "column" {
		e.property(depth, c, "layoutDirection", dir)
	}
}

func (e *Emitter) property(depth int, c *kir.Component, name string, v kir.Value) {
	lit, err := e.dialect.Literal(v)
	if err != nil {
		e.skip(c, name, v, err)
		return
	}
	e.w.Line(depth, e.dialect.Property(e.dialect.PropertyName(name), lit))
}

func (e *Emitter) events(depth int, c *kir.Component) {
	for _, event := range eventTypes {
		prop, ok := e.dialect.EventProperty(event)
		if !ok {
			continue
		}
		h, ok := Resolve(e.doc.Logic, c.ID, event, e.dialect)
		if !ok {
			continue
		}
		e.log.Debugw("Resolved event handler",
			logger.FieldEvent, event,
			logger.FieldHandler, h.Name,
			logger.FieldLanguage, h.Language)
		e.w.Lines(depth, e.dialect.EventValue(prop, h))
	}
}

func (e *Emitter) forEach(depth int, c *kir.Component) {
	if item, ok := c.Custom(eachItemKey); ok && item.Kind == kir.String {
		e.property(depth, c, "as", item)
	}
	if index, ok := c.Custom(eachIndexKey); ok && index.Kind == kir.String && index.Str != defaultIndex {
		e.property(depth, c, "index", index)
	}
	if source, ok := c.Custom(eachSourceKey); ok {
		e.property(depth, c, "each", source)
	}
}

func (e *Emitter) skip(c *kir.Component, name string, v kir.Value, cause error) {
	e.Skipped++
	err := errors.Wrapf(errors.ErrPropertySkipped, "%s has %s value", name, v.Kind)
	if cause != nil {
		err = errors.WithSecondaryError(err, cause)
	}
	e.log.Debugw("Property omitted",
		logger.FieldProperty, name,
		logger.FieldComponent, c.ID,
		logger.FieldError, err)
}

// Handlers returns every hoisted handler definition for the document's
// components, once per handler name, in arena order
func (e *Emitter) Handlers() [][]Line {
	var out [][]Line
	seen := map[string]bool{}
	for i := range e.doc.Components {
		c := &e.doc.Components[i]
		for _, event := range eventTypes {
			if _, ok := e.dialect.EventProperty(event); !ok {
				continue
			}
			h, ok := Resolve(e.doc.Logic, c.ID, event, e.dialect)
			if !ok || seen[h.Name] {
				continue
			}
			if lines := e.dialect.HoistedHandler(h); lines != nil {
				seen[h.Name] = true
				out = append(out, lines)
			}
		}
	}
	return out
}

func customString(c *kir.Component, key, fallback string) string {
	if v, ok := c.Custom(key); ok && v.Kind == kir.String && v.Str != "" {
		return v.Str
	}
	return fallback
}
