package codegen

import (
	"go.uber.org/zap"

	"github.com/teranos/kirgen/errors"
	"github.com/teranos/kirgen/kir"
	"github.com/teranos/kirgen/logger"
)

// Options configures an Engine
type Options struct {
	// IndentWidth overrides the dialect's default indentation when > 0
	IndentWidth int
	// PreserveSource enables verbatim emission of captured original source
	PreserveSource bool
	// ReservedStateNames lists housekeeping variables that get no initializer
	ReservedStateNames []string
	Logger             *zap.SugaredLogger
}

// Result is the outcome of generating one module
type Result struct {
	Source    string
	Kind      kir.ModuleKind
	Preserved bool // whole module emitted from sources{}
	Skipped   int  // properties omitted for lack of a literal form
}

// Engine turns decoded KIR documents into target-language source
type Engine struct {
	dialect  Dialect
	opts     Options
	reserved map[string]bool
	log      *zap.SugaredLogger
}

// NewEngine creates an engine for one dialect
func NewEngine(d Dialect, opts Options) *Engine {
	log := opts.Logger
	if log == nil {
		log = logger.ComponentLogger("codegen")
	}
	reserved := make(map[string]bool, len(opts.ReservedStateNames))
	for _, name := range opts.ReservedStateNames {
		reserved[name] = true
	}
	return &Engine{dialect: d, opts: opts, reserved: reserved, log: log}
}

// Dialect returns the engine's target dialect
func (e *Engine) Dialect() Dialect {
	return e.dialect
}

// Generate emits source for doc. moduleIDs names the module being generated
// (e.g. "main" and the entry file stem); the first with a preserved
// sources{} entry is returned verbatim.
func (e *Engine) Generate(doc *kir.Document, moduleIDs ...string) (*Result, error) {
	if doc == nil {
		return nil, errors.New("nil KIR document")
	}

	kind := doc.Classify()
	preserve := e.preserves(doc)
	log := e.log.With(logger.FieldKind, kind.String())

	if preserve {
		for _, id := range moduleIDs {
			if src, ok := doc.Sources[id]; ok && src != "" {
				log.Debugw("Emitting preserved module source", logger.FieldModule, id)
				return &Result{Source: src, Kind: kind, Preserved: true}, nil
			}
		}
	}

	indent := e.opts.IndentWidth
	if indent <= 0 {
		indent = e.dialect.DefaultIndent()
	}
	w := NewWriter(indent)
	em := NewEmitter(doc, e.dialect, w, log)
	g := &generation{Engine: e, doc: doc, w: w, em: em, preserve: preserve}

	g.preamble()

	var err error
	switch kind {
	case kir.AppModule:
		err = g.appBody()
	case kir.ComponentModule:
		g.definitionsBody()
	default:
		g.libraryBody()
	}
	if err != nil {
		return nil, err
	}

	return &Result{Source: w.String(), Kind: kind, Skipped: em.Skipped}, nil
}

// preserves reports whether captured source in doc is valid in the target
func (e *Engine) preserves(doc *kir.Document) bool {
	if !e.opts.PreserveSource {
		return false
	}
	lang := doc.Metadata.SourceLanguage
	return lang == "" || Speaks(e.dialect, lang)
}

// generation holds per-call state for one Generate invocation
type generation struct {
	*Engine
	doc      *kir.Document
	w        *Writer
	em       *Emitter
	preserve bool
}

func (g *generation) decls() *kir.SourceDeclarations {
	if g.preserve && g.doc.Declarations != nil {
		return g.doc.Declarations
	}
	return &kir.SourceDeclarations{}
}

// preamble writes everything above the component tree or definitions:
// header, requires, module init and constants, state, functions
func (g *generation) preamble() {
	d := g.dialect
	decls := g.decls()

	for _, line := range d.Header() {
		g.w.Line(0, line)
	}
	g.w.Blank()

	if len(decls.Requires) > 0 {
		for _, r := range decls.Requires {
			g.w.Line(0, d.Require(r))
		}
	} else {
		for _, line := range d.DefaultRequires() {
			g.w.Line(0, line)
		}
	}
	g.w.Blank()

	g.verbatim(decls.ModuleInit)
	g.verbatim(decls.ModuleConstants)
	g.verbatim(decls.NonReactiveState)

	if decls.StateInit != "" {
		g.verbatim(decls.StateInit)
	} else {
		g.reactiveState()
	}

	for _, fn := range decls.Functions {
		g.verbatim(fn.Source)
	}
	for _, lines := range g.em.Handlers() {
		g.w.Lines(0, lines)
		g.w.Blank()
	}

	g.verbatim(decls.Initialization)
	g.verbatim(decls.ConditionalBlocks)
}

func (g *generation) verbatim(src string) {
	if src == "" {
		return
	}
	g.w.Verbatim(src)
	g.w.Blank()
}

// reactiveState synthesizes one initializer per manifest variable
func (g *generation) reactiveState() {
	if g.doc.Reactive == nil {
		return
	}
	wrote := false
	for _, v := range g.doc.Reactive.Variables {
		if g.reserved[v.Name] || v.Name == "" {
			continue
		}
		if !wrote {
			g.w.Line(0, g.dialect.Comment("Reactive State"))
		}
		g.w.Line(0, g.dialect.StateInit(v.Name, g.initialValue(v)))
		wrote = true
	}
	if wrote {
		g.w.Blank()
	}
}

// initialValue renders a variable's initial value. String-typed variables
// are quoted; other values hold an expression, rendered as a literal when
// it is valid JSON and verbatim otherwise.
func (g *generation) initialValue(v kir.ReactiveVar) string {
	lit := func(val kir.Value) string {
		s, err := g.dialect.Literal(val)
		if err != nil {
			s, _ = g.dialect.Literal(kir.Value{Kind: kir.Null})
		}
		return s
	}

	init := v.InitialValue
	if init.Kind != kir.String {
		return lit(init)
	}
	if v.Type == "string" {
		return lit(init)
	}
	if init.Str == "" {
		return lit(kir.Value{Kind: kir.Null})
	}
	if parsed, err := kir.ParseValue([]byte(init.Str)); err == nil {
		return lit(parsed)
	}
	return init.Str
}

func (g *generation) appBody() error {
	decls := g.decls()
	if decls.AppExport != "" {
		g.w.Verbatim(decls.AppExport)
		return nil
	}

	g.w.Line(0, g.dialect.Comment("UI Component Tree"))
	g.em.Emit(0, g.doc.Root, Named, "root", "")
	g.w.Blank()

	lines, err := g.dialect.AppExport("root", windowFields(g.doc.App))
	if err != nil {
		return errors.Wrap(err, "render window metadata")
	}
	g.w.Lines(0, lines)
	return nil
}

func windowFields(app *kir.AppInfo) []kir.Field {
	if !app.HasWindow() {
		return nil
	}
	var fields []kir.Field
	if app.WindowTitle != "" {
		fields = append(fields, kir.Field{Key: "title", Value: kir.Value{Kind: kir.String, Str: app.WindowTitle}})
	}
	if app.WindowWidth.Kind == kir.Number {
		fields = append(fields, kir.Field{Key: "width", Value: app.WindowWidth})
	}
	if app.WindowHeight.Kind == kir.Number {
		fields = append(fields, kir.Field{Key: "height", Value: app.WindowHeight})
	}
	return fields
}

func (g *generation) definitionsBody() {
	d := g.dialect
	g.w.Line(0, d.Comment("Component Definitions"))

	entries := make([]ExportEntry, 0, len(g.doc.Definitions))
	for _, def := range g.doc.Definitions {
		entries = append(entries, ExportEntry{Name: def.Name, Expr: def.Name})

		if g.preserve {
			if _, ok := g.doc.DeclaredFunction(def.Name); ok {
				continue
			}
			if def.Source != "" {
				g.verbatim(def.Source)
				continue
			}
		}

		block := d.DefinitionBlock(def.Name)
		g.w.Lines(0, block.Open)
		if def.Template != kir.NoComponent {
			g.em.Emit(block.Inner, def.Template, Returned, "", "")
		} else {
			g.w.Line(block.Inner, d.NodeOpen(Constructor(""), Returned, ""))
			g.w.Line(block.Inner, d.NodeClose(""))
		}
		g.w.Lines(0, block.Close)
		g.w.Blank()
	}

	g.closing(entries)
}

func (g *generation) libraryBody() {
	var entries []ExportEntry
	for _, exp := range g.doc.Exports {
		entry := ExportEntry{Name: exp.Name, Expr: exp.Name}
		switch {
		case exp.Function != "":
			entry.Expr = exp.Function
		case exp.Value.Kind != kir.Null:
			lit, err := g.dialect.Literal(exp.Value)
			if err != nil {
				g.log.Debugw("Export value omitted", logger.FieldModule, exp.Name, logger.FieldError, err)
				continue
			}
			entry.Expr = lit
		}
		entries = append(entries, entry)
	}

	if len(entries) == 0 {
		for _, fn := range g.decls().Functions {
			entries = append(entries, ExportEntry{Name: fn.Name, Expr: fn.Name})
		}
	}

	g.closing(entries)
}

func (g *generation) closing(entries []ExportEntry) {
	if export := g.decls().AppExport; export != "" {
		g.w.Verbatim(export)
		return
	}
	g.w.Lines(0, g.dialect.ExportMap(entries))
}
