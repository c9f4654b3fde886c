// Package orchestrator drives code generation across a module import graph.
//
// An entry KIR document is generated first; every module it imports is then
// loaded from <kir_dir>/<module_id>.kir, generated, and written to
// <output_dir>/<module_id>.<ext>, recursively. Modules are claimed in a
// shared visited set before they are generated, so cyclic imports terminate
// and each module is written exactly once.
//
// Failures are isolated per module: a module that cannot be decoded or
// written becomes a warning and its siblings continue. A run fails only
// when no module at all was written.
package orchestrator

import (
	"context"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/teranos/kirgen/am"
	"github.com/teranos/kirgen/codegen"
	"github.com/teranos/kirgen/codegen/targets"
	"github.com/teranos/kirgen/errors"
	"github.com/teranos/kirgen/kir"
	"github.com/teranos/kirgen/logger"
)

// EntryModuleID is the module id of the entry document
const EntryModuleID = "main"

// Report summarizes one generation run
type Report struct {
	RunID        string        `json:"run_id" yaml:"run_id"`
	Target       string        `json:"target" yaml:"target"`
	FilesWritten []string      `json:"files_written" yaml:"files_written"`
	Inputs       []string      `json:"inputs" yaml:"inputs"` // KIR paths read or looked for
	Warnings     []string      `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Duration     time.Duration `json:"duration" yaml:"duration"`
}

// Orchestrator generates a module and everything it imports
type Orchestrator struct {
	cfg        am.CodegenConfig
	fs         afero.Fs
	dialect    codegen.Dialect
	engine     *codegen.Engine
	formatter  *Formatter
	constraint *semver.Constraints
	log        *zap.SugaredLogger
}

// New creates an orchestrator for cfg reading and writing through fs
func New(cfg am.CodegenConfig, fs afero.Fs) (*Orchestrator, error) {
	d, err := targets.Lookup(cfg.Target)
	if err != nil {
		return nil, err
	}

	o := &Orchestrator{
		cfg:     cfg,
		fs:      fs,
		dialect: d,
		log:     logger.ComponentLogger("orchestrator"),
	}
	o.engine = codegen.NewEngine(d, codegen.Options{
		IndentWidth:        cfg.IndentWidth,
		PreserveSource:     cfg.PreserveSource,
		ReservedStateNames: cfg.ReservedStateNames,
		Logger:             logger.ComponentLogger("codegen"),
	})

	if cfg.Formatter != "" {
		if o.formatter, err = NewFormatter(cfg.Formatter); err != nil {
			return nil, err
		}
	}
	if cfg.CompilerVersion != "" {
		if o.constraint, err = semver.NewConstraint(cfg.CompilerVersion); err != nil {
			return nil, errors.Wrapf(err, "invalid compiler_version constraint %q", cfg.CompilerVersion)
		}
	}
	return o, nil
}

// Dialect returns the target dialect
func (o *Orchestrator) Dialect() codegen.Dialect {
	return o.dialect
}

// Render decodes and generates a single KIR file without following imports
func (o *Orchestrator) Render(entryPath string) (*codegen.Result, error) {
	doc, err := kir.DecodeFile(o.fs, entryPath)
	if err != nil {
		return nil, err
	}
	return o.engine.Generate(doc, EntryModuleID, moduleStem(entryPath))
}

// run holds the state shared by all module generations of one GenerateTree call
type run struct {
	*Orchestrator
	report  *Report
	entry   *kir.Document
	kirDir  string
	outDir  string
	stem    string
	visited sync.Map
	mu      sync.Mutex
	base    *zap.SugaredLogger // target field; run and module ids come from ctx
}

// module is a claimed module waiting to be generated
type module struct {
	id   string
	doc  *kir.Document // nil until loaded
	path string        // output file
}

// GenerateTree generates entryPath and every module reachable through its
// imports. When outputPath ends in the target extension the entry module is
// written there and imports next to it; otherwise outputPath is a directory
// and the entry module is written as main.<ext>.
func (o *Orchestrator) GenerateTree(ctx context.Context, entryPath, outputPath string) (*Report, error) {
	start := time.Now()
	runID := uuid.New().String()
	ctx = logger.WithRunID(ctx, runID)
	base := o.log.With(logger.FieldTarget, o.dialect.Language())
	log := logger.LoggerFromContext(ctx, base)

	report := &Report{RunID: runID, Target: o.dialect.Language(), Inputs: []string{entryPath}}

	entry, err := kir.DecodeFile(o.fs, entryPath)
	if err != nil {
		return report, errors.Wrapf(err, "entry module")
	}

	r := &run{
		Orchestrator: o,
		report:       report,
		entry:        entry,
		kirDir:       filepath.Dir(entryPath),
		base:         base,
	}

	ext := "." + o.dialect.FileExtension()
	entryOut := filepath.Join(outputPath, EntryModuleID+ext)
	r.outDir = outputPath
	if strings.HasSuffix(outputPath, ext) {
		entryOut = outputPath
		r.outDir = filepath.Dir(outputPath)
	}

	// the entry is known by its own stem as well as "main"
	r.stem = moduleStem(entryPath)
	r.claim(EntryModuleID)
	r.claim(r.stem)

	log.Infow("Generating module tree", logger.FieldFile, entryPath)

	level := []module{{id: EntryModuleID, doc: entry, path: entryOut}}
	for len(level) > 0 {
		if level, err = r.generateLevel(ctx, level); err != nil {
			return report, err
		}
	}

	sort.Strings(report.FilesWritten)
	sort.Strings(report.Inputs)
	report.Duration = time.Since(start)

	if len(report.FilesWritten) == 0 {
		return report, errors.WithHint(
			errors.Wrapf(errors.ErrNoModules, "%s", entryPath),
			"see the warnings above for the modules that failed")
	}

	log.Infow("Generation complete",
		logger.FieldCount, len(report.FilesWritten),
		logger.FieldDurationMS, report.Duration.Milliseconds(),
		"warnings", len(report.Warnings))
	return report, nil
}

// generateLevel generates one breadth of the import graph concurrently and
// returns the newly claimed modules it imports
func (r *run) generateLevel(ctx context.Context, level []module) ([]module, error) {
	g, ctx := errgroup.WithContext(ctx)
	limit := r.cfg.Parallelism
	if limit < 1 {
		limit = 1
	}
	g.SetLimit(limit)

	var (
		mu   sync.Mutex
		next []module
	)
	for _, m := range level {
		m := m
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			imports := r.generate(ctx, m)
			mu.Lock()
			next = append(next, imports...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(next, func(i, j int) bool { return next[i].id < next[j].id })
	return next, nil
}

// generate produces one module and claims its imports. Failures are
// recorded as warnings.
func (r *run) generate(ctx context.Context, m module) []module {
	ctx = logger.WithModule(ctx, m.id)
	log := logger.LoggerFromContext(ctx, r.base)

	if m.doc == nil {
		src, ok := r.load(&m, log)
		if !ok {
			return nil
		}
		if src != "" {
			r.write(ctx, m, src, log)
			return nil
		}
	}

	r.checkCompilerVersion(m, log)

	ids := []string{m.id}
	if m.id == EntryModuleID {
		ids = append(ids, r.stem)
	}
	res, err := r.engine.Generate(m.doc, ids...)
	if err != nil {
		r.warn(log, errors.Wrapf(err, "generate %s", m.id))
		return nil
	}
	if res.Skipped > 0 {
		log.Debugw("Properties omitted", logger.FieldCount, res.Skipped)
	}
	if !r.write(ctx, m, res.Source, log) {
		return nil
	}

	var imports []module
	for _, id := range m.doc.Imports {
		if r.skipped(id) {
			log.Debugw("Import not generated", "import", id)
			continue
		}
		if !r.claim(id) {
			continue
		}
		imports = append(imports, module{
			id:   id,
			path: filepath.Join(r.outDir, filepath.FromSlash(id)+"."+r.dialect.FileExtension()),
		})
	}
	return imports
}

// load decodes an imported module's KIR file. When the file is missing, the
// entry document's preserved source for the module is returned instead.
func (r *run) load(m *module, log *zap.SugaredLogger) (string, bool) {
	path := filepath.Join(r.kirDir, filepath.FromSlash(m.id)+".kir")
	r.mu.Lock()
	r.report.Inputs = append(r.report.Inputs, path)
	r.mu.Unlock()

	exists, err := afero.Exists(r.fs, path)
	if err == nil && exists {
		doc, err := kir.DecodeFile(r.fs, path)
		if err != nil {
			r.warn(log, err)
			return "", false
		}
		m.doc = doc
		return "", true
	}

	if src, ok := r.entry.Sources[m.id]; ok && src != "" && r.preservesEntry() {
		return src, true
	}

	r.warn(log,
		errors.NewUnresolvedImportError("module %q: %s not found", m.id, path))
	return "", false
}

func (r *run) preservesEntry() bool {
	if !r.cfg.PreserveSource {
		return false
	}
	lang := r.entry.Metadata.SourceLanguage
	return lang == "" || codegen.Speaks(r.dialect, lang)
}

// write stores generated source, creating parent directories
func (r *run) write(ctx context.Context, m module, src string, log *zap.SugaredLogger) bool {
	if err := r.fs.MkdirAll(filepath.Dir(m.path), am.DefaultDirPermissions); err != nil {
		r.warn(log, errors.WrapOutputWrite(err, m.path))
		return false
	}
	if err := afero.WriteFile(r.fs, m.path, []byte(src), am.DefaultFilePermissions); err != nil {
		r.warn(log, errors.WrapOutputWrite(err, m.path))
		return false
	}

	r.mu.Lock()
	r.report.FilesWritten = append(r.report.FilesWritten, m.path)
	r.mu.Unlock()
	log.Infow("Generated module", logger.FieldFile, m.path)

	if r.formatter != nil {
		if err := r.formatter.Run(ctx, m.path); err != nil {
			r.warn(log, err)
		}
	}
	return true
}

// claim marks id as visited. It reports false if id was already claimed.
func (r *run) claim(id string) bool {
	_, loaded := r.visited.LoadOrStore(id, struct{}{})
	return !loaded
}

// skipped reports whether id names a runtime module or an external plugin
func (r *run) skipped(id string) bool {
	if id == "" {
		return true
	}
	for _, internal := range r.cfg.InternalModules {
		if id == internal {
			return true
		}
	}
	for _, prefix := range r.cfg.ExternalPlugins {
		if prefix != "" && strings.HasPrefix(id, prefix) {
			return true
		}
	}
	return false
}

func (r *run) checkCompilerVersion(m module, log *zap.SugaredLogger) {
	if r.constraint == nil || m.doc.Metadata.CompilerVersion == "" {
		return
	}
	v, err := semver.NewVersion(m.doc.Metadata.CompilerVersion)
	if err != nil {
		r.warn(log, errors.Wrapf(err, "module %s: unparseable compiler_version %q", m.id, m.doc.Metadata.CompilerVersion))
		return
	}
	if !r.constraint.Check(v) {
		r.warn(log, errors.Newf("module %s: compiled by %s, outside %q", m.id, v, r.cfg.CompilerVersion))
	}
}

func (r *run) warn(log *zap.SugaredLogger, err error) {
	r.mu.Lock()
	r.report.Warnings = append(r.report.Warnings, err.Error())
	r.mu.Unlock()
	log.Warnw("Module skipped", logger.FieldError, err)
}

// moduleStem returns the file name of path without directory or extension
func moduleStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Generate is the command-level contract: generate kirPath and its imports
// into outputPath and report whether any module was written. onRun, when
// set, receives the report and the failure; otherwise failures are logged.
func Generate(ctx context.Context, cfg am.CodegenConfig, kirPath, outputPath string, onRun RunCallback) bool {
	done := func(report *Report, err error) bool {
		if onRun != nil {
			onRun(report, err)
		} else if err != nil {
			logger.Errorw("Code generation failed", logger.FieldFile, kirPath, logger.FieldError, err)
		}
		return err == nil
	}

	o, err := New(cfg, afero.NewOsFs())
	if err != nil {
		return done(nil, err)
	}
	return done(o.GenerateTree(ctx, kirPath, outputPath))
}
