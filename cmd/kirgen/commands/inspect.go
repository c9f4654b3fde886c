package commands

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/teranos/kirgen/display"
	"github.com/teranos/kirgen/errors"
	"github.com/teranos/kirgen/kir"
	"github.com/teranos/kirgen/logger"
)

var inspectFormat string

// InspectCmd summarizes a KIR document
var InspectCmd = &cobra.Command{
	Use:   "inspect <kir>",
	Short: "Summarize a KIR document",
	Long: `Show what a KIR document contains and how it will be generated: its module
kind, origin metadata, component and handler counts, imports, and which
modules carry preserved source.

Examples:
  kirgen inspect app.kir
  kirgen inspect app.kir --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	InspectCmd.Flags().StringVar(&inspectFormat, "format", "table", "Output format: table, json, yaml")
}

// Summary describes a decoded document
type Summary struct {
	Kind             string       `json:"kind" yaml:"kind"`
	Format           string       `json:"format,omitempty" yaml:"format,omitempty"`
	Metadata         kir.Metadata `json:"metadata" yaml:"metadata"`
	Components       int          `json:"components" yaml:"components"`
	Definitions      []string     `json:"definitions,omitempty" yaml:"definitions,omitempty"`
	StateVariables   []string     `json:"state_variables,omitempty" yaml:"state_variables,omitempty"`
	Handlers         []string     `json:"handlers,omitempty" yaml:"handlers,omitempty"`
	EventBindings    int          `json:"event_bindings" yaml:"event_bindings"`
	Exports          []string     `json:"exports,omitempty" yaml:"exports,omitempty"`
	Imports          []string     `json:"imports,omitempty" yaml:"imports,omitempty"`
	PreservedSources []string     `json:"preserved_sources,omitempty" yaml:"preserved_sources,omitempty"`
}

// Summarize collects the inspect view of doc
func Summarize(doc *kir.Document) Summary {
	s := Summary{
		Kind:       doc.Classify().String(),
		Format:     doc.Format,
		Metadata:   doc.Metadata,
		Components: len(doc.Components),
		Imports:    doc.Imports,
	}
	for _, def := range doc.Definitions {
		s.Definitions = append(s.Definitions, def.Name)
	}
	if doc.Reactive != nil {
		for _, v := range doc.Reactive.Variables {
			s.StateVariables = append(s.StateVariables, v.Name)
		}
	}
	if doc.Logic != nil {
		for _, fn := range doc.Logic.Functions {
			langs := make([]string, 0, len(fn.Sources))
			for _, src := range fn.Sources {
				langs = append(langs, src.Language)
			}
			s.Handlers = append(s.Handlers, fmt.Sprintf("%s (%s)", fn.Name, strings.Join(langs, ", ")))
		}
		s.EventBindings = len(doc.Logic.Bindings)
	}
	for _, e := range doc.Exports {
		s.Exports = append(s.Exports, e.Name)
	}
	for id := range doc.Sources {
		s.PreservedSources = append(s.PreservedSources, id)
	}
	sort.Strings(s.PreservedSources)
	return s
}

func runInspect(cmd *cobra.Command, args []string) error {
	doc, err := kir.DecodeFile(afero.NewOsFs(), args[0])
	if err != nil {
		return err
	}
	s := Summarize(doc)
	out := cmd.OutOrStdout()

	switch inspectFormat {
	case display.FormatJSON, display.FormatYAML:
		return display.Write(out, inspectFormat, "", s)

	case "table":
		rows := pterm.TableData{
			{"Field", "Value"},
			{"kind", s.Kind},
			{"source language", s.Metadata.SourceLanguage},
			{"source file", s.Metadata.SourceFile},
			{"compiler version", s.Metadata.CompilerVersion},
			{"components", strconv.Itoa(s.Components)},
			{"definitions", strings.Join(s.Definitions, ", ")},
			{"state", strings.Join(s.StateVariables, ", ")},
			{"handlers", strings.Join(s.Handlers, "; ")},
			{"event bindings", strconv.Itoa(s.EventBindings)},
			{"exports", strings.Join(s.Exports, ", ")},
			{"imports", strings.Join(s.Imports, ", ")},
			{"preserved sources", strings.Join(s.PreservedSources, ", ")},
		}
		if err := pterm.DefaultTable.WithHasHeader().WithWriter(out).WithData(rows).Render(); err != nil {
			return errors.Wrap(err, "failed to render table")
		}
		if logger.ShouldOutput(verbosity(cmd), logger.OutputDocumentDump) && doc.Root != kir.NoComponent {
			dumpTree(doc, doc.Root, 0)
		}

	default:
		return errors.Newf("unsupported format: %s (supported: table, json, yaml)", inspectFormat)
	}
	return nil
}

// dumpTree prints the component tree, one node per line
func dumpTree(doc *kir.Document, index, depth int) {
	c := doc.Component(index)
	if c == nil {
		return
	}
	keys := make([]string, 0, len(c.Properties))
	for _, p := range c.Properties {
		keys = append(keys, p.Key)
	}
	pterm.Printf("%s%s %s %s\n", strings.Repeat("  ", depth), pterm.LightCyan(c.Type),
		pterm.Gray("#"+strconv.Itoa(c.ID)), strings.Join(keys, " "))
	for _, child := range c.Children {
		dumpTree(doc, child, depth+1)
	}
}
