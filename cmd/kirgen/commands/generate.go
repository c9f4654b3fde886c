package commands

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/teranos/kirgen/logger"
	"github.com/teranos/kirgen/orchestrator"
)

var generateFlags codegenFlags

// GenerateCmd generates source for a KIR module tree
var GenerateCmd = &cobra.Command{
	Use:   "generate <kir> [output]",
	Short: "Generate source from a KIR document",
	Long: `Generate target-language source from a KIR document and every module it imports.

Without an output path the entry module is printed to stdout and imports are
not followed. When the output path ends in the target extension (.lua, .py)
the entry module is written to that file; otherwise the output is a directory
and the entry module becomes main.<ext>. Imported modules are read from
<kir_dir>/<module_id>.kir and written to <output_dir>/<module_id>.<ext>.

Examples:
  kirgen generate app.kir
  kirgen generate app.kir build/
  kirgen generate app.kir counter.lua
  kirgen generate app.kir build/ --target python --no-preserve`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runGenerate,
}

func init() {
	generateFlags.register(GenerateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := generateFlags.config()
	if err != nil {
		return err
	}
	v := verbosity(cmd)

	o, err := orchestrator.New(cfg.Codegen, afero.NewOsFs())
	if err != nil {
		return err
	}

	if logger.ShouldOutput(v, logger.OutputConfig) {
		pterm.Info.Printf("target=%s indent=%d preserve=%t parallelism=%d\n",
			cfg.Codegen.Target, cfg.Codegen.IndentWidth, cfg.Codegen.PreserveSource, cfg.Codegen.Parallelism)
	}

	if len(args) == 1 {
		res, err := o.Render(args[0])
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), res.Source)
		if res.Skipped > 0 && logger.ShouldOutput(v, logger.OutputSkipped) {
			pterm.Warning.Printf("%d properties had no %s literal form and were omitted\n", res.Skipped, cfg.Codegen.Target)
		}
		return nil
	}

	var runErr error
	orchestrator.Generate(cmd.Context(), cfg.Codegen, args[0], args[1], func(report *orchestrator.Report, err error) {
		printReport(v, report)
		runErr = err
	})
	return runErr
}

// printReport writes the human-readable outcome of a generation run to stderr
func printReport(v int, report *orchestrator.Report) {
	if report == nil {
		return
	}
	if logger.ShouldOutput(v, logger.OutputResults) {
		for _, path := range report.FilesWritten {
			pterm.Printf("%s %s\n", pterm.LightGreen("✓ Generated:"), path)
		}
	}
	if logger.ShouldOutput(v, logger.OutputWarnings) {
		for _, w := range report.Warnings {
			pterm.Warning.Println(w)
		}
	}
	if logger.ShouldOutput(v, logger.OutputSummary) && len(report.FilesWritten) > 0 {
		summary := fmt.Sprintf("Generated %s %s module(s)", pterm.Green(len(report.FilesWritten)), report.Target)
		if len(report.Warnings) > 0 {
			summary += fmt.Sprintf(" with %s warning(s)", pterm.Yellow(len(report.Warnings)))
		}
		pterm.Println(summary)
	}
	if logger.ShouldOutput(v, logger.OutputTiming) {
		fmt.Fprintf(os.Stderr, "  run %s took %s\n", report.RunID, report.Duration)
	}
}
