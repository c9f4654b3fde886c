package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/teranos/kirgen/codegen"
	"github.com/teranos/kirgen/errors"
	"github.com/teranos/kirgen/orchestrator"
)

var checkFlags codegenFlags

// CheckCmd verifies generated files are current
var CheckCmd = &cobra.Command{
	Use:   "check <kir> <dir>",
	Short: "Check that generated source in a directory is up to date",
	Long: `Regenerate a module tree into a temporary directory and compare it with <dir>.

Generated banner lines are ignored. Exits with an error listing every stale
or missing file, which makes this suitable for CI.

Examples:
  kirgen check app.kir build/`,
	Args: cobra.ExactArgs(2),
	RunE: runCheck,
}

func init() {
	checkFlags.register(CheckCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := checkFlags.config()
	if err != nil {
		return err
	}

	fs := afero.NewOsFs()
	tmp, err := afero.TempDir(fs, "", "kirgen-check-")
	if err != nil {
		return errors.Wrap(err, "failed to create temp directory")
	}
	defer fs.RemoveAll(tmp)

	o, err := orchestrator.New(cfg.Codegen, fs)
	if err != nil {
		return err
	}
	if _, err := o.GenerateTree(cmd.Context(), args[0], tmp); err != nil {
		return err
	}

	result, err := codegen.CompareOutputs(fs, o.Dialect(), tmp, args[1])
	if err != nil {
		return err
	}

	if result.UpToDate {
		pterm.Success.Printf("%s is up to date\n", args[1])
		return nil
	}
	for _, path := range result.Differences {
		pterm.Printf("  %s %s\n", pterm.Yellow("modified:"), path)
	}
	for _, path := range result.Missing {
		pterm.Printf("  %s %s\n", pterm.Red("missing:"), path)
	}
	return errors.WithHintf(
		errors.Newf("%d generated file(s) out of date", len(result.Differences)+len(result.Missing)),
		"run: kirgen generate %s %s", args[0], args[1])
}
