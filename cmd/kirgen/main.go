package main

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/kirgen/am"
	"github.com/teranos/kirgen/cmd/kirgen/commands"
	"github.com/teranos/kirgen/logger"
)

var rootCmd = &cobra.Command{
	Use:   "kirgen",
	Short: "kirgen - Generate Lua and Python source from KIR",
	Long: `kirgen - Reconstruct source code from Kryon Intermediate Representation.

kirgen reads KIR documents produced by the Kryon compilers and writes
idiomatic source for a target scripting language. Source captured in KIR is
reproduced byte-for-byte when the target matches the original language;
otherwise the component tree is translated structurally.

Available commands:
  generate - Generate a module and everything it imports
  check    - Verify generated files on disk are up to date
  inspect  - Summarize a KIR document
  watch    - Regenerate whenever KIR files change
  am       - Manage kirgen configuration
  version  - Show build information

Examples:
  kirgen generate app.kir                 # Print main module to stdout
  kirgen generate app.kir build/          # Write build/main.lua and imports
  kirgen generate app.kir app.py -t python
  kirgen check app.kir build/             # Fail if build/ is stale`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonLog, _ := cmd.Flags().GetBool("json-log")

		if cfg, err := am.Load(); err == nil {
			logger.SetTheme(cfg.Log.Theme)
			jsonLog = jsonLog || cfg.Log.JSON
		}

		// stdout carries generated source; decoration goes to stderr
		pterm.SetDefaultOutput(os.Stderr)

		if err := logger.InitializeWithVerbosity(jsonLog, verbosity); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	rootCmd.PersistentFlags().Bool("json-log", false, "Emit diagnostics as JSON")

	rootCmd.AddCommand(commands.GenerateCmd)
	rootCmd.AddCommand(commands.CheckCmd)
	rootCmd.AddCommand(commands.InspectCmd)
	rootCmd.AddCommand(commands.WatchCmd)
	rootCmd.AddCommand(commands.AmCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
