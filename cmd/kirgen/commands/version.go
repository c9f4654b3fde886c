package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/kirgen/display"
	"github.com/teranos/kirgen/version"
)

// VersionCmd represents the version command
var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show kirgen version information",
	Long:  `Display version, build time, commit hash, KIR format and platform information for the kirgen binary.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		info := version.Get()

		if display.ShouldOutputJSON(cmd) {
			return display.Write(out, display.FormatJSON, "", info)
		}
		if yamlOutput, _ := cmd.Flags().GetBool("yaml"); yamlOutput {
			return display.Write(out, display.FormatYAML, "", info)
		}

		fmt.Fprintln(out, info.String())
		fmt.Fprintf(out, "KIR format: %s\n", info.KIRFormat)
		fmt.Fprintf(out, "Platform: %s\n", info.Platform)
		fmt.Fprintf(out, "Go: %s\n", info.GoVersion)
		return nil
	},
}

func init() {
	VersionCmd.Flags().BoolP("json", "j", false, "Output version info as JSON")
	VersionCmd.Flags().Bool("yaml", false, "Output version info as YAML")
}
