package commands

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/kirgen/am"
	"github.com/teranos/kirgen/display"
	"github.com/teranos/kirgen/errors"
)

// AmCmd represents the am (configuration) command
var AmCmd = &cobra.Command{
	Use:   "am",
	Short: "Manage kirgen configuration",
	Long: `am - Manage kirgen configuration ("I am")

Configuration sources (in order of precedence):
1. Command line flags
2. Environment variables (KIRGEN_* prefix, e.g. KIRGEN_CODEGEN_TARGET)
3. Project config (kirgen.toml, searched upward from the working directory)
4. User config (~/.kirgen/am.toml)
5. System config (/etc/kirgen/config.toml)
6. Default values

Examples:
  kirgen am show                 # Show current configuration
  kirgen am show --format json   # Show configuration in JSON format
  kirgen am get codegen.target   # Get a specific config value
  kirgen am init                 # Write kirgen.toml with defaults
  kirgen am validate             # Validate current configuration`,
}

var amShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runAmShow,
}

var amGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a specific configuration value",
	Long:  "Get a specific configuration value using dot notation (e.g., codegen.target, watch.debounce_ms)",
	Args:  cobra.ExactArgs(1),
	RunE:  runAmGet,
}

var amInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a kirgen.toml with default settings",
	Long:  "Write the default configuration to ./kirgen.toml. An existing file is kept unless --force is given, in which case it is rotated into .back1..3.",
	RunE:  runAmInit,
}

var amValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate current configuration",
	RunE:  runAmValidate,
}

var amWhereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where configuration is loaded from",
	RunE:  runAmWhere,
}

var (
	configFormat string
	initForce    bool
)

func init() {
	amShowCmd.Flags().StringVar(&configFormat, "format", "toml", "Output format: toml, json, yaml")
	amInitCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing kirgen.toml")

	AmCmd.AddCommand(amShowCmd)
	AmCmd.AddCommand(amGetCmd)
	AmCmd.AddCommand(amInitCmd)
	AmCmd.AddCommand(amValidateCmd)
	AmCmd.AddCommand(amWhereCmd)
}

func runAmShow(cmd *cobra.Command, args []string) error {
	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	if err := display.Write(cmd.OutOrStdout(), configFormat, "kirgen configuration", cfg); err != nil {
		return errors.WithHint(err, "supported formats: toml, json, yaml")
	}
	return nil
}

func runAmGet(cmd *cobra.Command, args []string) error {
	value, err := am.Get(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), value)
	return nil
}

func runAmInit(cmd *cobra.Command, args []string) error {
	path := am.ProjectConfigName
	if _, err := os.Stat(path); err == nil && !initForce {
		return errors.WithHint(errors.Newf("%s already exists", path), "use --force to overwrite (the old file is kept as .back1)")
	}
	if err := am.WriteFile(am.Default(), path); err != nil {
		return err
	}
	pterm.Success.Printf("Wrote %s\n", path)
	return nil
}

func runAmValidate(cmd *cobra.Command, args []string) error {
	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "configuration validation failed")
	}
	pterm.Success.Println("Configuration is valid")
	return nil
}

func runAmWhere(cmd *cobra.Command, args []string) error {
	paths := am.ConfigPaths()
	rows := pterm.TableData{{"Precedence", "Path", "Status"}}
	for i, path := range paths {
		status := pterm.Gray("missing")
		if _, err := os.Stat(path); err == nil {
			status = pterm.Green("loaded")
		}
		rows = append(rows, []string{fmt.Sprint(i + 1), path, status})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithWriter(cmd.OutOrStdout()).WithData(rows).Render(); err != nil {
		return errors.Wrap(err, "failed to render table")
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Environment variables with the KIRGEN_ prefix override every file.")
	return nil
}
