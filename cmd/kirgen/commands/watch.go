package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/teranos/kirgen/orchestrator"
)

var watchFlags codegenFlags

// WatchCmd regenerates a module tree on KIR changes
var WatchCmd = &cobra.Command{
	Use:   "watch <kir> <output>",
	Short: "Regenerate whenever KIR files change",
	Long: `Generate a module tree, then watch the entry module's directory and
regenerate whenever a .kir file is written, created or renamed.

Bursts of changes are debounced (watch.debounce_ms) and regeneration can be
capped with watch.max_runs_per_minute. Stop with Ctrl-C.

Examples:
  kirgen watch app.kir build/
  kirgen watch app.kir app.py -t python`,
	Args: cobra.ExactArgs(2),
	RunE: runWatch,
}

func init() {
	watchFlags.register(WatchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := watchFlags.config()
	if err != nil {
		return err
	}
	v := verbosity(cmd)

	o, err := orchestrator.New(cfg.Codegen, afero.NewOsFs())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w := orchestrator.NewWatcher(o, cfg.Watch, args[0], args[1], func(report *orchestrator.Report, err error) {
		printReport(v, report)
		if err != nil {
			pterm.Error.Println(err)
		}
	})
	pterm.Info.Printf("Watching %s (Ctrl-C to stop)\n", args[0])
	return w.Run(ctx)
}
