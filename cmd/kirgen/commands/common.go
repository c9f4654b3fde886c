package commands

import (
	"github.com/spf13/cobra"

	"github.com/teranos/kirgen/am"
	"github.com/teranos/kirgen/errors"
)

// codegenFlags are shared by every command that generates source
type codegenFlags struct {
	target     string
	indent     int
	noPreserve bool
}

func (f *codegenFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.target, "target", "t", "", "Target language: lua, python (default from config)")
	cmd.Flags().IntVar(&f.indent, "indent", 0, "Spaces per indentation level (default: target's convention)")
	cmd.Flags().BoolVar(&f.noPreserve, "no-preserve", false, "Always rebuild from the component tree, ignoring captured source")
}

// config loads the configuration and applies flag overrides
func (f *codegenFlags) config() (*am.Config, error) {
	cfg, err := am.Load()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}
	if f.target != "" {
		cfg.Codegen.Target = f.target
	}
	if f.indent > 0 {
		cfg.Codegen.IndentWidth = f.indent
	}
	if f.noPreserve {
		cfg.Codegen.PreserveSource = false
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return cfg, nil
}

func verbosity(cmd *cobra.Command) int {
	v, _ := cmd.Flags().GetCount("verbose")
	return v
}
