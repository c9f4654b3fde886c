package am

import (
	"slices"

	"github.com/Masterminds/semver/v3"

	"github.com/teranos/kirgen/errors"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if !slices.Contains(Targets, c.Codegen.Target) {
		return errors.WithHintf(
			errors.Wrapf(errors.ErrUnsupportedTarget, "codegen.target %q", c.Codegen.Target),
			"supported targets: %v", Targets)
	}

	// Indent width: 0 = dialect default, negative = invalid
	if c.Codegen.IndentWidth < 0 {
		return errors.Newf("codegen.indent_width must be >= 0, got %d", c.Codegen.IndentWidth)
	}

	// Parallelism: 0 is treated as 1 (sequential), negative = invalid
	if c.Codegen.Parallelism < 0 {
		return errors.Newf("codegen.parallelism must be >= 0, got %d", c.Codegen.Parallelism)
	}

	if c.Codegen.CompilerVersion != "" {
		if _, err := semver.NewConstraint(c.Codegen.CompilerVersion); err != nil {
			return errors.Wrapf(err, "codegen.compiler_version %q is not a semver constraint", c.Codegen.CompilerVersion)
		}
	}

	for _, id := range c.Codegen.InternalModules {
		if id == "" {
			return errors.New("codegen.internal_modules cannot contain an empty module id")
		}
	}

	if c.Log.Theme != "" && c.Log.Theme != "gruvbox" && c.Log.Theme != "everforest" {
		return errors.Newf("log.theme must be gruvbox or everforest, got %q", c.Log.Theme)
	}

	if c.Watch.DebounceMs < 0 {
		return errors.Newf("watch.debounce_ms must be >= 0, got %d", c.Watch.DebounceMs)
	}
	if c.Watch.MaxRunsPerMinute < 0 {
		return errors.Newf("watch.max_runs_per_minute must be >= 0, got %d", c.Watch.MaxRunsPerMinute)
	}

	return nil
}
