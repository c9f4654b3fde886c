// Package targets maps target language names to codegen dialects.
package targets

import (
	"strings"

	"github.com/teranos/kirgen/codegen"
	"github.com/teranos/kirgen/codegen/lua"
	"github.com/teranos/kirgen/codegen/python"
	"github.com/teranos/kirgen/errors"
)

// Names lists the supported target languages
var Names = []string{"lua", "python"}

// Lookup returns the dialect for a target name or file extension
func Lookup(target string) (codegen.Dialect, error) {
	switch strings.ToLower(strings.TrimPrefix(target, ".")) {
	case "lua":
		return lua.New(), nil
	case "python", "py":
		return python.New(), nil
	default:
		return nil, errors.WithHintf(
			errors.Wrapf(errors.ErrUnsupportedTarget, "target %q", target),
			"supported targets: %s", strings.Join(Names, ", "))
	}
}
