// Package display renders structured CLI output (config, document
// summaries, build info) in the format a command was asked for.
package display

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/kirgen/errors"
)

// Supported output formats
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// Marshal encodes v in the named format. JSON is indented for humans.
func Marshal(format string, v interface{}) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	switch format {
	case FormatJSON:
		data, err = json.MarshalIndent(v, "", "  ")
		if err == nil {
			data = append(data, '\n')
		}
	case FormatYAML:
		data, err = yaml.Marshal(v)
	case FormatTOML:
		data, err = toml.Marshal(v)
	default:
		return nil, errors.Newf("unsupported format: %s", format)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal to %s", format)
	}
	return data, nil
}

// Write marshals v and writes it to w. A non-empty comment is printed as a
// leading "# comment" line for the formats that allow one.
func Write(w io.Writer, format, comment string, v interface{}) error {
	data, err := Marshal(format, v)
	if err != nil {
		return err
	}
	if comment != "" && format != FormatJSON {
		fmt.Fprintf(w, "# %s\n", comment)
	}
	_, err = w.Write(data)
	return err
}

// ShouldOutputJSON reports whether --json was set on the command or on the root
func ShouldOutputJSON(cmd *cobra.Command) bool {
	if cmd == nil {
		return false
	}
	if f := cmd.Flags().Lookup("json"); f != nil && f.Changed {
		v, _ := cmd.Flags().GetBool("json")
		return v
	}
	v, _ := cmd.Root().PersistentFlags().GetBool("json")
	return v
}
