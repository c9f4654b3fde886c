package orchestrator

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/kballard/go-shellquote"

	"github.com/teranos/kirgen/errors"
)

// filePlaceholder in a formatter command is replaced by the generated file path
const filePlaceholder = "{file}"

const formatterTimeout = 30 * time.Second

// Formatter runs an external code formatter (stylua, black, ...) on
// generated files
type Formatter struct {
	argv []string
}

// NewFormatter parses a command template such as "stylua --indent-width 2 {file}".
// Without a {file} placeholder the path is appended as the last argument.
func NewFormatter(command string) (*Formatter, error) {
	argv, err := shellquote.Split(command)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid formatter command %q", command)
	}
	if len(argv) == 0 {
		return nil, errors.Newf("empty formatter command")
	}
	return &Formatter{argv: argv}, nil
}

// Args returns the command line for path
func (f *Formatter) Args(path string) []string {
	args := make([]string, 0, len(f.argv)+1)
	substituted := false
	for _, a := range f.argv {
		if strings.Contains(a, filePlaceholder) {
			a = strings.ReplaceAll(a, filePlaceholder, path)
			substituted = true
		}
		args = append(args, a)
	}
	if !substituted {
		args = append(args, path)
	}
	return args
}

// Run formats path in place
func (f *Formatter) Run(ctx context.Context, path string) error {
	ctx, cancel := context.WithTimeout(ctx, formatterTimeout)
	defer cancel()

	args := f.Args(path)
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		err = errors.Wrapf(err, "formatter %s failed on %s", args[0], path)
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			err = errors.WithDetail(err, msg)
		}
		return err
	}
	return nil
}
