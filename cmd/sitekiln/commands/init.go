package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/sitekiln/internal/config"
	ferrors "git.home.luguber.info/inful/sitekiln/internal/foundation/errors"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force  bool   `help:"Overwrite an existing configuration file"`
	Output string `short:"o" name:"output" help:"Directory to write sitekiln.yaml into (defaults to --config)"`

	stdout io.Writer
}

func (i *InitCmd) Run(_ *Global, root *CLI) error {
	path := root.Config
	if i.Output != "" {
		path = filepath.Join(i.Output, DefaultConfigPath)
	}
	if err := config.Init(path, i.Force); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryConfig, "initialization failed").
			WithContext("path", path).Build()
	}
	out := i.stdout
	if out == nil {
		out = os.Stdout
	}
	_, _ = fmt.Fprintf(out, "Wrote %s\n", path)
	return nil
}
