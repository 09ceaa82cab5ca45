// Package commands implements the sitekiln command line.
package commands

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/sitekiln/internal/config"
	ferrors "git.home.luguber.info/inful/sitekiln/internal/foundation/errors"
	"git.home.luguber.info/inful/sitekiln/internal/observability"
)

// DefaultConfigPath is used when --config is not given.
const DefaultConfigPath = "sitekiln.yaml"

// Global carries state shared by every command.
type Global struct {
	Logger *slog.Logger
}

// CLI is the root command.
type CLI struct {
	Config    string           `short:"c" help:"Configuration file path" default:"sitekiln.yaml" type:"path"`
	Verbose   bool             `short:"v" help:"Enable verbose logging"`
	LogLevel  string           `name:"log-level" help:"Override logging.level (debug|info|warn|error)"`
	LogFormat string           `name:"log-format" help:"Override logging.format (text|json)"`
	Version   kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build   BuildCmd   `cmd:"" help:"Compile every source file into the output directory"`
	Serve   ServeCmd   `cmd:"" help:"Compile and serve sources on request with live reload"`
	Init    InitCmd    `cmd:"" help:"Write an example configuration file"`
	Release VersionCmd `cmd:"" name:"version" help:"Print version information"`
}

// AfterApply installs a logger from the command line flags. Commands that
// load a configuration refine it with the file's logging section.
func (c *CLI) AfterApply(g *Global) error {
	g.Logger = c.logger(config.LoggingConfig{})
	slog.SetDefault(g.Logger)
	return nil
}

func (c *CLI) logger(fromFile config.LoggingConfig) *slog.Logger {
	lc := fromFile
	if c.LogLevel != "" {
		lc.Level = config.NormalizeLogLevel(c.LogLevel)
	}
	if c.LogFormat != "" {
		lc.Format = config.NormalizeLogFormat(c.LogFormat)
	}
	if c.Verbose {
		lc.Level = config.LogLevelDebug
	}
	return observability.NewLogger(os.Stderr, lc)
}

// loadConfig reads the configuration. A missing file at the default path
// falls back to defaults rooted at the working directory.
func (c *CLI) loadConfig(g *Global) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if _, statErr := os.Stat(c.Config); errors.Is(statErr, fs.ErrNotExist) && isDefaultConfigPath(c.Config) {
		cfg, err = config.Default(".")
	} else {
		cfg, err = config.Load(c.Config)
	}
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to load configuration").
			WithContext("path", c.Config).Build()
	}
	g.Logger = c.logger(cfg.Logging)
	slog.SetDefault(g.Logger)
	return cfg, nil
}

func isDefaultConfigPath(p string) bool {
	def, err := filepath.Abs(DefaultConfigPath)
	if err != nil {
		return false
	}
	abs, err := filepath.Abs(p)
	return err == nil && abs == def
}
