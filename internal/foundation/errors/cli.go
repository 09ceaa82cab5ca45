package errors

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// CLIErrorAdapter reports a command's error and exits with a code derived
// from its category.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
	stderr  io.Writer
	exit    func(int)
}

func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{verbose: verbose, logger: logger, stderr: os.Stderr, exit: os.Exit}
}

// ExitCodeFor is 0 for nil, 1 for unclassified errors and the category's
// code otherwise.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	return outcomeFor(err).exit
}

// FormatError renders err for stderr. Verbose mode shows the full chain.
func (a *CLIErrorAdapter) FormatError(err error) string {
	c, ok := AsClassified(err)
	switch {
	case err == nil:
		return ""
	case !ok:
		return fmt.Sprintf("Error: %v", err)
	case a.verbose:
		return c.Error()
	case c.category == CategoryInternal:
		return "Internal error occurred (use -v for details)"
	default:
		return "Error: " + c.Detail()
	}
}

// HandleError logs err, prints it and exits. Non-fatal classified errors
// are only logged in verbose mode.
func (a *CLIErrorAdapter) HandleError(err error) {
	if err == nil {
		return
	}
	c, ok := AsClassified(err)
	switch {
	case !ok:
		a.logger.Error("Unclassified error", slog.Any("error", err))
	case a.verbose || c.severity == SeverityFatal:
		a.logger.LogAttrs(context.Background(), c.severity.Level(), c.message, slog.Any("error", c))
	}
	_, _ = fmt.Fprintln(a.stderr, a.FormatError(err))
	a.exit(a.ExitCodeFor(err))
}
