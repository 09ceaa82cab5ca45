package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"git.home.luguber.info/inful/sitekiln/internal/build"
	"git.home.luguber.info/inful/sitekiln/internal/logfields"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Target      string `arg:"" optional:"" help:"Only build sources matching this glob"`
	Output      string `short:"o" help:"Override dir.output"`
	Concurrency int    `short:"j" help:"Files compiled in parallel (defaults to build.concurrency)"`
	DryRun      bool   `name:"dry-run" help:"Compile and transform without writing output"`
	NoProgress  bool   `name:"no-progress" help:"Disable the progress bar"`

	stdout io.Writer
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	if b.Output != "" {
		out, err := filepath.Abs(b.Output)
		if err != nil {
			return err
		}
		cfg.Dir.Output = out
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	opts := build.Options{
		TargetGlob:  b.Target,
		Concurrency: b.Concurrency,
		DryRun:      b.DryRun,
	}
	if !b.NoProgress {
		opts.Progress = os.Stderr
	}

	svc := build.NewService(g.Logger).WithRecorder(newRecorder(cfg).recorder)
	result, err := svc.Run(ctx, build.Request{Config: cfg, Options: opts})
	if result != nil {
		g.Logger.Info("Build finished",
			logfields.SessionID(result.SessionID),
			logfields.Files(result.Files),
			slog.Int("failures", len(result.Failures)),
			logfields.DurationMS(float64(result.Duration.Milliseconds())))
	}
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(b.out(), "Built %d files into %s in %s\n", result.Written, cfg.Dir.Output, result.Duration.Round(time.Millisecond))
	return nil
}

func (b *BuildCmd) out() io.Writer {
	if b.stdout != nil {
		return b.stdout
	}
	return os.Stdout
}
