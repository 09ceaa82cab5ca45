package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/sitekiln/internal/devserver"
)

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Host         string `help:"Override dev_server.host"`
	Port         int    `short:"p" help:"Override dev_server.port"`
	NoLiveReload bool   `name:"no-live-reload" help:"Disable the live reload endpoint and script injection"`
}

func (s *ServeCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	if s.Host != "" {
		cfg.DevServer.Host = s.Host
	}
	if s.Port != 0 {
		cfg.DevServer.Port = s.Port
	}
	if s.NoLiveReload {
		off := false
		cfg.DevServer.LiveReload = &off
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rs := newRecorder(cfg)
	srv, err := devserver.New(ctx, cfg, g.Logger,
		devserver.WithRecorder(rs.recorder),
		devserver.WithMetricsHandler(rs.handler))
	if err != nil {
		return err
	}
	return srv.Run(ctx)
}
