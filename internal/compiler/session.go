// Package compiler maps output extensions to compile functions and exposes
// the recursive compile capability used by builds, the dev server and
// transforms.
package compiler

import (
	"log/slog"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/sitekiln/internal/asset"
	"git.home.luguber.info/inful/sitekiln/internal/config"
	"git.home.luguber.info/inful/sitekiln/internal/content"
	"git.home.luguber.info/inful/sitekiln/internal/logfields"
	"git.home.luguber.info/inful/sitekiln/internal/metrics"
)

// Session holds the state shared by every compile of one build or one dev
// server lifetime. The content cache belongs to the session.
type Session struct {
	ID       string
	Mode     config.Mode
	Config   *config.Config
	Resolver *asset.Resolver
	Source   *content.Source
	Recorder metrics.Recorder
	Logger   *slog.Logger
}

// NewSession starts a session for cfg in mode.
func NewSession(cfg *config.Config, mode config.Mode, logger *slog.Logger, rec metrics.Recorder) (*Session, error) {
	resolver, err := asset.NewResolver(cfg.Dir.Input, cfg.Dir.Output)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	id := uuid.NewString()
	return &Session{
		ID:       id,
		Mode:     mode,
		Config:   cfg,
		Resolver: resolver,
		Source:   content.NewSource(content.NewCache(cfg.Cache.Size)),
		Recorder: metrics.OrNoop(rec),
		Logger:   logger.With(logfields.SessionID(id), logfields.Mode(string(mode))),
	}, nil
}
