package build

import (
	"context"
	"io"
	"time"

	"git.home.luguber.info/inful/sitekiln/internal/compiler"
	"git.home.luguber.info/inful/sitekiln/internal/config"
)

// Service executes builds.
type Service interface {
	Run(ctx context.Context, req Request) (*Result, error)
}

// Request contains the inputs of one build.
type Request struct {
	Config  *config.Config
	Options Options
}

// Options modify build behavior.
type Options struct {
	// TargetGlob restricts the build to input paths it matches, relative to
	// the input directory. Overrides the configured target glob.
	TargetGlob string

	// Concurrency bounds parallel file processing. Zero uses the configured value.
	Concurrency int

	// DryRun compiles and transforms without writing output.
	DryRun bool

	// Progress receives a progress bar when non-nil and progress is enabled.
	Progress io.Writer
}

// Hook runs before or after the files of a build are processed.
type Hook func(ctx context.Context, s *compiler.Session) error

// Result contains the outcome of a build.
type Result struct {
	Status    Status
	SessionID string
	Files     int
	Written   int
	Failures  []FileFailure
	Duration  time.Duration
	StartTime time.Time
	EndTime   time.Time
}

// FileFailure records one file that could not be built.
type FileFailure struct {
	InputPath  string
	OutputPath string
	Err        error
}

// Status represents the outcome of a build.
type Status string

const (
	StatusSuccess   Status = "success"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// IsSuccess reports whether every file was built.
func (s Status) IsSuccess() bool { return s == StatusSuccess }
