package schedlauncher

import (
	"io"

	"github.com/Swind/go-sched-launcher/core"
	"github.com/Swind/go-sched-launcher/platform"
)

// Option adjusts the LauncherOptions used by Launch.
type Option func(*core.LauncherOptions)

// WithPlatform replaces the host platform, e.g. with platform/fake in tests.
func WithPlatform(p core.Platform) Option {
	return func(o *core.LauncherOptions) { o.Platform = p }
}

// WithLogger sets the lifecycle logger.
func WithLogger(l core.Logger) Option {
	return func(o *core.LauncherOptions) { o.Logger = l }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m core.Metrics) Option {
	return func(o *core.LauncherOptions) { o.Metrics = m }
}

// WithOutput sets where progress lines are written.
func WithOutput(w io.Writer) Option {
	return func(o *core.LauncherOptions) { o.Output = w }
}

// NewLauncher creates a launcher bound to the host platform unless an option overrides it.
func NewLauncher(cfg core.LaunchConfig, opts ...Option) (*core.Launcher, error) {
	o := core.DefaultLauncherOptions(platform.New())
	for _, opt := range opts {
		opt(o)
	}
	return core.NewLauncher(cfg, o)
}

// Launch runs cfg to completion and returns the first fatal error.
func Launch(cfg core.LaunchConfig, opts ...Option) error {
	l, err := NewLauncher(cfg, opts...)
	if err != nil {
		return err
	}
	return l.Run()
}
