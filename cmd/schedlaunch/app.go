package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Swind/go-sched-launcher/core"
	promexport "github.com/Swind/go-sched-launcher/observability/prometheus"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	appName   = "schedlaunch"
	usageText = "-n <num_threads> -t <time_wait> -s <policies> -p <priorities>"
)

// usageError marks command-line mistakes: the user gets the usage hint.
type usageError struct {
	reason string
}

func (e *usageError) Error() string {
	return fmt.Sprintf("%s; usage: %s %s", e.reason, appName, usageText)
}

func newApp(platform core.Platform, stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:            appName,
		Usage:           "launch CPU-pinned workers with per-thread scheduling policies",
		UsageText:       appName + " " + usageText,
		HideHelpCommand: true,
		Writer:          stdout,
		ErrWriter:       stderr,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "threads",
				Aliases: []string{"n"},
				Usage:   "number of worker threads",
			},
			&cli.Float64Flag{
				Name:    "time",
				Aliases: []string{"t"},
				Usage:   "busy-wait `seconds` per workload iteration",
			},
			&cli.StringFlag{
				Name:    "policies",
				Aliases: []string{"s"},
				Usage:   "comma-separated policy per thread: N (time-shared) or F (FIFO)",
			},
			&cli.StringFlag{
				Name:    "priorities",
				Aliases: []string{"p"},
				Usage:   "comma-separated priority per thread, -1 for the platform default",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "warn",
				EnvVars: []string{"SCHEDLAUNCH_LOG_LEVEL"},
				Usage:   "diagnostic log level (debug, info, warn, error)",
			},
			&cli.PathFlag{
				Name:  "metrics-out",
				Usage: "write Prometheus text-format metrics to `FILE` after a successful run",
			},
		},
		OnUsageError: func(c *cli.Context, err error, isSubcommand bool) error {
			return &usageError{reason: err.Error()}
		},
		// Exit codes are decided by run, never inside the cli package.
		ExitErrHandler: func(c *cli.Context, err error) {},
		Action:         launchAction(platform, stdout, stderr),
	}
}

func launchAction(platform core.Platform, stdout, stderr io.Writer) cli.ActionFunc {
	return func(c *cli.Context) error {
		// 1. Get flags
		var missing []string
		for _, name := range []string{"threads", "time", "policies", "priorities"} {
			if !c.IsSet(name) {
				missing = append(missing, name)
			}
		}
		if len(missing) > 0 {
			return &usageError{reason: "missing required flags: " + strings.Join(missing, ", ")}
		}
		if c.NArg() > 0 {
			return &usageError{reason: fmt.Sprintf("unexpected arguments: %s", strings.Join(c.Args().Slice(), " "))}
		}

		logger, err := newLogger(c.String("log-level"), stderr)
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}
		defer func() { _ = logger.Sync() }()

		// 2. Validate
		cfg, err := core.ParseLaunchConfig(c.Int("threads"), c.Float64("time"), c.String("policies"), c.String("priorities"))
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}

		// 3. Launch
		opts := core.DefaultLauncherOptions(platform)
		opts.Logger = core.NewZapLogger(logger)
		opts.Output = stdout

		metricsOut := c.Path("metrics-out")
		var reg *prom.Registry
		if metricsOut != "" {
			reg = prom.NewRegistry()
			exporter, err := promexport.NewMetricsExporter("", reg, promexport.ExporterOptions{})
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			opts.Metrics = exporter
		}

		launcher, err := core.NewLauncher(cfg, opts)
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}
		if err := launcher.Run(); err != nil {
			return cli.Exit(err.Error(), 1)
		}

		// 4. Export
		if reg != nil {
			if err := prom.WriteToTextfile(metricsOut, reg); err != nil {
				return cli.Exit(fmt.Sprintf("write metrics: %v", err), 1)
			}
		}
		return nil
	}
}

func newLogger(level string, w io.Writer) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	enc := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	return zap.New(zapcore.NewCore(enc, zapcore.AddSync(w), lvl)), nil
}

// run executes the application and returns the process exit code.
// Every failure produces exactly one diagnostic line on stderr.
func run(args []string, platform core.Platform, stdout, stderr io.Writer) int {
	app := newApp(platform, stdout, stderr)
	err := app.Run(args)
	if err == nil {
		return 0
	}

	fmt.Fprintf(stderr, "%s: %v\n", appName, err)

	var ue *usageError
	if errors.As(err, &ue) {
		return 1
	}
	var ec cli.ExitCoder
	if errors.As(err, &ec) && ec.ExitCode() != 0 {
		return ec.ExitCode()
	}
	return 1
}
