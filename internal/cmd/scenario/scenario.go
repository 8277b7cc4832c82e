package scenario

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/louisbranch/scormrte/internal/platform/cmd"
	"github.com/louisbranch/scormrte/internal/platform/otel"
	"github.com/louisbranch/scormrte/internal/platform/telemetry/metrics"
	"github.com/louisbranch/scormrte/internal/services/rte"
	"github.com/louisbranch/scormrte/internal/services/rte/logsink"
	"github.com/louisbranch/scormrte/internal/tools/scenario"
	"github.com/sirupsen/logrus"
)

// Config holds scenario command configuration.
type Config struct {
	Scenario    string        `env:"SCORMRTE_SCENARIO_FILE"`
	Assertions  bool          `env:"SCORMRTE_SCENARIO_ASSERT"  envDefault:"true"`
	Verbose     bool          `env:"SCORMRTE_SCENARIO_VERBOSE"`
	Timeout     time.Duration `env:"SCORMRTE_TIMEOUT"          envDefault:"10s"`
	LogLevel    string        `env:"SCORMRTE_LOG_LEVEL"        envDefault:"error"`
	MetricsFile string        `env:"SCORMRTE_METRICS_FILE"`
}

// ParseConfig parses env defaults and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := cmd.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.Scenario, "scenario", cfg.Scenario, "path to scenario lua file")
	fs.BoolVar(&cfg.Assertions, "assert", cfg.Assertions, "enable assertions (disable to log expectations)")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "enable verbose logging")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "timeout per step")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "rte call log level (debug, info, warning, error, none)")
	fs.StringVar(&cfg.MetricsFile, "metrics-file", cfg.MetricsFile, "write call metrics to this file in Prometheus text format")
	if err := cmd.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run executes the scenario command.
func Run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	if cfg.Scenario == "" {
		return errors.New("scenario path is required")
	}
	level, err := logsink.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}

	mode := scenario.AssertionStrict
	if !cfg.Assertions {
		mode = scenario.AssertionLogOnly
	}

	return cmd.RunWithTelemetry(ctx, cmd.ServiceScenario, func(ctx context.Context) error {
		logger := logrus.New()
		logger.SetOutput(errOut)
		logger.SetLevel(logrus.DebugLevel)

		collector := metrics.NewCollector("")
		err := scenario.RunFile(ctx, scenario.Config{
			Timeout:    cfg.Timeout,
			Assertions: mode,
			Verbose:    cfg.Verbose,
			Logger:     log.New(errOut, "", 0),
			Sink:       logsink.NewLogrus(logger, level).WithFields(logrus.Fields{"scenario": cfg.Scenario}),
			Observers: []rte.Observer{
				rte.NewMetricsObserver(collector),
				rte.NewTracingObserver(ctx, otel.Tracer("scormrte/scenario")),
			},
		}, cfg.Scenario)
		if cfg.MetricsFile != "" {
			if werr := collector.WriteTextfile(cfg.MetricsFile); werr != nil {
				err = errors.Join(err, fmt.Errorf("write metrics: %w", werr))
			}
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "scenario passed: %s\n", cfg.Scenario)
		return nil
	})
}
