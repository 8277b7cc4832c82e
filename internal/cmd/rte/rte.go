// Package rte wires the run-time host command: it seeds an RTE instance from
// a stored snapshot, runs a content script against it and prints the final
// state.
package rte

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/scormrte/internal/platform/cmd"
	"github.com/louisbranch/scormrte/internal/platform/otel"
	"github.com/louisbranch/scormrte/internal/platform/telemetry/metrics"
	"github.com/louisbranch/scormrte/internal/services/rte"
	"github.com/louisbranch/scormrte/internal/services/rte/domain/datamodel"
	"github.com/louisbranch/scormrte/internal/services/rte/domain/scorm"
	"github.com/louisbranch/scormrte/internal/services/rte/jshost"
	"github.com/louisbranch/scormrte/internal/services/rte/logsink"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	outputJSON = "json"
	outputYAML = "yaml"
)

// Config holds rte command configuration.
type Config struct {
	Version       string        `env:"SCORMRTE_VERSION"       envDefault:"2004"`
	LogLevel      string        `env:"SCORMRTE_LOG_LEVEL"     envDefault:"error"`
	Locale        string        `env:"SCORMRTE_LOCALE"`
	Unimplemented []string      `env:"SCORMRTE_UNIMPLEMENTED" envSeparator:","`
	SnapshotFile  string        `env:"SCORMRTE_SNAPSHOT_FILE"`
	ContentFile   string        `env:"SCORMRTE_CONTENT_FILE"`
	CommitFile    string        `env:"SCORMRTE_COMMIT_FILE"`
	Output        string        `env:"SCORMRTE_OUTPUT"        envDefault:"json"`
	Timeout       time.Duration `env:"SCORMRTE_TIMEOUT"       envDefault:"30s"`
	MetricsFile   string        `env:"SCORMRTE_METRICS_FILE"`
}

// ParseConfig parses env defaults and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := cmd.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.Version, "version", cfg.Version, "SCORM version (1.2 or 2004)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "call log level (debug, info, warning, error, none)")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "error message locale")
	fs.Func("unimplemented", "comma separated SCORM 1.2 groups to report as not implemented", func(v string) error {
		cfg.Unimplemented = splitList(v)
		return nil
	})
	fs.StringVar(&cfg.SnapshotFile, "snapshot", cfg.SnapshotFile, "JSON or YAML snapshot to load before the content runs")
	fs.StringVar(&cfg.ContentFile, "content", cfg.ContentFile, "JavaScript content to run")
	fs.StringVar(&cfg.CommitFile, "commit-file", cfg.CommitFile, "write the snapshot here on every Commit")
	fs.StringVar(&cfg.Output, "output", cfg.Output, "final snapshot format (json or yaml)")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "content run timeout")
	fs.StringVar(&cfg.MetricsFile, "metrics-file", cfg.MetricsFile, "write call metrics to this file in Prometheus text format")
	if err := cmd.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run executes the rte command.
func Run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	version, err := scorm.ParseVersion(cfg.Version)
	if err != nil {
		return err
	}
	level, err := logsink.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	output := strings.ToLower(strings.TrimSpace(cfg.Output))
	if output == "" {
		output = outputJSON
	}
	if output != outputJSON && output != outputYAML {
		return fmt.Errorf("unsupported output format %q", cfg.Output)
	}

	options := cmd.RunOptions{Timeout: cfg.Timeout}
	return cmd.RunWithTelemetryAndOptions(ctx, cmd.ServiceRTE, options, func(ctx context.Context) error {
		logger := logrus.New()
		logger.SetOutput(errOut)
		logger.SetLevel(logrus.DebugLevel)
		sink := logsink.NewLogrus(logger, level)

		collector := metrics.NewCollector("")
		api, err := rte.New(rte.Options{
			Version:       version,
			Locale:        cfg.Locale,
			Unimplemented: cfg.Unimplemented,
			Sink:          sink,
			Observers: []rte.Observer{
				rte.NewMetricsObserver(collector),
				rte.NewTracingObserver(ctx, otel.Tracer("scormrte/rte")),
			},
			OnCommit: commitWriter(cfg.CommitFile),
		})
		if err != nil {
			return err
		}
		sink = sink.WithFields(logrus.Fields{"instance": api.ID()})

		if cfg.SnapshotFile != "" {
			if err := loadSnapshot(api, cfg.SnapshotFile); err != nil {
				var pathErr *os.PathError
				if errors.As(err, &pathErr) {
					return err
				}
				sink.Log("Load", "", err.Error(), logsink.LevelWarning)
			}
		}

		if cfg.ContentFile != "" {
			script, err := os.ReadFile(cfg.ContentFile)
			if err != nil {
				return fmt.Errorf("read content: %w", err)
			}
			host, err := jshost.New(rte.NewHandle(api), jshost.Options{Sink: sink, Timeout: cfg.Timeout})
			if err != nil {
				return err
			}
			result, err := host.Run(ctx, filepath.Base(cfg.ContentFile), string(script))
			if err != nil {
				return err
			}
			sink.Log("content", "", fmt.Sprintf("content made %d calls and %d error queries", result.Calls, result.Queries), logsink.LevelInfo)
		}

		if cfg.MetricsFile != "" {
			if err := collector.WriteTextfile(cfg.MetricsFile); err != nil {
				return fmt.Errorf("write metrics: %w", err)
			}
		}
		return writeSnapshot(out, api.Snapshot(), output)
	})
}

func loadSnapshot(api *rte.API, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return api.LoadYAML(data)
	default:
		return api.LoadJSON(data)
	}
}

// commitWriter persists each committed snapshot as indented JSON.
func commitWriter(path string) rte.CommitFunc {
	if path == "" {
		return nil
	}
	return func(tree *datamodel.Tree) error {
		data, err := json.MarshalIndent(tree, "", "  ")
		if err != nil {
			return err
		}
		return os.WriteFile(path, append(data, '\n'), 0o600)
	}
}

func writeSnapshot(out io.Writer, tree *datamodel.Tree, format string) error {
	if format == outputYAML {
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(tree); err != nil {
			return fmt.Errorf("encode snapshot: %w", err)
		}
		return enc.Close()
	}
	data, err := json.MarshalIndent(tree, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
