package scenario

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/louisbranch/scormrte/internal/services/rte"
	"github.com/louisbranch/scormrte/internal/services/rte/domain/listener"
	"github.com/louisbranch/scormrte/internal/services/rte/domain/scorm"
	"github.com/louisbranch/scormrte/internal/services/rte/logsink"
)

// Config controls scenario execution.
type Config struct {
	Timeout    time.Duration
	Assertions AssertionMode
	Verbose    bool
	Logger     *log.Logger
	// Sink receives the RTE call log; defaults to logsink.Discard.
	Sink logsink.Sink
	// Observers are attached to every instance a scenario creates.
	Observers []rte.Observer
}

// DefaultConfig returns default runner configuration.
func DefaultConfig() Config {
	return Config{
		Timeout:    10 * time.Second,
		Assertions: AssertionStrict,
		Verbose:    false,
	}
}

// Runner executes Lua scenarios against in-process RTE instances.
type Runner struct {
	newAPI     apiFactory
	assertions Assertions
	logger     *log.Logger
	verbose    bool
	timeout    time.Duration
	sink       logsink.Sink
	observers  []rte.Observer
}

// NewRunner prepares a scenario runner.
func NewRunner(cfg Config) (*Runner, error) {
	return newRunnerWithDeps(cfg, runnerDeps{newAPI: rte.New})
}

// newRunnerWithDeps builds a Runner from pre-built dependencies.
// Config defaults (logger, timeout) are applied here so they are testable.
func newRunnerWithDeps(cfg Config, deps runnerDeps) (*Runner, error) {
	if deps.newAPI == nil {
		return nil, errors.New("rte factory is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "", 0)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	sink := cfg.Sink
	if sink == nil {
		sink = logsink.Discard{}
	}

	return &Runner{
		newAPI:     deps.newAPI,
		assertions: Assertions{Mode: cfg.Assertions, Logger: logger},
		logger:     logger,
		verbose:    cfg.Verbose,
		timeout:    timeout,
		sink:       sink,
		observers:  cfg.Observers,
	}, nil
}

// RunFile loads and executes a scenario file.
func RunFile(ctx context.Context, cfg Config, path string) error {
	runner, err := NewRunner(cfg)
	if err != nil {
		return err
	}

	scenario, err := LoadScenarioFromFile(path)
	if err != nil {
		return err
	}
	return runner.RunScenario(ctx, scenario)
}

// RunScenario executes the scenario steps against a fresh RTE instance.
func (r *Runner) RunScenario(ctx context.Context, scenario *Scenario) error {
	if scenario == nil {
		return errors.New("scenario is required")
	}
	version, err := scorm.ParseVersion(scenario.Version)
	if err != nil {
		return fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}
	api, err := r.newAPI(rte.Options{
		Version:       version,
		Locale:        scenario.Locale,
		Unimplemented: scenario.Unimplemented,
		Sink:          r.sink,
		Observers:     r.observers,
	})
	if err != nil {
		return fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	r.logf("scenario start: %s (SCORM %s, %d steps)", scenario.Name, version, len(scenario.Steps))
	state := &scenarioState{
		api:    api,
		events: map[string][]listener.Event{},
	}

	for index, step := range scenario.Steps {
		stepNumber := index + 1
		r.logf("step %d/%d start: %s", stepNumber, len(scenario.Steps), step.Kind)
		stepStart := time.Now()
		stepCtx, cancel := context.WithTimeout(ctx, r.timeout)
		err := r.runStep(stepCtx, state, step)
		cancel()
		if err != nil {
			return fmt.Errorf("step %d (%s): %w", stepNumber, step.Kind, err)
		}
		r.logf("step %d/%d done: %s (%s)", stepNumber, len(scenario.Steps), step.Kind, time.Since(stepStart))
	}
	r.logf("scenario done: %s", scenario.Name)
	return nil
}

func (r *Runner) logf(format string, args ...any) {
	if !r.verbose || r.logger == nil {
		return
	}
	r.logger.Printf(format, args...)
}
