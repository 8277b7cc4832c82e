package config

import (
	"strings"
	"testing"
	"time"
)

type envTestConfig struct {
	Version string        `env:"SCORMRTE_TEST_VERSION" envDefault:"2004"`
	Timeout time.Duration `env:"SCORMRTE_TEST_TIMEOUT" envDefault:"30s"`
	Groups  []string      `env:"SCORMRTE_TEST_GROUPS" envSeparator:","`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Version != "2004" {
		t.Fatalf("expected default version 2004, got %q", cfg.Version)
	}
	if cfg.Timeout != 30*time.Second {
		t.Fatalf("expected default timeout 30s, got %v", cfg.Timeout)
	}
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("SCORMRTE_TEST_TIMEOUT", "soon")

	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestParseEnvFrom(t *testing.T) {
	var cfg envTestConfig
	err := ParseEnvFrom(&cfg, map[string]string{
		"SCORMRTE_TEST_VERSION": "1.2",
		"SCORMRTE_TEST_GROUPS":  "cmi.objectives,cmi.interactions",
	})
	if err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Version != "1.2" {
		t.Fatalf("expected version 1.2, got %q", cfg.Version)
	}
	if len(cfg.Groups) != 2 || cfg.Groups[1] != "cmi.interactions" {
		t.Fatalf("unexpected groups %v", cfg.Groups)
	}
}

func TestParseEnvFromNilUsesDefaults(t *testing.T) {
	t.Setenv("SCORMRTE_TEST_VERSION", "1.2")
	var cfg envTestConfig
	if err := ParseEnvFrom(&cfg, nil); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Version != "2004" {
		t.Fatalf("expected process env to be ignored, got %q", cfg.Version)
	}
}
