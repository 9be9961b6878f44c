package environment_test

import (
	"testing"
	"time"

	"github.com/jrazmi/taskwire/sdk/environment"
)

type testConfig struct {
	Port     string        `env:"PORT" default:":8080"`
	Origins  []string      `env:"ORIGINS" separator:","`
	TTL      time.Duration `env:"TTL" default:"24h"`
	MaxConns int           `env:"MAX_CONNS" default:"5"`
	Debug    bool          `env:"DEBUG" default:"false"`
	Secret   string        `env:"SECRET"`
	skipped  string
}

func TestParseEnvTagsDefaults(t *testing.T) {
	var cfg testConfig
	if err := environment.ParseEnvTags("TWTEST", &cfg); err != nil {
		t.Fatalf("parse: %v", err)
	}

	if cfg.Port != ":8080" {
		t.Errorf("Port = %q, want :8080", cfg.Port)
	}
	if cfg.TTL != 24*time.Hour {
		t.Errorf("TTL = %v, want 24h", cfg.TTL)
	}
	if cfg.MaxConns != 5 {
		t.Errorf("MaxConns = %d, want 5", cfg.MaxConns)
	}
	if cfg.Origins != nil {
		t.Errorf("Origins = %v, want nil", cfg.Origins)
	}
}

func TestParseEnvTagsFromEnvironment(t *testing.T) {
	t.Setenv("TWTEST_PORT", ":9000")
	t.Setenv("TWTEST_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("TWTEST_TTL", "90m")
	t.Setenv("TWTEST_DEBUG", "true")

	var cfg testConfig
	if err := environment.ParseEnvTags("TWTEST", &cfg); err != nil {
		t.Fatalf("parse: %v", err)
	}

	if cfg.Port != ":9000" {
		t.Errorf("Port = %q, want :9000", cfg.Port)
	}
	if len(cfg.Origins) != 2 || cfg.Origins[1] != "https://b.example" {
		t.Errorf("Origins = %v", cfg.Origins)
	}
	if cfg.TTL != 90*time.Minute {
		t.Errorf("TTL = %v, want 90m", cfg.TTL)
	}
	if !cfg.Debug {
		t.Error("Debug = false, want true")
	}
}

func TestParseEnvTagsRequired(t *testing.T) {
	var cfg struct {
		Key string `env:"KEY" required:"true"`
	}
	if err := environment.ParseEnvTags("TWTEST_MISSING", &cfg); err == nil {
		t.Fatal("expected error for missing required variable")
	}
}

func TestParseEnvTagsRejectsNonPointer(t *testing.T) {
	if err := environment.ParseEnvTags("", testConfig{}); err == nil {
		t.Fatal("expected error for non-pointer config")
	}
}
