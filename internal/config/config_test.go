package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
)

func TestLoadFallsBackToDefaultsWithNoConfigFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	xdg.Reload()
	t.Cleanup(xdg.Reload)

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.BatchSize != DefaultBatchSize {
		t.Fatalf("expected default batch size %d, got %d", DefaultBatchSize, cfg.BatchSize)
	}
	if cfg.TickIntervalMS != DefaultTickIntervalMS {
		t.Fatalf("expected default tick interval, got %d", cfg.TickIntervalMS)
	}
	if len(cfg.Exclude) != len(DefaultExclusions) || cfg.Exclude[0] != DefaultExclusions[0] {
		t.Fatalf("expected default exclusions, got %v", cfg.Exclude)
	}
}

func TestLoadReadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	configDir := filepath.Join(dir, "cachesweep")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		t.Fatal(err)
	}
	contents := "batch_size: 25\nsizer_permits: 4\nexclude:\n  - .git\n  - vendor\n"
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("XDG_CONFIG_HOME", dir)
	xdg.Reload()
	t.Cleanup(xdg.Reload)

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.BatchSize != 25 {
		t.Fatalf("expected batch_size 25 from file, got %d", cfg.BatchSize)
	}
	if cfg.SizerPermits != 4 {
		t.Fatalf("expected sizer_permits 4 from file, got %d", cfg.SizerPermits)
	}
	if len(cfg.Exclude) != 2 {
		t.Fatalf("expected 2 exclusions from file, got %v", cfg.Exclude)
	}
}

func TestEnvironmentOverridesDefault(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("CACHESWEEP_BATCH_SIZE", "99")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.BatchSize != 99 {
		t.Fatalf("expected env override to win, got %d", cfg.BatchSize)
	}
}
