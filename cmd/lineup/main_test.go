package main

import (
	"path/filepath"
	"testing"

	"github.com/derekprior/lineup/internal/config"
	"github.com/derekprior/lineup/internal/schedule"
)

func TestRunInit(t *testing.T) {
	dir := t.TempDir()
	if err := runInit(dir); err != nil {
		t.Fatalf("runInit() error: %v", err)
	}

	cfg, err := config.LoadFromFile(filepath.Join(dir, defaultConfigFile))
	if err != nil {
		t.Fatalf("starter config does not load: %v", err)
	}
	players, err := config.LoadRosterFile(filepath.Join(dir, defaultRosterFile))
	if err != nil {
		t.Fatalf("starter roster does not load: %v", err)
	}

	t.Run("starter files plan a match", func(t *testing.T) {
		sched, err := schedule.Build(players, cfg)
		if err != nil {
			t.Fatalf("Build() error: %v", err)
		}
		if err := schedule.Verify(sched); err != nil {
			t.Errorf("Verify() error: %v", err)
		}
	})

	t.Run("refuses to overwrite", func(t *testing.T) {
		if err := runInit(dir); err == nil {
			t.Error("expected error when files already exist")
		}
	})
}

func TestResolveAddr(t *testing.T) {
	t.Setenv("LINEUP_ADDR", "")
	if got := resolveAddr(""); got != defaultAddr {
		t.Errorf("resolveAddr() = %q, want %q", got, defaultAddr)
	}

	t.Setenv("LINEUP_ADDR", ":9090")
	if got := resolveAddr(""); got != ":9090" {
		t.Errorf("resolveAddr() = %q, want :9090", got)
	}
	if got := resolveAddr(":7000"); got != ":7000" {
		t.Errorf("resolveAddr(:7000) = %q, want :7000", got)
	}
}

func TestResolveConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := resolveConfig("")
	if err != nil {
		t.Fatalf("resolveConfig() error: %v", err)
	}
	if cfg.Match.TotalMinutes != 60 {
		t.Errorf("TotalMinutes = %d, want 60", cfg.Match.TotalMinutes)
	}
	if _, err := resolveRoster(""); err == nil {
		t.Error("expected error without a roster file")
	}
}
