package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	t.Setenv("BACKUP_ROOT", "/srv/backups")

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
source: $(BACKUP_ROOT)/incoming
destination: /mnt/archive
retention:
  keepAll: 2
  keepDaily: 14
watch:
  mode: poll
  pollInterval: 1m
  schedule: "0 3 * * *"
metrics:
  textfile: /var/lib/node_exporter/backup_rotator.prom
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Source != "/srv/backups/incoming" {
		t.Errorf("Source = %q, want expanded path", cfg.Source)
	}
	if cfg.Retention.KeepAll != 2 || cfg.Retention.KeepDaily != 14 {
		t.Errorf("Retention = %+v", cfg.Retention)
	}
	// not in the file, default kept
	if cfg.Retention.KeepWeekly != 30 {
		t.Errorf("KeepWeekly = %d, want default 30", cfg.Retention.KeepWeekly)
	}
	if cfg.Mirror.Method != "native" {
		t.Errorf("Mirror.Method = %q, want default native", cfg.Mirror.Method)
	}
	if cfg.Watch.PollInterval != time.Minute {
		t.Errorf("PollInterval = %v, want 1m", cfg.Watch.PollInterval)
	}
	if cfg.Watch.DebounceWindow != 2*time.Second {
		t.Errorf("DebounceWindow = %v, want default 2s", cfg.Watch.DebounceWindow)
	}
	if cfg.Metrics.Textfile == "" {
		t.Error("Metrics.Textfile not loaded")
	}

	if err := cfg.Validate(true); err != nil {
		t.Errorf("Validate() failed: %v", err)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() of a missing file should fail")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("retention: [1, 2"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() of malformed yaml should fail")
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("DB_NAME", "osiweb")
	got := expandEnvVars("/backups/$(DB_NAME)/$(UNSET_VARIABLE_X)")
	if got != "/backups/osiweb/" {
		t.Errorf("expandEnvVars() = %q", got)
	}
}
