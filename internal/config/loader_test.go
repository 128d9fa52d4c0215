package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"screenbot/internal/bot"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "screenbot.ini")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `[Automation]
dpi_ratio = 1
wait_time_ms = 250
sample_rate = 5.5
template_dir = /tmp/templates
journal_path = /tmp/journal.db
log_level = DEBUG
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.DPIRatio != 1 {
		t.Errorf("expected dpi 1, got %d", cfg.DPIRatio)
	}
	if cfg.WaitTime != 250*time.Millisecond {
		t.Errorf("expected 250ms wait, got %v", cfg.WaitTime)
	}
	if cfg.SampleRate != 5.5 {
		t.Errorf("expected rate 5.5, got %v", cfg.SampleRate)
	}
	if cfg.TemplateDir != "/tmp/templates" {
		t.Errorf("unexpected template dir %q", cfg.TemplateDir)
	}
	if cfg.JournalPath != "/tmp/journal.db" {
		t.Errorf("unexpected journal path %q", cfg.JournalPath)
	}
	if cfg.LogLevel != "DEBUG" {
		t.Errorf("unexpected log level %q", cfg.LogLevel)
	}
}

func TestLoadEmptyFileYieldsDefaults(t *testing.T) {
	path := writeConfig(t, "")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.DPIRatio != bot.DefaultDPIRatio {
		t.Errorf("expected default dpi, got %d", cfg.DPIRatio)
	}
	if cfg.WaitTime != bot.DefaultWaitTime {
		t.Errorf("expected default wait, got %v", cfg.WaitTime)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.ini")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadOrDefaultMissingFile(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "nope.ini"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DPIRatio != bot.DefaultDPIRatio {
		t.Errorf("expected default dpi, got %d", cfg.DPIRatio)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.ini")
	in := bot.Config{
		DPIRatio:    1,
		WaitTime:    120 * time.Millisecond,
		SampleRate:  7,
		TemplateDir: "assets",
		JournalPath: "journal.db",
		LogLevel:    "WARN",
	}

	if err := Save(path, in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != in {
		t.Errorf("round trip mismatch:\n in: %+v\nout: %+v", in, out)
	}
}
