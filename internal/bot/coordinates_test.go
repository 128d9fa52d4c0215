package bot

import (
	"testing"

	"screenbot/internal/window"
)

func TestToScreen(t *testing.T) {
	origin := window.Bounds{X: 100, Y: 50, Width: 800, Height: 600}

	tests := []struct {
		name         string
		dpi          int
		rx, ry       int
		wantX, wantY int
	}{
		{"hidpi", 2, 40, 20, 120, 60},
		{"standard dpi", 1, 40, 20, 140, 70},
		{"odd pixel truncates", 2, 41, 21, 120, 60},
		{"origin only", 2, 0, 0, 100, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMapper(tt.dpi)
			x, y := m.ToScreen(origin, tt.rx, tt.ry)
			if x != tt.wantX || y != tt.wantY {
				t.Errorf("expected (%d, %d), got (%d, %d)", tt.wantX, tt.wantY, x, y)
			}
		})
	}
}

func TestToScreenFractionalOrigin(t *testing.T) {
	// Window servers report sub-point origins; conversion truncates.
	origin := window.Bounds{X: 100.9, Y: 50.7}
	m := NewMapper(2)

	x, y := m.ToScreen(origin, 10, 10)
	if x != 105 || y != 55 {
		t.Errorf("expected (105, 55), got (%d, %d)", x, y)
	}
}

func TestMapperValidate(t *testing.T) {
	if err := NewMapper(1).Validate(); err != nil {
		t.Errorf("dpi 1 should be valid: %v", err)
	}
	if err := NewMapper(2).Validate(); err != nil {
		t.Errorf("dpi 2 should be valid: %v", err)
	}
	if err := NewMapper(0).Validate(); err == nil {
		t.Error("dpi 0 should be invalid")
	}
	if err := NewMapper(-1).Validate(); err == nil {
		t.Error("negative dpi should be invalid")
	}
}

func TestConfigApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	if cfg.DPIRatio != DefaultDPIRatio {
		t.Errorf("expected dpi %d, got %d", DefaultDPIRatio, cfg.DPIRatio)
	}
	if cfg.WaitTime != DefaultWaitTime {
		t.Errorf("expected wait %v, got %v", DefaultWaitTime, cfg.WaitTime)
	}
	if cfg.SampleRate != window.DefaultSampleRate {
		t.Errorf("expected rate %v, got %v", window.DefaultSampleRate, cfg.SampleRate)
	}
	if cfg.LogLevel != "INFO" {
		t.Errorf("expected INFO, got %s", cfg.LogLevel)
	}
}

func TestConfigApplyDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := Config{DPIRatio: 1, SampleRate: 10}
	cfg.ApplyDefaults()

	if cfg.DPIRatio != 1 {
		t.Errorf("explicit dpi overwritten: %d", cfg.DPIRatio)
	}
	if cfg.SampleRate != 10 {
		t.Errorf("explicit rate overwritten: %v", cfg.SampleRate)
	}
}

func TestConfigValidate(t *testing.T) {
	good := Config{DPIRatio: 2, SampleRate: 3, WaitTime: 0}
	if err := good.Validate(); err != nil {
		t.Errorf("expected valid config: %v", err)
	}

	bad := []Config{
		{DPIRatio: 0, SampleRate: 3},
		{DPIRatio: 2, SampleRate: 0},
		{DPIRatio: 2, SampleRate: 3, WaitTime: -1},
	}
	for i, cfg := range bad {
		if err := cfg.Validate(); err == nil {
			t.Errorf("config %d should be invalid: %+v", i, cfg)
		}
	}
}
