// Package config loads and saves bot settings from an INI file.
package config

import (
	"fmt"
	"time"

	"gopkg.in/ini.v1"

	"screenbot/internal/bot"
	"screenbot/internal/window"
)

const automationSection = "Automation"

// Load reads a bot config from the INI file at path. Missing keys fall back
// to the built-in defaults, so an empty file yields a fully usable config.
func Load(path string) (bot.Config, error) {
	file, err := ini.Load(path)
	if err != nil {
		return bot.Config{}, fmt.Errorf("failed to load config file %s: %w", path, err)
	}
	return fromFile(file), nil
}

// LoadOrDefault is Load, but a missing file yields the default config
// instead of an error.
func LoadOrDefault(path string) (bot.Config, error) {
	file, err := ini.LooseLoad(path)
	if err != nil {
		return bot.Config{}, fmt.Errorf("failed to load config file %s: %w", path, err)
	}
	return fromFile(file), nil
}

func fromFile(file *ini.File) bot.Config {
	section := file.Section(automationSection)

	cfg := bot.Config{
		DPIRatio:    section.Key("dpi_ratio").MustInt(bot.DefaultDPIRatio),
		WaitTime:    time.Duration(section.Key("wait_time_ms").MustInt(int(bot.DefaultWaitTime.Milliseconds()))) * time.Millisecond,
		SampleRate:  section.Key("sample_rate").MustFloat64(window.DefaultSampleRate),
		TemplateDir: section.Key("template_dir").MustString(""),
		JournalPath: section.Key("journal_path").MustString(""),
		LogLevel:    section.Key("log_level").MustString("INFO"),
	}
	cfg.ApplyDefaults()
	return cfg
}

// Save writes the config back to an INI file at path.
func Save(path string, cfg bot.Config) error {
	file := ini.Empty()
	section := file.Section(automationSection)

	section.Key("dpi_ratio").SetValue(fmt.Sprintf("%d", cfg.DPIRatio))
	section.Key("wait_time_ms").SetValue(fmt.Sprintf("%d", cfg.WaitTime.Milliseconds()))
	section.Key("sample_rate").SetValue(fmt.Sprintf("%g", cfg.SampleRate))
	section.Key("template_dir").SetValue(cfg.TemplateDir)
	section.Key("journal_path").SetValue(cfg.JournalPath)
	section.Key("log_level").SetValue(cfg.LogLevel)

	if err := file.SaveTo(path); err != nil {
		return fmt.Errorf("failed to save config file %s: %w", path, err)
	}
	return nil
}
