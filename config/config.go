// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package config loads the refresh policy and panel settings from YAML.
//
// Example:
//
//	mode: interval
//	interval: 5
//	panel: hat
//	frames: 30
//	period: 2s
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/GermanBionicSystems/einkrefresh/refresh"
	"gopkg.in/yaml.v2"
)

// Panel names.
const (
	PanelSim = "sim"
	PanelHat = "hat"
)

// Config is the content of a configuration file.
type Config struct {
	// Mode is "disabled" or "interval".
	Mode     string `yaml:"mode"`
	Interval int    `yaml:"interval"`

	Panel string `yaml:"panel"`
	// Width of the simulated panel, in blocks.
	Width int `yaml:"width"`

	Frames int           `yaml:"frames"`
	Period time.Duration `yaml:"period"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Mode:     "interval",
		Interval: 5,
		Panel:    PanelSim,
		Width:    40,
		Frames:   20,
		Period:   500 * time.Millisecond,
	}
}

// Load reads the YAML file at path on top of Default.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes YAML from r on top of Default. Unknown keys are rejected.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.SetStrict(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values that cannot be fixed up silently.
func (c *Config) Validate() error {
	if _, err := ParseMode(c.Mode); err != nil {
		return err
	}
	if c.Interval < 0 {
		return fmt.Errorf("interval must not be negative, got %d", c.Interval)
	}
	switch c.Panel {
	case PanelSim, PanelHat:
	default:
		return fmt.Errorf("unknown panel %q", c.Panel)
	}
	if c.Frames < 0 {
		return fmt.Errorf("frames must not be negative, got %d", c.Frames)
	}
	return nil
}

// RefreshOpts converts the policy part of the configuration.
func (c *Config) RefreshOpts() (*refresh.Opts, error) {
	m, err := ParseMode(c.Mode)
	if err != nil {
		return nil, err
	}
	return &refresh.Opts{Mode: m, Interval: c.Interval}, nil
}

// ParseMode converts a mode name. The numeric form used by older
// configurations ("0", "1") is accepted too.
func ParseMode(s string) (refresh.Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "disabled", "0":
		return refresh.Disabled, nil
	case "interval", "intervalbased", "1":
		return refresh.IntervalBased, nil
	default:
		return refresh.Disabled, fmt.Errorf("unknown mode %q", s)
	}
}
