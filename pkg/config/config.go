// DisplayLink
// Copyright (c) 2026 The DisplayLink Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of DisplayLink.
//
// DisplayLink is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// DisplayLink is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with DisplayLink.  If not, see <http://www.gnu.org/licenses/>.

// Package config loads and writes display .config files: one TOML file
// per display unit holding its identity, pin assignments and calibration
// bounds. The calibration section is written back when an interactive
// calibration session is saved.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// ConfigExt is the filename extension of display config files.
const ConfigExt = ".config"

// Display is one display unit's configuration file.
type Display struct {
	Pinout      map[string]int `toml:"pinout"`
	Device      Device         `toml:"device"`
	Calibration Calibration    `toml:"calibration"`
}

// Device identifies the physical panel.
type Device struct {
	Name                string `toml:"name"`
	Manufacturer        string `toml:"manufacturer"`
	Model               string `toml:"model"`
	PublishedResolution [2]int `toml:"published_resolution"`
}

// Calibration holds the usable-area bounds in panel coordinates,
// inclusive on all sides.
type Calibration struct {
	Orientation string `toml:"orientation"`
	Center      [2]int `toml:"center"`
	Left        int    `toml:"left"`
	Right       int    `toml:"right"`
	Top         int    `toml:"top"`
	Bottom      int    `toml:"bottom"`
}

// Width returns the published panel width.
func (d *Display) Width() int { return d.Device.PublishedResolution[0] }

// Height returns the published panel height.
func (d *Display) Height() int { return d.Device.PublishedResolution[1] }

// UsableWidth returns the calibrated usable width.
func (d *Display) UsableWidth() int {
	return d.Calibration.Right - d.Calibration.Left + 1
}

// UsableHeight returns the calibrated usable height.
func (d *Display) UsableHeight() int {
	return d.Calibration.Bottom - d.Calibration.Top + 1
}

// Center returns the calibrated center point.
func (d *Display) Center() (x, y int) {
	return d.Calibration.Center[0], d.Calibration.Center[1]
}

func (d *Display) validate() error {
	if d.Device.Name == "" {
		return errors.New("missing device name")
	}
	if d.Width() <= 0 || d.Height() <= 0 {
		return fmt.Errorf("invalid published resolution %dx%d", d.Width(), d.Height())
	}
	if d.UsableWidth() <= 0 || d.UsableHeight() <= 0 {
		return fmt.Errorf("invalid calibration bounds: usable area %dx%d",
			d.UsableWidth(), d.UsableHeight())
	}
	return nil
}

// Load reads and parses one display config file.
func Load(fs afero.Fs, path string) (*Display, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var d Display
	if err := toml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := d.validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return &d, nil
}

// Save writes the config back to path. Called after a calibration session
// updates the bounds.
func (d *Display) Save(fs afero.Fs, path string) error {
	data, err := toml.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}
	log.Info().Str("path", path).Str("display", d.Device.Name).Msg("config: saved display config")
	return nil
}

// FindConfigs scans dir for display config files and returns a map of
// display name to file path. Files that fail to parse are skipped with a
// warning, not treated as errors.
func FindConfigs(fs afero.Fs, dir string) (map[string]string, error) {
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read config dir %s: %w", dir, err)
	}

	found := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ConfigExt) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		d, err := Load(fs, path)
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("config: skipping invalid config file")
			continue
		}
		found[d.Device.Name] = path
	}
	return found, nil
}

// LoadByName finds and loads the config for a display by its name.
func LoadByName(fs afero.Fs, dir, name string) (*Display, error) {
	found, err := FindConfigs(fs, dir)
	if err != nil {
		return nil, err
	}
	path, ok := found[name]
	if !ok {
		return nil, fmt.Errorf("no config file found for display %q in %s", name, dir)
	}
	return Load(fs, path)
}
