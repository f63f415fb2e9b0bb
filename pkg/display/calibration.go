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

package display

import (
	"fmt"

	"github.com/duedisplay/displaylink/pkg/config"
	"github.com/duedisplay/displaylink/pkg/protocol"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// Side names one edge of the visible area for incremental adjustment.
type Side int

const (
	SideTop Side = iota
	SideBottom
	SideLeft
	SideRight
)

func (s Side) String() string {
	switch s {
	case SideTop:
		return "TOP"
	case SideBottom:
		return "BOTTOM"
	case SideLeft:
		return "LEFT"
	case SideRight:
		return "RIGHT"
	default:
		return fmt.Sprintf("Side(%d)", int(s))
	}
}

func (s Side) command() (string, error) {
	switch s {
	case SideTop:
		return protocol.CmdAdjustTop, nil
	case SideBottom:
		return protocol.CmdAdjustBottom, nil
	case SideLeft:
		return protocol.CmdAdjustLeft, nil
	case SideRight:
		return protocol.CmdAdjustRight, nil
	default:
		return "", fmt.Errorf("unknown side %d", int(s))
	}
}

// Offsets accumulates the per-edge adjustments applied during an
// interactive calibration session, in pixels.
type Offsets struct {
	Top    int
	Bottom int
	Left   int
	Right  int
}

// Adjust nudges one edge of the visible area by offset pixels.
func (c *Controller) Adjust(side Side, offset int) error {
	cmd, err := side.command()
	if err != nil {
		return err
	}
	_, err = c.sendChecked(cmd, fmt.Sprintf("%d", offset))
	return err
}

// Calibrate runs the firmware's full calibration pattern. The pattern
// takes long enough that a transparent retry would re-run it from the
// start on a half-calibrated panel, so this command is never retried;
// a transport failure surfaces raw.
func (c *Controller) Calibrate() error {
	_, err := c.sendChecked(protocol.CmdCalibrate, "")
	return err
}

// Test draws the test pattern on the active display.
func (c *Controller) Test() error {
	_, err := c.sendChecked(protocol.CmdTest, "")
	return err
}

// TestAll draws the test pattern on every attached display.
func (c *Controller) TestAll() error {
	_, err := c.sendChecked(protocol.CmdTestAll, "")
	return err
}

// Reset reinitializes the active display.
func (c *Controller) Reset() error {
	_, err := c.sendChecked(protocol.CmdReset, "")
	return err
}

// Help returns the firmware's command summary verbatim.
func (c *Controller) Help() ([]string, error) {
	res, err := c.sendChecked(protocol.CmdHelp, "")
	if err != nil {
		return nil, err
	}
	return res.Payload(), nil
}

// SetFrame toggles the calibration frame overlay.
func (c *Controller) SetFrame(on bool) error {
	cmd := protocol.CmdFrameOff
	if on {
		cmd = protocol.CmdFrameOn
	}
	_, err := c.sendChecked(cmd, "")
	return err
}

// SetFrameColor sets the calibration frame color as an RGB565 sample.
func (c *Controller) SetFrameColor(color uint16) error {
	_, err := c.sendChecked(protocol.CmdFrameColor, fmt.Sprintf("%d", color))
	return err
}

// SetFrameThickness sets the calibration frame thickness in pixels.
func (c *Controller) SetFrameThickness(px int) error {
	_, err := c.sendChecked(protocol.CmdFrameThickness, fmt.Sprintf("%d", px))
	return err
}

// SetOrientation rotates the active display to the given quadrant (0-3).
func (c *Controller) SetOrientation(rotation int) error {
	_, err := c.sendChecked(protocol.CmdOrientation, fmt.Sprintf("%d", rotation))
	return err
}

// PushCalibration uploads stored panel geometry to the firmware's
// runtime configuration without persisting anything on the device.
func (c *Controller) PushCalibration(cal config.Calibration) error {
	cx, cy := cal.Center[0], cal.Center[1]
	args := fmt.Sprintf("%d,%d,%d,%d,%d,%d",
		cal.Left, cal.Right, cal.Top, cal.Bottom, cx, cy)
	_, err := c.sendChecked(protocol.CmdUpdateConfig, args)
	return err
}

// ApplyCalibration folds an interactive adjustment session into a stored
// calibration. Left and top offsets move the origin inward, so they are
// subtracted; right and bottom extend the far edge. Both center
// coordinates are recomputed from the new bounds.
func ApplyCalibration(cal config.Calibration, off Offsets) config.Calibration {
	cal.Left -= off.Left
	cal.Right += off.Right
	cal.Top -= off.Top
	cal.Bottom += off.Bottom
	cal.Center[0] = cal.Left + (cal.Right-cal.Left+1)/2
	cal.Center[1] = cal.Top + (cal.Bottom-cal.Top+1)/2
	return cal
}

// SaveCalibration applies the session offsets to the display profile and
// writes it back to disk.
func SaveCalibration(fs afero.Fs, path string, disp *config.Display, off Offsets) error {
	disp.Calibration = ApplyCalibration(disp.Calibration, off)
	if err := disp.Save(fs, path); err != nil {
		return err
	}
	log.Info().Str("path", path).
		Int("left", disp.Calibration.Left).Int("right", disp.Calibration.Right).
		Int("top", disp.Calibration.Top).Int("bottom", disp.Calibration.Bottom).
		Msg("display: calibration saved")
	return nil
}
