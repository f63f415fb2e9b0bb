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
	"strconv"
	"strings"

	"github.com/duedisplay/displaylink/pkg/protocol"
	"github.com/rs/zerolog/log"
)

// Info is the firmware's view of the active display as reported by the
// INFO command. Unknown fields in the response are ignored, so older and
// newer firmware revisions both parse.
type Info struct {
	Name         string
	Resolution   string
	Rotation     int
	Width        int
	Height       int
	UsableX      int
	UsableY      int
	UsableWidth  int
	UsableHeight int
	CenterX      int
	CenterY      int
	AdjustTop    int
	AdjustBottom int
	AdjustLeft   int
	AdjustRight  int

	FrameColor     int
	FrameThickness int

	// Raw preserves every reported field verbatim, including ones this
	// struct does not model.
	Raw map[string]string
}

// Info queries the device for the active display's geometry and updates
// the session's usable dimensions from the reply.
func (c *Controller) Info() (Info, error) {
	res, err := c.sendChecked(protocol.CmdInfo, "")
	if err != nil {
		return Info{}, err
	}

	info := parseInfo(res.Payload())
	if c.session != nil {
		if info.Name != "" {
			c.session.Name = info.Name
		}
		if info.UsableWidth > 0 && info.UsableHeight > 0 {
			c.session.Width = info.UsableWidth
			c.session.Height = info.UsableHeight
		} else if info.Width > 0 && info.Height > 0 {
			c.session.Width = info.Width
			c.session.Height = info.Height
		}
	}
	return info, nil
}

func parseInfo(lines []string) Info {
	info := Info{Raw: make(map[string]string, len(lines))}
	for _, line := range lines {
		key, value, ok := protocol.ParseInfoField(line)
		if !ok {
			continue
		}
		info.Raw[key] = value

		switch strings.ToLower(key) {
		case "name", "display":
			info.Name = value
		case "resolution":
			info.Resolution = value
			if w, h, ok := parseDims(value); ok {
				info.Width, info.Height = w, h
			}
		case "rotation":
			info.Rotation = atoiField(key, value)
		case "width":
			info.Width = atoiField(key, value)
		case "height":
			info.Height = atoiField(key, value)
		case "usable_x":
			info.UsableX = atoiField(key, value)
		case "usable_y":
			info.UsableY = atoiField(key, value)
		case "usable_width":
			info.UsableWidth = atoiField(key, value)
		case "usable_height":
			info.UsableHeight = atoiField(key, value)
		case "center_x":
			info.CenterX = atoiField(key, value)
		case "center_y":
			info.CenterY = atoiField(key, value)
		case "adjust_top":
			info.AdjustTop = atoiField(key, value)
		case "adjust_bottom":
			info.AdjustBottom = atoiField(key, value)
		case "adjust_left":
			info.AdjustLeft = atoiField(key, value)
		case "adjust_right":
			info.AdjustRight = atoiField(key, value)
		case "frame_color":
			info.FrameColor = atoiField(key, value)
		case "frame_thickness":
			info.FrameThickness = atoiField(key, value)
		}
	}
	return info
}

// parseDims splits a "<w>x<h>" geometry string.
func parseDims(s string) (w, h int, ok bool) {
	ws, hs, found := strings.Cut(strings.TrimSpace(s), "x")
	if !found {
		return 0, 0, false
	}
	w, werr := strconv.Atoi(strings.TrimSpace(ws))
	h, herr := strconv.Atoi(strings.TrimSpace(hs))
	if werr != nil || herr != nil || w <= 0 || h <= 0 {
		return 0, 0, false
	}
	return w, h, true
}

func atoiField(key, value string) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		log.Debug().Str("key", key).Str("value", value).Msg("display: non-numeric info field")
		return 0
	}
	return n
}
