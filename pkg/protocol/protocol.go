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

// Package protocol defines the ST7735 display-link wire format: line
// prefixes, command names and the structured parser that turns raw
// response lines into tagged values. All wire-format assumptions live
// here so the rest of the engine never does ad hoc string matching.
package protocol

// Line framing. Every line in both directions is newline-terminated ASCII.
const (
	// CommandPrefix starts an administrative command: CMD:<name>[:<args>]
	CommandPrefix = "CMD:"

	// SelectPrefix starts a display selection: DISPLAY:<name>
	SelectPrefix = "DISPLAY:"

	// OKPrefix and ErrorPrefix tag single-line terminal responses.
	OKPrefix    = "OK:"
	ErrorPrefix = "ERROR:"

	// EndPrefix tags the terminal marker of a multi-line response, e.g.
	// END_LIST or END_INFO. Everything before it is payload.
	EndPrefix = "END_"

	// Selection outcome lines.
	DisplayReadyPrefix = "DISPLAY_READY"
	DisplayErrorPrefix = "DISPLAY_ERROR"

	// Bitmap transfer framing. BMPStart and BMPEnd are sent verbatim;
	// SizePrefix declares the transfer dimensions as SIZE:<w>,<h>.
	BitmapStart = "BMPStart"
	BitmapEnd   = "BMPEnd"
	SizePrefix  = "SIZE:"

	// Bitmap handshake markers are matched by substring, not prefix. The
	// firmware pads these lines with human-readable context.
	ReadyMarker    = "READY"
	ErrorMarker    = "ERROR"
	CompleteMarker = "COMPLETE"

	Terminator = "\n"
)

// Administrative command names.
const (
	CmdList           = "LIST"
	CmdInfo           = "INFO"
	CmdHelp           = "HELP"
	CmdTest           = "TEST"
	CmdTestAll        = "TEST_ALL"
	CmdReset          = "RESET"
	CmdCalibrate      = "CALIBRATE"
	CmdFrameOn        = "FRAME_ON"
	CmdFrameOff       = "FRAME_OFF"
	CmdFrameColor     = "FRAME_COLOR"
	CmdFrameThickness = "FRAME_THICKNESS"
	CmdOrientation    = "ORIENTATION"
	CmdAdjustTop      = "ADJUST_TOP"
	CmdAdjustBottom   = "ADJUST_BOTTOM"
	CmdAdjustLeft     = "ADJUST_LEFT"
	CmdAdjustRight    = "ADJUST_RIGHT"
	CmdUpdateConfig   = "UPDATE_CONFIG"
)

// multiLineCommands are terminated by an END_ marker instead of the first
// OK:/ERROR: line. Known in advance to the caller per the firmware docs.
var multiLineCommands = map[string]bool{
	CmdList: true,
	CmdInfo: true,
	CmdHelp: true,
}

// IsMultiLine reports whether a command's response keeps going past OK:
// and ERROR: lines until an END_ marker arrives.
func IsMultiLine(name string) bool {
	return multiLineCommands[name]
}

// IsRetrySafe reports whether a command may be transparently retried after
// a reconnection. CALIBRATE drives a stateful interactive adjustment
// session on the device; replaying it would silently discard the
// operator's in-progress changes, so its transport errors propagate raw.
func IsRetrySafe(name string) bool {
	return name != CmdCalibrate
}
