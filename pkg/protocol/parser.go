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

package protocol

import "strings"

// LineKind tags a parsed response line.
type LineKind int

const (
	// LineData is any line that carries payload rather than control flow.
	LineData LineKind = iota
	LineOK
	LineError
	LineEnd
	LineDisplayReady
	LineDisplayError
)

func (k LineKind) String() string {
	switch k {
	case LineData:
		return "Data"
	case LineOK:
		return "OK"
	case LineError:
		return "Error"
	case LineEnd:
		return "End"
	case LineDisplayReady:
		return "DisplayReady"
	case LineDisplayError:
		return "DisplayError"
	default:
		return "Unknown"
	}
}

// Line is one parsed response line. Raw always holds the verbatim text so
// callers can surface device output untouched for diagnostics.
type Line struct {
	Raw     string
	Message string
	Kind    LineKind
}

// Terminal reports whether the line ends a single-line response.
func (l Line) Terminal() bool {
	return l.Kind == LineOK || l.Kind == LineError
}

// ParseLine classifies a single response line by its wire prefix. Lines
// that match no known prefix are payload data, never errors.
func ParseLine(raw string) Line {
	trimmed := strings.TrimRight(raw, "\r")
	switch {
	case strings.HasPrefix(trimmed, OKPrefix):
		return Line{Raw: trimmed, Kind: LineOK, Message: trimmed[len(OKPrefix):]}
	case strings.HasPrefix(trimmed, DisplayErrorPrefix):
		msg := strings.TrimPrefix(trimmed[len(DisplayErrorPrefix):], ":")
		return Line{Raw: trimmed, Kind: LineDisplayError, Message: msg}
	case strings.HasPrefix(trimmed, DisplayReadyPrefix):
		return Line{Raw: trimmed, Kind: LineDisplayReady}
	case strings.HasPrefix(trimmed, ErrorPrefix):
		return Line{Raw: trimmed, Kind: LineError, Message: trimmed[len(ErrorPrefix):]}
	case strings.HasPrefix(trimmed, EndPrefix):
		return Line{Raw: trimmed, Kind: LineEnd, Message: trimmed[len(EndPrefix):]}
	default:
		return Line{Raw: trimmed, Kind: LineData, Message: trimmed}
	}
}

// ParseListEntry extracts a display name from one LIST payload line of the
// form "[<index>] <name> - <description>". The name is the token between
// the closing bracket and the first hyphen, trimmed of whitespace.
// Malformed lines return ok=false and are skipped by the caller.
func ParseListEntry(line string) (name string, ok bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "[") {
		return "", false
	}
	_, rest, found := strings.Cut(trimmed, "]")
	if !found {
		return "", false
	}
	namePart, _, _ := strings.Cut(rest, "-")
	name = strings.TrimSpace(namePart)
	if name == "" {
		return "", false
	}
	return name, true
}

// ParseInfoField splits one INFO payload line of the form "<Key>: <value>".
func ParseInfoField(line string) (key, value string, ok bool) {
	key, value, found := strings.Cut(line, ":")
	if !found {
		return "", "", false
	}
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)
	if key == "" {
		return "", "", false
	}
	return key, value, true
}
