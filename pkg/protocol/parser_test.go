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

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		kind    LineKind
		message string
	}{
		{
			name:    "ok with message",
			raw:     "OK: displays listed",
			kind:    LineOK,
			message: " displays listed",
		},
		{
			name:    "error with message",
			raw:     "ERROR: unknown command",
			kind:    LineError,
			message: " unknown command",
		},
		{
			name:    "end marker",
			raw:     "END_LIST",
			kind:    LineEnd,
			message: "LIST",
		},
		{
			name: "display ready",
			raw:  "DISPLAY_READY",
			kind: LineDisplayReady,
		},
		{
			name:    "display error with reason",
			raw:     "DISPLAY_ERROR: no such display",
			kind:    LineDisplayError,
			message: " no such display",
		},
		{
			name:    "display error beats plain error prefix check",
			raw:     "DISPLAY_ERROR",
			kind:    LineDisplayError,
			message: "",
		},
		{
			name:    "payload data",
			raw:     "[0] main - front panel",
			kind:    LineData,
			message: "[0] main - front panel",
		},
		{
			name:    "crlf trimmed",
			raw:     "OK: done\r",
			kind:    LineOK,
			message: " done",
		},
		{
			name:    "unknown prefix is payload not error",
			raw:     "WARN: something odd",
			kind:    LineData,
			message: "WARN: something odd",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			line := ParseLine(tt.raw)
			assert.Equal(t, tt.kind, line.Kind)
			assert.Equal(t, tt.message, line.Message)
		})
	}
}

func TestParseLineKeepsVerbatimRaw(t *testing.T) {
	t.Parallel()
	line := ParseLine("ERROR: display 3 not initialized")
	assert.Equal(t, "ERROR: display 3 not initialized", line.Raw)
	assert.True(t, line.Terminal())
}

func TestParseListEntry(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		line  string
		want  string
		found bool
	}{
		{"standard entry", "[0] main - 160x128 front panel", "main", true},
		{"index above nine", "[12] aux - rear status", "aux", true},
		{"no description", "[1] bare", "bare", true},
		{"leading whitespace", "  [2] padded - desc", "padded", true},
		{"missing bracket", "0] main - desc", "", false},
		{"unclosed bracket", "[0 main - desc", "", false},
		{"empty name", "[0]  - desc", "", false},
		{"plain chatter", "initializing displays", "", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			name, ok := ParseListEntry(tt.line)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, name)
		})
	}
}

func TestParseInfoField(t *testing.T) {
	t.Parallel()

	key, value, ok := ParseInfoField("Resolution: 160x128")
	assert.True(t, ok)
	assert.Equal(t, "Resolution", key)
	assert.Equal(t, "160x128", value)

	_, _, ok = ParseInfoField("no separator here")
	assert.False(t, ok)

	_, _, ok = ParseInfoField(": orphan value")
	assert.False(t, ok)

	key, value, ok = ParseInfoField("usable_width:154")
	assert.True(t, ok)
	assert.Equal(t, "usable_width", key)
	assert.Equal(t, "154", value)
}

func TestIsMultiLine(t *testing.T) {
	t.Parallel()
	assert.True(t, IsMultiLine(CmdList))
	assert.True(t, IsMultiLine(CmdInfo))
	assert.True(t, IsMultiLine(CmdHelp))
	assert.False(t, IsMultiLine(CmdTest))
	assert.False(t, IsMultiLine(CmdCalibrate))
}

func TestIsRetrySafe(t *testing.T) {
	t.Parallel()
	assert.False(t, IsRetrySafe(CmdCalibrate))
	assert.True(t, IsRetrySafe(CmdList))
	assert.True(t, IsRetrySafe(CmdReset))
}
