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

import "fmt"

// DeviceError is a responsive-but-unhappy device: it explicitly reported
// an ERROR:/DISPLAY_ERROR line. Never retried automatically; blind replay
// risks duplicating side effects on the remote side.
type DeviceError struct {
	Command string
	Line    string
}

func (e *DeviceError) Error() string {
	if e.Command == "" {
		return "device reported error: " + e.Line
	}
	return fmt.Sprintf("device reported error for %s: %s", e.Command, e.Line)
}

// TimeoutError means an expected marker did not arrive within its
// deadline. Partial holds the lines collected before the deadline so the
// caller can surface them verbatim.
type TimeoutError struct {
	Op      string
	Partial []string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timed out waiting for response to %s (%d partial lines)", e.Op, len(e.Partial))
}

// StateError means an operation requiring an active display was invoked
// with none selected.
type StateError struct {
	Op string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s requires an active display; none selected", e.Op)
}
