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

// Outcome tags how a command's response terminated.
type Outcome int

const (
	// OutcomeOK means the device answered OK: (single-line mode) or an
	// END_ marker arrived (multi-line mode).
	OutcomeOK Outcome = iota
	// OutcomeError means the device explicitly reported an ERROR: line.
	OutcomeError
	// OutcomeTimeout means the overall deadline elapsed before a
	// terminal line; Lines holds whatever was collected.
	OutcomeTimeout
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "OK"
	case OutcomeError:
		return "Error"
	case OutcomeTimeout:
		return "Timeout"
	default:
		return "Unknown"
	}
}

// Response is the ordered sequence of text lines collected for one
// command. Lines are verbatim, terminal markers included, so callers can
// log exactly what the device said.
type Response struct {
	Command string
	Message string
	Lines   []string
	Outcome Outcome
}

// OK reports whether the command completed with a success outcome.
func (r Response) OK() bool {
	return r.Outcome == OutcomeOK
}

// Payload returns the response lines minus the terminal marker. For a
// timed-out response every collected line is payload.
func (r Response) Payload() []string {
	if r.Outcome == OutcomeTimeout || len(r.Lines) == 0 {
		return r.Lines
	}
	last := ParseLine(r.Lines[len(r.Lines)-1])
	if last.Terminal() || last.Kind == LineEnd {
		return r.Lines[:len(r.Lines)-1]
	}
	return r.Lines
}

// Text joins the collected lines for diagnostic logging.
func (r Response) Text() string {
	return strings.Join(r.Lines, "\n")
}

// Err converts a non-success outcome into its typed error: a
// *DeviceError for an explicit ERROR: line, a *TimeoutError for an
// elapsed deadline, nil otherwise.
func (r Response) Err() error {
	switch r.Outcome {
	case OutcomeError:
		return &DeviceError{Command: r.Command, Line: r.Message}
	case OutcomeTimeout:
		return &TimeoutError{Op: "command " + r.Command, Partial: r.Lines}
	default:
		return nil
	}
}
