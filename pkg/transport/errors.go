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

package transport

import (
	"errors"
	"fmt"
	"strings"

	"go.bug.st/serial"
)

// Error is a byte-stream level failure: open, read, write, flush or close
// went wrong on the underlying port. The reconnection supervisor keys off
// this type; protocol-level failures never wrap it.
type Error struct {
	Err  error
	Op   string
	Path string
}

func (e *Error) Error() string {
	return fmt.Sprintf("transport %s on %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsTransport reports whether err is (or wraps) a transport-level failure.
func IsTransport(err error) bool {
	var te *Error
	return errors.As(err, &te)
}

// IsDisconnection reports whether err indicates the device was unplugged
// or the port vanished, as opposed to a configuration or permission
// problem. Checks typed serial library errors first, then falls back to
// string matching for OS-level errors that arrive unwrapped.
func IsDisconnection(err error) bool {
	if err == nil {
		return false
	}

	var portErr serial.PortError
	if errors.As(err, &portErr) {
		switch portErr.Code() {
		case serial.PortNotFound, serial.PortClosed, serial.InvalidSerialPort:
			return true
		case serial.PortBusy, serial.PermissionDenied, serial.InvalidSpeed,
			serial.InvalidDataBits, serial.InvalidParity, serial.InvalidStopBits,
			serial.InvalidTimeoutValue, serial.ErrorEnumeratingPorts, serial.FunctionNotImplemented:
			return false
		default:
			return false
		}
	}

	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "device not configured") ||
		strings.Contains(errStr, "input/output error") ||
		strings.Contains(errStr, "no such device") ||
		strings.Contains(errStr, "device not found") ||
		strings.Contains(errStr, "broken pipe") ||
		strings.Contains(errStr, "device disconnected")
}
