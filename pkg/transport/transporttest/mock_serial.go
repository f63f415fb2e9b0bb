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

// Package transporttest provides a scriptable mock serial port for
// exercising the protocol engine without hardware.
package transporttest

import (
	"errors"
	"sync"
	"time"

	"github.com/duedisplay/displaylink/pkg/transport"
	"go.bug.st/serial"
)

// MockSerialPort implements transport.SerialPort. Reads are served from a
// queue of scripted chunks; writes are captured for assertions. Error
// fields inject failures into the corresponding operation.
type MockSerialPort struct {
	ReadErr  error
	WriteErr error
	DrainErr error
	CloseErr error
	ReadFunc func(p []byte) (int, error)

	reads   [][]byte
	written []byte
	drains  int
	closed  bool
	mu      sync.Mutex
}

// NewMockSerialPort creates an empty mock port.
func NewMockSerialPort() *MockSerialPort {
	return &MockSerialPort{}
}

// Factory returns a transport.Factory that hands out this mock and
// records the requested path and mode.
func (m *MockSerialPort) Factory() transport.Factory {
	return func(_ string, _ *serial.Mode) (transport.SerialPort, error) {
		return m, nil
	}
}

// QueueLine schedules one newline-terminated response line.
func (m *MockSerialPort) QueueLine(line string) {
	m.QueueBytes([]byte(line + "\n"))
}

// QueueLines schedules several response lines as a single chunk.
func (m *MockSerialPort) QueueLines(lines ...string) {
	for _, l := range lines {
		m.QueueLine(l)
	}
}

// QueueBytes schedules a raw chunk to be returned by one Read call.
func (m *MockSerialPort) QueueBytes(b []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads = append(m.reads, b)
}

func (m *MockSerialPort) Read(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return 0, errors.New("port closed")
	}
	if m.ReadFunc != nil {
		return m.ReadFunc(p)
	}
	if len(m.reads) == 0 {
		if m.ReadErr != nil {
			return 0, m.ReadErr
		}
		// Behave like a timed-out hardware read.
		return 0, nil
	}

	chunk := m.reads[0]
	n := copy(p, chunk)
	if n < len(chunk) {
		m.reads[0] = chunk[n:]
	} else {
		m.reads = m.reads[1:]
	}
	return n, nil
}

func (m *MockSerialPort) Write(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.WriteErr != nil {
		return 0, m.WriteErr
	}
	if m.closed {
		return 0, errors.New("port closed")
	}
	m.written = append(m.written, p...)
	return len(p), nil
}

func (m *MockSerialPort) Drain() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drains++
	return m.DrainErr
}

func (m *MockSerialPort) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return m.CloseErr
}

func (*MockSerialPort) SetReadTimeout(_ time.Duration) error {
	return nil
}

// Written returns a copy of everything written to the port so far.
func (m *MockSerialPort) Written() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]byte, len(m.written))
	copy(out, m.written)
	return out
}

// ResetWritten clears the captured write buffer.
func (m *MockSerialPort) ResetWritten() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.written = nil
}

// Drains returns how many times Drain was called.
func (m *MockSerialPort) Drains() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.drains
}

// IsClosed reports whether the port has been closed.
func (m *MockSerialPort) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
