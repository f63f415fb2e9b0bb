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

// Package transport owns the open serial byte stream to a display
// controller board: line-buffered reads against a deadline, raw writes,
// flush and close. Exactly one logical operation may use a Transport at a
// time; callers serialize access, there is no internal locking.
package transport

import (
	"bytes"
	"errors"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"go.bug.st/serial"
)

const (
	// DefaultBaudRate suits the Due native USB port, which ignores the
	// configured rate but negotiates fastest when asked high.
	DefaultBaudRate = 2_000_000

	// DefaultReadTimeout bounds a single port read so deadline checks in
	// ReadLine stay responsive.
	DefaultReadTimeout = 50 * time.Millisecond

	// DefaultStartupDrain is how long to discard boot banner lines after
	// opening; the board resets when the port opens and chats for a few
	// seconds before it will accept commands.
	DefaultStartupDrain = 3 * time.Second

	// DefaultPollInterval is the sleep between empty reads.
	DefaultPollInterval = 10 * time.Millisecond
)

// Options configures an open port.
type Options struct {
	Factory      Factory
	Clock        clockwork.Clock
	BaudRate     int
	ReadTimeout  time.Duration
	StartupDrain time.Duration
	PollInterval time.Duration
}

func (o *Options) withDefaults() {
	if o.Factory == nil {
		o.Factory = DefaultFactory
	}
	if o.Clock == nil {
		o.Clock = clockwork.NewRealClock()
	}
	if o.BaudRate == 0 {
		o.BaudRate = DefaultBaudRate
	}
	if o.ReadTimeout == 0 {
		o.ReadTimeout = DefaultReadTimeout
	}
	if o.PollInterval == 0 {
		o.PollInterval = DefaultPollInterval
	}
}

// Transport wraps one open serial connection. It is exclusively owned by
// whichever logical operation is in progress.
type Transport struct {
	port   SerialPort
	clock  clockwork.Clock
	path   string
	buf    []byte
	opts   Options
	closed bool
}

// Open opens the serial device at path, applies the read timeout and
// drains whatever the board emits during its startup/reset window before
// the channel is considered ready.
func Open(path string, opts Options) (*Transport, error) {
	opts.withDefaults()

	port, err := opts.Factory(path, &serial.Mode{
		BaudRate: opts.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, &Error{Op: "open", Path: path, Err: err}
	}

	if err := port.SetReadTimeout(opts.ReadTimeout); err != nil {
		_ = port.Close()
		return nil, &Error{Op: "open", Path: path, Err: err}
	}

	t := &Transport{
		port:  port,
		path:  path,
		clock: opts.Clock,
		opts:  opts,
	}

	t.drainStartup()
	log.Debug().Str("device", path).Int("baud", opts.BaudRate).Msg("transport: port open")
	return t, nil
}

// drainStartup reads and discards boot output for the configured window.
// Read errors here are ignored; the first real operation surfaces them.
func (t *Transport) drainStartup() {
	if t.opts.StartupDrain <= 0 {
		return
	}
	deadline := t.clock.Now().Add(t.opts.StartupDrain)
	tmp := make([]byte, 256)
	for t.clock.Now().Before(deadline) {
		n, err := t.port.Read(tmp)
		if err != nil {
			return
		}
		if n == 0 {
			t.clock.Sleep(t.opts.PollInterval)
			continue
		}
		for _, line := range strings.Split(string(tmp[:n]), "\n") {
			trimmed := strings.TrimSpace(line)
			if trimmed != "" {
				log.Debug().Str("line", trimmed).Msg("transport: discarding startup output")
			}
		}
	}
}

// Path returns the device path this transport was opened on.
func (t *Transport) Path() string {
	return t.path
}

// Write writes p fully to the port, retrying short writes.
func (t *Transport) Write(p []byte) error {
	if t.closed {
		return &Error{Op: "write", Path: t.path, Err: errors.New("transport closed")}
	}
	for len(p) > 0 {
		n, err := t.port.Write(p)
		if err != nil {
			return &Error{Op: "write", Path: t.path, Err: err}
		}
		p = p[n:]
	}
	return nil
}

// Flush blocks until buffered output has reached the device. Every
// multi-byte write must be flushed before waiting for a response; the
// board processes input as it arrives and a buffered-but-unflushed write
// stalls the handshake.
func (t *Transport) Flush() error {
	if t.closed {
		return &Error{Op: "flush", Path: t.path, Err: errors.New("transport closed")}
	}
	if err := t.port.Drain(); err != nil {
		return &Error{Op: "flush", Path: t.path, Err: err}
	}
	return nil
}

// ReadLine returns the next newline-terminated line, trimmed of the
// terminator and any trailing carriage return. If no complete line
// arrives before the deadline it returns ok=false with a nil error;
// deadline expiry is an expected outcome, not a failure. Bytes after the
// returned line are kept for the next call.
func (t *Transport) ReadLine(deadline time.Time) (line string, ok bool, err error) {
	if t.closed {
		return "", false, &Error{Op: "read", Path: t.path, Err: errors.New("transport closed")}
	}
	tmp := make([]byte, 256)
	for {
		if i := bytes.IndexByte(t.buf, '\n'); i >= 0 {
			raw := string(t.buf[:i])
			t.buf = t.buf[i+1:]
			return strings.TrimRight(raw, "\r"), true, nil
		}

		if !t.clock.Now().Before(deadline) {
			return "", false, nil
		}

		n, readErr := t.port.Read(tmp)
		if readErr != nil {
			return "", false, &Error{Op: "read", Path: t.path, Err: readErr}
		}
		if n == 0 {
			t.clock.Sleep(t.opts.PollInterval)
			continue
		}
		t.buf = append(t.buf, tmp[:n]...)
	}
}

// Close closes the underlying port. Safe to call more than once; the
// port itself is closed exactly once.
func (t *Transport) Close() error {
	if t.closed {
		return nil
	}
	t.closed = true
	if err := t.port.Close(); err != nil {
		return &Error{Op: "close", Path: t.path, Err: err}
	}
	log.Debug().Str("device", t.path).Msg("transport: port closed")
	return nil
}
