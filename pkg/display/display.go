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

// Package display implements the device-link protocol engine: the
// command channel with bounded reconnection, display selection and the
// bitmap streaming sub-protocol, all sharing one serial transport.
//
// The engine is single-threaded by design: exactly one command or
// transfer may be in flight per connection and there is no internal
// locking. Callers serialize access with a single lock or a dedicated
// owner goroutine; a presentation layer that must stay responsive runs
// the engine on a worker and communicates over a channel.
package display

import (
	"errors"
	"time"

	"github.com/duedisplay/displaylink/pkg/transport"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// Default protocol timings, matching the firmware's expectations.
const (
	DefaultCommandTimeout  = 5 * time.Second
	DefaultSelectTimeout   = 3 * time.Second
	DefaultReadyTimeout    = 10 * time.Second
	DefaultReconnectSettle = 1 * time.Second
	DefaultEndSettle       = 500 * time.Millisecond
	DefaultCompleteWait    = 250 * time.Millisecond
	DefaultResetSettle     = 200 * time.Millisecond
	DefaultMaxReconnects   = 2
	DefaultChunkPixels     = 1024
)

// ErrNotConnected is returned (wrapped as a transport error, so the
// supervisor can attempt reconnection) when an operation runs without an
// open connection.
var ErrNotConnected = errors.New("not connected")

// Detector resolves a device path to connect to, typically by probing
// serial ports for the display controller board. Returns ok=false when
// no candidate device is present.
type Detector func() (path string, ok bool)

// Session is the active display: its identity plus reported usable
// dimensions once INFO has been queried. At most one exists at a time.
type Session struct {
	Name   string
	Width  int
	Height int
}

// Options tunes engine timings and injects test doubles. Zero values
// select the protocol defaults.
type Options struct {
	Factory transport.Factory
	Clock   clockwork.Clock

	BaudRate        int
	StartupDrain    time.Duration
	CommandTimeout  time.Duration
	SelectTimeout   time.Duration
	ReadyTimeout    time.Duration
	ReconnectSettle time.Duration
	EndSettle       time.Duration
	CompleteWait    time.Duration
	ResetSettle     time.Duration
	MaxReconnects   int
	ChunkPixels     int

	// ResetBeforeSelect issues an advisory RESET round-trip before each
	// selection to clear stale protocol state on the device.
	ResetBeforeSelect bool
}

func (o *Options) withDefaults() {
	if o.Clock == nil {
		o.Clock = clockwork.NewRealClock()
	}
	if o.CommandTimeout == 0 {
		o.CommandTimeout = DefaultCommandTimeout
	}
	if o.SelectTimeout == 0 {
		o.SelectTimeout = DefaultSelectTimeout
	}
	if o.ReadyTimeout == 0 {
		o.ReadyTimeout = DefaultReadyTimeout
	}
	if o.ReconnectSettle == 0 {
		o.ReconnectSettle = DefaultReconnectSettle
	}
	if o.EndSettle == 0 {
		o.EndSettle = DefaultEndSettle
	}
	if o.CompleteWait == 0 {
		o.CompleteWait = DefaultCompleteWait
	}
	if o.ResetSettle == 0 {
		o.ResetSettle = DefaultResetSettle
	}
	if o.MaxReconnects == 0 {
		o.MaxReconnects = DefaultMaxReconnects
	}
	if o.ChunkPixels == 0 {
		o.ChunkPixels = DefaultChunkPixels
	}
	if o.StartupDrain == 0 {
		o.StartupDrain = transport.DefaultStartupDrain
	}
}

// Controller drives one display controller board over a single serial
// connection. Not safe for concurrent use.
type Controller struct {
	tr          *transport.Transport
	clock       clockwork.Clock
	detect      Detector
	session     *Session
	connID      string
	opts        Options
	reconnects  int
	streamState StreamState
}

// New builds a controller. The detector is consulted when Connect is
// called with an empty path and during automatic reconnection.
func New(detect Detector, opts Options) *Controller {
	opts.withDefaults()
	return &Controller{
		detect: detect,
		clock:  opts.Clock,
		opts:   opts,
	}
}

// Connect opens the serial connection. An empty path delegates device
// resolution to the detector.
func (c *Controller) Connect(path string) error {
	if c.tr != nil {
		return errors.New("already connected")
	}

	if path == "" {
		if c.detect == nil {
			return errors.New("no device path given and no detector configured")
		}
		detected, ok := c.detect()
		if !ok {
			return errors.New("no display controller device found")
		}
		path = detected
	}

	tr, err := transport.Open(path, transport.Options{
		Factory:      c.opts.Factory,
		Clock:        c.clock,
		BaudRate:     c.opts.BaudRate,
		StartupDrain: c.opts.StartupDrain,
	})
	if err != nil {
		return err
	}

	c.tr = tr
	c.connID = uuid.New().String()
	log.Info().Str("device", path).Str("conn_id", c.connID).Msg("display: connected")
	return nil
}

// Connected reports whether a connection is open.
func (c *Controller) Connected() bool {
	return c.tr != nil
}

// Device returns the device path of the open connection, if any.
func (c *Controller) Device() string {
	if c.tr == nil {
		return ""
	}
	return c.tr.Path()
}

// Active returns a copy of the active display session.
func (c *Controller) Active() (Session, bool) {
	if c.session == nil {
		return Session{}, false
	}
	return *c.session, true
}

// Disconnect closes the connection and clears the active display
// session. Any in-flight operation on another goroutine will observe the
// closed port as a transport failure.
func (c *Controller) Disconnect() error {
	if c.tr == nil {
		return nil
	}
	err := c.tr.Close()
	c.tr = nil
	c.session = nil
	log.Info().Str("conn_id", c.connID).Msg("display: disconnected")
	return err
}
