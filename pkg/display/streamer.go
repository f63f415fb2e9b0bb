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
	"fmt"
	"strings"

	"github.com/duedisplay/displaylink/pkg/display/bitmap"
	"github.com/duedisplay/displaylink/pkg/protocol"
	"github.com/duedisplay/displaylink/pkg/transport"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// StreamState tracks the bitmap transfer through its handshake phases.
type StreamState int

const (
	StreamIdle StreamState = iota
	StreamStartSent
	StreamSizeSent
	StreamAwaitingReady
	StreamStreaming
	StreamEndSent
	StreamAwaitingComplete
	StreamDone
	StreamAborted
)

func (s StreamState) String() string {
	switch s {
	case StreamIdle:
		return "idle"
	case StreamStartSent:
		return "start-sent"
	case StreamSizeSent:
		return "size-sent"
	case StreamAwaitingReady:
		return "awaiting-ready"
	case StreamStreaming:
		return "streaming"
	case StreamEndSent:
		return "end-sent"
	case StreamAwaitingComplete:
		return "awaiting-complete"
	case StreamDone:
		return "done"
	case StreamAborted:
		return "aborted"
	default:
		return fmt.Sprintf("StreamState(%d)", int(s))
	}
}

// ProgressFunc receives transfer progress in [0, 1] after each chunk.
type ProgressFunc func(fraction float64)

// StreamState returns the state of the most recent bitmap transfer.
func (c *Controller) StreamState() StreamState {
	return c.streamState
}

// Upload streams a bitmap to the active display. Transfers bypass the
// reconnection supervisor entirely: the device cannot resume a
// half-received frame, so any failure mid-transfer aborts and surfaces
// raw. Absence of the final COMPLETE confirmation within the settle
// window is a soft success, since by then every pixel has been written
// and the panel is already showing the frame.
func (c *Controller) Upload(t *bitmap.Transfer, progress ProgressFunc) error {
	c.streamState = StreamIdle

	if c.tr == nil {
		return &transport.Error{Op: "upload", Err: ErrNotConnected}
	}
	sess, ok := c.Active()
	if !ok {
		return &protocol.StateError{Op: "bitmap upload without an active display"}
	}

	opID := uuid.New().String()
	log.Info().Str("op_id", opID).Str("display", sess.Name).
		Int("width", t.Width).Int("height", t.Height).
		Msg("display: starting bitmap transfer")

	err := c.stream(t, progress, opID)
	if err != nil {
		c.streamState = StreamAborted
		log.Warn().Err(err).Str("op_id", opID).Stringer("state", c.streamState).
			Msg("display: bitmap transfer aborted")
		return err
	}
	c.streamState = StreamDone
	return nil
}

func (c *Controller) stream(t *bitmap.Transfer, progress ProgressFunc, opID string) error {
	c.streamState = StreamStartSent
	if err := c.writeLine(protocol.BitmapStart); err != nil {
		return err
	}

	c.streamState = StreamSizeSent
	if err := c.writeLine(fmt.Sprintf("%s%d,%d", protocol.SizePrefix, t.Width, t.Height)); err != nil {
		return err
	}

	c.streamState = StreamAwaitingReady
	if err := c.awaitReady(); err != nil {
		return err
	}

	c.streamState = StreamStreaming
	if err := c.streamPixels(t, progress); err != nil {
		return err
	}

	// The device is still blitting the tail of the payload; give it a
	// moment before the end marker.
	c.clock.Sleep(c.opts.EndSettle)

	c.streamState = StreamEndSent
	if err := c.writeLine(protocol.BitmapEnd); err != nil {
		return err
	}

	c.streamState = StreamAwaitingComplete
	c.awaitComplete(opID)
	return nil
}

// awaitReady polls for the firmware's READY acknowledgment after the
// size declaration. READY is matched before ERROR so a line carrying
// both words counts as acceptance.
func (c *Controller) awaitReady() error {
	deadline := c.clock.Now().Add(c.opts.ReadyTimeout)
	for {
		line, ok, err := c.tr.ReadLine(deadline)
		if err != nil {
			return err
		}
		if !ok {
			return &protocol.TimeoutError{Op: "bitmap ready handshake"}
		}
		if line == "" {
			continue
		}
		switch {
		case strings.Contains(line, protocol.ReadyMarker):
			return nil
		case strings.Contains(line, protocol.ErrorMarker):
			return &protocol.DeviceError{Command: protocol.BitmapStart, Line: line}
		default:
			log.Debug().Str("line", line).Msg("display: chatter before ready")
		}
	}
}

// streamPixels writes the payload in fixed-size chunks, flushing and
// reporting progress after each one.
func (c *Controller) streamPixels(t *bitmap.Transfer, progress ProgressFunc) error {
	total := t.Pixels()
	buf := make([]byte, 0, 2*c.opts.ChunkPixels)

	for from := 0; from < total; from += c.opts.ChunkPixels {
		to := from + c.opts.ChunkPixels
		if to > total {
			to = total
		}

		buf = t.EncodeRange(buf[:0], from, to)
		if err := c.tr.Write(buf); err != nil {
			return err
		}
		if err := c.tr.Flush(); err != nil {
			return err
		}

		if progress != nil {
			progress(float64(to) / float64(total))
		}
	}
	return nil
}

// awaitComplete drains the post-transfer window looking for the COMPLETE
// confirmation. Its absence is logged and forgiven.
func (c *Controller) awaitComplete(opID string) {
	deadline := c.clock.Now().Add(c.opts.CompleteWait)
	for {
		line, ok, err := c.tr.ReadLine(deadline)
		if err != nil {
			// All pixels are already on the device; the transfer still
			// counts as a success, but a dead port here is not the same
			// as a quiet firmware.
			log.Warn().Err(err).Str("op_id", opID).
				Msg("display: port failed while draining transfer confirmation")
			return
		}
		if !ok {
			log.Debug().Str("op_id", opID).
				Msg("display: no transfer confirmation, assuming success")
			return
		}
		if strings.Contains(line, protocol.CompleteMarker) {
			log.Info().Str("op_id", opID).Msg("display: bitmap transfer confirmed")
			return
		}
	}
}

func (c *Controller) writeLine(line string) error {
	if err := c.tr.Write([]byte(line + protocol.Terminator)); err != nil {
		return err
	}
	return c.tr.Flush()
}
