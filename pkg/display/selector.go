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
	"github.com/duedisplay/displaylink/pkg/protocol"
	"github.com/duedisplay/displaylink/pkg/transport"
	"github.com/rs/zerolog/log"
)

// List enumerates the displays attached to the controller board. Entries
// that do not match the "[<index>] <name> - <description>" shape are
// skipped, not errors.
func (c *Controller) List() ([]string, error) {
	res, err := c.sendChecked(protocol.CmdList, "")
	if err != nil {
		return nil, err
	}

	var names []string
	for _, line := range res.Payload() {
		name, ok := protocol.ParseListEntry(line)
		if !ok {
			continue
		}
		names = append(names, name)
	}
	log.Debug().Strs("displays", names).Msg("display: enumerated displays")
	return names, nil
}

// Select makes the named display the active one. Selecting while another
// display is active unconditionally replaces the session. The selection
// handshake runs outside the reconnection supervisor; a transport
// failure here surfaces raw.
func (c *Controller) Select(name string) error {
	if c.tr == nil {
		return &transport.Error{Op: "select", Err: ErrNotConnected}
	}

	if c.opts.ResetBeforeSelect {
		// Advisory: clear stale protocol state left by a previous
		// operation. Failure here is logged, not fatal.
		if res, err := c.Send(protocol.CmdReset, ""); err != nil {
			return err
		} else if !res.OK() {
			log.Warn().Str("response", res.Text()).Msg("display: reset before select did not confirm")
		}
		c.clock.Sleep(c.opts.ResetSettle)
	}

	if err := c.tr.Write([]byte(protocol.SelectPrefix + name + protocol.Terminator)); err != nil {
		return err
	}
	if err := c.tr.Flush(); err != nil {
		return err
	}

	deadline := c.clock.Now().Add(c.opts.SelectTimeout)
	for {
		line, ok, err := c.tr.ReadLine(deadline)
		if err != nil {
			return err
		}
		if !ok {
			return &protocol.TimeoutError{Op: "selection of display " + name}
		}
		if line == "" {
			continue
		}

		parsed := protocol.ParseLine(line)
		switch parsed.Kind {
		case protocol.LineDisplayReady:
			c.session = &Session{Name: name}
			log.Info().Str("display", name).Msg("display: selection confirmed")
			return nil
		case protocol.LineDisplayError, protocol.LineError:
			return &protocol.DeviceError{Command: protocol.SelectPrefix + name, Line: parsed.Raw}
		default:
			log.Debug().Str("line", parsed.Raw).Msg("display: chatter during selection")
		}
	}
}

// Deselect clears the active display session locally without a device
// round-trip.
func (c *Controller) Deselect() {
	c.session = nil
}
