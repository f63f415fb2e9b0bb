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
	"errors"

	"github.com/duedisplay/displaylink/pkg/protocol"
	"github.com/duedisplay/displaylink/pkg/transport"
	"github.com/rs/zerolog/log"
)

// Send issues one administrative command and collects its response. On a
// transport failure it performs bounded reconnection and retries the
// original command exactly once, except for commands that are not retry
// safe, whose raw error propagates untouched. The returned error is only
// ever transport-level; a device ERROR or deadline expiry is reported
// through the Response outcome (use Response.Err for a typed error).
func (c *Controller) Send(name, args string) (protocol.Response, error) {
	res, err := c.sendOnce(name, args)

	if err != nil && transport.IsTransport(err) && protocol.IsRetrySafe(name) {
		log.Warn().Err(err).Str("command", name).
			Bool("disconnected", transport.IsDisconnection(err)).
			Msg("display: transport failure, attempting recovery")
		if rerr := c.reconnect(); rerr != nil {
			log.Warn().Err(rerr).Str("command", name).Msg("display: reconnection failed")
			return res, err // original error, unchanged
		}
		res, err = c.sendOnce(name, args)
	}

	if err == nil {
		// Any command completing without a transport failure resets the
		// reconnection budget for this logical session.
		c.reconnects = 0
	}
	return res, err
}

// sendOnce runs one request/response cycle with no retry.
func (c *Controller) sendOnce(name, args string) (protocol.Response, error) {
	res := protocol.Response{Command: name}

	if c.tr == nil {
		return res, &transport.Error{Op: "send", Err: ErrNotConnected}
	}

	cmd := protocol.CommandPrefix + name
	if args != "" {
		cmd += ":" + args
	}
	log.Debug().Str("command", cmd).Str("conn_id", c.connID).Msg("display: sending command")

	if err := c.tr.Write([]byte(cmd + protocol.Terminator)); err != nil {
		return res, err
	}
	if err := c.tr.Flush(); err != nil {
		return res, err
	}

	multi := protocol.IsMultiLine(name)
	deadline := c.clock.Now().Add(c.opts.CommandTimeout)

	for {
		line, ok, err := c.tr.ReadLine(deadline)
		if err != nil {
			res.Outcome = protocol.OutcomeTimeout
			return res, err
		}
		if !ok {
			res.Outcome = protocol.OutcomeTimeout
			log.Warn().Str("command", name).Int("lines", len(res.Lines)).
				Msg("display: command response deadline elapsed")
			return res, nil
		}
		if line == "" {
			continue
		}

		parsed := protocol.ParseLine(line)
		res.Lines = append(res.Lines, parsed.Raw)

		if multi {
			// Enumeration/info/help responses run past OK:/ERROR: lines
			// and terminate only at the END_ marker.
			if parsed.Kind == protocol.LineEnd {
				res.Outcome = protocol.OutcomeOK
				res.Message = parsed.Message
				return res, nil
			}
			continue
		}

		switch parsed.Kind {
		case protocol.LineOK:
			res.Outcome = protocol.OutcomeOK
			res.Message = parsed.Message
			return res, nil
		case protocol.LineError:
			res.Outcome = protocol.OutcomeError
			res.Message = parsed.Message
			log.Debug().Str("command", name).Str("line", parsed.Raw).
				Msg("display: device reported error")
			return res, nil
		default:
			// Chatter before the terminal line is collected verbatim.
		}
	}
}

// reconnect closes the stale connection and opens a fresh one, bounded
// by the configured attempt budget. Device path resolution is delegated
// to the detector so an enumeration shift after replug is handled.
func (c *Controller) reconnect() error {
	if c.reconnects >= c.opts.MaxReconnects {
		return errors.New("max reconnection attempts reached")
	}
	c.reconnects++
	log.Info().Int("attempt", c.reconnects).Int("max", c.opts.MaxReconnects).
		Msg("display: attempting reconnection")

	if c.tr != nil {
		_ = c.tr.Close()
		c.tr = nil
	}
	c.session = nil

	c.clock.Sleep(c.opts.ReconnectSettle)

	return c.Connect("")
}

// sendChecked is Send plus conversion of non-success outcomes to typed
// errors, for callers that only care about pass/fail.
func (c *Controller) sendChecked(name, args string) (protocol.Response, error) {
	res, err := c.Send(name, args)
	if err != nil {
		return res, err
	}
	return res, res.Err()
}
