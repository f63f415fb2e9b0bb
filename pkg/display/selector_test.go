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

package display_test

import (
	"testing"

	"github.com/duedisplay/displaylink/pkg/display"
	"github.com/duedisplay/displaylink/pkg/protocol"
	"github.com/duedisplay/displaylink/pkg/transport"
	"github.com/duedisplay/displaylink/pkg/transport/transporttest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectConfirmsSession(t *testing.T) {
	t.Parallel()

	mock := transporttest.NewMockSerialPort()
	ctrl := newTestController(t, mock)
	t.Cleanup(func() { _ = ctrl.Disconnect() })

	mock.QueueLines("switching output", "DISPLAY_READY")

	require.NoError(t, ctrl.Select("main"))
	assert.Equal(t, "DISPLAY:main\n", string(mock.Written()))

	sess, active := ctrl.Active()
	require.True(t, active)
	assert.Equal(t, "main", sess.Name)
}

func TestSelectReplacesSession(t *testing.T) {
	t.Parallel()

	mock := transporttest.NewMockSerialPort()
	ctrl := newTestController(t, mock)
	t.Cleanup(func() { _ = ctrl.Disconnect() })

	mock.QueueLine("DISPLAY_READY")
	require.NoError(t, ctrl.Select("main"))

	mock.QueueLine("DISPLAY_READY")
	require.NoError(t, ctrl.Select("aux"))

	sess, active := ctrl.Active()
	require.True(t, active)
	assert.Equal(t, "aux", sess.Name)
}

func TestSelectFailureKeepsPriorSession(t *testing.T) {
	t.Parallel()

	mock := transporttest.NewMockSerialPort()
	ctrl := newTestController(t, mock)
	t.Cleanup(func() { _ = ctrl.Disconnect() })

	mock.QueueLine("DISPLAY_READY")
	require.NoError(t, ctrl.Select("main"))

	mock.QueueLine("DISPLAY_ERROR: no display named ghost")
	err := ctrl.Select("ghost")

	var de *protocol.DeviceError
	require.ErrorAs(t, err, &de)
	assert.Contains(t, de.Error(), "ghost")

	// The previous selection is still the active one.
	sess, active := ctrl.Active()
	require.True(t, active)
	assert.Equal(t, "main", sess.Name)
}

func TestSelectTimeout(t *testing.T) {
	t.Parallel()

	mock := transporttest.NewMockSerialPort()
	ctrl := newTestController(t, mock)
	t.Cleanup(func() { _ = ctrl.Disconnect() })

	err := ctrl.Select("main")

	var te *protocol.TimeoutError
	require.ErrorAs(t, err, &te)

	_, active := ctrl.Active()
	assert.False(t, active)
}

func TestSelectNotConnected(t *testing.T) {
	t.Parallel()

	ctrl := display.New(nil, testOptions(transporttest.NewMockSerialPort()))
	err := ctrl.Select("main")
	assert.True(t, transport.IsTransport(err))
}

func TestSelectWithAdvisoryReset(t *testing.T) {
	t.Parallel()

	mock := transporttest.NewMockSerialPort()
	opts := testOptions(mock)
	opts.ResetBeforeSelect = true

	ctrl := display.New(nil, opts)
	require.NoError(t, ctrl.Connect("/dev/ttyTEST"))
	t.Cleanup(func() { _ = ctrl.Disconnect() })

	mock.QueueLines("OK: reset done", "DISPLAY_READY")

	require.NoError(t, ctrl.Select("main"))
	assert.Equal(t, "CMD:RESET\nDISPLAY:main\n", string(mock.Written()))
}

func TestDeselect(t *testing.T) {
	t.Parallel()

	mock := transporttest.NewMockSerialPort()
	ctrl := newTestController(t, mock)
	t.Cleanup(func() { _ = ctrl.Disconnect() })

	mock.QueueLine("DISPLAY_READY")
	require.NoError(t, ctrl.Select("main"))

	ctrl.Deselect()
	_, active := ctrl.Active()
	assert.False(t, active)
}

func TestListSkipsMalformedEntries(t *testing.T) {
	t.Parallel()

	mock := transporttest.NewMockSerialPort()
	ctrl := newTestController(t, mock)
	t.Cleanup(func() { _ = ctrl.Disconnect() })

	mock.QueueLines(
		"scanning bus",
		"[0] main - front panel",
		"not an entry",
		"[1] aux - rear status",
		"END_LIST",
	)

	names, err := ctrl.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"main", "aux"}, names)
	assert.Equal(t, "CMD:LIST\n", string(mock.Written()))
}
