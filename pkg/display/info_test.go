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

	"github.com/duedisplay/displaylink/pkg/transport/transporttest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInfoParsesAndUpdatesSession(t *testing.T) {
	t.Parallel()

	mock := transporttest.NewMockSerialPort()
	ctrl := newTestController(t, mock)
	t.Cleanup(func() { _ = ctrl.Disconnect() })

	mock.QueueLine("DISPLAY_READY")
	require.NoError(t, ctrl.Select("main"))

	mock.QueueLines(
		"Name: main",
		"Resolution: 160x128",
		"rotation: 1",
		"usable_x: 2",
		"usable_y: 1",
		"usable_width: 156",
		"usable_height: 126",
		"center_x: 80",
		"center_y: 64",
		"adjust_left: 2",
		"adjust_right: -1",
		"firmware_build: 20260414", // unknown key, kept in Raw only
		"END_INFO",
	)

	info, err := ctrl.Info()
	require.NoError(t, err)

	assert.Equal(t, "main", info.Name)
	assert.Equal(t, "160x128", info.Resolution)
	assert.Equal(t, 160, info.Width)
	assert.Equal(t, 128, info.Height)
	assert.Equal(t, 1, info.Rotation)
	assert.Equal(t, 2, info.UsableX)
	assert.Equal(t, 1, info.UsableY)
	assert.Equal(t, 156, info.UsableWidth)
	assert.Equal(t, 126, info.UsableHeight)
	assert.Equal(t, 80, info.CenterX)
	assert.Equal(t, 64, info.CenterY)
	assert.Equal(t, 2, info.AdjustLeft)
	assert.Equal(t, -1, info.AdjustRight)
	assert.Equal(t, "20260414", info.Raw["firmware_build"])

	sess, active := ctrl.Active()
	require.True(t, active)
	assert.Equal(t, "main", sess.Name)
	assert.Equal(t, 156, sess.Width)
	assert.Equal(t, 126, sess.Height)
}

func TestInfoFallsBackToFullResolution(t *testing.T) {
	t.Parallel()

	mock := transporttest.NewMockSerialPort()
	ctrl := newTestController(t, mock)
	t.Cleanup(func() { _ = ctrl.Disconnect() })

	mock.QueueLine("DISPLAY_READY")
	require.NoError(t, ctrl.Select("main"))

	mock.QueueLines("Resolution: 160x128", "END_INFO")

	_, err := ctrl.Info()
	require.NoError(t, err)

	sess, active := ctrl.Active()
	require.True(t, active)
	assert.Equal(t, 160, sess.Width)
	assert.Equal(t, 128, sess.Height)
}

func TestInfoToleratesJunkFields(t *testing.T) {
	t.Parallel()

	mock := transporttest.NewMockSerialPort()
	ctrl := newTestController(t, mock)
	t.Cleanup(func() { _ = ctrl.Disconnect() })

	mock.QueueLines(
		"no separator here",
		"usable_width: lots",
		"Resolution: wide",
		"END_INFO",
	)

	info, err := ctrl.Info()
	require.NoError(t, err)
	assert.Zero(t, info.UsableWidth)
	assert.Zero(t, info.Width)
	assert.Equal(t, "wide", info.Resolution)
}
