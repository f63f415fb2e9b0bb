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
	"errors"
	"testing"

	"github.com/duedisplay/displaylink/pkg/display"
	"github.com/duedisplay/displaylink/pkg/display/bitmap"
	"github.com/duedisplay/displaylink/pkg/protocol"
	"github.com/duedisplay/displaylink/pkg/transport"
	"github.com/duedisplay/displaylink/pkg/transport/transporttest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func redTransfer(t *testing.T, w, h int) *bitmap.Transfer {
	t.Helper()
	red := bitmap.Pack(0xFF, 0, 0)
	pix := make([]uint16, w*h)
	for i := range pix {
		pix[i] = red
	}
	tr, err := bitmap.NewTransfer(w, h, pix)
	require.NoError(t, err)
	return tr
}

// selectedController returns a controller with an active display and a
// clean write capture.
func selectedController(t *testing.T, mock *transporttest.MockSerialPort) *display.Controller {
	t.Helper()
	ctrl := newTestController(t, mock)
	t.Cleanup(func() { _ = ctrl.Disconnect() })

	mock.QueueLine("DISPLAY_READY")
	require.NoError(t, ctrl.Select("main"))
	mock.ResetWritten()
	return ctrl
}

func TestUploadFullHandshake(t *testing.T) {
	t.Parallel()

	mock := transporttest.NewMockSerialPort()
	ctrl := selectedController(t, mock)

	mock.QueueLine("READY for 2x2 transfer")
	mock.QueueLine("Transfer COMPLETE")

	var fractions []float64
	tr := redTransfer(t, 2, 2)
	require.NoError(t, ctrl.Upload(tr, func(f float64) {
		fractions = append(fractions, f)
	}))

	want := "BMPStart\nSIZE:2,2\n" + string(tr.Bytes()) + "BMPEnd\n"
	assert.Equal(t, want, string(mock.Written()))
	assert.Equal(t, []float64{1}, fractions)
	assert.Equal(t, display.StreamDone, ctrl.StreamState())
}

func TestUploadChunkedProgress(t *testing.T) {
	t.Parallel()

	mock := transporttest.NewMockSerialPort()
	opts := testOptions(mock)
	opts.ChunkPixels = 3

	ctrl := display.New(nil, opts)
	require.NoError(t, ctrl.Connect("/dev/ttyTEST"))
	t.Cleanup(func() { _ = ctrl.Disconnect() })

	mock.QueueLine("DISPLAY_READY")
	require.NoError(t, ctrl.Select("main"))
	mock.ResetWritten()

	mock.QueueLine("READY")
	mock.QueueLine("COMPLETE")

	// 8 pixels in chunks of 3: 3 + 3 + 2.
	var fractions []float64
	tr := redTransfer(t, 4, 2)
	require.NoError(t, ctrl.Upload(tr, func(f float64) {
		fractions = append(fractions, f)
	}))

	require.Len(t, fractions, 3)
	assert.InDelta(t, 0.375, fractions[0], 1e-9)
	assert.InDelta(t, 0.75, fractions[1], 1e-9)
	assert.InDelta(t, 1.0, fractions[2], 1e-9)

	want := "BMPStart\nSIZE:4,2\n" + string(tr.Bytes()) + "BMPEnd\n"
	assert.Equal(t, want, string(mock.Written()))
}

func TestUploadSoftSuccessWithoutComplete(t *testing.T) {
	t.Parallel()

	mock := transporttest.NewMockSerialPort()
	ctrl := selectedController(t, mock)

	// READY arrives but the COMPLETE confirmation never does.
	mock.QueueLine("READY")

	require.NoError(t, ctrl.Upload(redTransfer(t, 2, 2), nil))
	assert.Equal(t, display.StreamDone, ctrl.StreamState())
}

func TestUploadSoftSuccessOnPortErrorAfterEnd(t *testing.T) {
	t.Parallel()

	mock := transporttest.NewMockSerialPort()
	ctrl := selectedController(t, mock)

	// Once the READY line is consumed the queue is empty, so the drain
	// after BMPEnd hits the injected port error instead of silence. All
	// pixels were already written, so this is still a soft success.
	mock.QueueLine("READY")
	mock.ReadErr = errors.New("input/output error")

	require.NoError(t, ctrl.Upload(redTransfer(t, 2, 2), nil))
	assert.Equal(t, display.StreamDone, ctrl.StreamState())
}

func TestUploadDeviceRejectsTransfer(t *testing.T) {
	t.Parallel()

	mock := transporttest.NewMockSerialPort()
	ctrl := selectedController(t, mock)

	mock.QueueLine("ERROR: transfer too large")

	err := ctrl.Upload(redTransfer(t, 2, 2), nil)
	var de *protocol.DeviceError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, display.StreamAborted, ctrl.StreamState())
}

func TestUploadReadyLineBeatsErrorWord(t *testing.T) {
	t.Parallel()

	mock := transporttest.NewMockSerialPort()
	ctrl := selectedController(t, mock)

	// A line carrying both words counts as acceptance.
	mock.QueueLine("READY (previous ERROR cleared)")

	require.NoError(t, ctrl.Upload(redTransfer(t, 2, 2), nil))
	assert.Equal(t, display.StreamDone, ctrl.StreamState())
}

func TestUploadReadyTimeout(t *testing.T) {
	t.Parallel()

	mock := transporttest.NewMockSerialPort()
	ctrl := selectedController(t, mock)

	err := ctrl.Upload(redTransfer(t, 2, 2), nil)
	var te *protocol.TimeoutError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, display.StreamAborted, ctrl.StreamState())
}

func TestUploadRequiresActiveDisplay(t *testing.T) {
	t.Parallel()

	mock := transporttest.NewMockSerialPort()
	ctrl := newTestController(t, mock)
	t.Cleanup(func() { _ = ctrl.Disconnect() })

	err := ctrl.Upload(redTransfer(t, 2, 2), nil)
	var se *protocol.StateError
	require.ErrorAs(t, err, &se)
}

func TestUploadRequiresConnection(t *testing.T) {
	t.Parallel()

	ctrl := display.New(nil, testOptions(transporttest.NewMockSerialPort()))
	err := ctrl.Upload(redTransfer(t, 2, 2), nil)
	assert.True(t, transport.IsTransport(err))
}

func TestStreamStateString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "idle", display.StreamIdle.String())
	assert.Equal(t, "streaming", display.StreamStreaming.String())
	assert.Equal(t, "done", display.StreamDone.String())
	assert.Equal(t, "aborted", display.StreamAborted.String())
}
