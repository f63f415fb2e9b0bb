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

package helpers

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLogging(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	var buf bytes.Buffer
	require.NoError(t, InitLogging(dir, []io.Writer{&buf}))

	log.Info().Str("key", "value").Msg("hello from the test")

	// The extra writer saw the event.
	assert.Contains(t, buf.String(), "hello from the test")
	assert.Contains(t, buf.String(), `"key":"value"`)

	// The log directory exists and the rotating file received the event.
	data, err := os.ReadFile(filepath.Join(dir, LogFile)) //nolint:gosec // test-owned path
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello from the test")
}
