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

// Package bitmap prepares pixel payloads for the display's bitmap
// sub-protocol: RGB565 packing and fixed-dimension transfer buffers
// encoded big-endian, row-major.
package bitmap

// Pack converts 8-bit RGB to a 16-bit RGB565 sample: 5 bits red, 6 bits
// green, 5 bits blue, laid out RRRRRGGGGGGBBBBB.
func Pack(r, g, b uint8) uint16 {
	r5 := uint16(r>>3) & 0x1F
	g6 := uint16(g>>2) & 0x3F
	b5 := uint16(b>>3) & 0x1F
	return r5<<11 | g6<<5 | b5
}

// Unpack expands an RGB565 sample back to 8-bit components. The low bits
// lost to quantization come back as zero, so red and blue are recovered
// within 8 and green within 4 of the packed value.
func Unpack(v uint16) (r, g, b uint8) {
	r = uint8(v>>11) << 3
	g = uint8(v>>5&0x3F) << 2
	b = uint8(v&0x1F) << 3
	return r, g, b
}
