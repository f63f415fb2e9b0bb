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

package bitmap

import (
	"encoding/binary"
	"fmt"
	"image"
)

// Transfer is a ready-to-stream pixel buffer: exactly Width*Height RGB565
// samples in row-major order. Consumed once by the streamer; a partially
// sent transfer is never retried.
type Transfer struct {
	pix    []uint16
	Width  int
	Height int
}

// NewTransfer wraps an existing pixel buffer. The pixel count must be
// exactly width*height; anything else is a caller-side contract breach.
func NewTransfer(width, height int, pix []uint16) (*Transfer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid transfer dimensions %dx%d", width, height)
	}
	if len(pix) != width*height {
		return nil, fmt.Errorf("pixel count %d does not match dimensions %dx%d",
			len(pix), width, height)
	}
	return &Transfer{Width: width, Height: height, pix: pix}, nil
}

// FromImage packs an already-decoded image into a Transfer. The image
// must already be the intended transfer size; scaling and cropping belong
// to the caller.
func FromImage(img image.Image) (*Transfer, error) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("empty image bounds %v", bounds)
	}

	pix := make([]uint16, 0, width*height)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			pix = append(pix, Pack(uint8(r>>8), uint8(g>>8), uint8(b>>8)))
		}
	}
	return &Transfer{Width: width, Height: height, pix: pix}, nil
}

// Pixels returns the number of samples in the transfer.
func (t *Transfer) Pixels() int {
	return len(t.pix)
}

// EncodeRange appends samples [from, to) to dst as big-endian 16-bit
// values and returns the extended slice. Used by the streamer to encode
// one chunk at a time without materializing the whole payload.
func (t *Transfer) EncodeRange(dst []byte, from, to int) []byte {
	for _, v := range t.pix[from:to] {
		dst = binary.BigEndian.AppendUint16(dst, v)
	}
	return dst
}

// Bytes encodes the entire payload. Mostly useful in tests; streaming
// paths should encode chunk by chunk.
func (t *Transfer) Bytes() []byte {
	return t.EncodeRange(make([]byte, 0, 2*len(t.pix)), 0, len(t.pix))
}
