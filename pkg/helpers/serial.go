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
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.bug.st/serial"
)

// Arduino USB vendor IDs, official and clone. The controller board is an
// Arduino Due, which enumerates as one of these.
var arduinoVendorIDs = []string{"2341", "2a03"}

// deviceVendorID looks up a serial device's USB vendor ID via udevadm.
// Returns "" when udevadm is unavailable or the device has no USB parent.
func deviceVendorID(path string) string {
	if _, err := os.Stat("/usr/bin/udevadm"); err != nil {
		log.Debug().Msgf("udevadm not found, skipping vendor check")
		return ""
	}

	// Validate device path to prevent command injection
	if !strings.HasPrefix(path, "/dev/") {
		log.Error().Str("path", path).Msg("invalid device path")
		return ""
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	//nolint:gosec // Safe: path validated to start with /dev/, udevadm uses absolute path
	cmd := exec.CommandContext(ctx, "/usr/bin/udevadm", "info", "--name="+path)
	out, err := cmd.Output()
	if err != nil {
		log.Error().Err(err).Msg("udevadm failed")
		return ""
	}

	for _, line := range strings.Split(string(out), "\n") {
		if strings.HasPrefix(line, "E: ID_VENDOR_ID=") {
			return strings.ToLower(strings.TrimPrefix(line, "E: ID_VENDOR_ID="))
		}
	}
	return ""
}

func getLinuxList() ([]string, error) {
	path := "/dev"

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return []string{}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open /dev directory: %w", err)
	}
	defer func(f *os.File) {
		closeErr := f.Close()
		if closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close serial device folder")
		}
	}(f)

	files, err := f.Readdir(0)
	if err != nil {
		return nil, fmt.Errorf("failed to read /dev directory: %w", err)
	}

	devices := make([]string, 0, len(files))

	for _, v := range files {
		if v.IsDir() {
			continue
		}

		if !strings.HasPrefix(v.Name(), "ttyUSB") && !strings.HasPrefix(v.Name(), "ttyACM") {
			continue
		}

		devices = append(devices, filepath.Join(path, v.Name()))
	}

	return devices, nil
}

// GetSerialDeviceList enumerates serial devices that could host the
// display controller board.
func GetSerialDeviceList() ([]string, error) {
	switch runtime.GOOS {
	case "linux":
		return getLinuxList()
	case "darwin":
		var devices []string
		ports, err := serial.GetPortsList()
		if err != nil {
			return nil, fmt.Errorf("failed to get serial ports list on darwin: %w", err)
		}

		for _, v := range ports {
			if !strings.HasPrefix(v, "/dev/tty.usbmodem") && !strings.HasPrefix(v, "/dev/tty.usbserial") {
				continue
			}
			devices = append(devices, v)
		}

		return devices, nil
	case "windows":
		var devices []string
		ports, err := serial.GetPortsList()
		if err != nil {
			return nil, fmt.Errorf("failed to get serial ports list on windows: %w", err)
		}

		for _, v := range ports {
			if !strings.HasPrefix(v, "COM") {
				continue
			}
			devices = append(devices, v)
		}

		return devices, nil
	default:
		ports, err := serial.GetPortsList()
		if err != nil {
			return nil, fmt.Errorf("failed to get serial ports list: %w", err)
		}
		return ports, nil
	}
}

// FindControllerPort picks the most likely controller board device:
// an Arduino by USB vendor ID when that can be determined, otherwise
// the first enumerated candidate.
func FindControllerPort() (string, bool) {
	devices, err := GetSerialDeviceList()
	if err != nil {
		log.Error().Err(err).Msg("serial device enumeration failed")
		return "", false
	}
	if len(devices) == 0 {
		return "", false
	}

	if runtime.GOOS == "linux" {
		for _, dev := range devices {
			vid := deviceVendorID(dev)
			for _, want := range arduinoVendorIDs {
				if vid == want {
					log.Debug().Str("device", dev).Str("vid", vid).Msg("found arduino serial device")
					return dev, true
				}
			}
		}
	}

	log.Debug().Str("device", devices[0]).Msg("no arduino identified, using first candidate")
	return devices[0], true
}
