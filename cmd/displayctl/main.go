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

package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/duedisplay/displaylink/pkg/config"
	"github.com/duedisplay/displaylink/pkg/display"
	"github.com/duedisplay/displaylink/pkg/display/bitmap"
	"github.com/duedisplay/displaylink/pkg/helpers"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

const usage = `Usage: displayctl [flags] <command> [args]

Commands:
  list                    list attached displays
  select <name>           select the active display
  info                    show active display info
  test                    draw the test pattern on the active display
  test-all                draw the test pattern on every display
  reset                   reinitialize the active display
  calibrate               run the firmware calibration pattern
  adjust <side> <px>      nudge one edge (top/bottom/left/right)
  orientation <n>         set rotation quadrant (0-3)
  frame <on|off>          toggle the calibration frame
  upload <name> <image>   select a display and stream an image to it
  push-config <name>      push stored calibration to the device
  save-calibration <name> <top> <bottom> <left> <right>
                          fold adjustment offsets into the .config file
                          and push the result to the device
  commands                show the firmware's own command help
`

func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func run() error {
	device := flag.String("device", "", "serial device path (default: autodetect)")
	baud := flag.Int("baud", 0, "serial baud rate")
	configDir := flag.String("config-dir", ".", "directory holding display .config files")
	logDir := flag.String("log-dir", os.TempDir(), "directory for the rotating log file")
	verbose := flag.Bool("verbose", false, "log to the console as well")
	noReset := flag.Bool("no-reset", false, "skip the advisory reset before selection")
	flag.Usage = func() {
		_, _ = fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	var console []io.Writer
	if *verbose {
		console = append(console, zerolog.ConsoleWriter{Out: os.Stderr})
	}
	if err := helpers.InitLogging(*logDir, console); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		return errors.New("no command given")
	}

	ctrl := display.New(helpers.FindControllerPort, display.Options{
		BaudRate:          *baud,
		ResetBeforeSelect: !*noReset,
	})
	if err := ctrl.Connect(*device); err != nil {
		return err
	}
	defer func() {
		if err := ctrl.Disconnect(); err != nil {
			log.Warn().Err(err).Msg("disconnect failed")
		}
	}()

	fs := afero.NewOsFs()
	return dispatch(ctrl, fs, *configDir, args[0], args[1:])
}

//nolint:gocyclo // one case per CLI command
func dispatch(ctrl *display.Controller, fs afero.Fs, configDir, cmd string, args []string) error {
	switch cmd {
	case "list":
		names, err := ctrl.List()
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil

	case "select":
		if len(args) != 1 {
			return errors.New("select requires a display name")
		}
		return ctrl.Select(args[0])

	case "info":
		info, err := ctrl.Info()
		if err != nil {
			return err
		}
		for k, v := range info.Raw {
			fmt.Printf("%s: %s\n", k, v)
		}
		return nil

	case "test":
		return ctrl.Test()

	case "test-all":
		return ctrl.TestAll()

	case "reset":
		return ctrl.Reset()

	case "calibrate":
		return ctrl.Calibrate()

	case "adjust":
		if len(args) != 2 {
			return errors.New("adjust requires a side and a pixel offset")
		}
		side, err := parseSide(args[0])
		if err != nil {
			return err
		}
		px, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid offset %q: %w", args[1], err)
		}
		return ctrl.Adjust(side, px)

	case "orientation":
		if len(args) != 1 {
			return errors.New("orientation requires a rotation quadrant")
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid rotation %q: %w", args[0], err)
		}
		return ctrl.SetOrientation(n)

	case "frame":
		if len(args) != 1 {
			return errors.New("frame requires on or off")
		}
		switch strings.ToLower(args[0]) {
		case "on":
			return ctrl.SetFrame(true)
		case "off":
			return ctrl.SetFrame(false)
		default:
			return fmt.Errorf("frame requires on or off, got %q", args[0])
		}

	case "upload":
		if len(args) != 2 {
			return errors.New("upload requires a display name and an image file")
		}
		return upload(ctrl, args[0], args[1])

	case "push-config":
		if len(args) != 1 {
			return errors.New("push-config requires a display name")
		}
		disp, err := config.LoadByName(fs, configDir, args[0])
		if err != nil {
			return err
		}
		return ctrl.PushCalibration(disp.Calibration)

	case "save-calibration":
		if len(args) != 5 {
			return errors.New("save-calibration requires a display name and top/bottom/left/right offsets")
		}
		off, err := parseOffsets(args[1:])
		if err != nil {
			return err
		}
		found, err := config.FindConfigs(fs, configDir)
		if err != nil {
			return err
		}
		path, ok := found[args[0]]
		if !ok {
			return fmt.Errorf("no config file found for display %q in %s", args[0], configDir)
		}
		disp, err := config.Load(fs, path)
		if err != nil {
			return err
		}
		if err := display.SaveCalibration(fs, path, disp, off); err != nil {
			return err
		}
		return ctrl.PushCalibration(disp.Calibration)

	case "commands":
		lines, err := ctrl.Help()
		if err != nil {
			return err
		}
		for _, line := range lines {
			fmt.Println(line)
		}
		return nil

	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func parseOffsets(args []string) (display.Offsets, error) {
	vals := make([]int, len(args))
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return display.Offsets{}, fmt.Errorf("invalid offset %q: %w", a, err)
		}
		vals[i] = n
	}
	return display.Offsets{Top: vals[0], Bottom: vals[1], Left: vals[2], Right: vals[3]}, nil
}

func parseSide(s string) (display.Side, error) {
	switch strings.ToLower(s) {
	case "top":
		return display.SideTop, nil
	case "bottom":
		return display.SideBottom, nil
	case "left":
		return display.SideLeft, nil
	case "right":
		return display.SideRight, nil
	default:
		return 0, fmt.Errorf("unknown side %q", s)
	}
}

func upload(ctrl *display.Controller, name, path string) error {
	f, err := os.Open(path) //nolint:gosec // user-supplied image path
	if err != nil {
		return fmt.Errorf("failed to open image: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close image file")
		}
	}()

	img, _, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("failed to decode image: %w", err)
	}

	transfer, err := bitmap.FromImage(img)
	if err != nil {
		return err
	}

	if err := ctrl.Select(name); err != nil {
		return err
	}

	return ctrl.Upload(transfer, func(fraction float64) {
		fmt.Printf("\r%3.0f%%", fraction*100)
		if fraction >= 1 {
			fmt.Println()
		}
	})
}
