// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package waveshare2in13v4

import (
	"github.com/GermanBionicSystems/einkrefresh/refresh"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

type controller interface {
	sendCommand(byte)
	sendData([]byte)
	sendByte(byte)
	readBusy()
}

// Border waveform settings.
const (
	borderFollowLUT byte = 0x05
	borderHiZ       byte = 0x80
)

func initDisplay(ctrl controller, opts *Opts) {
	ctrl.readBusy()
	ctrl.sendCommand(swReset)
	ctrl.readBusy()

	ctrl.sendCommand(driverOutputControl)
	ctrl.sendData([]byte{
		byte((opts.Height - 1) & 0xFF),
		byte((opts.Height - 1) >> 8),
		0x00,
	})

	// X increment, Y increment.
	ctrl.sendCommand(dataEntryModeSetting)
	ctrl.sendByte(0x03)

	setWindow(ctrl, 0, 0, opts.Width-1, opts.Height-1)
	setCursor(ctrl, 0, 0)

	ctrl.sendCommand(borderWaveformControl)
	ctrl.sendByte(borderFollowLUT)

	ctrl.sendCommand(displayUpdateControl1)
	ctrl.sendData([]byte{0x80, 0x80})

	// Internal temperature sensor.
	ctrl.sendCommand(tempSensorSelect)
	ctrl.sendByte(0x80)

	ctrl.readBusy()
}

// configDepth prepares the controller for the given refresh depth. The
// border is left floating during partial refreshes so it does not flicker.
func configDepth(ctrl controller, depth refresh.Depth) {
	ctrl.sendCommand(borderWaveformControl)
	if depth == refresh.Partial {
		ctrl.sendByte(borderHiZ)
	} else {
		ctrl.sendByte(borderFollowLUT)
	}
}

// writeImage uploads the buffer into the BW RAM. A full refresh also stores
// it as the base image the next partial refresh compares against.
func writeImage(ctrl controller, buf *image1bit.VerticalLSB, depth refresh.Depth) {
	data := packRows(buf)

	setCursor(ctrl, 0, 0)
	ctrl.sendCommand(writeRAMBW)
	ctrl.sendData(data)

	if depth != refresh.Partial {
		setCursor(ctrl, 0, 0)
		ctrl.sendCommand(writeRAMRed)
		ctrl.sendData(data)
	}
}

// packRows converts the buffer into the RAM layout: one bit per pixel, MSB
// first, rows padded to whole bytes.
func packRows(buf *image1bit.VerticalLSB) []byte {
	b := buf.Bounds()
	cols := (b.Dx() + 7) / 8
	data := make([]byte, 0, cols*b.Dy())

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := 0; x < cols; x++ {
			var v byte
			for bit := 0; bit < 8; bit++ {
				px := b.Min.X + x*8 + bit
				if px < b.Max.X && bool(buf.BitAt(px, y)) {
					v |= 0x80 >> bit
				}
			}
			data = append(data, v)
		}
	}

	return data
}

func updateDisplay(ctrl controller, depth refresh.Depth) {
	var displayUpdateFlags byte

	if depth == refresh.Partial {
		// Make use of red buffer
		displayUpdateFlags = 0b1000_0000
	}

	ctrl.sendCommand(displayUpdateControl1)
	ctrl.sendData([]byte{displayUpdateFlags})

	seq := displayUpdateEnableClock |
		displayUpdateEnableAnalog |
		displayUpdateLoadTemperature |
		displayUpdateLoadLUTFromOTP |
		displayUpdateDisplay |
		displayUpdateDisableAnalog |
		displayUpdateDisableClock
	if depth == refresh.Partial {
		seq |= displayUpdateMode2
	}

	ctrl.sendCommand(displayUpdateControl2)
	ctrl.sendByte(seq)

	ctrl.sendCommand(masterActivation)
	ctrl.readBusy()
}

// setWindow sets the display window size.
func setWindow(ctrl controller, xStart, yStart, xEnd, yEnd int) {
	ctrl.sendCommand(setRAMXAddressStartEndPosition)
	ctrl.sendData([]byte{byte((xStart >> 3) & 0xFF), byte((xEnd >> 3) & 0xFF)})

	ctrl.sendCommand(setRAMYAddressStartEndPosition)
	ctrl.sendData([]byte{byte(yStart & 0xFF), byte((yStart >> 8) & 0xFF), byte(yEnd & 0xFF), byte((yEnd >> 8) & 0xFF)})
}

// setCursor positions the cursor.
func setCursor(ctrl controller, x, y int) {
	ctrl.sendCommand(setRAMXAddressCounter)
	// x point must be the multiple of 8 or the last 3 bits will be ignored
	ctrl.sendData([]byte{byte(x & 0xFF)})

	ctrl.sendCommand(setRAMYAddressCounter)
	ctrl.sendData([]byte{byte(y & 0xFF), byte((y >> 8) & 0xFF)})
}
