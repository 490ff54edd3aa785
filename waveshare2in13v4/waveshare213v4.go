// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package waveshare2in13v4

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"time"

	"github.com/GermanBionicSystems/einkrefresh/refresh"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3/rpi"
)

// Commands
const (
	driverOutputControl            byte = 0x01
	deepSleepMode                  byte = 0x10
	dataEntryModeSetting           byte = 0x11
	swReset                        byte = 0x12
	tempSensorSelect               byte = 0x18
	masterActivation               byte = 0x20
	displayUpdateControl1          byte = 0x21
	displayUpdateControl2          byte = 0x22
	writeRAMBW                     byte = 0x24
	writeRAMRed                    byte = 0x26
	borderWaveformControl          byte = 0x3C
	setRAMXAddressStartEndPosition byte = 0x44
	setRAMYAddressStartEndPosition byte = 0x45
	setRAMXAddressCounter          byte = 0x4E
	setRAMYAddressCounter          byte = 0x4F
)

// Flags for the displayUpdateControl2 command
const (
	displayUpdateDisableClock byte = 1 << iota
	displayUpdateDisableAnalog
	displayUpdateDisplay
	displayUpdateMode2
	displayUpdateLoadLUTFromOTP
	displayUpdateLoadTemperature
	displayUpdateEnableClock
	displayUpdateEnableAnalog
)

// Dev defines the handler which is used to access the display.
type Dev struct {
	c conn.Conn

	dc   gpio.PinOut
	cs   gpio.PinOut
	rst  gpio.PinOut
	busy gpio.PinIn

	bounds image.Rectangle
	buffer *image1bit.VerticalLSB
	depth  refresh.Depth

	opts *Opts
}

// Opts definies the structure of the display configuration.
type Opts struct {
	Width  int
	Height int
}

// EPD2in13v4 cointains display configuration for the Waveshare 2in13v4.
var EPD2in13v4 = Opts{
	Width:  122,
	Height: 250,
}

// New creates new handler which is used to access the display.
func New(p spi.Port, dc, cs, rst gpio.PinOut, busy gpio.PinIn, opts *Opts) (*Dev, error) {
	c, err := p.Connect(4*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		return nil, err
	}

	if err := busy.In(gpio.Float, gpio.FallingEdge); err != nil {
		return nil, err
	}

	// The X axis is padded to whole bytes as the RAM is addressed per byte.
	bufferSize := image.Pt((opts.Width+7)/8*8, opts.Height)

	d := &Dev{
		c:      c,
		dc:     dc,
		cs:     cs,
		rst:    rst,
		busy:   busy,
		bounds: image.Rect(0, 0, opts.Width, opts.Height),
		buffer: image1bit.NewVerticalLSB(image.Rectangle{Max: bufferSize}),
		depth:  refresh.Full,
		opts:   opts,
	}

	// Default color
	draw.Src.Draw(d.buffer, d.buffer.Bounds(), &image.Uniform{image1bit.On}, image.Point{})

	return d, nil
}

// NewHat creates new handler which is used to access the display. Default Waveshare Hat configuration is used.
func NewHat(p spi.Port, opts *Opts) (*Dev, error) {
	dc := rpi.P1_22
	cs := rpi.P1_24
	rst := rpi.P1_11
	busy := rpi.P1_18
	return New(p, dc, cs, rst, busy, opts)
}

// Init configures the display for usage through the other functions.
func (d *Dev) Init() error {
	if err := d.Reset(); err != nil {
		return err
	}

	eh := errorHandler{d: *d}

	initDisplay(&eh, d.opts)

	return eh.err
}

// SetRefreshDepth selects the waveform used by the following Draw calls.
// refresh.Partial only drives changed pixels; any other depth does a full
// refresh.
//
// It implements refresh.Driver.
func (d *Dev) SetRefreshDepth(depth refresh.Depth) error {
	d.depth = depth

	eh := errorHandler{d: *d}

	configDepth(&eh, depth)

	return eh.err
}

// RefreshDepth returns the depth used by the next Draw.
func (d *Dev) RefreshDepth() refresh.Depth {
	return d.depth
}

// Clear clears the display.
func (d *Dev) Clear(color color.Color) error {
	return d.Draw(d.buffer.Bounds(), &image.Uniform{
		C: image1bit.BitModel.Convert(color).(image1bit.Bit),
	}, image.Point{})
}

// ColorModel returns a 1Bit color model.
func (d *Dev) ColorModel() color.Model {
	return image1bit.BitModel
}

// Bounds returns the bounds for the configurated display.
func (d *Dev) Bounds() image.Rectangle {
	return d.bounds
}

// Draw draws the given image to the display and refreshes it with the
// current refresh depth.
func (d *Dev) Draw(dstRect image.Rectangle, src image.Image, srcPts image.Point) error {
	draw.Src.Draw(d.buffer, dstRect.Intersect(d.buffer.Bounds()), src, srcPts)

	eh := errorHandler{d: *d}

	writeImage(&eh, d.buffer, d.depth)

	if eh.err == nil {
		updateDisplay(&eh, d.depth)
	}

	return eh.err
}

// Halt clears the display.
func (d *Dev) Halt() error {
	return d.Clear(image1bit.On)
}

// String returns a string containing configuration information.
func (d *Dev) String() string {
	return fmt.Sprintf("epd.Dev{%s, %s, Width: %d, Height: %d}", d.c, d.dc, d.bounds.Dx(), d.bounds.Dy())
}

// Sleep makes the controller enter deep sleep mode. It can be woken up by
// calling Init again.
func (d *Dev) Sleep() error {
	eh := errorHandler{d: *d}

	// Turn off DC/DC converter, clock, output load and MCU. RAM content is
	// retained.
	eh.sendCommand(deepSleepMode)
	eh.sendData([]byte{0x01})

	return eh.err
}

// Reset the hardware.
func (d *Dev) Reset() error {
	eh := errorHandler{d: *d}

	eh.rstOut(gpio.High)
	time.Sleep(20 * time.Millisecond)
	eh.rstOut(gpio.Low)
	time.Sleep(2 * time.Millisecond)
	eh.rstOut(gpio.High)
	time.Sleep(20 * time.Millisecond)

	return eh.err
}

var _ display.Drawer = &Dev{}
var _ refresh.Driver = &Dev{}
