// Copyright 2022 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package waveshare2in13v4

import (
	"errors"
	"image"
	"testing"
	"time"

	"github.com/GermanBionicSystems/einkrefresh/refresh"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"periph.io/x/conn/v3/conntest"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spitest"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

func newTestDev(t *testing.T, p spi.Port, opts *Opts) *Dev {
	t.Helper()

	dev, err := New(p, &gpiotest.Pin{}, &gpiotest.Pin{}, &gpiotest.Pin{}, &gpiotest.Pin{
		EdgesChan: make(chan gpio.Level, 1),
	}, opts)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	return dev
}

func TestNew(t *testing.T) {
	for _, tc := range []struct {
		name             string
		opts             Opts
		wantString       string
		wantBounds       image.Rectangle
		wantBufferBounds image.Rectangle
	}{
		{
			name:       "empty",
			wantString: "epd.Dev{playback, (0), Width: 0, Height: 0}",
		},
		{
			name:             "EPD2in13v4",
			opts:             EPD2in13v4,
			wantBounds:       image.Rect(0, 0, 122, 250),
			wantBufferBounds: image.Rect(0, 0, 128, 250),
			wantString:       "epd.Dev{playback, (0), Width: 122, Height: 250}",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			dev := newTestDev(t, &spitest.Playback{}, &tc.opts)

			if diff := cmp.Diff(dev.String(), tc.wantString); diff != "" {
				t.Errorf("String() difference (-got +want):\n%s", diff)
			}

			if diff := cmp.Diff(dev.Bounds(), tc.wantBounds); diff != "" {
				t.Errorf("Bounds() difference (-got +want):\n%s", diff)
			}

			if diff := cmp.Diff(dev.buffer.Bounds(), tc.wantBufferBounds); diff != "" {
				t.Errorf("buffer.Bounds() difference (-got +want):\n%s", diff)
			}

			if got := dev.RefreshDepth(); got != refresh.Full {
				t.Errorf("RefreshDepth() = %v, want %v", got, refresh.Full)
			}

			if !dev.buffer.Bounds().Empty() {
				if diff := cmp.Diff(dev.buffer.BitAt(0, 0), image1bit.On); diff != "" {
					t.Errorf("buffer.BitAt(0, 0) difference (-got +want):\n%s", diff)
				}
			}
		})
	}
}

func TestSetRefreshDepth(t *testing.T) {
	for _, tc := range []struct {
		name  string
		depth refresh.Depth
		want  []conntest.IO
	}{
		{
			name:  "partial",
			depth: refresh.Partial,
			want:  []conntest.IO{{W: []byte{borderWaveformControl}}, {W: []byte{borderHiZ}}},
		},
		{
			name:  "full",
			depth: refresh.Full,
			want:  []conntest.IO{{W: []byte{borderWaveformControl}}, {W: []byte{borderFollowLUT}}},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			rec := &spitest.Record{}
			dev := newTestDev(t, rec, &EPD2in13v4)

			if err := dev.SetRefreshDepth(tc.depth); err != nil {
				t.Fatalf("SetRefreshDepth() failed: %v", err)
			}

			if got := dev.RefreshDepth(); got != tc.depth {
				t.Errorf("RefreshDepth() = %v, want %v", got, tc.depth)
			}

			if diff := cmp.Diff(rec.Ops, tc.want, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("SPI transfers difference (-got +want):\n%s", diff)
			}
		})
	}
}

func TestSetRefreshDepthError(t *testing.T) {
	pb := &spitest.Playback{Playback: conntest.Playback{DontPanic: true}}
	dev := newTestDev(t, pb, &EPD2in13v4)

	if err := dev.SetRefreshDepth(refresh.Partial); err == nil {
		t.Error("SetRefreshDepth() succeeded on a failing bus")
	}
}

func TestDrawUsesDepth(t *testing.T) {
	opts := Opts{Width: 8, Height: 1}

	for _, tc := range []struct {
		name       string
		depth      refresh.Depth
		wantRedRAM bool
		wantSeq    byte
	}{
		{name: "full", depth: refresh.Full, wantRedRAM: true, wantSeq: 0xf7},
		{name: "partial", depth: refresh.Partial, wantSeq: 0xff},
	} {
		t.Run(tc.name, func(t *testing.T) {
			rec := &spitest.Record{}
			dev := newTestDev(t, rec, &opts)

			if err := dev.SetRefreshDepth(tc.depth); err != nil {
				t.Fatalf("SetRefreshDepth() failed: %v", err)
			}
			rec.Ops = nil

			if err := dev.Clear(image1bit.Off); err != nil {
				t.Fatalf("Clear() failed: %v", err)
			}

			var cmds []byte
			var seq byte
			for i, op := range rec.Ops {
				if len(op.W) != 1 {
					continue
				}
				if op.W[0] == displayUpdateControl2 && i+1 < len(rec.Ops) {
					seq = rec.Ops[i+1].W[0]
				}
				cmds = append(cmds, op.W[0])
			}

			hasRed := false
			for _, c := range cmds {
				if c == writeRAMRed {
					hasRed = true
				}
			}
			if hasRed != tc.wantRedRAM {
				t.Errorf("red RAM written = %v, want %v", hasRed, tc.wantRedRAM)
			}
			if seq != tc.wantSeq {
				t.Errorf("update sequence = %#x, want %#x", seq, tc.wantSeq)
			}
		})
	}
}

func TestInitBusyTimeout(t *testing.T) {
	defer func(d time.Duration) { busyTimeout = d }(busyTimeout)
	busyTimeout = 50 * time.Millisecond

	dev, err := New(&spitest.Record{}, &gpiotest.Pin{}, &gpiotest.Pin{}, &gpiotest.Pin{}, &gpiotest.Pin{
		L:         gpio.High,
		EdgesChan: make(chan gpio.Level, 1),
	}, &EPD2in13v4)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if err := dev.Init(); !errors.Is(err, errBusyTimeout) {
		t.Errorf("Init() = %v, want %v", err, errBusyTimeout)
	}
}

func TestSendSkipsAfterError(t *testing.T) {
	pb := &spitest.Playback{Playback: conntest.Playback{DontPanic: true}}
	dev := newTestDev(t, pb, &EPD2in13v4)

	eh := errorHandler{d: *dev}
	eh.sendCommand(swReset)
	first := eh.err
	if first == nil {
		t.Fatal("sendCommand() succeeded on a failing bus")
	}

	eh.sendData([]byte{0x01})
	eh.readBusy()
	if eh.err != first {
		t.Errorf("err = %v, want the first error %v", eh.err, first)
	}
}
