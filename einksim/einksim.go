// Copyright 2017 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package einksim implements an e-ink panel emulator that outputs to the
// terminal using ANSI color codes.
//
// It renders the first row of every drawn image as a strip of blocks. Partial
// refreshes leave a growing shadow of the previous frame behind, the way
// ghosting builds up on real e-paper, while full refreshes flash and clear
// it. Useful to tune a refresh.Controller interval without a panel attached.
package einksim

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"
	"sync"

	"github.com/GermanBionicSystems/einkrefresh/refresh"
	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3/display"
)

// Opts represents the options available for this display.
type Opts struct {
	Width   int
	Palette *ansi256.Palette
	// Writer defaults to a colorable stdout.
	Writer io.Writer
	// MaxGhosting is the number of partial refreshes after which the shadow
	// stops getting stronger. Defaults to 8.
	MaxGhosting int

	_ struct{}
}

// Dev is an e-ink panel emulator that outputs to the console.
type Dev struct {
	w        io.Writer
	l        int
	palette  ansi256.Palette
	maxGhost int

	mu        sync.Mutex
	depth     refresh.Depth
	ghost     int
	refreshes map[refresh.Depth]int
	pixels    []uint8
	prev      []uint8
	buf       bytes.Buffer
}

// New returns a Dev that displays at the console.
func New(opts *Opts) *Dev {
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	w := opts.Writer
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	m := opts.MaxGhosting
	if m <= 0 {
		m = 8
	}
	d := &Dev{
		w:         w,
		l:         opts.Width,
		palette:   *p,
		maxGhost:  m,
		depth:     refresh.Full,
		refreshes: map[refresh.Depth]int{},
		pixels:    make([]uint8, opts.Width),
		prev:      make([]uint8, opts.Width),
	}
	for i := range d.pixels {
		d.pixels[i] = 0xFF
		d.prev[i] = 0xFF
	}
	return d
}

func (d *Dev) String() string {
	return "EInkSim"
}

// SetRefreshDepth implements refresh.Driver. The depth applies to the
// following Draw calls.
func (d *Dev) SetRefreshDepth(depth refresh.Depth) error {
	d.mu.Lock()
	d.depth = depth
	d.mu.Unlock()
	return nil
}

// Ghosting returns the current shadow strength, between 0 and MaxGhosting.
func (d *Dev) Ghosting() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.ghost
}

// Refreshes returns the number of Draw calls per refresh depth.
func (d *Dev) Refreshes() map[refresh.Depth]int {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make(map[refresh.Depth]int, len(d.refreshes))
	for k, v := range d.refreshes {
		out[k] = v
	}
	return out
}

// Halt implements conn.Resource.
//
// It resets the terminal colors so it is not corrupted.
func (d *Dev) Halt() error {
	_, err := d.w.Write([]byte("\n\033[0m"))
	return err
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return color.GrayModel
}

// Bounds implements display.Drawer.
func (d *Dev) Bounds() image.Rectangle {
	return image.Rectangle{Max: image.Point{X: d.l, Y: 1}}
}

// Draw implements display.Drawer.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	copy(d.prev, d.pixels)

	r = r.Intersect(d.Bounds())
	srcR := src.Bounds()
	srcR.Min = srcR.Min.Add(sp)
	if dX := r.Dx(); dX < srcR.Dx() {
		srcR.Max.X = srcR.Min.X + dX
	}
	deltaX := r.Min.X - srcR.Min.X
	for sX := srcR.Min.X; sX < srcR.Max.X; sX++ {
		d.pixels[sX+deltaX] = color.GrayModel.Convert(src.At(sX, srcR.Min.Y)).(color.Gray).Y
	}

	d.refreshes[d.depth]++
	if d.depth == refresh.Partial {
		if d.ghost < d.maxGhost {
			d.ghost++
		}
		return d.render(false)
	}
	d.ghost = 0
	return d.render(true)
}

// render must be called with mu held.
func (d *Dev) render(flash bool) error {
	d.buf.Reset()
	_, _ = d.buf.WriteString("\r\033[0m")
	if flash {
		for range d.pixels {
			_, _ = io.WriteString(&d.buf, d.palette.Block(color.NRGBA{A: 255}))
		}
		_, _ = d.buf.WriteString("\033[0m\r")
	}
	for i, v := range d.pixels {
		y := d.shade(v, d.prev[i])
		_, _ = io.WriteString(&d.buf, d.palette.Block(color.NRGBA{y, y, y, 255}))
	}
	_, _ = fmt.Fprintf(&d.buf, "\033[0m ghost=%d ", d.ghost)
	_, err := d.buf.WriteTo(d.w)
	return err
}

// shade blends the previous pixel into the new one according to the ghosting
// level. At maximum ghosting half of the old value remains visible.
func (d *Dev) shade(cur, old uint8) uint8 {
	if d.ghost == 0 {
		return cur
	}
	delta := (int(old) - int(cur)) * d.ghost / (2 * d.maxGhost)
	return uint8(int(cur) + delta)
}

var _ display.Drawer = &Dev{}
var _ refresh.Driver = &Dev{}
var _ fmt.Stringer = &Dev{}
