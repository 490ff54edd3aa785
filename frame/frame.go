// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package frame draws the status screen shown on the panel for each update.
//
// The screen shows the update number, the refresh policy and a bar that fills
// up as partial refreshes accumulate towards the next forced full refresh.
package frame

import (
	"fmt"
	"image"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/GermanBionicSystems/einkrefresh/refresh"
)

// Renderer draws frames of a fixed size.
type Renderer struct {
	w, h int
	face font.Face
}

// New returns a Renderer for w×h frames using Go Regular at the given point
// size.
func New(w, h int, size float64) (*Renderer, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("frame: invalid size %dx%d", w, h)
	}
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("frame: %w", err)
	}
	return &Renderer{
		w:    w,
		h:    h,
		face: truetype.NewFace(f, &truetype.Options{Size: size}),
	}, nil
}

// Bounds returns the frame bounds.
func (r *Renderer) Bounds() image.Rectangle {
	return image.Rect(0, 0, r.w, r.h)
}

// BarY returns the row crossing the middle of the progress bar.
func (r *Renderer) BarY() int {
	h := float64(r.h)
	return int(h - h/10 - h/12)
}

// Render draws frame n for the given policy state. Black on white.
func (r *Renderer) Render(n int, st refresh.State) image.Image {
	dc := gg.NewContext(r.w, r.h)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	dc.SetRGB(0, 0, 0)
	dc.SetFontFace(r.face)
	w, h := float64(r.w), float64(r.h)
	pad := h / 10

	dc.DrawStringAnchored(fmt.Sprintf("Update %d", n), pad, pad, 0, 1)
	dc.DrawStringAnchored(fmt.Sprintf("%s %d/%d", st.Mode, st.Counter, st.Interval), pad, h/2, 0, 0.5)

	// Progress towards the next full refresh.
	barH := h / 6
	dc.SetLineWidth(1)
	dc.DrawRectangle(pad, h-pad-barH, w-2*pad, barH)
	dc.Stroke()
	if fill := barWidth(st, w-2*pad); fill > 0 {
		dc.DrawRectangle(pad, h-pad-barH, fill, barH)
		dc.Fill()
	}

	return dc.Image()
}

func barWidth(st refresh.State, width float64) float64 {
	if st.Mode != refresh.IntervalBased || st.Interval <= 0 {
		return 0
	}
	c := st.Counter
	if c > st.Interval {
		c = st.Interval
	}
	return width * float64(c) / float64(st.Interval)
}
