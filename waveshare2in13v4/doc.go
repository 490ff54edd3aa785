// Copyright 2023 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package waveshare2in13v4 controls Waveshare 2.13 v4 e-paper displays and
// lets a refresh.Controller choose between full and partial refreshes.
//
// Datasheet:
// https://files.waveshare.com/upload/5/59/2.13inch_e-Paper_V3_Specificition.pdf
//
// Product page:
// https://www.waveshare.com/wiki/2.13inch_e-Paper_HAT_Manual#Resources
//
// The panel keeps the previous frame in its red RAM. A partial refresh only
// drives the pixels that differ from it, which is fast and does not flash but
// leaves ghosting behind over time. A full refresh drives every pixel through
// the complete waveform.
package waveshare2in13v4
