// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package einkrefresh is a container for the e-ink refresh policy and the
// panel drivers it controls.
//
// The policy itself lives in package refresh. waveshare2in13v4 and einksim
// are drivers it can steer, config loads its settings and frame draws the
// screens used by the einkrefresh command.
package einkrefresh
