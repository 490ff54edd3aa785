// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package refresh decides which refresh depth an e-ink panel uses on each
// screen update.
//
// E-paper controllers offer a full refresh, which clears ghosting at the cost
// of a visible flash, and a partial (grayscale) refresh, which is fast but
// leaves artifacts behind when used repeatedly. In IntervalBased mode the
// Controller issues partial refreshes and forces a full one after a
// configured number of consecutive partial refreshes. In any other mode the
// Controller is inert.
//
// The Controller does not render anything itself. It sends one command per
// decision to a Driver, which is expected to apply the depth to the next
// panel update.
package refresh
