// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package refreshtest is meant to be used to test code using a
// refresh.Driver.
package refreshtest

import (
	"fmt"
	"sync"

	"github.com/GermanBionicSystems/einkrefresh/refresh"
)

// Record implements refresh.Driver and records every depth it receives.
type Record struct {
	// Err is returned from every SetRefreshDepth call.
	Err error

	sync.Mutex
	Depths []refresh.Depth
}

// SetRefreshDepth implements refresh.Driver.
func (r *Record) SetRefreshDepth(d refresh.Depth) error {
	r.Lock()
	defer r.Unlock()
	r.Depths = append(r.Depths, d)
	return r.Err
}

// Recorded returns a copy of the depths received so far.
func (r *Record) Recorded() []refresh.Depth {
	r.Lock()
	defer r.Unlock()
	return append([]refresh.Depth(nil), r.Depths...)
}

func (r *Record) String() string {
	r.Lock()
	defer r.Unlock()
	return fmt.Sprintf("record(%d)", len(r.Depths))
}

var _ refresh.Driver = &Record{}
var _ fmt.Stringer = &Record{}
