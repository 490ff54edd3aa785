// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package refresh_test

import (
	"fmt"

	"github.com/GermanBionicSystems/einkrefresh/refresh"
	"github.com/GermanBionicSystems/einkrefresh/refresh/refreshtest"
)

func Example() {
	drv := refresh.DriverFunc(func(d refresh.Depth) error {
		fmt.Println(d)
		return nil
	})

	c := refresh.New(drv, &refresh.Opts{Mode: refresh.IntervalBased, Interval: 2})

	// New screen: start from a clean panel.
	c.ForceRefresh(refresh.Full)

	for i := 0; i < 4; i++ {
		c.PrepareNextUpdate()
		// Draw the next frame here.
	}
	// Output:
	// Full
	// Partial
	// Partial
	// Full
	// Partial
}

func ExampleController_ForceRefresh() {
	var rec refreshtest.Record
	c := refresh.New(&rec, &refresh.Opts{Mode: refresh.IntervalBased, Interval: 3})

	c.PrepareNextUpdate()
	c.PrepareNextUpdate()
	fmt.Println(c.State().Counter)

	// A screen transition restarts the interval.
	c.ForceRefresh(refresh.Full)
	fmt.Println(c.State().Counter)
	fmt.Println(rec.Recorded())
	// Output:
	// 2
	// 0
	// [Partial Partial Full]
}
