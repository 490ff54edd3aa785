// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package waveshare2in13v4

import (
	"errors"
	"time"

	"periph.io/x/conn/v3/gpio"
)

// errBusyTimeout is returned when the controller keeps BUSY high. A full
// refresh takes about 2s.
var errBusyTimeout = errors.New("waveshare2in13v4: timed out waiting for BUSY to go low")

// busyTimeout bounds a single wait for the controller.
var busyTimeout = 10 * time.Second

// errorHandler is a wrapper for error management. Once an operation failed
// all following ones are skipped and err is kept.
type errorHandler struct {
	d   Dev
	err error
}

func (eh *errorHandler) rstOut(l gpio.Level) {
	if eh.err != nil {
		return
	}
	eh.err = eh.d.rst.Out(l)
}

// readBusy blocks until the controller is idle, waking up on the falling edge
// configured in New.
func (eh *errorHandler) readBusy() {
	if eh.err != nil {
		return
	}
	deadline := time.Now().Add(busyTimeout)
	for eh.d.busy.Read() == gpio.High {
		left := time.Until(deadline)
		if left <= 0 {
			eh.err = errBusyTimeout
			return
		}
		if left > 100*time.Millisecond {
			left = 100 * time.Millisecond
		}
		eh.d.busy.WaitForEdge(left)
	}
}

// transfer writes b with the DC line at dc: low for commands, high for data.
func (eh *errorHandler) transfer(dc gpio.Level, b []byte) {
	for _, step := range []func() error{
		func() error { return eh.d.dc.Out(dc) },
		func() error { return eh.d.cs.Out(gpio.Low) },
		func() error { return eh.d.c.Tx(b, nil) },
		func() error { return eh.d.cs.Out(gpio.High) },
	} {
		if eh.err != nil {
			return
		}
		eh.err = step()
	}
}

func (eh *errorHandler) sendCommand(cmd byte) {
	eh.transfer(gpio.Low, []byte{cmd})
}

func (eh *errorHandler) sendData(data []byte) {
	eh.transfer(gpio.High, data)
}

func (eh *errorHandler) sendByte(data byte) {
	eh.transfer(gpio.High, []byte{data})
}
