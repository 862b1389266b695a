// Copyright 2016 Hillcrest Laboratories, Inc. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package hubtest provides a scripted fake hub.Platform for hardware-free
// tests, in the spirit of periph.io's conn/i2c/i2ctest.Playback.
package hubtest

import (
	"bytes"
	"fmt"
	"time"

	"github.com/hcrest/bno070-driver/hub"
)

// IO is one expected I²C transaction: Send, if non-nil, must equal the bytes
// the driver writes; Recv, if the driver requested a read, is copied into
// its buffer.
type IO struct {
	Send []byte
	Recv []byte
}

// FakePlatform is a scripted hub.Platform. Ops is consumed in order by
// successive I2C calls; IntnAsserted is consumed in order by successive
// GetINTN/WaitINTN calls (true meaning INTN is asserted, i.e. data ready).
// Both default to "nothing left" once exhausted: I2C fails loudly, INTN
// reports de-asserted.
type FakePlatform struct {
	Ops          []IO
	IntnAsserted []bool
	TS           []uint32

	Resets    int
	ResetDFUs int

	opPos   int
	intnPos int
	tsPos   int
}

var _ hub.Platform = (*FakePlatform)(nil)

// Reset records a call and succeeds.
func (f *FakePlatform) Reset() error {
	f.Resets++
	return nil
}

// ResetDFU records a call and succeeds.
func (f *FakePlatform) ResetDFU() error {
	f.ResetDFUs++
	return nil
}

// I2C consumes the next scripted IO, failing if send doesn't match or the
// script is exhausted.
func (f *FakePlatform) I2C(send []byte, recv []byte) error {
	if f.opPos >= len(f.Ops) {
		return fmt.Errorf("hubtest: unscripted I2C call: send=% x recv len=%d", send, len(recv))
	}
	op := f.Ops[f.opPos]
	f.opPos++
	if op.Send != nil && !bytes.Equal(send, op.Send) {
		return fmt.Errorf("hubtest: I2C send mismatch: got % x, want % x", send, op.Send)
	}
	if recv != nil {
		copy(recv, op.Recv)
	}
	return nil
}

// GetINTN consumes the next scripted INTN state.
func (f *FakePlatform) GetINTN() bool {
	return !f.nextIntn()
}

// WaitINTN consumes the next scripted INTN state, ignoring timeout: a
// script drives exactly the sequence of waits a test expects.
func (f *FakePlatform) WaitINTN(timeout time.Duration) bool {
	return !f.nextIntn()
}

func (f *FakePlatform) nextIntn() bool {
	if f.intnPos >= len(f.IntnAsserted) {
		return false
	}
	v := f.IntnAsserted[f.intnPos]
	f.intnPos++
	return v
}

// Timestamp returns the next scripted timestamp, or 0 once exhausted.
func (f *FakePlatform) Timestamp() uint32 {
	if f.tsPos >= len(f.TS) {
		return 0
	}
	v := f.TS[f.tsPos]
	f.tsPos++
	return v
}

// Done reports whether every scripted I²C op and INTN state was consumed;
// tests call this to catch scripts that over-provisioned transactions.
func (f *FakePlatform) Done() bool {
	return f.opPos == len(f.Ops) && f.intnPos == len(f.IntnAsserted)
}
